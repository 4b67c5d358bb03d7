// Package regexcore implements the core of a regular-expression engine:
// a pattern parser, an NFA compiler, and a matcher that runs either a
// non-backtracking parallel simulation or a recursive backtracking
// fallback, depending on whether the pattern contains backreferences.
//
// Basic usage:
//
//	re, err := regexcore.Compile(`a(b+)c`, regexcore.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	re.ForMatch("aabbbcdabc", func(m regexcore.Match) bool {
//	    fmt.Println(m.FullMatch, m.Groups[1])
//	    return true // keep going
//	})
//
// Out of scope: substring replacement, splitting, a public group-name
// lookup, command-line tooling, and a Unicode category database beyond
// what the grammar itself names.
package regexcore

import (
	"unicode/utf8"

	"github.com/coregx/regexcore/compile"
	"github.com/coregx/regexcore/cursor"
	"github.com/coregx/regexcore/literal"
	"github.com/coregx/regexcore/matcher"
	"github.com/coregx/regexcore/nfa"
	"github.com/coregx/regexcore/parse"
	"github.com/coregx/regexcore/prefilter"
)

// Match is a single successful match.
type Match struct {
	// FullMatch is the matched substring.
	FullMatch string

	// EndIndex is the byte offset one past the match's last byte.
	EndIndex int

	// Groups maps capture index (1-based; 0 is never present here,
	// it IS FullMatch) to its captured text. A group the match didn't
	// traverse is absent from the map rather than present as "".
	Groups map[int]string
}

// Regex is a compiled pattern. The compiled artifact (AST, states,
// transitions, capture table) never changes after Compile returns.
// Each ForMatch call constructs its own matcher, but ForMatch also
// records its statistics in the Regex (see Stats), so concurrent
// ForMatch calls on the same Regex race on that field.
type Regex struct {
	pattern   string
	opts      Options
	compiled  *nfa.CompiledRegex
	debug     *debugLogger
	lastStats EngineStats

	// prefilterScanner accelerates ForMatch when the pattern reduces
	// entirely to a required literal set (e.g. `cat|dog|bird`); nil
	// whenever literal.Extract finds no such shape or the pattern is
	// case-insensitive (the scanner is built over exact bytes). In
	// multiline mode it is still built, but prefilterHit does not
	// consult it. A hit is only
	// ever a search-origin hint: the compiled engine always re-verifies
	// the actual match.
	prefilterScanner *prefilter.LiteralSetScanner
}

// Compile parses and compiles pattern, or returns a *CompileError.
func Compile(pattern string, opts Options) (*Regex, error) {
	grammar := parse.NewGrammar(parse.Options{
		Multiline:                opts.Multiline,
		DotMatchesLineSeparators: opts.DotMatchesLineSeparators,
	})
	root, err := grammar.Parse(pattern)
	if err != nil {
		if pe, ok := err.(*parse.ParseError); ok {
			return nil, &CompileError{Pattern: pattern, Message: pe.Message, Offset: pe.Offset}
		}
		return nil, err
	}

	compiled, err := compile.Compile(root, pattern, compile.Options{CaseInsensitive: opts.CaseInsensitive})
	if err != nil {
		return nil, err
	}

	re := &Regex{pattern: pattern, opts: opts, compiled: compiled, debug: globalDebug}
	if !opts.CaseInsensitive {
		if set, ok := literal.Extract(root); ok {
			if scanner, ok := prefilter.NewLiteralSetScanner(set.Literals); ok {
				re.prefilterScanner = scanner
			}
		}
	}
	re.debug.logf("compiled %q: %d states, %d capture groups, regular=%v, prefilter=%v", pattern, compiled.NumStates, len(compiled.CaptureGroups), compiled.IsRegular, re.prefilterScanner != nil)
	return re, nil
}

// MustCompile is Compile, panicking on error, for patterns known
// valid at compile time (e.g. package-level var initializers).
func MustCompile(pattern string, opts Options) *Regex {
	re, err := Compile(pattern, opts)
	if err != nil {
		panic("regexcore: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// IsRegular reports whether the compiled pattern contains no
// backreferences (and therefore runs on the parallel simulator rather
// than the backtracker).
func (re *Regex) IsRegular() bool { return re.compiled.IsRegular }

// NumCaptureGroups returns the number of capturing groups the pattern declared.
func (re *Regex) NumCaptureGroups() int { return len(re.compiled.CaptureGroups) }

// ForMatch invokes callback once per match, left to right, stopping
// when callback returns false or the input is exhausted. Multiline
// mode splits the input on '\n' and matches each line independently;
// otherwise the whole input is one slice.
func (re *Regex) ForMatch(input string, callback func(Match) bool) {
	sim := newEngine(re.compiled, re.opts.resolveMaxBacktrackSteps())
	re.lastStats = EngineStats{UsedBacktracker: !re.compiled.IsRegular}

	previousMatchIndex := -1
	for _, sl := range splitSlices(input, re.opts.Multiline) {
		if !re.forMatchSlice(sim, input, sl, &previousMatchIndex, callback) {
			return
		}
	}
}

type slice struct{ start, end int }

// splitSlices produces one slice per line (without its trailing '\n')
// in multiline mode, or a single slice spanning the whole input
// otherwise.
func splitSlices(input string, multiline bool) []slice {
	if !multiline {
		return []slice{{start: 0, end: len(input)}}
	}
	var slices []slice
	start := 0
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			slices = append(slices, slice{start: start, end: i})
			start = i + 1
		}
	}
	slices = append(slices, slice{start: start, end: len(input)})
	return slices
}

// engine is the common interface matcher.Simulator and
// matcher.Backtracker both satisfy, letting ForMatch drive either
// without caring which one it has: the simulator runs when the
// pattern is regular, the backtracker when it contains backreferences.
type engine interface {
	Find(origin cursor.Cursor) (cursor.Cursor, bool)
}

func newEngine(re *nfa.CompiledRegex, maxBacktrackSteps int) engine {
	if re.IsRegular {
		return matcher.NewSimulator(re)
	}
	return matcher.NewBacktracker(re, maxBacktrackSteps)
}

// prefilterHit reports the next candidate start position for the
// pattern's required literal set at or after from, if re has a usable
// prefilter scanner and the hit starts inside the current slice. This
// is purely a search-origin hint, not a verified match: the compiled
// engine still has to confirm it, since the automaton's own ordering
// doesn't guarantee it agrees with the NFA's leftmost-first semantics
// (an alternation like `abc|ab` can pick a different branch). Disabled
// under CaseInsensitive (see Compile, which never builds the scanner
// in that case) and in multiline mode: the scanner searches the whole
// input string regardless of line boundaries, and re-deriving per-line
// bounds for it isn't worth the complexity this supplemental feature
// is meant to save.
func (re *Regex) prefilterHit(input string, from, sliceEnd int) (start int, ok bool) {
	if re.prefilterScanner == nil || re.opts.Multiline {
		return 0, false
	}
	start, _, ok = re.prefilterScanner.Find([]byte(input), from)
	if !ok || start > sliceEnd {
		return 0, false
	}
	return start, true
}

func (re *Regex) forMatchSlice(eng engine, input string, sl slice, previousMatchIndex *int, callback func(Match) bool) bool {
	base := cursor.New(input, sl.start, sl.end, sl.start)
	if *previousMatchIndex >= 0 {
		base = base.SetPreviousMatchIndex(*previousMatchIndex)
	}

	origin := sl.start
	first := true
	for origin <= sl.end {
		if !first {
			re.lastStats.RetriesAttempted++
		}
		first = false

		if hitStart, ok := re.prefilterHit(input, origin, sl.end); ok && hitStart > origin {
			origin = hitStart
		}
		attempt := base.RetryAt(origin)
		result, matched := eng.Find(attempt)
		if !matched {
			return true
		}
		re.lastStats.MatchesFound++

		m := buildMatch(result)
		*previousMatchIndex = m.EndIndex
		base = base.SetPreviousMatchIndex(m.EndIndex)

		if !callback(m) {
			return false
		}

		if re.compiled.IsFromStartOfString {
			return true
		}

		if m.EndIndex > result.StartIndex() {
			origin = m.EndIndex
		} else {
			origin = nextIndex(input, m.EndIndex)
		}
	}
	return true
}

func buildMatch(c cursor.Cursor) Match {
	full := c.FullInput()
	start, end := c.StartIndex(), c.Index()
	groups := make(map[int]string, len(c.Groups()))
	for idx, r := range c.Groups() {
		groups[idx] = full[r.Lo:r.Hi]
	}
	return Match{FullMatch: full[start:end], EndIndex: end, Groups: groups}
}

// nextIndex guarantees progress past idx even for an empty match.
func nextIndex(input string, idx int) int {
	if idx >= len(input) {
		return idx + 1
	}
	_, width := utf8.DecodeRuneInString(input[idx:])
	if width == 0 {
		width = 1
	}
	return idx + width
}
