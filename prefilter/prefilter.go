// Package prefilter provides an optional pre-match accelerant for the
// matcher driver: when a pattern's possible matches are bounded to a
// fixed set of required literal strings (package literal), an
// Aho-Corasick automaton built over that set lets the driver skip
// straight to the next byte offset any literal could start at, instead
// of invoking the compiled NFA/backtracker at every position.
//
// A prefilter never changes which matches are reported, only which
// input regions the full engine is asked to verify first: a hit from
// Find is always a candidate, and the compiled engine still decides
// the actual match boundaries.
package prefilter

import (
	"github.com/coregx/ahocorasick"
	"github.com/coregx/regexcore/internal/scan"
)

// LiteralSetScanner finds the next candidate start position for one of
// a fixed set of required literals.
type LiteralSetScanner struct {
	automaton *ahocorasick.Automaton

	// firstBytes holds the distinct first bytes across every literal
	// in the set, up to 2 of them. When there are exactly 1 or 2, Find
	// can skip ahead with a SWAR byte scan before handing the rest of
	// the work to the automaton; more than 2 disables this fast path
	// (firstBytes left nil) and Find goes straight to the automaton.
	firstBytes []byte
}

// NewLiteralSetScanner builds a scanner over literals. It returns
// ok=false if literals is empty or the automaton fails to build (the
// caller should fall back to running the compiled engine directly).
func NewLiteralSetScanner(literals []string) (*LiteralSetScanner, bool) {
	if len(literals) == 0 {
		return nil, false
	}
	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern([]byte(lit))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, false
	}
	return &LiteralSetScanner{automaton: auto, firstBytes: distinctFirstBytes(literals)}, true
}

// distinctFirstBytes returns the distinct first byte of every literal,
// or nil if there are more than 2 or any literal is empty.
func distinctFirstBytes(literals []string) []byte {
	var firsts []byte
	for _, lit := range literals {
		if lit == "" {
			return nil
		}
		b := lit[0]
		seen := false
		for _, f := range firsts {
			if f == b {
				seen = true
				break
			}
		}
		if !seen {
			firsts = append(firsts, b)
			if len(firsts) > 2 {
				return nil
			}
		}
	}
	return firsts
}

// Find returns the byte range [start, end) of the first literal
// occurring at or after from in haystack, or ok=false if none remain.
func (s *LiteralSetScanner) Find(haystack []byte, from int) (start, end int, ok bool) {
	if from >= len(haystack) {
		return 0, 0, false
	}
	from = s.skipToFirstByte(haystack, from)
	if from < 0 {
		return 0, 0, false
	}
	m := s.automaton.Find(haystack, from)
	if m == nil {
		return 0, 0, false
	}
	return m.Start, m.End, true
}

// skipToFirstByte advances from to the next position that could begin
// some literal in the set, using a SWAR scan over the set's distinct
// first byte(s) rather than invoking the automaton over bytes that
// cannot possibly start a match. It returns -1 if no such byte remains.
func (s *LiteralSetScanner) skipToFirstByte(haystack []byte, from int) int {
	switch len(s.firstBytes) {
	case 1:
		i := scan.IndexByte(haystack[from:], s.firstBytes[0])
		if i < 0 {
			return -1
		}
		return from + i
	case 2:
		i := scan.IndexAny2(haystack[from:], s.firstBytes[0], s.firstBytes[1])
		if i < 0 {
			return -1
		}
		return from + i
	default:
		return from
	}
}
