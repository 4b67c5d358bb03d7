// Package parse implements a small, reusable parser combinator kernel
// (this file) plus the regex grammar built on top of it (grammar.go).
//
// The kernel's contract, transactional on the input: a parser that
// reports "no match" leaves the cursor exactly where it found it; a
// parser that reports a hard error also rewinds before propagating.
// oneOf relies on this to try alternatives cleanly. Grounded on the
// sequence/alternative/qualifier combinators of github.com/hucsmn/peg
// (combining.go), reworked as direct Go closures with generics instead
// of peg's trampolined continuation machinery, which this grammar has
// no need for.
package parse

import (
	"strings"
	"unicode/utf8"
)

// State is the mutable parse cursor over a pattern string. All kernel
// primitives and combinators operate on it by pointer and restore Pos
// on failure.
type State struct {
	input string
	pos   int
}

// NewState creates a parse cursor positioned at the start of input.
func NewState(input string) *State {
	return &State{input: input}
}

// Pos returns the current byte offset into the pattern.
func (s *State) Pos() int { return s.pos }

// AtEnd reports whether the cursor has consumed the whole pattern.
func (s *State) AtEnd() bool { return s.pos >= len(s.input) }

// Rest returns the unconsumed suffix of the pattern.
func (s *State) Rest() string { return s.input[s.pos:] }

// mark/reset implement the rewind half of the transactional contract.
func (s *State) mark() int       { return s.pos }
func (s *State) reset(mark int)  { s.pos = mark }
func (s *State) advance(n int)   { s.pos += n }

// ParseError is a hard parse failure raised by Required; it carries the
// byte offset at which commitment happened and a human-readable message.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string { return e.Message }

// Parser attempts to parse a T starting at the state's current
// position. ok=false with err=nil means "no match, try something
// else" (state is rewound). err!=nil means a hard failure that must
// propagate past any enclosing OneOf (state is rewound too, since the
// parse as a whole is going to fail; the rewind just keeps the
// contract uniform for anyone inspecting Pos from the error).
type Parser[T any] func(s *State) (value T, ok bool, err error)

// ----- primitives -----

// Literal matches an exact, case-sensitive substring.
func Literal(lit string) Parser[string] {
	return func(s *State) (string, bool, error) {
		if strings.HasPrefix(s.Rest(), lit) {
			s.advance(len(lit))
			return lit, true, nil
		}
		return "", false, nil
	}
}

// AnyChar matches any single rune, rewinding on end-of-input.
func AnyChar() Parser[rune] {
	return func(s *State) (rune, bool, error) {
		if s.AtEnd() {
			return 0, false, nil
		}
		r, width := utf8.DecodeRuneInString(s.Rest())
		s.advance(width)
		return r, true, nil
	}
}

// CharWhere matches a single rune satisfying pred.
func CharWhere(pred func(rune) bool) Parser[rune] {
	return func(s *State) (rune, bool, error) {
		if s.AtEnd() {
			return 0, false, nil
		}
		r, width := utf8.DecodeRuneInString(s.Rest())
		if !pred(r) {
			return 0, false, nil
		}
		s.advance(width)
		return r, true, nil
	}
}

// CharExcluding matches any rune not present in excluded.
func CharExcluding(excluded string) Parser[rune] {
	return CharWhere(func(r rune) bool { return !strings.ContainsRune(excluded, r) })
}

// Digit matches a single ASCII decimal digit.
func Digit() Parser[rune] {
	return CharWhere(func(r rune) bool { return r >= '0' && r <= '9' })
}

// Number matches one or more decimal digits and parses them as an int.
func Number() Parser[int] {
	digits := OneOrMore(Digit())
	return Map(digits, func(rs []rune) (int, bool) {
		n := 0
		for _, r := range rs {
			n = n*10 + int(r-'0')
		}
		return n, true
	})
}

// ----- combinators -----

// Map transforms a successful parse's value. f may return ok=false to
// turn a successful parse into "no match" without consuming input
// (the underlying parser already advanced, but the combinator rewinds
// to the pre-parse mark since the caller never gets a value back).
func Map[T, U any](p Parser[T], f func(T) (U, bool)) Parser[U] {
	return func(s *State) (U, bool, error) {
		var zero U
		mark := s.mark()
		v, ok, err := p(s)
		if err != nil {
			s.reset(mark)
			return zero, false, err
		}
		if !ok {
			return zero, false, nil
		}
		u, ok := f(v)
		if !ok {
			s.reset(mark)
			return zero, false, nil
		}
		return u, true, nil
	}
}

// FlatMap sequences a second parser chosen from the first result.
func FlatMap[T, U any](p Parser[T], f func(T) Parser[U]) Parser[U] {
	return func(s *State) (U, bool, error) {
		var zero U
		mark := s.mark()
		v, ok, err := p(s)
		if err != nil {
			s.reset(mark)
			return zero, false, err
		}
		if !ok {
			return zero, false, nil
		}
		u, ok, err := f(v)(s)
		if err != nil || !ok {
			s.reset(mark)
			return zero, false, err
		}
		return u, true, nil
	}
}

// OneOf tries each parser in order and returns the first success,
// rewinding between attempts. A hard error from any alternative aborts
// the whole OneOf instead of being swallowed, once an alternative
// starts raising hard errors instead of just failing, the grammar is
// already committed to that production.
func OneOf[T any](ps ...Parser[T]) Parser[T] {
	return func(s *State) (T, bool, error) {
		var zero T
		mark := s.mark()
		for _, p := range ps {
			s.reset(mark)
			v, ok, err := p(s)
			if err != nil {
				s.reset(mark)
				return zero, false, err
			}
			if ok {
				return v, true, nil
			}
		}
		s.reset(mark)
		return zero, false, nil
	}
}

// Zip2 sequences two parsers, both of which must succeed.
func Zip2[A, B any](pa Parser[A], pb Parser[B]) Parser[struct {
	A A
	B B
}] {
	type pair = struct {
		A A
		B B
	}
	return func(s *State) (pair, bool, error) {
		var zero pair
		mark := s.mark()
		a, ok, err := pa(s)
		if err != nil {
			s.reset(mark)
			return zero, false, err
		}
		if !ok {
			s.reset(mark)
			return zero, false, nil
		}
		b, ok, err := pb(s)
		if err != nil || !ok {
			s.reset(mark)
			return zero, false, err
		}
		return pair{A: a, B: b}, true, nil
	}
}

// Optional runs p and rewinds on no match: it reports (value, true)
// when p matched and (zero, false) with a nil error when it didn't, so
// ok tells the caller whether the wrapped parser fired. A hard error
// from p is passed through after rewinding.
func Optional[T any](p Parser[T]) Parser[T] {
	return func(s *State) (T, bool, error) {
		var zero T
		mark := s.mark()
		v, ok, err := p(s)
		if err != nil {
			s.reset(mark)
			return zero, false, err
		}
		if !ok {
			s.reset(mark)
			return zero, false, nil
		}
		return v, true, nil
	}
}

// ZeroOrMore greedily collects as many matches as possible, never failing.
func ZeroOrMore[T any](p Parser[T]) Parser[[]T] {
	return func(s *State) ([]T, bool, error) {
		var out []T
		for {
			mark := s.mark()
			v, ok, err := p(s)
			if err != nil {
				s.reset(mark)
				return out, true, err
			}
			if !ok {
				s.reset(mark)
				break
			}
			out = append(out, v)
		}
		return out, true, nil
	}
}

// OneOrMore requires at least one match, then behaves like ZeroOrMore.
func OneOrMore[T any](p Parser[T]) Parser[[]T] {
	return func(s *State) ([]T, bool, error) {
		first, ok, err := p(s)
		if err != nil || !ok {
			return nil, false, err
		}
		rest, _, err := ZeroOrMore(p)(s)
		if err != nil {
			return nil, false, err
		}
		return append([]T{first}, rest...), true, nil
	}
}

// Required promotes a "no match" result from p into a hard ParseError
// carrying message and the offset where the failure was detected.
// Used once a production has committed (e.g. after consuming '[' we
// require a closing ']').
func Required[T any](p Parser[T], message string) Parser[T] {
	return func(s *State) (T, bool, error) {
		var zero T
		mark := s.mark()
		v, ok, err := p(s)
		if err != nil {
			return zero, false, err
		}
		if !ok {
			s.reset(mark)
			return zero, false, &ParseError{Offset: mark, Message: message}
		}
		return v, true, nil
	}
}

// Lazy defers construction of the wrapped parser until match time,
// breaking the recursive definitions the grammar needs (an Expression
// contains Groups which contain Expressions).
func Lazy[T any](build func() Parser[T]) Parser[T] {
	return func(s *State) (T, bool, error) {
		return build()(s)
	}
}
