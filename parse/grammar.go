package parse

import (
	"fmt"

	"github.com/coregx/regexcore/ast"
)

// Options carries the subset of the façade's configuration the grammar
// itself needs to make parse-time decisions: whether `^`/`$` bind to
// line or string boundaries, and whether a bare `.` should be recorded
// as including `\n`. Case-insensitivity is a matching-time concern
// handled by the compiler, not the grammar.
type Options struct {
	Multiline                bool
	DotMatchesLineSeparators bool
}

// Grammar parses a pattern string into an AST, built entirely out of
// the parse.Parser kernel in combinator.go. It is stateful only in the
// capture-group counter, assigned in the order opening parens are
// accepted.
type Grammar struct {
	opts           Options
	nextGroupIndex int
}

// NewGrammar creates a grammar bound to opts. A Grammar is single-use:
// call Parse once per pattern.
func NewGrammar(opts Options) *Grammar {
	return &Grammar{opts: opts, nextGroupIndex: 1}
}

// Parse compiles pattern into a Root AST node, or returns a *ParseError.
func (g *Grammar) Parse(pattern string) (*ast.Node, error) {
	if pattern == "" {
		return nil, &ParseError{Offset: 0, Message: "empty pattern"}
	}
	s := NewState(pattern)
	node, ok, err := g.expression()(s)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ParseError{Offset: s.Pos(), Message: "expected a pattern"}
	}
	if !s.AtEnd() {
		return nil, &ParseError{Offset: s.Pos(), Message: fmt.Sprintf("unexpected %q", s.Rest())}
	}
	return ast.NewRoot(node), nil
}

// expression := concatenation ('|' concatenation)*
func (g *Grammar) expression() Parser[*ast.Node] {
	return Lazy(func() Parser[*ast.Node] {
		return func(s *State) (*ast.Node, bool, error) {
			pos := s.Pos()
			first, ok, err := g.concatenation()(s)
			if err != nil || !ok {
				return nil, ok, err
			}
			alts := []*ast.Node{first}
			for {
				mark := s.mark()
				_, ok, err := Literal("|")(s)
				if err != nil {
					return nil, false, err
				}
				if !ok {
					s.reset(mark)
					break
				}
				next, ok, err := Required(g.concatenation(), "expected an alternative after '|'")(s)
				if err != nil {
					return nil, false, err
				}
				if !ok {
					return nil, false, nil
				}
				alts = append(alts, next)
			}
			if len(alts) == 1 {
				return alts[0], true, nil
			}
			return ast.NewAlternation(pos, alts...), true, nil
		}
	})
}

// concatenation := atom*
func (g *Grammar) concatenation() Parser[*ast.Node] {
	return func(s *State) (*ast.Node, bool, error) {
		pos := s.Pos()
		var atoms []*ast.Node
		for {
			if s.AtEnd() {
				break
			}
			if next := peekByte(s); next == '|' || next == ')' {
				break
			}
			atom, ok, err := g.atom()(s)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				break
			}
			atoms = append(atoms, atom)
		}
		return ast.NewExpression(pos, atoms...), true, nil
	}
}

func peekByte(s *State) byte {
	rest := s.Rest()
	if len(rest) == 0 {
		return 0
	}
	return rest[0]
}

// atom := (group | anchor | backreference | match) quantifier?
func (g *Grammar) atom() Parser[*ast.Node] {
	return func(s *State) (*ast.Node, bool, error) {
		base, ok, err := OneOf(g.group(), g.anchor(), g.backreference(), g.match())(s)
		if err != nil || !ok {
			return nil, ok, err
		}
		return g.applyQuantifier(base)(s)
	}
}

// group := '(' ('?:')? expression ')'
func (g *Grammar) group() Parser[*ast.Node] {
	return Lazy(func() Parser[*ast.Node] {
		return func(s *State) (*ast.Node, bool, error) {
			pos := s.Pos()
			_, ok, err := Literal("(")(s)
			if err != nil || !ok {
				return nil, ok, err
			}

			capturing := true
			index := 0
			if _, ok, _ := Literal("?:")(s); ok {
				capturing = false
			} else {
				index = g.nextGroupIndex
				g.nextGroupIndex++
			}

			child, ok, err := Required(g.expression(), "expected expression inside group")(s)
			if err != nil || !ok {
				return nil, false, err
			}

			_, ok, err = Required(Literal(")"), "expected closing ')'")(s)
			if err != nil || !ok {
				return nil, false, err
			}

			return ast.NewGroup(pos, child, index, capturing), true, nil
		}
	})
}

// anchor := '^' | '$' | '\A' | '\z' | '\Z' | '\b' | '\B' | '\G'
func (g *Grammar) anchor() Parser[*ast.Node] {
	return func(s *State) (*ast.Node, bool, error) {
		pos := s.Pos()
		if _, ok, _ := Literal("^")(s); ok {
			kind := ast.StartOfStringOnly
			if g.opts.Multiline {
				kind = ast.StartOfString
			}
			return ast.NewAnchor(pos, kind), true, nil
		}
		if _, ok, _ := Literal("$")(s); ok {
			kind := ast.EndOfStringOnlyNotNewline
			if g.opts.Multiline {
				kind = ast.EndOfString
			}
			return ast.NewAnchor(pos, kind), true, nil
		}
		if peekByte(s) != '\\' {
			return nil, false, nil
		}
		for lit, kind := range map[string]ast.AnchorKind{
			`\A`: ast.StartOfStringOnly,
			`\z`: ast.EndOfStringOnly,
			`\Z`: ast.EndOfStringOnlyNotNewline,
			`\b`: ast.WordBoundary,
			`\B`: ast.NonWordBoundary,
			`\G`: ast.PreviousMatchEnd,
		} {
			if _, ok, _ := Literal(lit)(s); ok {
				return ast.NewAnchor(pos, kind), true, nil
			}
		}
		return nil, false, nil
	}
}

// backreference := '\' DecimalDigit+, but only once we know it isn't
// one of the anchor/class escapes handled elsewhere (those are tried
// first in atom's OneOf).
func (g *Grammar) backreference() Parser[*ast.Node] {
	return func(s *State) (*ast.Node, bool, error) {
		pos := s.Pos()
		mark := s.mark()
		_, ok, _ := Literal(`\`)(s)
		if !ok {
			return nil, false, nil
		}
		n, ok, err := Number()(s)
		if err != nil {
			return nil, false, err
		}
		if !ok || n == 0 {
			s.reset(mark)
			return nil, false, nil
		}
		return ast.NewBackreference(pos, n), true, nil
	}
}

// match := charSet | '.' | character
func (g *Grammar) match() Parser[*ast.Node] {
	return func(s *State) (*ast.Node, bool, error) {
		pos := s.Pos()

		if set, ok, err := g.shorthandClass()(s); err != nil || ok {
			if err != nil {
				return nil, false, err
			}
			return ast.NewMatchSet(pos, set), true, nil
		}

		if set, ok, err := g.bracketClass()(s); err != nil || ok {
			if err != nil {
				return nil, false, err
			}
			return ast.NewMatchSet(pos, set), true, nil
		}

		if _, ok, _ := Literal(".")(s); ok {
			return ast.NewMatchAny(pos, g.opts.DotMatchesLineSeparators), true, nil
		}

		if r, ok, err := g.literalChar()(s); err != nil || ok {
			if err != nil {
				return nil, false, err
			}
			return ast.NewMatchCharacter(pos, r), true, nil
		}

		return nil, false, nil
	}
}

// literalChar consumes one plain character, or an escaped metacharacter
// / control-character escape such as \n \t \\ \., anything that isn't
// one of the class/anchor escapes already tried.
func (g *Grammar) literalChar() Parser[rune] {
	return func(s *State) (rune, bool, error) {
		if s.AtEnd() {
			return 0, false, nil
		}
		if peekByte(s) == '\\' {
			return g.escapedLiteral()(s)
		}
		return CharExcluding(`|()[]*+?{}.^$`)(s)
	}
}

var simpleEscapes = map[rune]rune{
	'n': '\n', 't': '\t', 'r': '\r', 'f': '\f', 'v': '\v', '0': 0,
}

func (g *Grammar) escapedLiteral() Parser[rune] {
	return func(s *State) (rune, bool, error) {
		mark := s.mark()
		_, ok, _ := Literal(`\`)(s)
		if !ok {
			return 0, false, nil
		}
		r, ok, err := Required(AnyChar(), "dangling escape")(s)
		if err != nil || !ok {
			s.reset(mark)
			return 0, false, err
		}
		if mapped, ok := simpleEscapes[r]; ok {
			return mapped, true, nil
		}
		// Any other escaped character (metacharacter or otherwise)
		// stands for itself: \. \* \\ \( etc.
		return r, true, nil
	}
}

// shorthandClass recognizes the standalone \d \D \w \W \s \S classes.
func (g *Grammar) shorthandClass() Parser[ast.CharSet] {
	return func(s *State) (ast.CharSet, bool, error) {
		for _, lit := range []string{`\d`, `\D`, `\w`, `\W`, `\s`, `\S`} {
			if _, ok, _ := Literal(lit)(s); ok {
				return shorthandSet(rune(lit[1])), true, nil
			}
		}
		return nil, false, nil
	}
}

func shorthandRanges(letter rune) []ast.CharRange {
	switch letter {
	case 'd', 'D':
		return []ast.CharRange{{Lo: '0', Hi: '9'}}
	case 'w', 'W':
		return []ast.CharRange{
			{Lo: 'a', Hi: 'z'}, {Lo: 'A', Hi: 'Z'}, {Lo: '0', Hi: '9'}, {Lo: '_', Hi: '_'},
		}
	case 's', 'S':
		return []ast.CharRange{
			{Lo: ' ', Hi: ' '}, {Lo: '\t', Hi: '\t'}, {Lo: '\n', Hi: '\n'},
			{Lo: '\r', Hi: '\r'}, {Lo: '\f', Hi: '\f'}, {Lo: '\v', Hi: '\v'},
		}
	default:
		return nil
	}
}

func shorthandSet(letter rune) ast.CharSet {
	negated := letter >= 'A' && letter <= 'Z'
	var lower rune
	if negated {
		lower = letter + ('a' - 'A')
	} else {
		lower = letter
	}
	return &ast.RangeSet{Ranges: shorthandRanges(lower), Negated: negated}
}

// bracketClass := '[' '^'? (range | escapedClass | literal)+ ']'
func (g *Grammar) bracketClass() Parser[ast.CharSet] {
	return func(s *State) (ast.CharSet, bool, error) {
		mark := s.mark()
		if _, ok, _ := Literal("[")(s); !ok {
			return nil, false, nil
		}

		negated := false
		if _, ok, _ := Literal("^")(s); ok {
			negated = true
		}

		var ranges []ast.CharRange
		count := 0
		for {
			if peekByte(s) == ']' || s.AtEnd() {
				break
			}
			if added, ok, err := g.classMember()(s); err != nil {
				s.reset(mark)
				return nil, false, err
			} else if ok {
				ranges = append(ranges, added...)
				count++
			} else {
				break
			}
		}

		if count == 0 {
			s.reset(mark)
			return nil, false, &ParseError{Offset: s.Pos(), Message: "empty character class"}
		}

		if _, ok, _ := Literal("]")(s); !ok {
			return nil, false, &ParseError{Offset: s.Pos(), Message: "expected closing ']'"}
		}

		return &ast.RangeSet{Ranges: ranges, Negated: negated}, true, nil
	}
}

// classMember parses one element of a bracket expression: a nested
// shorthand class (contributing possibly-negated ranges, complemented
// against the full Unicode range when negated), a range a-b, or a
// single literal character.
func (g *Grammar) classMember() Parser[[]ast.CharRange] {
	return func(s *State) ([]ast.CharRange, bool, error) {
		for _, lit := range []string{`\d`, `\D`, `\w`, `\W`, `\s`, `\S`} {
			if _, ok, _ := Literal(lit)(s); ok {
				letter := rune(lit[1])
				negated := letter >= 'A' && letter <= 'Z'
				lower := letter
				if negated {
					lower = letter + ('a' - 'A')
				}
				base := shorthandRanges(lower)
				if negated {
					return invertRanges(base), true, nil
				}
				return base, true, nil
			}
		}

		mark := s.mark()
		lo, ok, err := g.classChar()(s)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		if _, ok, _ := Literal("-")(s); ok {
			if peekByte(s) != ']' {
				hi, ok, err := g.classChar()(s)
				if err != nil {
					return nil, false, err
				}
				if ok {
					if lo > hi {
						return nil, false, &ParseError{Offset: mark, Message: "invalid character range (low > high)"}
					}
					return []ast.CharRange{{Lo: lo, Hi: hi}}, true, nil
				}
			}
			// trailing '-' with nothing after it: treat as literal '-'
			// plus the char already consumed.
			s.reset(mark)
			lo, _, _ = g.classChar()(s)
		}
		return []ast.CharRange{{Lo: lo, Hi: lo}}, true, nil
	}
}

func (g *Grammar) classChar() Parser[rune] {
	return func(s *State) (rune, bool, error) {
		if peekByte(s) == '\\' {
			return g.escapedLiteral()(s)
		}
		return CharExcluding("]")(s)
	}
}

// invertRanges complements a sorted-or-not set of inclusive ranges
// against the full rune domain, used for \D \W \S nested in a bracket
// expression (e.g. [\D_], digits excluded, but \D's complement must
// be computed relative to the whole range since the enclosing bracket
// is not itself negated).
func invertRanges(ranges []ast.CharRange) []ast.CharRange {
	sorted := append([]ast.CharRange(nil), ranges...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].Lo > sorted[j].Lo; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	var out []ast.CharRange
	next := rune(0)
	for _, r := range sorted {
		if r.Lo > next {
			out = append(out, ast.CharRange{Lo: next, Hi: r.Lo - 1})
		}
		if r.Hi+1 > next {
			next = r.Hi + 1
		}
	}
	if next <= 0x10FFFF {
		out = append(out, ast.CharRange{Lo: next, Hi: 0x10FFFF})
	}
	return out
}

// applyQuantifier optionally wraps base in a Quantifier node.
func (g *Grammar) applyQuantifier(base *ast.Node) Parser[*ast.Node] {
	return func(s *State) (*ast.Node, bool, error) {
		pos := s.Pos()
		if _, ok, _ := Literal("?")(s); ok {
			return ast.NewQuantifierSimple(pos, ast.ZeroOrOne, base), true, nil
		}
		if _, ok, _ := Literal("*")(s); ok {
			return ast.NewQuantifierSimple(pos, ast.ZeroOrMore, base), true, nil
		}
		if _, ok, _ := Literal("+")(s); ok {
			return ast.NewQuantifierSimple(pos, ast.OneOrMore, base), true, nil
		}
		if _, ok, _ := Literal("{")(s); ok {
			low, ok, err := Required(Number(), "expected a number after '{'")(s)
			if err != nil || !ok {
				return nil, false, err
			}
			high := low
			if _, ok, _ := Literal(",")(s); ok {
				high = -1
				if n, ok, err := Number()(s); err != nil {
					return nil, false, err
				} else if ok {
					high = n
				}
			}
			if _, ok, err := Required(Literal("}"), "expected closing '}'")(s); err != nil || !ok {
				return nil, false, err
			}
			if high != -1 && low > high {
				return nil, false, &ParseError{Offset: pos, Message: fmt.Sprintf("invalid repeat range {%d,%d}: low > high", low, high)}
			}
			return ast.NewQuantifierRange(pos, base, low, high), true, nil
		}
		return base, true, nil
	}
}
