// Package compile lowers an AST (package ast) into an NFA (package
// nfa) via Thompson construction. Each AST node becomes an Expression
// fragment, a sub-NFA with a distinguished start and end state, and
// fragments compose the way the grammar itself composes: concatenation
// chains fragments end-to-start, alternation fans them out from a
// shared split and back into a shared merge, quantifiers wrap a
// fragment in ε-branches and back-edges.
//
// Conditions are Cursor-aware closures rather than plain byte ranges,
// so a single transition can express anything from a literal
// character to an anchor to a backreference lookup, all driven
// directly off the AST shape instead of an intermediate byte-range
// program.
package compile

import (
	"fmt"
	"unicode"

	"github.com/coregx/regexcore/ast"
	"github.com/coregx/regexcore/cursor"
	"github.com/coregx/regexcore/nfa"
)

// Options carries the matching-time flags the compiler must bake into
// conditions at compile time.
type Options struct {
	CaseInsensitive bool
}

// Compile lowers root (as produced by package parse) into a
// CompiledRegex, or returns a *CompileError.
func Compile(root *ast.Node, pattern string, opts Options) (*nfa.CompiledRegex, error) {
	c := &compiler{
		builder:       nfa.NewBuilder(),
		symbols:       map[int]nfa.SymbolInfo{},
		captureGroups: map[int]nfa.CaptureGroup{},
		opts:          opts,
		pattern:       pattern,
	}

	if root == nil || len(root.Children) == 0 {
		return nil, &CompileError{Pattern: pattern, Message: "empty pattern", Offset: 0}
	}

	inner, err := c.compileNode(root.Children[0])
	if err != nil {
		return nil, err
	}

	outerStart := c.builder.NewState()
	outerEnd := c.builder.NewState()
	outerStart.AddEpsilon(inner.Start)
	inner.End.AddEpsilon(outerEnd)
	outerEnd.IsEnd = true

	for _, use := range c.backreferences {
		if _, ok := c.captureGroups[use.Index]; !ok {
			return nil, &CompileError{
				Pattern: pattern,
				Offset:  use.Pos,
				Message: fmt.Sprintf("backreference to unknown group %d", use.Index),
			}
		}
	}

	return &nfa.CompiledRegex{
		Expression:          nfa.Expression{Start: outerStart, End: outerEnd},
		CaptureGroups:       c.captureGroups,
		Symbols:             c.symbols,
		NumStates:           c.builder.Count(),
		IsRegular:           len(c.backreferences) == 0,
		IsFromStartOfString: isAnchoredAtStart(root),
	}, nil
}

type backrefUse struct {
	Index int
	Pos   int
}

type compiler struct {
	builder       *nfa.Builder
	symbols       map[int]nfa.SymbolInfo
	captureGroups map[int]nfa.CaptureGroup
	backreferences []backrefUse
	opts          Options
	pattern       string
}

func (c *compiler) compileNode(n *ast.Node) (nfa.Expression, error) {
	switch n.Unit {
	case ast.Root:
		if len(n.Children) != 1 {
			panic(&internalError{Message: "Root must have exactly one child"})
		}
		return c.compileNode(n.Children[0])

	case ast.Expression:
		return c.compileConcatenation(n)

	case ast.Group:
		return c.compileGroup(n)

	case ast.Alternation:
		return c.compileAlternation(n)

	case ast.Quantifier:
		return c.compileQuantifier(n)

	case ast.Match:
		return c.compileMatch(n)

	case ast.Anchor:
		return c.singleton(anchorCondition(n.AnchorKind), n.AnchorKind.String()), nil

	case ast.Backreference:
		c.backreferences = append(c.backreferences, backrefUse{Index: n.BackreferenceIndex, Pos: n.Pos})
		desc := fmt.Sprintf("backreference \\%d", n.BackreferenceIndex)
		return c.singleton(backreferenceCondition(n.BackreferenceIndex), desc), nil

	default:
		panic(&internalError{Message: fmt.Sprintf("unknown AST unit %s reached the compiler", n.Unit)})
	}
}

func (c *compiler) compileConcatenation(n *ast.Node) (nfa.Expression, error) {
	if len(n.Children) == 0 {
		return c.emptyFragment(), nil
	}
	cur, err := c.compileNode(n.Children[0])
	if err != nil {
		return nfa.Expression{}, err
	}
	for _, child := range n.Children[1:] {
		f, err := c.compileNode(child)
		if err != nil {
			return nfa.Expression{}, err
		}
		cur.End.AddEpsilon(f.Start)
		cur = nfa.Expression{Start: cur.Start, End: f.End}
	}
	return cur, nil
}

func (c *compiler) compileGroup(n *ast.Node) (nfa.Expression, error) {
	if len(n.Children) != 1 {
		panic(&internalError{Message: "Group must have exactly one child"})
	}
	inner, err := c.compileNode(n.Children[0])
	if err != nil {
		return nfa.Expression{}, err
	}
	start := c.builder.NewState()
	end := c.builder.NewState()
	start.AddEpsilon(inner.Start)
	inner.End.AddEpsilon(end)

	if n.IsCapturing {
		c.captureGroups[n.GroupIndex] = nfa.CaptureGroup{Index: n.GroupIndex, Start: start, End: end}
		c.symbols[start.Tag] = nfa.SymbolInfo{Description: fmt.Sprintf("group %d start", n.GroupIndex)}
		c.symbols[end.Tag] = nfa.SymbolInfo{Description: fmt.Sprintf("group %d end", n.GroupIndex)}
	}
	return nfa.Expression{Start: start, End: end}, nil
}

func (c *compiler) compileAlternation(n *ast.Node) (nfa.Expression, error) {
	newStart := c.builder.NewState()
	newEnd := c.builder.NewState()
	for _, alt := range n.Children {
		f, err := c.compileNode(alt)
		if err != nil {
			return nfa.Expression{}, err
		}
		newStart.AddEpsilon(f.Start)
		f.End.AddEpsilon(newEnd)
	}
	return nfa.Expression{Start: newStart, End: newEnd}, nil
}

func (c *compiler) compileQuantifier(n *ast.Node) (nfa.Expression, error) {
	if len(n.Children) != 1 {
		panic(&internalError{Message: "nothing to repeat"})
	}
	child := n.Children[0]

	switch n.QuantifierKind {
	case ast.ZeroOrOne:
		inner, err := c.compileNode(child)
		if err != nil {
			return nfa.Expression{}, err
		}
		return c.zeroOrOne(inner), nil

	case ast.ZeroOrMore:
		inner, err := c.compileNode(child)
		if err != nil {
			return nfa.Expression{}, err
		}
		return c.zeroOrMore(inner), nil

	case ast.OneOrMore:
		mandatory, err := c.compileNode(child)
		if err != nil {
			return nfa.Expression{}, err
		}
		loopBody, err := c.compileNode(child)
		if err != nil {
			return nfa.Expression{}, err
		}
		star := c.zeroOrMore(loopBody)
		mandatory.End.AddEpsilon(star.Start)
		return nfa.Expression{Start: mandatory.Start, End: star.End}, nil

	case ast.Range:
		return c.compileRange(child, n.Low, n.High)

	default:
		panic(&internalError{Message: fmt.Sprintf("unknown quantifier kind %d", n.QuantifierKind)})
	}
}

// compileRange implements {m}, {m,} and {m,n}.
func (c *compiler) compileRange(child *ast.Node, low, high int) (nfa.Expression, error) {
	if high != -1 && low > high {
		panic(&internalError{Message: "invalid repeat range: low > high"})
	}

	mandatory, err := c.concatCopies(child, low)
	if err != nil {
		return nfa.Expression{}, err
	}

	var tail nfa.Expression
	switch {
	case high == -1:
		freshCopy, err := c.compileNode(child)
		if err != nil {
			return nfa.Expression{}, err
		}
		tail = c.zeroOrMore(freshCopy)
	case high == low:
		tail = c.emptyFragment()
	default:
		tail, err = c.nestedOptional(child, high-low)
		if err != nil {
			return nfa.Expression{}, err
		}
	}

	mandatory.End.AddEpsilon(tail.Start)
	return nfa.Expression{Start: mandatory.Start, End: tail.End}, nil
}

// concatCopies compiles count independent copies of child, one per
// repetition, each call to compileNode allocates brand new states, so
// the copies never alias each other's NFA fragments.
func (c *compiler) concatCopies(child *ast.Node, count int) (nfa.Expression, error) {
	if count == 0 {
		return c.emptyFragment(), nil
	}
	cur, err := c.compileNode(child)
	if err != nil {
		return nfa.Expression{}, err
	}
	for i := 1; i < count; i++ {
		next, err := c.compileNode(child)
		if err != nil {
			return nfa.Expression{}, err
		}
		cur.End.AddEpsilon(next.Start)
		cur = nfa.Expression{Start: cur.Start, End: next.End}
	}
	return cur, nil
}

// nestedOptional builds the right-to-left "x (x (x)?)?" chain of count
// extra optional repeats the {m,n} case needs: built bottom-up here (count 0 is the empty fragment, each step wraps one
// more copy of child in front and re-wraps the whole thing in
// zeroOrOne), which produces exactly that nesting.
func (c *compiler) nestedOptional(child *ast.Node, count int) (nfa.Expression, error) {
	if count == 0 {
		return c.emptyFragment(), nil
	}
	inner, err := c.nestedOptional(child, count-1)
	if err != nil {
		return nfa.Expression{}, err
	}
	x, err := c.compileNode(child)
	if err != nil {
		return nfa.Expression{}, err
	}
	x.End.AddEpsilon(inner.Start)
	wrapped := nfa.Expression{Start: x.Start, End: inner.End}
	return c.zeroOrOne(wrapped), nil
}

// zeroOrOne wraps inner with an ε-branch around it; the loop/match
// branch is added before the skip branch so greedy matching explores
// it first.
func (c *compiler) zeroOrOne(inner nfa.Expression) nfa.Expression {
	newStart := c.builder.NewState()
	newEnd := c.builder.NewState()
	newStart.AddEpsilon(inner.Start)
	newStart.AddEpsilon(newEnd)
	inner.End.AddEpsilon(newEnd)
	return nfa.Expression{Start: newStart, End: newEnd}
}

// zeroOrMore wraps inner in an ε-branch plus a back-edge from inner.End
// to the same split state, so each iteration re-offers the choice
// between looping again and exiting.
func (c *compiler) zeroOrMore(inner nfa.Expression) nfa.Expression {
	newStart := c.builder.NewState()
	newEnd := c.builder.NewState()
	newStart.AddEpsilon(inner.Start)
	newStart.AddEpsilon(newEnd)
	inner.End.AddEpsilon(newStart)
	return nfa.Expression{Start: newStart, End: newEnd}
}

func (c *compiler) emptyFragment() nfa.Expression {
	start := c.builder.NewState()
	end := c.builder.NewState()
	start.AddEpsilon(end)
	return nfa.Expression{Start: start, End: end}
}

func (c *compiler) singleton(cond nfa.Condition, desc string) nfa.Expression {
	start := c.builder.NewState()
	end := c.builder.NewState()
	start.AddTransition(cond, end)
	c.symbols[start.Tag] = nfa.SymbolInfo{Description: desc}
	return nfa.Expression{Start: start, End: end}
}

func (c *compiler) compileMatch(n *ast.Node) (nfa.Expression, error) {
	caseInsensitive := c.opts.CaseInsensitive
	switch n.MatchKind {
	case ast.MatchCharacter:
		want := n.Character
		if caseInsensitive {
			want = unicode.ToLower(want)
		}
		cond := func(cur cursor.Cursor) int {
			r, width, ok := cur.Character()
			if !ok {
				return nfa.NotTaken
			}
			if caseInsensitive {
				r = unicode.ToLower(r)
			}
			if r == want {
				return width
			}
			return nfa.NotTaken
		}
		return c.singleton(cond, fmt.Sprintf("character %q", n.Character)), nil

	case ast.MatchAnyCharacter:
		includeNewline := n.DotIncludesNewline
		cond := func(cur cursor.Cursor) int {
			r, width, ok := cur.Character()
			if !ok {
				return nfa.NotTaken
			}
			if r == '\n' && !includeNewline {
				return nfa.NotTaken
			}
			return width
		}
		return c.singleton(cond, "any character"), nil

	case ast.MatchCharacterSet:
		set := n.Set
		cond := func(cur cursor.Cursor) int {
			r, width, ok := cur.Character()
			if !ok {
				return nfa.NotTaken
			}
			if set.Contains(r) {
				return width
			}
			if caseInsensitive {
				if unicode.IsUpper(r) && set.Contains(unicode.ToLower(r)) {
					return width
				}
				if unicode.IsLower(r) && set.Contains(unicode.ToUpper(r)) {
					return width
				}
			}
			return nfa.NotTaken
		}
		return c.singleton(cond, fmt.Sprintf("set %s", set)), nil

	default:
		panic(&internalError{Message: fmt.Sprintf("unknown match kind %d", n.MatchKind)})
	}
}

// isWordRune mirrors the grammar's \w definition (ASCII letters, digits,
// underscore), kept in lockstep so \b and \w agree on what "word" means.
func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

func anchorCondition(kind ast.AnchorKind) nfa.Condition {
	switch kind {
	case ast.StartOfStringOnly:
		return func(c cursor.Cursor) int {
			if c.Index() == 0 {
				return 0
			}
			return nfa.NotTaken
		}

	case ast.StartOfString:
		return func(c cursor.Cursor) int {
			start, _ := c.SliceBounds()
			if c.Index() == start {
				return 0
			}
			return nfa.NotTaken
		}

	case ast.EndOfString:
		return func(c cursor.Cursor) int {
			_, end := c.SliceBounds()
			if c.Index() == end {
				return 0
			}
			return nfa.NotTaken
		}

	case ast.EndOfStringOnly:
		return func(c cursor.Cursor) int {
			if c.Index() == len(c.FullInput()) {
				return 0
			}
			return nfa.NotTaken
		}

	case ast.EndOfStringOnlyNotNewline:
		return func(c cursor.Cursor) int {
			full := c.FullInput()
			if c.Index() == len(full) {
				return 0
			}
			if c.Index() == len(full)-1 && full[c.Index()] == '\n' {
				return 0
			}
			return nfa.NotTaken
		}

	case ast.WordBoundary, ast.NonWordBoundary:
		want := kind == ast.WordBoundary
		return func(c cursor.Cursor) int {
			start, end := c.SliceBounds()
			before := false
			if c.Index() > start {
				if r, _, ok := c.CharacterOffsetBy(-1); ok {
					before = isWordRune(r)
				}
			}
			after := false
			if c.Index() < end {
				if r, _, ok := c.Character(); ok {
					after = isWordRune(r)
				}
			}
			if (before != after) == want {
				return 0
			}
			return nfa.NotTaken
		}

	case ast.PreviousMatchEnd:
		return func(c cursor.Cursor) int {
			want := c.PreviousMatchIndex()
			if want < 0 {
				want = c.StartIndex()
			}
			if c.Index() == want {
				return 0
			}
			return nfa.NotTaken
		}

	default:
		panic(&internalError{Message: fmt.Sprintf("unknown anchor kind %d", kind)})
	}
}

func backreferenceCondition(idx int) nfa.Condition {
	return func(c cursor.Cursor) int {
		r, ok := c.Group(idx)
		if !ok {
			return nfa.NotTaken
		}
		text := c.Slice(r.Lo, r.Hi)
		n := len(text)
		_, sliceEnd := c.SliceBounds()
		if c.Index()+n > sliceEnd {
			return nfa.NotTaken
		}
		if c.FullInput()[c.Index():c.Index()+n] == text {
			return n
		}
		return nfa.NotTaken
	}
}

func isAnchoredAtStart(root *ast.Node) bool {
	if root == nil || len(root.Children) == 0 {
		return false
	}
	expr := root.Children[0]
	if expr.Unit != ast.Expression || len(expr.Children) == 0 {
		return false
	}
	first := expr.Children[0]
	return first.Unit == ast.Anchor && first.AnchorKind == ast.StartOfStringOnly
}
