// Package ast defines the tagged-tree representation produced by the
// regex grammar (package parse) and consumed by the compiler (package
// compile).
//
// A Node is a tagged variant rather than a type hierarchy: the Unit
// field discriminates which of the other fields are meaningful.
package ast

import (
	"fmt"
	"strings"
)

// Unit discriminates the kind of an AST node.
type Unit uint8

const (
	Root Unit = iota
	Expression
	Group
	Alternation
	Quantifier
	Match
	Anchor
	Backreference
)

func (u Unit) String() string {
	switch u {
	case Root:
		return "Root"
	case Expression:
		return "Expression"
	case Group:
		return "Group"
	case Alternation:
		return "Alternation"
	case Quantifier:
		return "Quantifier"
	case Match:
		return "Match"
	case Anchor:
		return "Anchor"
	case Backreference:
		return "Backreference"
	default:
		return fmt.Sprintf("Unit(%d)", uint8(u))
	}
}

// QuantifierKind enumerates the shapes a Quantifier node can take.
type QuantifierKind uint8

const (
	ZeroOrMore QuantifierKind = iota
	OneOrMore
	ZeroOrOne
	Range
)

func (k QuantifierKind) String() string {
	switch k {
	case ZeroOrMore:
		return "*"
	case OneOrMore:
		return "+"
	case ZeroOrOne:
		return "?"
	case Range:
		return "{m,n}"
	default:
		return "?unknown?"
	}
}

// MatchKind enumerates what a Match node tests against a single input position.
type MatchKind uint8

const (
	MatchCharacter MatchKind = iota
	MatchAnyCharacter
	MatchCharacterSet
)

// AnchorKind enumerates zero-width assertions.
type AnchorKind uint8

const (
	StartOfString AnchorKind = iota
	StartOfStringOnly
	EndOfString
	EndOfStringOnly
	EndOfStringOnlyNotNewline
	WordBoundary
	NonWordBoundary
	PreviousMatchEnd
)

func (k AnchorKind) String() string {
	switch k {
	case StartOfString:
		return "^"
	case StartOfStringOnly:
		return `\A`
	case EndOfString:
		return "$"
	case EndOfStringOnly:
		return `\z`
	case EndOfStringOnlyNotNewline:
		return `\Z`
	case WordBoundary:
		return `\b`
	case NonWordBoundary:
		return `\B`
	case PreviousMatchEnd:
		return `\G`
	default:
		return "?anchor?"
	}
}

// CharSet is the pluggable abstraction the matcher tests a code point
// against; the category database behind it (beyond the ranges the
// grammar itself names, \d \w \s and bracket expressions) is an
// external collaborator, out of scope for this module.
type CharSet interface {
	Contains(r rune) bool
	String() string
}

// CharRange is an inclusive rune range, the building block of RangeSet.
type CharRange struct {
	Lo, Hi rune
}

// RangeSet is the concrete CharSet built by the grammar for bracket
// expressions ([a-z0-9_]) and the built-in shorthand classes (\d \w \s).
type RangeSet struct {
	Ranges  []CharRange
	Negated bool
}

// Contains reports whether r falls in one of the set's ranges, honoring negation.
func (s *RangeSet) Contains(r rune) bool {
	in := false
	for _, rg := range s.Ranges {
		if r >= rg.Lo && r <= rg.Hi {
			in = true
			break
		}
	}
	if s.Negated {
		return !in
	}
	return in
}

func (s *RangeSet) String() string {
	var b strings.Builder
	b.WriteByte('[')
	if s.Negated {
		b.WriteByte('^')
	}
	for _, rg := range s.Ranges {
		if rg.Lo == rg.Hi {
			fmt.Fprintf(&b, "%c", rg.Lo)
		} else {
			fmt.Fprintf(&b, "%c-%c", rg.Lo, rg.Hi)
		}
	}
	b.WriteByte(']')
	return b.String()
}

// Node is a single AST node. Unit selects which of the remaining fields
// apply; see the per-constructor doc comments below for the exact
// per-unit shape.
type Node struct {
	Unit     Unit
	Children []*Node

	// Pos is the 0-based offset into the source pattern where this node
	// began, used to build CompileError offsets.
	Pos int

	// Group
	GroupIndex  int
	IsCapturing bool

	// Quantifier
	QuantifierKind QuantifierKind
	Low, High      int // High == -1 means unbounded, used only for Range{m,}

	// Match
	MatchKind          MatchKind
	Character          rune
	DotIncludesNewline bool
	Set                CharSet

	// Anchor
	AnchorKind AnchorKind

	// Backreference
	BackreferenceIndex int
}

// NewRoot wraps the pattern's top-level node, the top of every parsed
// tree: an Expression, or an Alternation when the pattern has a
// top-level '|'.
func NewRoot(expr *Node) *Node {
	return &Node{Unit: Root, Children: []*Node{expr}}
}

// NewExpression builds a concatenation node from its juxtaposed atoms.
func NewExpression(pos int, atoms ...*Node) *Node {
	return &Node{Unit: Expression, Pos: pos, Children: atoms}
}

// NewGroup wraps child in a (possibly capturing) group.
func NewGroup(pos int, child *Node, index int, capturing bool) *Node {
	return &Node{Unit: Group, Pos: pos, Children: []*Node{child}, GroupIndex: index, IsCapturing: capturing}
}

// NewAlternation builds an alternation over its alternatives, in source order.
func NewAlternation(pos int, alts ...*Node) *Node {
	return &Node{Unit: Alternation, Pos: pos, Children: alts}
}

// NewQuantifierSimple builds a *, + or ? quantifier over child.
func NewQuantifierSimple(pos int, kind QuantifierKind, child *Node) *Node {
	return &Node{Unit: Quantifier, Pos: pos, Children: []*Node{child}, QuantifierKind: kind}
}

// NewQuantifierRange builds a {low,high} quantifier; high == -1 means unbounded.
func NewQuantifierRange(pos int, child *Node, low, high int) *Node {
	return &Node{Unit: Quantifier, Pos: pos, Children: []*Node{child}, QuantifierKind: Range, Low: low, High: high}
}

// NewMatchCharacter builds a node matching a single literal rune.
func NewMatchCharacter(pos int, c rune) *Node {
	return &Node{Unit: Match, Pos: pos, MatchKind: MatchCharacter, Character: c}
}

// NewMatchAny builds a node matching `.`; includingNewline controls whether
// dotMatchesLineSeparators was in effect at parse time.
func NewMatchAny(pos int, includingNewline bool) *Node {
	return &Node{Unit: Match, Pos: pos, MatchKind: MatchAnyCharacter, DotIncludesNewline: includingNewline}
}

// NewMatchSet builds a node matching a CharSet (bracket expression or shorthand class).
func NewMatchSet(pos int, set CharSet) *Node {
	return &Node{Unit: Match, Pos: pos, MatchKind: MatchCharacterSet, Set: set}
}

// NewAnchor builds a zero-width assertion node.
func NewAnchor(pos int, kind AnchorKind) *Node {
	return &Node{Unit: Anchor, Pos: pos, AnchorKind: kind}
}

// NewBackreference builds a node re-matching a previously captured group.
func NewBackreference(pos, index int) *Node {
	return &Node{Unit: Backreference, Pos: pos, BackreferenceIndex: index}
}

// Dump renders the tree for debugging, in the style of a connector-based
// pretty printer; it is never used on the hot path, only by the debug
// logging toggle (see the root package's debug.go).
func Dump(n *Node) string {
	var b strings.Builder
	dump(&b, n, "", true)
	return b.String()
}

func dump(b *strings.Builder, n *Node, prefix string, last bool) {
	if n == nil {
		return
	}
	connector := "├─ "
	if last {
		connector = "└─ "
	}
	fmt.Fprintf(b, "%s%s%s\n", prefix, connector, describe(n))

	childPrefix := prefix
	if last {
		childPrefix += "   "
	} else {
		childPrefix += "│  "
	}
	for i, c := range n.Children {
		dump(b, c, childPrefix, i == len(n.Children)-1)
	}
}

func describe(n *Node) string {
	switch n.Unit {
	case Group:
		if n.IsCapturing {
			return fmt.Sprintf("Group(%d)", n.GroupIndex)
		}
		return "Group(non-capturing)"
	case Quantifier:
		if n.QuantifierKind == Range {
			high := fmt.Sprintf("%d", n.High)
			if n.High < 0 {
				high = "∞"
			}
			return fmt.Sprintf("Quantifier({%d,%s})", n.Low, high)
		}
		return fmt.Sprintf("Quantifier(%s)", n.QuantifierKind)
	case Match:
		switch n.MatchKind {
		case MatchCharacter:
			return fmt.Sprintf("Match(%q)", n.Character)
		case MatchAnyCharacter:
			return "Match(.)"
		default:
			return fmt.Sprintf("Match(%s)", n.Set)
		}
	case Anchor:
		return fmt.Sprintf("Anchor(%s)", n.AnchorKind)
	case Backreference:
		return fmt.Sprintf("Backreference(%d)", n.BackreferenceIndex)
	default:
		return n.Unit.String()
	}
}
