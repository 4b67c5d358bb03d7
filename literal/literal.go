// Package literal extracts a required literal set from an AST, feeding
// the matcher driver's optional prefilter (package prefilter).
//
// Only shapes that are cheap and unambiguous to extract are handled: a
// bare run of literal characters (concatenation of Match/MatchCharacter
// nodes), and a top-level alternation where every branch is itself
// such a run (e.g. `cat|dog|bird`). Anything else (quantifiers,
// character classes, anchors mixed into the literal run, nested
// alternations) reports ok=false rather than guess; the matcher always
// falls back to running the compiled NFA/backtracker directly when no
// set is extracted.
package literal

import "github.com/coregx/regexcore/ast"

// Set is a required literal alternative set extracted from a pattern:
// any match of the whole pattern must start with one of Literals. It
// is a necessary, not sufficient, condition: the prefilter built over
// it only ever narrows down candidate start positions, and the
// compiled engine still verifies every candidate it reports.
type Set struct {
	// Literals holds each alternative's exact text, source order.
	Literals []string
}

// Extract returns the literal set required by root, if the pattern's
// shape is one of the cases this package recognizes.
func Extract(root *ast.Node) (Set, bool) {
	if root == nil || root.Unit != ast.Root || len(root.Children) != 1 {
		return Set{}, false
	}
	expr := root.Children[0]
	if expr.Unit == ast.Alternation {
		return extractAlternation(expr)
	}
	if expr.Unit != ast.Expression {
		return Set{}, false
	}

	switch {
	case len(expr.Children) == 1 && expr.Children[0].Unit == ast.Alternation:
		return extractAlternation(expr.Children[0])
	default:
		if lit, ok := literalRun(expr.Children); ok && lit != "" {
			return Set{Literals: []string{lit}}, true
		}
	}
	return Set{}, false
}

func extractAlternation(alt *ast.Node) (Set, bool) {
	literals := make([]string, 0, len(alt.Children))
	for _, branch := range alt.Children {
		var atoms []*ast.Node
		switch branch.Unit {
		case ast.Expression:
			atoms = branch.Children
		case ast.Match:
			atoms = []*ast.Node{branch}
		default:
			return Set{}, false
		}
		lit, ok := literalRun(atoms)
		if !ok || lit == "" {
			return Set{}, false
		}
		literals = append(literals, lit)
	}
	if len(literals) == 0 {
		return Set{}, false
	}
	return Set{Literals: literals}, true
}

// literalRun requires every node in atoms to be a single-rune
// MatchCharacter, returning their concatenated text.
func literalRun(atoms []*ast.Node) (string, bool) {
	runes := make([]rune, 0, len(atoms))
	for _, n := range atoms {
		if n.Unit != ast.Match || n.MatchKind != ast.MatchCharacter {
			return "", false
		}
		runes = append(runes, n.Character)
	}
	return string(runes), true
}
