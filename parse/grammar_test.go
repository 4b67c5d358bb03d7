package parse

import (
	"testing"

	"github.com/coregx/regexcore/ast"
)

func TestGrammar_Parse_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{"literal", "abc"},
		{"alternation", "cat|dog"},
		{"group", "(ab)+"},
		{"non-capturing group", "(?:ab)+"},
		{"bracket class", "[a-z0-9_]+"},
		{"negated bracket class", "[^a-z]"},
		{"shorthand classes", `\d+\s\w*`},
		{"anchors", `^abc$`},
		{"backreference", `(a)\1`},
		{"range quantifier", "a{2,5}"},
		{"escaped metacharacter", `a\.b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrammar(Options{})
			root, err := g.Parse(tt.pattern)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.pattern, err)
			}
			if root.Unit != ast.Root {
				t.Errorf("root.Unit = %v, want Root", root.Unit)
			}
		})
	}
}

func TestGrammar_Parse_Errors(t *testing.T) {
	tests := []string{
		"",
		"(abc",
		"abc)",
		"[abc",
		"a**", // dangling quantifier on a quantifier result
		"a{",
	}
	for _, pattern := range tests {
		t.Run(pattern, func(t *testing.T) {
			g := NewGrammar(Options{})
			if _, err := g.Parse(pattern); err == nil {
				t.Errorf("Parse(%q): expected an error, got none", pattern)
			}
		})
	}
}

func TestGrammar_CapturingGroupsNumberedInOrder(t *testing.T) {
	g := NewGrammar(Options{})
	root, err := g.Parse("(a(b))(c)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var indexes []int
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n.Unit == ast.Group && n.IsCapturing {
			indexes = append(indexes, n.GroupIndex)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)

	want := []int{1, 2, 3}
	if len(indexes) != len(want) {
		t.Fatalf("got %d capturing groups, want %d: %v", len(indexes), len(want), indexes)
	}
	seen := map[int]bool{}
	for _, idx := range indexes {
		seen[idx] = true
	}
	for _, w := range want {
		if !seen[w] {
			t.Errorf("missing capture group index %d among %v", w, indexes)
		}
	}
}
