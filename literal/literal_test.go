package literal

import (
	"reflect"
	"testing"

	"github.com/coregx/regexcore/parse"
)

func extract(t *testing.T, pattern string) (Set, bool) {
	t.Helper()
	g := parse.NewGrammar(parse.Options{})
	root, err := g.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return Extract(root)
}

func TestExtract_Alternation(t *testing.T) {
	set, ok := extract(t, "cat|dog|bird")
	if !ok {
		t.Fatal("expected an extractable literal set")
	}
	want := []string{"cat", "dog", "bird"}
	if !reflect.DeepEqual(set.Literals, want) {
		t.Errorf("Literals = %v, want %v", set.Literals, want)
	}
}

func TestExtract_SingleLiteral(t *testing.T) {
	set, ok := extract(t, "hello")
	if !ok {
		t.Fatal("expected an extractable literal set")
	}
	if !reflect.DeepEqual(set.Literals, []string{"hello"}) {
		t.Errorf("Literals = %v, want [hello]", set.Literals)
	}
}

func TestExtract_RejectsNonLiteralShapes(t *testing.T) {
	tests := []string{
		"a+",
		"a.b",
		"[abc]",
		"cat|d+og",
		"(cat)",
	}
	for _, pattern := range tests {
		t.Run(pattern, func(t *testing.T) {
			if _, ok := extract(t, pattern); ok {
				t.Errorf("Extract(%q): expected ok=false", pattern)
			}
		})
	}
}
