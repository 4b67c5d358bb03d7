package compile_test

import (
	"testing"

	"github.com/coregx/regexcore/compile"
	"github.com/coregx/regexcore/parse"
)

func TestCompile_BasicShapes(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		wantGroups  int
		wantRegular bool
	}{
		{"literal", "abc", 0, true},
		{"two capture groups", "(a)(b)", 2, true},
		{"non-capturing group", "(?:a)b", 0, true},
		{"star quantifier", "a*", 0, true},
		{"range quantifier", "a{2,4}", 0, true},
		{"backreference makes it irregular", `(a)\1`, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := parse.NewGrammar(parse.Options{})
			root, err := g.Parse(tt.pattern)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.pattern, err)
			}
			compiled, err := compile.Compile(root, tt.pattern, compile.Options{})
			if err != nil {
				t.Fatalf("Compile(%q): %v", tt.pattern, err)
			}
			if len(compiled.CaptureGroups) != tt.wantGroups {
				t.Errorf("CaptureGroups = %d, want %d", len(compiled.CaptureGroups), tt.wantGroups)
			}
			if compiled.IsRegular != tt.wantRegular {
				t.Errorf("IsRegular = %v, want %v", compiled.IsRegular, tt.wantRegular)
			}
			if compiled.Expression.Start == nil || compiled.Expression.End == nil {
				t.Fatal("Expression has a nil Start or End")
			}
			if !compiled.Expression.End.IsEnd {
				t.Error("the outer Expression's End state must be the accepting state")
			}
		})
	}
}

func TestCompile_UndefinedBackreferenceIsAnError(t *testing.T) {
	g := parse.NewGrammar(parse.Options{})
	root, err := g.Parse(`a\2b`)
	if err != nil {
		// the grammar itself rejecting it satisfies this test's intent too.
		return
	}
	if _, err := compile.Compile(root, `a\2b`, compile.Options{}); err == nil {
		t.Fatal("expected an error referencing an undefined capture group")
	}
}

func TestCompile_AnchoredAtStart(t *testing.T) {
	g := parse.NewGrammar(parse.Options{})
	root, err := g.Parse(`\Aabc`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	compiled, err := compile.Compile(root, `\Aabc`, compile.Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !compiled.IsFromStartOfString {
		t.Error("IsFromStartOfString = false, want true for a \\A-anchored pattern")
	}
}
