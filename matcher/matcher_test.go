package matcher

import (
	"testing"

	"github.com/coregx/regexcore/compile"
	"github.com/coregx/regexcore/cursor"
	"github.com/coregx/regexcore/nfa"
	"github.com/coregx/regexcore/parse"
)

func mustCompile(t *testing.T, pattern string) *nfa.CompiledRegex {
	t.Helper()
	g := parse.NewGrammar(parse.Options{})
	root, err := g.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	compiled, err := compile.Compile(root, pattern, compile.Options{})
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return compiled
}

// TestSimulator_Backtracker_Agree runs the same regular (backreference-
// free) patterns through both engines and requires identical results:
// the two engines must agree on every backreference-free pattern.
func TestSimulator_Backtracker_Agree(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
	}{
		{"a+b", "aaab"},
		{"a*b", "b"},
		{"(ab)+c", "ababc"},
		{"a|ab", "ab"},
		{"a{2,4}", "aaaaa"},
		{"[a-c]+", "abcabc"},
		{"a.*b", "axxxb"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re := mustCompile(t, tt.pattern)
			origin := cursor.New(tt.input, 0, len(tt.input), 0)

			sim := NewSimulator(re)
			simResult, simMatched := sim.Find(origin)

			bt := NewBacktracker(re, 0)
			btResult, btMatched := bt.Find(origin)

			if simMatched != btMatched {
				t.Fatalf("simulator matched=%v, backtracker matched=%v", simMatched, btMatched)
			}
			if !simMatched {
				return
			}
			if simResult.Index() != btResult.Index() || simResult.StartIndex() != btResult.StartIndex() {
				t.Errorf("simulator=[%d,%d) backtracker=[%d,%d)",
					simResult.StartIndex(), simResult.Index(), btResult.StartIndex(), btResult.Index())
			}
		})
	}
}

func TestSimulator_GreedyPrefersLongerMatch(t *testing.T) {
	re := mustCompile(t, "a+")
	origin := cursor.New("aaa", 0, 3, 0)
	sim := NewSimulator(re)
	result, matched := sim.Find(origin)
	if !matched || result.Index() != 3 {
		t.Fatalf("Find = %v, index=%d; want matched at index 3", matched, result.Index())
	}
}

func TestSimulator_Retries_AtLaterOrigin(t *testing.T) {
	re := mustCompile(t, "b+")
	origin := cursor.New("aaabbb", 0, 6, 0)
	sim := NewSimulator(re)
	result, matched := sim.Find(origin)
	if !matched {
		t.Fatal("expected a match after internally retrying past the leading a's")
	}
	if result.StartIndex() != 3 || result.Index() != 6 {
		t.Errorf("match = [%d,%d), want [3,6)", result.StartIndex(), result.Index())
	}
}

func TestSimulator_NoMatch(t *testing.T) {
	re := mustCompile(t, "z+")
	origin := cursor.New("aaa", 0, 3, 0)
	sim := NewSimulator(re)
	if _, matched := sim.Find(origin); matched {
		t.Error("expected no match")
	}
}

func TestBacktracker_Backreference(t *testing.T) {
	re := mustCompile(t, `(\w+) \1`)
	origin := cursor.New("no match here but hello hello yes", 0, len("no match here but hello hello yes"), 0)
	bt := NewBacktracker(re, 0)
	result, matched := bt.Find(origin)
	if !matched {
		t.Fatal("expected a backreference match")
	}
	// The leftmost match is the "h h" spanning "match here", which
	// comes before "hello hello".
	full := result.Slice(result.StartIndex(), result.Index())
	if full != "h h" {
		t.Errorf("matched text = %q, want %q", full, "h h")
	}
}

func TestBacktracker_StepLimitFailsClosed(t *testing.T) {
	re := mustCompile(t, `(a*)(a*)b`)
	input := make([]byte, 201)
	for i := range input[:200] {
		input[i] = 'a'
	}
	input[200] = 'b' // a real match exists, given an unbounded budget
	origin := cursor.New(string(input), 0, len(input), 0)

	unbounded := NewBacktracker(re, 0)
	if _, matched := unbounded.Find(origin); !matched {
		t.Fatal("sanity check failed: expected a match with an unbounded step budget")
	}

	bounded := NewBacktracker(re, 10) // tiny budget, deliberately too small
	if _, matched := bounded.Find(origin); matched {
		t.Error("expected the tiny step budget to fail the match rather than find one")
	}
}

func TestSimulator_Captures(t *testing.T) {
	re := mustCompile(t, `(a+)(b+)`)
	origin := cursor.New("aaabb", 0, 5, 0)
	sim := NewSimulator(re)
	result, matched := sim.Find(origin)
	if !matched {
		t.Fatal("expected a match")
	}
	g1, ok1 := result.Group(1)
	g2, ok2 := result.Group(2)
	if !ok1 || !ok2 {
		t.Fatalf("expected both groups captured, got ok1=%v ok2=%v", ok1, ok2)
	}
	if result.Slice(g1.Lo, g1.Hi) != "aaa" || result.Slice(g2.Lo, g2.Hi) != "bb" {
		t.Errorf("groups = %q, %q; want aaa, bb", result.Slice(g1.Lo, g1.Hi), result.Slice(g2.Lo, g2.Hi))
	}
}
