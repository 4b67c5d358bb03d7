package regexcore

import (
	"reflect"
	"testing"
)

func allMatches(t *testing.T, pattern string, opts Options, input string) []Match {
	t.Helper()
	re, err := Compile(pattern, opts)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	var got []Match
	re.ForMatch(input, func(m Match) bool {
		got = append(got, m)
		return true
	})
	return got
}

func TestForMatch_Basic(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    []string
	}{
		{"literal", "cat", "the cat sat on the cat mat", []string{"cat", "cat"}},
		{"star", "ab*c", "ac abc abbbc", []string{"ac", "abc", "abbbc"}},
		{"plus", "ab+c", "ac abc abbc", []string{"abc", "abbc"}},
		{"alternation", "cat|dog", "a cat and a dog", []string{"cat", "dog"}},
		{"charclass", "[0-9]+", "a12 b345", []string{"12", "345"}},
		{"anychar", "a.c", "abc axc a\nc", []string{"abc", "axc"}},
		{"anchored-start", "^abc", "abc abc", []string{"abc"}},
		{"empty-match-progresses", "a*", "bb", []string{"", "", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := allMatches(t, tt.pattern, Options{}, tt.input)
			gotText := make([]string, len(got))
			for i, m := range got {
				gotText[i] = m.FullMatch
			}
			if !reflect.DeepEqual(gotText, tt.want) {
				t.Errorf("pattern %q over %q: got %v, want %v", tt.pattern, tt.input, gotText, tt.want)
			}
		})
	}
}

func TestForMatch_CaptureGroups(t *testing.T) {
	re, err := Compile(`(\w+)@(\w+)\.com`, Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var got Match
	found := false
	re.ForMatch("contact alice@example.com today", func(m Match) bool {
		got = m
		found = true
		return false
	})
	if !found {
		t.Fatal("expected a match")
	}
	if got.Groups[1] != "alice" || got.Groups[2] != "example" {
		t.Errorf("groups = %v, want {1:alice 2:example}", got.Groups)
	}
}

func TestForMatch_Multiline(t *testing.T) {
	got := allMatches(t, "^foo", Options{Multiline: true}, "foo\nbar\nfoobar")
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2: %v", len(got), got)
	}
}

func TestForMatch_CaseInsensitive(t *testing.T) {
	got := allMatches(t, "cat", Options{CaseInsensitive: true}, "CAT Cat cat")
	if len(got) != 3 {
		t.Fatalf("got %d matches, want 3: %v", len(got), got)
	}
}

func TestForMatch_Backreference(t *testing.T) {
	got := allMatches(t, `(\w+) \1`, Options{}, "hello hello world world nope")
	want := []string{"hello hello", "world world"}
	gotText := make([]string, len(got))
	for i, m := range got {
		gotText[i] = m.FullMatch
	}
	if !reflect.DeepEqual(gotText, want) {
		t.Errorf("got %v, want %v", gotText, want)
	}
}

func TestForMatch_CallbackStopsEarly(t *testing.T) {
	re := MustCompile("a", Options{})
	count := 0
	re.ForMatch("aaaaa", func(m Match) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestCompile_Error(t *testing.T) {
	_, err := Compile("a(b", Options{})
	if err == nil {
		t.Fatal("expected an error for unbalanced group")
	}
	if _, ok := err.(*CompileError); !ok {
		t.Errorf("error type = %T, want *CompileError", err)
	}
}

func TestMustCompile_PanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected MustCompile to panic on an invalid pattern")
		}
	}()
	MustCompile("a(b", Options{})
}

func TestStats_DistinguishesEngines(t *testing.T) {
	regular := MustCompile("a+b", Options{})
	regular.ForMatch("aab", func(Match) bool { return true })
	if regular.Stats().UsedBacktracker {
		t.Error("regular pattern reported UsedBacktracker")
	}

	withBackref := MustCompile(`(\w)\1`, Options{})
	withBackref.ForMatch("aa", func(Match) bool { return true })
	if !withBackref.Stats().UsedBacktracker {
		t.Error("backreference pattern did not report UsedBacktracker")
	}
	if withBackref.Stats().MatchesFound != 1 {
		t.Errorf("MatchesFound = %d, want 1", withBackref.Stats().MatchesFound)
	}
}

func TestForMatch_LiteralSetPrefilter(t *testing.T) {
	got := allMatches(t, "cat|dog|bird", Options{}, "I have a dog and a cat, no bird though")
	want := []string{"dog", "cat", "bird"}
	gotText := make([]string, len(got))
	for i, m := range got {
		gotText[i] = m.FullMatch
	}
	if !reflect.DeepEqual(gotText, want) {
		t.Errorf("got %v, want %v", gotText, want)
	}
}
