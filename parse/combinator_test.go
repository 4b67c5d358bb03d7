package parse

import "testing"

func TestLiteral_MatchAndRewind(t *testing.T) {
	s := NewState("abc")
	v, ok, err := Literal("ab")(s)
	if err != nil || !ok || v != "ab" {
		t.Fatalf("Literal(ab) = %q, %v, %v", v, ok, err)
	}
	if s.Pos() != 2 {
		t.Fatalf("Pos() = %d, want 2", s.Pos())
	}

	_, ok, err = Literal("xy")(s)
	if err != nil || ok {
		t.Fatalf("Literal(xy) over %q = %v, %v; want false, nil", s.Rest(), ok, err)
	}
	if s.Pos() != 2 {
		t.Errorf("a failed Literal must not advance Pos(); got %d, want 2", s.Pos())
	}
}

func TestOneOf_TriesInOrderAndRewinds(t *testing.T) {
	p := OneOf(Literal("foo"), Literal("bar"), Literal("ba"))
	s := NewState("bar")
	v, ok, err := p(s)
	if err != nil || !ok || v != "bar" {
		t.Fatalf("OneOf = %q, %v, %v; want bar, true, nil", v, ok, err)
	}
}

func TestZeroOrMore_StopsAtFirstFailure(t *testing.T) {
	s := NewState("aaab")
	v, ok, err := ZeroOrMore(Literal("a"))(s)
	if err != nil || !ok || len(v) != 3 {
		t.Fatalf("ZeroOrMore(a) over aaab = %v, %v, %v; want 3 matches", v, ok, err)
	}
	if s.Rest() != "b" {
		t.Errorf("Rest() = %q, want b", s.Rest())
	}
}

func TestOneOrMore_FailsOnZeroMatches(t *testing.T) {
	s := NewState("b")
	_, ok, err := OneOrMore(Literal("a"))(s)
	if err != nil || ok {
		t.Fatalf("OneOrMore(a) over b = %v, %v; want false, nil", ok, err)
	}
}

func TestRequired_ReturnsErrorOnFailure(t *testing.T) {
	s := NewState("b")
	_, _, err := Required(Literal("a"), "expected a")(s)
	if err == nil {
		t.Fatal("expected a hard error from Required")
	}
}

func TestMap_TransformsValue(t *testing.T) {
	p := Map(Literal("5"), func(s string) (int, bool) { return len(s), true })
	s := NewState("5")
	v, ok, err := p(s)
	if err != nil || !ok || v != 1 {
		t.Fatalf("Map = %d, %v, %v; want 1, true, nil", v, ok, err)
	}
}

func TestNumber_ParsesMultipleDigits(t *testing.T) {
	s := NewState("123abc")
	v, ok, err := Number()(s)
	if err != nil || !ok || v != 123 {
		t.Fatalf("Number() = %d, %v, %v; want 123, true, nil", v, ok, err)
	}
	if s.Rest() != "abc" {
		t.Errorf("Rest() = %q, want abc", s.Rest())
	}
}
