package cursor

import "testing"

func TestCursor_CharacterAndAdvance(t *testing.T) {
	c := New("héllo", 0, len("héllo"), 0)
	r, width, ok := c.Character()
	if !ok || r != 'h' || width != 1 {
		t.Fatalf("Character() = %q, %d, %v; want 'h', 1, true", r, width, ok)
	}
	c = c.AdvanceBy(width)
	r, width, ok = c.Character()
	if !ok || r != 'é' || width != 2 {
		t.Fatalf("Character() after advance = %q, %d, %v; want 'é', 2, true", r, width, ok)
	}
}

func TestCursor_COWSharesUntilMutated(t *testing.T) {
	base := New("abc", 0, 3, 0).SetGroup(1, 0, 1)
	forked := base.Fork()

	mutated := forked.SetGroup(1, 0, 2)
	if r, _ := base.Group(1); r.Hi != 1 {
		t.Errorf("base's group 1 changed after forked mutation: %+v", r)
	}
	if r, _ := mutated.Group(1); r.Hi != 2 {
		t.Errorf("mutated group 1 = %+v, want Hi=2", r)
	}
}

func TestCursor_RetryAt_PurgesStaleGroupsButKeepsPreviousMatchIndex(t *testing.T) {
	c := New("aaaa", 0, 4, 0).
		SetGroup(1, 0, 1).
		SetGroup(2, 2, 3).
		SetPreviousMatchIndex(5)

	retried := c.RetryAt(2)

	if retried.StartIndex() != 2 || retried.Index() != 2 {
		t.Fatalf("RetryAt(2): startIndex=%d index=%d, want 2,2", retried.StartIndex(), retried.Index())
	}
	if _, ok := retried.Group(1); ok {
		t.Error("group 1 (starts before origin) should have been purged")
	}
	if r, ok := retried.Group(2); !ok || r.Lo != 2 {
		t.Errorf("group 2 (starts at origin) should survive, got %+v, ok=%v", r, ok)
	}
	if retried.PreviousMatchIndex() != 5 {
		t.Errorf("PreviousMatchIndex = %d, want 5 (RetryAt must not reset it)", retried.PreviousMatchIndex())
	}
}

func TestCursor_StartAt_ResetsEverything(t *testing.T) {
	c := New("aaaa", 0, 4, 0).SetGroup(1, 0, 1).SetPreviousMatchIndex(5)
	reset := c.StartAt(1)
	if _, ok := reset.Group(1); ok {
		t.Error("StartAt should discard all groups")
	}
	if reset.StartIndex() != 1 || reset.Index() != 1 {
		t.Errorf("StartAt(1): startIndex=%d index=%d, want 1,1", reset.StartIndex(), reset.Index())
	}
}

func TestCursor_GroupStartIndex_RecordsOnlyOnce(t *testing.T) {
	c := New("abc", 0, 3, 0)
	c = c.SetGroupStartIndex(7, 1)
	c = c.SetGroupStartIndex(7, 99) // must be a no-op, already recorded
	idx, ok := c.GroupStartIndex(7)
	if !ok || idx != 1 {
		t.Errorf("GroupStartIndex(7) = %d, %v; want 1, true", idx, ok)
	}
}
