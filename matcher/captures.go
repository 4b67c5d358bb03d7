package matcher

import (
	"github.com/coregx/regexcore/cursor"
	"github.com/coregx/regexcore/nfa"
)

// captureTracker indexes a CompiledRegex's capture-group table by
// state tag, so both the simulator and the backtracker can apply the
// same on-entry bookkeeping rule in O(1) per state without re-deriving
// it twice.
type captureTracker struct {
	re            *nfa.CompiledRegex
	groupStartTag map[int]int // state tag -> capture index
	groupEndTag   map[int]int
}

func newCaptureTracker(re *nfa.CompiledRegex) captureTracker {
	t := captureTracker{
		re:            re,
		groupStartTag: map[int]int{},
		groupEndTag:   map[int]int{},
	}
	for idx, g := range re.CaptureGroups {
		t.groupStartTag[g.Start.Tag] = idx
		t.groupEndTag[g.End.Tag] = idx
	}
	return t
}

// onEnter records a group's start the first time its start state is
// reached, and closes it out once its end state is reached with a
// start already on record.
func (t captureTracker) onEnter(s *nfa.State, c cursor.Cursor) cursor.Cursor {
	if _, ok := t.groupStartTag[s.Tag]; ok {
		c = c.SetGroupStartIndex(s.Tag, c.Index())
	}
	if idx, ok := t.groupEndTag[s.Tag]; ok {
		group := t.re.CaptureGroups[idx]
		if startIdx, ok := c.GroupStartIndex(group.Start.Tag); ok {
			c = c.SetGroup(idx, startIdx, c.Index())
		}
	}
	return c
}
