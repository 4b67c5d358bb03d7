// Package cursor implements the matcher's position handle: a cursor
// over the input string with copy-on-write scratch for captures,
// group-start marks and the previous-match index.
//
// The interior is a shared, reference-counted struct. Fork raises the
// count, and a mutating method clones the interior first only when the
// count is above one, so branching a cursor with Fork is cheap and
// mutating one forked branch never disturbs another. A plain Go copy of
// a Cursor value is not counted: it shares the interior, and a mutation
// made through either copy is seen by both. Capture bookkeeping (groups, group-start marks,
// previous match index, slice bounds) lives in that same interior.
package cursor

import "unicode/utf8"

// Range is a half-open [Lo, Hi) span, absolute offsets into the full
// input string.
type Range struct {
	Lo, Hi int
}

// interior is the shared, reference-counted state behind a Cursor.
// Capture-group bookkeeping is keyed by plain ints (capture index, or
// an nfa.State's stable Tag for groupsStartIndexes) rather than by a
// pointer into package nfa, so that package has no need to import this
// one back (nfa imports cursor, not the other way around).
type interior struct {
	full               string
	sliceStart         int
	sliceEnd           int
	startIndex         int
	index              int
	groups             map[int]Range
	groupsStartIndexes map[int]int
	previousMatchIndex int
	refs               int
}

// Cursor is a cheap-to-copy value wrapping a shared interior; only
// handles made by Fork are isolated from each other's mutations.
type Cursor struct {
	in *interior
}

// New creates a cursor over the slice [sliceStart, sliceEnd) of full,
// with the search attempt beginning at startIndex.
func New(full string, sliceStart, sliceEnd, startIndex int) Cursor {
	return Cursor{in: &interior{
		full:                full,
		sliceStart:          sliceStart,
		sliceEnd:            sliceEnd,
		startIndex:          startIndex,
		index:               startIndex,
		groups:              map[int]Range{},
		groupsStartIndexes:  map[int]int{},
		previousMatchIndex:  -1,
		refs:                1,
	}}
}

// clone shares the interior (no copy) and bumps the reference count;
// this is what makes branching in the simulator and backtracker cheap.
func (c Cursor) clone() Cursor {
	c.in.refs++
	return Cursor{in: c.in}
}

// ensureUnique returns an interior this Cursor may mutate freely: the
// same one if it is exclusively owned, or a fresh deep copy otherwise.
func (c Cursor) ensureUnique() *interior {
	if c.in.refs == 1 {
		return c.in
	}
	c.in.refs--
	groups := make(map[int]Range, len(c.in.groups))
	for k, v := range c.in.groups {
		groups[k] = v
	}
	starts := make(map[int]int, len(c.in.groupsStartIndexes))
	for k, v := range c.in.groupsStartIndexes {
		starts[k] = v
	}
	return &interior{
		full:                c.in.full,
		sliceStart:          c.in.sliceStart,
		sliceEnd:            c.in.sliceEnd,
		startIndex:          c.in.startIndex,
		index:               c.in.index,
		groups:              groups,
		groupsStartIndexes:  starts,
		previousMatchIndex:  c.in.previousMatchIndex,
		refs:                1,
	}
}

// Fork returns an independent handle to the same logical position and
// captures; mutating one side does not affect the other.
func (c Cursor) Fork() Cursor { return c.clone() }

// Index returns the current absolute position in the full input.
func (c Cursor) Index() int { return c.in.index }

// StartIndex returns the origin of the current match attempt.
func (c Cursor) StartIndex() int { return c.in.startIndex }

// SliceBounds returns the [start, end) bounds of the slice (line, or
// the whole string outside multiline mode) this cursor is scanning.
func (c Cursor) SliceBounds() (int, int) { return c.in.sliceStart, c.in.sliceEnd }

// FullInput returns the complete original input string, independent of
// the current slice, needed so absolute anchors (\A \z \Z) and \G see
// the whole string even inside a multiline split.
func (c Cursor) FullInput() string { return c.in.full }

// IsEmpty reports whether the current slice is empty.
func (c Cursor) IsEmpty() bool { return c.in.sliceEnd == c.in.sliceStart }

// IsAtLastIndex reports whether the cursor has reached the end of its slice.
func (c Cursor) IsAtLastIndex() bool { return c.in.index >= c.in.sliceEnd }

// Character decodes the rune at the current index, returning its byte
// width and whether a rune was available (false at end of slice).
func (c Cursor) Character() (rune, int, bool) {
	return c.CharacterOffsetBy(0)
}

// CharacterOffsetBy decodes the rune at index+offsetBytes, treating
// offsetBytes as a byte displacement from the current index.
func (c Cursor) CharacterOffsetBy(offsetBytes int) (rune, int, bool) {
	pos := c.in.index + offsetBytes
	if pos < c.in.sliceStart || pos >= c.in.sliceEnd {
		return 0, 0, false
	}
	r, width := utf8.DecodeRuneInString(c.in.full[pos:c.in.sliceEnd])
	return r, width, true
}

func runeLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

// StartAt returns a cursor beginning a fresh match attempt at idx: both
// startIndex and index move to idx, and group bookkeeping and the
// previous-match index from earlier attempts are discarded (a new
// attempt never inherits stale captures).
func (c Cursor) StartAt(idx int) Cursor {
	in := c.ensureUnique()
	in.startIndex = idx
	in.index = idx
	in.groups = map[int]Range{}
	in.groupsStartIndexes = map[int]int{}
	in.previousMatchIndex = -1
	return Cursor{in: in}
}

// RetryAt begins a new simulation attempt at idx without discarding
// this cursor's other per-match-level bookkeeping (previousMatchIndex):
// startIndex and index both move to idx, and any recorded group or
// group-start whose position predates idx is purged, the matcher's
// internal retry-to-a-later-origin step, as distinct from StartAt's
// full reset used to begin a brand new top-level search.
func (c Cursor) RetryAt(idx int) Cursor {
	in := c.ensureUnique()
	in.startIndex = idx
	in.index = idx
	return Cursor{in: in}.PurgeGroupsBefore(idx)
}

// AdvanceTo moves the cursor directly to idx (used by the simulator's
// multi-character skip optimization).
func (c Cursor) AdvanceTo(idx int) Cursor {
	in := c.ensureUnique()
	in.index = idx
	return Cursor{in: in}
}

// AdvanceBy moves the cursor forward by n bytes.
func (c Cursor) AdvanceBy(n int) Cursor {
	return c.AdvanceTo(c.in.index + n)
}

// Groups returns the capture map; callers must not mutate the result.
func (c Cursor) Groups() map[int]Range { return c.in.groups }

// Group returns capture index idx's range and whether it has been captured.
func (c Cursor) Group(idx int) (Range, bool) {
	r, ok := c.in.groups[idx]
	return r, ok
}

// SetGroup records that capture group idx spans [lo, hi).
func (c Cursor) SetGroup(idx, lo, hi int) Cursor {
	in := c.ensureUnique()
	in.groups[idx] = Range{Lo: lo, Hi: hi}
	return Cursor{in: in}
}

// PurgeGroupsBefore drops any recorded group whose lower bound lies
// before origin, used when the simulator restarts at a new search
// origin.
func (c Cursor) PurgeGroupsBefore(origin int) Cursor {
	in := c.ensureUnique()
	for idx, r := range in.groups {
		if r.Lo < origin {
			delete(in.groups, idx)
		}
	}
	for tag, idx := range in.groupsStartIndexes {
		if idx < origin {
			delete(in.groupsStartIndexes, tag)
		}
	}
	return Cursor{in: in}
}

// GroupStartIndex returns the position at which the group-start state
// identified by stateTag was entered, if recorded.
func (c Cursor) GroupStartIndex(stateTag int) (int, bool) {
	idx, ok := c.in.groupsStartIndexes[stateTag]
	return idx, ok
}

// SetGroupStartIndex records that the group-start state stateTag was
// entered at idx, unless already recorded.
func (c Cursor) SetGroupStartIndex(stateTag, idx int) Cursor {
	if _, ok := c.in.groupsStartIndexes[stateTag]; ok {
		return c
	}
	in := c.ensureUnique()
	in.groupsStartIndexes[stateTag] = idx
	return Cursor{in: in}
}

// PreviousMatchIndex returns the end of the most recent successful
// match, or -1 if none (feeds the \G anchor).
func (c Cursor) PreviousMatchIndex() int { return c.in.previousMatchIndex }

// SetPreviousMatchIndex records the end of a successful match.
func (c Cursor) SetPreviousMatchIndex(idx int) Cursor {
	in := c.ensureUnique()
	in.previousMatchIndex = idx
	return Cursor{in: in}
}

// Slice returns full[lo:hi), the textual content of a match or capture.
func (c Cursor) Slice(lo, hi int) string { return c.in.full[lo:hi] }
