package matcher

import (
	"github.com/coregx/regexcore/cursor"
	"github.com/coregx/regexcore/nfa"
)

// Backtracker is the recursive fallback used whenever a compiled
// pattern contains a backreference. The simulator's (state,
// position)-deduplicated generations are unsound once a transition's
// outcome depends on previously captured text, since two paths can
// reach the same state at the same position with different captures
// and therefore different futures, so this cannot memoize on (state,
// position) the way the simulator's generation-dedup effectively does.
// maxSteps bounds recursion with a plain counter instead of a memo
// table.
type Backtracker struct {
	re       *nfa.CompiledRegex
	captures captureTracker
	maxSteps int
}

// NewBacktracker builds a Backtracker for re. maxSteps <= 0 means
// unbounded recursion; a positive value is a safety valve against
// pathological nested quantifiers over long input.
func NewBacktracker(re *nfa.CompiledRegex, maxSteps int) *Backtracker {
	return &Backtracker{re: re, captures: newCaptureTracker(re), maxSteps: maxSteps}
}

// Exceeding maxSteps is treated the same as an ordinary failed branch,
// not a distinct error value, so Find simply reports no match once the
// budget runs out.

// Find runs the backtracking search starting at origin, retrying at
// later origins exactly like the simulator.
func (b *Backtracker) Find(origin cursor.Cursor) (cursor.Cursor, bool) {
	cur := origin.Fork()
	steps := 0 // one budget for the whole Find call, across every origin
	for {
		if result, ok := b.visit(b.re.Expression.Start, cur, &steps); ok {
			return result, true
		}
		if b.re.IsFromStartOfString {
			return cursor.Cursor{}, false
		}
		_, sliceEnd := cur.SliceBounds()
		next := indexAfter(cur, cur.Index())
		if next > sliceEnd {
			return cursor.Cursor{}, false
		}
		cur = cur.RetryAt(next)
	}
}

// visit tries state s with cursor c, recursing into the first
// transition (in compile order) whose condition succeeds, the
// compiler emits a greedy quantifier's loop edge before its exit edge,
// so this naturally gives greedy, leftmost-first-match semantics.
func (b *Backtracker) visit(s *nfa.State, c cursor.Cursor, steps *int) (cursor.Cursor, bool) {
	*steps++
	if b.maxSteps > 0 && *steps > b.maxSteps {
		return cursor.Cursor{}, false
	}

	c = b.captures.onEnter(s, c)

	if s.IsEnd {
		return c, true
	}

	for _, tr := range s.Transitions {
		consumed := tr.Condition(c)
		if consumed == nfa.NotTaken {
			continue
		}
		next := c.Fork().AdvanceBy(consumed)
		if result, ok := b.visit(tr.End, next, steps); ok {
			return result, true
		}
	}
	return cursor.Cursor{}, false
}
