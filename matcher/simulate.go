// Package matcher implements the two execution strategies a compiled
// pattern can run on: a parallel NFA simulation (this file) used
// whenever the pattern is regular, and a recursive backtracking
// fallback (backtrack.go) used whenever it contains a backreference.
//
// The simulation's "visited this generation" bookkeeping uses a sparse
// set sized to the number of states, cleared each generation, so no
// state is expanded twice in one step. This is a single-origin
// simulation: rather than seeding a new thread at every byte position
// in one pass, it retries at the next candidate origin once its
// thread set dies out with no match. That keeps the core loop
// single-threaded and simple; seeding all origins at once is a valid
// optimization over this same baseline, just not one this engine
// takes.
package matcher

import (
	"sort"
	"strconv"
	"strings"

	"github.com/coregx/regexcore/cursor"
	"github.com/coregx/regexcore/internal/sparse"
	"github.com/coregx/regexcore/nfa"
)

// Simulator runs the parallel-state NFA simulation over a compiled
// regular (backreference-free) pattern. Not safe for concurrent use by
// multiple goroutines on the same instance; callers
// wanting parallelism construct one Simulator per goroutine over a
// shared *nfa.CompiledRegex.
type Simulator struct {
	re       *nfa.CompiledRegex
	captures captureTracker
}

// NewSimulator builds a Simulator for re.
func NewSimulator(re *nfa.CompiledRegex) *Simulator {
	return &Simulator{re: re, captures: newCaptureTracker(re)}
}

type thread struct {
	state *nfa.State
	cur   cursor.Cursor
	until int // -1 when this thread carries no pending multi-consume transition
}

// Find runs the simulation starting at origin (origin.Index() ==
// origin.StartIndex(), the attempt's anchor), internally retrying at
// later candidate origins until either a match is produced or the
// slice is exhausted. It returns the cursor holding
// the winning match's captures and whether a match was found at all.
func (sim *Simulator) Find(origin cursor.Cursor) (cursor.Cursor, bool) {
	combosSeen := map[string]bool{} // retained across retries within this Find call
	cur := origin.Fork()

	for {
		matched, bestCur, retryAt := sim.attempt(cur.Fork(), combosSeen)
		if matched {
			return bestCur, true
		}
		if sim.re.IsFromStartOfString {
			return cursor.Cursor{}, false
		}
		_, sliceEnd := cur.SliceBounds()
		next := indexAfter(cur, cur.Index())
		if retryAt > next {
			next = retryAt
		}
		if next > sliceEnd {
			return cursor.Cursor{}, false
		}
		cur = cur.RetryAt(next)
	}
}

// attempt runs one single-origin simulation from cur until its thread
// set dies out or the slice ends, returning the best match found (if
// any) and, on failure, the retry origin the cycle-skip optimization
// discovered (or -1 if none was found).
func (sim *Simulator) attempt(cur cursor.Cursor, combosSeen map[string]bool) (bool, cursor.Cursor, int) {
	reachable := []thread{{state: sim.re.Expression.Start, cur: cur, until: -1}}

	var best *thread
	retryAt := -1

	for {
		if len(reachable) == 0 {
			break
		}

		newReachable, stepBest := sim.expand(reachable, cur)
		if stepBest != nil && (best == nil || stepBest.cur.Index() > best.cur.Index()) {
			best = stepBest
		}
		reachable = newReachable

		if len(reachable) == 0 {
			break
		}

		key := fingerprint(reachable)
		if combosSeen[key] {
			retryAt = cur.Index()
		} else {
			combosSeen[key] = true
		}

		if cur.IsAtLastIndex() {
			break
		}

		if allPending(reachable) {
			cur = cur.AdvanceTo(minUntil(reachable))
		} else {
			_, width, ok := cur.Character()
			if !ok {
				break
			}
			cur = cur.AdvanceBy(width)
		}
	}

	if best != nil {
		return true, best.cur, retryAt
	}
	return false, cursor.Cursor{}, retryAt
}

// expand computes one generation: every thread either carries forward
// unchanged (still inside a pending multi-consume transition) or is
// expanded via a depth-first epsilon-closure. Returns the deduplicated
// next generation plus the best (longest) match observed this step.
func (sim *Simulator) expand(reachable []thread, cur cursor.Cursor) ([]thread, *thread) {
	var newReachable []thread
	visitedThisStep := sparse.NewSparseSet(uint32(sim.re.NumStates))
	var stepBest *thread

	add := func(t thread) {
		tag := uint32(t.state.Tag)
		if visitedThisStep.Contains(tag) {
			return
		}
		visitedThisStep.Insert(tag)
		newReachable = append(newReachable, t)
	}

	for _, t := range reachable {
		if t.until >= 0 && cur.Index() < t.until {
			add(t)
			continue
		}
		sim.closure(t.state, t.cur.Fork().AdvanceTo(cur.Index()), add, &stepBest)
	}

	return newReachable, stepBest
}

// closure performs the depth-first epsilon-closure seeded at s,
// exploring transitions in compile order (so greedy quantifiers prefer
// to loop and alternation prefers its earlier branch).
func (sim *Simulator) closure(s *nfa.State, c cursor.Cursor, add func(thread), best **thread) {
	encountered := map[int]bool{} // fresh per seed, guards ε-cycles
	sim.closureStep(s, c, encountered, add, best)
}

func (sim *Simulator) closureStep(s *nfa.State, c cursor.Cursor, encountered map[int]bool, add func(thread), best **thread) {
	if encountered[s.Tag] {
		return
	}
	encountered[s.Tag] = true

	c = sim.captures.onEnter(s, c)

	if s.IsEnd {
		if *best == nil || c.Index() > (*best).cur.Index() {
			t := thread{state: s, cur: c, until: -1}
			*best = &t
		}
	}

	for _, tr := range s.Transitions {
		consumed := tr.Condition(c)
		switch {
		case consumed == nfa.NotTaken:
			continue
		case consumed == 0:
			sim.closureStep(tr.End, c.Fork(), encountered, add, best)
		case consumed == 1:
			add(thread{state: tr.End, cur: c, until: -1})
		default:
			add(thread{state: tr.End, cur: c, until: c.Index() + consumed})
		}
	}
}

func allPending(threads []thread) bool {
	for _, t := range threads {
		if t.until < 0 {
			return false
		}
	}
	return len(threads) > 0
}

func minUntil(threads []thread) int {
	min := -1
	for _, t := range threads {
		if min == -1 || t.until < min {
			min = t.until
		}
	}
	return min
}

func fingerprint(threads []thread) string {
	tags := make([]int, len(threads))
	for i, t := range threads {
		tags[i] = t.state.Tag
	}
	sort.Ints(tags)
	var b strings.Builder
	for i, tag := range tags {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(tag))
	}
	return b.String()
}

// indexAfter returns the position guaranteeing progress past idx: one
// rune past it, or idx+1 if no rune starts there.
func indexAfter(c cursor.Cursor, idx int) int {
	moved := c.AdvanceTo(idx)
	if _, width, ok := moved.Character(); ok {
		return idx + width
	}
	return idx + 1
}
