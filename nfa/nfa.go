// Package nfa defines the compiled state-machine data model: states
// linked by conditional transitions, and the Expression fragments the
// compiler assembles them into.
//
// State identity is reference identity: two *State values are the same
// state iff they are the same pointer. Transitions carry an open
// Condition closure rather than a fixed enum of transition kinds
// (byte range, split, epsilon, ...), so a transition can encode
// arbitrary match-time logic (anchors, backreferences, character sets)
// without the state machine needing to know about any of it.
package nfa

import "github.com/coregx/regexcore/cursor"

// NotTaken is returned by a Condition when the transition does not
// fire at the cursor's current position.
const NotTaken = -1

// Condition tests whether a transition fires at the cursor's current
// position, returning the number of bytes it would consume (0 for
// an ε-transition, >0 for a consuming one) or NotTaken.
type Condition func(c cursor.Cursor) int

// Transition pairs a Condition with the state it leads to.
type Transition struct {
	Condition Condition
	End       *State
}

// State is a single NFA node: a stable Tag (used to index bitsets and
// sparse sets sized |states|), whether it is an accepting state, and
// its outgoing transitions in compile order, compile order matters,
// since greedy quantifiers rely on the loop edge being explored before
// the exit edge.
type State struct {
	Tag         int
	IsEnd       bool
	Transitions []Transition
}

// Builder assigns stable, increasing tags to newly created states; one
// Builder is shared by every Expression fragment the compiler builds
// for a single pattern.
type Builder struct {
	next int
}

// NewBuilder creates a state tag allocator starting at 0.
func NewBuilder() *Builder { return &Builder{} }

// NewState allocates a fresh, transitionless state.
func (b *Builder) NewState() *State {
	s := &State{Tag: b.next}
	b.next++
	return s
}

// Count returns how many states have been allocated so far, the size
// a caller should give bitsets/sparse sets indexed by Tag.
func (b *Builder) Count() int { return b.next }

// AddEpsilon appends an unconditional, non-consuming transition from s to end.
func (s *State) AddEpsilon(end *State) {
	s.Transitions = append(s.Transitions, Transition{
		Condition: func(cursor.Cursor) int { return 0 },
		End:       end,
	})
}

// AddTransition appends a conditional transition from s to end.
func (s *State) AddTransition(cond Condition, end *State) {
	s.Transitions = append(s.Transitions, Transition{Condition: cond, End: end})
}

// Expression is a compiled fragment exposing a distinguished start and
// end state. Every path from Start reaches End; End.IsEnd is set to
// true only once, by the compiler's final outer wrap.
type Expression struct {
	Start *State
	End   *State
}

// CaptureGroup records the start/end states bounding one capture group
// fragment, so the matcher can recognize "I just entered/left group i"
// by comparing state tags against Start.Tag/End.Tag.
type CaptureGroup struct {
	Index int
	Start *State
	End   *State
}

// CompiledRegex is the compiler's final artifact.
type CompiledRegex struct {
	Expression Expression

	// CaptureGroups is indexed by capture index (1-based; index 0, the
	// whole match, has no entry here, the matcher synthesizes it from
	// the Expression's own Start/End).
	CaptureGroups map[int]CaptureGroup

	// Symbols maps a state's Tag to the AST node it was compiled from,
	// used for debugging and for transition metadata.
	Symbols map[int]SymbolInfo

	// NumStates sizes any bitset/sparse set the matcher allocates.
	NumStates int

	// IsRegular is false when the pattern contains a backreference,
	// forcing the backtracking matcher.
	IsRegular bool

	// IsFromStartOfString is true when the outer pattern begins with
	// ^ (non-multiline) or \A, letting the driver skip retrying at
	// later offsets.
	IsFromStartOfString bool
}

// SymbolInfo is the debugging/metadata record the compiler attaches to
// a state's originating AST construct.
type SymbolInfo struct {
	Description string
}
