package regexcore

// Options configures how a pattern is parsed and matched.
type Options struct {
	// CaseInsensitive folds ASCII/Unicode case when comparing literal
	// characters and character-class membership.
	CaseInsensitive bool

	// Multiline splits the input on '\n' before matching, and makes
	// '^'/'$' bind to line boundaries instead of the whole string.
	Multiline bool

	// DotMatchesLineSeparators makes '.' match '\n' too.
	DotMatchesLineSeparators bool

	// MaxBacktrackSteps bounds the recursive backtracking matcher used
	// for patterns containing backreferences. Zero means the package
	// default; negative means unbounded.
	MaxBacktrackSteps int
}

// DefaultMaxBacktrackSteps bounds backtracking recursion when Options
// leaves MaxBacktrackSteps at its zero value, generous enough for
// ordinary patterns, but closing off unbounded recursion on pathological
// nested quantifiers over long input.
const DefaultMaxBacktrackSteps = 2_000_000

func (o Options) resolveMaxBacktrackSteps() int {
	if o.MaxBacktrackSteps == 0 {
		return DefaultMaxBacktrackSteps
	}
	if o.MaxBacktrackSteps < 0 {
		return 0
	}
	return o.MaxBacktrackSteps
}
