package regexcore

import "github.com/coregx/regexcore/internal/scan"

// EngineStats is a read-only snapshot describing how the most recent
// ForMatch call ran, for diagnosing pathological patterns.
type EngineStats struct {
	// UsedBacktracker is true if the pattern contains a backreference
	// and therefore ran on the recursive backtracker rather than the
	// parallel simulator.
	UsedBacktracker bool

	// RetriesAttempted counts how many times ForMatch resumed the
	// search at a new origin after a successful match, summed across
	// every slice in the input. The engines' own retries at later
	// origins after a failed attempt (inside Simulator.Find and
	// Backtracker.Find) are not counted.
	RetriesAttempted int

	// MatchesFound counts successful matches produced.
	MatchesFound int

	// CPUFeature names the widest vector instruction set this process
	// detected at runtime; purely informational, see
	// internal/scan.FeatureHint, the matcher never branches on it.
	CPUFeature string
}

// Stats returns a snapshot of the statistics accumulated by the most
// recent ForMatch call on re; before ForMatch has run, every field
// except CPUFeature is zero. CPUFeature is filled in on every call.
func (re *Regex) Stats() EngineStats {
	s := re.lastStats
	s.CPUFeature = scan.FeatureHint()
	return s
}
