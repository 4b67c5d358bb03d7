package scan

import "golang.org/x/sys/cpu"

// FeatureHint names the widest relevant vector instruction set the
// running CPU advertises. It is informational only: this package never
// dispatches on it, and its scanners (scan.go) use the portable SWAR
// technique on every CPU. It exists purely to populate
// regexcore.EngineStats.CPUFeature so a caller diagnosing throughput
// can see whether the SWAR scan is at least running on hardware that
// could do better.
func FeatureHint() string {
	switch {
	case cpu.X86.HasAVX2:
		return "avx2"
	case cpu.X86.HasSSE42:
		return "sse4.2"
	default:
		return "generic"
	}
}
