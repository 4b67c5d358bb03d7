package regexcore

import (
	"log"
	"sync/atomic"
)

// globalDebug is the process-wide debug toggle: stdlib log behind an
// atomic.Bool, formatting nothing at all when disabled so the toggle
// is side-effect-free off the hot path.
var globalDebug = &debugLogger{}

// SetDebug turns the process-wide debug log on or off. Off by default.
func SetDebug(on bool) {
	globalDebug.enabled.Store(on)
}

type debugLogger struct {
	enabled atomic.Bool
}

func (d *debugLogger) logf(format string, args ...any) {
	if d == nil || !d.enabled.Load() {
		return
	}
	log.Printf("regexcore: "+format, args...)
}
