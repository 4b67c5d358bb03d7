package regexcore

import "testing"

func TestSetDebug_TogglesWithoutPanicking(t *testing.T) {
	SetDebug(true)
	defer SetDebug(false)
	globalDebug.logf("probe %d", 1)

	SetDebug(false)
	globalDebug.logf("probe %d", 2) // must be a silent no-op
}

func TestNilDebugLogger_IsSafe(t *testing.T) {
	var d *debugLogger
	d.logf("never panics even on a nil receiver")
}
