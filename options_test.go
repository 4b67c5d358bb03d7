package regexcore

import "testing"

func TestResolveMaxBacktrackSteps(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero means default", 0, DefaultMaxBacktrackSteps},
		{"negative means unbounded", -1, 0},
		{"positive passes through", 500, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Options{MaxBacktrackSteps: tt.in}
			if got := o.resolveMaxBacktrackSteps(); got != tt.want {
				t.Errorf("resolveMaxBacktrackSteps() = %d, want %d", got, tt.want)
			}
		})
	}
}
