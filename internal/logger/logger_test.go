package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{name: "quiet", verbose: false, wantDebug: false},
		{name: "verbose", verbose: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(&buf, tt.verbose)

			log.Debug().Msg("debug line")
			log.Info().Str("asset", "logo").Msg("info line")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug emitted = %v, want %v; output:\n%s", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "info line") {
				t.Errorf("info line missing; output:\n%s", out)
			}
			if !strings.Contains(out, "asset=logo") {
				t.Errorf("field missing; output:\n%s", out)
			}
		})
	}
}
