package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, tt.verbose)

			logger.Debug("pass 1")
			logger.Warn("recovered", "path", "/x")

			out := buf.String()
			if got := strings.Contains(out, "pass 1"); got != tt.wantDebug {
				t.Errorf("debug line shown = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "recovered") || !strings.Contains(out, Prefix) {
				t.Errorf("warning line missing or unprefixed:\n%s", out)
			}
		})
	}
}
