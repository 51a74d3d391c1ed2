package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/danieljhkim/pathaudit/internal/clock"
	"github.com/danieljhkim/pathaudit/internal/engine"
	"github.com/danieljhkim/pathaudit/internal/fsops"
	"github.com/danieljhkim/pathaudit/internal/logging"
)

// newEngine creates a new engine with real implementations of all
// dependencies. Logs go to logOut.
func newEngine(logOut io.Writer) *engine.Engine {
	fs := fsops.NewRealFS()
	logger := logging.New(logOut, verbose)
	clk := &clock.RealClock{}

	return engine.New(fs, logger, clk)
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// outputJSON outputs a value as JSON to w.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// workingDir returns the directory relative paths are resolved against.
func workingDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return cwd, nil
}
