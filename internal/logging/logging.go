// Package logging configures the structured logger shared by the engine and
// the CLI.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Prefix tags every line written by pathaudit.
const Prefix = "pathaudit"

// New returns a logger writing to w. With verbose, debug lines such as
// pass boundaries and individual renames are shown too.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: Prefix,
		Level:  level,
	})
}
