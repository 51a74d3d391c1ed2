package cli

import (
	"errors"

	"github.com/danieljhkim/pathaudit/internal/config"
	"github.com/danieljhkim/pathaudit/internal/engine"
	"github.com/danieljhkim/pathaudit/internal/report"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitRuntime     = 1
	ExitCheckFailed = 10
	ExitFixFailed   = 20
	ExitOutputExist = 30
	ExitInterrupted = 130
)

// ExitError carries the process exit code of a failed command. Err is nil
// when the command already reported everything it had to say, e.g. a check
// that found invalid paths.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		return cfgErr.Code
	}

	switch {
	case errors.Is(err, engine.ErrInterrupted):
		return ExitInterrupted
	case errors.Is(err, report.ErrOutputExists):
		return ExitOutputExist
	default:
		return ExitRuntime
	}
}

// withCode wraps err in an ExitError carrying its exit code.
func withCode(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: ExitCode(err), Err: err}
}
