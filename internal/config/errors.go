package config

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFileSystem indicates a file system name outside the table.
	ErrUnknownFileSystem = errors.New("unknown file system")

	// ErrUnknownOS indicates an operating system name that is not supported.
	ErrUnknownOS = errors.New("unknown operating system")

	// ErrInvalidValue indicates a value that cannot be converted to its option type.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnknownOption indicates a key that is not part of the configuration grammar.
	ErrUnknownOption = errors.New("unknown option")

	// ErrMissingReplacement indicates a rename rule without a replacement.
	ErrMissingReplacement = errors.New("rename rule has no replacement")
)

// Exit codes carried by configuration errors.
const (
	CodeOSError            = 2
	CodeParseNotUnderstood = 40
	CodeOutsideSection     = 41
	CodeInvalidValue       = 42
	CodeMissingReplacement = 43
	CodeUnknownFileSystem  = 50
)

// Error is a configuration failure raised before any traversal starts.
type Error struct {
	// Code is the process exit code for this failure.
	Code int

	// Op names the option or step that failed, e.g. "check.file_system".
	Op string

	// Value is the offending input, if any.
	Value string

	Err error
}

func (e *Error) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %v: %q", e.Op, e.Err, e.Value)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalid(op, value string, err error) *Error {
	code := CodeInvalidValue
	switch {
	case errors.Is(err, ErrUnknownFileSystem):
		code = CodeUnknownFileSystem
	case errors.Is(err, ErrMissingReplacement):
		code = CodeMissingReplacement
	case errors.Is(err, ErrUnknownOption):
		code = CodeParseNotUnderstood
	}
	return &Error{Code: code, Op: op, Value: value, Err: err}
}
