package engine

import "errors"

var (
	// ErrInterrupted indicates the run was cancelled before the walk ended.
	// Diagnostics emitted before the cancellation remain valid.
	ErrInterrupted = errors.New("interrupted")

	// ErrCollision indicates a rename destination already exists and the
	// collision policy forbids working around it.
	ErrCollision = errors.New("destination exists")

	// ErrInvalidName indicates a computed name that would not stay inside
	// the directory of the entry being renamed.
	ErrInvalidName = errors.New("invalid name")

	// ErrNoFreeName indicates no "stem(n).suffix" name could be found.
	ErrNoFreeName = errors.New("no free name")
)
