package fastpath

import (
	"runtime"
	"strings"
)

// Platform tags a Path with the syntax it was parsed with and is rendered in.
type Platform string

const (
	// Linux paths use "/" separators and have no drive.
	Linux Platform = "linux"

	// Windows paths use "\" separators (but accept "/"), and may carry a drive such as "C:".
	Windows Platform = "windows"
)

// Host returns the platform of the running process.
func Host() Platform {
	if runtime.GOOS == "windows" {
		return Windows
	}
	return Linux
}

// Separator returns the canonical separator used when rendering paths.
func (p Platform) Separator() string {
	if p == Windows {
		return `\`
	}
	return "/"
}

// separators returns every character accepted as a separator when parsing.
func (p Platform) separators() string {
	if p == Windows {
		return `\/`
	}
	return "/"
}

// IsName reports whether name designates exactly one entry inside a
// directory on p: not empty, "." or "..", without a separator and, on
// Windows, without a drive.
func (p Platform) IsName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	if strings.ContainsAny(name, p.separators()) {
		return false
	}
	return p != Windows || !hasDrive(name)
}

// Overhead is the number of characters a native path representation on p
// carries that the generic string form of a foreign path does not show.
//
// A Windows path gains a drive designator ("C:") and the terminating NUL
// counted by MAX_PATH. A Linux path gains the terminating NUL counted by
// PATH_MAX.
func (p Platform) Overhead() int {
	if p == Windows {
		return 3
	}
	return 1
}
