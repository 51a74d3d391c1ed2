// Package diagnostic defines the findings produced while auditing and
// repairing a tree.
//
// Diagnostic is a closed sum type: every variant lives in this package and
// implements the unexported sealed method, so a type switch over the
// variants below is exhaustive.
package diagnostic

import (
	"fmt"

	"github.com/danieljhkim/pathaudit/internal/fastpath"
)

// Kind names a diagnostic variant.
type Kind string

const (
	KindEmpty           Kind = "empty"
	KindCharacters      Kind = "characters"
	KindInvalidName     Kind = "invalid_name"
	KindNameLength      Kind = "name_length"
	KindLength          Kind = "length"
	KindRename          Kind = "rename"
	KindCharactersFixed Kind = "characters_fixed"
	KindError           Kind = "error"
)

// Diagnostic is one finding about one path.
type Diagnostic interface {
	Kind() Kind

	// Location is the path the finding is about. For renames it is the
	// original path.
	Location() fastpath.Path

	sealed()
}

// Match is a byte range [Start, End) in a name's stem.
type Match struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// AppliedRule records one rename rule that matched and the candidate name
// right after it was applied.
type AppliedRule struct {
	Rule          string `json:"rule"`
	Result        string `json:"result"`
	IgnoreCase    bool   `json:"ignore_case,omitempty"`
	IgnoreAccents bool   `json:"ignore_accents,omitempty"`
}

// Empty reports a directory with no entries, or whose entries are all
// empty directories themselves.
type Empty struct {
	Path fastpath.Path
}

// Characters reports forbidden characters in a stem.
type Characters struct {
	Path    fastpath.Path
	Matches []Match
}

// InvalidName reports a name reserved by the target file system.
type InvalidName struct {
	Path fastpath.Path
}

// NameLength reports a name longer than the target allows.
type NameLength struct {
	Path  fastpath.Path
	Len   int
	Limit int
}

// Length reports a full path longer than the target allows.
type Length struct {
	Path  fastpath.Path
	Len   int
	Limit int
}

// Rename reports a rename driven by the configured rules.
type Rename struct {
	Path    fastpath.Path
	NewPath fastpath.Path
	Rules   []AppliedRule
}

// CharactersFixed reports forbidden characters that were replaced.
type CharactersFixed struct {
	Path    fastpath.Path
	NewPath fastpath.Path
	Matches []Match
}

// Error reports an operating system failure that was recovered from.
type Error struct {
	Path fastpath.Path
	Err  error
}

func (Empty) Kind() Kind           { return KindEmpty }
func (Characters) Kind() Kind      { return KindCharacters }
func (InvalidName) Kind() Kind     { return KindInvalidName }
func (NameLength) Kind() Kind      { return KindNameLength }
func (Length) Kind() Kind          { return KindLength }
func (Rename) Kind() Kind          { return KindRename }
func (CharactersFixed) Kind() Kind { return KindCharactersFixed }
func (Error) Kind() Kind           { return KindError }

func (d Empty) Location() fastpath.Path           { return d.Path }
func (d Characters) Location() fastpath.Path      { return d.Path }
func (d InvalidName) Location() fastpath.Path     { return d.Path }
func (d NameLength) Location() fastpath.Path      { return d.Path }
func (d Length) Location() fastpath.Path          { return d.Path }
func (d Rename) Location() fastpath.Path          { return d.Path }
func (d CharactersFixed) Location() fastpath.Path { return d.Path }
func (d Error) Location() fastpath.Path           { return d.Path }

func (Empty) sealed()           {}
func (Characters) sealed()      {}
func (InvalidName) sealed()     {}
func (NameLength) sealed()      {}
func (Length) sealed()          {}
func (Rename) sealed()          {}
func (CharactersFixed) sealed() {}
func (Error) sealed()           {}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (d Error) Unwrap() error { return d.Err }

func (d Error) Error() string {
	return fmt.Sprintf("%s: %v", d.Path, d.Err)
}

// Target returns the path a diagnostic leaves behind: the new path for
// renames, the location otherwise.
func Target(d Diagnostic) fastpath.Path {
	switch d := d.(type) {
	case Rename:
		return d.NewPath
	case CharactersFixed:
		return d.NewPath
	default:
		return d.Location()
	}
}

// Detail returns a short human readable description of the finding.
func Detail(d Diagnostic) string {
	switch d := d.(type) {
	case Empty:
		return "empty directory"
	case Characters:
		return fmt.Sprintf("%d invalid character sequence(s)", len(d.Matches))
	case InvalidName:
		return "reserved name"
	case NameLength:
		return fmt.Sprintf("name is %d characters long, limit is %d", d.Len, d.Limit)
	case Length:
		return fmt.Sprintf("path is %d characters long, limit is %d", d.Len, d.Limit)
	case Rename:
		return fmt.Sprintf("%d rule(s) applied", len(d.Rules))
	case CharactersFixed:
		return fmt.Sprintf("%d invalid character sequence(s) replaced", len(d.Matches))
	case Error:
		return d.Err.Error()
	default:
		return ""
	}
}

// IsFix reports whether d records a change made (or planned, in dry-run)
// rather than a problem.
func IsFix(d Diagnostic) bool {
	switch d.(type) {
	case Rename, CharactersFixed:
		return true
	default:
		return false
	}
}
