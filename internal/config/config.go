// Package config builds the fully resolved, read-only configuration
// consumed by the audit engine.
//
// A Config is assembled once per invocation by Load from three layers:
// built-in defaults, an optional TOML file, and command line overrides.
// Every malformed value is reported as an *Error before any traversal
// begins; the engine never validates configuration itself.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/danieljhkim/pathaudit/internal/fastpath"
)

// Collision selects what a rename does when its destination exists.
type Collision string

const (
	// CollisionSkip leaves the source untouched.
	CollisionSkip Collision = "skip"

	// CollisionIncrement renames to "stem(n).suffix" with the smallest
	// free n.
	CollisionIncrement Collision = "increment"
)

// ParseCollision parses a collision policy name.
func ParseCollision(s string) (Collision, error) {
	switch c := Collision(strings.ToLower(strings.TrimSpace(s))); c {
	case CollisionSkip, CollisionIncrement:
		return c, nil
	default:
		return "", fmt.Errorf("%w: collision %q, expected skip or increment", ErrInvalidValue, s)
	}
}

// DryRun describes whether mutations are performed. A dry run may carry a
// limit on the number of entries the pattern pass processes.
type DryRun struct {
	Enabled bool

	// Limit is the number of entries processed by the pattern pass.
	// Zero means unlimited.
	Limit int
}

// ParseDryRun accepts "on", "off", "true", "false", or a positive entry
// limit, optionally written "limit:N".
func ParseDryRun(s string) (DryRun, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "off", "false", "no":
		return DryRun{}, nil
	case "on", "true", "yes":
		return DryRun{Enabled: true}, nil
	}

	v = strings.TrimPrefix(v, "limit:")
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return DryRun{}, fmt.Errorf("%w: dry run %q, expected on, off or a positive limit", ErrInvalidValue, s)
	}
	return DryRun{Enabled: true, Limit: n}, nil
}

func (d DryRun) String() string {
	switch {
	case !d.Enabled:
		return "off"
	case d.Limit > 0:
		return "limit:" + strconv.Itoa(d.Limit)
	default:
		return "on"
	}
}

// Config is the resolved configuration for one check or fix run.
// It is never mutated once built.
type Config struct {
	// Root is the file or directory to audit.
	Root fastpath.Path

	Checks Check

	OS         OS
	FileSystem FileSystem

	// Platform is the syntax of the target system. Length checks add the
	// platform overhead when it differs from the audited paths' platform.
	Platform fastpath.Platform

	// BasePathLength is the length of the destination directory the tree
	// will be copied under.
	BasePathLength int

	// MaxPathLength is already net of BasePathLength.
	MaxPathLength int
	MaxNameLength int

	InvalidCharacters *regexp.Regexp

	// InvalidNames matches reserved full names. Nil when the file system
	// reserves none.
	InvalidNames *regexp.Regexp

	Replacement  string
	ExtraInvalid string
	ASCII        ASCII

	Rules   []*RenameRule
	Exclude []fastpath.Path

	Collision      Collision
	DryRun         DryRun
	FollowSymlinks bool

	// FileSystems is the effective table after file overrides.
	FileSystems map[FileSystem]FileSystemSpec
}

// Excluded reports whether p is at or below an excluded path.
func (c *Config) Excluded(p fastpath.Path) bool {
	for _, ex := range c.Exclude {
		if p.HasPrefix(ex) {
			return true
		}
	}
	return false
}

// Spec returns the table entry of the target file system.
func (c *Config) Spec() FileSystemSpec {
	return c.FileSystems[c.FileSystem]
}

// File renders c back into the file grammar, as shown by "config show".
func (c *Config) File() File {
	f := DefaultFile()
	f.Behavior.Collision = string(c.Collision)
	if c.DryRun.Limit > 0 {
		f.Behavior.DryRun = c.DryRun.Limit
	} else {
		f.Behavior.DryRun = c.DryRun.Enabled
	}

	f.Check.Run = c.Checks.String()
	f.Check.OperatingSystem = string(c.OS)
	f.Check.FileSystem = string(c.FileSystem)
	f.Check.BasePathLength = c.BasePathLength
	f.Check.MaxPathLength = c.MaxPathLength
	f.Check.MaxNameLength = c.MaxNameLength
	f.Check.Characters = CharactersSection{
		ExtraInvalid: c.ExtraInvalid,
		Replacement:  c.Replacement,
		ASCII:        string(c.ASCII),
	}

	if spec, ok := c.FileSystems[c.FileSystem]; ok {
		special := spec.SpecialCharacters
		control := spec.ControlCharacters
		reserved := spec.ReservedNames
		maxPath := spec.MaxPathLength
		maxName := spec.MaxNameLength
		f.FileSystems = map[string]FileSystemFile{
			string(c.FileSystem): {
				SpecialCharacters: &special,
				ControlCharacters: &control,
				ReservedNames:     &reserved,
				MaxPathLength:     &maxPath,
				MaxNameLength:     &maxName,
			},
		}
	}

	for _, r := range c.Rules {
		replacement := r.Replacement
		caseSensitive := r.CaseSensitive
		accentSensitive := r.AccentSensitive
		f.Rename = append(f.Rename, RuleSection{
			Pattern:         r.Source,
			Replacement:     &replacement,
			CaseSensitive:   &caseSensitive,
			AccentSensitive: &accentSensitive,
		})
	}
	for _, ex := range c.Exclude {
		f.Exclude = append(f.Exclude, ex.String())
	}
	return f
}
