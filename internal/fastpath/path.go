// Package fastpath provides a lightweight, immutable path value.
//
// A Path is a sequence of name segments, an absolute flag, an optional drive
// and the Platform whose syntax it follows. It never touches the filesystem:
// every I/O primitive lives in package fsops and takes the path's string
// form. This keeps traversal logic cheap to build and easy to test against
// in-memory trees.
//
// Invariants:
//   - segments never contain "" or "."
//   - the root (or the current directory, for relative paths) has zero segments
//   - Parse(p.String(), p.Platform()) is Equal to p
package fastpath

import (
	"iter"
	"slices"
	"strings"
	"unicode/utf8"
)

// Path is an immutable path value. The zero value is the relative path ".".
//
// Derived properties (string form, stem, suffix) are computed on first use
// and memoized. Copies of a Path share the memo, so a Path must not be used
// from several goroutines at once.
type Path struct {
	segments []string
	absolute bool
	drive    string
	platform Platform
	memo     *memo
}

type memo struct {
	str     string
	strDone bool

	stem      string
	suffix    string
	splitDone bool
}

// New builds a Path from raw segments. Empty and "." segments are dropped.
func New(platform Platform, absolute bool, segments ...string) Path {
	clean := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" && s != "." {
			clean = append(clean, s)
		}
	}
	return build(platform, absolute, "", clean)
}

// Root returns the absolute root path of platform.
func Root(platform Platform) Path {
	return build(platform, true, "", nil)
}

// Parse converts a platform-specific string into a Path.
//
// On Windows, both "\" and "/" are separators and a leading "X:" is kept as
// the drive. Parse is lossless: Parse(p.String(), p.Platform()) equals p.
func Parse(s string, platform Platform) Path {
	if platform == "" {
		platform = Host()
	}

	drive := ""
	if platform == Windows && hasDrive(s) {
		drive = s[:2]
		s = s[2:]
	}

	seps := platform.separators()
	absolute := s != "" && strings.ContainsRune(seps, rune(s[0]))

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	segments := fields[:0]
	for _, f := range fields {
		if f != "." {
			segments = append(segments, f)
		}
	}

	return build(platform, absolute, drive, segments)
}

func hasDrive(s string) bool {
	if len(s) < 2 || s[1] != ':' {
		return false
	}
	c := s[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func build(platform Platform, absolute bool, drive string, segments []string) Path {
	if platform == "" {
		platform = Host()
	}
	return Path{
		segments: segments,
		absolute: absolute,
		drive:    drive,
		platform: platform,
		memo:     &memo{},
	}
}

// withSegments returns a path sharing p's root/drive/platform with new segments.
func (p Path) withSegments(segments []string) Path {
	return build(p.platform, p.absolute, p.drive, segments)
}

// Platform returns the platform the path was parsed with.
func (p Path) Platform() Platform {
	if p.platform == "" {
		return Host()
	}
	return p.platform
}

// IsAbsolute reports whether the path is anchored at a root.
func (p Path) IsAbsolute() bool { return p.absolute }

// IsRoot reports whether p is an absolute root.
func (p Path) IsRoot() bool { return p.absolute && len(p.segments) == 0 }

// Depth returns the number of segments.
func (p Path) Depth() int { return len(p.segments) }

// String renders the path in its platform syntax.
func (p Path) String() string {
	if p.memo != nil && p.memo.strDone {
		return p.memo.str
	}

	s := p.render()
	if p.memo != nil {
		p.memo.str, p.memo.strDone = s, true
	}
	return s
}

func (p Path) render() string {
	sep := p.Platform().Separator()
	body := strings.Join(p.segments, sep)

	switch {
	case p.absolute:
		return p.drive + sep + body
	case p.drive != "":
		return p.drive + body
	case len(p.segments) == 0:
		return "."
	default:
		return "." + sep + body
	}
}

// Join appends other to p.
//
// Joining "." (or "") returns p unchanged. Joining an absolute operand
// resets to that operand; in particular, joining the root separator yields
// the root. Otherwise the operand's segments are appended.
func (p Path) Join(other string) Path {
	if other == "" || other == "." {
		return p
	}

	o := Parse(other, p.Platform())
	switch {
	case o.absolute:
		if o.drive == "" {
			o.drive = p.drive
			o.memo = &memo{}
		}
		return o
	case o.drive != "" && o.drive != p.drive:
		return o
	case len(o.segments) == 0:
		return p
	}

	segments := make([]string, 0, len(p.segments)+len(o.segments))
	segments = append(segments, p.segments...)
	segments = append(segments, o.segments...)
	return p.withSegments(segments)
}

// Child appends a single name to p. Names containing a separator (or the
// root marker) are routed through Join.
func (p Path) Child(name string) Path {
	if name == "" || name == "." {
		return p
	}
	if strings.ContainsAny(name, p.Platform().separators()) || (p.Platform() == Windows && hasDrive(name)) {
		return p.Join(name)
	}

	segments := make([]string, len(p.segments)+1)
	copy(segments, p.segments)
	segments[len(p.segments)] = name
	return p.withSegments(segments)
}

// Parent returns p without its last segment. The parent of a root (or of
// the relative ".") is itself.
func (p Path) Parent() Path {
	n := len(p.segments)
	if n == 0 {
		return p
	}
	return p.withSegments(p.segments[: n-1 : n-1])
}

// Parents yields the ancestors of p, nearest first, ending with the root
// (or "." for relative paths). p itself is not yielded.
func (p Path) Parents() iter.Seq[Path] {
	return func(yield func(Path) bool) {
		for n := len(p.segments) - 1; n >= 0; n-- {
			if !yield(p.withSegments(p.segments[:n:n])) {
				return
			}
		}
	}
}

// Name returns the last segment, or the root marker for a path without
// segments.
func (p Path) Name() string {
	n := len(p.segments)
	if n > 0 {
		return p.segments[n-1]
	}
	if p.absolute {
		return p.drive + p.Platform().Separator()
	}
	if p.drive != "" {
		return p.drive
	}
	return "."
}

// Stem returns the name without its trailing extension.
func (p Path) Stem() string {
	stem, _ := p.split()
	return stem
}

// Suffix returns the trailing extension of the name, including the dot, or
// "". A leading dot (".bashrc") and a trailing dot ("file.") do not start an
// extension.
func (p Path) Suffix() string {
	_, suffix := p.split()
	return suffix
}

func (p Path) split() (stem, suffix string) {
	if p.memo != nil && p.memo.splitDone {
		return p.memo.stem, p.memo.suffix
	}

	if len(p.segments) > 0 {
		stem, suffix = SplitName(p.segments[len(p.segments)-1])
	}
	if p.memo != nil {
		p.memo.stem, p.memo.suffix, p.memo.splitDone = stem, suffix, true
	}
	return stem, suffix
}

// SplitName splits a file name into stem and suffix.
func SplitName(name string) (stem, suffix string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	return name[:i], name[i:]
}

// WithName returns a sibling of p named name. The root is returned unchanged.
func (p Path) WithName(name string) Path {
	if len(p.segments) == 0 {
		return p
	}
	return p.Parent().Child(name)
}

// WithStem returns a sibling of p with the same suffix and a new stem.
func (p Path) WithStem(stem string) Path {
	return p.WithName(stem + p.Suffix())
}

// Len returns the length of the string form, in characters.
func (p Path) Len() int {
	return utf8.RuneCountInString(p.String())
}

// LenFor returns the length p would have when represented natively on
// target. Evaluating a foreign platform adds target.Overhead().
func (p Path) LenFor(target Platform) int {
	n := p.Len()
	if target != "" && target != p.Platform() {
		n += target.Overhead()
	}
	return n
}

// Equal reports structural equality over segments, absolute flag, drive and
// platform.
func (p Path) Equal(o Path) bool {
	return p.absolute == o.absolute &&
		p.drive == o.drive &&
		p.Platform() == o.Platform() &&
		slices.Equal(p.segments, o.segments)
}

// Key returns a string usable as a map key. Two paths have the same key iff
// they are Equal.
func (p Path) Key() string {
	return string(p.Platform()) + "\x00" + p.String()
}

// HasPrefix reports whether p equals prefix or descends from it.
func (p Path) HasPrefix(prefix Path) bool {
	if p.absolute != prefix.absolute || p.drive != prefix.drive || p.Platform() != prefix.Platform() {
		return false
	}
	if len(prefix.segments) > len(p.segments) {
		return false
	}
	return slices.Equal(p.segments[:len(prefix.segments)], prefix.segments)
}
