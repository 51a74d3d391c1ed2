package config

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// RenameRule rewrites the part of a name matched by Pattern.
type RenameRule struct {
	// Source is the pattern as written by the user.
	Source string

	// Pattern is Source compiled, with (?i) when the rule ignores case and
	// with accents removed when the rule ignores accents.
	Pattern *regexp.Regexp

	// Replacement may reference groups as $1 or ${name}.
	Replacement string

	CaseSensitive   bool
	AccentSensitive bool
}

// NewRenameRule compiles a rename rule.
func NewRenameRule(pattern, replacement string, caseSensitive, accentSensitive bool) (*RenameRule, error) {
	src := pattern
	if !accentSensitive {
		src = Normalize(src)
	}
	if !caseSensitive {
		src = "(?i)" + src
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, invalid("rename.pattern", pattern, fmt.Errorf("%w: %v", ErrInvalidValue, err))
	}
	return &RenameRule{
		Source:          pattern,
		Pattern:         re,
		Replacement:     replacement,
		CaseSensitive:   caseSensitive,
		AccentSensitive: accentSensitive,
	}, nil
}

func (r *RenameRule) String() string {
	return fmt.Sprintf("%s -> %s", r.Source, r.Replacement)
}

// Apply substitutes every match of the rule in name and returns the result
// with the number of substitutions. Accent-insensitive rules match against
// the accent-free form of name but rewrite the original text, so characters
// outside the matches keep their accents.
func (r *RenameRule) Apply(name string) (string, int) {
	subject := name
	var starts, ends []int
	if !r.AccentSensitive {
		subject, starts, ends = stripAccents(name)
	}

	matches := r.Pattern.FindAllStringSubmatchIndex(subject, -1)
	if len(matches) == 0 {
		return name, 0
	}

	var out []byte
	last := 0
	for _, m := range matches {
		if starts != nil {
			m = remap(m, starts, ends, len(subject), len(name))
		}
		if m[0] < last {
			m[0] = last
		}
		if m[1] < m[0] {
			m[1] = m[0]
		}
		out = append(out, name[last:m[0]]...)
		out = r.Pattern.ExpandString(out, r.Replacement, name, m)
		last = m[1]
	}
	out = append(out, name[last:]...)
	return string(out), len(matches)
}

// Normalize removes combining diacritical marks (U+0300 to U+036F) from
// the canonical decomposition of s.
func Normalize(s string) string {
	stripped, _, _ := stripAccents(s)
	return stripped
}

func isCombiningMark(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
}

// stripAccents returns the accent-free form of s. For each byte of the
// result, starts and ends hold the byte range of the rune of s it came from.
func stripAccents(s string) (string, []int, []int) {
	var b strings.Builder
	starts := make([]int, 0, len(s))
	ends := make([]int, 0, len(s))

	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		decomposed := norm.NFD.String(s[i : i+size])

		n := b.Len()
		for _, r := range decomposed {
			if !isCombiningMark(r) {
				b.WriteRune(r)
			}
		}
		for j := n; j < b.Len(); j++ {
			starts = append(starts, i)
			ends = append(ends, i+size)
		}
		if b.Len() == n && len(ends) > 0 {
			// a lone mark belongs to the preceding character
			ends[len(ends)-1] = i + size
		}
		i += size
	}
	return b.String(), starts, ends
}

// remap converts submatch indices over the stripped form to indices over
// the original string, widened to whole characters.
func remap(m, starts, ends []int, subjectLen, originalLen int) []int {
	out := make([]int, len(m))
	for k := 0; k < len(m); k += 2 {
		s, e := m[k], m[k+1]
		if s < 0 {
			out[k], out[k+1] = -1, -1
			continue
		}

		if s >= subjectLen {
			out[k] = originalLen
		} else {
			out[k] = starts[s]
		}

		switch {
		case e == s:
			out[k+1] = out[k]
		case e >= subjectLen:
			out[k+1] = originalLen
		default:
			out[k+1] = ends[e-1]
		}
	}
	return out
}
