package config

import (
	"fmt"
	"strings"
)

// Check is a set of audits, combinable with |.
type Check uint8

const (
	NoCheck         Check = 0
	CheckEmpty      Check = 1 << 0
	CheckCharacters Check = 1 << 1
	CheckLength     Check = 1 << 2

	AllChecks     = CheckEmpty | CheckCharacters | CheckLength
	DefaultChecks = CheckCharacters | CheckLength
)

var checkNames = []struct {
	check Check
	name  string
}{
	{CheckEmpty, "empty"},
	{CheckCharacters, "characters"},
	{CheckLength, "length"},
}

// Has reports whether every check in other is enabled in c.
func (c Check) Has(other Check) bool {
	return c&other == other && other != NoCheck
}

// Names lists the enabled checks.
func (c Check) Names() []string {
	var names []string
	for _, cn := range checkNames {
		if c&cn.check != 0 {
			names = append(names, cn.name)
		}
	}
	return names
}

func (c Check) String() string {
	if c == NoCheck {
		return "none"
	}
	return strings.Join(c.Names(), "|")
}

// ParseChecks parses "characters|length", "all" or "none".
// Separators "|", "," and whitespace are accepted.
func ParseChecks(s string) (Check, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "all":
		return AllChecks, nil
	case "", "none", "no_check":
		return NoCheck, nil
	}

	var c Check
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ',' || r == ' '
	}) {
		found := false
		for _, cn := range checkNames {
			if field == cn.name {
				c |= cn.check
				found = true
				break
			}
		}
		if !found {
			return NoCheck, fmt.Errorf("%w: check %q, expected one of empty, characters, length", ErrInvalidValue, field)
		}
	}
	return c, nil
}

// CheckFlags carries the command line check switches. Each field is nil
// when the switch was not given.
type CheckFlags struct {
	All        bool
	Empty      *bool
	Characters *bool
	Length     *bool
}

// ResolveChecks combines the command line switches with base.
//
// With no switch, base is returned. Any positive switch selects exactly
// the positively named checks. Only negative switches remove the named
// checks from the full set.
func ResolveChecks(base Check, f CheckFlags) Check {
	if f.All {
		return AllChecks
	}

	switches := []struct {
		value *bool
		check Check
	}{
		{f.Empty, CheckEmpty},
		{f.Characters, CheckCharacters},
		{f.Length, CheckLength},
	}

	var positive, negative Check
	for _, s := range switches {
		if s.value == nil {
			continue
		}
		if *s.value {
			positive |= s.check
		} else {
			negative |= s.check
		}
	}

	switch {
	case positive != NoCheck:
		return positive
	case negative != NoCheck:
		return AllChecks &^ negative
	default:
		return base
	}
}
