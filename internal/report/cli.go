package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/danieljhkim/pathaudit/internal/diagnostic"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

const labelWidth = 9

// Rule flag markers, printed after '⎥'.
const (
	FlagIgnoreCase    = "Hʰ"
	FlagIgnoreAccents = "^"
)

// CLI renders diagnostics as two-line annotated paths for a terminal.
type CLI struct {
	w     *bufio.Writer
	width int
}

// NewCLI returns a CLI writer. Parent directories are shortened so that a
// line fits in width columns; zero disables shortening.
func NewCLI(w io.Writer, width int) *CLI {
	return &CLI{w: bufio.NewWriter(w), width: width}
}

func (c *CLI) Write(d diagnostic.Diagnostic) error {
	name := d.Location().Name()
	parent := parentOf(d.Location().String(), name)

	switch d := d.(type) {
	case diagnostic.Characters:
		above, under := markMatches(name, d.Matches)
		parent = c.clamp(parent, runewidth.StringWidth(name))
		c.line("BADCHAR", parent+above)
		c.line("", strings.Repeat(" ", runewidth.StringWidth(parent))+errorColor.Sprint(under+" invalid characters"))

	case diagnostic.InvalidName:
		parent = c.clamp(parent, runewidth.StringWidth(name)+16)
		c.line("INVALID", parent+errorColor.Sprint(name)+dimColor.Sprint(" ~ reserved name"))

	case diagnostic.NameLength:
		note := fmt.Sprintf(" ~ name is too long (%d > %d)", d.Len, d.Limit)
		parent = c.clamp(parent, runewidth.StringWidth(name)+len(note))
		c.line("NAMELEN", parent+errorColor.Sprint(name)+dimColor.Sprint(note))

	case diagnostic.Length:
		note := fmt.Sprintf(" path is too long (%d > %d)", d.Len, d.Limit)
		keep, over := splitOverflow(name, d.Len-d.Limit)
		parent = c.clamp(parent, runewidth.StringWidth(name)+len(note))
		c.line("LENGTH", parent+keep+errorColor.Sprint(over))
		pad := strings.Repeat(" ", runewidth.StringWidth(parent+keep))
		c.line("", pad+errorColor.Sprint(strings.Repeat("~", max(runewidth.StringWidth(over), 1))+note))

	case diagnostic.Empty:
		parent = c.clamp(parent, runewidth.StringWidth(name)+32)
		c.line("EMPTY", parent+errorColor.Sprint(name+" ~ directory contains no files"))

	case diagnostic.CharactersFixed:
		above, _ := markMatches(name, d.Matches)
		parent = c.clamp(parent, 2*runewidth.StringWidth(name)+4)
		c.line("FIXED", parent+above+" -> "+successColor.Sprint(d.NewPath.Name()))

	case diagnostic.Rename:
		parent = c.clamp(parent, runewidth.StringWidth(name)+runewidth.StringWidth(d.NewPath.Name())+4)
		c.line("RENAMED", parent+name+" -> "+successColor.Sprint(d.NewPath.Name()))
		for _, r := range d.Rules {
			c.line("", dimColor.Sprint("  "+r.Rule+RuleFlags(r)+"  =>  "+r.Result))
		}

	case diagnostic.Error:
		c.line("ERROR", d.Path.String()+errorColor.Sprint(" ~ "+d.Err.Error()))
	}
	return nil
}

func (c *CLI) Close() error {
	return c.w.Flush()
}

func (c *CLI) line(label, text string) {
	if label != "" {
		_, _ = labelColor.Fprint(c.w, label)
	}
	fmt.Fprintf(c.w, "%s%s\n", strings.Repeat(" ", labelWidth-len(label)), text)
}

// clamp shortens parent so that parent plus reserved columns fit the width.
func (c *CLI) clamp(parent string, reserved int) string {
	if c.width <= 0 {
		return parent
	}
	room := c.width - labelWidth - reserved
	if room < 1 {
		room = 1
	}
	if runewidth.StringWidth(parent) <= room {
		return parent
	}
	return runewidth.Truncate(parent, room, "…")
}

// RuleFlags returns the '⎥' suffix describing a rule's matching mode, or ""
// for a case and accent sensitive rule.
func RuleFlags(r diagnostic.AppliedRule) string {
	if !r.IgnoreCase && !r.IgnoreAccents {
		return ""
	}
	flags := " ⎥"
	if r.IgnoreCase {
		flags += FlagIgnoreCase
	}
	if r.IgnoreAccents {
		flags += FlagIgnoreAccents
	}
	return flags
}

// parentOf returns the part of full preceding name, separator included.
func parentOf(full, name string) string {
	if strings.HasSuffix(full, name) {
		return full[:len(full)-len(name)]
	}
	return ""
}

// markMatches colors the matched byte spans of name and returns a caret
// line aligned on display columns.
func markMatches(name string, matches []diagnostic.Match) (string, string) {
	var above, under strings.Builder
	last := 0
	for _, m := range matches {
		if m.Start < last || m.End > len(name) {
			continue
		}
		before, hit := name[last:m.Start], name[m.Start:m.End]
		above.WriteString(before)
		above.WriteString(errorColor.Sprint(hit))
		under.WriteString(strings.Repeat(" ", runewidth.StringWidth(before)))
		under.WriteString(strings.Repeat("^", max(runewidth.StringWidth(hit), 1)))
		last = m.End
	}
	above.WriteString(name[last:])
	return above.String(), under.String()
}

// splitOverflow splits name so that its last overflow characters are
// separated from the rest.
func splitOverflow(name string, overflow int) (string, string) {
	runes := []rune(name)
	if overflow >= len(runes) {
		return "", name
	}
	if overflow <= 0 {
		return name, ""
	}
	cut := len(runes) - overflow
	return string(runes[:cut]), string(runes[cut:])
}
