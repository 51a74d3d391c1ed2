package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/danieljhkim/pathaudit/internal/config"
)

var checkLabels = []struct {
	check config.Check
	label string
}{
	{config.CheckEmpty, "Empty directories"},
	{config.CheckCharacters, "Invalid characters"},
	{config.CheckLength, "Path length"},
}

// CheckedLine lists the checks of a run in human form.
func CheckedLine(checks config.Check) string {
	var labels []string
	for _, c := range checkLabels {
		if checks.Has(c.check) {
			labels = append(labels, c.label)
		}
	}
	if len(labels) == 0 {
		return "Checked: nothing"
	}
	return "Checked: " + strings.Join(labels, ", ")
}

// Plural returns "s" unless n is one.
func Plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// FoundLine summarizes a read-only audit.
func FoundLine(issues, visited int) string {
	return fmt.Sprintf("Found %d invalid path%s out of %d", issues, Plural(issues), visited)
}

// FixedLine summarizes a repair.
func FixedLine(unresolved int) string {
	if unresolved == 0 {
		return "All invalid paths were fixed."
	}
	return fmt.Sprintf("%d invalid path%s could not be fixed.", unresolved, Plural(unresolved))
}

// PrintCheckSummary writes the trailer of a check run.
func PrintCheckSummary(w io.Writer, checks config.Check, issues, visited int) {
	fmt.Fprintf(w, "\n%s\n", CheckedLine(checks))
	clr := successColor
	if issues > 0 {
		clr = errorColor
	}
	_, _ = clr.Fprintln(w, FoundLine(issues, visited))
}

// PrintFixSummary writes the trailer of a fix run.
func PrintFixSummary(w io.Writer, checks config.Check, unresolved int) {
	fmt.Fprintf(w, "\n%s\n", CheckedLine(checks))
	clr := successColor
	if unresolved > 0 {
		clr = errorColor
	}
	_, _ = clr.Fprintln(w, FixedLine(unresolved))
}

// DryRunNotice is the text of the dry-run banner.
const DryRunNotice = ">>> Performed dry-run, nothing was changed <<<"

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("1")).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("1")).
	Padding(0, 1)

// DryRunBanner renders DryRunNotice in a box.
func DryRunBanner() string {
	return bannerStyle.Render(DryRunNotice)
}
