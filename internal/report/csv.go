package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/danieljhkim/pathaudit/internal/diagnostic"
	"github.com/danieljhkim/pathaudit/internal/fsops"
)

// CSVHeader is the first record of csv output.
var CSVHeader = []string{"kind", "description", "reason", "file_path", "file_name", "new_path"}

var descriptions = map[diagnostic.Kind]string{
	diagnostic.KindEmpty:           "Directory contains no files",
	diagnostic.KindCharacters:      "Found invalid characters",
	diagnostic.KindInvalidName:     "Reserved name",
	diagnostic.KindNameLength:      "Name is too long",
	diagnostic.KindLength:          "Path is too long",
	diagnostic.KindRename:          "Renamed by pattern",
	diagnostic.KindCharactersFixed: "Invalid characters replaced",
	diagnostic.KindError:           "Operating system error",
}

// CSV writes one record per diagnostic.
type CSV struct {
	w      *csv.Writer
	header bool

	// file mode
	fs   fsops.FS
	path string
	buf  *bytes.Buffer
}

// NewCSV returns a CSV writer on w.
func NewCSV(w io.Writer) *CSV {
	return &CSV{w: csv.NewWriter(w)}
}

// NewCSVFile returns a CSV writer that creates path atomically when closed.
// An existing path is never overwritten.
func NewCSVFile(fsys fsops.FS, path string) (*CSV, error) {
	exists, err := fsys.Exists(path)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrOutputExists, path)
	}
	buf := &bytes.Buffer{}
	return &CSV{w: csv.NewWriter(buf), fs: fsys, path: path, buf: buf}, nil
}

func (c *CSV) Write(d diagnostic.Diagnostic) error {
	if err := c.writeHeader(); err != nil {
		return err
	}
	loc := d.Location()
	newPath := ""
	if diagnostic.IsFix(d) {
		newPath = diagnostic.Target(d).String()
	}
	return c.w.Write([]string{
		string(d.Kind()),
		descriptions[d.Kind()],
		Reason(d),
		loc.Parent().String(),
		loc.Name(),
		newPath,
	})
}

func (c *CSV) writeHeader() error {
	if c.header {
		return nil
	}
	c.header = true
	return c.w.Write(CSVHeader)
}

func (c *CSV) Close() error {
	if err := c.writeHeader(); err != nil {
		return err
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return err
	}
	if c.fs == nil {
		return nil
	}
	if err := c.fs.AtomicWrite(c.path, c.buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.path, err)
	}
	return nil
}

// Reason returns the machine-oriented detail of a diagnostic: the offending
// characters with their byte offsets, the measured and allowed lengths, the
// applied rules, or the error message.
func Reason(d diagnostic.Diagnostic) string {
	switch d := d.(type) {
	case diagnostic.Characters:
		return matchList(d.Path.Stem(), d.Matches)
	case diagnostic.CharactersFixed:
		return matchList(d.Path.Stem(), d.Matches)
	case diagnostic.NameLength:
		return fmt.Sprintf("%d > %d", d.Len, d.Limit)
	case diagnostic.Length:
		return fmt.Sprintf("%d > %d", d.Len, d.Limit)
	case diagnostic.Rename:
		rules := make([]string, len(d.Rules))
		for i, r := range d.Rules {
			rules[i] = r.Rule + RuleFlags(r)
		}
		return strings.Join(rules, "; ")
	case diagnostic.Error:
		return d.Err.Error()
	default:
		return ""
	}
}

func matchList(stem string, matches []diagnostic.Match) string {
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Start < 0 || m.End > len(stem) || m.Start > m.End {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s@%d", stem[m.Start:m.End], m.Start))
	}
	return strings.Join(parts, " ")
}
