package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/afero"

	"github.com/danieljhkim/pathaudit/internal/config"
	"github.com/danieljhkim/pathaudit/internal/diagnostic"
	"github.com/danieljhkim/pathaudit/internal/fastpath"
	"github.com/danieljhkim/pathaudit/internal/fsops"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func lp(s string) fastpath.Path { return fastpath.Parse(s, fastpath.Linux) }

func TestParseOutput(t *testing.T) {
	tests := []struct {
		in      string
		want    Output
		wantErr bool
	}{
		{"", Output{Kind: KindCLI}, false},
		{"cli", Output{Kind: KindCLI}, false},
		{"SILENT", Output{Kind: KindSilent}, false},
		{"json", Output{Kind: KindJSON}, false},
		{"csv", Output{Kind: KindCSV}, false},
		{"csv=out.csv", Output{Kind: KindCSV, File: "out.csv"}, false},
		{"csv=", Output{}, true},
		{"xml", Output{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutput(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutput(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOutput(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func render(t *testing.T, width int, ds ...diagnostic.Diagnostic) []string {
	t.Helper()
	var buf bytes.Buffer
	w := NewCLI(&buf, width)
	for _, d := range ds {
		if err := w.Write(d); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestCLI_CaretsAlign(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		match diagnostic.Match
		char  string
	}{
		{"ascii", "/d/a?b.txt", diagnostic.Match{Start: 1, End: 2}, "?"},
		{"wide runes", "/d/日本?.txt", diagnostic.Match{Start: 6, End: 7}, "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := render(t, 0, diagnostic.Characters{Path: lp(tt.path), Matches: []diagnostic.Match{tt.match}})
			if len(lines) != 2 {
				t.Fatalf("got %d lines: %q", len(lines), lines)
			}
			if !strings.HasPrefix(lines[0], "BADCHAR  "+tt.path) {
				t.Errorf("first line = %q", lines[0])
			}

			col := displayColumn(lines[0], strings.Index(lines[0], tt.char))
			caret := displayColumn(lines[1], strings.Index(lines[1], "^"))
			if col != caret {
				t.Errorf("caret at column %d, character at %d:\n%s\n%s", caret, col, lines[0], lines[1])
			}
			if !strings.HasSuffix(lines[1], "^ invalid characters") {
				t.Errorf("second line = %q", lines[1])
			}
		})
	}
}

// displayColumn converts a byte offset of s to a terminal column.
func displayColumn(s string, offset int) int {
	return runewidth.StringWidth(s[:offset])
}

func TestCLI_Kinds(t *testing.T) {
	lines := render(t, 0,
		diagnostic.Empty{Path: lp("/d/e")},
		diagnostic.NameLength{Path: lp("/d/long"), Len: 300, Limit: 255},
		diagnostic.InvalidName{Path: lp("/d/CON")},
		diagnostic.Error{Path: lp("/d/x"), Err: fs.ErrPermission},
		diagnostic.Rename{
			Path:    lp("/d/Été x"),
			NewPath: lp("/d/summer_x"),
			Rules: []diagnostic.AppliedRule{
				{Rule: "ete -> summer", Result: "summer x", IgnoreCase: true, IgnoreAccents: true},
				{Rule: "  -> _", Result: "summer_x"},
			},
		},
	)

	want := []string{
		"EMPTY    /d/e ~ directory contains no files",
		"NAMELEN  /d/long ~ name is too long (300 > 255)",
		"INVALID  /d/CON ~ reserved name",
		"ERROR    /d/x ~ permission denied",
		"RENAMED  /d/Été x -> summer_x",
		"           ete -> summer ⎥Hʰ^  =>  summer x",
		"             -> _  =>  summer_x",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf("output:\n%s\nwant:\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}
}

func TestCLI_LengthOverflow(t *testing.T) {
	lines := render(t, 0, diagnostic.Length{Path: lp("/d/abcdef"), Len: 9, Limit: 7})
	want := []string{
		"LENGTH   /d/abcdef",
		"                ~~ path is too long (9 > 7)",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf("output:\n%s\nwant:\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}
}

func TestCLI_ClampsParent(t *testing.T) {
	long := "/" + strings.Repeat("dir/", 30) + "f?.txt"
	lines := render(t, 60, diagnostic.Characters{Path: lp(long), Matches: []diagnostic.Match{{Start: 1, End: 2}}})
	if !strings.Contains(lines[0], "…f?.txt") {
		t.Errorf("parent not shortened: %q", lines[0])
	}
	if n := displayColumn(lines[0], len(lines[0])); n > 60 {
		t.Errorf("line is %d columns wide, limit 60", n)
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSV(&buf)
	ds := []diagnostic.Diagnostic{
		diagnostic.Characters{Path: lp("/d/a?b>.txt"), Matches: []diagnostic.Match{{Start: 1, End: 2}, {Start: 3, End: 4}}},
		diagnostic.CharactersFixed{Path: lp("/d/a?.txt"), NewPath: lp("/d/a_.txt"), Matches: []diagnostic.Match{{Start: 1, End: 2}}},
		diagnostic.Length{Path: lp("/d/x"), Len: 300, Limit: 260},
	}
	for _, d := range ds {
		if err := w.Write(d); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not csv: %v", err)
	}
	want := [][]string{
		CSVHeader,
		{"characters", "Found invalid characters", "?@1 >@3", "/d", "a?b>.txt", ""},
		{"characters_fixed", "Invalid characters replaced", "?@1", "/d", "a?.txt", "/d/a_.txt"},
		{"length", "Path is too long", "300 > 260", "/d", "x", ""},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d: %q", len(records), len(want), records)
	}
	for i := range want {
		if strings.Join(records[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("record %d = %q, want %q", i, records[i], want[i])
		}
	}
}

func TestCSVFile(t *testing.T) {
	fsys := fsops.NewMemFS()

	w, err := NewCSVFile(fsys, "/out/report.csv")
	if err != nil {
		t.Fatalf("NewCSVFile() error = %v", err)
	}
	if err := w.Write(diagnostic.Empty{Path: lp("/d/e")}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if exists, _ := fsys.Exists("/out/report.csv"); exists {
		t.Error("file written before Close")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := afero.ReadFile(fsys.Afero(), "/out/report.csv")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "empty,Directory contains no files") {
		t.Errorf("file content = %q", data)
	}

	if _, err := NewCSVFile(fsys, "/out/report.csv"); !errors.Is(err, ErrOutputExists) {
		t.Errorf("second NewCSVFile() error = %v, want ErrOutputExists", err)
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSON(&buf)
	_ = w.Write(diagnostic.Rename{
		Path:    lp("/d/a b"),
		NewPath: lp("/d/a_b"),
		Rules:   []diagnostic.AppliedRule{{Rule: "  -> _", Result: "a_b"}},
	})
	_ = w.Write(diagnostic.Error{Path: lp("/d/x"), Err: fs.ErrPermission})

	dec := json.NewDecoder(&buf)
	var first, second Record
	if err := dec.Decode(&first); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if err := dec.Decode(&second); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if first.Kind != diagnostic.KindRename || first.NewPath != "/d/a_b" || len(first.Rules) != 1 {
		t.Errorf("rename record = %+v", first)
	}
	if second.Kind != diagnostic.KindError || second.Error != "permission denied" {
		t.Errorf("error record = %+v", second)
	}
}

func TestSummaries(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{CheckedLine(config.DefaultChecks), "Checked: Invalid characters, Path length"},
		{CheckedLine(config.AllChecks), "Checked: Empty directories, Invalid characters, Path length"},
		{FoundLine(1, 10), "Found 1 invalid path out of 10"},
		{FoundLine(0, 3), "Found 0 invalid paths out of 3"},
		{FixedLine(0), "All invalid paths were fixed."},
		{FixedLine(2), "2 invalid paths could not be fixed."},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}

	if !strings.Contains(DryRunBanner(), DryRunNotice) {
		t.Errorf("banner %q lacks notice", DryRunBanner())
	}
}
