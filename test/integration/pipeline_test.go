package integration

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/danieljhkim/pathaudit/internal/config"
	"github.com/danieljhkim/pathaudit/internal/diagnostic"
	"github.com/danieljhkim/pathaudit/internal/report"
)

const windowsTarget = `
[check]
run = "all"
operating_system = "linux"
file_system = "ntfs_win32"

[[rename]]
pattern = '\s{2,}'
replacement = " "
`

func TestCheckFixCheck(t *testing.T) {
	eng, _ := setupTestEngine(t)
	ctx := context.Background()
	root := buildTree(t, []string{"empty/nested"}, []string{"a  b?.txt", "x/y:z.txt", "x/ok.txt"})
	cfg := loadConfig(t, root, windowsTarget, config.LoadOptions{})

	before := &collector{}
	res, err := eng.Diagnose(ctx, cfg, nil, before.emit)
	if err != nil {
		t.Fatalf("Diagnose() error = %v", err)
	}
	if res.Issues != 4 {
		t.Errorf("Issues before fix = %d, want 4 (%v)", res.Issues, before.kinds())
	}

	fixed := &collector{}
	fix, err := eng.Fix(ctx, cfg, nil, fixed.emit)
	if err != nil {
		t.Fatalf("Fix() error = %v", err)
	}
	if fix.Fixed != 3 || fix.Removed != 2 || fix.Unresolved != 0 {
		t.Errorf("Fix() = %+v, want 3 fixed, 2 removed", fix)
	}
	kinds := fixed.kinds()
	if kinds[diagnostic.KindCharactersFixed] != 2 || kinds[diagnostic.KindRename] != 1 || kinds[diagnostic.KindEmpty] != 2 {
		t.Errorf("fix diagnostics = %v", kinds)
	}

	for _, rel := range []string{"a b_.txt", "x/y_z.txt", "x/ok.txt"} {
		if !exists(t, root, rel) {
			t.Errorf("%s missing after fix", rel)
		}
	}
	for _, rel := range []string{"a  b?.txt", "a  b_.txt", "x/y:z.txt", "empty"} {
		if exists(t, root, rel) {
			t.Errorf("%s still present after fix", rel)
		}
	}

	after := &collector{}
	res, err = eng.Diagnose(ctx, cfg, nil, after.emit)
	if err != nil {
		t.Fatalf("Diagnose() error = %v", err)
	}
	if res.Issues != 0 {
		t.Errorf("Issues after fix = %d, want 0 (%v)", res.Issues, after.kinds())
	}
}

func TestDestinationShortensLimit(t *testing.T) {
	eng, _ := setupTestEngine(t)
	ctx := context.Background()
	root := buildTree(t, nil, []string{"abcdefghij.txt"})
	full := len(filepath.Join(root, "abcdefghij.txt"))
	data := fmt.Sprintf(`
[check]
run = "length"
operating_system = "linux"
file_system = "ext4"
max_path_length = %d
`, full)

	cfg := loadConfig(t, root, data, config.LoadOptions{})
	res, err := eng.Diagnose(ctx, cfg, nil, nil)
	if err != nil {
		t.Fatalf("Diagnose() error = %v", err)
	}
	if res.Issues != 0 {
		t.Errorf("Issues without destination = %d, want 0", res.Issues)
	}

	dest := t.TempDir()
	cfg = loadConfig(t, root, data, config.LoadOptions{Destination: dest})
	got := &collector{}
	if _, err := eng.Diagnose(ctx, cfg, nil, got.emit); err != nil {
		t.Fatalf("Diagnose() error = %v", err)
	}
	if len(got.got) != 1 {
		t.Fatalf("diagnostics = %v, want one length", got.kinds())
	}
	length, ok := got.got[0].(diagnostic.Length)
	if !ok {
		t.Fatalf("diagnostic = %T, want Length", got.got[0])
	}
	if want := full - len(dest) - 1; length.Limit != want || length.Len != full {
		t.Errorf("Length = %d/%d, want %d/%d", length.Len, length.Limit, full, want)
	}
}

func TestAutoDetectedFileSystem(t *testing.T) {
	root := buildTree(t, nil, []string{"a.txt"})
	cfg := loadConfig(t, root, "[check]\nfile_system = \"auto\"\noperating_system = \"auto\"\n", config.LoadOptions{})

	if cfg.FileSystem != config.FSExt4 {
		t.Errorf("FileSystem = %s, want ext4", cfg.FileSystem)
	}
	if cfg.OS != config.OSLinux {
		t.Errorf("OS = %s, want linux", cfg.OS)
	}
	if cfg.MaxPathLength != 4096 {
		t.Errorf("MaxPathLength = %d, want 4096", cfg.MaxPathLength)
	}
}

func TestFixReportedAsCSV(t *testing.T) {
	eng, _ := setupTestEngine(t)
	root := buildTree(t, nil, []string{"q?.txt"})
	cfg := loadConfig(t, root, windowsTarget, config.LoadOptions{DryRun: "on"})

	var buf bytes.Buffer
	w := report.NewCSV(&buf)
	var writeErr error
	res, err := eng.Fix(context.Background(), cfg, nil, func(d diagnostic.Diagnostic) {
		if writeErr == nil {
			writeErr = w.Write(d)
		}
	})
	if err != nil || writeErr != nil {
		t.Fatalf("Fix() error = %v, write error = %v", err, writeErr)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !res.DryRun || res.Fixed != 1 {
		t.Errorf("Fix() = %+v, want one planned fix", res)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("csv output: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %v, want header and one record", rows)
	}
	row := rows[1]
	if row[0] != string(diagnostic.KindCharactersFixed) || row[4] != "q?.txt" || row[5] != filepath.Join(root, "q_.txt") {
		t.Errorf("record = %v", row)
	}
	if !exists(t, root, "q?.txt") {
		t.Error("dry run renamed q?.txt")
	}
}
