package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/pathaudit/internal/config"
	"github.com/danieljhkim/pathaudit/internal/detect"
)

func TestAnalyze(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("PATHAUDIT_CONFIG", "")
	root := t.TempDir()

	tests := []struct {
		name    string
		fstype  string
		wantFS  config.FileSystem
		maxPath int
		output  []string
	}{
		{"ext4", "ext4", config.FSExt4, 4096, []string{"File system: ext4", "Max path length: 4096"}},
		{"ntfs", "fuseblk", config.FSNTFSWin32, 260, []string{"Mount type: fuseblk", "Reserved names: true"}},
		{"unsupported", "zfs", "", 0, []string{`file system "zfs" is not supported`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.SetContext(context.Background())
			det := detect.NewStatic("linux", detect.Partition{Mountpoint: "/", Fstype: tt.fstype})

			a, err := analyze(cmd, root, det)
			if err != nil {
				t.Fatalf("analyze() error = %v", err)
			}
			if a.FileSystem != tt.wantFS || a.MaxPathLength != tt.maxPath {
				t.Errorf("analyze() = %s/%d, want %s/%d", a.FileSystem, a.MaxPathLength, tt.wantFS, tt.maxPath)
			}
			if a.OperatingSystem != config.OSLinux {
				t.Errorf("OperatingSystem = %s, want linux", a.OperatingSystem)
			}

			var buf bytes.Buffer
			printAnalysis(&buf, a)
			out := buf.String()
			for _, want := range append(tt.output, "Known file systems", "ntfs_posix") {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}
