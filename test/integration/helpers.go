// Package integration runs whole check and fix pipelines against real
// directory trees.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danieljhkim/pathaudit/internal/clock"
	"github.com/danieljhkim/pathaudit/internal/config"
	"github.com/danieljhkim/pathaudit/internal/detect"
	"github.com/danieljhkim/pathaudit/internal/diagnostic"
	"github.com/danieljhkim/pathaudit/internal/engine"
	"github.com/danieljhkim/pathaudit/internal/fsops"
	"github.com/danieljhkim/pathaudit/internal/logging"
)

// setupTestEngine returns an engine on the real filesystem with a fake clock
// and a logger writing to the test log.
func setupTestEngine(t *testing.T) (*engine.Engine, *fsops.RealFS) {
	t.Helper()
	fs := fsops.NewRealFS()
	clk := clock.NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	logger := logging.New(testWriter{t}, true)
	return engine.New(fs, logger, clk), fs
}

// testWriter sends log lines to t.Log.
type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

// buildTree creates dirs and files under a fresh temporary directory and
// returns its path.
func buildTree(t *testing.T, dirs, files []string) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", d, err)
		}
	}
	for _, f := range files {
		p := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, []byte(f), 0644); err != nil {
			t.Fatalf("WriteFile(%s): %v", f, err)
		}
	}
	return root
}

// loadConfig resolves a TOML configuration for root. The machine is seen as
// a linux host whose only partition is ext4.
func loadConfig(t *testing.T, root, data string, opts config.LoadOptions) *config.Config {
	t.Helper()
	f, err := config.DecodeFile([]byte(data), "test.toml")
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	opts.Root = root
	opts.Cwd = root
	opts.Detector = detect.NewStatic("linux", detect.Partition{Mountpoint: "/", Fstype: "ext4"})

	cfg, err := config.Build(context.Background(), f, opts)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return cfg
}

// collector gathers emitted diagnostics.
type collector struct {
	got []diagnostic.Diagnostic
}

func (c *collector) emit(d diagnostic.Diagnostic) {
	c.got = append(c.got, d)
}

func (c *collector) kinds() map[diagnostic.Kind]int {
	out := make(map[diagnostic.Kind]int)
	for _, d := range c.got {
		out[d.Kind()]++
	}
	return out
}

func exists(t *testing.T, root, rel string) bool {
	t.Helper()
	_, err := os.Lstat(filepath.Join(root, rel))
	return err == nil
}
