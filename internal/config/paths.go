package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/pathaudit/internal/fastpath"
)

// Paths contains the filesystem locations used by pathaudit itself.
type Paths struct {
	// Dir is the configuration directory (default: <UserConfigDir>/pathaudit)
	Dir string

	// Config is the path to the default configuration file
	Config string
}

// DefaultPaths returns the default configuration locations.
// The file can be overridden with environment variables:
// - PATHAUDIT_CONFIG: Override the configuration file
func DefaultPaths() (*Paths, error) {
	if file := os.Getenv("PATHAUDIT_CONFIG"); file != "" {
		return &Paths{Dir: filepath.Dir(file), Config: file}, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config directory: %w", err)
	}
	dir := filepath.Join(base, "pathaudit")
	return &Paths{
		Dir:    dir,
		Config: filepath.Join(dir, "config.toml"),
	}, nil
}

// EnsureDirectories creates the configuration directory if it doesn't exist.
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.Dir, err)
	}
	return nil
}

// FindConfigFile returns the configuration file to read: explicit when
// given, else the default location when a file exists there, else "".
func FindConfigFile(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	paths, err := DefaultPaths()
	if err != nil {
		// no config directory: run on defaults
		return "", nil
	}
	if fileExists(paths.Config) {
		return paths.Config, nil
	}
	if os.Getenv("PATHAUDIT_CONFIG") != "" {
		return "", fmt.Errorf("PATHAUDIT_CONFIG: %w", os.ErrNotExist)
	}
	return "", nil
}

// ResolvePath converts a user supplied path to an absolute host Path.
// Relative paths are resolved against cwd.
func ResolvePath(cwd, p string) fastpath.Path {
	if p == "" {
		p = "."
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(cwd, p)
	}
	return fastpath.Parse(filepath.Clean(p), fastpath.Host())
}
