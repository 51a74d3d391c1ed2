// Package fsops provides the filesystem primitives used by pathaudit.
//
// Every listing, stat, rename and removal performed while auditing or
// repairing a tree goes through the FS interface. The default
// implementation is backed by an afero.Fs, so the same engine runs against
// the real disk (afero.OsFs) and against in-memory trees in tests
// (afero.MemMapFs).
//
// Errors are returned unchanged (wrapped at most once) so that callers can
// match them with errors.Is(err, fs.ErrPermission) and friends.
package fsops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// FS provides an abstraction for filesystem operations.
// All filesystem access in pathaudit must go through this interface.
type FS interface {
	// Lstat returns file info without following symlinks.
	Lstat(path string) (os.FileInfo, error)

	// Stat returns file info, following symlinks.
	Stat(path string) (os.FileInfo, error)

	// ReadDir lists the entries of a directory, sorted by name.
	// Entries are described without following symlinks.
	ReadDir(path string) ([]os.FileInfo, error)

	// Rename moves oldpath to newpath.
	Rename(oldpath, newpath string) error

	// Remove removes a file or empty directory.
	Remove(path string) error

	// Exists checks if a path exists (without following symlinks).
	Exists(path string) (bool, error)

	// SameFile reports whether both paths name the same underlying file.
	// Backends that cannot tell report false.
	SameFile(a, b string) bool

	// AtomicWrite writes data to path atomically using temp file + rename.
	AtomicWrite(path string, data []byte, perm os.FileMode) error
}

// RealFS implements FS on top of an afero filesystem.
type RealFS struct {
	fs afero.Fs
}

// NewRealFS creates an FS backed by the operating system.
func NewRealFS() *RealFS {
	return &RealFS{fs: afero.NewOsFs()}
}

// NewMemFS creates an empty in-memory FS.
func NewMemFS() *RealFS {
	return &RealFS{fs: afero.NewMemMapFs()}
}

// Wrap creates an FS backed by an arbitrary afero filesystem.
func Wrap(afs afero.Fs) *RealFS {
	return &RealFS{fs: afs}
}

// Afero exposes the underlying afero filesystem (used by tests to build trees).
func (r *RealFS) Afero() afero.Fs {
	return r.fs
}

// Lstat returns file info without following symlinks.
func (r *RealFS) Lstat(path string) (os.FileInfo, error) {
	if l, ok := r.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return r.fs.Stat(path)
}

// Stat returns file info, following symlinks.
func (r *RealFS) Stat(path string) (os.FileInfo, error) {
	return r.fs.Stat(path)
}

// ReadDir lists the entries of a directory, sorted by name.
func (r *RealFS) ReadDir(path string) ([]os.FileInfo, error) {
	entries, err := afero.ReadDir(r.fs, path)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

// Rename moves oldpath to newpath.
func (r *RealFS) Rename(oldpath, newpath string) error {
	return r.fs.Rename(oldpath, newpath)
}

// Remove removes a file or empty directory.
func (r *RealFS) Remove(path string) error {
	return r.fs.Remove(path)
}

// Exists checks if a path exists.
func (r *RealFS) Exists(path string) (bool, error) {
	_, err := r.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// SameFile reports whether a and b name the same file on disk.
func (r *RealFS) SameFile(a, b string) bool {
	ia, err := r.Lstat(a)
	if err != nil {
		return false
	}
	ib, err := r.Lstat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}

// AtomicWrite writes data to path atomically using temp file + rename.
func (r *RealFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	// Create parent directory if needed
	dir := filepath.Dir(path)
	if err := r.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	// Create temp file in the same directory as target
	tmpFile, err := afero.TempFile(r.fs, dir, ".pathaudit-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = r.fs.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := r.fs.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := r.fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	// Success - don't clean up temp file
	tmpFile = nil
	return nil
}
