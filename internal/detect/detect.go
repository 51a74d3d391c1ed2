// Package detect inspects the running machine to resolve the operating
// system and file system left on "auto" in the configuration.
package detect

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

// ErrNoPartition is returned when no mounted partition holds a path.
var ErrNoPartition = errors.New("no partition holds path")

// Partition is a mounted file system.
type Partition struct {
	Mountpoint string
	Fstype     string
}

// System answers detection queries from the partition table and the Go
// runtime. It satisfies config.Detector.
type System struct {
	partitions func(ctx context.Context) ([]Partition, error)
	goos       string
}

// New returns a System reading the live partition table.
func New() *System {
	return &System{partitions: mounted, goos: runtime.GOOS}
}

// NewStatic returns a System with a fixed partition table and operating
// system, for tests and dry configuration checks.
func NewStatic(goos string, parts ...Partition) *System {
	return &System{
		partitions: func(context.Context) ([]Partition, error) { return parts, nil },
		goos:       goos,
	}
}

func mounted(ctx context.Context) ([]Partition, error) {
	stats, err := disk.PartitionsWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}
	parts := make([]Partition, 0, len(stats))
	for _, s := range stats {
		parts = append(parts, Partition{Mountpoint: s.Mountpoint, Fstype: s.Fstype})
	}
	return parts, nil
}

// OperatingSystem returns the GOOS the binary runs on.
func (s *System) OperatingSystem() string {
	return s.goos
}

// MountType returns the file system type of the partition with the longest
// mount point containing path. path need not exist.
func (s *System) MountType(ctx context.Context, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	parts, err := s.partitions(ctx)
	if err != nil {
		return "", err
	}

	best := -1
	for i, p := range parts {
		if !contains(p.Mountpoint, abs) {
			continue
		}
		if best < 0 || len(p.Mountpoint) > len(parts[best].Mountpoint) {
			best = i
		}
	}
	if best < 0 {
		return "", fmt.Errorf("%w: %s", ErrNoPartition, path)
	}
	return strings.ToLower(parts[best].Fstype), nil
}

func contains(mountpoint, path string) bool {
	mp := filepath.Clean(mountpoint)
	if path == mp {
		return true
	}
	if !strings.HasSuffix(mp, string(filepath.Separator)) {
		mp += string(filepath.Separator)
	}
	return strings.HasPrefix(path, mp)
}
