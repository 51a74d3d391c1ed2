// Package engine provides the path-conformance engine behind pathaudit.
//
// The engine package acts as the orchestration layer between CLI commands and
// the filesystem. It walks a tree, classifies every entry against the
// configured checks, and repairs what can be repaired.
//
// Key components:
//   - Engine: Main orchestrator, exposing Diagnose and Fix
//   - Classify: Per-path classification into diagnostics
//   - Fix passes: character cleanup, pattern substitution, cleanup
//   - SafeRename: Collision-aware rename used by every fix pass
//
// Operating system failures met while listing, renaming or removing never
// abort a run: they are reported as diagnostic.Error and the walk moves on
// to the next sibling. Only context cancellation stops a run early.
package engine

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/charmbracelet/log"

	"github.com/danieljhkim/pathaudit/internal/clock"
	"github.com/danieljhkim/pathaudit/internal/config"
	"github.com/danieljhkim/pathaudit/internal/diagnostic"
	"github.com/danieljhkim/pathaudit/internal/fastpath"
	"github.com/danieljhkim/pathaudit/internal/fsops"
	"github.com/danieljhkim/pathaudit/internal/walk"
)

// Engine orchestrates audits and repairs.
// It is the main API surface called by the CLI.
type Engine struct {
	fs    fsops.FS
	log   *log.Logger
	clock clock.Clock
}

// New creates a new Engine with the given dependencies. A nil logger
// discards engine logs.
func New(fs fsops.FS, logger *log.Logger, clk clock.Clock) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if clk == nil {
		clk = &clock.RealClock{}
	}
	return &Engine{
		fs:    fs,
		log:   logger,
		clock: clk,
	}
}

// Progress observes the entries of a walk. Implementations must forward
// every entry unchanged.
type Progress interface {
	Wrap(seq iter.Seq[walk.Entry]) iter.Seq[walk.Entry]
}

// Emit receives diagnostics as they are produced.
type Emit func(diagnostic.Diagnostic)

// pass is the state of one post-order traversal.
type pass struct {
	e    *Engine
	cfg  *config.Config
	emit Emit

	// reported holds the paths that already produced an Error in this walk.
	reported map[string]struct{}
	errors   int
}

func (e *Engine) newPass(cfg *config.Config, emit Emit) *pass {
	if emit == nil {
		emit = func(diagnostic.Diagnostic) {}
	}
	return &pass{
		e:        e,
		cfg:      cfg,
		emit:     emit,
		reported: make(map[string]struct{}),
	}
}

// fail reports a failure that left path untouched, at most once per path.
func (p *pass) fail(path fastpath.Path, err error) {
	key := path.Key()
	if _, ok := p.reported[key]; ok {
		return
	}
	p.reported[key] = struct{}{}
	p.errors++
	p.e.log.Warn("entry left unchanged", "path", path.String(), "err", err)
	p.emit(diagnostic.Error{Path: path, Err: err})
}

// run walks root post-order and calls visit for every entry until visit
// returns false or ctx is done.
func (p *pass) run(ctx context.Context, root fastpath.Path, progress Progress, visit func(walk.Entry) bool) error {
	seq := walk.Walk(p.e.fs, root, walk.Options{
		Order:          walk.PostOrder,
		FollowSymlinks: p.cfg.FollowSymlinks,
		OnError:        p.fail,
	})
	if progress != nil {
		seq = progress.Wrap(seq)
	}

	for entry := range seq {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrInterrupted, err)
		}
		if !visit(entry) {
			break
		}
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	return nil
}

// isDir reports whether name is listed as a directory in entry.
func isDir(entry walk.Entry, name string) bool {
	for _, d := range entry.Dirs {
		if d == name {
			return true
		}
	}
	return false
}
