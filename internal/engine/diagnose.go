package engine

import (
	"context"

	"github.com/danieljhkim/pathaudit/internal/clock"
	"github.com/danieljhkim/pathaudit/internal/config"
	"github.com/danieljhkim/pathaudit/internal/diagnostic"
	"github.com/danieljhkim/pathaudit/internal/walk"
)

// Diagnose audits cfg.Root without modifying it. Diagnostics are passed to
// emit in walk order, bottom-up.
func (e *Engine) Diagnose(ctx context.Context, cfg *config.Config, progress Progress, emit Emit) (DiagnoseResult, error) {
	start := e.clock.Now()
	var res DiagnoseResult

	p := e.newPass(cfg, func(d diagnostic.Diagnostic) {
		if _, ok := d.(diagnostic.Error); !ok {
			res.Issues++
		}
		if emit != nil {
			emit(d)
		}
	})
	memo := make(EmptyMemo)

	e.log.Debug("diagnose", "root", cfg.Root.String(), "checks", cfg.Checks.String())
	err := p.run(ctx, cfg.Root, progress, func(entry walk.Entry) bool {
		for _, name := range entry.Names() {
			path := entry.Root.Child(name)
			res.Visited++
			for _, d := range Classify(e.fs, path, isDir(entry, name), cfg, cfg.Checks, memo) {
				if derr, ok := d.(diagnostic.Error); ok {
					p.fail(derr.Path, derr.Err)
					continue
				}
				p.emit(d)
			}
		}
		return true
	})

	res.Errors = p.errors
	res.Elapsed = clock.Since(e.clock, start)
	return res, err
}
