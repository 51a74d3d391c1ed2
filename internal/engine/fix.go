package engine

import (
	"context"
	"errors"

	"github.com/danieljhkim/pathaudit/internal/clock"
	"github.com/danieljhkim/pathaudit/internal/config"
	"github.com/danieljhkim/pathaudit/internal/diagnostic"
	"github.com/danieljhkim/pathaudit/internal/fastpath"
	"github.com/danieljhkim/pathaudit/internal/walk"
)

// Fix repairs cfg.Root in three ordered passes and reports every action
// through emit:
//
//  1. character cleanup, when CheckCharacters is enabled
//  2. pattern substitution with the configured rename rules, always
//  3. cleanup for the remaining checks: empty directories are removed,
//     length findings are reported as unresolved
//
// Each pass is a separate post-order walk so it sees the names left by the
// previous one. When the audited root itself is renamed, later passes walk
// it under its new name.
func (e *Engine) Fix(ctx context.Context, cfg *config.Config, progress Progress, emit Emit) (FixResult, error) {
	start := e.clock.Now()
	f := &fixer{
		e:    e,
		cfg:  cfg,
		root: cfg.Root,
		emit: emit,
		res:  FixResult{DryRun: cfg.DryRun.Enabled},
	}
	if f.emit == nil {
		f.emit = func(diagnostic.Diagnostic) {}
	}

	err := f.characters(ctx, progress)
	if err == nil {
		err = f.patterns(ctx, progress)
	}
	if err == nil {
		err = f.cleanup(ctx, progress)
	}

	f.res.Elapsed = clock.Since(e.clock, start)
	return f.res, err
}

type fixer struct {
	e    *Engine
	cfg  *config.Config
	root fastpath.Path
	emit Emit
	res  FixResult
}

func (f *fixer) newPass() *pass {
	return f.e.newPass(f.cfg, f.emit)
}

func (f *fixer) done(p *pass) {
	f.res.Errors += p.errors
}

// moved follows a rename of the audited root.
func (f *fixer) moved(old, renamed fastpath.Path) {
	if !f.cfg.DryRun.Enabled && old.Equal(f.root) {
		f.root = renamed
	}
}

func (f *fixer) characters(ctx context.Context, progress Progress) error {
	if !f.cfg.Checks.Has(config.CheckCharacters) {
		return nil
	}
	f.e.log.Debug("pass 1: character cleanup", "root", f.root.String())

	p := f.newPass()
	defer f.done(p)

	return p.run(ctx, f.root, progress, func(entry walk.Entry) bool {
		for _, name := range entry.Names() {
			path := entry.Root.Child(name)
			for _, d := range Classify(f.e.fs, path, isDir(entry, name), f.cfg, config.CheckCharacters, nil) {
				switch d := d.(type) {
				case diagnostic.Characters:
					f.replaceCharacters(p, d)
				case diagnostic.InvalidName:
					f.res.Unresolved++
					p.emit(d)
				}
			}
		}
		return true
	})
}

func (f *fixer) replaceCharacters(p *pass, d diagnostic.Characters) {
	stem := ReplaceMatches(d.Path.Stem(), d.Matches, f.cfg.Replacement)
	target, err := sibling(d.Path, stem+d.Path.Suffix())
	if err != nil {
		f.e.log.Warn("replacement leaves no usable name", "path", d.Path.String(), "err", err)
		f.res.Unresolved++
		p.emit(d)
		return
	}

	renamed, err := f.e.SafeRename(d.Path, target, f.cfg)
	switch {
	case errors.Is(err, ErrCollision):
		f.res.Unresolved++
		p.emit(d)
	case err != nil:
		p.fail(d.Path, err)
	default:
		f.res.Fixed++
		f.moved(d.Path, renamed)
		p.emit(diagnostic.CharactersFixed{Path: d.Path, NewPath: renamed, Matches: d.Matches})
	}
}

func (f *fixer) patterns(ctx context.Context, progress Progress) error {
	if len(f.cfg.Rules) == 0 {
		return nil
	}
	f.e.log.Debug("pass 2: pattern substitution", "root", f.root.String(), "rules", len(f.cfg.Rules))

	p := f.newPass()
	defer f.done(p)

	budget := f.cfg.DryRun.Limit
	if !f.cfg.DryRun.Enabled {
		budget = 0
	}
	processed := 0

	return p.run(ctx, f.root, progress, func(entry walk.Entry) bool {
		for _, name := range entry.Names() {
			if budget > 0 && processed >= budget {
				f.e.log.Debug("dry run limit reached", "limit", budget)
				return false
			}
			processed++

			path := entry.Root.Child(name)
			if f.cfg.Excluded(path) {
				continue
			}
			newName, applied := ApplyRules(f.cfg.Rules, name)
			if len(applied) == 0 || newName == name {
				continue
			}

			target, err := sibling(path, newName)
			if err != nil {
				p.fail(path, err)
				continue
			}

			renamed, err := f.e.SafeRename(path, target, f.cfg)
			switch {
			case errors.Is(err, ErrCollision):
				f.e.log.Warn("rename skipped", "path", path.String(), "err", err)
			case err != nil:
				p.fail(path, err)
			default:
				f.res.Fixed++
				f.moved(path, renamed)
				p.emit(diagnostic.Rename{Path: path, NewPath: renamed, Rules: applied})
			}
		}
		return true
	})
}

func (f *fixer) cleanup(ctx context.Context, progress Progress) error {
	checks := f.cfg.Checks &^ config.CheckCharacters
	if checks == config.NoCheck {
		return nil
	}
	f.e.log.Debug("pass 3: cleanup", "root", f.root.String(), "checks", checks.String())

	p := f.newPass()
	defer f.done(p)
	memo := make(EmptyMemo)

	return p.run(ctx, f.root, progress, func(entry walk.Entry) bool {
		for _, name := range entry.Names() {
			path := entry.Root.Child(name)
			for _, d := range Classify(f.e.fs, path, isDir(entry, name), f.cfg, checks, memo) {
				switch d := d.(type) {
				case diagnostic.Empty:
					f.removeEmpty(p, d, memo)
				case diagnostic.Length, diagnostic.NameLength:
					f.res.Unresolved++
					p.emit(d)
				case diagnostic.Error:
					p.fail(d.Path, d.Err)
				}
			}
		}
		return true
	})
}

func (f *fixer) removeEmpty(p *pass, d diagnostic.Empty, memo EmptyMemo) {
	if !f.cfg.DryRun.Enabled {
		if err := f.e.fs.Remove(d.Path.String()); err != nil {
			memo.Delete(d.Path)
			p.fail(d.Path, err)
			return
		}
	}
	f.e.log.Debug("removed", "path", d.Path.String(), "dry_run", f.cfg.DryRun.Enabled)
	f.res.Removed++
	p.emit(d)
}
