package engine

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/danieljhkim/pathaudit/internal/config"
	"github.com/danieljhkim/pathaudit/internal/diagnostic"
	"github.com/danieljhkim/pathaudit/internal/fastpath"
)

// maxIncrement bounds the search for a free "stem(n).suffix" name.
const maxIncrement = 1 << 16

// SafeRename renames old to target without ever overwriting an existing
// entry, and returns the path the entry ends up at.
//
// When target exists, the skip policy returns old with ErrCollision and the
// increment policy moves the entry to "stem(n).suffix" instead, n being the
// smallest positive integer not used by a sibling. A target naming the same
// file as old (a case-only rename on a case-insensitive volume) is not a
// collision. In dry-run mode the returned path is computed but nothing is
// renamed. A target outside old's directory fails with ErrInvalidName.
func (e *Engine) SafeRename(old, target fastpath.Path, cfg *config.Config) (fastpath.Path, error) {
	if old.Equal(target) {
		return old, nil
	}
	if target.Depth() != old.Depth() || !target.Parent().Equal(old.Parent()) {
		return old, fmt.Errorf("%w: %s", ErrInvalidName, target)
	}

	exists, err := e.fs.Exists(target.String())
	if err != nil {
		return old, err
	}
	if exists && !e.fs.SameFile(old.String(), target.String()) {
		if cfg.Collision == config.CollisionSkip {
			return old, fmt.Errorf("%w: %s", ErrCollision, target)
		}
		target, err = e.nextFree(target)
		if err != nil {
			return old, err
		}
	}

	if !cfg.DryRun.Enabled {
		if err := e.fs.Rename(old.String(), target.String()); err != nil {
			return old, err
		}
	}
	e.log.Debug("renamed", "old", old.String(), "new", target.String(), "dry_run", cfg.DryRun.Enabled)
	return target, nil
}

// sibling returns the entry named name next to path.
func sibling(path fastpath.Path, name string) (fastpath.Path, error) {
	if path.Depth() == 0 || !path.Platform().IsName(name) {
		return path, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return path.WithName(name), nil
}

// nextFree returns the sibling "stem(n).suffix" of target with the smallest
// n >= 1 that no existing sibling uses.
func (e *Engine) nextFree(target fastpath.Path) (fastpath.Path, error) {
	stem, suffix := target.Stem(), target.Suffix()
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(stem) + `\((\d+)\)` + regexp.QuoteMeta(suffix) + `$`)

	used := make(map[int]struct{})
	siblings, err := e.fs.ReadDir(target.Parent().String())
	if err != nil {
		return target, err
	}
	for _, info := range siblings {
		m := pattern.FindStringSubmatch(info.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil {
			used[n] = struct{}{}
		}
	}

	for n := 1; n <= maxIncrement; n++ {
		if _, ok := used[n]; ok {
			continue
		}
		candidate := target.WithStem(stem + "(" + strconv.Itoa(n) + ")")
		exists, err := e.fs.Exists(candidate.String())
		if err != nil {
			return target, err
		}
		if !exists {
			return candidate, nil
		}
	}
	return target, fmt.Errorf("%w: %s", ErrNoFreeName, target)
}

// ReplaceMatches substitutes replacement for every byte span of stem listed
// in matches. Spans must be sorted and must not overlap.
func ReplaceMatches(stem string, matches []diagnostic.Match, replacement string) string {
	out := make([]byte, 0, len(stem))
	last := 0
	for _, m := range matches {
		if m.Start < last || m.End > len(stem) {
			continue
		}
		out = append(out, stem[last:m.Start]...)
		out = append(out, replacement...)
		last = m.End
	}
	return string(append(out, stem[last:]...))
}

// ApplyRules runs every rule in order over name, each rule seeing the result
// of the previous one. It returns the final name and, in application order,
// the rules that substituted at least once together with their output.
func ApplyRules(rules []*config.RenameRule, name string) (string, []diagnostic.AppliedRule) {
	var applied []diagnostic.AppliedRule
	for _, r := range rules {
		next, n := r.Apply(name)
		if n == 0 {
			continue
		}
		name = next
		applied = append(applied, diagnostic.AppliedRule{
			Rule:          r.String(),
			Result:        name,
			IgnoreCase:    !r.CaseSensitive,
			IgnoreAccents: !r.AccentSensitive,
		})
	}
	return name, applied
}
