package engine

import (
	"errors"
	"io/fs"
	"unicode/utf8"

	"github.com/danieljhkim/pathaudit/internal/config"
	"github.com/danieljhkim/pathaudit/internal/diagnostic"
	"github.com/danieljhkim/pathaudit/internal/fastpath"
	"github.com/danieljhkim/pathaudit/internal/fsops"
)

// EmptyMemo records the directories confirmed empty during one post-order
// walk, so that a directory holding only empty directories is recognized
// without listing them again.
type EmptyMemo map[string]struct{}

// Add records p as empty.
func (m EmptyMemo) Add(p fastpath.Path) { m[p.Key()] = struct{}{} }

// Has reports whether p was recorded as empty.
func (m EmptyMemo) Has(p fastpath.Path) bool {
	_, ok := m[p.Key()]
	return ok
}

// Delete forgets p.
func (m EmptyMemo) Delete(p fastpath.Path) { delete(m, p.Key()) }

// Classify returns the diagnostics of one path for the requested checks,
// in the order Empty, Characters, InvalidName, NameLength, Length.
//
// Excluded paths yield nothing. Emptiness is only asserted for directories
// whose children are all recorded in memo; a confirmed directory is added
// to memo. A listing failure yields an Error instead.
func Classify(fsys fsops.FS, path fastpath.Path, isDir bool, cfg *config.Config, checks config.Check, memo EmptyMemo) []diagnostic.Diagnostic {
	if cfg.Excluded(path) {
		return nil
	}

	var out []diagnostic.Diagnostic

	if checks.Has(config.CheckEmpty) && isDir && memo != nil {
		empty, err := isEmpty(fsys, path, memo)
		switch {
		case err != nil:
			out = append(out, diagnostic.Error{Path: path, Err: err})
		case empty:
			memo.Add(path)
			out = append(out, diagnostic.Empty{Path: path})
		}
	}

	if checks.Has(config.CheckCharacters) {
		if cfg.InvalidCharacters != nil {
			if spans := cfg.InvalidCharacters.FindAllStringIndex(path.Stem(), -1); len(spans) > 0 {
				matches := make([]diagnostic.Match, len(spans))
				for i, s := range spans {
					matches[i] = diagnostic.Match{Start: s[0], End: s[1]}
				}
				out = append(out, diagnostic.Characters{Path: path, Matches: matches})
			}
		}
		if cfg.InvalidNames != nil && cfg.InvalidNames.MatchString(path.Name()) {
			out = append(out, diagnostic.InvalidName{Path: path})
		}
	}

	if checks.Has(config.CheckLength) {
		if n := utf8.RuneCountInString(path.Name()); n > cfg.MaxNameLength {
			out = append(out, diagnostic.NameLength{Path: path, Len: n, Limit: cfg.MaxNameLength})
		}
		if n := path.LenFor(cfg.Platform); n > cfg.MaxPathLength {
			out = append(out, diagnostic.Length{Path: path, Len: n, Limit: cfg.MaxPathLength})
		}
	}

	return out
}

func isEmpty(fsys fsops.FS, dir fastpath.Path, memo EmptyMemo) (bool, error) {
	children, err := fsys.ReadDir(dir.String())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	for _, child := range children {
		if !memo.Has(dir.Child(child.Name())) {
			return false, nil
		}
	}
	return true, nil
}
