// Package walk produces the lazy, single-pass traversal used by every audit
// and repair pass.
//
// Walk yields Entry triples (directory, subdirectory names, file names) in
// pre- or post-order. The walked root is reported as a name in an entry
// rooted at its own parent, so a single file and a directory tree go
// through the same code path. Listing failures are handed to
// Options.OnError and the walk continues with the next sibling.
package walk

import (
	"iter"
	"os"

	"github.com/danieljhkim/pathaudit/internal/fastpath"
	"github.com/danieljhkim/pathaudit/internal/fsops"
)

// Order selects when a directory's entry is yielded relative to its children.
type Order int

const (
	// PreOrder yields a directory before descending into it.
	PreOrder Order = iota

	// PostOrder yields every descendant before the directory itself.
	PostOrder
)

func (o Order) String() string {
	if o == PostOrder {
		return "post-order"
	}
	return "pre-order"
}

// Entry describes one directory and its immediate children.
type Entry struct {
	Root  fastpath.Path
	Dirs  []string
	Files []string
}

// Names returns files then subdirectories, the order in which passes
// process an entry.
func (e Entry) Names() []string {
	names := make([]string, 0, len(e.Files)+len(e.Dirs))
	names = append(names, e.Files...)
	return append(names, e.Dirs...)
}

// Options configures a walk.
type Options struct {
	Order Order

	// FollowSymlinks descends into symbolic links to directories.
	// Off by default to avoid cycles.
	FollowSymlinks bool

	// OnError receives listing and stat failures. The failing subtree is
	// skipped. A nil OnError drops errors silently.
	OnError func(path fastpath.Path, err error)
}

// Walk traverses the tree rooted at root.
func Walk(fsys fsops.FS, root fastpath.Path, opts Options) iter.Seq[Entry] {
	w := &walker{fs: fsys, opts: opts}

	return func(yield func(Entry) bool) {
		info, err := w.stat(root)
		if err != nil {
			w.fail(root, err)
			return
		}

		var self Entry
		self.Root = root.Parent()
		if info.IsDir() {
			self.Dirs = []string{root.Name()}
		} else {
			self.Files = []string{root.Name()}
		}

		if opts.Order == PreOrder && !yield(self) {
			return
		}
		if info.IsDir() && !w.walkDir(root, yield) {
			return
		}
		if opts.Order == PostOrder {
			yield(self)
		}
	}
}

type walker struct {
	fs   fsops.FS
	opts Options
}

func (w *walker) fail(path fastpath.Path, err error) {
	if w.opts.OnError != nil {
		w.opts.OnError(path, err)
	}
}

func (w *walker) stat(path fastpath.Path) (os.FileInfo, error) {
	if w.opts.FollowSymlinks {
		return w.fs.Stat(path.String())
	}
	return w.fs.Lstat(path.String())
}

// walkDir returns false once the consumer stopped the iteration.
func (w *walker) walkDir(dir fastpath.Path, yield func(Entry) bool) bool {
	infos, err := w.fs.ReadDir(dir.String())
	if err != nil {
		w.fail(dir, err)
		return true
	}

	entry := Entry{Root: dir}
	for _, info := range infos {
		if w.isDir(dir, info) {
			entry.Dirs = append(entry.Dirs, info.Name())
		} else {
			entry.Files = append(entry.Files, info.Name())
		}
	}

	if w.opts.Order == PreOrder && !yield(entry) {
		return false
	}

	for _, name := range entry.Dirs {
		if !w.walkDir(dir.Child(name), yield) {
			return false
		}
	}

	if w.opts.Order == PostOrder {
		return yield(entry)
	}
	return true
}

func (w *walker) isDir(dir fastpath.Path, info os.FileInfo) bool {
	if info.Mode()&os.ModeSymlink == 0 {
		return info.IsDir()
	}
	if !w.opts.FollowSymlinks {
		return false
	}
	target, err := w.fs.Stat(dir.Child(info.Name()).String())
	if err != nil {
		// broken link: reported as a plain file name
		return false
	}
	return target.IsDir()
}
