// Package walk provides a contents-first directory traversal for bottom-up
// deletion: every entry is visited after everything nested inside it, so a
// directory is only reached once it can legally be removed.
package walk

import (
	"os"
	"path/filepath"
)

// Kind distinguishes the two removal primitives. Symlinks count as files;
// they are removed, never followed.
type Kind int

const (
	KindFile Kind = iota
	KindDir
)

// Label returns the diagnostic name for the entry kind
func (k Kind) Label() string {
	if k == KindDir {
		return "dir"
	}
	return "file or symlink"
}

// Entry is one filesystem node produced by the traversal
type Entry struct {
	Path string
	Kind Kind
}

// Func is called once per entry in contents-first order. When a path cannot
// be inspected or a directory cannot be listed, Func is called with the
// failing path's entry and a non-nil error instead; the rest of the
// traversal continues. Returning a non-nil error stops the walk.
type Func func(entry Entry, err error) error

// PostOrder traverses root contents-first and calls fn for the root and
// every descendant. A root that is a plain file or symlink produces exactly
// one entry. A root that does not exist or cannot be inspected produces a
// single error callback for that path.
func PostOrder(root string, fn Func) error {
	info, err := os.Lstat(root)
	if err != nil {
		return fn(Entry{Path: root, Kind: KindFile}, err)
	}
	return postOrder(root, info.IsDir(), fn)
}

func postOrder(path string, isDir bool, fn Func) error {
	if !isDir {
		return fn(Entry{Path: path, Kind: KindFile}, nil)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		// Unlistable directory: report it as an access error and do not
		// offer it for removal. Its parent will fail with not-empty and be
		// reported there.
		return fn(Entry{Path: path, Kind: KindDir}, err)
	}

	for _, e := range entries {
		child := filepath.Join(path, e.Name())
		// IsDir on a DirEntry does not follow symlinks; a symlink to a
		// directory reports as non-dir, which is what we want (remove the
		// link, never descend through it).
		if err := postOrder(child, e.IsDir(), fn); err != nil {
			return err
		}
	}

	return fn(Entry{Path: path, Kind: KindDir}, nil)
}
