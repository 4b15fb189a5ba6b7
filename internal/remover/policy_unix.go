//go:build !windows

package remover

import (
	"os"
	"path/filepath"

	"github.com/Timmmm/obliterate/internal/fsops"
	"github.com/Timmmm/obliterate/internal/walk"
)

// On POSIX filesystems deleting an entry unlinks it from its containing
// directory, so write permission on the parent is what gates the operation.
// The entry's own mode is irrelevant.

func permissionTarget(entry walk.Entry) (string, error) {
	parent := filepath.Dir(entry.Path)
	if parent == entry.Path {
		// filepath.Dir is a fixed point only at a root
		return "", ErrNoParent
	}
	return parent, nil
}

func statTarget(fs fsops.FS, target string) (os.FileInfo, error) {
	return fs.Stat(target)
}

func deleteWritable(mode os.FileMode) bool {
	return mode.Perm()&0o200 != 0
}

func withOwnerWrite(mode os.FileMode) os.FileMode {
	return mode | 0o200
}
