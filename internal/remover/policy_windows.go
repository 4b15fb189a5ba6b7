//go:build windows

package remover

import (
	"os"

	"github.com/Timmmm/obliterate/internal/fsops"
	"github.com/Timmmm/obliterate/internal/walk"
)

// On Windows a file's own read-only attribute blocks deletion regardless of
// the parent directory, so the entry itself is the permission target. The
// documentation claims the attribute is ignored for directories, but
// deletions of read-only directories have been observed to fail, so
// directories get the same treatment.

func permissionTarget(entry walk.Entry) (string, error) {
	return entry.Path, nil
}

func statTarget(fs fsops.FS, target string) (os.FileInfo, error) {
	// Lstat: the target may be a symlink, and it is the link itself that is
	// being removed.
	return fs.Lstat(target)
}

func deleteWritable(mode os.FileMode) bool {
	// os maps FILE_ATTRIBUTE_READONLY onto the write bits of the mode
	return mode.Perm()&0o200 != 0
}

func withOwnerWrite(mode os.FileMode) os.FileMode {
	// os.Chmod clears the read-only attribute when any write bit is set
	return mode | 0o200
}
