package fsops

import "os"

// FS abstracts the filesystem calls the remover makes
// Enables injecting failures in tests that are impossible to stage for real
// without elevated privileges (root paths, vanished targets, chmod errors)
type FS interface {
	Remove(path string) error
	Lstat(path string) (os.FileInfo, error)
	Stat(path string) (os.FileInfo, error)
	Chmod(path string, mode os.FileMode) error
}
