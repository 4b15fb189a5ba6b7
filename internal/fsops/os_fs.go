package fsops

import "os"

// OSFS implements FS using real os package calls
type OSFS struct{}

func (OSFS) Remove(path string) error {
	return os.Remove(path)
}

func (OSFS) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}

func (OSFS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (OSFS) Chmod(path string, mode os.FileMode) error {
	return os.Chmod(path, mode)
}
