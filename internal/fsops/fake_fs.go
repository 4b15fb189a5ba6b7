package fsops

import (
	"io/fs"
	"os"
	"time"
)

// FakeFS implements FS for testing
// Records all calls and returns scripted errors/modes per path
type FakeFS struct {
	Calls []string

	// RemoveErrs is consumed front-to-back per path, so a permission-denied
	// first attempt followed by a successful retry is a two-element script.
	RemoveErrs map[string][]error
	StatModes  map[string]os.FileMode
	StatErrs   map[string]error
	ChmodErrs  map[string]error

	// ChmodModes records the mode applied by each Chmod call
	ChmodModes map[string]os.FileMode
}

func (f *FakeFS) Remove(path string) error {
	f.Calls = append(f.Calls, "rm:"+path)
	if errs := f.RemoveErrs[path]; len(errs) > 0 {
		err := errs[0]
		f.RemoveErrs[path] = errs[1:]
		return err
	}
	return nil
}

func (f *FakeFS) Lstat(path string) (os.FileInfo, error) {
	f.Calls = append(f.Calls, "lstat:"+path)
	return f.stat(path)
}

func (f *FakeFS) Stat(path string) (os.FileInfo, error) {
	f.Calls = append(f.Calls, "stat:"+path)
	return f.stat(path)
}

func (f *FakeFS) stat(path string) (os.FileInfo, error) {
	if err := f.StatErrs[path]; err != nil {
		return nil, err
	}
	mode, ok := f.StatModes[path]
	if !ok {
		return nil, &os.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return fakeFileInfo{name: path, mode: mode}, nil
}

func (f *FakeFS) Chmod(path string, mode os.FileMode) error {
	f.Calls = append(f.Calls, "chmod:"+path)
	if err := f.ChmodErrs[path]; err != nil {
		return err
	}
	if f.ChmodModes == nil {
		f.ChmodModes = make(map[string]os.FileMode)
	}
	f.ChmodModes[path] = mode
	if f.StatModes != nil {
		f.StatModes[path] = mode
	}
	return nil
}

type fakeFileInfo struct {
	name string
	mode os.FileMode
}

func (fi fakeFileInfo) Name() string       { return fi.name }
func (fi fakeFileInfo) Size() int64        { return 0 }
func (fi fakeFileInfo) Mode() os.FileMode  { return fi.mode }
func (fi fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (fi fakeFileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi fakeFileInfo) Sys() interface{}   { return nil }
