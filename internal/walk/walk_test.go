package walk

import (
	"os"
	"path/filepath"
	"testing"
)

type visit struct {
	entry Entry
	err   error
}

func collect(t *testing.T, root string) []visit {
	t.Helper()
	var visits []visit
	err := PostOrder(root, func(entry Entry, err error) error {
		visits = append(visits, visit{entry: entry, err: err})
		return nil
	})
	if err != nil {
		t.Fatalf("PostOrder returned error: %v", err)
	}
	return visits
}

func TestPostOrderContentsFirst(t *testing.T) {
	tmpDir := t.TempDir()
	root := filepath.Join(tmpDir, "dir1")

	mustMkdir(t, root)
	mustMkdir(t, filepath.Join(root, "dir2"))
	mustWrite(t, filepath.Join(root, "file1"))
	mustWrite(t, filepath.Join(root, "dir2", "file1"))

	visits := collect(t, root)

	if len(visits) != 4 {
		t.Fatalf("Expected 4 entries, got %d: %v", len(visits), visits)
	}
	for _, v := range visits {
		if v.err != nil {
			t.Errorf("Unexpected error for %s: %v", v.entry.Path, v.err)
		}
	}

	// No entry may appear before anything nested inside it
	index := make(map[string]int)
	for i, v := range visits {
		index[v.entry.Path] = i
	}
	for _, v := range visits {
		parent := filepath.Dir(v.entry.Path)
		pi, ok := index[parent]
		if ok && pi < index[v.entry.Path] {
			t.Errorf("Parent %s visited before child %s", parent, v.entry.Path)
		}
	}

	last := visits[len(visits)-1]
	if last.entry.Path != root || last.entry.Kind != KindDir {
		t.Errorf("Expected root dir last, got %+v", last.entry)
	}
}

func TestPostOrderFileRoot(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "just-a-file")
	mustWrite(t, file)

	visits := collect(t, file)

	if len(visits) != 1 {
		t.Fatalf("Expected exactly 1 entry, got %d", len(visits))
	}
	if visits[0].entry.Kind != KindFile || visits[0].err != nil {
		t.Errorf("Unexpected visit: %+v", visits[0])
	}
}

func TestPostOrderMissingRoot(t *testing.T) {
	tmpDir := t.TempDir()
	missing := filepath.Join(tmpDir, "does-not-exist")

	visits := collect(t, missing)

	if len(visits) != 1 {
		t.Fatalf("Expected exactly 1 visit, got %d", len(visits))
	}
	if visits[0].err == nil {
		t.Fatal("Expected an access error for missing root")
	}
	if !os.IsNotExist(visits[0].err) {
		t.Errorf("Expected not-exist error, got %v", visits[0].err)
	}
}

func TestPostOrderSymlinkIsFileEntry(t *testing.T) {
	tmpDir := t.TempDir()
	root := filepath.Join(tmpDir, "root")
	target := filepath.Join(tmpDir, "target")

	mustMkdir(t, root)
	mustMkdir(t, target)
	mustWrite(t, filepath.Join(target, "inside"))

	link := filepath.Join(root, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	visits := collect(t, root)

	// The link itself plus the root; never anything inside the link target
	if len(visits) != 2 {
		t.Fatalf("Expected 2 entries, got %d: %v", len(visits), visits)
	}
	if visits[0].entry.Path != link || visits[0].entry.Kind != KindFile {
		t.Errorf("Expected symlink as file entry first, got %+v", visits[0].entry)
	}
	if _, err := os.Stat(filepath.Join(target, "inside")); err != nil {
		t.Errorf("Symlink target contents should be untouched: %v", err)
	}
}

func TestPostOrderUnreadableSubdir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory read permissions are not enforced for root")
	}

	tmpDir := t.TempDir()
	root := filepath.Join(tmpDir, "root")
	locked := filepath.Join(root, "locked")
	sibling := filepath.Join(root, "sibling")

	mustMkdir(t, root)
	mustMkdir(t, locked)
	mustWrite(t, filepath.Join(locked, "hidden"))
	mustWrite(t, sibling)

	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("Failed to chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	visits := collect(t, root)

	var lockedErr error
	sawSibling := false
	sawRoot := false
	for _, v := range visits {
		switch v.entry.Path {
		case locked:
			lockedErr = v.err
		case sibling:
			sawSibling = v.err == nil
		case root:
			sawRoot = v.err == nil
		}
	}

	if lockedErr == nil {
		t.Error("Expected an access error for the unreadable directory")
	}
	if !sawSibling {
		t.Error("Sibling entry should still be visited after the access error")
	}
	if !sawRoot {
		t.Error("Root should still be visited after the access error")
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("Failed to create dir %s: %v", path, err)
	}
}

func mustWrite(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
}
