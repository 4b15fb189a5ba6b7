//go:build !windows

package obliterate

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func skipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("write permissions are not enforced for root")
	}
}

// restoreWritable makes the tree removable again if a test fails midway, so
// t.TempDir cleanup does not trip over read-only directories
func restoreWritable(t *testing.T, root string) {
	t.Helper()
	t.Cleanup(func() {
		filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				os.Chmod(path, 0o755)
			}
			return nil
		})
	})
}

func TestRemovePathReadonlyEverything(t *testing.T) {
	skipIfRoot(t)

	tmpDir := t.TempDir()
	dir1 := mkTree(t, tmpDir)
	restoreWritable(t, dir1)

	for _, p := range []string{
		filepath.Join(dir1, "dir2", "file1"),
		filepath.Join(dir1, "dir2"),
		filepath.Join(dir1, "file1"),
		dir1,
	} {
		if err := os.Chmod(p, 0o555); err != nil {
			t.Fatalf("Failed to chmod %s: %v", p, err)
		}
	}

	var buf bytes.Buffer
	ob := New(log.New(&buf, "", 0), nil, nil, nil)
	m := newTestMetrics()
	ob.SetMetrics(m)

	if err := ob.RemovePath(dir1); err != nil {
		t.Fatalf("RemovePath failed: %v\nlog:\n%s", err, buf.String())
	}
	if _, err := os.Lstat(dir1); !os.IsNotExist(err) {
		t.Errorf("Tree should be gone, lstat: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no diagnostic output, got:\n%s", buf.String())
	}
	if got := testutil.ToFloat64(m.fixes); got == 0 {
		t.Error("Expected at least one permission fix for a fully read-only tree")
	}
}

func TestRemovePathReadonlyLeafDir(t *testing.T) {
	skipIfRoot(t)

	tmpDir := t.TempDir()
	dir1 := mkTree(t, tmpDir)
	restoreWritable(t, dir1)

	// dir2 read-only: removing dir2/file1 requires fixing dir2 itself
	if err := os.Chmod(filepath.Join(dir1, "dir2"), 0o555); err != nil {
		t.Fatalf("Failed to chmod: %v", err)
	}

	ob := New(log.New(&bytes.Buffer{}, "", 0), nil, nil, nil)
	if err := ob.RemovePath(dir1); err != nil {
		t.Fatalf("RemovePath failed: %v", err)
	}
	if _, err := os.Lstat(dir1); !os.IsNotExist(err) {
		t.Errorf("Tree should be gone, lstat: %v", err)
	}
}

func TestRemovePathReadonlyFileNeedsNoFix(t *testing.T) {
	skipIfRoot(t)

	tmpDir := t.TempDir()
	dir1 := mkTree(t, tmpDir)

	// Only the deepest file is read-only. On POSIX its own mode does not
	// gate unlinking, so the whole removal runs without a single fix.
	if err := os.Chmod(filepath.Join(dir1, "dir2", "file1"), 0o444); err != nil {
		t.Fatalf("Failed to chmod: %v", err)
	}

	ob := New(log.New(&bytes.Buffer{}, "", 0), nil, nil, nil)
	m := newTestMetrics()
	ob.SetMetrics(m)

	if err := ob.RemovePath(dir1); err != nil {
		t.Fatalf("RemovePath failed: %v", err)
	}
	if got := testutil.ToFloat64(m.fixes); got != 0 {
		t.Errorf("Expected 0 permission fixes, got %v", got)
	}
}

func TestRemovePathPartialFailure(t *testing.T) {
	skipIfRoot(t)

	tmpDir := t.TempDir()
	root := filepath.Join(tmpDir, "root")
	locked := filepath.Join(root, "locked")
	sibling := filepath.Join(root, "sibling.txt")

	if err := os.MkdirAll(locked, 0o755); err != nil {
		t.Fatalf("Failed to create dirs: %v", err)
	}
	if err := os.WriteFile(filepath.Join(locked, "trapped"), []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	if err := os.WriteFile(sibling, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	// An unlistable directory cannot be emptied, so it and the root survive
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("Failed to chmod: %v", err)
	}
	restoreWritable(t, root)

	var buf bytes.Buffer
	ob := New(log.New(&buf, "", 0), nil, nil, nil)
	m := newTestMetrics()
	ob.SetMetrics(m)

	err := ob.RemovePath(root)
	if err == nil {
		t.Fatal("Expected a per-root failure")
	}

	// Best-effort: the sibling must be gone despite the failure next to it
	if _, serr := os.Lstat(sibling); !os.IsNotExist(serr) {
		t.Errorf("Sibling should have been removed, lstat: %v", serr)
	}
	if got := testutil.ToFloat64(m.errors); got == 0 {
		t.Error("Expected error counter to move")
	}
}
