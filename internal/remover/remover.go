// Package remover deletes single filesystem entries, recovering from
// permission-denied failures by making the gating path writable and retrying
// exactly once.
//
// Which path gates a deletion is platform-dependent: on POSIX filesystems it
// is the containing directory, on Windows the entry's own read-only
// attribute. The per-platform policy files decide the target; the recovery
// sequence here is shared.
package remover

import (
	"errors"
	"fmt"
	"os"

	"github.com/Timmmm/obliterate/internal/fsops"
	"github.com/Timmmm/obliterate/internal/walk"
)

var (
	// ErrAccessDenied marks a permission-denied failure this package cannot
	// recover from: the gating path is already writable, so the denial comes
	// from something else (ACL, ownership, an external lock).
	ErrAccessDenied = errors.New("target is already writable")

	// ErrNoParent marks a permission-denied failure on a path with no
	// containing directory to make writable.
	ErrNoParent = errors.New("no parent directory to make writable")
)

// Result reports what a removal did beyond succeeding or failing
type Result struct {
	// PermissionFixed is true when a write bit had to be set before the
	// entry could be removed. The fixed path stays writable afterwards;
	// reverting it would re-block siblings still pending in the same walk.
	PermissionFixed bool
	FixedTarget     string
}

// Remover removes one entry at a time through an fsops.FS
type Remover struct {
	fs fsops.FS
}

// New creates a Remover. A nil fs means the real filesystem.
func New(fs fsops.FS) *Remover {
	if fs == nil {
		fs = fsops.OSFS{}
	}
	return &Remover{fs: fs}
}

// Remove deletes the entry, retrying once after a permission fix.
//
// Any failure other than permission-denied is returned unchanged: not-found
// after a race, directory-not-empty and I/O errors are not recoverable here.
// On permission-denied the gating path's permissions are re-read (never
// cached; earlier deletions in the same tree may have changed them), the
// owner-write bit is set if it is not already, and the removal is retried
// exactly once. The retry's outcome is returned verbatim.
func (r *Remover) Remove(entry walk.Entry) (Result, error) {
	err := r.fs.Remove(entry.Path)
	if err == nil {
		return Result{}, nil
	}
	if !os.IsPermission(err) {
		return Result{}, err
	}

	target, err := permissionTarget(entry)
	if err != nil {
		return Result{}, fmt.Errorf("permission denied removing %s %s: %w", entry.Kind.Label(), entry.Path, err)
	}

	info, err := statTarget(r.fs, target)
	if err != nil {
		return Result{}, fmt.Errorf("permission denied removing %s %s, and reading permissions of %s failed: %w",
			entry.Kind.Label(), entry.Path, target, err)
	}

	mode := info.Mode()
	if deleteWritable(mode) {
		// The gating bit is already set. Retrying would loop forever against
		// whatever is actually denying us.
		return Result{}, fmt.Errorf("permission denied removing %s %s: %w", entry.Kind.Label(), entry.Path, ErrAccessDenied)
	}

	// Grant write to the owner only. Widening group/other would leave the
	// target more permissive than necessary if the retry still fails.
	if err := r.fs.Chmod(target, withOwnerWrite(mode)); err != nil {
		return Result{}, fmt.Errorf("permission denied removing %s %s, and making %s writable failed: %w",
			entry.Kind.Label(), entry.Path, target, err)
	}

	res := Result{PermissionFixed: true, FixedTarget: target}
	return res, r.fs.Remove(entry.Path)
}
