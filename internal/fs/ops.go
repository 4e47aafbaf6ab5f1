package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/justyntemme/fileman/internal/debug"
	"github.com/justyntemme/fileman/internal/trash"
)

const (
	DirPermission  = 0o755
	FilePermission = 0o644
)

// Ops performs filesystem mutations. Errors read well as status text.
type Ops struct {
	useTrash bool
}

// OpsOption configures Ops.
type OpsOption func(*Ops)

// WithTrash makes DeletePath move items to the trash when one is available.
func WithTrash(enabled bool) OpsOption {
	return func(o *Ops) { o.useTrash = enabled && trash.IsAvailable() }
}

func NewOps(opts ...OpsOption) *Ops {
	o := &Ops{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// UsesTrash reports whether deletes go to the trash.
func (o *Ops) UsesTrash() bool { return o.useTrash }

// CreateDirectory creates a single new directory.
func (o *Ops) CreateDirectory(path string) error {
	if Exists(path) {
		return fmt.Errorf("failed to create directory: %s already exists", filepath.Base(path))
	}
	if err := os.Mkdir(path, DirPermission); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	debug.Log(debug.OPS, "created directory %s", path)
	return nil
}

// CreateFile creates an empty file.
func (o *Ops) CreateFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FilePermission)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	return f.Close()
}

// DeletePath removes a file or a directory tree, or trashes it when trash mode is
// on.
func (o *Ops) DeletePath(path string) error {
	if _, err := os.Lstat(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", filepath.Base(path), err)
	}
	if o.useTrash {
		if err := trash.MoveToTrash(path); err != nil {
			return fmt.Errorf("failed to move %s to the %s: %w", filepath.Base(path), trash.DisplayName(), err)
		}
		return nil
	}
	if err := trash.PermanentDelete(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", filepath.Base(path), err)
	}
	return nil
}

// RenamePath moves from to to. An existing destination is an error.
func (o *Ops) RenamePath(from, to string) error {
	if from == to {
		return nil
	}
	if _, err := os.Lstat(to); err == nil {
		return fmt.Errorf("failed to rename: %s already exists", filepath.Base(to))
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("failed to rename: %w", err)
	}
	return nil
}

// CopyFile copies a regular file, keeping its permission bits.
func (o *Ops) CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to copy: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to copy: %w", err)
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to copy: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to copy: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to copy: %w", err)
	}
	return nil
}
