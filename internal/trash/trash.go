// Package trash moves deleted files into the desktop trash instead of removing
// them outright.
package trash

import (
	"errors"
	"os"
)

// ErrUnavailable is returned on platforms without a supported trash.
var ErrUnavailable = errors.New("trash is not available on this platform")

// MoveToTrash moves path into the trash.
func MoveToTrash(path string) error {
	return moveToTrash(path)
}

// IsAvailable reports whether MoveToTrash can work here.
func IsAvailable() bool {
	return isAvailable()
}

// PermanentDelete removes path without using the trash. Directories are removed
// recursively.
func PermanentDelete(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// DisplayName is the user-facing name of the trash.
func DisplayName() string {
	return "Trash"
}
