//go:build linux

package trash

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/justyntemme/fileman/internal/debug"
)

// freedesktop.org layout under $XDG_DATA_HOME/Trash:
//
//	files/            trashed files
//	info/NAME.trashinfo
//
//	[Trash Info]
//	Path=/original/path
//	DeletionDate=2024-01-15T10:30:45

const deletionDateLayout = "2006-01-02T15:04:05"

func trashPath() string {
	if xdg.DataHome == "" {
		return ""
	}
	return filepath.Join(xdg.DataHome, "Trash")
}

func filesDir() string { return filepath.Join(trashPath(), "files") }
func infoDir() string  { return filepath.Join(trashPath(), "info") }

func ensureDirs() error {
	if trashPath() == "" {
		return ErrUnavailable
	}
	if err := os.MkdirAll(filesDir(), 0o700); err != nil {
		return fmt.Errorf("cannot create trash files directory: %w", err)
	}
	if err := os.MkdirAll(infoDir(), 0o700); err != nil {
		return fmt.Errorf("cannot create trash info directory: %w", err)
	}
	return nil
}

func isAvailable() bool {
	return ensureDirs() == nil
}

// uniqueName picks a name under files/ that has neither a file nor an info entry.
func uniqueName(base string) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := base
	for i := 1; ; i++ {
		_, errFile := os.Lstat(filepath.Join(filesDir(), name))
		_, errInfo := os.Lstat(filepath.Join(infoDir(), name+".trashinfo"))
		if os.IsNotExist(errFile) && os.IsNotExist(errInfo) {
			return name
		}
		name = fmt.Sprintf("%s.%d%s", stem, i, ext)
	}
}

func moveToTrash(path string) error {
	if err := ensureDirs(); err != nil {
		return err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(absPath); err != nil {
		return err
	}

	name := uniqueName(filepath.Base(absPath))
	infoFile := filepath.Join(infoDir(), name+".trashinfo")
	content := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		escapePath(absPath), time.Now().Format(deletionDateLayout))

	// O_EXCL claims the name atomically.
	f, err := os.OpenFile(infoFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("cannot create trashinfo file: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(infoFile)
		return fmt.Errorf("cannot write trashinfo file: %w", err)
	}
	f.Close()

	if err := os.Rename(absPath, filepath.Join(filesDir(), name)); err != nil {
		os.Remove(infoFile)
		return fmt.Errorf("cannot move file to trash: %w", err)
	}
	debug.Log(debug.OPS, "trashed %s as %s", absPath, name)
	return nil
}

// escapePath percent-encodes each component, keeping the separators.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
