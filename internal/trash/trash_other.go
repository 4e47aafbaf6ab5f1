//go:build !linux

package trash

func isAvailable() bool { return false }

func moveToTrash(string) error { return ErrUnavailable }
