//go:build !linux

package app

import (
	"os/exec"
	"runtime"
)

func platformOpen(path string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Start()
	case "windows":
		// The empty argument is the window title start expects before the path.
		return exec.Command("cmd", "/c", "start", "", path).Start()
	default:
		return errNoLauncher
	}
}
