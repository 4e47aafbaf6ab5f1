//go:build linux

package app

import (
	"os/exec"
)

// launchers are tried in order; the first one installed opens the file.
var launchers = [][]string{
	{"xdg-open"},
	{"gio", "open"},
}

// platformOpen opens path with the desktop's default application.
func platformOpen(path string) error {
	for _, l := range launchers {
		if _, err := exec.LookPath(l[0]); err != nil {
			continue
		}
		args := append(l[1:len(l):len(l)], path)
		return exec.Command(l[0], args...).Start()
	}
	return errNoLauncher
}
