package app

import (
	"fmt"
	"os"

	"github.com/justyntemme/fileman/internal/nav"
)

// StartPath picks the initial location: arg, then lastPath, then the working
// directory, then home, then the root. An arg that is not a directory is an
// error; the fallbacks are skipped silently when they do not exist.
func StartPath(arg, lastPath, home string, isDir func(string) bool) (string, error) {
	cwd, _ := os.Getwd()
	if arg != "" {
		p := nav.ExpandPath(arg, cwd, home)
		if !isDir(p) {
			return "", fmt.Errorf("not a directory: %s", p)
		}
		return nav.Normalize(p), nil
	}
	for _, p := range []string{lastPath, cwd, home} {
		if p != "" && isDir(p) {
			return nav.Normalize(p), nil
		}
	}
	return "/", nil
}
