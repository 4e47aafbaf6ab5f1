package nav

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/justyntemme/fileman/internal/debug"
)

// FallbackHome is used when neither the configuration nor the environment name a
// home directory.
const FallbackHome = "/home"

// Action is a navigation request produced by the toolbar, sidebar or location bar.
type Action interface {
	isAction()
}

type (
	Back       struct{}
	Forward    struct{}
	Up         struct{}
	Home       struct{}
	NavigateTo struct{ Path string }
)

func (Back) isAction()       {}
func (Forward) isAction()    {}
func (Up) isAction()         {}
func (Home) isAction()       {}
func (NavigateTo) isAction() {}

// Controller applies actions to a History.
type Controller struct {
	history *History
	home    string
}

// NewController creates a controller. An empty home falls back to the user's home
// directory, then FallbackHome.
func NewController(h *History, home string) *Controller {
	return &Controller{history: h, home: home}
}

// Home returns the resolved home directory.
func (c *Controller) Home() string {
	return ResolveHome(c.home)
}

// Apply performs one action and reports whether the current location changed.
func (c *Controller) Apply(a Action) bool {
	switch a := a.(type) {
	case Back:
		_, ok := c.history.GoBack()
		return ok
	case Forward:
		_, ok := c.history.GoForward()
		return ok
	case Up:
		parent, ok := c.history.ParentPath()
		if !ok {
			return false
		}
		return c.history.NavigateTo(parent)
	case Home:
		return c.history.NavigateTo(c.Home())
	case NavigateTo:
		return c.history.NavigateTo(a.Path)
	default:
		debug.Log(debug.NAV, "unknown action %T", a)
		return false
	}
}

// ResolveHome returns configured if set, else the user's home directory, else
// FallbackHome.
func ResolveHome(configured string) string {
	if configured != "" {
		return ExpandPath(configured, "/", "")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	return FallbackHome
}

// ExpandPath turns user input into a clean absolute path. It handles ~ for home,
// paths relative to current, absolute paths and Windows drive letters. Empty
// input returns current.
func ExpandPath(input, current, home string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}

	if strings.HasPrefix(input, "~") {
		if home == "" {
			home = ResolveHome("")
		}
		if input == "~" {
			return home
		}
		if strings.HasPrefix(input, "~/") || strings.HasPrefix(input, "~\\") {
			return filepath.Clean(filepath.Join(home, input[2:]))
		}
	}

	if isAbsolutePath(input) {
		return filepath.Clean(input)
	}
	return filepath.Clean(filepath.Join(current, input))
}

func isAbsolutePath(path string) bool {
	if len(path) == 0 {
		return false
	}
	if path[0] == '/' {
		return true
	}
	if runtime.GOOS == "windows" {
		// C:\ and C:/
		if len(path) >= 2 && isLetter(path[0]) && path[1] == ':' {
			return true
		}
		// \\server\share
		if len(path) >= 2 && path[0] == '\\' && path[1] == '\\' {
			return true
		}
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
