package widgets

import (
	"path/filepath"
	"strings"

	"github.com/justyntemme/fileman/internal/bus"
	"github.com/justyntemme/fileman/internal/debug"
	"github.com/justyntemme/fileman/internal/fs"
	"github.com/justyntemme/fileman/internal/nav"
)

// Crumb is one breadcrumb segment.
type Crumb struct {
	Label     string
	Path      string
	Clickable bool
}

type locationEvent struct {
	crumb int
	text  string
}

// LocationBar shows the current path as breadcrumbs and accepts typed paths. It
// keeps its own copy of the path.
type LocationBar struct {
	path   string
	crumbs []Crumb
	home   string

	events *bus.Queue[locationEvent]
	status bus.Sender[bus.Status]
}

func NewLocationBar(home string, status bus.Sender[bus.Status]) *LocationBar {
	return &LocationBar{
		home:   home,
		events: bus.NewQueue[locationEvent](),
		status: status,
	}
}

func (b *LocationBar) Path() string { return b.path }

func (b *LocationBar) SetPath(path string) {
	if path == b.path {
		return
	}
	b.path = path
	b.crumbs = Breadcrumbs(path)
}

// Crumbs returns the breadcrumbs of the shown path.
func (b *LocationBar) Crumbs() []Crumb { return b.crumbs }

// ClickCrumb navigates to breadcrumb i on the next Update.
func (b *LocationBar) ClickCrumb(i int) {
	b.events.Send(locationEvent{crumb: i})
}

// Submit navigates to typed text on the next Update. The text may use ~ or be
// relative to the shown path.
func (b *LocationBar) Submit(text string) {
	b.events.Send(locationEvent{crumb: -1, text: text})
}

// Update applies queued clicks and submissions.
func (b *LocationBar) Update() bool {
	changed := false
	for _, ev := range b.events.Drain() {
		target := ""
		if ev.crumb >= 0 {
			if ev.crumb >= len(b.crumbs) || !b.crumbs[ev.crumb].Clickable {
				continue
			}
			target = b.crumbs[ev.crumb].Path
		} else {
			target = nav.ExpandPath(ev.text, b.path, b.home)
			if !fs.IsDir(target) {
				debug.Log(debug.UI, "location: %q is not a directory", target)
				b.status.Send(bus.Failure("Error: not a directory: " + target))
				continue
			}
		}
		if target != b.path {
			b.SetPath(target)
			changed = true
		}
	}
	return changed
}

// Breadcrumbs splits path into the root and one crumb per component. The last
// crumb is the current directory and is not clickable.
func Breadcrumbs(path string) []Crumb {
	if path == "" {
		return nil
	}
	path = filepath.Clean(path)
	root := filepath.VolumeName(path) + string(filepath.Separator)
	crumbs := []Crumb{{Label: root, Path: root, Clickable: true}}

	rest := strings.TrimPrefix(path, root)
	acc := root
	if rest != "" {
		for _, part := range strings.Split(rest, string(filepath.Separator)) {
			acc = filepath.Join(acc, part)
			crumbs = append(crumbs, Crumb{Label: part, Path: acc, Clickable: true})
		}
	}
	crumbs[len(crumbs)-1].Clickable = false
	return crumbs
}
