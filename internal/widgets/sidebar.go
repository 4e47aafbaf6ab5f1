package widgets

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/justyntemme/fileman/internal/bus"
	"github.com/justyntemme/fileman/internal/fs"
)

type Section int

const (
	SectionPlaces Section = iota
	SectionDevices
	SectionFavorites
)

func (s Section) String() string {
	switch s {
	case SectionPlaces:
		return "Places"
	case SectionDevices:
		return "Devices"
	case SectionFavorites:
		return "Favorites"
	default:
		return ""
	}
}

// Place is one sidebar target.
type Place struct {
	Name    string
	Path    string
	Section Section
}

// Sidebar lists places, devices and favorites. Selecting one emits its path.
type Sidebar struct {
	places  []Place
	cursor  int
	active  int
	targets *bus.Queue[string]
}

func NewSidebar(places []Place) *Sidebar {
	return &Sidebar{places: places, active: -1, targets: bus.NewQueue[string]()}
}

// UserPlaces returns Home and the XDG user directories that exist.
func UserPlaces(home string, exists func(string) bool) []Place {
	places := []Place{{Name: "Home", Path: home, Section: SectionPlaces}}
	for _, d := range []struct{ name, path string }{
		{"Desktop", xdg.UserDirs.Desktop},
		{"Documents", xdg.UserDirs.Documents},
		{"Download", xdg.UserDirs.Download},
		{"Music", xdg.UserDirs.Music},
		{"Pictures", xdg.UserDirs.Pictures},
		{"Videos", xdg.UserDirs.Videos},
	} {
		if d.path == "" || filepath.Clean(d.path) == filepath.Clean(home) || !exists(d.path) {
			continue
		}
		places = append(places, Place{Name: d.name, Path: d.path, Section: SectionPlaces})
	}
	return places
}

// DevicePlaces returns mounted volumes.
func DevicePlaces() []Place {
	var places []Place
	for _, v := range fs.Volumes() {
		places = append(places, Place{Name: v.Name, Path: v.Path, Section: SectionDevices})
	}
	return places
}

func (s *Sidebar) Places() []Place { return s.places }
func (s *Sidebar) Cursor() int     { return s.cursor }

// Active is the index of the place matching the current path, or -1.
func (s *Sidebar) Active() int { return s.active }

// Targets holds paths chosen since the last drain.
func (s *Sidebar) Targets() *bus.Queue[string] { return s.targets }

// Select emits place i.
func (s *Sidebar) Select(i int) bool {
	if i < 0 || i >= len(s.places) {
		return false
	}
	s.cursor = i
	s.targets.Send(s.places[i].Path)
	return true
}

func (s *Sidebar) MoveCursor(delta int) {
	s.cursor = clamp(s.cursor+delta, 0, len(s.places)-1)
}

// SelectCursor emits the place under the cursor.
func (s *Sidebar) SelectCursor() bool { return s.Select(s.cursor) }

// Sync highlights the place equal to current.
func (s *Sidebar) Sync(current string) {
	s.active = -1
	for i, p := range s.places {
		if filepath.Clean(p.Path) == current {
			s.active = i
			return
		}
	}
}
