// Package app assembles the shell: one navigation history, the components that
// display it, and the cooperative tick that keeps them in agreement.
package app

import (
	"errors"
	"path/filepath"
	"strconv"
	"time"

	"github.com/justyntemme/fileman/internal/bus"
	"github.com/justyntemme/fileman/internal/config"
	"github.com/justyntemme/fileman/internal/debug"
	"github.com/justyntemme/fileman/internal/fs"
	"github.com/justyntemme/fileman/internal/gate"
	"github.com/justyntemme/fileman/internal/nav"
	"github.com/justyntemme/fileman/internal/ops"
	"github.com/justyntemme/fileman/internal/reconcile"
	"github.com/justyntemme/fileman/internal/store"
	"github.com/justyntemme/fileman/internal/widgets"
)

var errNoLauncher = errors.New("no application launcher found")

// Settings persists session settings asynchronously.
type Settings interface {
	Save(key, value string)
	Drain() []store.Response
}

// trashReporter is implemented by file operations that may move deletes to the
// trash. Others are assumed to delete permanently.
type trashReporter interface {
	UsesTrash() bool
}

// Watcher reports changed directories.
type Watcher interface {
	SetDirs(dirs ...string)
	Drain() []string
	Close() error
}

// Deps configures a Shell. Prompter and Presenter are required; the rest have
// defaults.
type Deps struct {
	Config    config.Config
	Home      string
	Start     string
	Prompter  gate.Prompter
	Presenter ops.Presenter

	// Lister defaults to an async fs.System owned by the shell.
	Lister fs.Lister
	// Files defaults to fs.Ops using the trash when configured.
	Files ops.FileOps
	// Store is optional. Without it nothing is persisted.
	Store Settings
	// Watcher defaults to a DirectoryWatcher when watching is enabled. Set
	// NoWatch to run without one.
	Watcher Watcher
	NoWatch bool
	// Open launches files. It defaults to the desktop's default application.
	Open func(path string) error
}

// Shell is the application root.
type Shell struct {
	history    *nav.History
	controller *nav.Controller
	actions    *bus.Queue[nav.Action]
	responses  *bus.Queue[bus.SelectionResponse]

	view     *widgets.FileView
	location *widgets.LocationBar
	sidebar  *widgets.Sidebar
	toolbar  *widgets.Toolbar
	status   *widgets.StatusBar

	viewSync *reconcile.Reconciler
	barSync  *reconcile.Reconciler

	gate     *gate.Gate
	pending  *gate.Pending
	pipeline *ops.Pipeline

	system  *fs.System
	watcher Watcher
	store   Settings
	open    func(string) error

	lastCanonical string
	lastHidden    bool
}

func NewShell(d Deps) *Shell {
	cfg := d.Config
	home := d.Home
	if home == "" {
		home = nav.ResolveHome(cfg.Behavior.Home)
	}
	start := d.Start
	if start == "" {
		start = home
	}

	s := &Shell{
		history:   nav.New(start, nav.WithLimit(cfg.History.Limit)),
		actions:   bus.NewQueue[nav.Action](),
		responses: bus.NewQueue[bus.SelectionResponse](),
		store:     d.Store,
		open:      d.Open,
	}
	s.controller = nav.NewController(s.history, home)
	if s.open == nil {
		s.open = platformOpen
	}

	lister := d.Lister
	if lister == nil {
		s.system = fs.NewSystem()
		go s.system.Start()
		lister = s.system
	}

	files := d.Files
	if files == nil {
		files = fs.NewOps(fs.WithTrash(cfg.Behavior.UseTrash))
	}
	useTrash := false
	if t, ok := files.(trashReporter); ok {
		useTrash = t.UsesTrash()
	}

	s.status = widgets.NewStatusBar(cfg.StatusTimeout(), s.history.Signal())
	s.view = widgets.NewFileView(lister, s.responses, s.status.Messages(), cfg.UI.ShowHidden)
	s.status.Track(s.view.Selection(), func() int { return len(s.view.Entries()) })
	s.lastHidden = cfg.UI.ShowHidden

	s.location = widgets.NewLocationBar(home, s.status.Messages())
	s.sidebar = widgets.NewSidebar(places(cfg, home))

	s.pending = gate.NewPending()
	s.gate = gate.New(s.view.SelectionRequests(), d.Prompter, s.pending, gate.WithTrashWording(useTrash))
	s.pipeline = ops.New(ops.Deps{
		Files:       files,
		Refresher:   s.view,
		Presenter:   d.Presenter,
		Interceptor: s.gate,
		Confirmed:   s.pending,
		Status:      s.status.Messages(),
	})
	s.toolbar = widgets.NewToolbar(widgets.ToolbarDeps{
		Location:   s.history,
		Gate:       s.gate,
		Actions:    s.actions,
		Ops:        s.pipeline.Requests(),
		Selection:  s.view.Selection(),
		Requests:   s.view.SelectionRequests(),
		Responses:  s.responses,
		StatusHint: s.status.SetHint,
	})

	s.viewSync = reconcile.New(s.history, s.view, reconcile.WithName("fileview"))
	s.barSync = reconcile.New(s.history, s.location, reconcile.WithName("location"))

	s.watcher = d.Watcher
	if s.watcher == nil && !d.NoWatch && cfg.Watch.Enabled {
		w, err := NewDirectoryWatcher(cfg.Watch.DebounceMs)
		if err != nil {
			debug.Warn(debug.WATCH, "directory watching disabled: %v", err)
		} else {
			s.watcher = w
		}
	}

	debug.Info(debug.APP, "shell started at %s (home %s)", s.history.Current(), home)
	return s
}

func places(cfg config.Config, home string) []widgets.Place {
	var out []widgets.Place
	if cfg.UI.ShowPlaces {
		out = append(out, widgets.UserPlaces(home, fs.IsDir)...)
	}
	if cfg.UI.ShowDevices {
		out = append(out, widgets.DevicePlaces()...)
	}
	for _, f := range cfg.Favorites {
		out = append(out, widgets.Place{Name: f.Name, Path: f.Path, Section: widgets.SectionFavorites})
	}
	return out
}

func (s *Shell) History() *nav.History              { return s.history }
func (s *Shell) FileView() *widgets.FileView        { return s.view }
func (s *Shell) LocationBar() *widgets.LocationBar  { return s.location }
func (s *Shell) Sidebar() *widgets.Sidebar          { return s.sidebar }
func (s *Shell) Toolbar() *widgets.Toolbar          { return s.toolbar }
func (s *Shell) StatusBar() *widgets.StatusBar      { return s.status }
func (s *Shell) Gate() *gate.Gate                   { return s.gate }
func (s *Shell) Actions() bus.Sender[nav.Action]    { return s.actions }
func (s *Shell) Requests() bus.Sender[ops.Request]  { return s.pipeline.Requests() }
func (s *Shell) Outcomes() bus.Sender[gate.Outcome] { return s.gate.Outcomes() }

// Tick runs one cooperative step. It never blocks.
func (s *Shell) Tick(now time.Time) {
	for _, target := range s.sidebar.Targets().Drain() {
		s.actions.Send(nav.NavigateTo{Path: target})
	}
	for _, a := range s.actions.Drain() {
		if s.controller.Apply(a) {
			debug.Log(debug.NAV, "%T -> %s", a, s.history.Current())
		}
	}

	s.viewSync.Tick()
	s.barSync.Tick()

	s.toolbar.Tick()
	s.gate.Tick()

	s.pipeline.Tick()

	s.handleWatcher()
	s.handleStore()
	s.handleLaunches()
	s.persist()

	s.status.Tick(now)
}

func (s *Shell) handleWatcher() {
	if s.watcher == nil {
		return
	}
	current := s.history.Current()
	parent, _ := fs.Parent(current)
	for _, dir := range s.watcher.Drain() {
		dir = filepath.Clean(dir)
		if dir != current && dir != parent {
			continue
		}
		debug.Log(debug.WATCH, "refreshing %s after change in %s", current, dir)
		s.view.Refresh()
		s.viewSync.MarkCheck()
		s.barSync.MarkCheck()
	}
}

func (s *Shell) handleStore() {
	if s.store == nil {
		return
	}
	for _, resp := range s.store.Drain() {
		if resp.Err != nil {
			debug.Error(debug.STORE, resp.Err, "store request failed")
		}
	}
}

func (s *Shell) handleLaunches() {
	for _, path := range s.view.Launches().Drain() {
		if err := s.open(path); err != nil {
			debug.Error(debug.APP, err, "open %s", path)
			s.status.Messages().Send(bus.Failure("Error: " + err.Error()))
			continue
		}
		debug.Info(debug.APP, "opened %s", path)
		s.status.Messages().Send(bus.Info("Opened '" + filepath.Base(path) + "'"))
	}
}

// persist records canonical path and hidden-file changes and moves the watch set.
func (s *Shell) persist() {
	current := s.history.Current()
	if current != s.lastCanonical {
		s.lastCanonical = current
		s.sidebar.Sync(current)
		if s.watcher != nil {
			parent, _ := fs.Parent(current)
			s.watcher.SetDirs(current, parent)
		}
		if s.store != nil {
			s.store.Save(store.KeyLastPath, current)
		}
	}
	if hidden := s.view.ShowHidden(); hidden != s.lastHidden {
		s.lastHidden = hidden
		if s.store != nil {
			s.store.Save(store.KeyShowHidden, strconv.FormatBool(hidden))
		}
	}
}

// Close stops the shell's workers.
func (s *Shell) Close() {
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			debug.Log(debug.WATCH, "close watcher: %v", err)
		}
	}
	if s.system != nil {
		s.system.Close()
	}
}
