// Package term is a terminal front-end for the shell. It only draws component
// state and forwards input to component calls; navigation always goes through
// the shell's queues.
package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/justyntemme/fileman/internal/app"
	"github.com/justyntemme/fileman/internal/config"
	"github.com/justyntemme/fileman/internal/debug"
	"github.com/justyntemme/fileman/internal/gate"
	"github.com/justyntemme/fileman/internal/widgets"
)

const doubleClickThreshold = 300 * time.Millisecond

type pane int

const (
	paneFiles pane = iota
	paneSidebar
)

type inputKind int

const (
	inputLocation inputKind = iota
	inputRename
)

type inputLine struct {
	kind inputKind
	from string
	text []rune
}

// hit is a clickable screen region recorded while drawing.
type hit struct {
	x0, x1, y int
	click     func(double bool)
	hover     func()
}

// UI draws the shell on a tcell screen. It implements gate.Prompter and
// ops.Presenter; both are called from inside Shell.Tick on the loop goroutine.
type UI struct {
	screen tcell.Screen
	shell  *app.Shell
	keys   *config.HotkeyMatcher

	focus  pane
	offset int
	modal  *gate.Prompt
	props  *Summary
	input  *inputLine
	quit   bool

	hits      []hit
	hovering  bool
	buttons   tcell.ButtonMask
	lastClick time.Time
	lastRow   int
}

// New creates a UI on screen. Call Attach before Run.
func New(screen tcell.Screen, keys config.KeysConfig) *UI {
	return &UI{
		screen:  screen,
		keys:    config.NewHotkeyMatcher(keys),
		lastRow: -1,
	}
}

// Attach connects the UI to the shell it presents.
func (u *UI) Attach(shell *app.Shell) { u.shell = shell }

// Confirm opens the modal confirmation dialog.
func (u *UI) Confirm(p gate.Prompt) {
	u.modal = &p
}

// ShowProperties opens the properties overlay.
func (u *UI) ShowProperties(paths []string) {
	sum := Summarize(paths)
	u.props = &sum
}

// Run drives the shell until ctx ends or the user quits. Events and ticks are
// handled on this goroutine only.
func (u *UI) Run(ctx context.Context, interval time.Duration) error {
	events := make(chan tcell.Event, 32)
	stop := make(chan struct{})
	go u.screen.ChannelEvents(events, stop)
	defer close(stop)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	u.shell.Tick(time.Now())
	u.draw()
	for !u.quit {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			u.handleEvent(ev)
		case now := <-ticker.C:
			u.shell.Tick(now)
		}
		u.draw()
	}
	debug.Log(debug.UI, "quit")
	return nil
}

func (u *UI) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		u.handleKey(ev)
	case *tcell.EventMouse:
		u.handleMouse(ev)
	case *tcell.EventResize:
		u.screen.Sync()
	}
}

// answer closes the dialog and posts its single outcome.
func (u *UI) answer(confirmed bool) {
	if u.modal == nil {
		return
	}
	id := u.modal.ID
	u.modal = nil
	u.shell.Outcomes().Send(gate.Outcome{ID: id, Confirmed: confirmed})
}

func (u *UI) move(delta int) {
	if u.focus == paneSidebar {
		u.shell.Sidebar().MoveCursor(delta)
		return
	}
	u.shell.FileView().MoveCursor(delta)
}

func (u *UI) press(b widgets.Button) {
	if !u.enabled(b) {
		return
	}
	u.shell.Toolbar().Press(b)
}

func (u *UI) enabled(b widgets.Button) bool {
	tb := u.shell.Toolbar()
	switch b {
	case widgets.ButtonBack:
		return tb.CanGoBack().Get()
	case widgets.ButtonForward:
		return tb.CanGoForward().Get()
	case widgets.ButtonDelete, widgets.ButtonProperties:
		return tb.HasSelection().Get()
	default:
		return true
	}
}
