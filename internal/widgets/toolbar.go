package widgets

import (
	"fmt"
	"time"

	"github.com/justyntemme/fileman/internal/bus"
	"github.com/justyntemme/fileman/internal/debug"
	"github.com/justyntemme/fileman/internal/nav"
	"github.com/justyntemme/fileman/internal/ops"
	"github.com/justyntemme/fileman/internal/signal"
)

type Button int

const (
	ButtonBack Button = iota
	ButtonForward
	ButtonUp
	ButtonHome
	ButtonNewFolder
	ButtonDelete
	ButtonProperties
)

// ButtonInfo describes a toolbar button.
type ButtonInfo struct {
	Button    Button
	Label     string
	Tooltip   string
	StatusTip string
}

var buttons = []ButtonInfo{
	{ButtonBack, "Back", "Go back", "Go back to the previous location"},
	{ButtonForward, "Forward", "Go forward", "Go forward to the next location"},
	{ButtonUp, "Up", "Go up", "Go to the parent directory"},
	{ButtonHome, "Home", "Go home", "Go to your home directory"},
	{ButtonNewFolder, "New Folder", "Create folder", "Create a new folder in the current location"},
	{ButtonDelete, "Delete", "Delete", "Delete the selected items"},
	{ButtonProperties, "Properties", "Properties", "Show properties of the selected items"},
}

// Buttons returns the toolbar buttons in display order.
func Buttons() []ButtonInfo { return buttons }

// Location is what the toolbar reads from the history.
type Location interface {
	Current() string
	CanGoBack() bool
	CanGoForward() bool
}

// DeleteGate starts deletes and claims their selection responses.
type DeleteGate interface {
	Trigger() bool
	HandleSelection(resp bus.SelectionResponse) bool
}

// ToolbarDeps are the collaborators of a Toolbar.
type ToolbarDeps struct {
	Location   Location
	Gate       DeleteGate
	Actions    bus.Sender[nav.Action]
	Ops        bus.Sender[ops.Request]
	Selection  signal.Reader[[]string]
	Requests   bus.Sender[bus.SelectionRequest]
	Responses  *bus.Queue[bus.SelectionResponse]
	StatusHint func(string)
	Now        func() time.Time
}

// Toolbar turns button presses into navigation actions and operation requests.
type Toolbar struct {
	deps    ToolbarDeps
	presses *bus.Queue[Button]

	propsFlag  bool
	propsToken string

	canGoBack    *signal.Cell[bool]
	canGoForward *signal.Cell[bool]
	hasSelection *signal.Cell[bool]
}

func NewToolbar(d ToolbarDeps) *Toolbar {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Toolbar{
		deps:         d,
		presses:      bus.NewQueue[Button](),
		canGoBack:    signal.NewBoolCell(false),
		canGoForward: signal.NewBoolCell(false),
		hasSelection: signal.NewBoolCell(false),
	}
}

// Press records one press. It is handled on the next Tick.
func (t *Toolbar) Press(b Button) { t.presses.Send(b) }

// Hover shows b's status tip, or clears it when ok is false.
func (t *Toolbar) Hover(b Button, ok bool) {
	if t.deps.StatusHint == nil {
		return
	}
	if !ok || int(b) < 0 || int(b) >= len(buttons) {
		t.deps.StatusHint("")
		return
	}
	t.deps.StatusHint(buttons[b].StatusTip)
}

func (t *Toolbar) CanGoBack() signal.Reader[bool]    { return t.canGoBack }
func (t *Toolbar) CanGoForward() signal.Reader[bool] { return t.canGoForward }
func (t *Toolbar) HasSelection() signal.Reader[bool] { return t.hasSelection }

// Tick handles presses, routes selection responses and refreshes button state.
func (t *Toolbar) Tick() {
	for _, b := range t.presses.Drain() {
		t.handlePress(b)
	}

	for _, resp := range t.deps.Responses.Drain() {
		if t.deps.Gate.HandleSelection(resp) {
			continue
		}
		if !t.handleProperties(resp) {
			debug.Log(debug.GATE, "dropping selection response for %s (token %s)", resp.Purpose, resp.Token)
		}
	}

	t.canGoBack.Set(t.deps.Location.CanGoBack())
	t.canGoForward.Set(t.deps.Location.CanGoForward())
	t.hasSelection.Set(len(t.deps.Selection.Get()) > 0)
}

func (t *Toolbar) handlePress(b Button) {
	switch b {
	case ButtonBack:
		t.deps.Actions.Send(nav.Back{})
	case ButtonForward:
		t.deps.Actions.Send(nav.Forward{})
	case ButtonUp:
		t.deps.Actions.Send(nav.Up{})
	case ButtonHome:
		t.deps.Actions.Send(nav.Home{})
	case ButtonNewFolder:
		t.deps.Ops.Send(ops.CreateDirectory{
			Parent: t.deps.Location.Current(),
			Name:   fmt.Sprintf("New Folder %d", t.deps.Now().Unix()),
		})
	case ButtonDelete:
		t.deps.Gate.Trigger()
	case ButtonProperties:
		if t.propsFlag {
			debug.Log(debug.UI, "properties request already outstanding")
			return
		}
		t.propsFlag = true
		t.propsToken = bus.NewToken()
		t.deps.Requests.Send(bus.SelectionRequest{Token: t.propsToken, Purpose: bus.PurposeProperties})
	}
}

func (t *Toolbar) handleProperties(resp bus.SelectionResponse) bool {
	if resp.Purpose != bus.PurposeProperties || !t.propsFlag || resp.Token != t.propsToken {
		return false
	}
	t.propsFlag = false
	t.propsToken = ""
	if len(resp.Paths) > 0 {
		t.deps.Ops.Send(ops.Properties{Paths: resp.Paths})
	}
	return true
}
