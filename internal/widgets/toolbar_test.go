package widgets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/fileman/internal/bus"
	"github.com/justyntemme/fileman/internal/gate"
	"github.com/justyntemme/fileman/internal/nav"
	"github.com/justyntemme/fileman/internal/ops"
	"github.com/justyntemme/fileman/internal/signal"
)

type nopPrompter struct{ prompts []gate.Prompt }

func (p *nopPrompter) Confirm(pr gate.Prompt) { p.prompts = append(p.prompts, pr) }

type toolbarHarness struct {
	history   *nav.History
	actions   *bus.Queue[nav.Action]
	ops       *bus.Queue[ops.Request]
	requests  *bus.Queue[bus.SelectionRequest]
	responses *bus.Queue[bus.SelectionResponse]
	selection *signal.Cell[[]string]
	prompter  *nopPrompter
	gate      *gate.Gate
	hint      string
	bar       *Toolbar
}

func newToolbarHarness() *toolbarHarness {
	h := &toolbarHarness{
		history:   nav.New("/work"),
		actions:   bus.NewQueue[nav.Action](),
		ops:       bus.NewQueue[ops.Request](),
		requests:  bus.NewQueue[bus.SelectionRequest](),
		responses: bus.NewQueue[bus.SelectionResponse](),
		selection: signal.NewPathsCell(nil),
		prompter:  &nopPrompter{},
	}
	h.gate = gate.New(h.requests, h.prompter, gate.NewPending())
	h.bar = NewToolbar(ToolbarDeps{
		Location:   h.history,
		Gate:       h.gate,
		Actions:    h.actions,
		Ops:        h.ops,
		Selection:  h.selection,
		Requests:   h.requests,
		Responses:  h.responses,
		StatusHint: func(s string) { h.hint = s },
		Now:        func() time.Time { return time.Unix(1700000000, 0) },
	})
	return h
}

func TestToolbarNavigationPresses(t *testing.T) {
	h := newToolbarHarness()
	for _, b := range []Button{ButtonBack, ButtonForward, ButtonUp, ButtonHome} {
		h.bar.Press(b)
	}
	assert.Empty(t, h.actions.Drain(), "presses wait for Tick")

	h.bar.Tick()
	assert.Equal(t, []nav.Action{nav.Back{}, nav.Forward{}, nav.Up{}, nav.Home{}}, h.actions.Drain())
}

func TestToolbarNewFolder(t *testing.T) {
	h := newToolbarHarness()
	h.bar.Press(ButtonNewFolder)
	h.bar.Tick()
	assert.Equal(t, []ops.Request{ops.CreateDirectory{Parent: "/work", Name: "New Folder 1700000000"}}, h.ops.Drain())
}

func TestToolbarDeleteGoesThroughGate(t *testing.T) {
	h := newToolbarHarness()
	h.bar.Press(ButtonDelete)
	h.bar.Tick()

	reqs := h.requests.Drain()
	require.Len(t, reqs, 1)
	assert.Equal(t, bus.PurposeDelete, reqs[0].Purpose)
	assert.Equal(t, gate.AwaitingSelection, h.gate.State())

	h.responses.Send(bus.SelectionResponse{Token: reqs[0].Token, Purpose: bus.PurposeDelete, Paths: []string{"/work/a"}})
	h.bar.Tick()
	assert.Equal(t, gate.AwaitingConfirmation, h.gate.State())
	require.Len(t, h.prompter.prompts, 1)
	assert.Empty(t, h.ops.Drain())
}

func TestToolbarPropertiesHandshake(t *testing.T) {
	h := newToolbarHarness()
	h.bar.Press(ButtonProperties)
	h.bar.Press(ButtonProperties)
	h.bar.Tick()

	reqs := h.requests.Drain()
	require.Len(t, reqs, 1, "second press ignored while outstanding")
	assert.Equal(t, bus.PurposeProperties, reqs[0].Purpose)

	// Wrong token is dropped.
	h.responses.Send(bus.SelectionResponse{Token: "other", Purpose: bus.PurposeProperties, Paths: []string{"/x"}})
	h.bar.Tick()
	assert.Empty(t, h.ops.Drain())

	h.responses.Send(bus.SelectionResponse{Token: reqs[0].Token, Purpose: bus.PurposeProperties, Paths: []string{"/work/a"}})
	h.bar.Tick()
	assert.Equal(t, []ops.Request{ops.Properties{Paths: []string{"/work/a"}}}, h.ops.Drain())

	// Replay after completion is dropped.
	h.responses.Send(bus.SelectionResponse{Token: reqs[0].Token, Purpose: bus.PurposeProperties, Paths: []string{"/work/a"}})
	h.bar.Tick()
	assert.Empty(t, h.ops.Drain())
}

func TestToolbarPropertiesEmptySelection(t *testing.T) {
	h := newToolbarHarness()
	h.bar.Press(ButtonProperties)
	h.bar.Tick()
	reqs := h.requests.Drain()
	require.Len(t, reqs, 1)

	h.responses.Send(bus.SelectionResponse{Token: reqs[0].Token, Purpose: bus.PurposeProperties})
	h.bar.Tick()
	assert.Empty(t, h.ops.Drain())

	h.bar.Press(ButtonProperties)
	h.bar.Tick()
	assert.Len(t, h.requests.Drain(), 1)
}

func TestToolbarButtonState(t *testing.T) {
	h := newToolbarHarness()
	h.bar.Tick()
	assert.False(t, h.bar.CanGoBack().Get())
	assert.False(t, h.bar.HasSelection().Get())

	h.history.NavigateTo("/work/sub")
	h.selection.Set([]string{"/work/sub/a"})
	h.bar.Tick()
	assert.True(t, h.bar.CanGoBack().Get())
	assert.False(t, h.bar.CanGoForward().Get())
	assert.True(t, h.bar.HasSelection().Get())

	h.history.GoBack()
	h.bar.Tick()
	assert.True(t, h.bar.CanGoForward().Get())
}

func TestToolbarHover(t *testing.T) {
	h := newToolbarHarness()
	h.bar.Hover(ButtonUp, true)
	assert.Equal(t, "Go to the parent directory", h.hint)
	h.bar.Hover(ButtonUp, false)
	assert.Empty(t, h.hint)
	assert.Len(t, Buttons(), 7)
}
