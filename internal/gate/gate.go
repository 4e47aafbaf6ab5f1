// Package gate guards destructive operations behind a selection handshake and an
// explicit user confirmation.
//
//	Idle -> AwaitingSelection -> AwaitingConfirmation -> Idle
//
// A selection response is accepted only while a request is outstanding and only
// if it echoes that request's token. Confirmed operand sets are parked in a
// Pending holder that the operation pipeline takes from.
package gate

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/justyntemme/fileman/internal/bus"
	"github.com/justyntemme/fileman/internal/debug"
	"github.com/justyntemme/fileman/internal/trash"
)

type State int

const (
	Idle State = iota
	AwaitingSelection
	AwaitingConfirmation
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingSelection:
		return "awaiting-selection"
	case AwaitingConfirmation:
		return "awaiting-confirmation"
	default:
		return "unknown"
	}
}

// Prompt is a confirmation dialog request.
type Prompt struct {
	ID      string
	Title   string
	Message string
	Paths   []string
}

// Outcome is the single answer to a Prompt.
type Outcome struct {
	ID        string
	Confirmed bool
}

// Prompter shows a confirmation dialog. The dialog posts exactly one Outcome to
// the gate's outcome queue when it closes.
type Prompter interface {
	Confirm(p Prompt)
}

// Gate is the delete confirmation state machine. It is driven from one tick loop
// and is not safe for concurrent use; its queues are.
type Gate struct {
	state    State
	flag     bool
	token    string
	prompt   Prompt
	useTrash bool

	requests bus.Sender[bus.SelectionRequest]
	outcomes *bus.Queue[Outcome]
	prompter Prompter
	pending  *Pending
}

// Option configures a Gate.
type Option func(*Gate)

// WithTrashWording phrases prompts as moves to the trash.
func WithTrashWording(enabled bool) Option {
	return func(g *Gate) { g.useTrash = enabled }
}

func New(requests bus.Sender[bus.SelectionRequest], prompter Prompter, pending *Pending, opts ...Option) *Gate {
	g := &Gate{
		requests: requests,
		outcomes: bus.NewQueue[Outcome](),
		prompter: prompter,
		pending:  pending,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) State() State { return g.state }

// Outcomes is where the prompter posts dialog results.
func (g *Gate) Outcomes() bus.Sender[Outcome] { return g.outcomes }

// Trigger starts a delete by asking the file view for its selection. It is
// ignored unless the gate is idle.
func (g *Gate) Trigger() bool {
	if g.state != Idle {
		debug.Log(debug.GATE, "trigger ignored in state %s", g.state)
		return false
	}
	g.token = bus.NewToken()
	g.flag = true
	g.requests.Send(bus.SelectionRequest{Token: g.token, Purpose: bus.PurposeDelete})
	g.state = AwaitingSelection
	debug.Log(debug.GATE, "selection requested (token %s)", g.token)
	return true
}

// HandleSelection consumes a selection response. It returns true when the
// response belonged to the outstanding delete request.
func (g *Gate) HandleSelection(resp bus.SelectionResponse) bool {
	if resp.Purpose != bus.PurposeDelete {
		return false
	}
	if g.state != AwaitingSelection || !g.flag || resp.Token != g.token {
		debug.Log(debug.GATE, "dropping unsolicited selection response (state %s, token %s)", g.state, resp.Token)
		return false
	}
	g.flag = false
	g.token = ""

	if len(resp.Paths) == 0 {
		debug.Log(debug.GATE, "empty selection, nothing to delete")
		g.state = Idle
		return true
	}
	g.open(resp.Paths)
	return true
}

// Intercept routes an unconfirmed delete request to the prompt. It is ignored
// unless the gate is idle and paths is non-empty.
func (g *Gate) Intercept(paths []string) bool {
	if g.state != Idle || len(paths) == 0 {
		debug.Log(debug.GATE, "intercept ignored in state %s (%d paths)", g.state, len(paths))
		return false
	}
	g.open(paths)
	return true
}

func (g *Gate) open(paths []string) {
	g.prompt = Prompt{
		ID:      bus.NewToken(),
		Title:   g.title(),
		Message: g.message(paths),
		Paths:   slices.Clone(paths),
	}
	g.state = AwaitingConfirmation
	debug.Log(debug.GATE, "confirming %d item(s) (prompt %s)", len(paths), g.prompt.ID)
	g.prompter.Confirm(g.prompt)
}

// Tick handles dialog outcomes.
func (g *Gate) Tick() {
	for _, out := range g.outcomes.Drain() {
		if g.state != AwaitingConfirmation || out.ID != g.prompt.ID {
			debug.Log(debug.GATE, "dropping stray outcome %s", out.ID)
			continue
		}
		paths := g.prompt.Paths
		g.prompt = Prompt{}
		g.state = Idle

		if !out.Confirmed {
			debug.Log(debug.GATE, "delete cancelled")
			continue
		}
		if !g.pending.Put(paths) {
			debug.Warn(debug.GATE, "confirmed delete dropped: another is still pending")
			continue
		}
		debug.Log(debug.GATE, "delete of %d item(s) confirmed", len(paths))
	}
}

func (g *Gate) title() string {
	if g.useTrash {
		return "Move to " + trash.DisplayName()
	}
	return "Confirm Delete"
}

func (g *Gate) message(paths []string) string {
	if g.useTrash {
		if len(paths) == 1 {
			return fmt.Sprintf(`Move "%s" to the %s?`, filepath.Base(paths[0]), trash.DisplayName())
		}
		return fmt.Sprintf("Move %d items to the %s?", len(paths), trash.DisplayName())
	}
	if len(paths) == 1 {
		return fmt.Sprintf(`Are you sure you want to delete "%s"?`, filepath.Base(paths[0]))
	}
	return fmt.Sprintf("Are you sure you want to delete %d selected item(s)?", len(paths))
}
