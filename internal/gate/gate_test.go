package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/fileman/internal/bus"
)

type recordingPrompter struct {
	prompts []Prompt
}

func (p *recordingPrompter) Confirm(pr Prompt) { p.prompts = append(p.prompts, pr) }

func (p *recordingPrompter) last() Prompt { return p.prompts[len(p.prompts)-1] }

type harness struct {
	requests *bus.Queue[bus.SelectionRequest]
	prompter *recordingPrompter
	pending  *Pending
	gate     *Gate
}

func newHarness(opts ...Option) *harness {
	h := &harness{
		requests: bus.NewQueue[bus.SelectionRequest](),
		prompter: &recordingPrompter{},
		pending:  NewPending(),
	}
	h.gate = New(h.requests, h.prompter, h.pending, opts...)
	return h
}

// answer replies to the single outstanding request with paths.
func (h *harness) answer(t *testing.T, paths ...string) bool {
	t.Helper()
	reqs := h.requests.Drain()
	require.Len(t, reqs, 1)
	return h.gate.HandleSelection(bus.SelectionResponse{Token: reqs[0].Token, Purpose: reqs[0].Purpose, Paths: paths})
}

func TestConfirmedDeleteReachesPending(t *testing.T) {
	h := newHarness()
	require.True(t, h.gate.Trigger())
	assert.Equal(t, AwaitingSelection, h.gate.State())

	require.True(t, h.answer(t, "/tmp/a"))
	assert.Equal(t, AwaitingConfirmation, h.gate.State())
	assert.Equal(t, `Are you sure you want to delete "a"?`, h.prompter.last().Message)

	_, ok := h.pending.Take()
	require.False(t, ok, "nothing is pending before confirmation")

	h.gate.Outcomes().Send(Outcome{ID: h.prompter.last().ID, Confirmed: true})
	h.gate.Tick()

	assert.Equal(t, Idle, h.gate.State())
	paths, ok := h.pending.Take()
	require.True(t, ok)
	assert.Equal(t, []string{"/tmp/a"}, paths)
}

func TestCancelLeavesNothingPending(t *testing.T) {
	h := newHarness()
	h.gate.Trigger()
	h.answer(t, "/tmp/a", "/tmp/b")
	assert.Equal(t, "Are you sure you want to delete 2 selected item(s)?", h.prompter.last().Message)

	h.gate.Outcomes().Send(Outcome{ID: h.prompter.last().ID, Confirmed: false})
	h.gate.Tick()

	assert.Equal(t, Idle, h.gate.State())
	_, ok := h.pending.Take()
	assert.False(t, ok)
}

func TestEmptySelectionReturnsToIdle(t *testing.T) {
	h := newHarness()
	h.gate.Trigger()
	require.True(t, h.answer(t))

	assert.Equal(t, Idle, h.gate.State())
	assert.Empty(t, h.prompter.prompts, "no dialog for an empty selection")
}

func TestUnsolicitedResponseIgnored(t *testing.T) {
	h := newHarness()
	ok := h.gate.HandleSelection(bus.SelectionResponse{Token: "forged", Purpose: bus.PurposeDelete, Paths: []string{"/etc"}})
	assert.False(t, ok)
	assert.Equal(t, Idle, h.gate.State())
	assert.Empty(t, h.prompter.prompts)
}

func TestResponseWithWrongTokenIgnored(t *testing.T) {
	h := newHarness()
	h.gate.Trigger()
	reqs := h.requests.Drain()
	require.Len(t, reqs, 1)

	assert.False(t, h.gate.HandleSelection(bus.SelectionResponse{Token: "old", Purpose: bus.PurposeDelete, Paths: []string{"/x"}}))
	assert.False(t, h.gate.HandleSelection(bus.SelectionResponse{Token: reqs[0].Token, Purpose: bus.PurposeProperties, Paths: []string{"/x"}}))
	assert.Equal(t, AwaitingSelection, h.gate.State())

	assert.True(t, h.gate.HandleSelection(bus.SelectionResponse{Token: reqs[0].Token, Purpose: bus.PurposeDelete, Paths: []string{"/x"}}))
}

func TestReplayedResponseIgnored(t *testing.T) {
	h := newHarness()
	h.gate.Trigger()
	reqs := h.requests.Drain()
	resp := bus.SelectionResponse{Token: reqs[0].Token, Purpose: bus.PurposeDelete, Paths: []string{"/x"}}
	require.True(t, h.gate.HandleSelection(resp))
	h.gate.Outcomes().Send(Outcome{ID: h.prompter.last().ID, Confirmed: false})
	h.gate.Tick()

	assert.False(t, h.gate.HandleSelection(resp), "the request flag was consumed")
	assert.Len(t, h.prompter.prompts, 1)
}

func TestTriggerIsReentrancyGuarded(t *testing.T) {
	h := newHarness()
	assert.True(t, h.gate.Trigger())
	assert.False(t, h.gate.Trigger())
	assert.Equal(t, 1, h.requests.Len())

	h.answer(t, "/x")
	assert.False(t, h.gate.Trigger(), "no new request while a dialog is open")
}

func TestStrayOutcomeIgnored(t *testing.T) {
	h := newHarness()
	h.gate.Trigger()
	h.answer(t, "/x")

	h.gate.Outcomes().Send(Outcome{ID: "someone-else", Confirmed: true})
	h.gate.Tick()
	assert.Equal(t, AwaitingConfirmation, h.gate.State())
	_, ok := h.pending.Take()
	assert.False(t, ok)
}

func TestInterceptPromptsDirectly(t *testing.T) {
	h := newHarness(WithTrashWording(true))
	require.True(t, h.gate.Intercept([]string{"/tmp/a", "/tmp/b"}))
	assert.Equal(t, 0, h.requests.Len(), "intercepted deletes already carry operands")
	assert.Equal(t, "Move 2 items to the Trash?", h.prompter.last().Message)

	assert.False(t, h.gate.Intercept([]string{"/tmp/c"}), "only one dialog at a time")
	assert.False(t, newHarness().gate.Intercept(nil))
}

func TestPendingHoldsOneSet(t *testing.T) {
	p := NewPending()
	require.True(t, p.Put([]string{"/a"}))
	assert.False(t, p.Put([]string{"/b"}))

	got, ok := p.Take()
	require.True(t, ok)
	assert.Equal(t, []string{"/a"}, got)

	_, ok = p.Take()
	assert.False(t, ok)
	assert.True(t, p.Put([]string{"/b"}))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "awaiting-confirmation", AwaitingConfirmation.String())
}
