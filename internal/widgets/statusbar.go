package widgets

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/justyntemme/fileman/internal/bus"
	"github.com/justyntemme/fileman/internal/signal"
)

// StatusBar shows transient messages, then falls back to a hover hint, then to
// the location summary.
type StatusBar struct {
	messages *bus.Queue[bus.Status]
	timeout  time.Duration

	current bus.Status
	expires time.Time
	active  bool
	hint    string

	path      signal.Reader[string]
	selection signal.Reader[[]string]
	items     func() int
}

func NewStatusBar(timeout time.Duration, path signal.Reader[string]) *StatusBar {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &StatusBar{
		messages: bus.NewQueue[bus.Status](),
		timeout:  timeout,
		path:     path,
	}
}

// Track sets where the selection summary and item count come from.
func (s *StatusBar) Track(selection signal.Reader[[]string], items func() int) {
	s.selection, s.items = selection, items
}

// Messages is where components post status text.
func (s *StatusBar) Messages() bus.Sender[bus.Status] { return s.messages }

// SetHint sets the hover status tip. An empty hint clears it.
func (s *StatusBar) SetHint(hint string) { s.hint = hint }

// Tick takes new messages (the newest wins) and expires the shown one.
func (s *StatusBar) Tick(now time.Time) {
	if msgs := s.messages.Drain(); len(msgs) > 0 {
		s.current = msgs[len(msgs)-1]
		s.expires = now.Add(s.timeout)
		s.active = true
	}
	if s.active && !now.Before(s.expires) {
		s.active = false
		s.current = bus.Status{}
	}
}

// Message returns the shown transient message.
func (s *StatusBar) Message() (bus.Status, bool) {
	return s.current, s.active
}

// Text is the left-hand status text.
func (s *StatusBar) Text() string {
	if s.active {
		return s.current.Text
	}
	if s.hint != "" {
		return s.hint
	}
	path := s.path.Get()
	if s.selection != nil {
		if n := len(s.selection.Get()); n > 0 {
			return fmt.Sprintf("%s - %d item(s) selected", path, n)
		}
	}
	return path
}

// Summary is the right-hand item count.
func (s *StatusBar) Summary() string {
	n := 0
	if s.items != nil {
		n = s.items()
	}
	if n == 1 {
		return "1 item"
	}
	return humanize.Comma(int64(n)) + " items"
}
