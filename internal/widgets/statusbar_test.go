package widgets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/justyntemme/fileman/internal/bus"
	"github.com/justyntemme/fileman/internal/signal"
)

func TestStatusBarMessages(t *testing.T) {
	path := signal.NewPathCell("/work")
	sel := signal.NewPathsCell(nil)
	count := 0
	s := NewStatusBar(time.Second, path)
	s.Track(sel, func() int { return count })
	now := time.Unix(100, 0)

	s.Tick(now)
	assert.Equal(t, "/work", s.Text())

	sel.Set([]string{"/work/a", "/work/b"})
	assert.Equal(t, "/work - 2 item(s) selected", s.Text())

	s.Messages().Send(bus.Info("first"))
	s.Messages().Send(bus.Failure("Error: second"))
	s.Tick(now)
	assert.Equal(t, "Error: second", s.Text())
	msg, ok := s.Message()
	assert.True(t, ok)
	assert.Equal(t, bus.StatusError, msg.Kind)

	s.Tick(now.Add(999 * time.Millisecond))
	assert.Equal(t, "Error: second", s.Text())

	s.Tick(now.Add(time.Second))
	_, ok = s.Message()
	assert.False(t, ok)
	assert.Equal(t, "/work - 2 item(s) selected", s.Text())
}

func TestStatusBarHint(t *testing.T) {
	s := NewStatusBar(0, signal.NewPathCell("/"))
	s.SetHint("Go up")
	assert.Equal(t, "Go up", s.Text())
	s.SetHint("")
	assert.Equal(t, "/", s.Text())
}

func TestStatusBarSummary(t *testing.T) {
	count := 1
	s := NewStatusBar(0, signal.NewPathCell("/"))
	s.Track(signal.NewPathsCell(nil), func() int { return count })
	assert.Equal(t, "1 item", s.Summary())
	count = 12345
	assert.Equal(t, "12,345 items", s.Summary())
}
