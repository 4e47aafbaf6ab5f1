// Package nav owns the navigation history: the single back/forward stack and the
// canonical path signal every other component follows.
package nav

import (
	"path/filepath"
	"slices"
	"sync"

	"github.com/justyntemme/fileman/internal/debug"
	"github.com/justyntemme/fileman/internal/signal"
)

// History is the process-wide navigation stack. All methods are safe for
// concurrent use.
type History struct {
	mu       sync.Mutex
	stack    []string
	position int
	limit    int
	path     *signal.Cell[string]
}

// Option configures a History.
type Option func(*History)

// WithLimit bounds the stack to n entries, evicting the oldest. Zero or a negative
// n means unlimited.
func WithLimit(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.limit = n
		}
	}
}

// New creates a history positioned at initial.
func New(initial string, opts ...Option) *History {
	initial = Normalize(initial)
	h := &History{
		stack: []string{initial},
		path:  signal.NewPathCell(initial),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Normalize cleans p. Names are kept byte for byte: NFC and NFD spellings are
// different directories on most filesystems.
func Normalize(p string) string {
	if p == "" {
		return p
	}
	return filepath.Clean(p)
}

// NavigateTo pushes path as the new current location, discarding forward history.
// Navigating to the current path is a no-op and returns false.
func (h *History) NavigateTo(path string) bool {
	path = Normalize(path)
	if path == "" {
		return false
	}

	h.mu.Lock()
	if h.stack[h.position] == path {
		h.mu.Unlock()
		return false
	}

	h.stack = append(h.stack[:h.position+1], path)
	h.position = len(h.stack) - 1

	if h.limit > 0 && len(h.stack) > h.limit {
		excess := len(h.stack) - h.limit
		h.stack = slices.Clone(h.stack[excess:])
		h.position -= excess
	}

	h.path.Set(path)
	pos, size := h.position, len(h.stack)
	h.mu.Unlock()

	debug.Log(debug.NAV, "navigate %s (pos %d/%d)", path, pos, size)
	return true
}

// GoBack moves one entry back. It returns false without changing anything when
// there is no earlier entry.
func (h *History) GoBack() (string, bool) {
	return h.step(-1)
}

// GoForward moves one entry forward. It returns false without changing anything
// when there is no later entry.
func (h *History) GoForward() (string, bool) {
	return h.step(1)
}

func (h *History) step(delta int) (string, bool) {
	h.mu.Lock()
	next := h.position + delta
	if next < 0 || next >= len(h.stack) {
		h.mu.Unlock()
		return "", false
	}
	h.position = next
	p := h.stack[next]
	h.path.Set(p)
	h.mu.Unlock()

	debug.Log(debug.NAV, "step %+d -> %s", delta, p)
	return p, true
}

func (h *History) CanGoBack() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position > 0
}

func (h *History) CanGoForward() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position < len(h.stack)-1
}

// ParentPath returns the filesystem parent of the current entry. It returns false
// at the root.
func (h *History) ParentPath() (string, bool) {
	return Parent(h.Current())
}

// Current returns the current entry.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stack[h.position]
}

// Signal returns the read side of the canonical path cell.
func (h *History) Signal() signal.Reader[string] {
	return h.path
}

// Snapshot returns a copy of the stack and the current position.
func (h *History) Snapshot() ([]string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.stack), h.position
}

// Parent returns the directory containing p, or false when p is a root.
func Parent(p string) (string, bool) {
	parent := filepath.Dir(p)
	if parent == p {
		return "", false
	}
	return parent, true
}
