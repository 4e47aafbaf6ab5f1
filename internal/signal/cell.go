// Package signal provides polled reactive cells.
//
// A cell holds one value and a version that grows on every effective write.
// Readers poll Get or compare versions; reading never has side effects.
package signal

import (
	"slices"
	"sync"
)

// Reader is the read-only view of a cell handed to consumers.
type Reader[T any] interface {
	Get() T
	Version() uint64
}

// Cell is a mutex-guarded value with a write version.
type Cell[T any] struct {
	mu      sync.RWMutex
	value   T
	version uint64
	equal   func(a, b T) bool
}

// New creates a cell using equal to suppress redundant writes.
func New[T any](initial T, equal func(a, b T) bool) *Cell[T] {
	return &Cell[T]{value: initial, equal: equal}
}

// NewPathCell creates a cell holding a single path.
func NewPathCell(initial string) *Cell[string] {
	return New(initial, func(a, b string) bool { return a == b })
}

// NewPathsCell creates a cell holding an ordered list of paths. Values are copied on
// the way in and out so holders cannot alias each other's slices.
func NewPathsCell(initial []string) *Cell[[]string] {
	return New(slices.Clone(initial), slices.Equal[[]string])
}

// NewBoolCell creates a cell holding a flag.
func NewBoolCell(initial bool) *Cell[bool] {
	return New(initial, func(a, b bool) bool { return a == b })
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneValue(c.value)
}

// Version returns the write version.
func (c *Cell[T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Set stores v. Writing a value equal to the current one is a no-op and returns
// false.
func (c *Cell[T]) Set(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.equal != nil && c.equal(c.value, v) {
		return false
	}
	c.value = cloneValue(v)
	c.version++
	return true
}

// Changed reports the current value and version if the cell was written after
// since.
func (c *Cell[T]) Changed(since uint64) (T, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneValue(c.value), c.version, c.version != since
}

func cloneValue[T any](v T) T {
	if s, ok := any(v).([]string); ok {
		return any(slices.Clone(s)).(T)
	}
	return v
}
