// Package bus holds the unbounded request channels that connect UI producers to
// the reconciliation layer and the operation pipeline, plus the message shapes
// that travel on them.
//
// Consumers never block: once per tick they call Drain and handle everything that
// was queued at that moment. Ordering is FIFO within one queue and nothing else;
// there is no ordering between distinct queues.
package bus

import "sync"

// Sender is the producing side of a queue.
type Sender[T any] interface {
	Send(v T) bool
}

// Queue is an unbounded multi-producer, single-consumer queue.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Send appends v. It never blocks. After Close the value is dropped and false is
// returned.
func (q *Queue[T]) Send(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, v)
	return true
}

// Drain takes everything currently queued, oldest first.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	items := q.items
	q.items = nil
	return items
}

// Len reports how many values are waiting.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops accepting values. Values already queued can still be drained.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}
