package gate

import (
	"slices"
	"sync"
)

// Pending holds at most one confirmed operand set awaiting execution.
type Pending struct {
	mu    sync.Mutex
	paths []string
	set   bool
}

func NewPending() *Pending {
	return &Pending{}
}

// Put stores paths. It refuses when a set is already waiting.
func (p *Pending) Put(paths []string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.set {
		return false
	}
	p.paths = slices.Clone(paths)
	p.set = true
	return true
}

// Take removes and returns the waiting set.
func (p *Pending) Take() ([]string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.set {
		return nil, false
	}
	paths := p.paths
	p.paths, p.set = nil, false
	return paths, true
}
