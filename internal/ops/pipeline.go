// Package ops executes file operation requests and reports their results as
// status messages.
package ops

import (
	"fmt"
	"path/filepath"

	"github.com/justyntemme/fileman/internal/bus"
	"github.com/justyntemme/fileman/internal/debug"
)

// Request is one operation. Each request is consumed exactly once.
type Request interface {
	isRequest()
}

type (
	// Delete is never executed as-is. It is handed to the confirmation gate.
	Delete struct{ Paths []string }

	CreateDirectory struct {
		Parent string
		Name   string
	}

	Rename struct {
		From string
		To   string
	}

	Properties struct{ Paths []string }
)

func (Delete) isRequest()          {}
func (CreateDirectory) isRequest() {}
func (Rename) isRequest()          {}
func (Properties) isRequest()      {}

// FileOps performs filesystem mutations.
type FileOps interface {
	CreateDirectory(path string) error
	DeletePath(path string) error
	RenamePath(from, to string) error
}

// Refresher re-enumerates the displayed directory.
type Refresher interface {
	Refresh()
}

// Presenter shows item properties.
type Presenter interface {
	ShowProperties(paths []string)
}

// Interceptor takes unconfirmed deletes.
type Interceptor interface {
	Intercept(paths []string) bool
}

// Confirmed yields operand sets the user has confirmed for deletion.
type Confirmed interface {
	Take() ([]string, bool)
}

// Pipeline drains operation requests once per tick.
type Pipeline struct {
	requests    *bus.Queue[Request]
	files       FileOps
	refresher   Refresher
	presenter   Presenter
	interceptor Interceptor
	confirmed   Confirmed
	status      bus.Sender[bus.Status]
}

// Deps are the collaborators of a Pipeline.
type Deps struct {
	Files       FileOps
	Refresher   Refresher
	Presenter   Presenter
	Interceptor Interceptor
	Confirmed   Confirmed
	Status      bus.Sender[bus.Status]
}

func New(d Deps) *Pipeline {
	return &Pipeline{
		requests:    bus.NewQueue[Request](),
		files:       d.Files,
		refresher:   d.Refresher,
		presenter:   d.Presenter,
		interceptor: d.Interceptor,
		confirmed:   d.Confirmed,
		status:      d.Status,
	}
}

// Requests is the producer side of the request queue.
func (p *Pipeline) Requests() bus.Sender[Request] { return p.requests }

// Tick handles every queued request, then a confirmed delete if one is waiting.
// It returns how many requests were handled.
func (p *Pipeline) Tick() int {
	n := 0
	for _, req := range p.requests.Drain() {
		p.handle(req)
		n++
	}
	if paths, ok := p.confirmed.Take(); ok {
		p.deleteAll(paths)
		n++
	}
	return n
}

func (p *Pipeline) handle(req Request) {
	switch r := req.(type) {
	case CreateDirectory:
		path := filepath.Join(r.Parent, r.Name)
		if err := p.files.CreateDirectory(path); err != nil {
			p.fail(err)
			return
		}
		debug.Info(debug.OPS, "created directory %s", path)
		p.refresher.Refresh()
		p.report(bus.Info(fmt.Sprintf("Created directory '%s'", r.Name)))

	case Rename:
		if err := p.files.RenamePath(r.From, r.To); err != nil {
			p.fail(err)
			return
		}
		debug.Info(debug.OPS, "renamed %s to %s", r.From, r.To)
		p.refresher.Refresh()
		p.report(bus.Info("Renamed successfully"))

	case Delete:
		if !p.interceptor.Intercept(r.Paths) {
			debug.Log(debug.OPS, "unconfirmed delete of %d item(s) dropped", len(r.Paths))
		}

	case Properties:
		debug.Log(debug.OPS, "properties for %d item(s)", len(r.Paths))
		if len(r.Paths) == 0 {
			return
		}
		p.presenter.ShowProperties(r.Paths)
		p.report(bus.Info(fmt.Sprintf("Properties for %d item(s)", len(r.Paths))))

	default:
		debug.Log(debug.OPS, "unknown request %T", req)
	}
}

// deleteAll removes paths in order and stops at the first failure.
func (p *Pipeline) deleteAll(paths []string) {
	deleted := 0
	var firstErr error
	for _, path := range paths {
		if err := p.files.DeletePath(path); err != nil {
			firstErr = err
			break
		}
		deleted++
	}

	if firstErr != nil {
		debug.Error(debug.OPS, firstErr, "delete stopped after %d of %d item(s)", deleted, len(paths))
		p.report(bus.Failure("Error: " + firstErr.Error()))
	} else {
		debug.Info(debug.OPS, "deleted %d item(s)", deleted)
		p.report(bus.Info(fmt.Sprintf("Deleted %d item(s)", deleted)))
	}
	p.refresher.Refresh()
}

func (p *Pipeline) fail(err error) {
	debug.Error(debug.OPS, err, "operation failed")
	p.report(bus.Failure("Error: " + err.Error()))
}

func (p *Pipeline) report(s bus.Status) {
	if p.status != nil {
		p.status.Send(s)
	}
}
