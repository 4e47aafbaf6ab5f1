// Package reconcile keeps a display component's own path copy in agreement with
// the navigation history.
//
// Each tick runs write-down (history to component), the component's own update,
// then write-up (component to history) for navigation that originated inside the
// component. A write-down in the same tick wins over a competing internal change.
// When a structural change is observed the displayed directory is checked for
// existence and, if it vanished, the view moves to the nearest surviving ancestor.
package reconcile

import (
	"github.com/justyntemme/fileman/internal/debug"
	"github.com/justyntemme/fileman/internal/fs"
)

// Display is a component holding its own path view.
type Display interface {
	Path() string
	SetPath(path string)
	// Update runs the component's own step and reports a structural change.
	Update() bool
}

// Navigator is the part of the history the reconciler drives.
type Navigator interface {
	Current() string
	NavigateTo(path string) bool
}

// Reconciler synchronizes one Display with the history.
type Reconciler struct {
	name          string
	history       Navigator
	display       Display
	exists        func(string) bool
	lastSeen      string
	checkRequired bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithExists replaces the existence check used for vanished-directory recovery.
func WithExists(fn func(string) bool) Option {
	return func(r *Reconciler) { r.exists = fn }
}

// WithName labels log lines.
func WithName(name string) Option {
	return func(r *Reconciler) { r.name = name }
}

func New(history Navigator, display Display, opts ...Option) *Reconciler {
	r := &Reconciler{
		name:          "display",
		history:       history,
		display:       display,
		exists:        fs.Exists,
		checkRequired: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MarkCheck requests a vanished-directory check on the next tick.
func (r *Reconciler) MarkCheck() {
	r.checkRequired = true
}

// LastSeen is the display path recorded at the end of the previous tick.
func (r *Reconciler) LastSeen() string {
	return r.lastSeen
}

// Tick runs one reconciliation step.
func (r *Reconciler) Tick() {
	canonical := r.history.Current()

	wroteDown := false
	if r.display.Path() != canonical {
		debug.Log(debug.SYNC, "%s: write-down %q -> %q", r.name, r.display.Path(), canonical)
		r.display.SetPath(canonical)
		r.checkRequired = true
		wroteDown = true
	}

	before := r.display.Path()
	if r.display.Update() {
		r.checkRequired = true
	}
	after := r.display.Path()

	if after != before {
		if wroteDown {
			debug.Log(debug.SYNC, "%s: dropping stale internal change to %q", r.name, after)
			r.display.SetPath(canonical)
		} else {
			debug.Log(debug.SYNC, "%s: write-up %q", r.name, after)
			r.history.NavigateTo(after)
		}
		r.checkRequired = true
	}

	if r.checkRequired {
		r.recoverVanished()
	}

	r.checkRequired = false
	r.lastSeen = r.display.Path()
}

func (r *Reconciler) recoverVanished() {
	shown := r.display.Path()
	if shown == "" || r.exists(shown) {
		return
	}
	target := fs.NearestExisting(shown, r.exists)
	if target == shown {
		return
	}
	debug.Log(debug.SYNC, "%s: %q vanished, moving to %q", r.name, shown, target)
	r.history.NavigateTo(target)
	r.display.SetPath(r.history.Current())
}
