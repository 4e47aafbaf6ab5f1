// Package widgets holds the tick-driven shell components. Components talk to each
// other only through bus queues and signal cells.
//
// User interaction is queued and applied inside Update so that a navigation the
// user starts inside a component is visible to its reconciler as an internal
// change.
package widgets

import (
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/justyntemme/fileman/internal/bus"
	"github.com/justyntemme/fileman/internal/debug"
	"github.com/justyntemme/fileman/internal/fs"
	"github.com/justyntemme/fileman/internal/signal"
)

type SortColumn int

const (
	SortByName SortColumn = iota
	SortByDate
	SortBySize
	SortByType
)

type viewEvent struct {
	kind   viewEventKind
	path   string
	paths  []string
	delta  int
	column SortColumn
	asc    bool
}

type viewEventKind int

const (
	evOpen viewEventKind = iota
	evActivate
	evSelect
	evToggleSelect
	evSelectAll
	evCursor
	evToggleHidden
	evSort
	evRefresh
)

// FileView enumerates a directory and owns the selection.
type FileView struct {
	path      *signal.Cell[string]
	selection *signal.Cell[[]string]

	lister  fs.Lister
	gen     int64
	loading bool
	raw     []fs.Entry
	entries []fs.Entry
	loadErr error
	cursor  int

	showHidden bool
	sortColumn SortColumn
	sortAsc    bool

	events    *bus.Queue[viewEvent]
	requests  *bus.Queue[bus.SelectionRequest]
	launches  *bus.Queue[string]
	responses bus.Sender[bus.SelectionResponse]
	status    bus.Sender[bus.Status]
}

// NewFileView creates a view that lists through lister and answers selection
// requests on responses.
func NewFileView(lister fs.Lister, responses bus.Sender[bus.SelectionResponse], status bus.Sender[bus.Status], showHidden bool) *FileView {
	return &FileView{
		path:       signal.NewPathCell(""),
		selection:  signal.NewPathsCell(nil),
		lister:     lister,
		showHidden: showHidden,
		sortAsc:    true,
		events:     bus.NewQueue[viewEvent](),
		requests:   bus.NewQueue[bus.SelectionRequest](),
		launches:   bus.NewQueue[string](),
		responses:  responses,
		status:     status,
	}
}

// Path is the directory this view shows.
func (v *FileView) Path() string { return v.path.Get() }

// SetPath switches to path and starts listing it. The selection is cleared.
func (v *FileView) SetPath(path string) {
	if !v.path.Set(path) {
		return
	}
	v.reset()
	v.Refresh()
}

func (v *FileView) reset() {
	v.selection.Set(nil)
	v.cursor = 0
	v.raw, v.entries, v.loadErr = nil, nil, nil
}

// Refresh re-lists the current directory. Results of earlier listings are
// ignored once they arrive.
func (v *FileView) Refresh() {
	p := v.path.Get()
	if p == "" {
		return
	}
	v.gen++
	v.loading = true
	v.lister.Fetch(p, v.gen)
}

// SelectionRequests is where selection requests are sent.
func (v *FileView) SelectionRequests() bus.Sender[bus.SelectionRequest] { return v.requests }

// Launches holds files the user opened. Directories are entered instead.
func (v *FileView) Launches() *bus.Queue[string] { return v.launches }

// Selection is the read side of the selection.
func (v *FileView) Selection() signal.Reader[[]string] { return v.selection }

func (v *FileView) Entries() []fs.Entry { return v.entries }
func (v *FileView) Cursor() int         { return v.cursor }
func (v *FileView) Loading() bool       { return v.loading }
func (v *FileView) LoadError() error    { return v.loadErr }
func (v *FileView) ShowHidden() bool    { return v.showHidden }

// CursorEntry returns the entry under the cursor.
func (v *FileView) CursorEntry() (fs.Entry, bool) {
	if v.cursor < 0 || v.cursor >= len(v.entries) {
		return fs.Entry{}, false
	}
	return v.entries[v.cursor], true
}

// IsSelected reports whether path is in the selection.
func (v *FileView) IsSelected(path string) bool {
	return slices.Contains(v.selection.Get(), path)
}

// Interaction, applied on the next Update.

// Open enters path if it is a directory of this view, or launches it if it is a
// file.
func (v *FileView) Open(path string) { v.events.Send(viewEvent{kind: evOpen, path: path}) }

// Activate opens the entry under the cursor.
func (v *FileView) Activate() { v.events.Send(viewEvent{kind: evActivate}) }

// Select replaces the selection.
func (v *FileView) Select(paths []string) {
	v.events.Send(viewEvent{kind: evSelect, paths: slices.Clone(paths)})
}

// ToggleSelect flips path, or the cursor entry when path is empty.
func (v *FileView) ToggleSelect(path string) {
	v.events.Send(viewEvent{kind: evToggleSelect, path: path})
}

func (v *FileView) SelectAll()           { v.events.Send(viewEvent{kind: evSelectAll}) }
func (v *FileView) MoveCursor(delta int) { v.events.Send(viewEvent{kind: evCursor, delta: delta}) }
func (v *FileView) ToggleHidden()        { v.events.Send(viewEvent{kind: evToggleHidden}) }
func (v *FileView) RequestRefresh()      { v.events.Send(viewEvent{kind: evRefresh}) }

func (v *FileView) SetSort(column SortColumn, ascending bool) {
	v.events.Send(viewEvent{kind: evSort, column: column, asc: ascending})
}

// Update applies queued interaction, takes finished listings and answers
// selection requests. It reports whether the listing changed.
func (v *FileView) Update() bool {
	structural := false

	for _, ev := range v.events.Drain() {
		if v.apply(ev) {
			structural = true
		}
	}

	for _, resp := range v.lister.Drain() {
		if resp.Gen != v.gen || resp.Path != v.path.Get() {
			debug.Log(debug.FS, "dropping stale listing of %q (gen %d, want %d)", resp.Path, resp.Gen, v.gen)
			continue
		}
		v.loading = false
		v.raw, v.loadErr = resp.Entries, resp.Err
		if resp.Err != nil && fs.Exists(resp.Path) {
			// Vanished directories are recovered by the reconciler without an error.
			v.status.Send(bus.Failure("Error: " + resp.Err.Error()))
		}
		v.rebuild()
		v.pruneSelection()
		structural = true
	}

	for _, req := range v.requests.Drain() {
		v.responses.Send(bus.SelectionResponse{
			Token:   req.Token,
			Purpose: req.Purpose,
			Paths:   v.selection.Get(),
		})
	}
	return structural
}

func (v *FileView) apply(ev viewEvent) bool {
	switch ev.kind {
	case evOpen:
		return v.open(ev.path)
	case evActivate:
		if e, ok := v.CursorEntry(); ok {
			return v.open(e.Path)
		}
	case evSelect:
		v.selection.Set(v.known(ev.paths))
	case evToggleSelect:
		p := ev.path
		if p == "" {
			if e, ok := v.CursorEntry(); ok {
				p = e.Path
			}
		}
		v.toggle(p)
	case evSelectAll:
		all := make([]string, 0, len(v.entries))
		for _, e := range v.entries {
			all = append(all, e.Path)
		}
		v.selection.Set(all)
	case evCursor:
		v.cursor = clamp(v.cursor+ev.delta, 0, len(v.entries)-1)
	case evToggleHidden:
		v.showHidden = !v.showHidden
		v.rebuild()
		v.pruneSelection()
		return true
	case evSort:
		v.sortColumn, v.sortAsc = ev.column, ev.asc
		v.rebuild()
	case evRefresh:
		v.Refresh()
	}
	return false
}

func (v *FileView) open(path string) bool {
	for _, e := range v.entries {
		if e.Path != path {
			continue
		}
		if !e.IsDir {
			v.launches.Send(path)
			return false
		}
		debug.Log(debug.UI, "entering %s", path)
		v.path.Set(path)
		v.reset()
		v.Refresh()
		return true
	}
	return false
}

func (v *FileView) toggle(path string) {
	if path == "" {
		return
	}
	sel := v.selection.Get()
	if i := slices.Index(sel, path); i >= 0 {
		sel = slices.Delete(sel, i, i+1)
	} else if len(v.known([]string{path})) == 1 {
		sel = append(sel, path)
	}
	v.selection.Set(sel)
}

// known keeps the paths that are visible entries.
func (v *FileView) known(paths []string) []string {
	var out []string
	for _, p := range paths {
		if slices.ContainsFunc(v.entries, func(e fs.Entry) bool { return e.Path == p }) {
			out = append(out, p)
		}
	}
	return out
}

func (v *FileView) pruneSelection() {
	v.selection.Set(v.known(v.selection.Get()))
}

func (v *FileView) rebuild() {
	entries := make([]fs.Entry, 0, len(v.raw))
	for _, e := range v.raw {
		if !v.showHidden && strings.HasPrefix(e.Name, ".") {
			continue
		}
		entries = append(entries, e)
	}
	sortEntries(entries, v.sortColumn, v.sortAsc)
	v.entries = entries
	v.cursor = clamp(v.cursor, 0, len(entries)-1)
}

// sortEntries puts directories first, then orders by column.
func sortEntries(entries []fs.Entry, column SortColumn, asc bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		if !asc {
			a, b = b, a
		}
		return lessBy(column, a, b)
	})
}

func lessBy(column SortColumn, a, b fs.Entry) bool {
	switch column {
	case SortByDate:
		if !a.ModTime.Equal(b.ModTime) {
			return a.ModTime.Before(b.ModTime)
		}
	case SortBySize:
		if a.Size != b.Size {
			return a.Size < b.Size
		}
	case SortByType:
		extA := strings.ToLower(filepath.Ext(a.Name))
		extB := strings.ToLower(filepath.Ext(b.Name))
		if extA != extB {
			return extA < extB
		}
	}
	return nameKey(a.Name) < nameKey(b.Name)
}

// nameKey folds a name for ordering only. NFD and NFC spellings sort together;
// entries keep their on-disk bytes.
func nameKey(name string) string {
	return strings.ToLower(norm.NFC.String(name))
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
