package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/fileman/internal/nav"
)

// fakeDisplay records writes and can schedule an internal navigation for its next
// Update.
type fakeDisplay struct {
	path       string
	setCalls   int
	nextPath   string
	structural bool
}

func (d *fakeDisplay) Path() string { return d.path }

func (d *fakeDisplay) SetPath(p string) {
	d.path = p
	d.setCalls++
}

func (d *fakeDisplay) Update() bool {
	if d.nextPath != "" {
		d.path = d.nextPath
		d.nextPath = ""
	}
	s := d.structural
	d.structural = false
	return s
}

func always(string) bool { return true }

func TestWriteDown(t *testing.T) {
	h := nav.New("/a")
	d := &fakeDisplay{path: "/a"}
	r := New(h, d, WithExists(always))

	h.NavigateTo("/b")
	r.Tick()
	assert.Equal(t, "/b", d.path)
	assert.Equal(t, "/b", r.LastSeen())
}

func TestWriteUpInternalNavigation(t *testing.T) {
	h := nav.New("/a")
	d := &fakeDisplay{path: "/a"}
	r := New(h, d, WithExists(always))
	r.Tick()

	d.nextPath = "/a/child"
	r.Tick()

	assert.Equal(t, "/a/child", h.Current())
	assert.True(t, h.CanGoBack())
}

func TestWriteDownWinsOverInternalChangeInSameTick(t *testing.T) {
	h := nav.New("/a")
	d := &fakeDisplay{path: "/a"}
	r := New(h, d, WithExists(always))
	r.Tick()

	h.NavigateTo("/b")
	d.nextPath = "/a/child"
	r.Tick()

	assert.Equal(t, "/b", h.Current(), "history must not record the stale internal change")
	assert.Equal(t, "/b", d.path)
	stack, _ := h.Snapshot()
	assert.Equal(t, []string{"/a", "/b"}, stack)
}

func TestConvergesUnderConcurrentBack(t *testing.T) {
	h := nav.New("/a")
	h.NavigateTo("/b")
	d := &fakeDisplay{path: "/b"}
	r := New(h, d, WithExists(always))
	r.Tick()

	h.GoBack()
	d.nextPath = "/b/inner"
	r.Tick()
	r.Tick()

	assert.Equal(t, h.Current(), d.path)
	setCalls := d.setCalls
	r.Tick()
	assert.Equal(t, setCalls, d.setCalls, "a settled pair must not keep writing")
}

func TestVanishedDirectoryRecovers(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "x", "y")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	h := nav.New(deep)
	d := &fakeDisplay{path: deep}
	r := New(h, d)
	r.Tick()

	require.NoError(t, os.RemoveAll(filepath.Join(root, "x")))
	d.structural = true
	r.Tick()

	assert.Equal(t, root, h.Current())
	assert.Equal(t, root, d.path)
}

func TestVanishCheckIsGated(t *testing.T) {
	h := nav.New("/gone")
	d := &fakeDisplay{path: "/gone"}
	calls := 0
	exists := func(p string) bool {
		calls++
		return p == "/"
	}
	r := New(h, d, WithExists(exists))
	r.Tick()
	require.Equal(t, "/", h.Current(), "the first tick always checks")

	calls = 0
	r.Tick()
	assert.Zero(t, calls, "no structural change means no existence check")

	r.MarkCheck()
	r.Tick()
	assert.NotZero(t, calls)
}

func TestRecoveryStopsAtRoot(t *testing.T) {
	h := nav.New("/nothing/here")
	d := &fakeDisplay{path: "/nothing/here"}
	r := New(h, d, WithExists(func(string) bool { return false }))
	r.Tick()
	assert.Equal(t, "/", h.Current())
}
