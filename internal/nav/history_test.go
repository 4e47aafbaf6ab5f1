package nav

import (
	"io"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/justyntemme/fileman/internal/debug"
)

func TestNavigateTruncatesForwardHistory(t *testing.T) {
	h := New("/home/user")
	h.NavigateTo("/home/user/docs")
	h.NavigateTo("/home/user/docs/a")

	if p, ok := h.GoBack(); !ok || p != "/home/user/docs" {
		t.Fatalf("GoBack: got %q, %v", p, ok)
	}
	h.NavigateTo("/home/user/pics")

	if h.CanGoForward() {
		t.Error("forward history should be discarded after navigating")
	}
	stack, pos := h.Snapshot()
	want := []string{"/home/user", "/home/user/docs", "/home/user/pics"}
	if len(stack) != len(want) {
		t.Fatalf("stack: got %v, want %v", stack, want)
	}
	for i := range want {
		if stack[i] != want[i] {
			t.Errorf("stack[%d]: got %q, want %q", i, stack[i], want[i])
		}
	}
	if pos != 2 {
		t.Errorf("position: got %d, want 2", pos)
	}
}

func TestNavigateToCurrentIsNoop(t *testing.T) {
	h := New("/tmp")
	v := h.Signal().Version()

	if h.NavigateTo("/tmp/") {
		t.Error("navigating to the current path should report no change")
	}
	if h.Signal().Version() != v {
		t.Error("no-op navigation must not write the signal")
	}
	if stack, _ := h.Snapshot(); len(stack) != 1 {
		t.Errorf("stack grew on no-op: %v", stack)
	}
}

func TestBackForwardBounds(t *testing.T) {
	h := New("/a")
	for i := 0; i < 3; i++ {
		if _, ok := h.GoBack(); ok {
			t.Fatal("GoBack at start should be unavailable")
		}
		if _, ok := h.GoForward(); ok {
			t.Fatal("GoForward at end should be unavailable")
		}
	}
	if h.Current() != "/a" {
		t.Errorf("Current: got %q", h.Current())
	}

	h.NavigateTo("/b")
	back, _ := h.GoBack()
	fwd, ok := h.GoForward()
	if back != "/a" || !ok || fwd != "/b" {
		t.Errorf("back/forward round trip: got %q then %q (%v)", back, fwd, ok)
	}
}

func TestStepWritesSignal(t *testing.T) {
	h := New("/a")
	h.NavigateTo("/b")
	v := h.Signal().Version()
	h.GoBack()
	if h.Signal().Version() == v {
		t.Error("GoBack should write the canonical signal")
	}
	if h.Signal().Get() != "/a" {
		t.Errorf("signal: got %q", h.Signal().Get())
	}
}

func TestParentPath(t *testing.T) {
	testCases := []struct {
		path   string
		parent string
		ok     bool
	}{
		{"/home/user", "/home", true},
		{"/home", "/", true},
		{"/", "", false},
	}
	for _, tc := range testCases {
		h := New(tc.path)
		p, ok := h.ParentPath()
		if p != tc.parent || ok != tc.ok {
			t.Errorf("ParentPath(%q): got %q, %v; want %q, %v", tc.path, p, ok, tc.parent, tc.ok)
		}
	}
}

func TestNormalizeKeepsUnicodeForm(t *testing.T) {
	decomposed := "/tmp/cafe\u0301"
	composed := "/tmp/caf\u00e9"
	h := New(composed)
	if !h.NavigateTo(decomposed + "/") {
		t.Fatal("NFD and NFC spellings name different directories")
	}
	if got := h.Current(); got != decomposed {
		t.Errorf("Current() = %q, want %q", got, decomposed)
	}
	if got, _ := h.GoBack(); got != composed {
		t.Errorf("GoBack() = %q, want %q", got, composed)
	}
}

func TestWithLimitEvictsOldest(t *testing.T) {
	h := New("/0", WithLimit(3))
	for _, p := range []string{"/1", "/2", "/3", "/4"} {
		h.NavigateTo(p)
	}
	stack, pos := h.Snapshot()
	if len(stack) != 3 || stack[0] != "/2" || pos != 2 {
		t.Errorf("got stack %v pos %d", stack, pos)
	}
	h.GoBack()
	h.GoBack()
	if h.CanGoBack() {
		t.Error("evicted entries must not be reachable")
	}
}

func TestRandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	paths := []string{"/", "/a", "/a/b", "/c", "/c/d/e"}

	for run := 0; run < 50; run++ {
		h := New("/", WithLimit(rng.Intn(6)))
		for step := 0; step < 200; step++ {
			switch rng.Intn(4) {
			case 0, 1:
				h.NavigateTo(paths[rng.Intn(len(paths))])
			case 2:
				h.GoBack()
			case 3:
				h.GoForward()
			}

			stack, pos := h.Snapshot()
			if len(stack) == 0 {
				t.Fatal("stack became empty")
			}
			if pos < 0 || pos >= len(stack) {
				t.Fatalf("position %d out of bounds for %d entries", pos, len(stack))
			}
			for i := 1; i < len(stack); i++ {
				if stack[i] == stack[i-1] {
					t.Fatalf("adjacent duplicate %q in %v", stack[i], stack)
				}
			}
			if h.Signal().Get() != stack[pos] {
				t.Fatalf("signal %q disagrees with current %q", h.Signal().Get(), stack[pos])
			}
		}
	}
}

func TestControllerApply(t *testing.T) {
	home := filepath.Join("/home", "someone")
	h := New("/tmp/x/y")
	c := NewController(h, home)

	if !c.Apply(Up{}) || h.Current() != "/tmp/x" {
		t.Errorf("Up: got %q", h.Current())
	}
	if !c.Apply(Home{}) || h.Current() != home {
		t.Errorf("Home: got %q", h.Current())
	}
	if c.Apply(Home{}) {
		t.Error("Home again should be a no-op")
	}
	if !c.Apply(Back{}) || h.Current() != "/tmp/x" {
		t.Errorf("Back: got %q", h.Current())
	}
	if !c.Apply(Forward{}) || h.Current() != home {
		t.Errorf("Forward: got %q", h.Current())
	}
	if !c.Apply(NavigateTo{Path: "/var"}) || h.Current() != "/var" {
		t.Errorf("NavigateTo: got %q", h.Current())
	}

	root := New("/")
	if NewController(root, home).Apply(Up{}) {
		t.Error("Up at root should be unavailable")
	}
}

func TestExpandPath(t *testing.T) {
	testCases := []struct {
		input, want string
	}{
		{"", "/cur/dir"},
		{"  ", "/cur/dir"},
		{"~", "/home/me"},
		{"~/music", "/home/me/music"},
		{"..", "/cur"},
		{"./sub/../other", "/cur/dir/other"},
		{"/etc//x/", "/etc/x"},
		{"/", "/"},
	}
	for _, tc := range testCases {
		if got := ExpandPath(tc.input, "/cur/dir", "/home/me"); got != tc.want {
			t.Errorf("ExpandPath(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestResolveHomePrefersConfigured(t *testing.T) {
	if got := ResolveHome("/srv/home"); got != "/srv/home" {
		t.Errorf("got %q", got)
	}
	if got := ResolveHome(""); got == "" {
		t.Error("ResolveHome should never be empty")
	}
}

// lockSink is a log sink that records whether the history lock was free while a
// line was written.
type lockSink struct {
	h      *History
	lines  int
	locked int
}

func (w *lockSink) Write(p []byte) (int, error) {
	w.lines++
	if w.h.mu.TryLock() {
		w.h.mu.Unlock()
	} else {
		w.locked++
	}
	return len(p), nil
}

func TestLogsOutsideLock(t *testing.T) {
	h := New("/a")
	sink := &lockSink{h: h}
	debug.SetLogger(zerolog.New(sink).Level(zerolog.DebugLevel))
	debug.Enable(debug.NAV)
	t.Cleanup(func() { debug.SetLogger(zerolog.New(io.Discard)) })

	h.NavigateTo("/b")
	h.GoBack()
	h.GoForward()

	if sink.lines != 3 {
		t.Fatalf("got %d log lines, want 3", sink.lines)
	}
	if sink.locked != 0 {
		t.Errorf("%d log lines written while the history lock was held", sink.locked)
	}
}
