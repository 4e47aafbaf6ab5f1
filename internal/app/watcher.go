package app

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/justyntemme/fileman/internal/bus"
	"github.com/justyntemme/fileman/internal/debug"
)

// DirectoryWatcher reports, after a debounce, which watched directories changed.
type DirectoryWatcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	watching map[string]bool
	notify   *bus.Queue[string]
	done     chan struct{}
	debounce time.Duration
	closed   sync.Once
}

func NewDirectoryWatcher(debounceMs int) (*DirectoryWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounceMs <= 0 {
		debounceMs = 200
	}

	dw := &DirectoryWatcher{
		watcher:  w,
		watching: make(map[string]bool),
		notify:   bus.NewQueue[string](),
		done:     make(chan struct{}),
		debounce: time.Duration(debounceMs) * time.Millisecond,
	}
	go dw.run()
	return dw, nil
}

func (dw *DirectoryWatcher) run() {
	lastEvent := make(map[string]time.Time)
	ticker := time.NewTicker(dw.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-dw.done:
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
				continue
			}
			// Events name the changed child; the watched directory is its parent,
			// or the path itself when a watched directory was removed.
			parent := filepath.Dir(event.Name)
			dw.mu.Lock()
			switch {
			case dw.watching[parent]:
				lastEvent[parent] = time.Now()
				debug.Log(debug.WATCH, "%s on %s (in %s)", event.Op, event.Name, parent)
			case dw.watching[event.Name]:
				lastEvent[event.Name] = time.Now()
				debug.Log(debug.WATCH, "%s on watched dir %s", event.Op, event.Name)
			}
			dw.mu.Unlock()

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			debug.Log(debug.WATCH, "fsnotify error: %v", err)

		case <-ticker.C:
			now := time.Now()
			for dir, at := range lastEvent {
				if now.Sub(at) < dw.debounce {
					continue
				}
				dw.notify.Send(dir)
				debug.Log(debug.WATCH, "change notification: %s", dir)
				delete(lastEvent, dir)
			}
		}
	}
}

// SetDirs makes dirs the exact watch set. Directories that cannot be watched
// are skipped.
func (dw *DirectoryWatcher) SetDirs(dirs ...string) {
	want := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		if d != "" {
			want[d] = true
		}
	}

	dw.mu.Lock()
	defer dw.mu.Unlock()
	for path := range dw.watching {
		if want[path] {
			continue
		}
		if err := dw.watcher.Remove(path); err != nil {
			// The directory may already be gone.
			debug.Log(debug.WATCH, "unwatch %s: %v", path, err)
		}
		delete(dw.watching, path)
	}
	for path := range want {
		if dw.watching[path] {
			continue
		}
		if err := dw.watcher.Add(path); err != nil {
			debug.Log(debug.WATCH, "watch %s: %v", path, err)
			continue
		}
		dw.watching[path] = true
		debug.Log(debug.WATCH, "watching %s", path)
	}
}

// Watched returns the current watch set.
func (dw *DirectoryWatcher) Watched() []string {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	out := make([]string, 0, len(dw.watching))
	for p := range dw.watching {
		out = append(out, p)
	}
	return out
}

// Drain returns directories that changed since the last call.
func (dw *DirectoryWatcher) Drain() []string {
	return dw.notify.Drain()
}

func (dw *DirectoryWatcher) Close() error {
	var err error
	dw.closed.Do(func() {
		close(dw.done)
		dw.notify.Close()
		err = dw.watcher.Close()
	})
	return err
}
