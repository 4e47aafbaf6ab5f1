// Package fs lists directories and performs the file operations the pipeline
// asks for.
package fs

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/justyntemme/fileman/internal/bus"
	"github.com/justyntemme/fileman/internal/debug"
)

type Entry struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

type Request struct {
	Path string
	Gen  int64 // generation of the view that asked
}

type Response struct {
	Path    string
	Entries []Entry
	Err     error
	Gen     int64 // copied from the request
}

// Lister is what a file view needs to enumerate directories.
type Lister interface {
	Fetch(path string, gen int64)
	Drain() []Response
}

// System enumerates directories. The async form lists on a worker goroutine; the
// inline form lists inside Fetch. Both deliver through Drain.
type System struct {
	requests  chan Request
	responses *bus.Queue[Response]
	inline    bool
	closeOnce sync.Once
	done      chan struct{}
}

// NewSystem creates an async system. Call Start to run the worker.
func NewSystem() *System {
	return &System{
		requests:  make(chan Request, 16),
		responses: bus.NewQueue[Response](),
		done:      make(chan struct{}),
	}
}

// NewInlineSystem creates a system that lists synchronously.
func NewInlineSystem() *System {
	return &System{
		responses: bus.NewQueue[Response](),
		inline:    true,
		done:      make(chan struct{}),
	}
}

// Fetch asks for the entries of path. The async form never blocks: when the
// request buffer is full the hand-off moves to a goroutine.
func (s *System) Fetch(path string, gen int64) {
	req := Request{Path: path, Gen: gen}
	if s.inline {
		s.serve(req)
		return
	}
	select {
	case s.requests <- req:
	case <-s.done:
	default:
		go func() {
			select {
			case s.requests <- req:
			case <-s.done:
			}
		}()
	}
}

// Drain returns every listing completed since the last call.
func (s *System) Drain() []Response {
	return s.responses.Drain()
}

// Start runs the worker until Close. It is a no-op for the inline form.
func (s *System) Start() {
	if s.inline {
		return
	}
	for {
		select {
		case <-s.done:
			return
		case req := <-s.requests:
			s.serve(req)
		}
	}
}

// Close stops the worker.
func (s *System) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.responses.Close()
	})
}

func (s *System) serve(req Request) {
	debug.Log(debug.FS, "Request: path=%q gen=%d", req.Path, req.Gen)
	resp := ListDir(req.Path)
	resp.Gen = req.Gen
	debug.Log(debug.FS, "FetchDir response: path=%q entries=%d gen=%d err=%v",
		resp.Path, len(resp.Entries), resp.Gen, resp.Err)
	s.responses.Send(resp)
}

// ListDir reads the direct children of path. Symlinks are followed; an entry
// whose target is unreachable is reported with its own lstat info.
func ListDir(path string) Response {
	var result []Entry
	var mu sync.Mutex

	conf := &fastwalk.Config{Follow: true}
	pathLen := len(path)

	err := fastwalk.Walk(conf, path, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			debug.Log(debug.FS, "listDir: walk error at %q: %v", fullPath, err)
			return nil
		}
		if fullPath == path {
			return nil
		}

		relStart := pathLen
		if relStart < len(fullPath) && (fullPath[relStart] == '/' || fullPath[relStart] == '\\') {
			relStart++
		}
		if strings.ContainsAny(fullPath[relStart:], "/\\") {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			info, err = os.Lstat(fullPath)
			if err != nil {
				debug.Log(debug.FS, "listDir: skipping %q: %v", d.Name(), err)
				return nil
			}
		}

		mu.Lock()
		result = append(result, Entry{
			Name:    d.Name(),
			Path:    fullPath,
			IsDir:   info.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		mu.Unlock()

		if d.IsDir() {
			return fastwalk.SkipDir
		}
		return nil
	})
	if err != nil {
		return Response{Path: path, Err: err}
	}
	return Response{Path: path, Entries: result}
}

// Exists reports whether path can be stat'ed.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Parent returns the directory containing path, or false at a filesystem root.
func Parent(path string) (string, bool) {
	parent := filepath.Dir(path)
	if parent == path {
		return "", false
	}
	return parent, true
}

// NearestExisting walks up from path until exists reports true or the root is
// reached.
func NearestExisting(path string, exists func(string) bool) string {
	for !exists(path) {
		parent, ok := Parent(path)
		if !ok {
			return path
		}
		path = parent
	}
	return path
}
