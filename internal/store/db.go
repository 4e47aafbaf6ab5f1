// Package store persists a few session settings in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	_ "modernc.org/sqlite" // pure Go driver

	"github.com/justyntemme/fileman/internal/bus"
	"github.com/justyntemme/fileman/internal/debug"
)

// Setting keys.
const (
	KeyLastPath   = "last_path"
	KeyShowHidden = "show_hidden"
)

type EventType int

const (
	FetchSettings EventType = iota
	SaveSetting
)

type Request struct {
	Op    EventType
	Key   string
	Value string
}

type Response struct {
	Op       EventType
	Settings map[string]string
	Err      error
}

// DB owns the connection. Writes go through RequestChan to a worker; replies are
// collected with Drain.
type DB struct {
	conn        *sql.DB
	RequestChan chan Request
	responses   *bus.Queue[Response]
	done        chan struct{}
	closeOnce   sync.Once
	worker      sync.WaitGroup
}

func NewDB() *DB {
	return &DB{
		RequestChan: make(chan Request, 16),
		responses:   bus.NewQueue[Response](),
		done:        make(chan struct{}),
	}
}

// DefaultPath is the database location under the XDG state directory.
func DefaultPath(stateHome string) string {
	return filepath.Join(stateHome, "fileman", "fileman.db")
}

// Open creates the database file and schema if needed.
func (d *DB) Open(dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	// One writer; readers run on the same connection.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("init store: %w", err)
		}
	}

	d.conn = db
	debug.Log(debug.STORE, "opened %s", dbPath)
	return nil
}

// Start launches the worker goroutine. It serves requests until Close.
func (d *DB) Start() {
	d.worker.Add(1)
	go d.serve()
}

func (d *DB) serve() {
	defer d.worker.Done()
	for {
		select {
		case <-d.done:
			return
		case req := <-d.RequestChan:
			switch req.Op {
			case FetchSettings:
				d.handleFetchSettings()
			case SaveSetting:
				d.handleSaveSetting(req.Key, req.Value)
			}
		}
	}
}

// Save queues an asynchronous write. It never blocks.
func (d *DB) Save(key, value string) {
	req := Request{Op: SaveSetting, Key: key, Value: value}
	select {
	case d.RequestChan <- req:
	case <-d.done:
	default:
		go func() {
			select {
			case d.RequestChan <- req:
			case <-d.done:
			}
		}()
	}
}

// Drain returns worker replies received since the last call.
func (d *DB) Drain() []Response {
	return d.responses.Drain()
}

// Setting reads one value synchronously. It is meant for startup, before the
// worker runs.
func (d *DB) Setting(key string) (string, bool, error) {
	if d.conn == nil {
		return "", false, errors.New("store is not open")
	}
	var value string
	err := d.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Bool reads a boolean setting, returning fallback when unset or malformed.
func (d *DB) Bool(key string, fallback bool) bool {
	v, ok, err := d.Setting(key)
	if err != nil || !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func (d *DB) loadSettings() (map[string]string, error) {
	rows, err := d.conn.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err == nil {
			settings[key] = value
		}
	}
	return settings, rows.Err()
}

func (d *DB) handleFetchSettings() {
	settings, err := d.loadSettings()
	d.responses.Send(Response{Op: FetchSettings, Settings: settings, Err: err})
}

func (d *DB) handleSaveSetting(key, value string) {
	_, err := d.conn.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		debug.Error(debug.STORE, err, "saving setting %s", key)
	}
	d.responses.Send(Response{Op: SaveSetting, Settings: map[string]string{key: value}, Err: err})
}

// Close stops the worker and closes the connection.
func (d *DB) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
		d.worker.Wait()
		d.responses.Close()
		if d.conn != nil {
			d.conn.Close()
		}
	})
}
