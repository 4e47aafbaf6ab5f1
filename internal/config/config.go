package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/justyntemme/fileman/internal/debug"
)

const (
	appName        = "fileman"
	configFileName = "config.toml"
	localFileName  = "fileman.toml"
)

// Config holds every user setting read from config.toml.
type Config struct {
	UI        UIConfig       `koanf:"ui"`
	Behavior  BehaviorConfig `koanf:"behavior"`
	History   HistoryConfig  `koanf:"history"`
	Status    StatusConfig   `koanf:"status"`
	Tick      TickConfig     `koanf:"tick"`
	Watch     WatchConfig    `koanf:"watch"`
	Store     StoreConfig    `koanf:"store"`
	Log       LogConfig      `koanf:"log"`
	Favorites []Favorite     `koanf:"favorites"`
	Keys      KeysConfig     `koanf:"keys"`
}

type UIConfig struct {
	ShowHidden  bool `koanf:"show_hidden"`
	ShowPlaces  bool `koanf:"show_places"`
	ShowDevices bool `koanf:"show_devices"`
}

type BehaviorConfig struct {
	UseTrash        bool   `koanf:"use_trash"`
	RestoreLastPath bool   `koanf:"restore_last_path"`
	Home            string `koanf:"home"` // empty means the user's home directory
}

type HistoryConfig struct {
	Limit int `koanf:"limit"` // 0 keeps every entry
}

type StatusConfig struct {
	TimeoutMs int `koanf:"timeout_ms"`
}

type TickConfig struct {
	IntervalMs int `koanf:"interval_ms"`
}

type WatchConfig struct {
	Enabled    bool `koanf:"enabled"`
	DebounceMs int  `koanf:"debounce_ms"`
}

type StoreConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"` // empty means the XDG state directory
}

type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"` // empty means the XDG state directory; "-" discards
}

// Favorite is a sidebar shortcut. Favorites come only from the config file.
type Favorite struct {
	Name string `koanf:"name"`
	Path string `koanf:"path"`
}

// StatusTimeout is the status message display window.
func (c Config) StatusTimeout() time.Duration {
	if c.Status.TimeoutMs <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.Status.TimeoutMs) * time.Millisecond
}

// TickInterval is the cooperative loop period.
func (c Config) TickInterval() time.Duration {
	if c.Tick.IntervalMs <= 0 {
		return 50 * time.Millisecond
	}
	return time.Duration(c.Tick.IntervalMs) * time.Millisecond
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			ShowHidden:  false,
			ShowPlaces:  true,
			ShowDevices: true,
		},
		Behavior: BehaviorConfig{
			UseTrash:        true,
			RestoreLastPath: false,
		},
		Status: StatusConfig{TimeoutMs: 3000},
		Tick:   TickConfig{IntervalMs: 50},
		Watch:  WatchConfig{Enabled: true, DebounceMs: 200},
		Store:  StoreConfig{Enabled: true},
		Log:    LogConfig{Level: "info"},
		Keys:   DefaultKeys(),
	}
}

// Manager loads and hands out the configuration.
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	parseErr error
}

func NewManager() *Manager {
	return &Manager{config: DefaultConfig()}
}

// ConfigPath is the per-user config file location.
func ConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, configFileName)
}

// StatePath returns name under the per-user state directory.
func StatePath(name string) string {
	return filepath.Join(xdg.StateHome, appName, name)
}

// searchPaths lists config files lowest priority first.
func searchPaths(explicit string) []string {
	paths := []string{ConfigPath(), localFileName}
	if explicit != "" {
		paths = append(paths, explicit)
	}
	return paths
}

// Load reads the user config, ./fileman.toml and explicit (if set), later files
// overriding earlier ones. A missing explicit file is an error. A file that
// fails to parse is recorded in ParseError and the defaults stay in effect.
func (m *Manager) Load(explicit string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.parseErr = nil
	m.path = ConfigPath()

	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return fmt.Errorf("config file: %w", err)
		}
		m.path = explicit
	}

	k := koanf.New(".")
	for _, path := range searchPaths(explicit) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			debug.Warn(debug.APP, "config: parse error in %s: %v", path, err)
			m.parseErr = fmt.Errorf("%s: %w", path, err)
			m.config = DefaultConfig()
			return nil
		}
		debug.Log(debug.APP, "config: loaded %s", path)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		m.parseErr = err
		m.config = DefaultConfig()
		return nil
	}
	cfg.normalize()
	m.config = cfg
	return nil
}

func (c *Config) normalize() {
	if c.History.Limit < 0 {
		c.History.Limit = 0
	}
	if c.Watch.DebounceMs <= 0 {
		c.Watch.DebounceMs = 200
	}
	c.Behavior.Home = expandHome(c.Behavior.Home)
	c.Store.Path = expandHome(c.Store.Path)
	if c.Log.File != "-" {
		c.Log.File = expandHome(c.Log.File)
	}
	favs := c.Favorites[:0]
	for _, f := range c.Favorites {
		if f.Path == "" {
			continue
		}
		f.Path = expandHome(f.Path)
		if f.Name == "" {
			f.Name = filepath.Base(f.Path)
		}
		favs = append(favs, f)
	}
	c.Favorites = favs
}

func expandHome(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg := *m.config
	cfg.Favorites = append([]Favorite(nil), m.config.Favorites...)
	return cfg
}

// ParseError returns the error from the last Load, if the file was malformed.
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

// Path is the config file Load treated as primary.
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.path == "" {
		return ConfigPath()
	}
	return m.path
}

// GenerateConfig writes the default config to path, backing up an existing file
// first. It returns the backup path, or "" when there was nothing to back up.
func GenerateConfig(path string) (backupPath string, err error) {
	if path == "" {
		path = ConfigPath()
	}

	if data, err := os.ReadFile(path); err == nil {
		backupPath = fmt.Sprintf("%s.backup.%s", path, time.Now().Format("20060102-150405"))
		if err := os.WriteFile(backupPath, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write backup: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read existing config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return backupPath, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Parser().Marshal(DefaultConfig().toMap())
	if err != nil {
		return backupPath, fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return backupPath, fmt.Errorf("failed to write config: %w", err)
	}
	return backupPath, nil
}

// toMap mirrors the koanf tags so the toml parser can marshal the config.
func (c *Config) toMap() map[string]interface{} {
	m := map[string]interface{}{
		"ui": map[string]interface{}{
			"show_hidden":  c.UI.ShowHidden,
			"show_places":  c.UI.ShowPlaces,
			"show_devices": c.UI.ShowDevices,
		},
		"behavior": map[string]interface{}{
			"use_trash":         c.Behavior.UseTrash,
			"restore_last_path": c.Behavior.RestoreLastPath,
			"home":              c.Behavior.Home,
		},
		"history": map[string]interface{}{"limit": int64(c.History.Limit)},
		"status":  map[string]interface{}{"timeout_ms": int64(c.Status.TimeoutMs)},
		"tick":    map[string]interface{}{"interval_ms": int64(c.Tick.IntervalMs)},
		"watch": map[string]interface{}{
			"enabled":     c.Watch.Enabled,
			"debounce_ms": int64(c.Watch.DebounceMs),
		},
		"store": map[string]interface{}{
			"enabled": c.Store.Enabled,
			"path":    c.Store.Path,
		},
		"log": map[string]interface{}{
			"level": c.Log.Level,
			"file":  c.Log.File,
		},
		"keys": c.Keys.toMap(),
	}
	if len(c.Favorites) > 0 {
		favs := make([]map[string]interface{}, 0, len(c.Favorites))
		for _, f := range c.Favorites {
			favs = append(favs, map[string]interface{}{"name": f.Name, "path": f.Path})
		}
		m["favorites"] = favs
	}
	return m
}
