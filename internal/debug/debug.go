// Package debug provides a centralized, categorized logging system on top of zerolog.
//
// Debug output is filtered per category. Info, warning and error output is
// never filtered by category, only by level.
package debug

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Category represents a debug logging category
type Category string

const (
	APP   Category = "APP"   // Application wiring, tick loop
	NAV   Category = "NAV"   // Navigation history mutations
	SYNC  Category = "SYNC"  // Path reconciliation between components
	GATE  Category = "GATE"  // Delete confirmation handshake
	OPS   Category = "OPS"   // Operation pipeline
	FS    Category = "FS"    // Directory enumeration, filesystem operations
	STORE Category = "STORE" // Settings database
	WATCH Category = "WATCH" // Directory change notifications
	UI    Category = "UI"    // Terminal front-end events
)

var (
	enabledCategories = map[Category]bool{
		APP:   true,
		NAV:   true,
		SYNC:  true,
		GATE:  true,
		OPS:   true,
		FS:    true,
		STORE: true,
		WATCH: true,
		UI:    false,
	}
	categoryMu sync.RWMutex

	loggerMu sync.RWMutex
	logger   = zerolog.New(io.Discard)
)

func init() {
	// FILEMAN_DEBUG=all, FILEMAN_DEBUG=none or FILEMAN_DEBUG=NAV,SYNC
	if env := os.Getenv("FILEMAN_DEBUG"); env != "" {
		ParseCategories(env)
	}
}

// Setup replaces the process logger. Output goes through a console writer with the
// same time format the CLI uses.
func Setup(w io.Writer, level zerolog.Level) {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000", NoColor: true}
	l := zerolog.New(out).Level(level).With().Timestamp().Logger()

	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

// SetLogger installs an already configured logger, mostly for tests.
func SetLogger(l zerolog.Logger) {
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

// Logger returns the process logger.
func Logger() *zerolog.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	return &l
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Log logs a debug message for the specified category
func Log(cat Category, format string, args ...interface{}) {
	if !IsEnabled(cat) {
		return
	}
	Logger().Debug().Str("cat", string(cat)).Msg(fmt.Sprintf(format, args...))
}

// Info logs an informational message tagged with a category.
func Info(cat Category, format string, args ...interface{}) {
	Logger().Info().Str("cat", string(cat)).Msg(fmt.Sprintf(format, args...))
}

// Warn logs a warning tagged with a category.
func Warn(cat Category, format string, args ...interface{}) {
	Logger().Warn().Str("cat", string(cat)).Msg(fmt.Sprintf(format, args...))
}

// Error logs an error tagged with a category.
func Error(cat Category, err error, format string, args ...interface{}) {
	Logger().Error().Err(err).Str("cat", string(cat)).Msg(fmt.Sprintf(format, args...))
}

// ParseCategories applies a category list: "all", "none" or a comma separated list.
func ParseCategories(list string) {
	categoryMu.Lock()
	defer categoryMu.Unlock()

	list = strings.ToUpper(strings.TrimSpace(list))
	switch list {
	case "ALL":
		for cat := range enabledCategories {
			enabledCategories[cat] = true
		}
	case "NONE":
		for cat := range enabledCategories {
			enabledCategories[cat] = false
		}
	default:
		for cat := range enabledCategories {
			enabledCategories[cat] = false
		}
		for _, cat := range strings.Split(list, ",") {
			cat = strings.TrimSpace(cat)
			if cat != "" {
				enabledCategories[Category(cat)] = true
			}
		}
	}
}

// Enable enables a debug category
func Enable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = true
	categoryMu.Unlock()
}

// Disable disables a debug category
func Disable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = false
	categoryMu.Unlock()
}

// IsEnabled returns whether a category is enabled
func IsEnabled(cat Category) bool {
	categoryMu.RLock()
	defer categoryMu.RUnlock()
	return enabledCategories[cat]
}
