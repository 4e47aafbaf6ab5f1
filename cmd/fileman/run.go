package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/justyntemme/fileman/internal/app"
	"github.com/justyntemme/fileman/internal/bus"
	"github.com/justyntemme/fileman/internal/config"
	"github.com/justyntemme/fileman/internal/debug"
	"github.com/justyntemme/fileman/internal/fs"
	"github.com/justyntemme/fileman/internal/nav"
	"github.com/justyntemme/fileman/internal/store"
	"github.com/justyntemme/fileman/internal/ui/term"
)

type runOptions struct {
	configFile string
	debug      bool
	logFile    string
	path       string
}

func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return config.ConfigPath()
}

// openLog opens the log destination. The screen belongs to the UI, so logs
// never go to the terminal.
func openLog(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{io.Discard}, nil
	}
	if path == "" {
		path = config.StatePath("fileman.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func run(ctx context.Context, opts runOptions) error {
	mgr := config.NewManager()
	if err := mgr.Load(opts.configFile); err != nil {
		return err
	}
	cfg := mgr.Get()

	logPath := cfg.Log.File
	if opts.logFile != "" {
		logPath = opts.logFile
	}
	logOut, err := openLog(logPath)
	if err != nil {
		return err
	}
	defer logOut.Close()

	level := debug.ParseLevel(cfg.Log.Level)
	if opts.debug {
		level = zerolog.DebugLevel
		debug.ParseCategories("all")
	}
	debug.Setup(logOut, level)

	var settings app.Settings
	lastPath := ""
	if cfg.Store.Enabled {
		db := store.NewDB()
		dbPath := cfg.Store.Path
		if dbPath == "" {
			dbPath = store.DefaultPath(xdg.StateHome)
		}
		if err := db.Open(dbPath); err != nil {
			debug.Warn(debug.STORE, "settings disabled: %v", err)
		} else {
			if cfg.Behavior.RestoreLastPath {
				lastPath, _, _ = db.Setting(store.KeyLastPath)
			}
			cfg.UI.ShowHidden = db.Bool(store.KeyShowHidden, cfg.UI.ShowHidden)
			db.Start()
			defer db.Close()
			settings = db
		}
	}

	home := nav.ResolveHome(cfg.Behavior.Home)
	start, err := app.StartPath(opts.path, lastPath, home, fs.IsDir)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	ui := term.New(screen, cfg.Keys)
	shell := app.NewShell(app.Deps{
		Config:    cfg,
		Home:      home,
		Start:     start,
		Prompter:  ui,
		Presenter: ui,
		Store:     settings,
	})
	defer shell.Close()
	ui.Attach(shell)

	if perr := mgr.ParseError(); perr != nil {
		shell.StatusBar().Messages().Send(bus.Failure("Config error: " + perr.Error()))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return ui.Run(ctx, cfg.TickInterval())
}
