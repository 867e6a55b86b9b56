package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/1broseidon/windowsnap/internal/config"
	"github.com/1broseidon/windowsnap/internal/history"
	"github.com/1broseidon/windowsnap/internal/layout"
	"github.com/1broseidon/windowsnap/internal/platform"
	"github.com/1broseidon/windowsnap/internal/snap"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailed      = 1
	exitUsage       = 2
	exitNotFound    = 3
	exitUnsupported = 4
	exitPartial     = 5
)

// app holds everything a command needs after startup.
type app struct {
	cfg     *config.Config
	cfgPath string
	svc     *snap.Service
	store   *layout.Store
	src     platform.Source
	srcErr  error
	db      *history.DB
	history *history.Repository
	logger  *slog.Logger
}

// loadConfig loads config.json and prints any loader warnings.
func loadConfig() (*config.LoadResult, error) {
	res, err := config.Load()
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		log.Printf("Warning: %s", w)
	}
	if res.BackupPath != "" {
		log.Printf("Corrupt config moved to %s", res.BackupPath)
	}
	return res, nil
}

// openApp loads config, the window source, the history log and the service.
// When requireSource is false a missing source only surfaces once windows
// are enumerated.
func openApp(requireSource bool) (*app, int) {
	res, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[X] %v\n", err)
		return nil, exitFailed
	}
	cfg := res.Config

	a := &app{
		cfg:     cfg,
		cfgPath: res.Path,
		store:   layout.NewStore(config.LayoutsDir(res.Path)),
		logger:  newLogger(cfg.LogLevel),
	}

	a.src, a.srcErr = openSource(cfg)
	if a.srcErr != nil {
		if requireSource {
			fmt.Fprintf(os.Stderr, "[X] %v\n", a.srcErr)
			if errors.Is(a.srcErr, platform.ErrUnsupported) {
				return nil, exitUnsupported
			}
			return nil, exitFailed
		}
		a.src = &unavailableSource{kind: cfg.Platform, err: a.srcErr}
	}

	var rec snap.Recorder
	if cfg.History.Enabled {
		db, err := history.Connect(cfg.HistoryPath(res.Path))
		if err != nil {
			log.Printf("Warning: history disabled: %v", err)
		} else {
			a.db = db
			a.history = history.NewRepository(db)
			rec = a.history
		}
	}

	a.svc = snap.NewService(a.src, a.store, rec, a.logger)
	return a, exitOK
}

func (a *app) Close() {
	if a == nil {
		return
	}
	if a.src != nil {
		_ = a.src.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

// resolvePlatform turns "auto" into a concrete source kind.
func resolvePlatform(kind string) (string, error) {
	if kind == "" || kind == platform.KindAuto {
		return platform.Detect(runtime.GOOS, os.Getenv)
	}
	return kind, nil
}

func openSource(cfg *config.Config) (platform.Source, error) {
	kind, err := resolvePlatform(cfg.Platform)
	if err != nil {
		return nil, err
	}
	return platform.New(kind, platform.Options{Timeout: cfg.EnumerateTimeout()})
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warning", "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// unavailableSource stands in for a source that could not be opened, so
// commands that only touch saved layouts keep working.
type unavailableSource struct {
	kind string
	err  error
}

func (u *unavailableSource) Name() string { return u.kind }

func (u *unavailableSource) Family() string {
	switch runtime.GOOS {
	case "darwin":
		return platform.Family(platform.KindMacOS)
	case "windows":
		return platform.Family(platform.KindWindows)
	default:
		return platform.Family(platform.KindX11)
	}
}

func (u *unavailableSource) ListWindows(context.Context) ([]platform.Window, error) {
	return nil, fmt.Errorf("%w: %v", platform.ErrEnumeration, u.err)
}

func (u *unavailableSource) Close() error { return nil }
