// Package daemon runs windowsnap in the background: global hotkeys,
// scheduled autosave and config hot reload.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/1broseidon/windowsnap/internal/config"
	"github.com/1broseidon/windowsnap/internal/hotkeys"
	"github.com/1broseidon/windowsnap/internal/ipc"
	"github.com/1broseidon/windowsnap/internal/layout"
	"github.com/1broseidon/windowsnap/internal/restore"
)

// Service is the subset of snap.Service the daemon drives.
type Service interface {
	Save(ctx context.Context, name string) (*layout.Layout, error)
	Restore(ctx context.Context, name string, opts restore.Options) (*layout.Layout, restore.Result, error)
}

// HotkeyBinder registers key bindings; implemented by hotkeys.Handler.
type HotkeyBinder interface {
	Rebind(bindings map[string]string, dispatch func(config.HotkeyAction)) ([]hotkeys.Binding, []error)
}

// Options wires the daemon's collaborators. Hotkeys and Autosave may be nil.
type Options struct {
	Service  Service
	Hotkeys  HotkeyBinder
	Autosave *Autosaver
	// OpenMenu launches the layout menu.
	OpenMenu func() error
	// ConfigPath is re-read on Reload.
	ConfigPath string
	Logger     *slog.Logger
}

type Daemon struct {
	svc        Service
	hotkeys    HotkeyBinder
	autosave   *Autosaver
	openMenu   func() error
	configPath string
	logger     *slog.Logger
	started    time.Time

	mu    sync.RWMutex
	cfg   *config.Config
	bound []string
}

func New(cfg *config.Config, opts Options) *Daemon {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Daemon{
		svc:        opts.Service,
		hotkeys:    opts.Hotkeys,
		autosave:   opts.Autosave,
		openMenu:   opts.OpenMenu,
		configPath: opts.ConfigPath,
		logger:     logger,
		started:    time.Now(),
		cfg:        cfg,
	}
}

// Config returns the active configuration.
func (d *Daemon) Config() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// Apply makes cfg active: hotkeys are rebound and autosave rescheduled.
func (d *Daemon) Apply(cfg *config.Config) {
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()

	if d.hotkeys != nil {
		bound, errs := d.hotkeys.Rebind(cfg.Hotkeys, d.Dispatch)
		for _, err := range errs {
			d.logger.Warn("failed to register hotkey", "error", err)
		}
		names := make([]string, 0, len(bound))
		for _, b := range bound {
			d.logger.Info("hotkey registered", "keys", b.Keys, "action", b.Action.String())
			names = append(names, b.Keys+" -> "+b.Action.String())
		}
		sort.Strings(names)
		d.mu.Lock()
		d.bound = names
		d.mu.Unlock()
	}

	if d.autosave != nil {
		interval := cfg.AutosaveInterval()
		if !cfg.Autosave.Enabled {
			interval = 0
		}
		if err := d.autosave.Schedule(interval, cfg.Autosave.Profile); err != nil {
			d.logger.Error("failed to schedule autosave", "error", err)
		}
	}
}

// Reload re-reads the config file and applies it.
func (d *Daemon) Reload() error {
	if d.configPath == "" {
		return fmt.Errorf("no config path configured")
	}
	res, err := config.LoadFromPath(d.configPath)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		d.logger.Warn(w)
	}
	d.Apply(res.Config)
	d.logger.Info("config reloaded", "path", d.configPath)
	return nil
}

// Status reports the daemon state for the control socket.
func (d *Daemon) Status() ipc.StatusData {
	cfg := d.Config()

	d.mu.RLock()
	keys := append([]string(nil), d.bound...)
	d.mu.RUnlock()

	st := ipc.StatusData{
		DaemonRunning:  true,
		PID:            os.Getpid(),
		UptimeSeconds:  int64(time.Since(d.started).Seconds()),
		DefaultProfile: cfg.DefaultProfile,
		Hotkeys:        keys,
	}
	if d.autosave != nil {
		if profile := d.autosave.Profile(); profile != "" {
			st.AutosaveEnabled = true
			st.AutosaveProfile = profile
			if next, ok := d.autosave.NextRun(); ok {
				st.NextAutosave = next.Format(time.RFC3339)
			}
		}
	}
	return st
}

// Dispatch runs a hotkey action.
func (d *Daemon) Dispatch(action config.HotkeyAction) {
	cfg := d.Config()
	ctx := context.Background()

	switch action.Kind {
	case config.ActionSave:
		name := cfg.ProfileOrDefault(action.Profile)
		l, err := d.svc.Save(ctx, name)
		if err != nil {
			d.logger.Error("save failed", "profile", name, "error", err)
			return
		}
		d.logger.Info("saved layout", "profile", name, "windows", l.WindowCount)

	case config.ActionRestore:
		name := cfg.ProfileOrDefault(action.Profile)
		_, res, err := d.svc.Restore(ctx, name, restore.Options{})
		if err != nil {
			d.logger.Error("restore failed", "profile", name, "error", err)
			return
		}
		d.logger.Info("restored layout", "profile", name, "restored", res.Restored, "failed", res.Failed)

	case config.ActionMenu:
		if d.openMenu == nil {
			d.logger.Warn("menu is not available")
			return
		}
		if err := d.openMenu(); err != nil {
			d.logger.Error("failed to open menu", "error", err)
		}

	default:
		d.logger.Warn("unknown hotkey action", "action", action.String())
	}
}
