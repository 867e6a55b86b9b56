package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/1broseidon/windowsnap/internal/config"
)

const defaultDebounce = 500 * time.Millisecond

// ConfigWatcher reloads config.json when it changes on disk.
type ConfigWatcher struct {
	configPath string
	watcher    *fsnotify.Watcher
	onReload   func(*config.Config)
	logger     *slog.Logger

	debounce   time.Duration
	reloadChan chan struct{}
	stopOnce   sync.Once
	stopChan   chan struct{}
}

// NewConfigWatcher watches the directory holding configPath. onReload receives
// every successfully loaded config.
func NewConfigWatcher(configPath string, onReload func(*config.Config), logger *slog.Logger) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	return &ConfigWatcher{
		configPath: absPath,
		watcher:    watcher,
		onReload:   onReload,
		logger:     logger,
		debounce:   defaultDebounce,
		reloadChan: make(chan struct{}, 1),
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins watching. Editors often replace files, so the directory is
// watched rather than the file itself.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	configDir := filepath.Dir(cw.configPath)
	if err := cw.watcher.Add(configDir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", configDir, err)
	}

	cw.logger.Info("watching configuration", "config_path", cw.configPath)
	go cw.watchLoop(ctx)
	go cw.reloadLoop(ctx)
	return nil
}

func (cw *ConfigWatcher) Stop() error {
	var err error
	cw.stopOnce.Do(func() {
		close(cw.stopChan)
		err = cw.watcher.Close()
	})
	return err
}

func (cw *ConfigWatcher) watchLoop(ctx context.Context) {
	configFile := filepath.Base(cw.configPath)

	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopChan:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFile {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				cw.logger.Debug("config change detected", "file", event.Name, "op", event.Op.String())
				cw.triggerReload()
			case event.Has(fsnotify.Remove):
				cw.logger.Warn("config file removed", "file", event.Name)
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error("config watcher error", "error", err)
		}
	}
}

func (cw *ConfigWatcher) reloadLoop(ctx context.Context) {
	var timer *time.Timer
	stop := func() {
		if timer != nil {
			timer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			return
		case <-cw.stopChan:
			stop()
			return
		case <-cw.reloadChan:
			stop()
			timer = time.AfterFunc(cw.debounce, cw.reload)
		}
	}
}

func (cw *ConfigWatcher) triggerReload() {
	select {
	case cw.reloadChan <- struct{}{}:
	default:
	}
}

func (cw *ConfigWatcher) reload() {
	res, err := config.LoadFromPath(cw.configPath)
	if err != nil {
		cw.logger.Error("config reload failed", "error", err)
		return
	}
	for _, w := range res.Warnings {
		cw.logger.Warn(w)
	}
	cw.logger.Info("configuration reloaded")
	cw.onReload(res.Config)
}
