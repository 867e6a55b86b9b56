// Package snap ties a window source, the layout store and the history log
// into the operations every front end calls.
package snap

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/1broseidon/windowsnap/internal/history"
	"github.com/1broseidon/windowsnap/internal/layout"
	"github.com/1broseidon/windowsnap/internal/platform"
	"github.com/1broseidon/windowsnap/internal/restore"
)

// Recorder appends events to the history log.
type Recorder interface {
	Record(event *history.Event) error
}

// Service runs layout operations. It is safe for concurrent use; calls are serialized.
type Service struct {
	mu      sync.Mutex
	src     platform.Source
	store   *layout.Store
	history Recorder
	logger  *slog.Logger
}

// NewService returns a service. rec may be nil to disable history; a nil
// logger uses slog.Default().
func NewService(src platform.Source, store *layout.Store, rec Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{src: src, store: store, history: rec, logger: logger}
}

// Platform returns the OS family recorded in saved layouts.
func (s *Service) Platform() string {
	return s.src.Family()
}

// SourceName returns the active window source kind.
func (s *Service) SourceName() string {
	return s.src.Name()
}

// CanRestore reports whether the active source can move windows.
func (s *Service) CanRestore() bool {
	return platform.CanMoveResize(s.src)
}

// Store exposes the layout store.
func (s *Service) Store() *layout.Store {
	return s.store
}

// listWindows enumerates live windows. Enumeration failures are logged and
// reported as an empty list.
func (s *Service) listWindows(ctx context.Context) []platform.Window {
	windows, err := s.src.ListWindows(ctx)
	if err != nil {
		s.logger.Warn("failed to enumerate windows", "source", s.src.Name(), "error", err)
		return nil
	}
	return windows
}

// Current returns the visible, titled windows right now.
func (s *Service) Current(ctx context.Context) []platform.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listWindows(ctx)
}

// Save snapshots the current windows under name, replacing any existing layout.
func (s *Service) Save(ctx context.Context, name string) (*layout.Layout, error) {
	if err := layout.ValidateName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	windows := s.listWindows(ctx)
	l, err := s.store.Save(name, layout.FromWindows(windows), s.src.Family())

	ev := &history.Event{Action: history.ActionSave, Profile: name, Platform: s.src.Family()}
	if err != nil {
		ev.Error = err.Error()
	} else {
		ev.WindowCount = l.WindowCount
	}
	s.record(ev)

	if err != nil {
		return nil, err
	}
	s.logger.Debug("saved layout", "profile", name, "windows", l.WindowCount)
	return l, nil
}

// Restore loads the layout saved under name and moves matching windows back.
// The loaded layout is returned even when restoring fails.
func (s *Service) Restore(ctx context.Context, name string, opts restore.Options) (*layout.Layout, restore.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.store.Load(name)
	if err != nil {
		return nil, restore.Result{}, err
	}

	res, err := restore.Restore(ctx, s.src, l, opts)
	if err != nil && errors.Is(err, platform.ErrEnumeration) {
		s.logger.Warn("failed to enumerate windows", "source", s.src.Name(), "error", err)
		err = nil
	}

	ev := &history.Event{
		Action:      history.ActionRestore,
		Profile:     name,
		Platform:    s.src.Family(),
		WindowCount: l.WindowCount,
		Restored:    res.Restored,
		Failed:      res.Failed,
		DryRun:      opts.DryRun,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	if !opts.DryRun {
		s.record(ev)
	}

	for _, out := range res.Outcomes {
		if out.Err != nil {
			s.logger.Warn("could not restore window", "title", out.Record.Title, "process", out.Record.Process, "error", out.Err)
		}
		if out.Offscreen {
			s.logger.Warn("saved geometry is outside every monitor", "title", out.Record.Title, "process", out.Record.Process, "x", out.Record.X, "y", out.Record.Y)
		}
	}
	return l, res, err
}

// Delete removes the layout saved under name.
func (s *Service) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.Delete(name)
	if err == nil {
		s.record(&history.Event{Action: history.ActionDelete, Profile: name, Platform: s.src.Family()})
	}
	return err
}

// Show returns the layout saved under name.
func (s *Service) Show(name string) (*layout.Layout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(name)
}

// List returns the saved profile names, sorted.
func (s *Service) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List()
}

// Summaries describes every saved layout.
func (s *Service) Summaries() ([]layout.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Summaries()
}

func (s *Service) record(ev *history.Event) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ev); err != nil {
		s.logger.Warn("failed to record history", "action", ev.Action, "profile", ev.Profile, "error", err)
	}
}
