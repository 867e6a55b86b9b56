package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/windowsnap/internal/config"
	"github.com/1broseidon/windowsnap/internal/layout"
	"github.com/1broseidon/windowsnap/internal/platform"
	"github.com/1broseidon/windowsnap/internal/snap"
)

// listSource enumerates a fixed window list and cannot move windows.
type listSource struct {
	windows []platform.Window
}

func (s *listSource) Name() string   { return "list" }
func (s *listSource) Family() string { return "Linux" }
func (s *listSource) Close() error   { return nil }

func (s *listSource) ListWindows(context.Context) ([]platform.Window, error) {
	return s.windows, nil
}

// movingSource also moves windows, failing for ids in fail.
type movingSource struct {
	listSource
	fail  map[platform.WindowID]bool
	moved []platform.WindowID
}

func (s *movingSource) MoveResize(id platform.WindowID, _ platform.Rect) error {
	if s.fail[id] {
		return errors.New("window vanished")
	}
	s.moved = append(s.moved, id)
	return nil
}

func newTestApp(t *testing.T, src platform.Source) *app {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := layout.NewStore(t.TempDir())
	return &app{
		cfg:    config.DefaultConfig(),
		svc:    snap.NewService(src, store, nil, logger),
		store:  store,
		src:    src,
		logger: logger,
	}
}

func testWindows() []platform.Window {
	return []platform.Window{
		{ID: 1, PID: 10, Process: "kitty", Title: "Terminal", Bounds: platform.Rect{X: 0, Y: 0, Width: 800, Height: 600}},
		{ID: 2, PID: 20, Process: "firefox", Title: "Docs - Mozilla Firefox", Bounds: platform.Rect{X: 800, Y: 0, Width: 800, Height: 600}},
	}
}

func saveTestLayout(t *testing.T, a *app, name string) {
	t.Helper()
	if _, err := a.store.Save(name, layout.FromWindows(testWindows()), "Linux"); err != nil {
		t.Fatalf("save %s: %v", name, err)
	}
}

func TestCommandExitCodes(t *testing.T) {
	tests := []struct {
		name string
		src  platform.Source
		run  func(a *app) int
		want int
	}{
		{
			name: "save",
			src:  &listSource{windows: testWindows()},
			run:  func(a *app) int { return doSave(a, "work") },
			want: exitOK,
		},
		{
			name: "save with no windows",
			src:  &listSource{},
			run:  func(a *app) int { return doSave(a, "work") },
			want: exitFailed,
		},
		{
			name: "save with invalid name",
			src:  &listSource{windows: testWindows()},
			run:  func(a *app) int { return doSave(a, "a/b") },
			want: exitFailed,
		},
		{
			name: "restore",
			src:  &movingSource{listSource: listSource{windows: testWindows()}},
			run:  func(a *app) int { return doRestore(a, "work", false) },
			want: exitOK,
		},
		{
			name: "restore missing profile",
			src:  &movingSource{listSource: listSource{windows: testWindows()}},
			run:  func(a *app) int { return doRestore(a, "nope", false) },
			want: exitNotFound,
		},
		{
			name: "restore without mover",
			src:  &listSource{windows: testWindows()},
			run:  func(a *app) int { return doRestore(a, "work", false) },
			want: exitUnsupported,
		},
		{
			name: "dry run without mover",
			src:  &listSource{windows: testWindows()},
			run:  func(a *app) int { return doRestore(a, "work", true) },
			want: exitOK,
		},
		{
			name: "restore with failed window",
			src: &movingSource{
				listSource: listSource{windows: testWindows()},
				fail:       map[platform.WindowID]bool{2: true},
			},
			run:  func(a *app) int { return doRestore(a, "work", false) },
			want: exitPartial,
		},
		{
			name: "restore with missing window",
			src:  &movingSource{listSource: listSource{windows: testWindows()[:1]}},
			run:  func(a *app) int { return doRestore(a, "work", false) },
			want: exitPartial,
		},
		{
			name: "delete",
			src:  &listSource{},
			run:  func(a *app) int { return doDelete(a, "work") },
			want: exitOK,
		},
		{
			name: "delete missing profile",
			src:  &listSource{},
			run:  func(a *app) int { return doDelete(a, "nope") },
			want: exitNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t, tt.src)
			saveTestLayout(t, a, "work")

			if got := tt.run(a); got != tt.want {
				t.Fatalf("exit code = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDeleteRemovesLayout(t *testing.T) {
	a := newTestApp(t, &listSource{})
	saveTestLayout(t, a, "work")

	if got := doDelete(a, "work"); got != exitOK {
		t.Fatalf("exit code = %d, want %d", got, exitOK)
	}
	if got := doDelete(a, "work"); got != exitNotFound {
		t.Fatalf("second delete exit code = %d, want %d", got, exitNotFound)
	}
}

func TestRestoreMovesSavedWindows(t *testing.T) {
	src := &movingSource{listSource: listSource{windows: testWindows()}}
	a := newTestApp(t, src)
	saveTestLayout(t, a, "work")

	if got := doRestore(a, "work", true); got != exitOK {
		t.Fatalf("dry run exit code = %d", got)
	}
	if len(src.moved) != 0 {
		t.Fatalf("dry run moved windows: %v", src.moved)
	}

	if got := doRestore(a, "work", false); got != exitOK {
		t.Fatalf("exit code = %d", got)
	}
	if len(src.moved) != 2 {
		t.Fatalf("expected 2 moves, got %v", src.moved)
	}
}

func TestLoadConfigRecoversInvalidValues(t *testing.T) {
	home := t.TempDir()
	t.Setenv("WINDOWSNAP_HOME", home)
	t.Setenv("WINDOWSNAP_DEFAULT_PROFILE", "")
	t.Setenv("WINDOWSNAP_PLATFORM", "")

	tests := []struct {
		name    string
		json    string
		profile string
		level   string
	}{
		{name: "empty default profile", json: `{"default_profile": ""}`, profile: config.DefaultProfile, level: "info"},
		{name: "uppercase log level", json: `{"log_level": "INFO"}`, profile: config.DefaultProfile, level: "info"},
		{name: "unknown log level", json: `{"default_profile": "work", "log_level": "loud"}`, profile: "work", level: "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(filepath.Join(home, "config.json"), []byte(tt.json), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			res, err := loadConfig()
			if err != nil {
				t.Fatalf("loadConfig: %v", err)
			}
			if res.Config.DefaultProfile != tt.profile || res.Config.LogLevel != tt.level {
				t.Fatalf("unexpected config %+v", res.Config)
			}
		})
	}
}
