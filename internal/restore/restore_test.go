package restore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/windowsnap/internal/layout"
	"github.com/1broseidon/windowsnap/internal/platform"
)

type move struct {
	id     platform.WindowID
	bounds platform.Rect
}

type fakeSource struct {
	windows []platform.Window
	listErr error
	failIDs map[platform.WindowID]bool
	moves   []move
}

func (f *fakeSource) Name() string   { return "fake" }
func (f *fakeSource) Family() string { return "Linux" }
func (f *fakeSource) Close() error   { return nil }

func (f *fakeSource) ListWindows(context.Context) ([]platform.Window, error) {
	return f.windows, f.listErr
}

func (f *fakeSource) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	if f.failIDs[id] {
		return errors.New("BadWindow")
	}
	f.moves = append(f.moves, move{id: id, bounds: bounds})
	return nil
}

type displaySource struct {
	fakeSource
	displays []platform.Rect
}

func (d *displaySource) Displays() ([]platform.Rect, error) {
	return d.displays, nil
}

type readOnlySource struct {
	windows []platform.Window
}

func (r *readOnlySource) Name() string   { return "readonly" }
func (r *readOnlySource) Family() string { return "Darwin" }
func (r *readOnlySource) Close() error   { return nil }
func (r *readOnlySource) ListWindows(context.Context) ([]platform.Window, error) {
	return r.windows, nil
}

func notesLayout() *layout.Layout {
	return &layout.Layout{
		ProfileName: "default",
		Windows: []layout.Record{
			{Title: "Notes", Process: "notepad", X: 10, Y: 10, Width: 300, Height: 200},
		},
		WindowCount: 1,
	}
}

func TestRestoreNotesScenario(t *testing.T) {
	src := &fakeSource{windows: []platform.Window{
		{ID: 7, Process: "notepad", Title: "Notes.txt - Notepad", Bounds: platform.Rect{X: 500, Y: 500, Width: 640, Height: 480}},
	}}

	res, err := Restore(context.Background(), src, notesLayout(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Restored)
	assert.Equal(t, 0, res.Failed)
	require.Len(t, src.moves, 1)
	assert.Equal(t, move{id: 7, bounds: platform.Rect{X: 10, Y: 10, Width: 300, Height: 200}}, src.moves[0])
	assert.Equal(t, StatusRestored, res.Outcomes[0].Status)
}

func TestMatchFirstInEnumerationOrder(t *testing.T) {
	live := []platform.Window{
		{ID: 1, Process: "code", Title: "main.go - project"},
		{ID: 2, Process: "code", Title: "other.go - project"},
	}
	w, ok := Match(layout.Record{Process: "code", Title: "project"}, live)
	require.True(t, ok)
	assert.Equal(t, platform.WindowID(1), w.ID)
}

func TestMatchRules(t *testing.T) {
	live := platform.Window{Process: "firefox", Title: "GitHub - Mozilla Firefox"}

	assert.True(t, Matches(layout.Record{Process: "firefox", Title: "GitHub"}, live))
	assert.True(t, Matches(layout.Record{Process: "firefox", Title: ""}, live))
	assert.False(t, Matches(layout.Record{Process: "firefox", Title: "github"}, live), "title match is case-sensitive")
	assert.False(t, Matches(layout.Record{Process: "Firefox", Title: "GitHub"}, live), "process match is exact")
	assert.False(t, Matches(layout.Record{Process: "firefox", Title: "GitHub - Mozilla Firefox (Private)"}, live))
}

func TestApplyNonExclusiveMatching(t *testing.T) {
	src := &fakeSource{windows: []platform.Window{
		{ID: 9, Process: "term", Title: "shell ~"},
	}}
	saved := []layout.Record{
		{Process: "term", Title: "shell", X: 0, Y: 0, Width: 10, Height: 10},
		{Process: "term", Title: "~", X: 50, Y: 50, Width: 20, Height: 20},
	}

	res := Apply(saved, src.windows, src, Options{})
	assert.Equal(t, 2, res.Restored)
	require.Len(t, src.moves, 2)
	assert.Equal(t, platform.WindowID(9), src.moves[0].id)
	assert.Equal(t, platform.WindowID(9), src.moves[1].id)
	assert.Equal(t, platform.Rect{X: 50, Y: 50, Width: 20, Height: 20}, src.moves[1].bounds)
}

func TestApplyCountsFailures(t *testing.T) {
	src := &fakeSource{
		windows: []platform.Window{
			{ID: 1, Process: "a", Title: "one"},
			{ID: 2, Process: "b", Title: "two"},
		},
		failIDs: map[platform.WindowID]bool{2: true},
	}
	saved := []layout.Record{
		{Process: "a", Title: "one"},
		{Process: "b", Title: "two"},
		{Process: "c", Title: "three"},
	}

	res := Apply(saved, src.windows, src, Options{})
	assert.Equal(t, 1, res.Restored)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, len(saved), res.Restored+res.Failed)

	assert.Equal(t, StatusFailed, res.Outcomes[1].Status)
	assert.Error(t, res.Outcomes[1].Err)
	assert.Equal(t, StatusNotFound, res.Outcomes[2].Status)
	assert.Nil(t, res.Outcomes[2].Window)
}

func TestRestoreDryRunMovesNothing(t *testing.T) {
	src := &fakeSource{windows: []platform.Window{{ID: 7, Process: "notepad", Title: "Notes"}}}

	res, err := Restore(context.Background(), src, notesLayout(), Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Restored)
	assert.Equal(t, StatusPlanned, res.Outcomes[0].Status)
	assert.Empty(t, src.moves)
}

func TestRestoreUnsupported(t *testing.T) {
	src := &readOnlySource{windows: []platform.Window{{ID: 1, Process: "notepad", Title: "Notes"}}}

	_, err := Restore(context.Background(), src, notesLayout(), Options{})
	require.ErrorIs(t, err, ErrUnsupported)

	res, err := Restore(context.Background(), src, notesLayout(), Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Restored)
}

func TestRestoreEnumerationFailure(t *testing.T) {
	src := &fakeSource{listErr: platform.ErrEnumeration}

	res, err := Restore(context.Background(), src, notesLayout(), Options{})
	require.ErrorIs(t, err, platform.ErrEnumeration)
	assert.Equal(t, 0, res.Restored)
	assert.Equal(t, 1, res.Failed)
	assert.Empty(t, src.moves)
}

func TestRestoreFlagsOffscreenWindows(t *testing.T) {
	src := &displaySource{
		fakeSource: fakeSource{windows: []platform.Window{
			{ID: 1, Process: "notepad", Title: "Notes"},
			{ID: 2, Process: "kitty", Title: "Terminal"},
		}},
		displays: []platform.Rect{{X: 0, Y: 0, Width: 1920, Height: 1080}},
	}
	l := &layout.Layout{
		ProfileName: "two-monitors",
		Windows: []layout.Record{
			{Title: "Notes", Process: "notepad", X: 10, Y: 10, Width: 300, Height: 200},
			{Title: "Terminal", Process: "kitty", X: 1920, Y: 0, Width: 800, Height: 600},
			{Title: "Gone", Process: "gimp", X: 4000, Y: 0, Width: 800, Height: 600},
		},
		WindowCount: 3,
	}

	res, err := Restore(context.Background(), src, l, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Restored)
	assert.Equal(t, 1, res.Offscreen)
	assert.False(t, res.Outcomes[0].Offscreen)
	assert.True(t, res.Outcomes[1].Offscreen)
	// Unmatched records are not checked.
	assert.False(t, res.Outcomes[2].Offscreen)
	assert.Len(t, src.moves, 2)
}
