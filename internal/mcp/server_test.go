package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"sort"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/windowsnap/internal/layout"
	"github.com/1broseidon/windowsnap/internal/platform"
	"github.com/1broseidon/windowsnap/internal/snap"
)

type fakeSource struct {
	windows []platform.Window
	moves   map[platform.WindowID]platform.Rect
}

func (f *fakeSource) Name() string   { return "fake" }
func (f *fakeSource) Family() string { return "Linux" }
func (f *fakeSource) Close() error   { return nil }

func (f *fakeSource) ListWindows(context.Context) ([]platform.Window, error) {
	return f.windows, nil
}

func (f *fakeSource) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	if f.moves == nil {
		f.moves = map[platform.WindowID]platform.Rect{}
	}
	f.moves[id] = bounds
	return nil
}

func newTestServer(t *testing.T, src *fakeSource) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	store := layout.NewStore(filepath.Join(t.TempDir(), "layouts"))
	svc := snap.NewService(src, store, nil, logger)
	return NewServer(svc, Options{DefaultProfile: "default", Version: "test", Logger: logger})
}

func liveWindows() []platform.Window {
	return []platform.Window{
		{ID: 0x3a00007, PID: 100, Process: "notepad", Title: "Notes.txt - Notepad", Bounds: platform.Rect{X: 10, Y: 10, Width: 300, Height: 200}},
		{ID: 0x3a00009, PID: 200, Process: "firefox", Title: "GitHub - Mozilla Firefox", Bounds: platform.Rect{X: 0, Y: 0, Width: 1280, Height: 1024}},
	}
}

func TestHandleSaveAndShowDefaultProfile(t *testing.T) {
	s := newTestServer(t, &fakeSource{windows: liveWindows()})
	ctx := context.Background()

	_, saved, err := s.handleSaveLayout(ctx, nil, ProfileInput{})
	require.NoError(t, err)
	assert.Equal(t, "default", saved.Profile)
	assert.Equal(t, 2, saved.WindowCount)

	_, shown, err := s.handleShowLayout(ctx, nil, ProfileInput{Profile: "default"})
	require.NoError(t, err)
	assert.Equal(t, 2, shown.WindowCount)
	assert.Equal(t, "Linux", shown.Platform)
	require.Len(t, shown.Windows, 2)
	assert.Equal(t, WindowInfo{Title: "Notes.txt - Notepad", Process: "notepad", X: 10, Y: 10, Width: 300, Height: 200}, shown.Windows[0])
}

func TestHandleRestoreLayout(t *testing.T) {
	src := &fakeSource{windows: liveWindows()}
	s := newTestServer(t, src)
	ctx := context.Background()

	_, _, err := s.handleSaveLayout(ctx, nil, ProfileInput{Profile: "work"})
	require.NoError(t, err)

	src.windows = []platform.Window{
		{ID: 7, Process: "notepad", Title: "Notes.txt - Notepad", Bounds: platform.Rect{X: 500, Y: 500, Width: 10, Height: 10}},
	}

	_, out, err := s.handleRestoreLayout(ctx, nil, RestoreLayoutInput{Profile: "work"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Restored)
	assert.Equal(t, 1, out.Failed)
	require.Len(t, out.Windows, 2)
	assert.Equal(t, "restored", out.Windows[0].Status)
	assert.Equal(t, "not_found", out.Windows[1].Status)
	assert.Equal(t, platform.Rect{X: 10, Y: 10, Width: 300, Height: 200}, src.moves[7])
}

func TestHandleRestoreLayoutDryRun(t *testing.T) {
	src := &fakeSource{windows: liveWindows()}
	s := newTestServer(t, src)
	ctx := context.Background()

	_, _, err := s.handleSaveLayout(ctx, nil, ProfileInput{})
	require.NoError(t, err)

	_, out, err := s.handleRestoreLayout(ctx, nil, RestoreLayoutInput{DryRun: true})
	require.NoError(t, err)
	assert.True(t, out.DryRun)
	assert.Equal(t, 2, out.Restored)
	assert.Empty(t, src.moves)
}

func TestHandleMissingProfile(t *testing.T) {
	s := newTestServer(t, &fakeSource{})
	ctx := context.Background()

	_, _, err := s.handleShowLayout(ctx, nil, ProfileInput{Profile: "ghost"})
	assert.True(t, errors.Is(err, layout.ErrNotFound))

	_, _, err = s.handleRestoreLayout(ctx, nil, RestoreLayoutInput{Profile: "ghost"})
	assert.True(t, errors.Is(err, layout.ErrNotFound))

	_, _, err = s.handleDeleteLayout(ctx, nil, ProfileInput{Profile: "ghost"})
	assert.True(t, errors.Is(err, layout.ErrNotFound))
}

func TestHandleListAndDelete(t *testing.T) {
	s := newTestServer(t, &fakeSource{windows: liveWindows()})
	ctx := context.Background()

	_, empty, err := s.handleListLayouts(ctx, nil, ListLayoutsInput{})
	require.NoError(t, err)
	assert.NotNil(t, empty.Layouts)
	assert.Empty(t, empty.Layouts)

	for _, name := range []string{"b", "a"} {
		_, _, err := s.handleSaveLayout(ctx, nil, ProfileInput{Profile: name})
		require.NoError(t, err)
	}

	_, listed, err := s.handleListLayouts(ctx, nil, ListLayoutsInput{})
	require.NoError(t, err)
	require.Len(t, listed.Layouts, 2)
	assert.Equal(t, "a", listed.Layouts[0].Name)
	assert.Equal(t, 2, listed.Layouts[0].WindowCount)

	_, deleted, err := s.handleDeleteLayout(ctx, nil, ProfileInput{Profile: "a"})
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	_, listed, err = s.handleListLayouts(ctx, nil, ListLayoutsInput{})
	require.NoError(t, err)
	require.Len(t, listed.Layouts, 1)
	assert.Equal(t, "b", listed.Layouts[0].Name)
}

func TestHandleCurrentWindows(t *testing.T) {
	s := newTestServer(t, &fakeSource{windows: liveWindows()})

	_, out, err := s.handleCurrentWindows(context.Background(), nil, CurrentWindowsInput{})
	require.NoError(t, err)
	assert.Equal(t, "Linux", out.Platform)
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "0x3a00007", out.Windows[0].ID)
	assert.Equal(t, 100, out.Windows[0].PID)
}

func TestServerOverInMemoryTransport(t *testing.T) {
	s := newTestServer(t, &fakeSource{windows: liveWindows()})
	ctx := context.Background()

	serverT, clientT := mcpsdk.NewInMemoryTransports()
	ss, err := s.Connect(ctx, serverT)
	require.NoError(t, err)
	defer ss.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	require.NoError(t, err)
	defer cs.Close()

	tools, err := cs.ListTools(ctx, &mcpsdk.ListToolsParams{})
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"current_windows",
		"delete_layout",
		"list_layouts",
		"restore_layout",
		"save_layout",
		"show_layout",
	}, names)

	res, err := cs.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "save_layout",
		Arguments: map[string]any{"profile": "desk"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var saved SaveLayoutOutput
	decodeStructured(t, res, &saved)
	assert.Equal(t, "desk", saved.Profile)
	assert.Equal(t, 2, saved.WindowCount)

	res, err = cs.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "show_layout",
		Arguments: map[string]any{"profile": "missing"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func decodeStructured(t *testing.T, res *mcpsdk.CallToolResult, v any) {
	t.Helper()
	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}
