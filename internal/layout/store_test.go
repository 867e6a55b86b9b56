package layout

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/windowsnap/internal/platform"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "layouts"))
	s.now = func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 589000000, time.Local) }
	return s
}

func sampleRecords() []Record {
	return []Record{
		{Title: "Notes", Process: "notepad", X: 10, Y: 10, Width: 300, Height: 200},
		{Title: "Inbox", Process: "thunderbird", X: -1920, Y: 0, Width: 1920, Height: 1080},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	saved, err := s.Save("work", sampleRecords(), "Linux")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14T09:26:53.589000", saved.Timestamp)

	loaded, err := s.Load("work")
	require.NoError(t, err)
	assert.Equal(t, "work", loaded.ProfileName)
	assert.Equal(t, "Linux", loaded.Platform)
	assert.Equal(t, sampleRecords(), loaded.Windows)
	assert.Equal(t, len(loaded.Windows), loaded.WindowCount)
}

func TestSaveStripsNativeIDs(t *testing.T) {
	s := newTestStore(t)
	live := []platform.Window{{
		ID:      0x3a00007,
		PID:     2345,
		Process: "notepad",
		Title:   "Notes.txt - Notepad",
		Bounds:  platform.Rect{X: 1, Y: 2, Width: 3, Height: 4},
	}}

	_, err := s.Save("ids", FromWindows(live), "Linux")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(s.Dir(), "ids.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "window_id")
	assert.NotContains(t, string(data), "hwnd")
	assert.NotContains(t, string(data), "2345")
	assert.Contains(t, string(data), "\n  \"profile_name\": \"ids\"")
}

func TestSaveOverwritesExisting(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Save("work", sampleRecords(), "Linux")
	require.NoError(t, err)
	_, err = s.Save("work", sampleRecords()[:1], "Linux")
	require.NoError(t, err)

	loaded, err := s.Load("work")
	require.NoError(t, err)
	assert.Len(t, loaded.Windows, 1)
	assert.Equal(t, 1, loaded.WindowCount)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestSaveRejectsEmpty(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Save("empty", nil, "Linux")
	require.ErrorIs(t, err, ErrNoWindows)

	_, statErr := os.Stat(s.Dir())
	assert.True(t, os.IsNotExist(statErr), "directory should not be created")
}

func TestValidateName(t *testing.T) {
	valid := []string{"default", "work-2", "my layout", "café"}
	for _, name := range valid {
		assert.NoError(t, ValidateName(name), name)
	}

	invalid := []string{"", "   ", "../etc", "a/b", `a\b`, ".hidden", "..", "x..y", " padded"}
	for _, name := range invalid {
		assert.Error(t, ValidateName(name), name)
	}
}

func TestSaveInvalidNameTouchesNothing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Save("../escape", sampleRecords(), "Linux")
	require.Error(t, err)

	_, statErr := os.Stat(s.Dir())
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoadRepairsWindowCount(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	raw := `{"profile_name":"old","timestamp":"2024-01-01T00:00:00","platform":"Windows","window_count":7,
"windows":[{"title":"a","process":"b","x":1,"y":2,"width":3,"height":4}]}`
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "old.json"), []byte(raw), 0o644))

	l, err := s.Load("old")
	require.NoError(t, err)
	assert.Equal(t, 1, l.WindowCount)
	assert.Equal(t, "Windows", l.Platform)
}

func TestDeleteMissingLeavesDirectoryUnchanged(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Save("keep", sampleRecords(), "Linux")
	require.NoError(t, err)

	err = s.Delete("ghost")
	require.ErrorIs(t, err, ErrNotFound)

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, names)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Save("gone", sampleRecords(), "Linux")
	require.NoError(t, err)

	require.NoError(t, s.Delete("gone"))
	_, err = s.Load("gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListEmptyAndMissing(t *testing.T) {
	s := newTestStore(t)

	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	names, err = s.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListSortedAndFiltered(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := s.Save(name, sampleRecords(), "Linux")
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), ".partial.json.123.tmp"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "sub.json"), 0o755))

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestSummariesReportBrokenFiles(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Save("good", sampleRecords(), "Linux")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "broken.json"), []byte("{"), 0o644))

	summaries, err := s.Summaries()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "broken", summaries[0].Name)
	assert.NotEmpty(t, summaries[0].Err)
	assert.Equal(t, "Unknown", summaries[0].SavedDate())

	assert.Equal(t, "good", summaries[1].Name)
	assert.Equal(t, 2, summaries[1].WindowCount)
	assert.Equal(t, "2025-03-14", summaries[1].SavedDate())
}
