package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/windowsnap/internal/layout"
)

func TestBuildMenu(t *testing.T) {
	items := BuildMenu("default", []layout.Summary{
		{Name: "default", WindowCount: 2, Timestamp: "2024-05-01T10:00:00.000000"},
		{Name: "work", WindowCount: 3},
		{Name: "broken", Err: "invalid character"},
	})

	var actions []string
	var deleteItems []MenuItem
	for _, item := range items {
		if item.Action != "" {
			actions = append(actions, item.Action)
		}
		if item.Label == "Delete" {
			deleteItems = item.Submenu
		}
	}

	assert.Equal(t, []string{
		"save:default",
		"save-as",
		"restore:default",
		"restore:work",
		"current",
	}, actions)
	assert.Equal(t, "Save as 'default'", items[0].Label)
	assert.Equal(t, "Show current windows", items[len(items)-1].Label)
	require.Len(t, deleteItems, 2)
	assert.Equal(t, "delete:work", deleteItems[1].Action)
}

func TestBuildMenu_NoLayouts(t *testing.T) {
	items := BuildMenu("main", nil)

	for _, item := range items {
		assert.NotEqual(t, "Delete", item.Label)
		assert.False(t, item.IsHeader)
	}
	assert.Equal(t, "save:main", items[0].Action)
}

func TestParseMenuAction(t *testing.T) {
	tests := []struct {
		in      string
		want    MenuAction
		wantErr bool
	}{
		{in: "save:default", want: MenuAction{Kind: MenuSave, Profile: "default"}},
		{in: "restore:work", want: MenuAction{Kind: MenuRestore, Profile: "work"}},
		{in: "delete:old", want: MenuAction{Kind: MenuDelete, Profile: "old"}},
		{in: "save-as", want: MenuAction{Kind: MenuSaveAs}},
		{in: "current", want: MenuAction{Kind: MenuCurrent}},
		{in: "restore:", wantErr: true},
		{in: "current:x", wantErr: true},
		{in: "tile", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMenuAction(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
