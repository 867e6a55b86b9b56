package palette

import (
	"fmt"
	"strings"

	"github.com/1broseidon/windowsnap/internal/layout"
)

// MenuActionKind identifies what a menu selection asks for.
type MenuActionKind string

const (
	MenuSave    MenuActionKind = "save"
	MenuSaveAs  MenuActionKind = "save-as"
	MenuRestore MenuActionKind = "restore"
	MenuDelete  MenuActionKind = "delete"
	MenuCurrent MenuActionKind = "current"
)

// MenuAction is a parsed menu selection.
type MenuAction struct {
	Kind    MenuActionKind
	Profile string
}

// BuildMenu returns the windowsnap menu for the given default profile and saved layouts.
func BuildMenu(defaultProfile string, layouts []layout.Summary) []MenuItem {
	items := []MenuItem{
		{Label: fmt.Sprintf("Save as '%s'", defaultProfile), Action: "save:" + defaultProfile, Icon: "document-save"},
		{Label: "Save as…", Action: string(MenuSaveAs), Icon: "document-save-as"},
	}

	if len(layouts) > 0 {
		items = append(items, MenuItem{Label: "Layouts", IsHeader: true})
		deletes := make([]MenuItem, 0, len(layouts))
		for _, l := range layouts {
			if l.Err != "" {
				continue
			}
			items = append(items, MenuItem{
				Label:    fmt.Sprintf("Restore '%s'", l.Name),
				Action:   "restore:" + l.Name,
				Icon:     "view-restore",
				Meta:     fmt.Sprintf("%d windows %s", l.WindowCount, l.SavedDate()),
				IsActive: l.Name == defaultProfile,
			})
			deletes = append(deletes, MenuItem{
				Label:  l.Name,
				Action: "delete:" + l.Name,
				Icon:   "edit-delete",
			})
		}
		if len(deletes) > 0 {
			items = append(items, MenuItem{Label: "Delete", Icon: "edit-delete", Submenu: deletes})
		}
	}

	items = append(items,
		MenuItem{Label: "─────────", IsDivider: true},
		MenuItem{Label: "Show current windows", Action: string(MenuCurrent), Icon: "view-list"},
	)
	return items
}

// ParseMenuAction parses an action produced by BuildMenu.
func ParseMenuAction(action string) (MenuAction, error) {
	action = strings.TrimSpace(action)
	kind, profile, hasProfile := strings.Cut(action, ":")

	switch MenuActionKind(kind) {
	case MenuSave, MenuRestore, MenuDelete:
		if !hasProfile || strings.TrimSpace(profile) == "" {
			return MenuAction{}, fmt.Errorf("menu action %q: missing profile", action)
		}
		return MenuAction{Kind: MenuActionKind(kind), Profile: profile}, nil
	case MenuSaveAs, MenuCurrent:
		if hasProfile {
			return MenuAction{}, fmt.Errorf("menu action %q: unexpected profile", action)
		}
		return MenuAction{Kind: MenuActionKind(kind)}, nil
	default:
		return MenuAction{}, fmt.Errorf("unknown menu action %q", action)
	}
}
