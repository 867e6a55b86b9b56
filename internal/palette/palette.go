// Package palette shows the windowsnap menu through a launcher (rofi,
// fuzzel, wofi, dmenu) or an interactive terminal picker.
package palette

import (
	"fmt"
	"os/exec"
	"strings"
)

// Item is a single selectable entry in a palette menu.
type Item struct {
	Label     string // Display text
	Action    string // Action identifier returned on selection
	Icon      string // Icon name for rofi -show-icons
	Meta      string // Hidden search keywords (rofi meta field)
	IsHeader  bool   // Non-selectable section header (bold)
	IsDivider bool   // Non-selectable divider line (dim)
	IsActive  bool   // Highlighted as current/active
}

// SelectResult contains the result of a palette selection.
type SelectResult struct {
	Item Item
}

// Capabilities describes what features a backend supports.
type Capabilities struct {
	Icons         bool // Supports icon display
	Markup        bool // Supports pango markup in labels
	NonSelectable bool // Supports non-selectable rows (headers)
	IndexOutput   bool // Can output selection index (not just text)
	MessageBar    bool // Supports message/prompt bar
}

// Backend shows a palette to the user and returns the selected item.
type Backend interface {
	// Show displays items and returns the selected one, or ErrCancelled.
	Show(prompt string, items []Item, message string) (SelectResult, error)

	// Input asks for a line of free text, or returns ErrCancelled.
	Input(prompt string) (string, error)

	Capabilities() Capabilities
}

// AutoDetect selects the first available backend in priority order.
func AutoDetect() (Backend, error) {
	name, err := DetectBackend(IsInteractive())
	if err != nil {
		return nil, err
	}
	return NewBackend(name)
}

// NewBackend creates a backend by name.
//
// Supported names: auto, terminal, rofi, fuzzel, wofi, dmenu.
func NewBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return AutoDetect()
	case "terminal":
		if !IsInteractive() {
			return nil, fmt.Errorf("palette backend %q requires an interactive terminal", "terminal")
		}
		return NewTerminalBackend(), nil
	case "rofi":
		if _, err := exec.LookPath("rofi"); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", "rofi")
		}
		return NewRofiBackend(), nil
	case "fuzzel":
		if _, err := exec.LookPath("fuzzel"); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", "fuzzel")
		}
		return NewFuzzelBackend(), nil
	case "wofi":
		if _, err := exec.LookPath("wofi"); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", "wofi")
		}
		return NewWofiBackend(), nil
	case "dmenu":
		if _, err := exec.LookPath("dmenu"); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", "dmenu")
		}
		return NewDmenuBackend(), nil
	default:
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, terminal, rofi, fuzzel, wofi, dmenu)", name)
	}
}
