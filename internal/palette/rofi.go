package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

var errNoItems = errors.New("palette: no items to show")

func errIndexOutOfRange(selection string) error {
	return fmt.Errorf("palette: index %s out of range", selection)
}

type backendKind int

const (
	kindRofi backendKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

type dmenuLikeBackend struct {
	command string
	kind    backendKind
	caps    Capabilities
}

func NewRofiBackend() Backend {
	return &dmenuLikeBackend{
		command: "rofi",
		kind:    kindRofi,
		caps: Capabilities{
			Icons:         true,
			Markup:        true,
			NonSelectable: true,
			IndexOutput:   true,
			MessageBar:    true,
		},
	}
}

func NewDmenuBackend() Backend {
	return &dmenuLikeBackend{
		command: "dmenu",
		kind:    kindDmenu,
	}
}

func NewWofiBackend() Backend {
	return &dmenuLikeBackend{
		command: "wofi",
		kind:    kindWofi,
		caps: Capabilities{
			Icons:  true,
			Markup: true,
		},
	}
}

func NewFuzzelBackend() Backend {
	return &dmenuLikeBackend{
		command: "fuzzel",
		kind:    kindFuzzel,
		caps: Capabilities{
			Icons:       true,
			IndexOutput: true,
		},
	}
}

func (b *dmenuLikeBackend) Capabilities() Capabilities {
	return b.caps
}

func (b *dmenuLikeBackend) Show(prompt string, items []Item, message string) (SelectResult, error) {
	if len(items) == 0 {
		return SelectResult{}, errNoItems
	}

	displayItems := make([]Item, len(items))
	copy(displayItems, items)

	input, selectedRow := b.formatInput(displayItems)
	selection, err := b.run(b.buildArgs(prompt, message, selectedRow), input)
	if err != nil {
		return SelectResult{}, err
	}

	item, err := b.parseSelection(selection, displayItems)
	if err != nil {
		return SelectResult{}, err
	}
	return SelectResult{Item: item}, nil
}

// Input shows an empty list so that the typed text becomes the selection.
func (b *dmenuLikeBackend) Input(prompt string) (string, error) {
	return b.run(b.inputArgs(prompt), "")
}

// run executes the launcher and returns the trimmed selection.
func (b *dmenuLikeBackend) run(args []string, input string) (string, error) {
	cmd := exec.Command(b.command, args...)
	cmd.Stdin = strings.NewReader(input)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))

	if err != nil {
		if selection == "" && isCancelExit(err) {
			return "", ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s failed: %s", b.command, msg)
		}
		return "", fmt.Errorf("%s failed: %w", b.command, err)
	}
	if selection == "" {
		return "", ErrCancelled
	}
	return selection, nil
}

func (b *dmenuLikeBackend) buildArgs(prompt string, message string, selectedRow int) []string {
	var args []string

	switch b.kind {
	case kindRofi:
		args = []string{"-dmenu", "-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		// Output only the index for robust selection parsing (labels may contain ':' or markup).
		args = append(args, "-format", "i")
		// The menu is a fixed set of actions.
		args = append(args, "-no-custom")
		if b.caps.Markup {
			args = append(args, "-markup-rows")
		}
		if b.caps.Icons {
			args = append(args, "-show-icons")
		}
		if selectedRow >= 0 {
			args = append(args, "-selected-row", strconv.Itoa(selectedRow))
		}
		if message != "" {
			args = append(args, "-mesg", message)
		}

	case kindFuzzel:
		args = []string{"--dmenu"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
		args = append(args, "--index")

	case kindWofi:
		args = []string{"--dmenu"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}
		args = append(args, "--allow-markup", "--allow-images")

	case kindDmenu:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}

	return args
}

func (b *dmenuLikeBackend) inputArgs(prompt string) []string {
	switch b.kind {
	case kindRofi:
		return []string{"-dmenu", "-p", prompt, "-lines", "0"}
	case kindFuzzel:
		return []string{"--dmenu", "--prompt", prompt + " ", "--lines", "0"}
	case kindWofi:
		return []string{"--dmenu", "--prompt", prompt, "--lines", "1"}
	default:
		return []string{"-p", prompt}
	}
}

// formatInput renders items one per line and returns the row to preselect,
// or -1 when nothing is selectable.
func (b *dmenuLikeBackend) formatInput(items []Item) (string, int) {
	lines := make([]string, 0, len(items))
	firstSelectable := -1
	firstActive := -1

	// Backends that match by visible text (dmenu/wofi) need label disambiguation.
	if !b.caps.IndexOutput {
		seen := make(map[string]int)
		for i := range items {
			if items[i].IsHeader || items[i].IsDivider {
				continue
			}
			key := sanitizeLabel(items[i].Label)
			if key == "" {
				continue
			}
			if count := seen[key]; count > 0 {
				items[i].Label = fmt.Sprintf("%s (%d)", key, count+1)
			}
			seen[key]++
		}
	}

	for i, item := range items {
		lines = append(lines, b.formatItem(item))

		if item.IsHeader || item.IsDivider {
			continue
		}
		if firstSelectable == -1 {
			firstSelectable = i
		}
		if item.IsActive && firstActive == -1 {
			firstActive = i
		}
	}

	if firstActive != -1 {
		return strings.Join(lines, "\n"), firstActive
	}
	return strings.Join(lines, "\n"), firstSelectable
}

func (b *dmenuLikeBackend) formatItem(item Item) string {
	display := sanitizeLabel(item.Label)
	if b.caps.Markup {
		display = html.EscapeString(display)
	}
	if item.IsHeader && b.caps.Markup {
		display = fmt.Sprintf("<b>%s</b>", display)
	} else if item.IsDivider && b.caps.Markup {
		display = fmt.Sprintf("<span foreground='#666666'>%s</span>", display)
	}

	// Rofi dmenu entry properties: a single NUL followed by \x1f-delimited key/value pairs.
	if b.kind != kindRofi {
		return display
	}

	var attrs []string
	if (item.IsHeader || item.IsDivider) && b.caps.NonSelectable {
		attrs = append(attrs, "nonselectable", "true")
	}
	if item.Icon != "" && b.caps.Icons {
		attrs = append(attrs, "icon", sanitizeRofiField(item.Icon))
	}
	if item.Meta != "" {
		attrs = append(attrs, "meta", sanitizeRofiField(item.Meta))
	}
	if item.IsActive {
		attrs = append(attrs, "active", "true")
	}

	if len(attrs) == 0 {
		return display
	}
	return display + "\x00" + strings.Join(attrs, "\x1f")
}

func (b *dmenuLikeBackend) parseSelection(selection string, items []Item) (Item, error) {
	if b.caps.IndexOutput {
		idx, err := strconv.Atoi(selection)
		if err != nil {
			return b.findByLabel(selection, items)
		}
		if idx < 0 || idx >= len(items) {
			return Item{}, errIndexOutOfRange(selection)
		}
		return items[idx], nil
	}
	return b.findByLabel(selection, items)
}

func (b *dmenuLikeBackend) findByLabel(selection string, items []Item) (Item, error) {
	for _, item := range items {
		if sanitizeLabel(item.Label) == selection {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeRofiField(value string) string {
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.TrimSpace(value)
}

func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// Launchers typically use 1 for "no selection" and 130 for Ctrl+C.
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
