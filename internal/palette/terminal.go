package palette

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// terminalBackend renders the palette with huh in the current terminal.
type terminalBackend struct{}

func NewTerminalBackend() Backend {
	return &terminalBackend{}
}

func (b *terminalBackend) Capabilities() Capabilities {
	return Capabilities{NonSelectable: true, IndexOutput: true, MessageBar: true}
}

func (b *terminalBackend) Show(prompt string, items []Item, message string) (SelectResult, error) {
	options := make([]huh.Option[int], 0, len(items))
	for i, item := range items {
		if item.IsHeader || item.IsDivider {
			continue
		}
		options = append(options, huh.NewOption(sanitizeLabel(item.Label), i))
	}
	if len(options) == 0 {
		return SelectResult{}, errNoItems
	}

	selected := options[0].Value
	sel := huh.NewSelect[int]().
		Title(prompt).
		Options(options...).
		Value(&selected)
	if message != "" {
		sel = sel.Description(message)
	}
	if err := sel.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return SelectResult{}, ErrCancelled
		}
		return SelectResult{}, err
	}
	if selected < 0 || selected >= len(items) {
		return SelectResult{}, errIndexOutOfRange(strconv.Itoa(selected))
	}
	return SelectResult{Item: items[selected]}, nil
}

func (b *terminalBackend) Input(prompt string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(prompt).
		Value(&value).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrCancelled
	}
	return value, nil
}
