// Package output renders command results as text, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/windowsnap/internal/history"
	"github.com/1broseidon/windowsnap/internal/layout"
)

// Format represents the output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected: text, json, yaml)", s)
	}
}

// Structured reports whether f is a machine-readable format.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// Encode serializes v to w as JSON or YAML.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", f)
	}
}

const maxTitleWidth = 50

// WriteWindows prints a numbered window list with positions and sizes.
func WriteWindows(w io.Writer, records []layout.Record) {
	for i, r := range records {
		fmt.Fprintf(w, "  %d. %s: %s\n", i+1, r.Process, truncate(r.Title, maxTitleWidth))
		fmt.Fprintf(w, "     Position: (%d, %d) Size: %dx%d\n", r.X, r.Y, r.Width, r.Height)
	}
}

// WriteSummaries prints one line per saved layout.
func WriteSummaries(w io.Writer, summaries []layout.Summary) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No saved layouts found. Create one with: windowsnap save <name>")
		return
	}
	fmt.Fprintf(w, "Saved layouts (%d):\n", len(summaries))
	for _, s := range summaries {
		if s.Err != "" {
			fmt.Fprintf(w, "  * %s (unreadable: %s)\n", s.Name, s.Err)
			continue
		}
		fmt.Fprintf(w, "  * %s (%d windows, saved: %s)\n", s.Name, s.WindowCount, s.SavedDate())
	}
}

// WriteEvents prints history events, newest first.
func WriteEvents(w io.Writer, events []history.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No history recorded yet.")
		return
	}
	for _, ev := range events {
		line := fmt.Sprintf("%s  %-7s %s", ev.Timestamp.Local().Format("2006-01-02 15:04:05"), ev.Action, ev.Profile)
		switch ev.Action {
		case history.ActionSave:
			line += fmt.Sprintf(" (%d windows)", ev.WindowCount)
		case history.ActionRestore:
			line += fmt.Sprintf(" (%d restored, %d failed)", ev.Restored, ev.Failed)
		}
		if ev.Error != "" {
			line += " error: " + ev.Error
		}
		fmt.Fprintln(w, line)
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
