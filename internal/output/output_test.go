package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/windowsnap/internal/history"
	"github.com/1broseidon/windowsnap/internal/layout"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, " yaml ": FormatYAML}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestEncodeJSONAndYAML(t *testing.T) {
	summaries := []layout.Summary{{Name: "work", WindowCount: 2, Timestamp: "2025-01-02T03:04:05"}}

	var buf bytes.Buffer
	if err := Encode(&buf, FormatJSON, summaries); err != nil {
		t.Fatal(err)
	}
	var decoded []layout.Summary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded[0].Name != "work" || decoded[0].WindowCount != 2 {
		t.Errorf("unexpected decoded JSON %+v", decoded)
	}

	buf.Reset()
	if err := Encode(&buf, FormatYAML, summaries); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "window_count: 2") {
		t.Errorf("expected snake_case yaml keys, got:\n%s", buf.String())
	}
	var fromYAML []layout.Summary
	if err := yaml.Unmarshal(buf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}

	if err := Encode(&buf, FormatText, summaries); err == nil {
		t.Error("expected error encoding text format")
	}
}

func TestWriteWindowsTruncatesTitle(t *testing.T) {
	long := strings.Repeat("é", 60)
	var buf bytes.Buffer
	WriteWindows(&buf, []layout.Record{{Title: long, Process: "gedit", X: 1, Y: 2, Width: 3, Height: 4}})

	out := buf.String()
	if !strings.Contains(out, "1. gedit: "+strings.Repeat("é", 50)+"\n") {
		t.Errorf("expected title truncated to 50 runes, got:\n%s", out)
	}
	if !strings.Contains(out, "Position: (1, 2) Size: 3x4") {
		t.Errorf("missing geometry line:\n%s", out)
	}
}

func TestWriteSummaries(t *testing.T) {
	var buf bytes.Buffer
	WriteSummaries(&buf, nil)
	if !strings.Contains(buf.String(), "No saved layouts found") {
		t.Errorf("unexpected empty output %q", buf.String())
	}

	buf.Reset()
	WriteSummaries(&buf, []layout.Summary{
		{Name: "broken", Err: "bad json"},
		{Name: "work", WindowCount: 3, Timestamp: "2025-01-02T03:04:05.000000"},
	})
	out := buf.String()
	for _, want := range []string{"Saved layouts (2):", "* broken (unreadable: bad json)", "* work (3 windows, saved: 2025-01-02)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestWriteEvents(t *testing.T) {
	var buf bytes.Buffer
	WriteEvents(&buf, nil)
	if !strings.Contains(buf.String(), "No history recorded yet.") {
		t.Errorf("unexpected empty output %q", buf.String())
	}

	buf.Reset()
	ts := time.Date(2025, 3, 4, 5, 6, 7, 0, time.Local)
	WriteEvents(&buf, []history.Event{
		{Timestamp: ts, Action: history.ActionRestore, Profile: "work", Restored: 2, Failed: 1},
		{Timestamp: ts, Action: history.ActionSave, Profile: "work", WindowCount: 3},
		{Timestamp: ts, Action: history.ActionSave, Profile: "empty", Error: "no windows found"},
	})
	out := buf.String()
	for _, want := range []string{
		"2025-03-04 05:06:07  restore work (2 restored, 1 failed)",
		"save    work (3 windows)",
		"error: no windows found",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
