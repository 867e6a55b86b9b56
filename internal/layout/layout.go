// Package layout persists named window layouts as JSON files, one per profile.
package layout

import (
	"github.com/1broseidon/windowsnap/internal/platform"
)

// Record is the saved form of a window. It carries no native handle, so a
// layout can be restored in a later session.
type Record struct {
	Title   string `json:"title" yaml:"title"`
	Process string `json:"process" yaml:"process"`
	X       int    `json:"x" yaml:"x"`
	Y       int    `json:"y" yaml:"y"`
	Width   int    `json:"width" yaml:"width"`
	Height  int    `json:"height" yaml:"height"`
}

// Bounds returns the saved geometry.
func (r Record) Bounds() platform.Rect {
	return platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Layout is a snapshot of windows saved under a profile name.
type Layout struct {
	ProfileName string   `json:"profile_name" yaml:"profile_name"`
	Timestamp   string   `json:"timestamp" yaml:"timestamp"`
	Platform    string   `json:"platform" yaml:"platform"`
	WindowCount int      `json:"window_count" yaml:"window_count"`
	Windows     []Record `json:"windows" yaml:"windows"`
}

// Summary describes a saved layout without its windows. Err is set when the
// file could not be read or parsed.
type Summary struct {
	Name        string `json:"name" yaml:"name"`
	WindowCount int    `json:"window_count" yaml:"window_count"`
	Timestamp   string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Platform    string `json:"platform,omitempty" yaml:"platform,omitempty"`
	Err         string `json:"error,omitempty" yaml:"error,omitempty"`
}

// SavedDate returns the date part of the timestamp, or "Unknown".
func (s Summary) SavedDate() string {
	if s.Timestamp == "" {
		return "Unknown"
	}
	if len(s.Timestamp) > 10 {
		return s.Timestamp[:10]
	}
	return s.Timestamp
}

// FromWindows converts live windows to records, dropping native handles.
func FromWindows(windows []platform.Window) []Record {
	records := make([]Record, 0, len(windows))
	for _, w := range windows {
		records = append(records, Record{
			Title:   w.Title,
			Process: w.Process,
			X:       w.Bounds.X,
			Y:       w.Bounds.Y,
			Width:   w.Bounds.Width,
			Height:  w.Bounds.Height,
		})
	}
	return records
}
