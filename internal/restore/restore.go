// Package restore matches saved window records to live windows and moves
// them back into place.
package restore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/windowsnap/internal/layout"
	"github.com/1broseidon/windowsnap/internal/platform"
)

// ErrUnsupported is returned when the window source cannot move windows.
var ErrUnsupported = errors.New("window restoration is not supported on this platform")

// Options controls a restore run.
type Options struct {
	// DryRun performs matching only; no window is moved.
	DryRun bool
}

// Status describes what happened to one saved record.
type Status string

const (
	StatusRestored Status = "restored"
	StatusPlanned  Status = "planned"
	StatusNotFound Status = "not_found"
	StatusFailed   Status = "failed"
)

// Outcome is the per-record result of a restore run.
type Outcome struct {
	Record layout.Record
	// Window is the live window the record matched, nil when none did.
	Window *platform.Window
	Status Status
	Err    error
	// Offscreen is set when the saved geometry overlaps no connected monitor.
	Offscreen bool
}

// Result summarizes a restore run. Restored+Failed equals the number of saved records.
type Result struct {
	Restored  int
	Failed    int
	Offscreen int
	Outcomes  []Outcome
}

// Matches reports whether live satisfies saved: equal process names and the
// saved title contained in the live title.
func Matches(saved layout.Record, live platform.Window) bool {
	return live.Process == saved.Process && strings.Contains(live.Title, saved.Title)
}

// Match returns the first live window in enumeration order that satisfies saved.
func Match(saved layout.Record, live []platform.Window) (platform.Window, bool) {
	for _, w := range live {
		if Matches(saved, w) {
			return w, true
		}
	}
	return platform.Window{}, false
}

// Apply matches every saved record against live and moves matched windows
// with mover. Matching is greedy and non-exclusive: a live window may serve
// several records. mover may be nil only for dry runs.
func Apply(saved []layout.Record, live []platform.Window, mover platform.Mover, opts Options) Result {
	res := Result{Outcomes: make([]Outcome, 0, len(saved))}

	for _, rec := range saved {
		out := Outcome{Record: rec}

		w, ok := Match(rec, live)
		switch {
		case !ok:
			out.Status = StatusNotFound
		case opts.DryRun:
			out.Window = &w
			out.Status = StatusPlanned
		default:
			out.Window = &w
			if err := mover.MoveResize(w.ID, rec.Bounds()); err != nil {
				out.Status = StatusFailed
				out.Err = err
			} else {
				out.Status = StatusRestored
			}
		}

		if out.Status == StatusRestored || out.Status == StatusPlanned {
			res.Restored++
		} else {
			res.Failed++
		}
		res.Outcomes = append(res.Outcomes, out)
	}
	return res
}

// Restore enumerates live windows from src and applies l. Sources that do
// not implement platform.Mover fail with ErrUnsupported unless opts.DryRun
// is set. An enumeration failure is returned wrapped alongside a result in
// which every record failed to match.
func Restore(ctx context.Context, src platform.Source, l *layout.Layout, opts Options) (Result, error) {
	if l == nil {
		return Result{}, fmt.Errorf("layout is nil")
	}

	mover, canMove := src.(platform.Mover)
	if !canMove && !opts.DryRun {
		return Result{}, fmt.Errorf("%s: %w", src.Name(), ErrUnsupported)
	}

	live, listErr := src.ListWindows(ctx)
	if listErr != nil {
		live = nil
	}

	res := Apply(l.Windows, live, mover, opts)
	if d, ok := src.(platform.Displays); ok {
		if displays, err := d.Displays(); err == nil && len(displays) > 0 {
			markOffscreen(&res, displays)
		}
	}
	if listErr != nil {
		return res, fmt.Errorf("failed to list windows: %w", listErr)
	}
	return res, nil
}

// markOffscreen flags moved or planned windows whose saved bounds fall
// outside every display.
func markOffscreen(res *Result, displays []platform.Rect) {
	for i := range res.Outcomes {
		out := &res.Outcomes[i]
		if out.Status != StatusRestored && out.Status != StatusPlanned {
			continue
		}
		if !platform.OnAnyDisplay(out.Record.Bounds(), displays) {
			out.Offscreen = true
			res.Offscreen++
		}
	}
}
