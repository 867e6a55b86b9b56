package platform

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// runFunc executes an external command and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// WmctrlSource lists and moves windows by shelling out to wmctrl. It works
// with any EWMH window manager without holding an X connection open.
type WmctrlSource struct {
	timeout     time.Duration
	run         runFunc
	processName func(pid int) string
}

var (
	_ Source = (*WmctrlSource)(nil)
	_ Mover  = (*WmctrlSource)(nil)
)

// NewWmctrlSource fails when wmctrl is not installed.
func NewWmctrlSource(timeout time.Duration) (*WmctrlSource, error) {
	if _, err := exec.LookPath("wmctrl"); err != nil {
		return nil, fmt.Errorf("wmctrl not found in PATH (install with: sudo apt install wmctrl): %w", ErrUnsupported)
	}
	return &WmctrlSource{
		timeout:     timeout,
		run:         execOutput,
		processName: processName,
	}, nil
}

func (s *WmctrlSource) Name() string   { return KindWmctrl }
func (s *WmctrlSource) Family() string { return Family(KindWmctrl) }
func (s *WmctrlSource) Close() error   { return nil }

// ListWindows runs `wmctrl -lGp` and resolves each window's owning process.
func (s *WmctrlSource) ListWindows(ctx context.Context) ([]Window, error) {
	ctx, cancel := commandContext(ctx, s.timeout)
	defer cancel()

	out, err := s.run(ctx, "wmctrl", "-lGp")
	if err != nil {
		return nil, fmt.Errorf("%w: wmctrl -lGp: %v", ErrEnumeration, err)
	}

	windows := parseWmctrlList(string(out))
	for i := range windows {
		windows[i].Process = s.processName(windows[i].PID)
	}
	return windows, nil
}

// MoveResize runs `wmctrl -i -r <id> -e 0,x,y,w,h`.
func (s *WmctrlSource) MoveResize(id WindowID, bounds Rect) error {
	ctx, cancel := commandContext(context.Background(), s.timeout)
	defer cancel()

	geometry := fmt.Sprintf("0,%d,%d,%d,%d", bounds.X, bounds.Y, bounds.Width, bounds.Height)
	if _, err := s.run(ctx, "wmctrl", "-i", "-r", formatWmctrlID(id), "-e", geometry); err != nil {
		return fmt.Errorf("wmctrl move %s: %w", formatWmctrlID(id), err)
	}
	return nil
}

// parseWmctrlList parses `wmctrl -lGp` output:
//
//	<id> <desktop> <pid> <x> <y> <w> <h> <host> <title...>
//
// Lines that are malformed or have an empty title are skipped.
func parseWmctrlList(out string) []Window {
	var windows []Window
	for _, line := range strings.Split(out, "\n") {
		fields, title := splitLeadingFields(line, 8)
		if len(fields) < 8 || title == "" {
			continue
		}

		id, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(fields[0]), "0x"), 16, 64)
		if err != nil {
			continue
		}
		nums := make([]int, 5)
		ok := true
		for i, f := range fields[2:7] {
			n, err := strconv.Atoi(f)
			if err != nil {
				ok = false
				break
			}
			nums[i] = n
		}
		if !ok {
			continue
		}

		windows = append(windows, Window{
			ID:     WindowID(id),
			PID:    nums[0],
			Title:  title,
			Bounds: Rect{X: nums[1], Y: nums[2], Width: nums[3], Height: nums[4]},
		})
	}
	return windows
}

// splitLeadingFields splits off n whitespace-separated fields and returns the
// remainder with its internal spacing intact.
func splitLeadingFields(line string, n int) ([]string, string) {
	fields := make([]string, 0, n)
	rest := line
	for len(fields) < n {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			return fields, ""
		}
		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			fields = append(fields, rest)
			return fields, ""
		}
		fields = append(fields, rest[:end])
		rest = rest[end:]
	}
	return fields, strings.TrimSpace(rest)
}

func formatWmctrlID(id WindowID) string {
	return fmt.Sprintf("0x%08x", uint64(id))
}
