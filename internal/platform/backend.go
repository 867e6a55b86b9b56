package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// WindowID is a platform-native window handle (X11 window id, HWND, ...).
// It is only meaningful inside the session that enumerated it.
type WindowID uint64

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Window contains identity and geometry for a top-level window.
type Window struct {
	ID      WindowID
	PID     int
	Process string
	Title   string
	Bounds  Rect
}

// Source enumerates the visible, titled top-level windows of one platform.
type Source interface {
	// Name is the source kind, e.g. "x11" or "wmctrl".
	Name() string
	// Family is the OS family recorded in saved layouts ("Linux", "Darwin", "Windows").
	Family() string
	ListWindows(ctx context.Context) ([]Window, error)
	Close() error
}

// Mover is implemented by sources that can reposition windows. Sources
// without it cannot restore layouts.
type Mover interface {
	MoveResize(id WindowID, bounds Rect) error
}

// Displays is implemented by sources that can report connected monitors.
type Displays interface {
	Displays() ([]Rect, error)
}

// Intersects reports whether r and o overlap by at least one pixel.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// OnAnyDisplay reports whether r overlaps at least one display.
func OnAnyDisplay(r Rect, displays []Rect) bool {
	for _, d := range displays {
		if r.Intersects(d) {
			return true
		}
	}
	return false
}

var (
	// ErrUnsupported is returned when a source kind is not available on this OS
	// or does not support an operation.
	ErrUnsupported = errors.New("not supported on this platform")

	// ErrEnumeration wraps failures of the underlying window listing mechanism.
	ErrEnumeration = errors.New("window enumeration failed")
)

// Source kinds accepted by New.
const (
	KindAuto    = "auto"
	KindX11     = "x11"
	KindWmctrl  = "wmctrl"
	KindMacOS   = "macos"
	KindWindows = "windows"
)

// Options configures source construction.
type Options struct {
	// Timeout bounds external enumeration commands. Zero means no timeout.
	Timeout time.Duration
}

// Family maps a source kind to the OS family name stored in layouts.
func Family(kind string) string {
	switch kind {
	case KindX11, KindWmctrl:
		return "Linux"
	case KindMacOS:
		return "Darwin"
	case KindWindows:
		return "Windows"
	default:
		return "Unknown"
	}
}

// Detect resolves the source kind for the given GOOS and environment lookup.
func Detect(goos string, getenv func(string) string) (string, error) {
	switch goos {
	case "windows":
		return KindWindows, nil
	case "darwin":
		return KindMacOS, nil
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		if getenv("DISPLAY") != "" {
			return KindX11, nil
		}
		if getenv("WAYLAND_DISPLAY") != "" || getenv("XDG_SESSION_TYPE") == "wayland" {
			return "", fmt.Errorf("wayland session without XWayland ($DISPLAY unset): %w", ErrUnsupported)
		}
		return "", fmt.Errorf("no X11 display found ($DISPLAY unset)")
	default:
		return "", fmt.Errorf("%s: %w", goos, ErrUnsupported)
	}
}

// New creates the source for kind. KindAuto must be resolved with Detect first.
func New(kind string, opts Options) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindX11:
		return NewX11Source()
	case KindWmctrl:
		return NewWmctrlSource(opts.Timeout)
	case KindMacOS:
		return NewMacOSSource(opts.Timeout), nil
	case KindWindows:
		return newWin32Source()
	default:
		return nil, fmt.Errorf("unknown platform %q (expected: auto, x11, wmctrl, macos, windows)", kind)
	}
}

// CanMoveResize reports whether src can restore layouts.
func CanMoveResize(src Source) bool {
	_, ok := src.(Mover)
	return ok
}

// commandContext bounds ctx by timeout when one is configured.
func commandContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
