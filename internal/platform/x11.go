package platform

import (
	"context"
	"fmt"

	"github.com/1broseidon/windowsnap/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// X11Source enumerates and moves windows through an EWMH-compliant window manager.
type X11Source struct {
	conn *x11.Connection
}

var (
	_ Source   = (*X11Source)(nil)
	_ Mover    = (*X11Source)(nil)
	_ Displays = (*X11Source)(nil)
)

// NewX11Source opens a fresh X11 connection.
func NewX11Source() (*X11Source, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &X11Source{conn: conn}, nil
}

// NewX11SourceFromConnection wraps an existing connection, e.g. the daemon's.
func NewX11SourceFromConnection(conn *x11.Connection) *X11Source {
	return &X11Source{conn: conn}
}

func (s *X11Source) Name() string   { return KindX11 }
func (s *X11Source) Family() string { return Family(KindX11) }

// ListWindows returns client windows in _NET_CLIENT_LIST order.
func (s *X11Source) ListWindows(ctx context.Context) ([]Window, error) {
	conn, err := s.connection()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clients, err := conn.ClientWindows()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnumeration, err)
	}

	windows := make([]Window, 0, len(clients))
	for _, c := range clients {
		windows = append(windows, Window{
			ID:      WindowID(c.ID),
			PID:     c.PID,
			Process: processName(c.PID),
			Title:   c.Title,
			Bounds:  Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height},
		})
	}
	return windows, nil
}

// MoveResize moves and resizes a window to the specified bounds.
func (s *X11Source) MoveResize(id WindowID, bounds Rect) error {
	conn, err := s.connection()
	if err != nil {
		return err
	}
	return conn.MoveResizeWindow(xproto.Window(id), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

// Displays returns the geometry of every active XRandR monitor.
func (s *X11Source) Displays() ([]Rect, error) {
	conn, err := s.connection()
	if err != nil {
		return nil, err
	}
	monitors, err := conn.Monitors()
	if err != nil {
		return nil, err
	}
	out := make([]Rect, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height})
	}
	return out, nil
}

// XUtil exposes the underlying connection for hotkey registration.
func (s *X11Source) XUtil() *xgbutil.XUtil {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (s *X11Source) RootWindow() xproto.Window {
	if s == nil || s.conn == nil {
		return 0
	}
	return s.conn.Root
}

// Close closes the underlying X11 connection.
func (s *X11Source) Close() error {
	if s != nil && s.conn != nil {
		s.conn.Close()
	}
	return nil
}

func (s *X11Source) connection() (*x11.Connection, error) {
	if s == nil || s.conn == nil {
		return nil, fmt.Errorf("x11 source connection is nil")
	}
	return s.conn, nil
}
