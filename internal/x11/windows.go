package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ClientWindow is a managed top-level window with its root-relative geometry.
type ClientWindow struct {
	ID     xproto.Window
	PID    int
	Title  string
	X      int
	Y      int
	Width  int
	Height int
}

// ClientWindows returns the visible, titled, normal windows from
// _NET_CLIENT_LIST in the order the window manager reports them.
func (c *Connection) ClientWindows() ([]ClientWindow, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}

	out := make([]ClientWindow, 0, len(clients))
	for _, id := range clients {
		if !c.IsNormalWindow(id) || c.isHidden(id) {
			continue
		}
		title := c.WindowTitle(id)
		if title == "" {
			continue
		}
		x, y, w, h, ok := c.windowGeometry(id)
		if !ok {
			continue
		}

		pid := 0
		if p, err := ewmh.WmPidGet(c.XUtil, id); err == nil {
			pid = int(p)
		}

		out = append(out, ClientWindow{
			ID:     id,
			PID:    pid,
			Title:  title,
			X:      x,
			Y:      y,
			Width:  w,
			Height: h,
		})
	}
	return out, nil
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// MoveResizeWindow moves and resizes a window to the specified geometry.
// It fails when the window no longer exists.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	if _, err := xwindow.New(c.XUtil, windowID).Geometry(); err != nil {
		return fmt.Errorf("window 0x%x is gone: %w", uint32(windowID), err)
	}

	// A maximized window ignores geometry requests on most window managers.
	_ = c.unmaximizeWindow(windowID)

	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
		values := []uint32{uint32(x), uint32(y), uint32(width), uint32(height)}
		if cerr := xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, values).Check(); cerr != nil {
			return fmt.Errorf("failed to move window 0x%x: %w", uint32(windowID), cerr)
		}
	}
	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			if err := ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}

	return len(types) == 0
}

func (c *Connection) isHidden(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}

// windowGeometry returns the client area translated to root coordinates.
func (c *Connection) windowGeometry(windowID xproto.Window) (x, y, width, height int, ok bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, false
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, false
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), true
}
