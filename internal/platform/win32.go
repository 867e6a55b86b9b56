//go:build windows

package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procGetWindowTextLengthW     = user32.NewProc("GetWindowTextLengthW")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procSetWindowPos             = user32.NewProc("SetWindowPos")

	// Callbacks are a finite resource; create the enumeration one once.
	enumWindowsCallback = windows.NewCallback(enumWindowsProc)
)

const (
	hwndTop       = 0
	swpShowWindow = 0x0040
)

// win32Source enumerates windows with EnumWindows and moves them with SetWindowPos.
type win32Source struct{}

var (
	_ Source = (*win32Source)(nil)
	_ Mover  = (*win32Source)(nil)
)

func newWin32Source() (Source, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("failed to load user32.dll: %w", err)
	}
	return &win32Source{}, nil
}

func (s *win32Source) Name() string   { return KindWindows }
func (s *win32Source) Family() string { return Family(KindWindows) }
func (s *win32Source) Close() error   { return nil }

type enumState struct {
	windows []Window
}

func (s *win32Source) ListWindows(ctx context.Context) ([]Window, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	state := &enumState{}
	r, _, err := procEnumWindows.Call(enumWindowsCallback, uintptr(unsafe.Pointer(state)))
	if r == 0 {
		return nil, fmt.Errorf("%w: EnumWindows: %v", ErrEnumeration, err)
	}
	return state.windows, nil
}

func enumWindowsProc(hwnd uintptr, lparam uintptr) uintptr {
	state := (*enumState)(unsafe.Pointer(lparam))

	if visible, _, _ := procIsWindowVisible.Call(hwnd); visible == 0 {
		return 1
	}
	title := windowText(hwnd)
	if title == "" {
		return 1
	}

	var rect windows.Rect
	if r, _, _ := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&rect))); r == 0 {
		return 1
	}

	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))

	state.windows = append(state.windows, Window{
		ID:      WindowID(hwnd),
		PID:     int(pid),
		Process: win32ProcessName(pid),
		Title:   title,
		Bounds: Rect{
			X:      int(rect.Left),
			Y:      int(rect.Top),
			Width:  int(rect.Right - rect.Left),
			Height: int(rect.Bottom - rect.Top),
		},
	})
	return 1
}

func windowText(hwnd uintptr) string {
	n, _, _ := procGetWindowTextLengthW.Call(hwnd)
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf)
}

// win32ProcessName returns the executable base name, e.g. "notepad.exe".
func win32ProcessName(pid uint32) string {
	if pid == 0 {
		return unknownProcess
	}
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return unknownProcess
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return unknownProcess
	}
	return filepath.Base(windows.UTF16ToString(buf[:size]))
}

// MoveResize applies bounds with SetWindowPos(HWND_TOP, SWP_SHOWWINDOW).
func (s *win32Source) MoveResize(id WindowID, bounds Rect) error {
	r, _, err := procSetWindowPos.Call(
		uintptr(id),
		hwndTop,
		uintptr(bounds.X),
		uintptr(bounds.Y),
		uintptr(bounds.Width),
		uintptr(bounds.Height),
		swpShowWindow,
	)
	if r == 0 {
		return fmt.Errorf("SetWindowPos: %w", err)
	}
	return nil
}
