//go:build !windows

package platform

import "fmt"

func newWin32Source() (Source, error) {
	return nil, fmt.Errorf("win32 window source: %w", ErrUnsupported)
}
