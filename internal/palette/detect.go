package palette

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/term"
)

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// DetectBackend returns "terminal" when running interactively, otherwise the
// first launcher found in PATH, in priority order: rofi, fuzzel, wofi, dmenu.
func DetectBackend(interactive bool) (string, error) {
	if interactive {
		return "terminal", nil
	}
	for _, name := range []string{"rofi", "fuzzel", "wofi", "dmenu"} {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: rofi, fuzzel, wofi, dmenu)")
}
