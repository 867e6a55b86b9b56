package hotkeys

import (
	"fmt"
	"strings"
)

var modifierNames = map[string]string{
	"super":   "Mod4",
	"win":     "Mod4",
	"meta":    "Mod4",
	"mod4":    "Mod4",
	"alt":     "Mod1",
	"mod1":    "Mod1",
	"ctrl":    "Control",
	"control": "Control",
	"shift":   "Shift",
}

// KeySequence converts a combo like "super+shift+s" into xgbutil's
// "Mod4-Shift-s" form. Strings already in xgbutil form pass through.
func KeySequence(combo string) (string, error) {
	combo = strings.TrimSpace(combo)
	if combo == "" {
		return "", fmt.Errorf("empty key combination")
	}
	if !strings.Contains(combo, "+") {
		return combo, nil
	}

	parts := strings.Split(combo, "+")
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return "", fmt.Errorf("invalid key combination %q", combo)
		}
		last := i == len(parts)-1
		if mod, ok := modifierNames[strings.ToLower(part)]; ok && !last {
			out = append(out, mod)
			continue
		}
		if !last {
			return "", fmt.Errorf("unknown modifier %q in %q", part, combo)
		}
		out = append(out, part)
	}
	return strings.Join(out, "-"), nil
}
