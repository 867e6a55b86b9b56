package platform

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// unknownProcess is recorded when a window's owning process cannot be resolved.
const unknownProcess = "Unknown"

// commLen is the longest name the kernel keeps in /proc/<pid>/comm.
const commLen = 15

// procRoot is the procfs mount; tests point it at a fixture tree.
var procRoot = "/proc"

// processName returns the short command name of pid from procfs. Names cut
// short by the kernel are completed from argv[0].
func processName(pid int) string {
	if pid <= 0 {
		return unknownProcess
	}
	dir := filepath.Join(procRoot, strconv.Itoa(pid))
	data, err := os.ReadFile(filepath.Join(dir, "comm"))
	if err != nil {
		return unknownProcess
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return unknownProcess
	}
	if len(name) == commLen {
		if full := argv0Name(dir); strings.HasPrefix(full, name) {
			return full
		}
	}
	return name
}

// argv0Name returns the base name of the first NUL-separated cmdline entry.
func argv0Name(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "cmdline"))
	if err != nil {
		return ""
	}
	argv0, _, _ := strings.Cut(string(data), "\x00")
	if argv0 == "" {
		return ""
	}
	return filepath.Base(argv0)
}
