package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/1broseidon/windowsnap/internal/layout"
	"github.com/1broseidon/windowsnap/internal/output"
	"github.com/1broseidon/windowsnap/internal/restore"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	log.SetFlags(0)
	log.SetPrefix("windowsnap: ")

	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(exitOK)
	}

	switch os.Args[1] {
	case "save":
		os.Exit(runSave(os.Args[2:]))
	case "restore":
		os.Exit(runRestore(os.Args[2:]))
	case "list":
		os.Exit(runList(os.Args[2:]))
	case "current":
		os.Exit(runCurrent(os.Args[2:]))
	case "show":
		os.Exit(runShow(os.Args[2:]))
	case "delete":
		os.Exit(runDelete(os.Args[2:]))
	case "history":
		os.Exit(runHistory(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "menu":
		os.Exit(runMenu(os.Args[2:]))
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "version", "--version":
		fmt.Printf("windowsnap %s\n", version)
		os.Exit(exitOK)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(exitOK)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(exitUsage)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "WindowSnap - save and restore window layouts")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: windowsnap <command> [options] [profile]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  save [name]         Save the current window layout")
	fmt.Fprintln(w, "  restore [name]      Restore a saved layout")
	fmt.Fprintln(w, "  list                List saved layouts")
	fmt.Fprintln(w, "  show [name]         Show the windows in a saved layout")
	fmt.Fprintln(w, "  delete [name]       Delete a saved layout")
	fmt.Fprintln(w, "  current             List currently open windows")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  history             Show recent saves and restores")
	fmt.Fprintln(w, "  history clear       Clear the history log")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config path         Print the config file path")
	fmt.Fprintln(w, "  config set-default  Set the default profile")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  menu                Open the layout menu")
	fmt.Fprintln(w, "  tui                 Browse layouts in an interactive terminal UI")
	fmt.Fprintln(w, "  daemon              Run hotkeys and autosave (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  reload              Ask the running daemon to re-read config.json")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  version             Print version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "The profile defaults to the configured default_profile ('default').")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  windowsnap save work          # Save current layout as 'work'")
	fmt.Fprintln(w, "  windowsnap restore work       # Restore 'work' layout")
	fmt.Fprintln(w, "  windowsnap list               # List all saved layouts")
	fmt.Fprintln(w, "  windowsnap delete old_layout  # Delete a layout")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'windowsnap <command> --help' for command-specific options.")
}

// parseArgs parses fs and returns the optional profile argument. Flags may
// appear before or after the profile name. ok is false when the command
// should exit with code.
func parseArgs(fs *flag.FlagSet, args []string) (profile string, code int, ok bool) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return "", exitOK, false
			}
			return "", exitUsage, false
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
	if len(positional) > 1 {
		fmt.Fprintf(os.Stderr, "%s takes at most one profile name\n", fs.Name())
		fs.Usage()
		return "", exitUsage, false
	}
	if len(positional) == 0 {
		return "", exitOK, true
	}
	return positional[0], exitOK, true
}

func formatFlag(fs *flag.FlagSet) *string {
	return fs.String("format", "text", "Output format: text, json, yaml")
}

func runSave(args []string) int {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowsnap save [name]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Save the position and size of every visible window.")
	}
	name, code, ok := parseArgs(fs, args)
	if !ok {
		return code
	}

	a, code := openApp(true)
	if a == nil {
		return code
	}
	defer a.Close()

	return doSave(a, a.cfg.ProfileOrDefault(name))
}

func doSave(a *app, name string) int {
	l, err := a.svc.Save(context.Background(), name)
	if err != nil {
		if errors.Is(err, layout.ErrNoWindows) {
			fmt.Println("[X] No windows found to save!")
			return exitFailed
		}
		fmt.Printf("[X] Error saving layout: %v\n", err)
		return exitFailed
	}

	fmt.Printf("[OK] Saved layout '%s' with %d windows\n", name, l.WindowCount)
	fmt.Println("")
	fmt.Println("Windows in this layout:")
	output.WriteWindows(os.Stdout, l.Windows)
	return exitOK
}

func runRestore(args []string) int {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dryRun := fs.Bool("dry-run", false, "Show which windows would move without moving them")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowsnap restore [--dry-run] [name]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Move windows back to a saved layout. Windows are matched by process")
		fmt.Fprintln(os.Stderr, "name and a title substring.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	name, code, ok := parseArgs(fs, args)
	if !ok {
		return code
	}

	a, code := openApp(!*dryRun)
	if a == nil {
		return code
	}
	defer a.Close()

	return doRestore(a, a.cfg.ProfileOrDefault(name), *dryRun)
}

func doRestore(a *app, name string, dryRun bool) int {
	l, res, err := a.svc.Restore(context.Background(), name, restore.Options{DryRun: dryRun})
	if err != nil {
		switch {
		case errors.Is(err, layout.ErrNotFound):
			fmt.Printf("[X] Layout '%s' not found!\n", name)
			if names, listErr := a.svc.List(); listErr == nil {
				fmt.Printf("Available layouts: %s\n", strings.Join(names, ", "))
			}
			return exitNotFound
		case errors.Is(err, restore.ErrUnsupported):
			fmt.Printf("[!] Window restoration is not supported by the %s source.\n", a.src.Name())
			fmt.Println("Use 'windowsnap restore --dry-run' to preview matches.")
			return exitUnsupported
		default:
			fmt.Printf("[X] Error restoring layout: %v\n", err)
			return exitFailed
		}
	}

	fmt.Printf("Restoring layout '%s' (%d windows)...\n", name, len(l.Windows))
	if dryRun {
		for _, o := range res.Outcomes {
			r := o.Record
			if o.Status == restore.StatusPlanned {
				fmt.Printf("  would move %s: %s -> (%d, %d) %dx%d\n", r.Process, r.Title, r.X, r.Y, r.Width, r.Height)
			} else {
				fmt.Printf("  not found  %s: %s\n", r.Process, r.Title)
			}
		}
		fmt.Printf("[OK] Dry run: %d windows would be restored, %d not found\n", res.Restored, res.Failed)
	} else {
		fmt.Printf("[OK] Restored %d windows, %d not found/failed\n", res.Restored, res.Failed)
	}

	if res.Offscreen > 0 {
		fmt.Printf("[!] %d windows were saved outside the connected monitors:\n", res.Offscreen)
		for _, o := range res.Outcomes {
			if o.Offscreen {
				fmt.Printf("  %s: %s at (%d, %d)\n", o.Record.Process, o.Record.Title, o.Record.X, o.Record.Y)
			}
		}
	}

	if res.Failed > 0 {
		return exitPartial
	}
	return exitOK
}

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	format := formatFlag(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowsnap list [--format text|json|yaml]")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "list takes no arguments")
		fs.Usage()
		return exitUsage
	}
	f, err := output.ParseFormat(*format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	a, code := openApp(false)
	if a == nil {
		return code
	}
	defer a.Close()

	summaries, err := a.svc.Summaries()
	if err != nil {
		fmt.Printf("[X] Error listing layouts: %v\n", err)
		return exitFailed
	}
	if f.Structured() {
		if err := output.Encode(os.Stdout, f, summaries); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitFailed
		}
		return exitOK
	}
	output.WriteSummaries(os.Stdout, summaries)
	return exitOK
}

func runCurrent(args []string) int {
	fs := flag.NewFlagSet("current", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	format := formatFlag(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowsnap current [--format text|json|yaml]")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "current takes no arguments")
		fs.Usage()
		return exitUsage
	}
	f, err := output.ParseFormat(*format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	a, code := openApp(true)
	if a == nil {
		return code
	}
	defer a.Close()

	return doCurrent(a, f)
}

func doCurrent(a *app, f output.Format) int {
	records := layout.FromWindows(a.svc.Current(context.Background()))
	if f.Structured() {
		if err := output.Encode(os.Stdout, f, records); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitFailed
		}
		return exitOK
	}
	if len(records) == 0 {
		fmt.Println("No windows found.")
		return exitOK
	}
	fmt.Printf("Currently open windows (%d):\n", len(records))
	output.WriteWindows(os.Stdout, records)
	return exitOK
}

func runShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	format := formatFlag(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowsnap show [--format text|json|yaml] [name]")
	}
	name, code, ok := parseArgs(fs, args)
	if !ok {
		return code
	}
	f, err := output.ParseFormat(*format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	a, code := openApp(false)
	if a == nil {
		return code
	}
	defer a.Close()

	name = a.cfg.ProfileOrDefault(name)
	l, err := a.svc.Show(name)
	if err != nil {
		if errors.Is(err, layout.ErrNotFound) {
			fmt.Printf("[X] Layout '%s' not found!\n", name)
			return exitNotFound
		}
		fmt.Printf("[X] %v\n", err)
		return exitFailed
	}

	if f.Structured() {
		if err := output.Encode(os.Stdout, f, l); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitFailed
		}
		return exitOK
	}
	summary := layout.Summary{Name: name, WindowCount: l.WindowCount, Timestamp: l.Timestamp, Platform: l.Platform}
	fmt.Printf("Layout '%s' (%d windows, saved: %s, platform: %s)\n", name, l.WindowCount, summary.SavedDate(), l.Platform)
	fmt.Println("")
	fmt.Println("Windows in this layout:")
	output.WriteWindows(os.Stdout, l.Windows)
	return exitOK
}

func runDelete(args []string) int {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowsnap delete [name]")
	}
	name, code, ok := parseArgs(fs, args)
	if !ok {
		return code
	}

	a, code := openApp(false)
	if a == nil {
		return code
	}
	defer a.Close()

	return doDelete(a, a.cfg.ProfileOrDefault(name))
}

func doDelete(a *app, name string) int {
	if err := a.svc.Delete(name); err != nil {
		if errors.Is(err, layout.ErrNotFound) {
			fmt.Printf("[X] Layout '%s' not found!\n", name)
			return exitNotFound
		}
		fmt.Printf("[X] Error deleting layout: %v\n", err)
		return exitFailed
	}
	fmt.Printf("[OK] Deleted layout '%s'\n", name)
	return exitOK
}
