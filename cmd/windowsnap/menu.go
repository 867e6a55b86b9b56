package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/1broseidon/windowsnap/internal/layout"
	"github.com/1broseidon/windowsnap/internal/output"
	"github.com/1broseidon/windowsnap/internal/palette"
)

func runMenu(args []string) int {
	fs := flag.NewFlagSet("menu", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	backendName := fs.String("backend", "", "Palette backend: auto, terminal, rofi, fuzzel, wofi, dmenu (default: palette_backend from config)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowsnap menu [--backend NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show a menu to save, restore or delete layouts. Uses an interactive")
		fmt.Fprintln(os.Stderr, "picker on a terminal and rofi/fuzzel/wofi/dmenu otherwise.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "menu takes no arguments")
		fs.Usage()
		return exitUsage
	}

	a, code := openApp(false)
	if a == nil {
		return code
	}
	defer a.Close()

	name := *backendName
	if name == "" {
		name = a.cfg.PaletteBackend
	}
	backend, err := palette.NewBackend(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailed
	}

	summaries, err := a.svc.Summaries()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[X] Error listing layouts: %v\n", err)
		return exitFailed
	}

	menu := palette.NewMenu(backend, palette.BuildMenu(a.cfg.DefaultProfile, summaries))
	menu.SetMessage(menuMessage(a, summaries))

	result, err := menu.Show()
	if err != nil {
		if errors.Is(err, palette.ErrCancelled) {
			return exitOK
		}
		fmt.Fprintln(os.Stderr, err)
		return exitFailed
	}

	action, err := palette.ParseMenuAction(result.Action)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailed
	}
	return executeMenuAction(a, backend, action)
}

func executeMenuAction(a *app, backend palette.Backend, action palette.MenuAction) int {
	if a.srcErr != nil && action.Kind != palette.MenuDelete {
		fmt.Fprintf(os.Stderr, "[X] %v\n", a.srcErr)
		return exitFailed
	}

	switch action.Kind {
	case palette.MenuSave:
		return doSave(a, action.Profile)

	case palette.MenuSaveAs:
		name, err := backend.Input("Layout name")
		if err != nil {
			if errors.Is(err, palette.ErrCancelled) {
				return exitOK
			}
			fmt.Fprintln(os.Stderr, err)
			return exitFailed
		}
		name = strings.TrimSpace(name)
		if err := layout.ValidateName(name); err != nil {
			fmt.Printf("[X] %v\n", err)
			return exitFailed
		}
		return doSave(a, name)

	case palette.MenuRestore:
		return doRestore(a, action.Profile, false)

	case palette.MenuDelete:
		return doDelete(a, action.Profile)

	case palette.MenuCurrent:
		if palette.IsInteractive() {
			return doCurrent(a, output.FormatText)
		}
		return showCurrentInPalette(a, backend)

	default:
		fmt.Fprintf(os.Stderr, "unsupported menu action %q\n", action.Kind)
		return exitFailed
	}
}

// showCurrentInPalette lists the live windows in the launcher itself.
func showCurrentInPalette(a *app, backend palette.Backend) int {
	windows := a.svc.Current(context.Background())

	items := make([]palette.Item, 0, len(windows)+1)
	items = append(items, palette.Item{
		Label:    fmt.Sprintf("Currently open windows (%d)", len(windows)),
		IsHeader: true,
	})
	for _, w := range windows {
		items = append(items, palette.Item{
			Label: fmt.Sprintf("%s: %s  (%d, %d) %dx%d", w.Process, w.Title, w.Bounds.X, w.Bounds.Y, w.Bounds.Width, w.Bounds.Height),
			Icon:  "window",
		})
	}

	if _, err := backend.Show("windows", items, ""); err != nil && !errors.Is(err, palette.ErrCancelled) {
		fmt.Fprintln(os.Stderr, err)
		return exitFailed
	}
	return exitOK
}

func menuMessage(a *app, summaries []layout.Summary) string {
	parts := []string{
		fmt.Sprintf("%d saved layouts", len(summaries)),
		fmt.Sprintf("default: %s", a.cfg.DefaultProfile),
	}
	if a.srcErr == nil {
		parts = append(parts, a.src.Name())
	}
	return strings.Join(parts, " • ")
}
