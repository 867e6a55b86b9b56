package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/windowsnap/internal/config"
	"github.com/1broseidon/windowsnap/internal/ipc"
	"github.com/1broseidon/windowsnap/internal/tui"
)

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowsnap tui")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Browse saved layouts with a preview of their window geometry.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keys:")
		fmt.Fprintln(os.Stderr, "  j/k/↑/↓   Move selection")
		fmt.Fprintln(os.Stderr, "  enter, r  Restore selected layout")
		fmt.Fprintln(os.Stderr, "  t         Dry run: show what would move")
		fmt.Fprintln(os.Stderr, "  s         Save current windows over the selected layout")
		fmt.Fprintln(os.Stderr, "  n         Save current windows under a new name")
		fmt.Fprintln(os.Stderr, "  x         Delete selected layout")
		fmt.Fprintln(os.Stderr, "  d         Make selected layout the default profile")
		fmt.Fprintln(os.Stderr, "  R         Refresh")
		fmt.Fprintln(os.Stderr, "  q, Esc    Quit")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "tui takes no arguments")
		fs.Usage()
		return exitUsage
	}

	a, code := openApp(false)
	if a == nil {
		return code
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := tui.Run(ctx, a.svc, tui.Options{
		DefaultProfile: a.cfg.DefaultProfile,
		SetDefault: func(name string) error {
			if err := config.SetDefaultProfile(a.cfgPath, name); err != nil {
				return err
			}
			// The daemon also picks the change up from its file watcher.
			_ = ipc.NewClient().Reload()
			return nil
		},
		DaemonStatus: ipc.NewClient().GetStatus,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailed
	}
	return exitOK
}
