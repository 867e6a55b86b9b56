package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/windowsnap/internal/history"
	"github.com/1broseidon/windowsnap/internal/output"
)

func runHistory(args []string) int {
	if len(args) > 0 && args[0] == "clear" {
		return runHistoryClear(args[1:])
	}

	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	limit := fs.Int("limit", 20, "Maximum number of events to show")
	profile := fs.String("profile", "", "Only show events for this profile")
	format := formatFlag(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  windowsnap history [--limit N] [--profile NAME] [--format text|json|yaml]")
		fmt.Fprintln(os.Stderr, "  windowsnap history clear")
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
		fs.Usage()
		return exitUsage
	}
	if *limit < 1 {
		fmt.Fprintln(os.Stderr, "--limit must be >= 1")
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

	if a.history == nil {
		fmt.Println("[!] History is disabled (set history.enabled in config.json)")
		return exitFailed
	}

	var events []history.Event
	if *profile != "" {
		events, err = a.history.ForProfile(*profile, *limit)
	} else {
		events, err = a.history.Recent(*limit)
	}
	if err != nil {
		fmt.Printf("[X] %v\n", err)
		return exitFailed
	}

	if f.Structured() {
		if events == nil {
			events = []history.Event{}
		}
		if err := output.Encode(os.Stdout, f, events); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitFailed
		}
		return exitOK
	}
	output.WriteEvents(os.Stdout, events)
	return exitOK
}

func runHistoryClear(args []string) int {
	fs := flag.NewFlagSet("history clear", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowsnap history clear")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return exitUsage
	}

	a, code := openApp(false)
	if a == nil {
		return code
	}
	defer a.Close()

	if a.history == nil {
		fmt.Println("[!] History is disabled (set history.enabled in config.json)")
		return exitFailed
	}
	n, err := a.history.Clear()
	if err != nil {
		fmt.Printf("[X] %v\n", err)
		return exitFailed
	}
	fmt.Printf("[OK] Cleared %d history events\n", n)
	return exitOK
}
