package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/windowsnap/internal/config"
	"github.com/1broseidon/windowsnap/internal/output"
)

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  windowsnap config print [--format json|yaml]")
	fmt.Fprintln(w, "  windowsnap config path")
	fmt.Fprintln(w, "  windowsnap config set-default <name>")
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return exitUsage
	}

	switch args[0] {
	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		format := fs.String("format", "json", "Output format: json, yaml")
		defaults := fs.Bool("defaults", false, "Print built-in defaults instead of the loaded config")
		if err := fs.Parse(args[1:]); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return exitOK
			}
			return exitUsage
		}
		f, err := output.ParseFormat(*format)
		if err != nil || !f.Structured() {
			fmt.Fprintf(os.Stderr, "unsupported config format %q (expected: json, yaml)\n", *format)
			return exitUsage
		}

		cfg := config.DefaultConfig()
		if !*defaults {
			res, err := loadConfig()
			if err != nil {
				fmt.Fprintf(os.Stderr, "[X] %v\n", err)
				return exitFailed
			}
			cfg = res.Config
		}
		if err := output.Encode(os.Stdout, f, cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitFailed
		}
		return exitOK

	case "path":
		path, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitFailed
		}
		fmt.Println(path)
		return exitOK

	case "set-default":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "set-default requires exactly one profile name")
			return exitUsage
		}
		path, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitFailed
		}
		if err := config.SetDefaultProfile(path, args[1]); err != nil {
			fmt.Printf("[X] %v\n", err)
			return exitFailed
		}
		fmt.Printf("[OK] Default profile set to '%s'\n", args[1])
		return exitOK

	case "help", "-h", "--help":
		printConfigUsage(os.Stdout)
		return exitOK

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n\n", args[0])
		printConfigUsage(os.Stderr)
		return exitUsage
	}
}
