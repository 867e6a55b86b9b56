package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/windowsnap/internal/config"
	"github.com/1broseidon/windowsnap/internal/daemon"
	"github.com/1broseidon/windowsnap/internal/history"
	"github.com/1broseidon/windowsnap/internal/hotkeys"
	"github.com/1broseidon/windowsnap/internal/ipc"
	"github.com/1broseidon/windowsnap/internal/layout"
	"github.com/1broseidon/windowsnap/internal/platform"
	"github.com/1broseidon/windowsnap/internal/runtimepath"
	"github.com/1broseidon/windowsnap/internal/snap"
	"github.com/1broseidon/windowsnap/internal/x11"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowsnap daemon")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run in the foreground: bind the hotkeys from config.json, run the")
		fmt.Fprintln(os.Stderr, "optional autosave job and reload both when config.json changes.")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return exitUsage
	}

	res, err := loadConfig()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return exitFailed
	}
	cfg := res.Config
	logger := newLogger(cfg.LogLevel)

	pidPath, err := runtimepath.PIDPath()
	if err != nil {
		log.Printf("Failed to resolve runtime directory: %v", err)
		return exitFailed
	}
	pidFile := daemon.NewPIDFile(pidPath)
	if running, pid, _ := pidFile.IsRunning(); running {
		log.Printf("Daemon already running (pid %d)", pid)
		return exitFailed
	}

	if cfg.Platform != platform.KindAuto && cfg.Platform != platform.KindX11 {
		log.Printf("Warning: the daemon always uses the x11 source (config platform is %q)", cfg.Platform)
	}
	conn, err := x11.NewConnection()
	if err != nil {
		log.Printf("Failed to connect to display: %v", err)
		return exitUnsupported
	}
	defer conn.Close()
	src := platform.NewX11SourceFromConnection(conn)

	var rec snap.Recorder
	if cfg.History.Enabled {
		db, err := history.Connect(cfg.HistoryPath(res.Path))
		if err != nil {
			log.Printf("Warning: history disabled: %v", err)
		} else {
			defer db.Close()
			rec = history.NewRepository(db)
		}
	}
	svc := snap.NewService(src, layout.NewStore(config.LayoutsDir(res.Path)), rec, logger)

	handler, err := hotkeys.NewHandler(src)
	if err != nil {
		log.Printf("Failed to set up hotkeys: %v", err)
		return exitFailed
	}

	autosaver, err := daemon.NewAutosaver(svc, logger)
	if err != nil {
		log.Printf("Failed to set up autosave: %v", err)
		return exitFailed
	}
	autosaver.Start()
	defer func() {
		if err := autosaver.Stop(); err != nil {
			logger.Warn("autosave shutdown failed", "error", err)
		}
	}()

	d := daemon.New(cfg, daemon.Options{
		Service:    svc,
		Hotkeys:    handler,
		Autosave:   autosaver,
		OpenMenu:   launchMenu,
		ConfigPath: res.Path,
		Logger:     logger,
	})
	d.Apply(cfg)

	if socketPath, err := runtimepath.SocketPath(); err != nil {
		logger.Warn("control socket disabled", "error", err)
	} else {
		ipcServer := ipc.NewServer(socketPath, d, logger)
		if err := ipcServer.Start(); err != nil {
			logger.Warn("control socket disabled", "error", err)
		} else {
			defer ipcServer.Stop()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher, err := daemon.NewConfigWatcher(res.Path, d.Apply, logger)
	if err != nil {
		logger.Warn("config hot reload disabled", "error", err)
	} else if err := watcher.Start(ctx); err != nil {
		logger.Warn("config hot reload disabled", "error", err)
	} else {
		defer watcher.Stop()
	}

	if err := pidFile.Write(); err != nil {
		log.Printf("Warning: failed to write PID file: %v", err)
	}
	defer pidFile.Remove()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig.String())
		cancel()
		conn.Quit()
	}()

	logger.Info("windowsnap daemon started", "pid", os.Getpid(), "config", res.Path)
	conn.EventLoop()
	return exitOK
}

// launchMenu opens the layout menu in a separate process so the event loop
// keeps running.
func launchMenu() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to find executable: %w", err)
	}
	cmd := exec.Command(exe, "menu")
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch menu: %w", err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("Menu exited: %v", err)
		}
	}()
	return nil
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: windowsnap status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status and where layouts are stored.")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return exitUsage
	}

	pidPath, err := runtimepath.PIDPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailed
	}
	running, pid, err := daemon.NewPIDFile(pidPath).IsRunning()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailed
	}

	res, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailed
	}
	platformName, err := resolvePlatform(res.Config.Platform)
	if err != nil {
		platformName = fmt.Sprintf("unavailable (%v)", err)
	}
	names, err := layout.NewStore(config.LayoutsDir(res.Path)).List()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailed
	}

	fmt.Printf("daemon_running:  %v\n", running)
	if running {
		fmt.Printf("daemon_pid:      %d\n", pid)
		if st, err := ipc.NewClient().GetStatus(); err == nil {
			fmt.Printf("uptime:          %s\n", time.Duration(st.UptimeSeconds)*time.Second)
			fmt.Printf("hotkeys:         %d\n", len(st.Hotkeys))
			for _, h := range st.Hotkeys {
				fmt.Printf("  %s\n", h)
			}
			if st.AutosaveEnabled {
				next := st.NextAutosave
				if next == "" {
					next = "pending"
				}
				fmt.Printf("autosave:        '%s', next run %s\n", st.AutosaveProfile, next)
			} else {
				fmt.Printf("autosave:        off\n")
			}
		}
	}
	fmt.Printf("platform:        %s\n", platformName)
	fmt.Printf("default_profile: %s\n", res.Config.DefaultProfile)
	fmt.Printf("layouts:         %d\n", len(names))
	fmt.Printf("config:          %s\n", res.Path)
	fmt.Printf("layouts_dir:     %s\n", config.LayoutsDir(res.Path))
	return exitOK
}

func runReload(args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "Usage: windowsnap reload")
		return exitUsage
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Printf("[X] %v\n", err)
		return exitFailed
	}
	fmt.Println("[OK] Daemon configuration reloaded")
	return exitOK
}
