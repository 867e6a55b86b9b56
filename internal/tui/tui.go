// Package tui is an interactive terminal browser for saved layouts.
package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/windowsnap/internal/ipc"
	"github.com/1broseidon/windowsnap/internal/layout"
	"github.com/1broseidon/windowsnap/internal/restore"
)

// Service is the subset of snap.Service the browser drives.
type Service interface {
	Summaries() ([]layout.Summary, error)
	Show(name string) (*layout.Layout, error)
	Save(ctx context.Context, name string) (*layout.Layout, error)
	Restore(ctx context.Context, name string, opts restore.Options) (*layout.Layout, restore.Result, error)
	Delete(name string) error
}

// Options wires optional collaborators.
type Options struct {
	DefaultProfile string
	// SetDefault persists a new default profile. Nil disables the key.
	SetDefault func(name string) error
	// DaemonStatus queries the running daemon. Nil means never connected.
	DaemonStatus func() (*ipc.StatusData, error)
}

// Run starts the browser and blocks until the user quits.
func Run(ctx context.Context, svc Service, opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(ctx, svc, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
