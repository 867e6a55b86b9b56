// Package mcp exposes windowsnap layouts as MCP tools over stdio.
package mcp

import (
	"context"
	"log/slog"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/windowsnap/internal/config"
	"github.com/1broseidon/windowsnap/internal/layout"
	"github.com/1broseidon/windowsnap/internal/platform"
	"github.com/1broseidon/windowsnap/internal/restore"
)

const ServerName = "windowsnap"

// LayoutService is the subset of snap.Service used by the tools.
type LayoutService interface {
	Platform() string
	Current(ctx context.Context) []platform.Window
	Save(ctx context.Context, name string) (*layout.Layout, error)
	Restore(ctx context.Context, name string, opts restore.Options) (*layout.Layout, restore.Result, error)
	Delete(name string) error
	Show(name string) (*layout.Layout, error)
	Summaries() ([]layout.Summary, error)
}

// Options configures a Server.
type Options struct {
	DefaultProfile string
	Version        string
	Logger         *slog.Logger
}

// Server is the MCP server for windowsnap layouts.
type Server struct {
	mcpServer      *mcpsdk.Server
	svc            LayoutService
	defaultProfile string
	logger         *slog.Logger
}

// NewServer creates a server with all layout tools registered.
func NewServer(svc LayoutService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	defaultProfile := strings.TrimSpace(opts.DefaultProfile)
	if defaultProfile == "" {
		defaultProfile = config.DefaultProfile
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		svc:            svc,
		defaultProfile: defaultProfile,
		logger:         logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: version,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Connect serves a single session on t.
func (s *Server) Connect(ctx context.Context, t mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_layouts",
		Description: "List saved window layouts with their window count, save time and platform.",
	}, s.handleListLayouts)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "show_layout",
		Description: "Show the windows recorded in a saved layout (title, process, position and size).",
	}, s.handleShowLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "save_layout",
		Description: "Save the position and size of every visible window under a profile name, replacing any layout already saved under that name.",
	}, s.handleSaveLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_layout",
		Description: "Move windows back to the positions saved in a layout. Windows are matched by process name and a title substring; unmatched windows are reported as not_found. Use dry_run to preview.",
	}, s.handleRestoreLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "delete_layout",
		Description: "Delete a saved layout.",
	}, s.handleDeleteLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "current_windows",
		Description: "List the visible, titled windows on this desktop with their process name and geometry.",
	}, s.handleCurrentWindows)
}

func (s *Server) profile(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.defaultProfile
	}
	return name
}
