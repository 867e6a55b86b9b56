package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/windowsnap/internal/layout"
	"github.com/1broseidon/windowsnap/internal/platform"
	"github.com/1broseidon/windowsnap/internal/restore"
)

func (s *Server) handleListLayouts(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListLayoutsInput) (*mcpsdk.CallToolResult, ListLayoutsOutput, error) {
	summaries, err := s.svc.Summaries()
	if err != nil {
		s.logger.Error("list_layouts failed", "error", err)
		return nil, ListLayoutsOutput{}, err
	}

	out := ListLayoutsOutput{Layouts: make([]LayoutInfo, 0, len(summaries))}
	for _, sum := range summaries {
		out.Layouts = append(out.Layouts, LayoutInfo{
			Name:        sum.Name,
			WindowCount: sum.WindowCount,
			Timestamp:   sum.Timestamp,
			Platform:    sum.Platform,
			Error:       sum.Err,
		})
	}
	return nil, out, nil
}

func (s *Server) handleShowLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args ProfileInput) (*mcpsdk.CallToolResult, ShowLayoutOutput, error) {
	name := s.profile(args.Profile)
	l, err := s.svc.Show(name)
	if err != nil {
		return nil, ShowLayoutOutput{}, fmt.Errorf("show layout %q: %w", name, err)
	}

	out := ShowLayoutOutput{
		Profile:     l.ProfileName,
		Timestamp:   l.Timestamp,
		Platform:    l.Platform,
		WindowCount: l.WindowCount,
		Windows:     make([]WindowInfo, 0, len(l.Windows)),
	}
	for _, r := range l.Windows {
		out.Windows = append(out.Windows, recordInfo(r))
	}
	return nil, out, nil
}

func (s *Server) handleSaveLayout(ctx context.Context, _ *mcpsdk.CallToolRequest, args ProfileInput) (*mcpsdk.CallToolResult, SaveLayoutOutput, error) {
	name := s.profile(args.Profile)
	l, err := s.svc.Save(ctx, name)
	if err != nil {
		s.logger.Warn("save_layout failed", "profile", name, "error", err)
		return nil, SaveLayoutOutput{}, fmt.Errorf("save layout %q: %w", name, err)
	}
	s.logger.Info("save_layout", "profile", name, "windows", l.WindowCount)
	return nil, SaveLayoutOutput{
		Profile:     l.ProfileName,
		WindowCount: l.WindowCount,
		Timestamp:   l.Timestamp,
	}, nil
}

func (s *Server) handleRestoreLayout(ctx context.Context, _ *mcpsdk.CallToolRequest, args RestoreLayoutInput) (*mcpsdk.CallToolResult, RestoreLayoutOutput, error) {
	name := s.profile(args.Profile)
	_, res, err := s.svc.Restore(ctx, name, restore.Options{DryRun: args.DryRun})
	if err != nil {
		s.logger.Warn("restore_layout failed", "profile", name, "error", err)
		return nil, RestoreLayoutOutput{}, fmt.Errorf("restore layout %q: %w", name, err)
	}

	out := RestoreLayoutOutput{
		Profile:  name,
		DryRun:   args.DryRun,
		Restored: res.Restored,
		Failed:   res.Failed,
		Windows:  make([]RestoreOutcome, 0, len(res.Outcomes)),
	}
	for _, o := range res.Outcomes {
		ro := RestoreOutcome{
			Title:     o.Record.Title,
			Process:   o.Record.Process,
			Status:    string(o.Status),
			Offscreen: o.Offscreen,
		}
		if o.Err != nil {
			ro.Error = o.Err.Error()
		}
		out.Windows = append(out.Windows, ro)
	}
	s.logger.Info("restore_layout", "profile", name, "restored", res.Restored, "failed", res.Failed, "dry_run", args.DryRun)
	return nil, out, nil
}

func (s *Server) handleDeleteLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args ProfileInput) (*mcpsdk.CallToolResult, DeleteLayoutOutput, error) {
	name := s.profile(args.Profile)
	if err := s.svc.Delete(name); err != nil {
		return nil, DeleteLayoutOutput{}, fmt.Errorf("delete layout %q: %w", name, err)
	}
	s.logger.Info("delete_layout", "profile", name)
	return nil, DeleteLayoutOutput{Profile: name, Deleted: true}, nil
}

func (s *Server) handleCurrentWindows(ctx context.Context, _ *mcpsdk.CallToolRequest, _ CurrentWindowsInput) (*mcpsdk.CallToolResult, CurrentWindowsOutput, error) {
	windows := s.svc.Current(ctx)

	out := CurrentWindowsOutput{
		Platform: s.svc.Platform(),
		Count:    len(windows),
		Windows:  make([]WindowInfo, 0, len(windows)),
	}
	for _, w := range windows {
		out.Windows = append(out.Windows, windowInfo(w))
	}
	return nil, out, nil
}

func recordInfo(r layout.Record) WindowInfo {
	return WindowInfo{
		Title:   r.Title,
		Process: r.Process,
		X:       r.X,
		Y:       r.Y,
		Width:   r.Width,
		Height:  r.Height,
	}
}

func windowInfo(w platform.Window) WindowInfo {
	return WindowInfo{
		ID:      fmt.Sprintf("0x%x", uint64(w.ID)),
		PID:     w.PID,
		Title:   w.Title,
		Process: w.Process,
		X:       w.Bounds.X,
		Y:       w.Bounds.Y,
		Width:   w.Bounds.Width,
		Height:  w.Bounds.Height,
	}
}
