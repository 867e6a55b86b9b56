package mcp

// ProfileInput selects a saved layout. An empty profile means the configured default.
type ProfileInput struct {
	Profile string `json:"profile,omitempty" jsonschema:"Layout profile name (default: the configured default profile)"`
}

// ListLayoutsInput is the input for the list_layouts tool.
type ListLayoutsInput struct{}

// LayoutInfo summarizes one saved layout.
type LayoutInfo struct {
	Name        string `json:"name"`
	WindowCount int    `json:"window_count"`
	Timestamp   string `json:"timestamp,omitempty"`
	Platform    string `json:"platform,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ListLayoutsOutput is the output for the list_layouts tool.
type ListLayoutsOutput struct {
	Layouts []LayoutInfo `json:"layouts"`
}

// WindowInfo describes a saved or live window.
type WindowInfo struct {
	ID      string `json:"id,omitempty"`
	PID     int    `json:"pid,omitempty"`
	Title   string `json:"title"`
	Process string `json:"process"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// ShowLayoutOutput is the output for the show_layout tool.
type ShowLayoutOutput struct {
	Profile     string       `json:"profile"`
	Timestamp   string       `json:"timestamp"`
	Platform    string       `json:"platform"`
	WindowCount int          `json:"window_count"`
	Windows     []WindowInfo `json:"windows"`
}

// SaveLayoutOutput is the output for the save_layout tool.
type SaveLayoutOutput struct {
	Profile     string `json:"profile"`
	WindowCount int    `json:"window_count"`
	Timestamp   string `json:"timestamp"`
}

// RestoreLayoutInput is the input for the restore_layout tool.
type RestoreLayoutInput struct {
	Profile string `json:"profile,omitempty" jsonschema:"Layout profile name (default: the configured default profile)"`
	DryRun  bool   `json:"dry_run,omitempty" jsonschema:"When true, report which windows would move without moving them"`
}

// RestoreOutcome is the per-window result of a restore.
type RestoreOutcome struct {
	Title     string `json:"title"`
	Process   string `json:"process"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Offscreen bool   `json:"offscreen,omitempty" jsonschema:"Saved geometry overlaps no connected monitor"`
}

// RestoreLayoutOutput is the output for the restore_layout tool.
type RestoreLayoutOutput struct {
	Profile  string           `json:"profile"`
	DryRun   bool             `json:"dry_run"`
	Restored int              `json:"restored"`
	Failed   int              `json:"failed"`
	Windows  []RestoreOutcome `json:"windows"`
}

// DeleteLayoutOutput is the output for the delete_layout tool.
type DeleteLayoutOutput struct {
	Profile string `json:"profile"`
	Deleted bool   `json:"deleted"`
}

// CurrentWindowsInput is the input for the current_windows tool.
type CurrentWindowsInput struct{}

// CurrentWindowsOutput is the output for the current_windows tool.
type CurrentWindowsOutput struct {
	Platform string       `json:"platform"`
	Count    int          `json:"count"`
	Windows  []WindowInfo `json:"windows"`
}
