package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/windowsnap/internal/ipc"
	"github.com/1broseidon/windowsnap/internal/layout"
	"github.com/1broseidon/windowsnap/internal/restore"
)

// layoutItem implements list.Item for the layout sidebar.
type layoutItem struct {
	summary   layout.Summary
	isDefault bool
}

func (i layoutItem) Title() string {
	prefix := "  "
	if i.isDefault {
		prefix = "* "
	}
	return prefix + i.summary.Name
}

func (i layoutItem) Description() string {
	if i.summary.Err != "" {
		return "  unreadable"
	}
	return fmt.Sprintf("  %d windows • %s", i.summary.WindowCount, i.summary.SavedDate())
}

func (i layoutItem) FilterValue() string { return i.summary.Name }

// clearStatusMsg clears the status line unless a newer message replaced it.
type clearStatusMsg struct {
	seq int
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeName
	modeConfirmDelete
)

// model is the root bubbletea model.
type model struct {
	ctx  context.Context
	svc  Service
	opts Options

	list  list.Model
	input textinput.Model
	mode  inputMode

	defaultProfile string
	daemon         *ipc.StatusData

	preview    *layout.Layout
	previewErr string

	statusText string
	statusErr  bool
	statusSeq  int

	width  int
	height int
}

func newModel(ctx context.Context, svc Service, opts Options) model {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Layouts"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	ti := textinput.New()
	ti.Placeholder = "layout name"
	ti.CharLimit = 64

	m := model{
		ctx:            ctx,
		svc:            svc,
		opts:           opts,
		list:           l,
		input:          ti,
		defaultProfile: opts.DefaultProfile,
	}
	m.reload()
	m.refreshDaemon()
	return m
}

// reload re-reads the layout summaries, keeping the selection when possible.
func (m *model) reload() {
	selected := m.selectedName()

	summaries, err := m.svc.Summaries()
	if err != nil {
		m.statusText = fmt.Sprintf("error: %v", err)
		m.statusErr = true
	}

	items := make([]list.Item, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, layoutItem{summary: s, isDefault: s.Name == m.defaultProfile})
	}
	m.list.SetItems(items)
	if selected != "" {
		m.selectName(selected)
	}
	m.loadPreview()
}

func (m *model) refreshDaemon() {
	m.daemon = nil
	if m.opts.DaemonStatus == nil {
		return
	}
	if st, err := m.opts.DaemonStatus(); err == nil {
		m.daemon = st
	}
}

func (m *model) selectName(name string) {
	for i, it := range m.list.Items() {
		if item, ok := it.(layoutItem); ok && item.summary.Name == name {
			m.list.Select(i)
			return
		}
	}
}

func (m model) selectedName() string {
	item, ok := m.list.SelectedItem().(layoutItem)
	if !ok {
		return ""
	}
	return item.summary.Name
}

func (m *model) loadPreview() {
	m.preview = nil
	m.previewErr = ""
	name := m.selectedName()
	if name == "" {
		return
	}
	l, err := m.svc.Show(name)
	if err != nil {
		m.previewErr = err.Error()
		return
	}
	m.preview = l
}

func (m *model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.statusText = text
	m.statusErr = isErr
	seq := m.statusSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.sidebarWidth(), m.contentHeight())
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusText = ""
			m.statusErr = false
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeName:
			return m.updateName(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
		return m.updateBrowse(msg)
	}

	if m.mode == modeName {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "enter", "r":
		return m.restoreSelected(false)
	case "t":
		return m.restoreSelected(true)
	case "s":
		name := m.selectedName()
		if name == "" {
			name = m.defaultProfile
		}
		return m.save(name)
	case "n":
		m.mode = modeName
		m.input.Reset()
		m.input.Focus()
		return m, textinput.Blink
	case "x", "delete":
		if m.selectedName() != "" {
			m.mode = modeConfirmDelete
		}
		return m, nil
	case "d":
		return m.setDefaultSelected()
	case "R", "ctrl+r":
		m.reload()
		m.refreshDaemon()
		return m, m.setStatus("refreshed", false)
	}

	prev := m.selectedName()
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if m.selectedName() != prev {
		m.loadPreview()
	}
	return m, cmd
}

func (m model) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.input.Value())
		if err := layout.ValidateName(name); err != nil {
			return m, m.setStatus(fmt.Sprintf("error: %v", err), true)
		}
		m.mode = modeBrowse
		m.input.Blur()
		return m.save(name)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	name := m.selectedName()
	if msg.String() != "y" || name == "" {
		return m, m.setStatus("delete cancelled", false)
	}
	if err := m.svc.Delete(name); err != nil {
		return m, m.setStatus(fmt.Sprintf("error: %v", err), true)
	}
	m.reload()
	return m, m.setStatus(fmt.Sprintf("deleted '%s'", name), false)
}

func (m model) save(name string) (tea.Model, tea.Cmd) {
	l, err := m.svc.Save(m.ctx, name)
	if errors.Is(err, layout.ErrNoWindows) {
		return m, m.setStatus("no windows found to save", true)
	}
	if err != nil {
		return m, m.setStatus(fmt.Sprintf("error: %v", err), true)
	}
	m.reload()
	m.selectName(name)
	m.loadPreview()
	return m, m.setStatus(fmt.Sprintf("saved '%s' (%d windows)", name, l.WindowCount), false)
}

func (m model) restoreSelected(dryRun bool) (tea.Model, tea.Cmd) {
	name := m.selectedName()
	if name == "" {
		return m, nil
	}
	_, res, err := m.svc.Restore(m.ctx, name, restore.Options{DryRun: dryRun})
	if errors.Is(err, restore.ErrUnsupported) {
		return m, m.setStatus("restore is not supported on this platform", true)
	}
	if err != nil && res.Restored == 0 && res.Failed == 0 {
		return m, m.setStatus(fmt.Sprintf("error: %v", err), true)
	}
	if dryRun {
		return m, m.setStatus(fmt.Sprintf("dry run '%s': %d would move, %d unmatched", name, res.Restored, res.Failed), res.Failed > 0)
	}
	return m, m.setStatus(fmt.Sprintf("restored %d windows, %d not found/failed", res.Restored, res.Failed), res.Failed > 0)
}

func (m model) setDefaultSelected() (tea.Model, tea.Cmd) {
	name := m.selectedName()
	if name == "" {
		return m, nil
	}
	if m.opts.SetDefault == nil {
		return m, m.setStatus("default profile cannot be changed here", true)
	}
	if err := m.opts.SetDefault(name); err != nil {
		return m, m.setStatus(fmt.Sprintf("error: %v", err), true)
	}
	m.defaultProfile = name
	m.reload()
	return m, m.setStatus(fmt.Sprintf("default set: %s", name), false)
}

// contentHeight returns the height available between the status and help bars.
func (m model) contentHeight() int {
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

func (m model) sidebarWidth() int {
	// ~35% of width, min 20, max 40
	sw := m.width * 35 / 100
	if sw < 20 {
		sw = 20
	}
	if sw > 40 {
		sw = 40
	}
	return sw
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.daemon, m.defaultProfile, m.width)
	helpBar := m.renderHelpBar()

	contentHeight := m.contentHeight()
	sidebar := lipgloss.NewStyle().
		Width(m.sidebarWidth()).
		Height(contentHeight).
		Render(m.list.View())

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.TrimSuffix(strings.Repeat("│\n", contentHeight), "\n"))

	previewWidth := m.width - m.sidebarWidth() - 3
	if previewWidth < 10 {
		previewWidth = 10
	}
	preview := m.renderPreview(previewWidth, contentHeight)

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep+" ", preview)
	return lipgloss.JoinVertical(lipgloss.Left, statusBar, columns, helpBar)
}

func (m model) renderPreview(width, height int) string {
	if m.previewErr != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(truncate(m.previewErr, width))
	}
	if m.preview == nil {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No layouts saved yet. Press n to save the current windows.")
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(truncate(fmt.Sprintf("%s  saved %s", m.preview.ProfileName, m.preview.Timestamp), width))
	summary := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Render(truncate(summarizeLayout(m.preview), width))

	legendRows := len(m.preview.Windows)
	if legendRows > height/3 {
		legendRows = height / 3
	}
	canvasHeight := height - 3 - legendRows - 1
	if canvasHeight < 3 {
		canvasHeight = 3
	}
	canvas := lipgloss.NewStyle().
		Foreground(lipgloss.Color("247")).
		Render(strings.Join(renderASCIIPreview(m.preview.Windows, width, canvasHeight), "\n"))
	legend := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Render(strings.Join(windowLegend(m.preview.Windows, width, legendRows), "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, title, summary, "", canvas, legend)
}

func renderStatusBar(daemon *ipc.StatusData, defaultProfile string, width int) string {
	var status string
	if daemon != nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{dot + " daemon running", fmt.Sprintf("hotkeys:%d", len(daemon.Hotkeys))}
		if daemon.AutosaveEnabled {
			parts = append(parts, "autosave:"+daemon.AutosaveProfile)
		}
		status = strings.Join(parts, "  ")
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		status = dot + " daemon not running"
	}
	if defaultProfile != "" {
		status += "  default:" + defaultProfile
	}

	return lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1).
		Render(status)
}

func (m model) renderHelpBar() string {
	var left string
	switch m.mode {
	case modeName:
		left = "Save current windows as: " + m.input.View()
	case modeConfirmDelete:
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Render(fmt.Sprintf("Delete '%s'? (y/N)", m.selectedName()))
	default:
		if m.statusText != "" {
			color := lipgloss.Color("42")
			if m.statusErr {
				color = lipgloss.Color("196")
			}
			left = lipgloss.NewStyle().Foreground(color).Render(m.statusText)
		}
	}

	right := ""
	if m.mode == modeBrowse {
		right = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("enter:restore  t:dry-run  s:save  n:new  x:delete  d:default  R:refresh  q:quit")
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
