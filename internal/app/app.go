package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/willibrandon/squeal/internal/dispatch"
	"github.com/willibrandon/squeal/internal/export"
	"github.com/willibrandon/squeal/internal/layout"
	"github.com/willibrandon/squeal/internal/logger"
	"github.com/willibrandon/squeal/internal/prefs"
	"github.com/willibrandon/squeal/internal/storage/sqlite"
	"github.com/willibrandon/squeal/internal/ui"
	"github.com/willibrandon/squeal/internal/ui/components"
	"github.com/willibrandon/squeal/internal/ui/styles"
	"github.com/willibrandon/squeal/internal/workbench"
)

const toastDuration = 4 * time.Second

// HistoryRecorder stores finished runs.
type HistoryRecorder interface {
	Add(ctx context.Context, e sqlite.HistoryEntry) error
}

// Copier puts text on the system clipboard.
type Copier interface {
	Write(text string) error
}

// Options configures the model beyond the workbench it renders.
type Options struct {
	History    HistoryRecorder
	Clipboard  Copier
	ExportDir  string
	ExportGzip bool
	DateFormat string

	SyntaxDark  string
	SyntaxLight string

	// Now stamps export file names. Defaults to time.Now.
	Now func() time.Time
}

type pane int

const (
	paneEditor pane = iota
	paneResults
)

type toast struct {
	text  string
	isErr bool
}

// Model represents the main Bubbletea application model
type Model struct {
	wb   *workbench.Workbench
	opts Options

	keys   ui.KeyMap
	styles styles.Styles

	// UI components
	sidebar   *components.Sidebar
	editor    *components.Editor
	grid      *components.ResultGrid
	statusBar *components.StatusBar
	help      *components.Help
	notices   *components.NoticePanel
	confirm   *components.Confirm

	drag    *layout.Drag
	pointer *pointer

	// UI state
	width     int
	height    int
	focus     pane
	editorTab string
	toast     *toast
	toastSeq  int

	helpVisible bool
	quitting    bool
	ready       bool
}

// New creates the model for wb. The editor starts focused on the active tab.
func New(wb *workbench.Workbench, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.Clipboard == nil {
		opts.Clipboard = ui.NewClipboard()
	}

	ptr := &pointer{}
	m := Model{
		wb:        wb,
		opts:      opts,
		keys:      ui.DefaultKeyMap(),
		sidebar:   components.NewSidebar(),
		editor:    components.NewEditor(),
		grid:      components.NewResultGrid(),
		statusBar: components.NewStatusBar(),
		help:      components.NewHelp(),
		notices:   components.NewNoticePanel(),
		confirm:   components.NewConfirm(),
		drag:      layout.NewDrag(ptr),
		pointer:   ptr,
	}
	m.statusBar.SetDateFormat(opts.DateFormat)

	st := wb.State()
	m.applyTheme(st.Prefs.Theme)
	m.editor.SetVim(st.Prefs.EditorMode == prefs.ModeVim)
	m.grid.SetResult(st.Result)
	m.editor.Focus()
	m.sync(st)
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle("squeal"), m.editor.Focus())
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case HistoryRecordedMsg:
		if msg.Err != nil {
			logger.Warn("Failed to record run history", "error", msg.Err)
		}
		return m, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			logger.Warn("Export refused", "error", msg.Err)
			return m.showToast(FormatExportError(msg.Err), true)
		}
		return m.showToast(export.FormatSuccess(msg.Result), false)

	case CopiedMsg:
		if msg.Err != nil {
			logger.Warn("Clipboard write failed", "error", msg.Err)
			return m.showToast(FormatClipboardError(msg.Err), true)
		}
		return m.showToast("Copied "+msg.What+" to clipboard", false)

	case toastExpiredMsg:
		if msg.id == m.toastSeq && m.toast != nil {
			m.toast = nil
			m.resize()
		}
		return m, nil
	}

	// cursor blink and other component messages
	if m.sidebar.Renaming() != "" {
		_, cmd := m.sidebar.Update(msg)
		return m, cmd
	}
	if m.focus == paneEditor {
		_, cmd := m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	// The confirm dialog is modal; run works from anywhere else, including the
	// rename prompt and the other overlays.
	if m.confirm.Visible() {
		return m.handleConfirm(msg)
	}
	if key.Matches(msg, m.keys.Run) {
		return m.run()
	}

	// Overlays take every other key while open
	if m.notices.Visible() {
		if key.Matches(msg, m.keys.Notices) {
			m.notices.Toggle(m.styles)
			return m, nil
		}
		return m, m.notices.Update(msg)
	}
	if m.helpVisible {
		if key.Matches(msg, m.keys.Help) || msg.Type == tea.KeyEsc {
			m.helpVisible = false
		}
		return m, nil
	}
	if m.sidebar.Renaming() != "" {
		return m.handleRename(msg)
	}

	switch {
	case key.Matches(msg, m.keys.NewTab):
		st, tab := m.wb.AddTab()
		logger.Info("Tab opened", "id", tab.ID)
		m.sync(st)
		return m, m.setFocus(paneEditor)

	case key.Matches(msg, m.keys.CloseTab):
		return m.requestClose()

	case key.Matches(msg, m.keys.RenameTab):
		st := m.wb.State()
		if st.Layout.SidebarCollapsed {
			m.setLayout(st.Layout.ToggleCollapse())
		}
		m.editor.Blur()
		return m, m.sidebar.StartRename(st.Session.Active())

	case key.Matches(msg, m.keys.NextTab):
		m.sync(m.wb.CycleTab(1))
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.sync(m.wb.CycleTab(-1))
		return m, nil

	case key.Matches(msg, m.keys.FocusNext):
		if m.focus == paneEditor {
			return m, m.setFocus(paneResults)
		}
		return m, m.setFocus(paneEditor)

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.setLayout(m.wb.State().Layout.ToggleCollapse())
		return m, nil

	case key.Matches(msg, m.keys.SplitLeft):
		m.setLayout(m.wb.State().Layout.Nudge(layout.HandleSplit, -5))
		return m, nil

	case key.Matches(msg, m.keys.SplitRight):
		m.setLayout(m.wb.State().Layout.Nudge(layout.HandleSplit, 5))
		return m, nil

	case key.Matches(msg, m.keys.SidebarNarrow):
		m.setLayout(m.wb.State().Layout.Nudge(layout.HandleSidebar, -2*layout.CellWidth))
		return m, nil

	case key.Matches(msg, m.keys.SidebarWiden):
		m.setLayout(m.wb.State().Layout.Nudge(layout.HandleSidebar, 2*layout.CellWidth))
		return m, nil

	case key.Matches(msg, m.keys.ToggleTheme):
		st := m.wb.ToggleTheme()
		m.applyTheme(st.Prefs.Theme)
		m.sync(st)
		return m, nil

	case key.Matches(msg, m.keys.ToggleVim):
		st := m.wb.ToggleEditorMode()
		m.editor.SetVim(st.Prefs.EditorMode == prefs.ModeVim)
		m.sync(st)
		return m, nil

	case key.Matches(msg, m.keys.Export):
		st := m.wb.State()
		return m, exportResult(st.Result, m.opts.ExportDir, st.Session.Active().Title, m.opts.ExportGzip, m.opts.Now())

	case key.Matches(msg, m.keys.CopyRow):
		row, ok := m.grid.Selected()
		if !ok {
			return m.showToast("No row selected", true)
		}
		line, err := export.RowCSV(row)
		if err != nil {
			return m.showToast(FormatClipboardError(err), true)
		}
		return m, copyText(m.opts.Clipboard, "row", line)

	case key.Matches(msg, m.keys.CopySQL):
		return m, copyText(m.opts.Clipboard, "SQL", m.editor.Value())

	case key.Matches(msg, m.keys.ClearResult):
		st := m.wb.ClearResult()
		m.grid.SetResult(st.Result)
		m.statusBar.SetResult("", false, time.Time{})
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = true
		return m, nil

	case key.Matches(msg, m.keys.Notices):
		m.notices.Toggle(m.styles)
		return m, nil
	}

	if m.focus == paneResults {
		m.grid.HandleKey(msg.String())
		return m, nil
	}

	changed, cmd := m.editor.Update(msg)
	if changed {
		m.wb.UpdateCode(m.editorTab, m.editor.Value())
	}
	m.statusBar.SetVimMode(m.editor.ModeLabel())
	return m, cmd
}

// run executes the active tab. The key is consumed so it never reaches the editor.
func (m Model) run() (tea.Model, tea.Cmd) {
	st := m.wb.Run()
	m.grid.SetResult(st.Result)

	var cmd tea.Cmd
	if run := st.LastRun; run != nil {
		m.statusBar.SetResult(summarize(st.Result), st.Result.Kind == dispatch.KindError, run.At)
		if m.opts.History != nil {
			cmd = recordHistory(m.opts.History, *run)
		}
	}
	return m, cmd
}

func summarize(r dispatch.Result) string {
	switch r.Kind {
	case dispatch.KindRows:
		if len(r.Rows) == 1 {
			return "1 row"
		}
		return humanize.Comma(int64(len(r.Rows))) + " rows"
	case dispatch.KindError:
		return r.Message
	default:
		return "no result"
	}
}

// requestClose closes the active tab, asking first when it holds SQL.
func (m Model) requestClose() (tea.Model, tea.Cmd) {
	tab := m.wb.State().Session.Active()
	if strings.TrimSpace(tab.Code) == "" {
		m.sync(m.wb.RemoveTab(tab.ID))
		return m, nil
	}
	m.confirm.Show("Close tab?", fmt.Sprintf("%q has SQL that will be discarded.", tab.Title), tab.ID)
	return m, nil
}

func (m Model) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		id := m.confirm.Target()
		m.confirm.Hide()
		logger.Info("Tab closed", "id", id)
		m.sync(m.wb.RemoveTab(id))
	case "n", "N", "esc":
		m.confirm.Hide()
	}
	return m, nil
}

func (m Model) handleRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	res, cmd := m.sidebar.Update(msg)
	if res == nil {
		return m, cmd
	}
	if !res.Cancelled {
		m.sync(m.wb.RenameTab(res.ID, res.Title))
	}
	return m, tea.Batch(cmd, m.setFocus(m.focus))
}

// handleMouse routes clicks, wheel and handle drags.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.overlayOpen() {
		return m, nil
	}
	st := m.wb.State()

	switch msg.Action {
	case tea.MouseActionMotion:
		if h := m.drag.Active(); h != layout.HandleNone {
			b := m.geometry().dragBounds(h, st.Layout, m.width)
			m.setLayout(m.drag.Move(st.Layout, pointerX(h, msg.X), b))
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.drag.Active() != layout.HandleNone {
			m.setLayout(m.drag.End(st.Layout))
			m.sidebar.Dragging = false
		}
		return m, m.pointer.take()
	}

	g := m.geometry()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.X > g.handle {
			m.grid.ScrollBy(-1)
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if msg.X > g.handle {
			m.grid.ScrollBy(1)
		}
		return m, nil
	case tea.MouseButtonLeft:
	default:
		return m, nil
	}

	if !g.inBody(msg.Y) {
		return m, nil
	}

	switch {
	case msg.X == g.sidebar-1 && !st.Layout.SidebarCollapsed:
		m.setLayout(m.drag.Begin(st.Layout, layout.HandleSidebar))
		m.sidebar.Dragging = true
		return m, m.pointer.take()

	case msg.X == g.handle:
		m.setLayout(m.drag.Begin(st.Layout, layout.HandleSplit))
		return m, m.pointer.take()

	case msg.X < g.sidebar:
		if id, ok := m.sidebar.TabAt(msg.Y-g.top, st.Session.Tabs()); ok {
			m.sync(m.wb.SetActiveTab(id))
		}
		return m, nil

	case msg.X < g.handle:
		return m, m.setFocus(paneEditor)

	default:
		cmd := m.setFocus(paneResults)
		if row := msg.Y - g.top - gridBodyTop; row >= 0 {
			m.grid.SelectVisibleRow(row)
		}
		return m, cmd
	}
}

func (m Model) overlayOpen() bool {
	return m.helpVisible || m.confirm.Visible() || m.notices.Visible()
}

func (m Model) showToast(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.toastSeq++
	m.toast = &toast{text: text, isErr: isErr}
	m.resize()
	return m, expireToast(m.toastSeq, toastDuration)
}

// sync points the components at st, reloading the editor when the active tab changed.
func (m *Model) sync(st workbench.State) {
	active := st.Session.Active()
	if active.ID != m.editorTab {
		m.editorTab = active.ID
		m.editor.SetValue(active.Code)
	}
	m.statusBar.SetTab(active.Title)
	m.statusBar.SetTheme(string(st.Prefs.Theme))
	m.statusBar.SetVimMode(m.editor.ModeLabel())
}

func (m *Model) setFocus(p pane) tea.Cmd {
	m.focus = p
	m.grid.SetFocused(p == paneResults)
	if p == paneEditor {
		return m.editor.Focus()
	}
	m.editor.Blur()
	return nil
}

func (m *Model) applyTheme(t prefs.Theme) {
	syntax := m.opts.SyntaxDark
	if !t.IsDark() {
		syntax = m.opts.SyntaxLight
	}
	m.styles = styles.New(t, syntax)
	m.editor.SetStyles(m.styles)
	m.help.SetStyles(m.styles)
}

func (m *Model) setLayout(l layout.Layout) {
	m.wb.SetLayout(l)
	m.resize()
}

func (m Model) geometry() geometry {
	reserved := 0
	if m.toast != nil {
		reserved = toastRows
	}
	return resolve(m.wb.State().Layout, m.width, m.height, reserved)
}

func (m *Model) resize() {
	g := m.geometry()
	m.editor.SetSize(g.editor, g.body)
	m.grid.SetSize(g.results, g.body)
	m.statusBar.SetSize(m.width)
	m.help.SetSize(m.width, m.height)
	m.notices.SetSize(m.width, m.height)
	m.confirm.SetSize(m.width, m.height)
}

// View renders the application UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	switch {
	case m.confirm.Visible():
		return m.confirm.View(m.styles)
	case m.notices.Visible():
		return m.notices.View(m.styles)
	case m.helpVisible:
		return m.help.View(m.keys, m.styles)
	}

	st := m.wb.State()
	g := m.geometry()

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.sidebar.View(st.Session.Tabs(), st.Session.ActiveID(), g.sidebar, g.body, st.Layout.SidebarCollapsed, m.styles),
		m.paneView(g.editor, g.body, func() string { return m.editor.View(m.styles) }),
		m.renderHandle(g.body, m.drag.Active() == layout.HandleSplit),
		m.paneView(g.results, g.body, func() string { return m.grid.View(m.styles) }),
	)

	rows := []string{m.renderHeader(st), body}
	if m.toast != nil {
		rows = append(rows, m.renderToast())
	}
	rows = append(rows, m.statusBar.View(m.styles))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// paneView renders a pane, or blank space when it is too narrow for its frame.
func (m Model) paneView(width, height int, render func() string) string {
	if width < 3 {
		if width <= 0 {
			return ""
		}
		return lipgloss.NewStyle().Width(width).Height(height).Render("")
	}
	return render()
}

func (m Model) renderHandle(height int, dragging bool) string {
	style := m.styles.Handle
	if dragging {
		style = m.styles.HandleDragging
	}
	return style.Render(strings.TrimSuffix(strings.Repeat("┃\n", height), "\n"))
}

func (m Model) renderHeader(st workbench.State) string {
	left := m.styles.Title.Render("squeal") + m.styles.Dim.Render("· "+st.Session.Active().Title)
	right := m.help.ShortView(m.keys)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(left, m.width, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderToast() string {
	style := m.styles.Toast
	if m.toast.isErr {
		style = m.styles.ToastError
	}
	text := ansi.Truncate(m.toast.text, max(m.width-4, 1), "…")
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, style.Render(text))
}

// Cleanup releases the pointer listener of an unfinished drag.
func (m *Model) Cleanup() {
	m.drag.Close()
}
