package app

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/squeal/internal/dispatch"
	"github.com/willibrandon/squeal/internal/layout"
	"github.com/willibrandon/squeal/internal/prefs"
	"github.com/willibrandon/squeal/internal/storage/sqlite"
	"github.com/willibrandon/squeal/internal/ui"
	"github.com/willibrandon/squeal/internal/workbench"
)

type fakeHistory struct {
	entries []sqlite.HistoryEntry
}

func (f *fakeHistory) Add(_ context.Context, e sqlite.HistoryEntry) error {
	f.entries = append(f.entries, e)
	return nil
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) Write(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

type harness struct {
	m       Model
	wb      *workbench.Workbench
	store   *workbench.MemoryStore
	history *fakeHistory
	clip    *fakeClipboard
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	disp, err := dispatch.New()
	require.NoError(t, err)

	store := workbench.NewMemoryStore(nil)
	wb := workbench.Open(store, disp)
	h := &harness{wb: wb, store: store, history: &fakeHistory{}, clip: &fakeClipboard{}}
	h.m = New(wb, Options{
		History:   h.history,
		Clipboard: h.clip,
		ExportDir: t.TempDir(),
		Now:       func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	})
	h.send(t, tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

// send delivers msg and keeps the updated model.
func (h *harness) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

// sendAndRun delivers msg, then the message its command produces.
func (h *harness) sendAndRun(t *testing.T, msg tea.Msg) {
	t.Helper()
	cmd := h.send(t, msg)
	require.NotNil(t, cmd)
	h.send(t, cmd())
}

func (h *harness) typeText(t *testing.T, s string) {
	t.Helper()
	for _, r := range s {
		h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func ctrl(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func TestNew_LoadsActiveTab(t *testing.T) {
	h := newHarness(t)

	assert.True(t, h.m.editor.Focused())
	assert.Equal(t, h.wb.State().Session.Active().Code, h.m.editor.Value())
	assert.Contains(t, ansi.Strip(h.m.View()), "Readme.md")
}

func TestRun_ConsumesKeyAndRecordsHistory(t *testing.T) {
	h := newHarness(t)
	h.wb.SetActiveTab("tab-5")
	h.send(t, ctrl(tea.KeyCtrlPgUp))
	h.send(t, ctrl(tea.KeyCtrlPgDown))
	require.Equal(t, "tab-5", h.m.editorTab)
	before := h.m.editor.Value()

	h.sendAndRun(t, ctrl(tea.KeyCtrlJ))

	assert.Equal(t, before, h.m.editor.Value(), "run key never inserts a newline")
	assert.Equal(t, dispatch.ErrorResult(dispatch.NotFoundMessage), h.m.grid.Result())
	require.Len(t, h.history.entries, 1)
	assert.Equal(t, "tab-5", h.history.entries[0].TabID)
	assert.Equal(t, dispatch.NotFoundMessage, h.history.entries[0].Error)
	assert.Contains(t, ansi.Strip(h.m.View()), dispatch.NotFoundMessage)
}

func TestRun_Rows(t *testing.T) {
	h := newHarness(t)
	h.send(t, ctrl(tea.KeyCtrlPgDown))
	require.Equal(t, "tab-2", h.m.editorTab)

	h.sendAndRun(t, tea.KeyMsg{Type: tea.KeyF5})

	assert.True(t, h.m.grid.Result().HasRows())
	assert.Equal(t, len(h.m.grid.Result().Rows), h.history.entries[0].RowCount)
	assert.Contains(t, ansi.Strip(h.m.View()), "row 1 of")
}

func TestTyping_UpdatesWorkbench(t *testing.T) {
	h := newHarness(t)

	h.send(t, ctrl(tea.KeyCtrlN))
	id := h.m.editorTab
	h.typeText(t, "SELECT 1;")

	tab, err := h.wb.Lookup(id)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;", tab.Code)
	assert.Equal(t, 6, h.wb.State().Session.Len())
}

func TestCloseTab_ConfirmsWhenTabHasSQL(t *testing.T) {
	h := newHarness(t)
	h.send(t, ctrl(tea.KeyCtrlPgDown))

	h.send(t, ctrl(tea.KeyCtrlW))
	require.True(t, h.m.confirm.Visible())
	assert.Contains(t, ansi.Strip(h.m.View()), "Close tab?")

	h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.False(t, h.m.confirm.Visible())
	assert.Equal(t, 5, h.wb.State().Session.Len())

	h.send(t, ctrl(tea.KeyCtrlW))
	h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	assert.Equal(t, 4, h.wb.State().Session.Len())
	_, err := h.wb.Lookup("tab-2")
	assert.ErrorIs(t, err, workbench.ErrNotFound)
}

func TestCloseTab_EmptyClosesImmediately(t *testing.T) {
	h := newHarness(t)
	h.send(t, ctrl(tea.KeyCtrlN))

	h.send(t, ctrl(tea.KeyCtrlW))

	assert.False(t, h.m.confirm.Visible())
	assert.Equal(t, 5, h.wb.State().Session.Len())
}

func TestRun_WhileRenaming(t *testing.T) {
	h := newHarness(t)
	h.wb.SetActiveTab("tab-5")
	h.send(t, ctrl(tea.KeyCtrlPgUp))
	h.send(t, ctrl(tea.KeyCtrlPgDown))
	require.Equal(t, "tab-5", h.m.editorTab)

	h.send(t, ctrl(tea.KeyCtrlR))
	require.Equal(t, "tab-5", h.m.sidebar.Renaming())

	h.sendAndRun(t, ctrl(tea.KeyCtrlJ))

	assert.Equal(t, dispatch.KindError, h.wb.State().Result.Kind)
	assert.Equal(t, "tab-5", h.m.sidebar.Renaming(), "rename prompt stays open")
	assert.Equal(t, "query-four", h.wb.State().Session.Active().Title)
	require.Len(t, h.history.entries, 1)
}

func TestRun_WhileHelpOpen(t *testing.T) {
	h := newHarness(t)
	h.send(t, ctrl(tea.KeyCtrlPgDown))
	h.send(t, tea.KeyMsg{Type: tea.KeyF1})
	require.True(t, h.m.helpVisible)

	h.sendAndRun(t, tea.KeyMsg{Type: tea.KeyF5})

	assert.True(t, h.wb.State().Result.HasRows())
}

func TestRename(t *testing.T) {
	h := newHarness(t)

	h.send(t, ctrl(tea.KeyCtrlR))
	require.Equal(t, "tab-1", h.m.sidebar.Renaming())
	for range len("Readme.md") {
		h.send(t, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	h.typeText(t, "notes")
	h.send(t, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, h.m.sidebar.Renaming())
	assert.Equal(t, "notes", h.wb.State().Session.Active().Title)
	assert.True(t, h.m.editor.Focused())
}

func TestToggles_Persist(t *testing.T) {
	h := newHarness(t)

	h.send(t, ctrl(tea.KeyCtrlT))
	h.send(t, ctrl(tea.KeyCtrlV))

	theme, _, _ := h.store.Load(workbench.KeyTheme)
	mode, _, _ := h.store.Load(workbench.KeyEditorMode)
	assert.Equal(t, "light", theme)
	assert.Equal(t, "vim", mode)
	assert.Equal(t, prefs.ThemeLight, h.m.styles.Theme)
	assert.Contains(t, ansi.Strip(h.m.View()), "NORMAL")
}

func TestSplitDrag(t *testing.T) {
	h := newHarness(t)
	g := h.m.geometry()

	h.send(t, tea.MouseMsg{X: g.handle, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, layout.HandleSplit, h.wb.State().Layout.Dragging)
	assert.Equal(t, 1, h.m.pointer.live)

	// left of the sidebar
	h.send(t, tea.MouseMsg{X: 0, Y: 5, Action: tea.MouseActionMotion})
	assert.Equal(t, 0.0, h.wb.State().Layout.SplitRatio)

	h.send(t, tea.MouseMsg{X: 0, Y: 5, Action: tea.MouseActionRelease})
	assert.Equal(t, layout.HandleNone, h.wb.State().Layout.Dragging)
	assert.Zero(t, h.m.pointer.live)
	assert.NotEmpty(t, h.m.View())
}

func TestSplitDrag_FollowsPointerInNarrowTerminal(t *testing.T) {
	h := newHarness(t)
	h.send(t, tea.WindowSizeMsg{Width: 40, Height: 20})
	g := h.m.geometry()
	require.Equal(t, 20, g.sidebar, "sidebar is clamped to half the width")

	h.send(t, tea.MouseMsg{X: g.handle, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.Equal(t, layout.HandleSplit, h.wb.State().Layout.Dragging)

	for _, x := range []int{g.sidebar + 5, g.sidebar + 12, g.sidebar} {
		h.send(t, tea.MouseMsg{X: x, Y: 5, Action: tea.MouseActionMotion})
		assert.Equal(t, x, h.m.geometry().handle, "handle under pointer at column %d", x)
	}

	h.send(t, tea.MouseMsg{X: g.sidebar, Y: 5, Action: tea.MouseActionRelease})
}

func TestDragBounds(t *testing.T) {
	l := layout.Default()
	g := resolve(l, 40, 20, 0)

	b := g.dragBounds(layout.HandleSplit, l, 40)
	moved := l.MoveSplit(float64(g.sidebar)*layout.CellWidth, b)
	assert.Equal(t, 0.0, moved.SplitRatio)
	moved = l.MoveSplit(float64(g.sidebar+g.editor+g.results)*layout.CellWidth, b)
	assert.Equal(t, 100.0, moved.SplitRatio)

	assert.Equal(t, layout.Bounds{Width: 320}, g.dragBounds(layout.HandleSidebar, l, 40))
}

func TestSidebarDrag_Clamped(t *testing.T) {
	h := newHarness(t)
	g := h.m.geometry()

	h.send(t, tea.MouseMsg{X: g.sidebar - 1, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	h.send(t, tea.MouseMsg{X: 119, Y: 5, Action: tea.MouseActionMotion})
	assert.Equal(t, layout.MaxSidebarWidth, h.wb.State().Layout.SidebarWidth)

	h.send(t, tea.MouseMsg{X: 119, Y: 5, Action: tea.MouseActionRelease})
	assert.False(t, h.m.sidebar.Dragging)

	h.m.Cleanup()
	assert.Zero(t, h.m.pointer.live)
}

func TestSidebarDrag_IgnoredWhileCollapsed(t *testing.T) {
	h := newHarness(t)
	h.send(t, ctrl(tea.KeyCtrlB))
	require.True(t, h.wb.State().Layout.SidebarCollapsed)
	g := h.m.geometry()

	h.send(t, tea.MouseMsg{X: g.sidebar - 1, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	assert.Equal(t, layout.HandleNone, h.wb.State().Layout.Dragging)
	assert.Zero(t, h.m.pointer.live)
}

func TestClickSelectsTab(t *testing.T) {
	h := newHarness(t)
	g := h.m.geometry()

	// third entry below the sidebar header
	h.send(t, tea.MouseMsg{X: 2, Y: g.top + 2 + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	assert.Equal(t, "tab-3", h.wb.State().Session.ActiveID())
	assert.Equal(t, "tab-3", h.m.editorTab)
}

func TestExport_NoData(t *testing.T) {
	h := newHarness(t)

	h.sendAndRun(t, ctrl(tea.KeyCtrlE))

	require.NotNil(t, h.m.toast)
	assert.True(t, h.m.toast.isErr)
	assert.Contains(t, h.m.toast.text, "Nothing to export")
}

func TestExport_WritesCSV(t *testing.T) {
	h := newHarness(t)
	h.send(t, ctrl(tea.KeyCtrlPgDown))
	h.sendAndRun(t, ctrl(tea.KeyCtrlJ))

	h.sendAndRun(t, ctrl(tea.KeyCtrlE))

	require.NotNil(t, h.m.toast)
	require.False(t, h.m.toast.isErr, h.m.toast.text)
	path := h.m.toast.text[strings.LastIndex(h.m.toast.text, " ")+1:]
	assert.FileExists(t, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, len(h.m.grid.Result().Rows)+1, strings.Count(string(data), "\n"))
}

func TestCopy(t *testing.T) {
	h := newHarness(t)
	h.send(t, ctrl(tea.KeyCtrlPgDown))

	h.sendAndRun(t, ctrl(tea.KeyCtrlK))
	assert.Equal(t, "SELECT * FROM airlogs;", h.clip.text)

	h.sendAndRun(t, ctrl(tea.KeyCtrlJ))
	h.sendAndRun(t, ctrl(tea.KeyCtrlY))
	assert.NotEmpty(t, h.clip.text)
	assert.NotEqual(t, "SELECT * FROM airlogs;", h.clip.text)
	assert.Contains(t, h.m.toast.text, "Copied row")
}

func TestCopy_Unavailable(t *testing.T) {
	h := newHarness(t)
	h.clip.err = ui.ErrClipboardUnavailable

	h.sendAndRun(t, ctrl(tea.KeyCtrlK))

	assert.True(t, h.m.toast.isErr)
	assert.Contains(t, h.m.toast.text, "Clipboard unavailable")
}

func TestToastExpires(t *testing.T) {
	h := newHarness(t)
	h.sendAndRun(t, ctrl(tea.KeyCtrlE))
	require.NotNil(t, h.m.toast)

	h.send(t, toastExpiredMsg{id: h.m.toastSeq - 1})
	assert.NotNil(t, h.m.toast, "stale expiry is ignored")

	h.send(t, toastExpiredMsg{id: h.m.toastSeq})
	assert.Nil(t, h.m.toast)
}

func TestHelpOverlay(t *testing.T) {
	h := newHarness(t)

	h.send(t, tea.KeyMsg{Type: tea.KeyF1})
	assert.Contains(t, ansi.Strip(h.m.View()), "run")

	// keys do not leak into the editor
	before := h.m.editor.Value()
	h.typeText(t, "x")
	assert.Equal(t, before, h.m.editor.Value())

	h.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, h.m.helpVisible)
}

func TestFocusResults(t *testing.T) {
	h := newHarness(t)
	h.send(t, ctrl(tea.KeyCtrlPgDown))
	h.sendAndRun(t, ctrl(tea.KeyCtrlJ))

	h.send(t, ctrl(tea.KeyCtrlO))
	require.True(t, h.m.grid.Focused())
	h.send(t, tea.KeyMsg{Type: tea.KeyDown})

	assert.Equal(t, 1, h.m.grid.SelectedIndex())
	assert.False(t, h.m.editor.Focused())
}

func TestQuit(t *testing.T) {
	h := newHarness(t)

	cmd := h.send(t, ctrl(tea.KeyCtrlC))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, h.m.View())
}

func TestFormatErrors(t *testing.T) {
	assert.Contains(t, FormatExportError(errors.New("disk full")), "disk full")
	assert.Contains(t, FormatClipboardError(errors.New("boom")), "boom")
}
