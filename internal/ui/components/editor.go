package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/willibrandon/squeal/internal/ui/highlight"
	"github.com/willibrandon/squeal/internal/ui/styles"
)

// Editor is the SQL text pane: a textarea while focused, a highlighted read-only
// rendering otherwise. With vim enabled, keys pass through a modal layer first.
type Editor struct {
	ta     textarea.Model
	vim    Vim
	useVim bool
	width  int
	height int
}

// NewEditor returns an empty editor.
func NewEditor() *Editor {
	ta := textarea.New()
	ta.Placeholder = "-- write SQL, then ctrl+enter"
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""
	return &Editor{ta: ta, vim: Vim{mode: VimNormal}}
}

// SetValue replaces the buffer and moves the cursor to the start.
func (e *Editor) SetValue(s string) {
	e.ta.SetValue(s)

	// the textarea ignores keys while blurred
	focused := e.ta.Focused()
	if !focused {
		e.ta.Focus()
	}
	e.ta, _ = e.ta.Update(keyTop)
	if !focused {
		e.ta.Blur()
	}
	e.vim.Reset()
}

// Value returns the buffer text.
func (e *Editor) Value() string { return e.ta.Value() }

// SetSize sets the outer size, borders included.
func (e *Editor) SetSize(width, height int) {
	e.width, e.height = width, height
	e.ta.SetWidth(max(width-2, 1))
	e.ta.SetHeight(max(height-2, 1))
}

// Focus gives the editor keyboard input.
func (e *Editor) Focus() tea.Cmd { return e.ta.Focus() }

// Blur removes keyboard input.
func (e *Editor) Blur() { e.ta.Blur() }

// Focused reports whether the editor receives keys.
func (e *Editor) Focused() bool { return e.ta.Focused() }

// SetVim switches the modal layer on or off. Turning it on starts in normal mode.
func (e *Editor) SetVim(on bool) {
	if on != e.useVim {
		e.vim.Reset()
	}
	e.useVim = on
}

// ModeLabel names the current vim mode, or "" when vim is off.
func (e *Editor) ModeLabel() string {
	if !e.useVim {
		return ""
	}
	return e.vim.mode.String()
}

// SetStyles applies the theme to the textarea.
func (e *Editor) SetStyles(st styles.Styles) {
	focused, blurred := textarea.DefaultStyles()
	focused.LineNumber = st.EditorLineNumber
	focused.CursorLineNumber = st.EditorLineNumber.Foreground(st.Palette.Accent)
	focused.Placeholder = st.EditorPlaceholder
	focused.Text = lipgloss.NewStyle().Foreground(st.Palette.Text)
	focused.CursorLine = lipgloss.NewStyle().Background(st.Palette.SurfaceHi)
	blurred.LineNumber = st.EditorLineNumber
	blurred.Placeholder = st.EditorPlaceholder
	blurred.Text = lipgloss.NewStyle().Foreground(st.Palette.TextDim)
	e.ta.FocusedStyle = focused
	e.ta.BlurredStyle = blurred
}

// Update routes a message to the textarea. changed reports whether the text moved.
func (e *Editor) Update(msg tea.Msg) (changed bool, cmd tea.Cmd) {
	before := e.ta.Value()

	if k, ok := msg.(tea.KeyMsg); ok && e.useVim {
		if e.vim.Handle(k, &e.ta) {
			return e.ta.Value() != before, nil
		}
	}

	e.ta, cmd = e.ta.Update(msg)
	return e.ta.Value() != before, cmd
}

// Cursor returns the logical line and column of the cursor.
func (e *Editor) Cursor() (line, col int) {
	info := e.ta.LineInfo()
	return e.ta.Line(), info.StartColumn + info.ColumnOffset
}

// View renders the pane. Unfocused, it shows the text highlighted with st.SyntaxTheme.
func (e *Editor) View(st styles.Styles) string {
	frame := st.Pane
	if e.ta.Focused() {
		frame = st.PaneFocused
	}
	frame = frame.Width(max(e.width-2, 1)).Height(max(e.height-2, 1))

	if e.ta.Focused() {
		return frame.Render(e.ta.View())
	}
	return frame.Render(e.highlighted(st))
}

func (e *Editor) highlighted(st styles.Styles) string {
	src := e.ta.Value()
	if src == "" {
		return st.EditorPlaceholder.Render(e.ta.Placeholder)
	}

	lines := highlight.Lines(src, st.SyntaxTheme)
	rows := max(e.height-2, 1)
	if len(lines) > rows {
		lines = lines[:rows]
	}

	gutter := len(fmt.Sprint(len(lines)))
	textWidth := max(e.width-2-gutter-1, 1)

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(st.EditorLineNumber.Render(fmt.Sprintf("%*d ", gutter, i+1)))
		b.WriteString(ansi.Truncate(l, textWidth, "…"))
	}
	return b.String()
}
