package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/squeal/internal/prefs"
	"github.com/willibrandon/squeal/internal/ui/styles"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestEditor(t *testing.T, vim bool, text string) *Editor {
	t.Helper()
	e := NewEditor()
	e.SetSize(60, 12)
	e.Focus()
	e.SetVim(vim)
	e.SetValue(text)
	return e
}

func press(e *Editor, keys ...tea.KeyMsg) {
	for _, k := range keys {
		e.Update(k)
	}
}

func TestEditor_PlainTyping(t *testing.T) {
	e := newTestEditor(t, false, "")

	changed, _ := e.Update(runes("SELECT 1;"))

	assert.True(t, changed)
	assert.Equal(t, "SELECT 1;", e.Value())
	assert.Empty(t, e.ModeLabel())
}

func TestEditor_SetValueStartsAtTop(t *testing.T) {
	e := newTestEditor(t, false, "abc\ndef")

	line, col := e.Cursor()
	assert.Zero(t, line)
	assert.Zero(t, col)

	e.Blur()
	e.SetValue("xyz\nuvw")
	line, col = e.Cursor()
	assert.Zero(t, line+col)
	assert.False(t, e.Focused())
}

func TestVim_NormalModeDoesNotInsert(t *testing.T) {
	e := newTestEditor(t, true, "abc")

	changed, _ := e.Update(runes("q"))

	assert.False(t, changed)
	assert.Equal(t, "abc", e.Value())
	assert.Equal(t, "NORMAL", e.ModeLabel())
}

func TestVim_EditingSequence(t *testing.T) {
	e := newTestEditor(t, true, "abc\ndef")

	press(e, runes("x"))
	require.Equal(t, "bc\ndef", e.Value())

	press(e, runes("d"), runes("d"))
	require.Equal(t, "def", e.Value())

	press(e, runes("A"), runes("!"), tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, "def!", e.Value())
	assert.Equal(t, "NORMAL", e.ModeLabel())

	press(e, runes("o"))
	assert.Equal(t, "INSERT", e.ModeLabel())
	press(e, runes("x"), tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, "def!\nx", e.Value())

	press(e, runes("g"), runes("g"), runes("O"), runes("top"), tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, "top\ndef!\nx", e.Value())

	press(e, runes("G"), runes("d"), runes("d"))
	assert.Equal(t, "top\ndef!", e.Value())
}

func TestVim_Motions(t *testing.T) {
	e := newTestEditor(t, true, "select name\nfrom users")

	press(e, runes("$"))
	_, col := e.Cursor()
	assert.Equal(t, 10, col)

	press(e, runes("0"))
	_, col = e.Cursor()
	assert.Zero(t, col)

	press(e, runes("l"), runes("l"), runes("h"))
	_, col = e.Cursor()
	assert.Equal(t, 1, col)

	press(e, runes("j"))
	line, _ := e.Cursor()
	assert.Equal(t, 1, line)

	press(e, runes("k"), runes("0"), runes("h"))
	line, col = e.Cursor()
	assert.Equal(t, 0, line)
	assert.Zero(t, col, "h stops at the line start")

	press(e, runes("I"), runes("-- "))
	assert.Equal(t, "-- select name\nfrom users", e.Value())
}

func TestVim_ToggleResetsToNormal(t *testing.T) {
	e := newTestEditor(t, true, "")
	press(e, runes("i"))
	require.Equal(t, "INSERT", e.ModeLabel())

	e.SetVim(false)
	e.SetVim(true)

	assert.Equal(t, "NORMAL", e.ModeLabel())
}

func TestEditor_BlurredViewHighlights(t *testing.T) {
	e := newTestEditor(t, false, "SELECT * FROM users;")
	e.Blur()

	out := ansi.Strip(e.View(styles.New(prefs.ThemeDark, "")))

	assert.Contains(t, out, "1 SELECT * FROM users;")
}
