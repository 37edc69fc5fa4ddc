package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// VimMode is the state of the modal layer.
type VimMode int

const (
	VimNormal VimMode = iota
	VimInsert
)

func (m VimMode) String() string {
	if m == VimInsert {
		return "INSERT"
	}
	return "NORMAL"
}

// Vim translates normal-mode keys into the textarea's own editing keys. Insert mode
// passes everything through except esc.
type Vim struct {
	mode    VimMode
	pending rune
}

// Mode returns the current mode.
func (v *Vim) Mode() VimMode { return v.mode }

// Reset returns to normal mode with no pending operator.
func (v *Vim) Reset() {
	v.mode = VimNormal
	v.pending = 0
}

var (
	keyLeft      = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight     = tea.KeyMsg{Type: tea.KeyRight}
	keyUp        = tea.KeyMsg{Type: tea.KeyUp}
	keyDown      = tea.KeyMsg{Type: tea.KeyDown}
	keyHome      = tea.KeyMsg{Type: tea.KeyHome}
	keyEnd       = tea.KeyMsg{Type: tea.KeyEnd}
	keyDelete    = tea.KeyMsg{Type: tea.KeyDelete}
	keyBackspace = tea.KeyMsg{Type: tea.KeyBackspace}
	keyKillLine  = tea.KeyMsg{Type: tea.KeyCtrlK}
	keyEnter     = tea.KeyMsg{Type: tea.KeyEnter}
	keyTop       = tea.KeyMsg{Type: tea.KeyCtrlHome}
	keyBottom    = tea.KeyMsg{Type: tea.KeyCtrlEnd}
	keyWordNext  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}, Alt: true}
	keyWordPrev  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}, Alt: true}
)

// buffer is the view of the textarea the modal layer needs.
type buffer struct {
	ta *textarea.Model
}

func (b buffer) send(k tea.KeyMsg) {
	*b.ta, _ = b.ta.Update(k)
}

func (b buffer) line() []rune {
	lines := strings.Split(b.ta.Value(), "\n")
	if row := b.ta.Line(); row < len(lines) {
		return []rune(lines[row])
	}
	return nil
}

func (b buffer) col() int {
	info := b.ta.LineInfo()
	return info.StartColumn + info.ColumnOffset
}

// Handle consumes k when the modal layer owns it.
func (v *Vim) Handle(k tea.KeyMsg, ta *textarea.Model) bool {
	buf := buffer{ta: ta}

	if v.mode == VimInsert {
		if k.Type == tea.KeyEsc {
			v.mode = VimNormal
			if buf.col() > 0 {
				buf.send(keyLeft)
			}
			return true
		}
		return false
	}

	switch k.Type {
	case tea.KeyEsc:
		v.pending = 0
		return true
	case tea.KeyRunes:
		if len(k.Runes) != 1 || k.Alt {
			v.pending = 0
			return true
		}
	case tea.KeySpace, tea.KeyEnter, tea.KeyBackspace, tea.KeyDelete, tea.KeyTab:
		// text-changing keys are inert in normal mode
		v.pending = 0
		return true
	default:
		// arrows and other navigation keep working
		v.pending = 0
		return false
	}

	r := k.Runes[0]
	if v.pending != 0 {
		p := v.pending
		v.pending = 0
		switch {
		case p == 'd' && r == 'd':
			deleteLine(buf)
		case p == 'g' && r == 'g':
			buf.send(keyTop)
		}
		return true
	}

	switch r {
	case 'h':
		if buf.col() > 0 {
			buf.send(keyLeft)
		}
	case 'l':
		if buf.col() < len(buf.line())-1 {
			buf.send(keyRight)
		}
	case 'j':
		buf.send(keyDown)
	case 'k':
		buf.send(keyUp)
	case 'w':
		buf.send(keyWordNext)
	case 'b':
		buf.send(keyWordPrev)
	case '0':
		buf.send(keyHome)
	case '$':
		buf.send(keyEnd)
		if buf.col() > 0 {
			buf.send(keyLeft)
		}
	case 'G':
		buf.send(keyBottom)
	case 'x':
		if buf.col() < len(buf.line()) {
			buf.send(keyDelete)
		}
	case 'i':
		v.mode = VimInsert
	case 'a':
		if buf.col() < len(buf.line()) {
			buf.send(keyRight)
		}
		v.mode = VimInsert
	case 'I':
		buf.send(keyHome)
		v.mode = VimInsert
	case 'A':
		buf.send(keyEnd)
		v.mode = VimInsert
	case 'o':
		buf.send(keyEnd)
		buf.send(keyEnter)
		v.mode = VimInsert
	case 'O':
		buf.send(keyHome)
		buf.send(keyEnter)
		buf.send(keyUp)
		v.mode = VimInsert
	case 'd', 'g':
		v.pending = r
	}
	return true
}

// deleteLine removes the cursor line and leaves the cursor at the start of the line
// that takes its place.
func deleteLine(buf buffer) {
	last := buf.ta.Line() == buf.ta.LineCount()-1

	buf.send(keyHome)
	buf.send(keyKillLine)
	switch {
	case !last:
		buf.send(keyDelete)
	case buf.ta.Line() > 0:
		buf.send(keyBackspace)
		buf.send(keyHome)
	}
}
