package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/willibrandon/squeal/internal/session"
	"github.com/willibrandon/squeal/internal/ui/styles"
)

// sidebarHeaderRows is the number of rows above the first tab entry.
const sidebarHeaderRows = 2

// Sidebar lists the open tabs and hosts the inline rename prompt. Its right border is
// the sidebar resize handle.
type Sidebar struct {
	input    textinput.Model
	renaming string
	offset   int

	// Dragging highlights the handle.
	Dragging bool
}

// RenameResult is returned by Update once a rename prompt closes.
type RenameResult struct {
	ID        string
	Title     string
	Cancelled bool
}

// NewSidebar returns a Sidebar.
func NewSidebar() *Sidebar {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 64
	return &Sidebar{input: in}
}

// StartRename opens the prompt for tab, prefilled with its title.
func (s *Sidebar) StartRename(tab session.Tab) tea.Cmd {
	s.renaming = tab.ID
	s.input.SetValue(tab.Title)
	s.input.CursorEnd()
	return s.input.Focus()
}

// Renaming returns the id being renamed, or "".
func (s *Sidebar) Renaming() string { return s.renaming }

// Update feeds the prompt. It returns a result when enter or esc closes it.
func (s *Sidebar) Update(msg tea.Msg) (*RenameResult, tea.Cmd) {
	if s.renaming == "" {
		return nil, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEnter:
			res := &RenameResult{ID: s.renaming, Title: strings.TrimSpace(s.input.Value())}
			if res.Title == "" {
				res.Cancelled = true
			}
			s.stopRename()
			return res, nil
		case tea.KeyEsc:
			res := &RenameResult{ID: s.renaming, Cancelled: true}
			s.stopRename()
			return res, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return nil, cmd
}

func (s *Sidebar) stopRename() {
	s.renaming = ""
	s.input.Blur()
	s.input.Reset()
}

// TabAt maps a row inside the sidebar to the tab listed there.
func (s *Sidebar) TabAt(row int, tabs []session.Tab) (string, bool) {
	i := row - sidebarHeaderRows + s.offset
	if row < sidebarHeaderRows || i < 0 || i >= len(tabs) {
		return "", false
	}
	return tabs[i].ID, true
}

// View renders the sidebar into width columns, handle included, and height rows.
func (s *Sidebar) View(tabs []session.Tab, activeID string, width, height int, collapsed bool, st styles.Styles) string {
	frame := st.Sidebar
	if s.Dragging {
		frame = frame.BorderForeground(st.Palette.Accent)
	}
	frame = frame.Height(height)

	width = max(width-1, 1)
	frame = frame.Width(width)
	if collapsed {
		s.offset = 0
		return frame.Render(s.collapsedView(tabs, activeID, width, height, st))
	}

	visible := max(height-sidebarHeaderRows, 1)
	s.scrollTo(indexOf(tabs, activeID), visible, len(tabs))

	var b strings.Builder
	b.WriteString(st.Header.Render(ansi.Truncate("TABS", width, "")))
	b.WriteString("\n\n")

	end := min(s.offset+visible, len(tabs))
	for i := s.offset; i < end; i++ {
		t := tabs[i]
		if i > s.offset {
			b.WriteByte('\n')
		}

		if t.ID == s.renaming {
			s.input.Width = max(width-3, 1)
			b.WriteString(st.SidebarItem.Render("✎ " + s.input.View()))
			continue
		}

		label := ansi.Truncate(t.Title, max(width-2, 1), "…")
		if t.ID == activeID {
			b.WriteString(st.SidebarActive.Width(width).Render(label))
		} else {
			b.WriteString(st.SidebarItem.Width(width).Render(label))
		}
	}
	return frame.Render(b.String())
}

// collapsedView shows tab ordinals only.
func (s *Sidebar) collapsedView(tabs []session.Tab, activeID string, width, height int, st styles.Styles) string {
	var b strings.Builder
	b.WriteString(st.SidebarCollapsed.Width(width).Render("≡"))
	b.WriteString("\n\n")
	for i, t := range tabs {
		if i >= height-sidebarHeaderRows {
			break
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		label := ansi.Truncate(strconv.Itoa(i+1), width, "")
		if t.ID == activeID {
			b.WriteString(st.SidebarActive.Width(width).Render(label))
		} else {
			b.WriteString(st.SidebarCollapsed.Width(width).Render(label))
		}
	}
	return b.String()
}

func (s *Sidebar) scrollTo(active, visible, total int) {
	if active >= 0 {
		if active < s.offset {
			s.offset = active
		}
		if active >= s.offset+visible {
			s.offset = active - visible + 1
		}
	}
	s.offset = max(min(s.offset, total-visible), 0)
}

func indexOf(tabs []session.Tab, id string) int {
	for i, t := range tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}
