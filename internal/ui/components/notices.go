package components

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/willibrandon/squeal/internal/logger"
	"github.com/willibrandon/squeal/internal/ui/styles"
)

// NoticePanel is an overlay listing recent warnings and errors from the log.
type NoticePanel struct {
	viewport viewport.Model
	width    int
	height   int
	visible  bool
}

// NewNoticePanel creates a hidden panel.
func NewNoticePanel() *NoticePanel {
	return &NoticePanel{viewport: viewport.New(40, 8)}
}

// SetSize sets the area the panel is centred in.
func (p *NoticePanel) SetSize(width, height int) {
	p.width, p.height = width, height
	w, h := p.panelSize()
	p.viewport.Width = max(w-4, 1)
	p.viewport.Height = max(h-6, 1)
}

func (p *NoticePanel) panelSize() (int, int) {
	return max(p.width*3/4, 40), max(p.height/2, 10)
}

// Toggle flips visibility. Opening it clears the status bar counters.
func (p *NoticePanel) Toggle(st styles.Styles) {
	p.visible = !p.visible
	if p.visible {
		logger.ResetCounts()
		p.refresh(st)
	}
}

// Visible reports whether the panel is shown.
func (p *NoticePanel) Visible() bool { return p.visible }

func (p *NoticePanel) refresh(st styles.Styles) {
	notices := logger.Notices()
	lines := make([]string, 0, len(notices))
	for _, n := range notices {
		style := st.StatusWarn
		if n.Level >= slog.LevelError {
			style = st.StatusError
		}
		lines = append(lines, style.UnsetBackground().Render(n.String()))
	}
	if len(lines) == 0 {
		lines = append(lines, st.Dim.Render("No warnings or errors"))
	}
	p.viewport.SetContent(strings.Join(lines, "\n"))
	p.viewport.GotoBottom()
}

// Update scrolls the panel; esc closes it.
func (p *NoticePanel) Update(msg tea.Msg) tea.Cmd {
	if !p.visible {
		return nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && (k.Type == tea.KeyEsc || k.String() == "q") {
		p.visible = false
		return nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

// View renders the overlay.
func (p *NoticePanel) View(st styles.Styles) string {
	if !p.visible {
		return ""
	}
	w, _ := p.panelSize()

	content := lipgloss.JoinVertical(lipgloss.Left,
		st.Header.Render("Notices")+st.Dim.Render(fmt.Sprintf(" (%d retained)", len(logger.Notices()))),
		strings.Repeat("─", max(w-4, 1)),
		p.viewport.View(),
		strings.Repeat("─", max(w-4, 1)),
		st.Dim.Render("esc close · ↑/↓ scroll"),
	)
	panel := st.HelpDialog.Padding(0, 1).Width(w).Render(content)
	return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center, panel)
}
