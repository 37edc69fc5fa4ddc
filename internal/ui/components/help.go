package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/go-wordwrap"

	"github.com/willibrandon/squeal/internal/ui/styles"
)

const helpNotes = "Drag the sidebar edge or the divider between editor and results with the mouse " +
	"to resize them; ctrl+b collapses the sidebar. Click a tab to open it and use the wheel " +
	"to scroll results. In vim mode the editor starts in NORMAL: i, a, I, A, o and O insert; " +
	"esc returns to NORMAL; h j k l w b 0 $ gg G move; x and dd delete."

// Help renders the short footer and the full key dialog.
type Help struct {
	model  help.Model
	width  int
	height int
}

// NewHelp creates a new help component
func NewHelp() *Help {
	return &Help{model: help.New()}
}

// SetSize sets the area the dialog is centred in
func (h *Help) SetSize(width, height int) {
	h.width, h.height = width, height
	h.model.Width = width
}

// SetStyles applies the theme.
func (h *Help) SetStyles(st styles.Styles) {
	h.model.Styles.ShortKey = lipgloss.NewStyle().Foreground(st.Palette.Primary)
	h.model.Styles.ShortDesc = st.Dim
	h.model.Styles.ShortSeparator = st.Dim
	h.model.Styles.FullKey = lipgloss.NewStyle().Foreground(st.Palette.Primary).Bold(true)
	h.model.Styles.FullDesc = lipgloss.NewStyle().Foreground(st.Palette.Text)
	h.model.Styles.FullSeparator = st.Dim
}

// ShortView renders the one-line footer.
func (h *Help) ShortView(keys help.KeyMap) string {
	return h.model.ShortHelpView(keys.ShortHelp())
}

// View renders the full dialog centred in the window.
func (h *Help) View(keys help.KeyMap, st styles.Styles) string {
	var b strings.Builder
	b.WriteString(st.Header.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(h.model.FullHelpView(keys.FullHelp()))
	b.WriteString("\n\n")

	wrap := uint(max(min(h.width-8, 72), 20))
	b.WriteString(st.Dim.Render(wordwrap.WrapString(helpNotes, wrap)))

	dialog := st.HelpDialog.Render(b.String())
	if h.width > 0 {
		dialog = lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, dialog)
	}
	return dialog
}
