package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/willibrandon/squeal/internal/ui/styles"
)

// Confirm is a yes/no overlay guarding a destructive action.
type Confirm struct {
	width   int
	height  int
	title   string
	detail  string
	target  string
	visible bool
}

// NewConfirm creates a hidden dialog.
func NewConfirm() *Confirm {
	return &Confirm{}
}

// Show opens the dialog. target identifies what the answer applies to.
func (c *Confirm) Show(title, detail, target string) {
	c.title, c.detail, c.target = title, detail, target
	c.visible = true
}

// Hide closes the dialog.
func (c *Confirm) Hide() { c.visible = false }

// Visible reports whether the dialog is open.
func (c *Confirm) Visible() bool { return c.visible }

// Target returns what Show was called with.
func (c *Confirm) Target() string { return c.target }

// SetSize sets the area the dialog is centred in.
func (c *Confirm) SetSize(width, height int) {
	c.width, c.height = width, height
}

// View renders the dialog.
func (c *Confirm) View(st styles.Styles) string {
	if !c.visible {
		return ""
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(st.Palette.Error).MarginBottom(1).Render(c.title),
		ansi.Wrap(c.detail, 52, " "),
		lipgloss.NewStyle().Bold(true).MarginTop(1).Render("[y] confirm  [n] cancel"),
	)
	dialog := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(st.Palette.Error).
		Padding(1, 2).
		Width(60).
		Render(content)
	if c.width > 0 {
		dialog = lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center, dialog)
	}
	return dialog
}
