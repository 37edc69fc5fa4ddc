// Package styles provides the lipgloss styling for the squeal workbench, one set per theme.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/willibrandon/squeal/internal/prefs"
)

// Palette is the colour set a theme is built from.
type Palette struct {
	Primary   lipgloss.Color
	Accent    lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Text      lipgloss.Color
	TextDim   lipgloss.Color
	Surface   lipgloss.Color
	SurfaceHi lipgloss.Color
	Border    lipgloss.Color
	Selection lipgloss.Color
}

// Dark is the default palette.
var Dark = Palette{
	Primary:   lipgloss.Color("#7D56F4"),
	Accent:    lipgloss.Color("#8BE9FD"),
	Success:   lipgloss.Color("#04B575"),
	Warning:   lipgloss.Color("#FFB86C"),
	Error:     lipgloss.Color("#FF5555"),
	Text:      lipgloss.Color("#F8F8F2"),
	TextDim:   lipgloss.Color("#6C7086"),
	Surface:   lipgloss.Color("#1E1E2E"),
	SurfaceHi: lipgloss.Color("#313244"),
	Border:    lipgloss.Color("#45475A"),
	Selection: lipgloss.Color("#44475A"),
}

// Light mirrors Dark for bright terminals.
var Light = Palette{
	Primary:   lipgloss.Color("#5B3CC4"),
	Accent:    lipgloss.Color("#0184BC"),
	Success:   lipgloss.Color("#2E7D32"),
	Warning:   lipgloss.Color("#B35900"),
	Error:     lipgloss.Color("#C62828"),
	Text:      lipgloss.Color("#383A42"),
	TextDim:   lipgloss.Color("#8A8F98"),
	Surface:   lipgloss.Color("#FAFAFA"),
	SurfaceHi: lipgloss.Color("#ECEFF4"),
	Border:    lipgloss.Color("#C0C4CC"),
	Selection: lipgloss.Color("#D7DAE0"),
}

// PaletteFor returns the palette of t.
func PaletteFor(t prefs.Theme) Palette {
	if t.IsDark() {
		return Dark
	}
	return Light
}
