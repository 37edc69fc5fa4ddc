package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/willibrandon/squeal/internal/prefs"
)

// Styles holds every style the workbench renders with.
type Styles struct {
	Palette Palette
	Theme   prefs.Theme

	// SyntaxTheme is the chroma style name for the editor.
	SyntaxTheme string

	App    lipgloss.Style
	Title  lipgloss.Style
	Header lipgloss.Style

	Sidebar           lipgloss.Style
	SidebarItem       lipgloss.Style
	SidebarActive     lipgloss.Style
	SidebarCollapsed  lipgloss.Style
	Handle            lipgloss.Style
	HandleDragging    lipgloss.Style
	Pane              lipgloss.Style
	PaneFocused       lipgloss.Style
	EditorLineNumber  lipgloss.Style
	EditorPlaceholder lipgloss.Style

	GridHeader   lipgloss.Style
	GridCell     lipgloss.Style
	GridSelected lipgloss.Style
	GridNull     lipgloss.Style
	GridEmpty    lipgloss.Style
	GridError    lipgloss.Style

	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	StatusMode  lipgloss.Style
	StatusWarn  lipgloss.Style
	StatusError lipgloss.Style
	Toast       lipgloss.Style
	ToastError  lipgloss.Style
	HelpDialog  lipgloss.Style
	Dim         lipgloss.Style
}

// New builds the style set for theme. syntax overrides the chroma style when non-empty.
func New(theme prefs.Theme, syntax string) Styles {
	p := PaletteFor(theme)
	if syntax == "" {
		syntax = DefaultSyntaxTheme(theme)
	}

	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border)

	return Styles{
		Palette:     p,
		Theme:       theme,
		SyntaxTheme: syntax,

		App:    lipgloss.NewStyle().Foreground(p.Text),
		Title:  lipgloss.NewStyle().Bold(true).Foreground(p.Primary).Padding(0, 1),
		Header: lipgloss.NewStyle().Bold(true).Foreground(p.Primary),

		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(p.Border),
		SidebarItem: lipgloss.NewStyle().Foreground(p.Text).Padding(0, 1),
		SidebarActive: lipgloss.NewStyle().
			Foreground(p.Surface).
			Background(p.Primary).
			Bold(true).
			Padding(0, 1),
		SidebarCollapsed: lipgloss.NewStyle().Foreground(p.TextDim).Align(lipgloss.Center),
		Handle:           lipgloss.NewStyle().Foreground(p.Border),
		HandleDragging:   lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Pane:             pane,
		PaneFocused:      pane.BorderForeground(p.Primary),
		EditorLineNumber: lipgloss.NewStyle().Foreground(p.TextDim),
		EditorPlaceholder: lipgloss.NewStyle().
			Foreground(p.TextDim).
			Italic(true),

		GridHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(p.Border),
		GridCell:     lipgloss.NewStyle().Foreground(p.Text),
		GridSelected: lipgloss.NewStyle().Foreground(p.Text).Background(p.Selection),
		GridNull:     lipgloss.NewStyle().Foreground(p.TextDim).Italic(true),
		GridEmpty:    lipgloss.NewStyle().Foreground(p.TextDim).Italic(true).Padding(1, 2),
		GridError:    lipgloss.NewStyle().Foreground(p.Error).Bold(true).Padding(1, 2),

		StatusBar:   lipgloss.NewStyle().Foreground(p.Text).Background(p.SurfaceHi).Padding(0, 1),
		StatusKey:   lipgloss.NewStyle().Foreground(p.Primary).Background(p.SurfaceHi).Bold(true),
		StatusMode:  lipgloss.NewStyle().Foreground(p.Surface).Background(p.Accent).Bold(true).Padding(0, 1),
		StatusWarn:  lipgloss.NewStyle().Foreground(p.Warning).Background(p.SurfaceHi),
		StatusError: lipgloss.NewStyle().Foreground(p.Error).Background(p.SurfaceHi).Bold(true),
		Toast: lipgloss.NewStyle().
			Foreground(p.Success).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Success).
			Padding(0, 1),
		ToastError: lipgloss.NewStyle().
			Foreground(p.Error).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Error).
			Padding(0, 1),
		HelpDialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(1, 2),
		Dim: lipgloss.NewStyle().Foreground(p.TextDim),
	}
}
