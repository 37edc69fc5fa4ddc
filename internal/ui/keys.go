// Package ui holds the workbench key map and the TUI pieces shared across components.
package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the workbench bindings that apply regardless of focus.
type KeyMap struct {
	Run key.Binding

	NewTab    key.Binding
	CloseTab  key.Binding
	RenameTab key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding

	FocusNext     key.Binding
	ToggleSidebar key.Binding
	SplitLeft     key.Binding
	SplitRight    key.Binding
	SidebarNarrow key.Binding
	SidebarWiden  key.Binding

	ToggleTheme key.Binding
	ToggleVim   key.Binding
	Export      key.Binding
	CopyRow     key.Binding
	CopySQL     key.Binding
	ClearResult key.Binding

	Help    key.Binding
	Notices key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keyboard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// ctrl+enter arrives as ctrl+j on most terminals
		Run: key.NewBinding(
			key.WithKeys("ctrl+enter", "ctrl+j", "f5"),
			key.WithHelp("ctrl+enter", "run"),
		),

		NewTab: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new tab"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "close tab"),
		),
		RenameTab: key.NewBinding(
			key.WithKeys("ctrl+r", "f2"),
			key.WithHelp("ctrl+r", "rename"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("ctrl+pgdown", "alt+]"),
			key.WithHelp("alt+]", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("ctrl+pgup", "alt+["),
			key.WithHelp("alt+[", "prev tab"),
		),

		FocusNext: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "switch pane"),
		),
		ToggleSidebar: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "sidebar"),
		),
		SplitLeft: key.NewBinding(
			key.WithKeys("ctrl+left"),
			key.WithHelp("ctrl+←/→", "resize split"),
		),
		SplitRight: key.NewBinding(
			key.WithKeys("ctrl+right"),
			key.WithHelp("ctrl+←/→", "resize split"),
		),
		SidebarNarrow: key.NewBinding(
			key.WithKeys("ctrl+shift+left", "alt+left"),
			key.WithHelp("alt+←/→", "resize sidebar"),
		),
		SidebarWiden: key.NewBinding(
			key.WithKeys("ctrl+shift+right", "alt+right"),
			key.WithHelp("alt+←/→", "resize sidebar"),
		),

		ToggleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "theme"),
		),
		ToggleVim: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "vim mode"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "export csv"),
		),
		CopyRow: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy row"),
		),
		CopySQL: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "copy sql"),
		),
		ClearResult: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear result"),
		),

		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Notices: key.NewBinding(
			key.WithKeys("f12"),
			key.WithHelp("f12", "notices"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.NewTab, k.CloseTab, k.ToggleTheme, k.ToggleVim, k.Export, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help dialog, grouped by column.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Run, k.ClearResult, k.Export, k.CopyRow, k.CopySQL},
		{k.NewTab, k.CloseTab, k.RenameTab, k.NextTab, k.PrevTab},
		{k.FocusNext, k.ToggleSidebar, k.SplitLeft, k.SidebarNarrow},
		{k.ToggleTheme, k.ToggleVim, k.Help, k.Notices, k.Quit},
	}
}
