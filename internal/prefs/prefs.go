// Package prefs defines the process-wide user preferences: colour theme and editor mode.
package prefs

import "fmt"

// Theme is the colour scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme accepts exactly "dark" or "light".
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeDark, ThemeLight:
		return Theme(s), nil
	}
	return "", fmt.Errorf("invalid theme %q: must be dark or light", s)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// IsDark reports whether t renders light text on a dark background.
func (t Theme) IsDark() bool {
	return t != ThemeLight
}

// EditorMode selects the editor key bindings.
type EditorMode string

const (
	ModeNormal EditorMode = "normal"
	ModeVim    EditorMode = "vim"
)

// ParseEditorMode accepts exactly "normal" or "vim".
func ParseEditorMode(s string) (EditorMode, error) {
	switch EditorMode(s) {
	case ModeNormal, ModeVim:
		return EditorMode(s), nil
	}
	return "", fmt.Errorf("invalid editor mode %q: must be normal or vim", s)
}

// Toggle returns the other mode.
func (m EditorMode) Toggle() EditorMode {
	if m == ModeVim {
		return ModeNormal
	}
	return ModeVim
}

// Preferences groups the persisted user choices.
type Preferences struct {
	Theme      Theme      `json:"theme"`
	EditorMode EditorMode `json:"editorMode"`
}

// Default returns dark theme with normal bindings.
func Default() Preferences {
	return Preferences{Theme: ThemeDark, EditorMode: ModeNormal}
}

// WithTheme returns p using theme.
func (p Preferences) WithTheme(theme Theme) Preferences {
	p.Theme = theme
	return p
}

// WithEditorMode returns p using mode.
func (p Preferences) WithEditorMode(mode EditorMode) Preferences {
	p.EditorMode = mode
	return p
}
