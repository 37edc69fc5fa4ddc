package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/willibrandon/squeal/internal/logger"
	"github.com/willibrandon/squeal/internal/ui/styles"
)

// StatusBar represents the status bar component
type StatusBar struct {
	width int

	tabTitle   string
	vimMode    string
	theme      string
	result     string
	resultErr  bool
	lastRun    time.Time
	dateFormat string
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	return &StatusBar{dateFormat: "15:04:05"}
}

// SetSize sets the width of the status bar
func (s *StatusBar) SetSize(width int) {
	s.width = width
}

// SetTab sets the active tab title
func (s *StatusBar) SetTab(title string) {
	s.tabTitle = title
}

// SetVimMode sets the vim mode label; empty hides it
func (s *StatusBar) SetVimMode(mode string) {
	s.vimMode = mode
}

// SetTheme sets the theme label
func (s *StatusBar) SetTheme(theme string) {
	s.theme = theme
}

// SetResult sets the summary of the last run.
func (s *StatusBar) SetResult(summary string, isErr bool, at time.Time) {
	s.result = summary
	s.resultErr = isErr
	s.lastRun = at
}

// SetDateFormat sets the layout used for the last run time
func (s *StatusBar) SetDateFormat(format string) {
	if format != "" {
		s.dateFormat = format
	}
}

// View renders the status bar
func (s *StatusBar) View(st styles.Styles) string {
	var left []string
	if s.vimMode != "" {
		left = append(left, st.StatusMode.Render(s.vimMode))
	}
	left = append(left, st.StatusKey.Render(s.tabTitle))
	if s.result != "" {
		r := s.result
		if !s.lastRun.IsZero() {
			r += " @ " + s.lastRun.Format(s.dateFormat)
		}
		if s.resultErr {
			left = append(left, st.StatusError.Render(r))
		} else {
			left = append(left, r)
		}
	}

	var right []string
	if warns, errs := logger.Counts(); warns > 0 || errs > 0 {
		if warns > 0 {
			right = append(right, st.StatusWarn.Render(fmt.Sprintf("⚠ %d", warns)))
		}
		if errs > 0 {
			right = append(right, st.StatusError.Render(fmt.Sprintf("✕ %d", errs)))
		}
	}
	right = append(right, s.theme)

	l := strings.Join(left, " │ ")
	r := strings.Join(right, " ")
	inner := max(s.width-2, 0)
	gap := inner - lipgloss.Width(l) - lipgloss.Width(r)
	line := l + strings.Repeat(" ", max(gap, 1)) + r
	if s.width > 0 {
		line = ansi.Truncate(line, inner, "…")
		return st.StatusBar.Width(s.width).Render(line)
	}
	return st.StatusBar.Render(line)
}
