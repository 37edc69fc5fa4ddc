// Package layout models the pane geometry of the workbench: the editor/results split,
// the sidebar width and its collapse flag.
//
// Geometry is expressed in pixels. Terminal callers convert cell columns with CellWidth.
package layout

import "fmt"

const (
	DefaultSplitRatio   = 50.0
	DefaultSidebarWidth = 180.0

	MinSplitRatio   = 0.0
	MaxSplitRatio   = 100.0
	MinSidebarWidth = 120.0
	MaxSidebarWidth = 400.0

	// CollapsedWidth is the sidebar render width while collapsed.
	CollapsedWidth = 48.0

	// CellWidth is the pixel width assumed for one terminal column.
	CellWidth = 8.0
)

// Handle identifies a resize handle.
type Handle int

const (
	HandleNone Handle = iota
	HandleSplit
	HandleSidebar
)

func (h Handle) String() string {
	switch h {
	case HandleSplit:
		return "split"
	case HandleSidebar:
		return "sidebar"
	default:
		return "none"
	}
}

// Bounds is the container rectangle pointer positions are measured against.
type Bounds struct {
	Left  float64
	Width float64
}

// Layout is an immutable geometry snapshot.
type Layout struct {
	SplitRatio       float64 `json:"splitRatio"`
	SidebarWidth     float64 `json:"sidebarWidth"`
	SidebarCollapsed bool    `json:"sidebarCollapsed"`

	// Dragging is transient and never persisted.
	Dragging Handle `json:"-"`
}

// Default returns the initial geometry.
func Default() Layout {
	return New(DefaultSplitRatio, DefaultSidebarWidth)
}

// New returns a layout with both values clamped into range.
func New(splitRatio, sidebarWidth float64) Layout {
	return Layout{
		SplitRatio:   clamp(splitRatio, MinSplitRatio, MaxSplitRatio),
		SidebarWidth: clamp(sidebarWidth, MinSidebarWidth, MaxSidebarWidth),
	}
}

// SidebarRenderWidth is the width the sidebar occupies on screen.
func (l Layout) SidebarRenderWidth() float64 {
	if l.SidebarCollapsed {
		return CollapsedWidth
	}
	return l.SidebarWidth
}

// ToggleCollapse flips the collapse flag. SidebarWidth is kept for restoration.
func (l Layout) ToggleCollapse() Layout {
	l.SidebarCollapsed = !l.SidebarCollapsed
	if l.SidebarCollapsed && l.Dragging == HandleSidebar {
		l.Dragging = HandleNone
	}
	return l
}

// MoveSplit places the split at pointer x within b, measured past the sidebar.
func (l Layout) MoveSplit(x float64, b Bounds) Layout {
	sidebar := l.SidebarRenderWidth()
	avail := b.Width - sidebar
	if avail <= 0 {
		return l
	}
	l.SplitRatio = clamp((x-b.Left-sidebar)/avail*100, MinSplitRatio, MaxSplitRatio)
	return l
}

// MoveSidebar sets the sidebar width from pointer x within b.
func (l Layout) MoveSidebar(x float64, b Bounds) Layout {
	l.SidebarWidth = clamp(x-b.Left, MinSidebarWidth, MaxSidebarWidth)
	return l
}

// Nudge adjusts the value behind h by delta, clamped.
func (l Layout) Nudge(h Handle, delta float64) Layout {
	switch h {
	case HandleSplit:
		l.SplitRatio = clamp(l.SplitRatio+delta, MinSplitRatio, MaxSplitRatio)
	case HandleSidebar:
		if !l.SidebarCollapsed {
			l.SidebarWidth = clamp(l.SidebarWidth+delta, MinSidebarWidth, MaxSidebarWidth)
		}
	}
	return l
}

// Validate reports values outside their domain.
func (l Layout) Validate() error {
	if l.SplitRatio < MinSplitRatio || l.SplitRatio > MaxSplitRatio {
		return fmt.Errorf("split ratio %.1f outside [%.0f,%.0f]", l.SplitRatio, MinSplitRatio, MaxSplitRatio)
	}
	if l.SidebarWidth < MinSidebarWidth || l.SidebarWidth > MaxSidebarWidth {
		return fmt.Errorf("sidebar width %.1f outside [%.0f,%.0f]", l.SidebarWidth, MinSidebarWidth, MaxSidebarWidth)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
