package app

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/willibrandon/squeal/internal/layout"
)

const (
	headerRows = 1
	statusRows = 1
	toastRows  = 3

	// gridBodyTop is the first row of grid data below the pane top: border plus header.
	gridBodyTop = 3

	minSidebarCols = 4
)

// geometry is the layout resolved to terminal cells.
type geometry struct {
	sidebar int // columns, resize handle included
	editor  int
	handle  int // column of the split handle
	results int
	top     int
	body    int
}

func resolve(l layout.Layout, width, height, reserved int) geometry {
	sidebar := int(math.Round(l.SidebarRenderWidth() / layout.CellWidth))
	sidebar = max(min(sidebar, width/2), minSidebarCols)

	avail := max(width-sidebar-1, 0)
	editor := int(math.Round(float64(avail) * l.SplitRatio / 100))

	return geometry{
		sidebar: sidebar,
		editor:  editor,
		handle:  sidebar + editor,
		results: avail - editor,
		top:     headerRows,
		body:    max(height-headerRows-statusRows-reserved, 1),
	}
}

func (g geometry) inBody(y int) bool {
	return y >= g.top && y < g.top+g.body
}

// dragBounds is the container a drag of h is measured against. The split is measured
// past the sidebar as drawn, which is narrower than the layout width when resolve
// clamps it to half the terminal, so the container is shifted by the difference.
func (g geometry) dragBounds(h layout.Handle, l layout.Layout, width int) layout.Bounds {
	if h != layout.HandleSplit {
		return layout.Bounds{Width: float64(width) * layout.CellWidth}
	}
	drawn := float64(g.sidebar) * layout.CellWidth
	sidebar := l.SidebarRenderWidth()
	return layout.Bounds{
		Left:  drawn - sidebar,
		Width: float64(g.editor+g.results)*layout.CellWidth + sidebar,
	}
}

// pointerX converts a terminal column to the pixel position the layout expects for h.
func pointerX(h layout.Handle, col int) float64 {
	if h == layout.HandleSidebar {
		// the handle is the last sidebar column
		return float64(col+1) * layout.CellWidth
	}
	return float64(col) * layout.CellWidth
}

// pointer is the layout.Source for mouse drags. While a listener is held the
// terminal reports all motion, so a drag keeps tracking outside the handle.
type pointer struct {
	live    int
	pending []tea.Cmd
}

func (p *pointer) Listen(layout.Handle) layout.Listener {
	p.live++
	p.pending = append(p.pending, tea.EnableMouseAllMotion)
	return &pointerListener{p: p}
}

// take returns and clears the mouse mode changes queued by listeners.
func (p *pointer) take() tea.Cmd {
	cmds := p.pending
	p.pending = nil
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return tea.Sequence(cmds...)
}

type pointerListener struct {
	p        *pointer
	released bool
}

func (l *pointerListener) Release() {
	if l.released {
		return
	}
	l.released = true
	l.p.live--
	l.p.pending = append(l.p.pending, tea.EnableMouseCellMotion)
}
