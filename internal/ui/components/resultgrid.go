package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/willibrandon/squeal/internal/dispatch"
	"github.com/willibrandon/squeal/internal/ui/styles"
)

const (
	maxColumnWidth = 32
	columnGap      = 2
	gridChromeRows = 4 // borders, header, header rule
)

// Placeholder texts for results without rows.
const (
	NoResultText = "Press ctrl+enter to run the active tab"
	NoDataText   = "No data available"
)

// ResultGrid renders a dispatch.Result as a scrollable table with a row cursor.
type ResultGrid struct {
	result  dispatch.Result
	columns []string
	cells   [][]string
	nulls   [][]bool
	widths  []int

	selected  int
	offset    int
	colOffset int

	width   int
	height  int
	focused bool
}

// NewResultGrid returns an empty grid.
func NewResultGrid() *ResultGrid {
	return &ResultGrid{result: dispatch.None()}
}

// SetResult replaces the displayed result and resets scrolling.
func (g *ResultGrid) SetResult(r dispatch.Result) {
	g.result = r
	g.selected, g.offset, g.colOffset = 0, 0, 0
	g.columns = r.Columns()
	g.cells = g.cells[:0]
	g.nulls = g.nulls[:0]
	g.widths = make([]int, len(g.columns))

	for i, c := range g.columns {
		g.widths[i] = runewidth.StringWidth(c)
	}
	for _, row := range r.Rows {
		cells := make([]string, len(g.columns))
		nulls := make([]bool, len(g.columns))
		for i, c := range g.columns {
			v, ok := row.Get(c)
			if !ok || v == nil {
				nulls[i] = true
				cells[i] = "NULL"
			} else {
				cells[i] = oneLine(dispatch.FormatValue(v))
			}
			g.widths[i] = max(g.widths[i], min(runewidth.StringWidth(cells[i]), maxColumnWidth))
		}
		g.cells = append(g.cells, cells)
		g.nulls = append(g.nulls, nulls)
	}
}

// Result returns the displayed result.
func (g *ResultGrid) Result() dispatch.Result { return g.result }

// SetSize sets the outer size, borders included.
func (g *ResultGrid) SetSize(width, height int) {
	g.width, g.height = width, height
	g.clampScroll()
}

// SetFocused marks the grid as receiving navigation keys.
func (g *ResultGrid) SetFocused(f bool) { g.focused = f }

// Focused reports whether the grid receives navigation keys.
func (g *ResultGrid) Focused() bool { return g.focused }

// Selected returns the row under the cursor.
func (g *ResultGrid) Selected() (dispatch.Row, bool) {
	if g.selected < 0 || g.selected >= len(g.result.Rows) {
		return dispatch.Row{}, false
	}
	return g.result.Rows[g.selected], true
}

// SelectedIndex returns the cursor row.
func (g *ResultGrid) SelectedIndex() int { return g.selected }

// HandleKey applies a navigation key. It reports whether the key was used.
func (g *ResultGrid) HandleKey(k string) bool {
	page := max(g.visibleRows()-1, 1)
	switch k {
	case "up", "k":
		g.moveTo(g.selected - 1)
	case "down", "j":
		g.moveTo(g.selected + 1)
	case "pgup", "ctrl+u":
		g.moveTo(g.selected - page)
	case "pgdown", "ctrl+d":
		g.moveTo(g.selected + page)
	case "home", "g":
		g.moveTo(0)
	case "end", "G":
		g.moveTo(len(g.cells) - 1)
	case "left", "h":
		g.colOffset = max(g.colOffset-1, 0)
	case "right", "l":
		g.colOffset = min(g.colOffset+1, max(len(g.columns)-1, 0))
	case "0":
		g.colOffset = 0
	case "$":
		g.colOffset = max(len(g.columns)-1, 0)
	default:
		return false
	}
	return true
}

// ScrollBy moves the cursor by delta rows, as the mouse wheel does.
func (g *ResultGrid) ScrollBy(delta int) {
	g.moveTo(g.selected + delta)
}

// SelectVisibleRow moves the cursor to the row drawn at line y of the grid body.
func (g *ResultGrid) SelectVisibleRow(y int) {
	g.moveTo(g.offset + y)
}

func (g *ResultGrid) moveTo(i int) {
	if len(g.cells) == 0 {
		return
	}
	g.selected = max(min(i, len(g.cells)-1), 0)
	g.clampScroll()
}

func (g *ResultGrid) visibleRows() int {
	return max(g.height-gridChromeRows-1, 1)
}

func (g *ResultGrid) clampScroll() {
	vis := g.visibleRows()
	if g.selected < g.offset {
		g.offset = g.selected
	}
	if g.selected >= g.offset+vis {
		g.offset = g.selected - vis + 1
	}
	g.offset = max(min(g.offset, len(g.cells)-vis), 0)
}

// View renders the pane.
func (g *ResultGrid) View(st styles.Styles) string {
	frame := st.Pane
	if g.focused {
		frame = st.PaneFocused
	}
	inner := max(g.width-2, 1)
	frame = frame.Width(inner).Height(max(g.height-2, 1))

	switch {
	case g.result.Kind == dispatch.KindNone:
		return frame.Render(st.GridEmpty.Render(ansi.Truncate(NoResultText, max(inner-4, 1), "…")))
	case g.result.Kind == dispatch.KindError:
		return frame.Render(st.GridError.Render(ansi.Wrap(g.result.Message, max(inner-4, 1), "")))
	case len(g.cells) == 0:
		return frame.Render(st.GridEmpty.Render(NoDataText))
	}

	return frame.Render(g.table(inner, st))
}

func (g *ResultGrid) table(width int, st styles.Styles) string {
	cols := g.visibleColumns(width)

	var b strings.Builder
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = runewidth.FillRight(runewidth.Truncate(g.columns[c], g.widths[c], "…"), g.widths[c])
	}
	b.WriteString(st.GridHeader.Render(ansi.Truncate(strings.Join(header, strings.Repeat(" ", columnGap)), width, "")))

	end := min(g.offset+g.visibleRows(), len(g.cells))
	for r := g.offset; r < end; r++ {
		b.WriteByte('\n')
		parts := make([]string, len(cols))
		for i, c := range cols {
			text := runewidth.FillRight(runewidth.Truncate(g.cells[r][c], g.widths[c], "…"), g.widths[c])
			if g.nulls[r][c] {
				text = st.GridNull.Render(text)
			}
			parts[i] = text
		}
		line := ansi.Truncate(strings.Join(parts, strings.Repeat(" ", columnGap)), width, "")
		if r == g.selected {
			line = st.GridSelected.Render(runewidth.FillRight(ansi.Strip(line), width))
		} else {
			line = st.GridCell.Render(line)
		}
		b.WriteString(line)
	}

	b.WriteByte('\n')
	b.WriteString(st.Dim.Render(g.footer()))
	return b.String()
}

// visibleColumns returns the column indexes that fit from colOffset on.
func (g *ResultGrid) visibleColumns(width int) []int {
	var cols []int
	used := 0
	for c := g.colOffset; c < len(g.columns); c++ {
		need := g.widths[c]
		if len(cols) > 0 {
			need += columnGap
		}
		if len(cols) > 0 && used+need > width {
			break
		}
		cols = append(cols, c)
		used += need
	}
	return cols
}

func (g *ResultGrid) footer() string {
	s := fmt.Sprintf("row %d of %d", g.selected+1, len(g.cells))
	if g.colOffset > 0 {
		s += fmt.Sprintf(" · col %d/%d", g.colOffset+1, len(g.columns))
	}
	return s
}

func oneLine(s string) string {
	return strings.NewReplacer("\r\n", "↵", "\n", "↵", "\t", " ").Replace(s)
}
