package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/querypad/querypad/internal/grid"
)

const (
	// nullCell is how a SQL NULL renders in the grid.
	nullCell = "<NULL>"

	minColWidth = 6
	maxColWidth = 40
	colGap      = 2
	gutterWidth = 3
)

// gridColumn is a visible column resolved for rendering: its cell
// index into the row tuples and its measured display width.
type gridColumn struct {
	name  string
	cell  int
	width int
}

// visibleColumns returns the shown column names in snapshot order.
func (a App) visibleColumns() []string {
	return a.visibility.Visible(a.model.Columns())
}

// gridColumns resolves the visible columns and measures their widths
// against the header and the rows of the current window. Measuring
// only the window keeps the cost proportional to the screen, at the
// price of widths settling as new rows scroll in.
func (a App) gridColumns() []gridColumn {
	all := a.model.Columns()
	if len(all) == 0 {
		return nil
	}
	index := make(map[string]int, len(all))
	for i, name := range all {
		index[name] = i
	}

	win := grid.ComputeVisible(a.model.View(), a.gridRowCapacity(), a.scroll, 1, 0)
	sortState := a.model.SortState()

	visible := a.visibility.Visible(all)
	cols := make([]gridColumn, 0, len(visible))
	for _, name := range visible {
		col := gridColumn{name: name, cell: index[name]}
		w := runewidth.StringWidth(name)
		if sortState.Column == name && sortState.Direction != grid.SortNone {
			w += 2 // room for the direction marker
		}
		for _, row := range win.Rows {
			if cw := runewidth.StringWidth(cellText(row, col.cell)); cw > w {
				w = cw
			}
		}
		if w < minColWidth {
			w = minColWidth
		}
		if w > maxColWidth {
			w = maxColWidth
		}
		col.width = w
		cols = append(cols, col)
	}
	return cols
}

// gridWidth is the horizontal room for cells, after the marker gutter.
func (a App) gridWidth() int {
	w := a.width - gutterWidth
	if w < minColWidth {
		w = minColWidth
	}
	return w
}

// ensureColumnVisible walks the column origin right until the cursor
// column fits the viewport.
func (a *App) ensureColumnVisible() {
	if a.colCursor < a.colOffset {
		a.colOffset = a.colCursor
		return
	}
	cols := a.gridColumns()
	if len(cols) == 0 {
		a.colOffset = 0
		return
	}
	avail := a.gridWidth()
	for a.colOffset < a.colCursor {
		used := 0
		for i := a.colOffset; i <= a.colCursor && i < len(cols); i++ {
			used += cols[i].width + colGap
		}
		if used-colGap <= avail {
			break
		}
		a.colOffset++
	}
}

// renderResults renders the grid: header, rule and one line per
// windowed row, padded to a fixed height so the chrome below never
// moves.
func (a App) renderResults() string {
	capacity := a.gridRowCapacity()
	height := capacity + 2

	cols := a.gridColumns()
	if len(cols) == 0 {
		return padToHeight(a.renderEmpty(), height)
	}

	view := a.model.View()
	win := grid.ComputeVisible(view, capacity, a.scroll, 1, 0)

	lines := make([]string, 0, height)
	lines = append(lines, a.renderHeader(cols))
	lines = append(lines, a.styles.GridRule.Render(strings.Repeat("─", a.width)))
	if len(win.Rows) == 0 {
		lines = append(lines, a.styles.GridEmpty.Render("no rows match the active filters"))
	}
	for i, row := range win.Rows {
		lines = append(lines, a.renderRow(row, win.Start+i, cols))
	}
	return padToHeight(strings.Join(lines, "\n"), height)
}

func (a App) renderEmpty() string {
	if a.model.Snapshot() == nil {
		return a.styles.GridEmpty.Render("no results yet: write a statement above and press ctrl+r")
	}
	return a.styles.GridEmpty.Render("statement OK, no result set")
}

func (a App) renderHeader(cols []gridColumn) string {
	sortState := a.model.SortState()
	avail := a.gridWidth()

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gutterWidth))
	used := 0
	for i := a.colOffset; i < len(cols); i++ {
		col := cols[i]
		if used > 0 && used+col.width > avail {
			break
		}
		label := col.name
		if sortState.Column == col.name {
			switch sortState.Direction {
			case grid.SortAsc:
				label += " ↑"
			case grid.SortDesc:
				label += " ↓"
			}
		}
		style := a.styles.GridHeader
		if i == a.colCursor {
			style = a.styles.GridHeaderCursor
		}
		b.WriteString(style.Render(fit(label, col.width)))
		b.WriteString(strings.Repeat(" ", colGap))
		used += col.width + colGap
	}
	return strings.TrimRight(b.String(), " ")
}

// renderRow renders one grid line. The cursor row is styled as a
// whole; on other rows null cells render dimmed and selected rows
// carry the selection marker and tint.
func (a App) renderRow(row grid.Row, viewIndex int, cols []gridColumn) string {
	isCursor := viewIndex == a.cursor
	isSelected := a.selection.IsSelected(row.Identity)

	cursorMark := " "
	if isCursor {
		cursorMark = "❯"
	}
	selectMark := " "
	if isSelected {
		selectMark = "•"
	}

	var b strings.Builder
	b.WriteString(cursorMark)
	b.WriteString(selectMark)
	b.WriteString(" ")

	avail := a.gridWidth()
	used := 0
	for i := a.colOffset; i < len(cols); i++ {
		col := cols[i]
		if used > 0 && used+col.width > avail {
			break
		}
		null := col.cell >= len(row.Cells) || row.Cells[col.cell].IsNull()
		text := fit(cellText(row, col.cell), col.width)
		switch {
		case isCursor:
			b.WriteString(text) // the whole line is styled below
		case null:
			b.WriteString(a.styles.GridNull.Render(text))
		case isSelected:
			b.WriteString(a.styles.GridSelected.Render(text))
		default:
			b.WriteString(text)
		}
		b.WriteString(strings.Repeat(" ", colGap))
		used += col.width + colGap
	}

	line := strings.TrimRight(b.String(), " ")
	if isCursor {
		return a.styles.GridCursor.Render(line)
	}
	return line
}

// cellText is the single-line rendition of one cell. Newlines and
// tabs would tear the row layout, so they collapse to spaces.
func cellText(row grid.Row, cell int) string {
	if cell >= len(row.Cells) || row.Cells[cell].IsNull() {
		return nullCell
	}
	text := row.Cells[cell].Text()
	if strings.ContainsAny(text, "\n\r\t") {
		text = strings.NewReplacer("\n", " ", "\r", "", "\t", " ").Replace(text)
	}
	return text
}

// fit truncates or right-pads s to exactly width display cells.
func fit(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

func padToHeight(s string, height int) string {
	if n := lipgloss.Height(s); n < height {
		return s + strings.Repeat("\n", height-n)
	}
	return s
}
