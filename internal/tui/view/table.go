package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableChrome is the number of lines the board table draws around its body:
// border top, header, header rule, border bottom.
const TableChrome = 4

// RowStyleFunc picks the cell style of a board row.
type RowStyleFunc func(state State, alt, selected bool) lipgloss.Style

// BoardTable holds what RenderBoard needs to draw the channel table.
type BoardTable struct {
	Width       int
	Height      int
	Rows        []BoardRow
	Cursor      int
	HeaderStyle lipgloss.Style
	BorderStyle lipgloss.Style
	RowStyle    RowStyleFunc
	Bg          lipgloss.Color
}

// VisibleRange returns the rows that fit in n body lines while keeping
// cursor on screen.
func VisibleRange(total, cursor, n int) (int, int) {
	if n <= 0 {
		return 0, 0
	}
	if total <= n {
		return 0, total
	}
	start := 0
	if cursor >= n {
		start = cursor - n + 1
	}
	return start, start + n
}

// RenderBoard renders the visible board rows as a lipgloss table, one cell
// per Headers column, styled by row state. Cells wider than their column
// are cut with an ellipsis.
func RenderBoard(b BoardTable) string {
	if b.Height <= TableChrome || len(b.Rows) == 0 {
		return ""
	}

	headers := Headers()
	colW := (b.Width - 2) / len(headers)
	start, end := VisibleRange(len(b.Rows), b.Cursor, b.Height-TableChrome)

	visible := b.Rows[start:end]
	cells := make([][]string, len(visible))
	for i, row := range visible {
		cells[i] = row.Cells()
		for c := range cells[i] {
			cells[i][c] = Truncate(cells[i][c], colW-3)
		}
	}

	rowStyle := b.RowStyle
	if rowStyle == nil {
		rowStyle = func(State, bool, bool) lipgloss.Style { return lipgloss.NewStyle() }
	}

	width := b.Width - 2
	if width < 0 {
		width = 0
	}

	t := table.New().
		Headers(headers...).
		Width(width).
		Height(b.Height).
		Border(lipgloss.RoundedBorder()).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(false).
		BorderStyle(b.BorderStyle).
		Rows(cells...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return b.HeaderStyle
			}
			if row < 0 || row >= len(visible) {
				return lipgloss.NewStyle()
			}
			i := start + row
			return rowStyle(b.Rows[i].State, i%2 == 1, i == b.Cursor)
		})

	return PlaceBox(b.Width, b.Height, lipgloss.Top, t.Render(), b.Bg)
}
