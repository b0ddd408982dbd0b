package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func stateStyle(state State, _, selected bool) lipgloss.Style {
	base := lipgloss.NewStyle()
	switch {
	case selected:
		return base.Background(lipgloss.Color("#ffffff"))
	case state == StateOnDuty:
		return base.Background(lipgloss.Color("#00ff00"))
	case state == StateNext:
		return base.Background(lipgloss.Color("#0000ff"))
	default:
		return base.Background(lipgloss.Color("#777777"))
	}
}

func boardRows() []BoardRow {
	return []BoardRow{
		{ChannelID: "-1001", Name: "Phys A", Subject: "Physics", State: StateOnDuty,
			Mentors: "Asha, Ben, Carol, Dev, Erin", Window: "9 AM - 12 PM"},
		{ChannelID: "-1002", Name: "Chem", Subject: "Chemistry", State: StateNext,
			Mentors: "Cara", Window: "4 PM - 6 PM"},
		{ChannelID: "-1003", Name: "Bio", State: StateIdle},
	}
}

func TestRenderBoardStylesRowsByState(t *testing.T) {
	orig := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.TrueColor)
	t.Cleanup(func() { lipgloss.SetColorProfile(orig) })

	out := RenderBoard(BoardTable{
		Width:    100,
		Height:   10,
		Rows:     boardRows(),
		Cursor:   -1,
		RowStyle: stateStyle,
	})

	for _, want := range []string{"Channel", "Mentors", "Phys A", "on duty", "Chem", "next", "Bio", "idle"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in board:\n%s", want, out)
		}
	}
	for name, bg := range map[string]string{
		"on duty": "48;2;0;255;0",
		"next":    "48;2;0;0;255",
		"idle":    "48;2;119;119;119",
	} {
		if !strings.Contains(out, bg) {
			t.Errorf("%s row: missing background %q", name, bg)
		}
	}
	if strings.Contains(out, "48;2;255;255;255") {
		t.Error("no row should be drawn as selected")
	}
}

func TestRenderBoardTruncatesWideCells(t *testing.T) {
	out := RenderBoard(BoardTable{Width: 100, Height: 10, Rows: boardRows()})

	if strings.Contains(out, "Asha, Ben, Carol, Dev, Erin") {
		t.Errorf("mentor list should be cut to the column width:\n%s", out)
	}
	if !strings.Contains(out, "Asha, Ben") || !strings.Contains(out, "…") {
		t.Errorf("expected truncated mentor list with ellipsis:\n%s", out)
	}
}

func TestRenderBoardScrollsToCursor(t *testing.T) {
	// Two body lines fit; the cursor on the last row pushes the first away.
	out := RenderBoard(BoardTable{Width: 100, Height: TableChrome + 2, Rows: boardRows(), Cursor: 2})

	if strings.Contains(out, "Phys A") {
		t.Errorf("first row should scroll out of view:\n%s", out)
	}
	if !strings.Contains(out, "Chem") || !strings.Contains(out, "Bio") {
		t.Errorf("expected the last two rows:\n%s", out)
	}
}

func TestRenderBoardTooShort(t *testing.T) {
	if out := RenderBoard(BoardTable{Width: 100, Height: TableChrome, Rows: boardRows()}); out != "" {
		t.Errorf("expected nothing when only chrome fits, got %q", out)
	}
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		total, cursor, n int
		start, end       int
	}{
		{3, 0, 5, 0, 3},
		{10, 2, 4, 0, 4},
		{10, 7, 4, 4, 8},
		{10, 3, 0, 0, 0},
	}
	for _, tc := range tests {
		start, end := VisibleRange(tc.total, tc.cursor, tc.n)
		if start != tc.start || end != tc.end {
			t.Errorf("VisibleRange(%d, %d, %d) = %d, %d, want %d, %d",
				tc.total, tc.cursor, tc.n, start, end, tc.start, tc.end)
		}
	}
}
