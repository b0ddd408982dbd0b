package sheet

import (
	"strings"

	"github.com/javiermolinar/onduty/internal/roster"
)

// Block geometry.
const (
	DataColumns = 4               // From, To, mentor id, mentor name
	BlockWidth  = DataColumns + 1 // plus one gutter column
	HeaderRows  = 3               // 2 merged header rows + 1 sub-header row
)

// Capacity used when a subject's region has to be created.
const (
	DefaultRegionRows = 25
	DefaultRegionCols = 500
)

// SubHeader labels the four data columns of every block.
var SubHeader = []string{"From", "To", "mentor id", "mentor name"}

// Allocate returns the 1-based start column of channelID's block within the
// subject's region: its rank among same-subject channels, in directory
// order, times BlockWidth plus one. It is recomputed on every call.
func Allocate(d *roster.Directory, subject, channelID string) (int, bool) {
	for rank, ch := range d.FindBySubject(subject) {
		if ch.ID == channelID {
			return rank*BlockWidth + 1, true
		}
	}
	return 0, false
}

// BlockRange returns the data span of the block starting at startRow and
// startCol, covering the header and n data rows.
func BlockRange(startRow, startCol, n int) Range {
	return Range{
		StartRow: startRow,
		StartCol: startCol,
		EndRow:   startRow + HeaderRows + n - 1,
		EndCol:   startCol + DataColumns - 1,
	}
}

// DataRows renders the timings of ch as block rows.
func DataRows(ch *roster.Channel) [][]string {
	rows := make([][]string, 0, len(ch.Timings))
	for _, slot := range ch.Timings {
		from, to := slot.Bounds()
		rows = append(rows, []string{from, to, slot.UserID, slot.Name})
	}
	return rows
}

// SlotFromRow rebuilds a slot from a block row, adding the "@" sigil to the
// mentor id when it is missing. It reports false for rows with no From cell.
func SlotFromRow(row []string) (roster.Slot, bool) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	from := cell(0)
	if from == "" {
		return roster.Slot{}, false
	}
	userID := cell(2)
	if userID != "" && !strings.HasPrefix(userID, "@") {
		userID = "@" + userID
	}
	return roster.Slot{
		Time:   from + " - " + cell(1),
		Name:   cell(3),
		UserID: userID,
	}, true
}
