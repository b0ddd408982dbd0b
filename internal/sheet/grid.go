// Package sheet mirrors the channel directory into a spreadsheet grid: one
// region (worksheet) per subject, one 4-column block per channel.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// ErrRegionNotFound is returned by Grid.OpenRegion for unknown names.
var ErrRegionNotFound = errors.New("region not found")

// Range is a rectangular block of cells, 1-based and inclusive on all sides.
type Range struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// Cell returns the single-cell range at row, col.
func Cell(row, col int) Range {
	return Range{StartRow: row, StartCol: col, EndRow: row, EndCol: col}
}

// A1 renders the range in A1 notation, e.g. "F1:I3".
func (r Range) A1() string {
	return mustColumn(r.StartCol) + strconv.Itoa(r.StartRow) + ":" + mustColumn(r.EndCol) + strconv.Itoa(r.EndRow)
}

// Rows returns the number of rows covered.
func (r Range) Rows() int { return r.EndRow - r.StartRow + 1 }

// Cols returns the number of columns covered.
func (r Range) Cols() int { return r.EndCol - r.StartCol + 1 }

// Valid reports whether the range is non-empty and 1-based.
func (r Range) Valid() bool {
	return r.StartRow >= 1 && r.StartCol >= 1 && r.EndRow >= r.StartRow && r.EndCol >= r.StartCol
}

// Within reports whether the range fits inside a region of rows x cols.
func (r Range) Within(rows, cols int) bool {
	return r.Valid() && r.EndRow <= rows && r.EndCol <= cols
}

func (r Range) String() string { return r.A1() }

// Region is a named worksheet holding the blocks of one subject.
type Region struct {
	Name string
	ID   int64
	Rows int
	Cols int
}

// Bounds returns the range covering the whole region.
func (r *Region) Bounds() Range {
	return Range{StartRow: 1, StartCol: 1, EndRow: r.Rows, EndCol: r.Cols}
}

func (r *Region) check(rng Range) error {
	if !rng.Within(r.Rows, r.Cols) {
		return fmt.Errorf("range %s outside region %q (%dx%d)", rng, r.Name, r.Rows, r.Cols)
	}
	return nil
}

// CellFormat is the subset of cell styling the synchronizer applies.
type CellFormat struct {
	Bold     bool
	FontSize int
	Center   bool
}

// Grid is the external spreadsheet. Regions are matched by name
// case-insensitively.
type Grid interface {
	OpenRegion(ctx context.Context, name string) (*Region, error)
	CreateRegion(ctx context.Context, name string, rows, cols int) (*Region, error)
	ReadRange(ctx context.Context, region *Region, rng Range) ([][]string, error)
	UpdateRange(ctx context.Context, region *Region, rng Range, values [][]string) error
	Merge(ctx context.Context, region *Region, rng Range) error
	Format(ctx context.Context, region *Region, rng Range, format CellFormat) error
	BatchClear(ctx context.Context, region *Region, ranges []Range) error
}
