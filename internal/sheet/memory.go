package sheet

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Memory is an in-process Grid. It backs dry runs and tests.
type Memory struct {
	mu      sync.Mutex
	regions []*memRegion
	nextID  int64
}

type memRegion struct {
	info    Region
	cells   [][]string
	merges  []Range
	formats map[Range]CellFormat
}

// NewMemory returns an empty in-memory grid.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) find(name string) *memRegion {
	for _, r := range m.regions {
		if strings.EqualFold(r.info.Name, name) {
			return r
		}
	}
	return nil
}

func (m *Memory) region(region *Region) (*memRegion, error) {
	r := m.find(region.Name)
	if r == nil {
		return nil, fmt.Errorf("region %q: %w", region.Name, ErrRegionNotFound)
	}
	return r, nil
}

// OpenRegion returns the region with the given name.
func (m *Memory) OpenRegion(_ context.Context, name string) (*Region, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.find(name)
	if r == nil {
		return nil, fmt.Errorf("region %q: %w", name, ErrRegionNotFound)
	}
	info := r.info
	return &info, nil
}

// CreateRegion adds an empty region of rows x cols.
func (m *Memory) CreateRegion(_ context.Context, name string, rows, cols int) (*Region, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.find(name) != nil {
		return nil, fmt.Errorf("region %q already exists", name)
	}
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("region %q: invalid size %dx%d", name, rows, cols)
	}

	cells := make([][]string, rows)
	for i := range cells {
		cells[i] = make([]string, cols)
	}
	m.nextID++
	r := &memRegion{
		info:    Region{Name: name, ID: m.nextID, Rows: rows, Cols: cols},
		cells:   cells,
		formats: make(map[Range]CellFormat),
	}
	m.regions = append(m.regions, r)
	info := r.info
	return &info, nil
}

// ReadRange returns the cell values of rng. Like the Sheets API, trailing
// empty cells of each row and trailing empty rows are trimmed.
func (m *Memory) ReadRange(_ context.Context, region *Region, rng Range) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.region(region)
	if err != nil {
		return nil, err
	}
	if err := r.info.check(rng); err != nil {
		return nil, err
	}

	out := make([][]string, 0, rng.Rows())
	for row := rng.StartRow; row <= rng.EndRow; row++ {
		line := append([]string(nil), r.cells[row-1][rng.StartCol-1:rng.EndCol]...)
		for len(line) > 0 && line[len(line)-1] == "" {
			line = line[:len(line)-1]
		}
		out = append(out, line)
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

// UpdateRange writes values starting at the top-left of rng. Values beyond
// rng are rejected.
func (m *Memory) UpdateRange(_ context.Context, region *Region, rng Range, values [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.region(region)
	if err != nil {
		return err
	}
	if err := r.info.check(rng); err != nil {
		return err
	}
	if len(values) > rng.Rows() {
		return fmt.Errorf("%d rows do not fit range %s", len(values), rng)
	}
	for i, line := range values {
		if len(line) > rng.Cols() {
			return fmt.Errorf("%d columns do not fit range %s", len(line), rng)
		}
		copy(r.cells[rng.StartRow-1+i][rng.StartCol-1:], line)
	}
	return nil
}

// Merge records a merged range.
func (m *Memory) Merge(_ context.Context, region *Region, rng Range) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.region(region)
	if err != nil {
		return err
	}
	if err := r.info.check(rng); err != nil {
		return err
	}
	for _, existing := range r.merges {
		if existing == rng {
			return nil
		}
	}
	r.merges = append(r.merges, rng)
	return nil
}

// Format records the format applied to rng.
func (m *Memory) Format(_ context.Context, region *Region, rng Range, format CellFormat) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.region(region)
	if err != nil {
		return err
	}
	if err := r.info.check(rng); err != nil {
		return err
	}
	r.formats[rng] = format
	return nil
}

// BatchClear empties the values of every range. Merges and formats are kept,
// as with the Sheets values API.
func (m *Memory) BatchClear(_ context.Context, region *Region, ranges []Range) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.region(region)
	if err != nil {
		return err
	}
	for _, rng := range ranges {
		if err := r.info.check(rng); err != nil {
			return err
		}
		for row := rng.StartRow; row <= rng.EndRow; row++ {
			for col := rng.StartCol; col <= rng.EndCol; col++ {
				r.cells[row-1][col-1] = ""
			}
		}
	}
	return nil
}

// CellValue returns a single cell value, or "" when the region or cell does
// not exist.
func (m *Memory) CellValue(name string, row, col int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.find(name)
	if r == nil || !Cell(row, col).Within(r.info.Rows, r.info.Cols) {
		return ""
	}
	return r.cells[row-1][col-1]
}

// Merges returns the merged ranges of a region.
func (m *Memory) Merges(name string) []Range {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.find(name)
	if r == nil {
		return nil
	}
	return append([]Range(nil), r.merges...)
}

// FormatOf returns the format applied to exactly rng.
func (m *Memory) FormatOf(name string, rng Range) (CellFormat, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.find(name)
	if r == nil {
		return CellFormat{}, false
	}
	f, ok := r.formats[rng]
	return f, ok
}
