package sheet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/javiermolinar/onduty/internal/roster"
)

// ErrNoSubject is returned when a channel has no subject and therefore no
// region to render into.
var ErrNoSubject = errors.New("channel has no subject")

// ErrBlockNotRendered is reported by Reimport for a block with no channel id
// in its header.
var ErrBlockNotRendered = errors.New("block has not been rendered")

// RenderRequest describes one block write.
type RenderRequest struct {
	Subject  string
	StartRow int
	StartCol int
	Header   [2]string // channel name, channel id
	Rows     [][]string

	// ForceClear wipes the whole region before writing.
	ForceClear bool
	// ClearStale empties the block's columns below the written rows, down
	// to the last row of the region.
	ClearStale bool
}

// Status of a per-channel batch step.
type Status string

const (
	StatusUpdated Status = "updated"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome is the result of one channel within Rebuild or Reimport.
type Outcome struct {
	ChannelID string
	Name      string
	Status    Status
	Slots     int
	Err       error
}

// Synchronizer renders channel blocks into a Grid and reads them back.
type Synchronizer struct {
	grid     Grid
	startRow int
	log      *zap.Logger
}

// NewSynchronizer creates a synchronizer writing blocks at startRow.
func NewSynchronizer(grid Grid, startRow int, log *zap.Logger) *Synchronizer {
	if startRow < 1 {
		startRow = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Synchronizer{grid: grid, startRow: startRow, log: log}
}

// StartRow returns the row at which every block begins.
func (s *Synchronizer) StartRow() int {
	return s.startRow
}

// Grid returns the underlying grid.
func (s *Synchronizer) Grid() Grid {
	return s.grid
}

// ensureRegion opens the subject's region, creating it when absent.
func (s *Synchronizer) ensureRegion(ctx context.Context, subject string) (*Region, error) {
	region, err := s.grid.OpenRegion(ctx, subject)
	if err == nil {
		return region, nil
	}
	if !errors.Is(err, ErrRegionNotFound) {
		return nil, fmt.Errorf("opening region %q: %w", subject, err)
	}
	region, err = s.grid.CreateRegion(ctx, subject, DefaultRegionRows, DefaultRegionCols)
	if err != nil {
		return nil, fmt.Errorf("creating region %q: %w", subject, err)
	}
	s.log.Info("created grid region", zap.String("subject", subject))
	return region, nil
}

// Render writes a header pair, the sub-header and the data rows of one block.
func (s *Synchronizer) Render(ctx context.Context, req RenderRequest) error {
	region, err := s.ensureRegion(ctx, req.Subject)
	if err != nil {
		return err
	}

	block := BlockRange(req.StartRow, req.StartCol, len(req.Rows))
	if !block.Within(region.Rows, region.Cols) {
		return fmt.Errorf("block %s does not fit region %q (%dx%d)", block, region.Name, region.Rows, region.Cols)
	}

	if req.ForceClear {
		if err := s.grid.BatchClear(ctx, region, []Range{region.Bounds()}); err != nil {
			return fmt.Errorf("clearing region %q: %w", region.Name, err)
		}
	}

	row, col := req.StartRow, req.StartCol
	left := Range{StartRow: row, StartCol: col, EndRow: row + 1, EndCol: col + 1}
	right := Range{StartRow: row, StartCol: col + 2, EndRow: row + 1, EndCol: col + 3}

	for i, rng := range []Range{left, right} {
		if err := s.grid.Merge(ctx, region, rng); err != nil {
			return fmt.Errorf("merging header %s: %w", rng, err)
		}
		if err := s.grid.UpdateRange(ctx, region, rng, [][]string{{req.Header[i]}}); err != nil {
			return fmt.Errorf("writing header %s: %w", rng, err)
		}
	}
	header := Range{StartRow: row, StartCol: col, EndRow: row + 1, EndCol: col + 3}
	if err := s.grid.Format(ctx, region, header, CellFormat{Bold: true, FontSize: 13, Center: true}); err != nil {
		return fmt.Errorf("formatting header %s: %w", header, err)
	}

	sub := Range{StartRow: row + 2, StartCol: col, EndRow: row + 2, EndCol: col + 3}
	if err := s.grid.UpdateRange(ctx, region, sub, [][]string{SubHeader}); err != nil {
		return fmt.Errorf("writing sub-header %s: %w", sub, err)
	}
	if err := s.grid.Format(ctx, region, sub, CellFormat{Bold: true}); err != nil {
		return fmt.Errorf("formatting sub-header %s: %w", sub, err)
	}

	if len(req.Rows) > 0 {
		data := Range{StartRow: row + 3, StartCol: col, EndRow: row + 2 + len(req.Rows), EndCol: col + 3}
		if err := s.grid.UpdateRange(ctx, region, data, req.Rows); err != nil {
			return fmt.Errorf("writing rows %s: %w", data, err)
		}
	}

	if req.ClearStale {
		first := row + 3 + len(req.Rows)
		if first <= region.Rows {
			stale := Range{StartRow: first, StartCol: col, EndRow: region.Rows, EndCol: col + 3}
			if err := s.grid.BatchClear(ctx, region, []Range{stale}); err != nil {
				return fmt.Errorf("clearing stale rows %s: %w", stale, err)
			}
		}
	}

	return nil
}

// RenderChannel allocates and renders the block of channel id.
func (s *Synchronizer) RenderChannel(ctx context.Context, d *roster.Directory, id string, clearStale bool) error {
	ch := d.FindByID(id)
	if ch == nil {
		return fmt.Errorf("channel %s: %w", id, roster.ErrChannelNotFound)
	}
	if ch.Subject == "" {
		return fmt.Errorf("channel %s: %w", id, ErrNoSubject)
	}
	col, _ := Allocate(d, ch.Subject, ch.ID)

	err := s.Render(ctx, RenderRequest{
		Subject:    ch.Subject,
		StartRow:   s.startRow,
		StartCol:   col,
		Header:     [2]string{ch.Name, ch.ID},
		Rows:       DataRows(ch),
		ClearStale: clearStale,
	})
	if err != nil {
		return fmt.Errorf("rendering channel %s: %w", id, err)
	}
	s.log.Debug("rendered channel block",
		zap.String("channel", ch.ID),
		zap.String("subject", ch.Subject),
		zap.Int("column", col),
		zap.Int("rows", len(ch.Timings)),
	)
	return nil
}

// Rebuild clears every subject region once and re-renders every channel in
// directory order. A failing subject or channel does not stop the others.
func (s *Synchronizer) Rebuild(ctx context.Context, d *roster.Directory) []Outcome {
	clearErrs := make(map[string]error)
	for _, subject := range d.Subjects() {
		region, err := s.ensureRegion(ctx, subject)
		if err == nil {
			err = s.grid.BatchClear(ctx, region, []Range{region.Bounds()})
		}
		if err != nil {
			s.log.Warn("clearing region for rebuild", zap.String("subject", subject), zap.Error(err))
			clearErrs[strings.ToLower(subject)] = err
		}
	}

	outcomes := make([]Outcome, 0, d.Len())
	for _, ch := range d.List() {
		out := Outcome{ChannelID: ch.ID, Name: ch.Name, Slots: len(ch.Timings)}
		switch {
		case ch.Subject == "":
			out.Status, out.Err = StatusSkipped, ErrNoSubject
		case clearErrs[strings.ToLower(ch.Subject)] != nil:
			out.Status, out.Err = StatusFailed, clearErrs[strings.ToLower(ch.Subject)]
		default:
			if err := s.RenderChannel(ctx, d, ch.ID, false); err != nil {
				out.Status, out.Err = StatusFailed, err
			} else {
				out.Status = StatusUpdated
			}
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// Reimport reads every channel's block back from the grid and overwrites
// the channel's timings with it. Channels without a subject, region or
// matching block are skipped; errors are recorded per channel.
func (s *Synchronizer) Reimport(ctx context.Context, d *roster.Directory) []Outcome {
	outcomes := make([]Outcome, 0, d.Len())
	for _, ch := range d.List() {
		out := s.reimportChannel(ctx, d, ch)
		if out.Err != nil {
			s.log.Info("reimport skipped channel",
				zap.String("channel", ch.ID),
				zap.String("status", string(out.Status)),
				zap.Error(out.Err),
			)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}

func (s *Synchronizer) reimportChannel(ctx context.Context, d *roster.Directory, ch *roster.Channel) Outcome {
	out := Outcome{ChannelID: ch.ID, Name: ch.Name, Status: StatusSkipped}
	if ch.Subject == "" {
		out.Err = ErrNoSubject
		return out
	}

	region, err := s.grid.OpenRegion(ctx, ch.Subject)
	if err != nil {
		if !errors.Is(err, ErrRegionNotFound) {
			out.Status = StatusFailed
		}
		out.Err = err
		return out
	}

	col, _ := Allocate(d, ch.Subject, ch.ID)
	first := s.startRow + HeaderRows
	firstRow := Range{StartRow: first, StartCol: col, EndRow: first, EndCol: col + DataColumns - 1}
	if !firstRow.Within(region.Rows, region.Cols) {
		out.Err = fmt.Errorf("block at column %d outside region %q", col, region.Name)
		return out
	}

	idCell := Cell(s.startRow, col+2)
	header, err := s.grid.ReadRange(ctx, region, idCell)
	if err != nil {
		out.Status, out.Err = StatusFailed, fmt.Errorf("reading header %s: %w", idCell, err)
		return out
	}
	switch owner := firstCell(header); owner {
	case ch.ID:
	case "":
		out.Err = fmt.Errorf("block %s: %w", idCell, ErrBlockNotRendered)
		return out
	default:
		out.Err = fmt.Errorf("block %s belongs to channel %s", idCell, owner)
		return out
	}

	data := Range{StartRow: first, StartCol: col, EndRow: region.Rows, EndCol: col + DataColumns - 1}
	values, err := s.grid.ReadRange(ctx, region, data)
	if err != nil {
		out.Status, out.Err = StatusFailed, fmt.Errorf("reading rows %s: %w", data, err)
		return out
	}

	slots := make([]roster.Slot, 0, len(values))
	for _, row := range values {
		slot, ok := SlotFromRow(row)
		if !ok {
			break
		}
		slots = append(slots, slot)
	}

	if _, err := d.ReplaceTimings(ch.ID, slots); err != nil {
		out.Status, out.Err = StatusFailed, err
		return out
	}
	out.Status, out.Slots = StatusUpdated, len(slots)
	return out
}

func firstCell(values [][]string) string {
	if len(values) == 0 || len(values[0]) == 0 {
		return ""
	}
	return values[0][0]
}
