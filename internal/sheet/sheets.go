package sheet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheets is a Grid backed by one Google spreadsheet; each region is a
// worksheet. Every API call runs under its own deadline.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
	timeout       time.Duration
}

// NewSheets connects to the spreadsheet using a service-account credentials
// file.
func NewSheets(ctx context.Context, spreadsheetID, credentialsFile string, timeout time.Duration) (*Sheets, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id must be set")
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &Sheets{svc: svc, spreadsheetID: spreadsheetID, timeout: timeout}, nil
}

func (g *Sheets) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

// OpenRegion finds the worksheet whose title matches name.
func (g *Sheets) OpenRegion(ctx context.Context, name string) (*Region, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	ss, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("getting spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && strings.EqualFold(sh.Properties.Title, name) {
			return regionOf(sh.Properties), nil
		}
	}
	return nil, fmt.Errorf("worksheet %q: %w", name, ErrRegionNotFound)
}

// CreateRegion adds a worksheet of rows x cols.
func (g *Sheets) CreateRegion(ctx context.Context, name string, rows, cols int) (*Region, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: name,
					GridProperties: &sheets.GridProperties{
						RowCount:    int64(rows),
						ColumnCount: int64(cols),
					},
				},
			},
		}},
	}
	resp, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("adding worksheet %q: %w", name, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return nil, fmt.Errorf("adding worksheet %q: empty reply", name)
	}
	return regionOf(resp.Replies[0].AddSheet.Properties), nil
}

// ReadRange returns formatted cell values; trailing empty cells are omitted.
func (g *Sheets) ReadRange(ctx context.Context, region *Region, rng Range) ([][]string, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, a1(region, rng)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", a1(region, rng), err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		line := make([]string, len(row))
		for i, v := range row {
			line[i] = fmt.Sprint(v)
		}
		out = append(out, line)
	}
	return out, nil
}

// UpdateRange writes values as raw text so ids like "-1001" stay strings.
func (g *Sheets) UpdateRange(ctx context.Context, region *Region, rng Range, values [][]string) error {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	rows := make([][]interface{}, len(values))
	for i, line := range values {
		rows[i] = make([]interface{}, len(line))
		for j, v := range line {
			rows[i][j] = v
		}
	}
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, a1(region, rng), &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("updating %s: %w", a1(region, rng), err)
	}
	return nil
}

// Merge merges all cells of rng.
func (g *Sheets) Merge(ctx context.Context, region *Region, rng Range) error {
	return g.batch(ctx, &sheets.Request{
		MergeCells: &sheets.MergeCellsRequest{
			Range:     gridRange(region, rng),
			MergeType: "MERGE_ALL",
		},
	})
}

// Format applies text and alignment formatting to rng.
func (g *Sheets) Format(ctx context.Context, region *Region, rng Range, format CellFormat) error {
	cf := &sheets.CellFormat{
		TextFormat: &sheets.TextFormat{
			Bold:            format.Bold,
			FontSize:        int64(format.FontSize),
			ForceSendFields: []string{"Bold"},
		},
	}
	fields := "userEnteredFormat.textFormat"
	if format.Center {
		cf.HorizontalAlignment = "CENTER"
		cf.VerticalAlignment = "MIDDLE"
		fields = "userEnteredFormat(textFormat,horizontalAlignment,verticalAlignment)"
	}
	return g.batch(ctx, &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range:  gridRange(region, rng),
			Cell:   &sheets.CellData{UserEnteredFormat: cf},
			Fields: fields,
		},
	})
}

// BatchClear clears the values of every range in one call.
func (g *Sheets) BatchClear(ctx context.Context, region *Region, ranges []Range) error {
	if len(ranges) == 0 {
		return nil
	}
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	req := &sheets.BatchClearValuesRequest{}
	for _, rng := range ranges {
		req.Ranges = append(req.Ranges, a1(region, rng))
	}
	if _, err := g.svc.Spreadsheets.Values.BatchClear(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clearing %v: %w", req.Ranges, err)
	}
	return nil
}

func (g *Sheets) batch(ctx context.Context, reqs ...*sheets.Request) error {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	_, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: reqs}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("batch update: %w", err)
	}
	return nil
}

func regionOf(p *sheets.SheetProperties) *Region {
	r := &Region{Name: p.Title, ID: p.SheetId}
	if p.GridProperties != nil {
		r.Rows = int(p.GridProperties.RowCount)
		r.Cols = int(p.GridProperties.ColumnCount)
	}
	return r
}

// a1 qualifies a range with its worksheet title: 'Physics'!A1:D3.
func a1(region *Region, rng Range) string {
	return "'" + strings.ReplaceAll(region.Name, "'", "''") + "'!" + rng.A1()
}

// gridRange converts a 1-based inclusive range to the API's 0-based
// half-open GridRange.
func gridRange(region *Region, rng Range) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          region.ID,
		StartRowIndex:    int64(rng.StartRow - 1),
		EndRowIndex:      int64(rng.EndRow),
		StartColumnIndex: int64(rng.StartCol - 1),
		EndColumnIndex:   int64(rng.EndCol),
		ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
	}
}
