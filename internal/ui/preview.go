package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/onduty/internal/sheet"
	"github.com/javiermolinar/onduty/internal/tui/view"
)

const previewCellWidth = 24

func (a *App) previewCmd() *cobra.Command {
	var live bool

	cmd := &cobra.Command{
		Use:   "preview [subject]",
		Short: "Print the sheet layout of one or every subject",
		Long: `Render the directory into an in-memory sheet and print each subject's
region as a table, exactly as a rebuild would write it.

With --live the configured sheet backend is read instead, showing what
the mirror currently holds.`,
		Example: `  onduty preview
  onduty preview Physics
  onduty preview Physics --live`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.ensureRepo(ctx); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			var grid sheet.Grid
			if live {
				if err := a.ensureSync(ctx); err != nil {
					return err
				}
				grid = a.sync.Grid()
			} else {
				mem := sheet.NewMemory()
				dry := sheet.NewSynchronizer(mem, a.config.Sheets.StartRow, a.log)
				if failed := countFailed(dry.Rebuild(ctx, a.dir)); failed > 0 {
					fmt.Fprintln(out, formatWarn(fmt.Sprintf("%d channels could not be rendered.", failed)))
				}
				grid = mem
			}

			subjects := a.dir.Subjects()
			if len(args) == 1 {
				subjects = []string{args[0]}
			}
			if len(subjects) == 0 {
				fmt.Fprintln(out, "No subjects to preview.")
				return nil
			}

			for i, subject := range subjects {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "=== %s ===\n", formatHeader(subject))
				rendered, err := previewRegion(ctx, grid, subject)
				if errors.Is(err, sheet.ErrRegionNotFound) {
					fmt.Fprintln(out, formatMuted("No region for this subject."))
					continue
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(out, rendered)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "Read the configured sheet instead of a dry run")
	return cmd
}

func countFailed(outcomes []sheet.Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Status == sheet.StatusFailed {
			n++
		}
	}
	return n
}

// previewRegion reads a subject's region and renders its used area.
func previewRegion(ctx context.Context, grid sheet.Grid, subject string) (string, error) {
	region, err := grid.OpenRegion(ctx, subject)
	if err != nil {
		return "", err
	}
	values, err := grid.ReadRange(ctx, region, region.Bounds())
	if err != nil {
		return "", fmt.Errorf("reading region %q: %w", subject, err)
	}
	return renderCells(values), nil
}

// renderCells renders the non-empty extent of values as a table with
// spreadsheet row numbers and column letters.
func renderCells(values [][]string) string {
	lastRow, lastCol := 0, 0
	for r, row := range values {
		for c, v := range row {
			if v != "" {
				lastRow = max(lastRow, r+1)
				lastCol = max(lastCol, c+1)
			}
		}
	}
	if lastRow == 0 {
		return formatMuted("(empty)")
	}

	headers := []string{""}
	for c := 1; c <= lastCol; c++ {
		letters, _ := sheet.NumberToColumn(c)
		headers = append(headers, letters)
	}

	rows := make([][]string, 0, lastRow)
	for r := 0; r < lastRow; r++ {
		cells := []string{strconv.Itoa(r + 1)}
		for c := 0; c < lastCol; c++ {
			v := ""
			if c < len(values[r]) {
				v = values[r][c]
			}
			cells = append(cells, view.Truncate(v, previewCellWidth))
		}
		rows = append(rows, cells)
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	gutterStyle := cellStyle.Faint(true)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return gutterStyle
			default:
				return cellStyle
			}
		})
	return t.Render()
}
