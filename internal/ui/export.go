package ui

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/onduty/internal/db"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		output string
		copyIt bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the directory as a snapshot document",
		Long: `Write the directory as a {"channels": [...]} snapshot, the same
document the json storage driver reads. Prints to stdout unless
--output or --copy is given.`,
		Example: `  onduty export > channels_id_with_slots_info.json
  onduty export --output backup.json
  onduty export --copy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(cmd.Context()); err != nil {
				return err
			}

			data, err := db.MarshalSnapshot(a.dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case copyIt:
				if err := clipboard.WriteAll(string(data)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintf(out, "Copied %d channels to the clipboard.\n", a.dir.Len())
			case output != "":
				if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}
				fmt.Fprintf(out, "Exported %d channels to %s\n", a.dir.Len(), output)
			default:
				fmt.Fprintln(out, string(data))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the snapshot to this file")
	cmd.Flags().BoolVar(&copyIt, "copy", false, "Copy the snapshot to the clipboard")
	return cmd
}
