package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) channelsCmd() *cobra.Command {
	var (
		subject string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List channels and their timings",
		Long: `List every channel in the directory, grouped by subject in order of
first appearance. With --verbose every slot is printed and slots
active right now are marked.`,
		Example: `  onduty channels
  onduty channels --subject physics -v`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			now, _ := a.timeOfDay("")

			subjects := a.dir.Subjects()
			if subject != "" {
				subjects = []string{subject}
			}

			printed := 0
			for _, s := range subjects {
				channels := a.dir.FindBySubject(s)
				if len(channels) == 0 {
					continue
				}
				if printed > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "=== %s ===\n", formatHeader(s))
				for _, ch := range channels {
					fmt.Fprintf(out, "  %s %s %s\n", ch.ID, ch.Name, formatMuted(fmt.Sprintf("(%d slots)", len(ch.Timings))))
					if verbose {
						for _, slot := range ch.Timings {
							PrintSlotRow(out, slot, now)
						}
					}
					printed++
				}
			}

			if subject == "" {
				header := false
				for _, ch := range a.dir.List() {
					if ch.Subject != "" {
						continue
					}
					if !header {
						if printed > 0 {
							fmt.Fprintln(out)
						}
						fmt.Fprintf(out, "=== %s ===\n", formatWarn("no subject"))
						header = true
					}
					fmt.Fprintf(out, "  %s %s %s\n", ch.ID, ch.Name, formatMuted(fmt.Sprintf("(%d slots)", len(ch.Timings))))
					printed++
				}
			}

			if printed == 0 {
				fmt.Fprintln(out, "No channels found.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Only channels with this subject")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every slot")
	return cmd
}
