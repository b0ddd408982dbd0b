package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/onduty/internal/roster"
)

func (a *App) ondutyCmd() *cobra.Command {
	var (
		at      string
		subject string
		chatID  string
	)

	cmd := &cobra.Command{
		Use:   "onduty [channel-id]",
		Short: "Show who is on duty now, or who is next",
		Long: `Resolve availability for one channel, or for every channel.

The current time is taken in bot.utc_offset. Use --at to ask about
another time of day.

Chat ids are negative, so pass them with --chat or after "--".`,
		Example: `  onduty onduty
  onduty onduty --chat -1001
  onduty onduty -- -1001
  onduty onduty --at "4:30 PM" --subject Physics`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(cmd.Context()); err != nil {
				return err
			}

			now, err := a.timeOfDay(at)
			if err != nil {
				return err
			}

			id := chatID
			if len(args) == 1 {
				if id != "" && id != args[0] {
					return fmt.Errorf("channel given twice: --chat %s and %s", id, args[0])
				}
				id = args[0]
			}

			out := cmd.OutOrStdout()
			if id != "" {
				ch := a.dir.FindByID(id)
				if ch == nil {
					return fmt.Errorf("channel %s not found", id)
				}
				PrintAvailability(out, ch, now)
				return nil
			}

			channels := a.dir.List()
			if subject != "" {
				channels = a.dir.FindBySubject(subject)
			}
			if len(channels) == 0 {
				fmt.Fprintln(out, "No channels found.")
				return nil
			}
			fmt.Fprintf(out, "=== %s ===\n", formatHeader(roster.FormatTime(now)))
			for i, ch := range channels {
				if i > 0 {
					fmt.Fprintln(out, formatMuted(rule(48)))
				}
				PrintAvailability(out, ch, now)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", `Time of day, e.g. "09:30" or "4 PM" (defaults to now)`)
	cmd.Flags().StringVar(&subject, "subject", "", "Only channels with this subject")
	cmd.Flags().StringVar(&chatID, "chat", "", "Only this channel id")
	return cmd
}

// timeOfDay parses at, or returns the current time in the bot's zone.
func (a *App) timeOfDay(at string) (roster.TimeOfDay, error) {
	if at == "" {
		return roster.TimeOfDayOf(a.now().In(a.config.Bot.Location())), nil
	}
	t, ok := roster.ParseTimeOfDay(at)
	if !ok {
		return 0, fmt.Errorf("invalid time %q", at)
	}
	return t, nil
}
