package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/onduty/internal/command"
)

func (a *App) execCmd() *cobra.Command {
	var (
		chatID string
		userID string
	)

	cmd := &cobra.Command{
		Use:   "exec <directive>",
		Short: "Run one directive and print the reply",
		Long: `Route a directive exactly as if it had been sent in a chat.

The chat id decides which channel commands such as /updateChannels
and /onduty act on. Quote the directive so the shell keeps the
delimiters intact.`,
		Example: `  onduty exec --chat -1001 '/onduty'
  onduty exec --chat -1001 '/setSubject $$$-1001$$$ $$$Physics$$$'
  onduty exec '/getTimingsBySubject Physics'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.ensureRouter(ctx, true); err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if !a.router.IsDirective(text) {
				return fmt.Errorf("not a directive: %q (see 'onduty exec /help')", text)
			}
			reply := a.router.Handle(ctx, command.Request{ChatID: chatID, UserID: userID, Text: text})
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}

	cmd.Flags().StringVar(&chatID, "chat", "", "Chat id the directive is sent from")
	cmd.Flags().StringVar(&userID, "user", "", "User id the directive is sent by")
	return cmd
}
