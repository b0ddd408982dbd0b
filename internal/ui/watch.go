package ui

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/onduty/internal/tui"
)

const defaultRefresh = 30 * time.Second

func (a *App) watchCmd() *cobra.Command {
	var (
		chatID  string
		refresh time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Open the live on-duty board",
		Long: `Open a full-screen board showing, for every channel, who is on duty
right now or who is next. The clock ticks every second and the store
is re-read every --refresh so edits made by a running server show up.

Press : to type a directive; it acts on the selected channel unless
--chat is given. Press / to filter channels and ? for all keys.`,
		Example: `  onduty watch
  onduty watch --refresh 10s --chat -1001`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runWatch(cmd.Context(), chatID, refresh)
		},
	}

	cmd.Flags().StringVar(&chatID, "chat", "", "Chat id directives are sent from (defaults to the selected channel)")
	cmd.Flags().DurationVar(&refresh, "refresh", defaultRefresh, "How often to re-read the store (0 disables)")
	return cmd
}

func (a *App) runWatch(ctx context.Context, chatID string, refresh time.Duration) error {
	// The board owns the terminal; only a file logger may keep writing.
	if a.config.Log.File == "" {
		a.log = zap.NewNop()
	}
	if err := a.ensureRouter(ctx, true); err != nil {
		return err
	}

	return tui.Run(tui.Options{
		Repo:     a.repo,
		Router:   a.router,
		ChatID:   chatID,
		Location: a.config.Bot.Location(),
		Now:      a.now,
		Theme:    a.config.UI.Theme,
		Refresh:  refresh,
		Log:      a.log,
	})
}
