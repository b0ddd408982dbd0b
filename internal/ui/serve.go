package ui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/onduty/internal/bot"
	"github.com/javiermolinar/onduty/internal/urlfilter"
)

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat webhook",
		Long: `Serve the webhook a chat transport bridge posts messages to.

Every message is logged. Directives are routed and answered, and
links in member messages that match no allow-list pattern are flagged
for deletion. Stops gracefully on SIGINT or SIGTERM.`,
		Example: `  onduty serve
  onduty serve --addr 127.0.0.1:9000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := a.newServer(ctx)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.config.Server.Addr
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to server.addr)")
	return cmd
}

// newServer wires the router, URL filter and handler into a webhook server.
func (a *App) newServer(ctx context.Context) (*bot.Server, error) {
	if err := a.ensureRouter(ctx, true); err != nil {
		return nil, err
	}

	filter, err := urlfilter.Load(a.config.Bot.AllowedURLsGlob)
	if err != nil {
		return nil, fmt.Errorf("loading allowed urls: %w", err)
	}
	a.log.Info("url allow-list loaded",
		zap.String("glob", a.config.Bot.AllowedURLsGlob),
		zap.Int("patterns", len(filter.Patterns())),
	)

	handler := bot.NewHandler(a.router, filter, a.config.Bot.MemberOnly, a.log)
	return bot.NewServer(handler, a.config.Bot.RatePerMinute, a.log), nil
}
