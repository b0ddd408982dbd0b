package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/onduty/internal/command"
	"github.com/javiermolinar/onduty/internal/config"
	"github.com/javiermolinar/onduty/internal/db"
	"github.com/javiermolinar/onduty/internal/roster"
	"github.com/javiermolinar/onduty/internal/sheet"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state. Collaborators are opened lazily so
// commands such as version and config never touch storage.
type App struct {
	config *config.Config
	log    *zap.Logger
	root   *cobra.Command
	now    func() time.Time

	sqlite *db.SQLite
	repo   roster.Repository
	dir    *roster.Directory
	sync   *sheet.Synchronizer
	router *command.Router
}

// NewApp creates a new CLI application with the given config and logger.
func NewApp(cfg *config.Config, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{config: cfg, log: log, now: time.Now}

	a.root = &cobra.Command{
		Use:   "onduty",
		Short: "Mentor availability rosters for chat channels",
		Long: `onduty keeps a roster of mentor availability slots per chat channel.

It answers "who is on duty now?" and "who is next?", handles slash
directives from a chat bridge, and mirrors every roster into a
spreadsheet grouped by subject.

Without a subcommand it opens the live watch board.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runWatch(cmd.Context(), "", defaultRefresh)
		},
	}

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.execCmd())
	a.root.AddCommand(a.ondutyCmd())
	a.root.AddCommand(a.channelsCmd())
	a.root.AddCommand(a.previewCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.watchCmd())
	a.root.AddCommand(a.rebuildCmd())
	a.root.AddCommand(a.reimportCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "onduty %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the storage handles opened by commands.
func (a *App) Close() error {
	var firstErr error
	if a.repo != nil && (a.sqlite == nil || a.repo != roster.Repository(a.sqlite)) {
		firstErr = a.repo.Close()
	}
	if a.sqlite != nil {
		if err := a.sqlite.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ensureDB opens the SQLite database, creating its directory.
func (a *App) ensureDB() error {
	if a.sqlite != nil {
		return nil
	}
	path := a.config.Storage.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	s, err := db.New(path)
	if err != nil {
		return err
	}
	a.sqlite = s
	return nil
}

// ensureRepo opens the configured repository and loads the directory.
func (a *App) ensureRepo(ctx context.Context) error {
	if a.repo != nil {
		return nil
	}
	if a.config.Storage.Driver == config.DriverSQLite {
		if err := a.ensureDB(); err != nil {
			return err
		}
	}
	repo, err := db.Open(a.config.Storage.Driver, a.config.Storage.SnapshotPath, a.config.Storage.SnapshotGlob, a.sqlite)
	if err != nil {
		return err
	}
	a.repo = repo
	a.dir = db.LoadDirectory(ctx, repo, a.log)
	a.log.Debug("channel directory loaded",
		zap.String("driver", a.config.Storage.Driver),
		zap.Int("channels", a.dir.Len()),
	)
	return nil
}

// ensureSync builds the grid mirror for the configured backend.
func (a *App) ensureSync(ctx context.Context) error {
	if a.sync != nil {
		return nil
	}
	var grid sheet.Grid
	switch a.config.Sheets.Backend {
	case config.BackendSheets:
		timeout, err := a.config.Sheets.Timeout()
		if err != nil {
			return err
		}
		g, err := sheet.NewSheets(ctx, a.config.Sheets.SpreadsheetID, a.config.Sheets.CredentialsFile, timeout)
		if err != nil {
			return err
		}
		grid = g
	default:
		grid = sheet.NewMemory()
	}
	a.sync = sheet.NewSynchronizer(grid, a.config.Sheets.StartRow, a.log)
	return nil
}

// ensureRouter wires the directive router. withQueries also opens the
// query log so /raiseQuery works.
func (a *App) ensureRouter(ctx context.Context, withQueries bool) error {
	if a.router != nil {
		return nil
	}
	if err := a.ensureRepo(ctx); err != nil {
		return err
	}
	if err := a.ensureSync(ctx); err != nil {
		return err
	}

	opts := command.Options{
		Delimiter: a.config.Bot.Delimiter,
		Location:  a.config.Bot.Location(),
		Log:       a.log,
		Sync:      a.sync,
	}
	if withQueries {
		if err := a.ensureDB(); err != nil {
			return err
		}
		opts.Queries = a.sqlite
	}
	a.router = command.NewRouter(a.dir, a.repo, opts)
	return nil
}
