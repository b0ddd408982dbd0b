package ui

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *App) rebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rewrite every subject sheet from the directory",
		Long: `Clear every subject region once, then render each channel's block
in directory order. Failures are reported per channel and never stop
the run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.ensureRepo(ctx); err != nil {
				return err
			}
			if err := a.ensureSync(ctx); err != nil {
				return err
			}

			outcomes := a.sync.Rebuild(ctx, a.dir)
			if failed := PrintOutcomes(cmd.OutOrStdout(), "Rebuilt", outcomes); failed > 0 {
				return fmt.Errorf("%d channels failed to render", failed)
			}
			return nil
		},
	}
}

func (a *App) reimportCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "reimport",
		Short: "Read timings back from the subject sheets",
		Long: `Read each channel's block from its subject sheet and overwrite the
channel's timings with what the sheet holds, then save the directory.
Channels without a subject or region are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.ensureRepo(ctx); err != nil {
				return err
			}
			if err := a.ensureSync(ctx); err != nil {
				return err
			}

			before := a.dir.Clone()
			outcomes := a.sync.Reimport(ctx, a.dir)
			failed := PrintOutcomes(cmd.OutOrStdout(), "Reimported", outcomes)

			if dryRun {
				a.dir.Restore(before)
				fmt.Fprintln(cmd.OutOrStdout(), formatMuted("Dry run: nothing saved."))
				return nil
			}
			if err := a.repo.Save(ctx, a.dir); err != nil {
				a.dir.Restore(before)
				return fmt.Errorf("saving channel directory: %w", err)
			}
			a.log.Info("reimported timings from sheets", zap.Int("channels", len(outcomes)), zap.Int("failed", failed))
			if failed > 0 {
				return fmt.Errorf("%d channels failed to reimport", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without saving")
	return cmd
}
