package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/onduty/internal/db"
	"github.com/javiermolinar/onduty/internal/roster"
)

func (a *App) importCmd() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <snapshot.json>",
		Short: "Import channels from a snapshot file",
		Long: `Merge the channels of a snapshot document into the configured store.

Channels are matched by id: existing ones are replaced in place, new
ones are appended. With --replace the store is overwritten instead.
Use this to move a json snapshot into the sqlite driver.`,
		Example: `  onduty import channels_id_with_slots_info.json
  onduty import backup.json --replace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.ensureRepo(ctx); err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("snapshot does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking snapshot: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("snapshot path is a directory: %s", sourcePath)
			}

			added, updated, err := importSnapshot(ctx, a.repo, a.dir, sourcePath, replace)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d channels from %s (%d new, %d replaced)\n",
				added+updated, sourcePath, added, updated)
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Overwrite the store instead of merging")
	return cmd
}

// importSnapshot merges the snapshot at sourcePath into dir and saves it to
// dest. On a failed save dir is left unchanged.
func importSnapshot(ctx context.Context, dest roster.Repository, dir *roster.Directory, sourcePath string, replace bool) (added, updated int, err error) {
	source, err := db.NewJSONStore(sourcePath, "").Load(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("reading snapshot: %w", err)
	}

	before := dir.Clone()
	if replace {
		dir.Restore(roster.NewDirectory())
	}
	for _, ch := range source.List() {
		if _, existed := dir.Upsert(ch.ID, ch.Name, ch.Subject, ch.Timings); existed {
			updated++
		} else {
			added++
		}
	}

	if err := dest.Save(ctx, dir); err != nil {
		dir.Restore(before)
		return 0, 0, fmt.Errorf("saving imported channels: %w", err)
	}
	return added, updated, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
