package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/josephgoksu/TaskNest/internal/task"
	"github.com/josephgoksu/TaskNest/store"
	"github.com/spf13/cobra"
)

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup <file>",
	Short: "Copy the task list to another file",
	Long: `Write the current task list to a file. The format follows the file extension
(.json, .yaml/.yml, .toml, .db/.sqlite) unless --to is given, so backups double
as conversions between formats.`,
	Example: `  tasknest backup tasks-2025-06-01.json
  tasknest backup tasks.yaml
  tasknest backup archive.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dst, err := openPath(cmd, args[0], "to")
		if err != nil {
			return err
		}
		defer func() { _ = dst.Close() }()

		return withService(cmd, func(ctx context.Context, svc *task.Service) error {
			if err := svc.Backup(ctx, dst); err != nil {
				return err
			}
			n := len(svc.Tasks())
			if isJSON() {
				return printJSON(cmd, map[string]any{"path": dst.Path(), "tasks": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d task(s) to %s.\n", n, dst.Path())
			return nil
		})
	},
}

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace the task list with the contents of a backup",
	Long: `Replace the whole task list with the one stored in a backup file. The backup
is validated before anything is written. In a terminal you are asked to confirm
unless --yes is given.`,
	Example: `  tasknest restore tasks-2025-06-01.json --yes`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openPath(cmd, args[0], "from")
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()
		yes, _ := cmd.Flags().GetBool("yes")

		return withService(cmd, func(ctx context.Context, svc *task.Service) error {
			if !yes {
				if err := confirm(fmt.Sprintf("Replace %d task(s) with %s", len(svc.Tasks()), src.Path())); err != nil {
					if errors.Is(err, errCancelled) {
						fmt.Fprintln(cmd.OutOrStdout(), "Restore cancelled.")
						return nil
					}
					return err
				}
			}
			tasks, err := svc.Restore(ctx, src)
			if err != nil {
				return err
			}
			return report(cmd, fmt.Sprintf("Restored %d task(s) from %s.", len(tasks), src.Path()), tasks)
		})
	},
}

// openPath opens a file-backed persister for a backup path. The format comes
// from the named flag or the file extension.
func openPath(cmd *cobra.Command, path, flag string) (store.Persister, error) {
	format := store.FormatFromPath(path)
	if raw, _ := cmd.Flags().GetString(flag); strings.TrimSpace(raw) != "" {
		f, err := store.ParseFormat(raw)
		if err != nil {
			return nil, err
		}
		format = f
	}
	if format != store.FormatSQLite && !format.IsFile() {
		return nil, fmt.Errorf("backups are files; format %s is not supported here", format)
	}
	return store.Open(cmd.Context(), store.Config{Path: path, Format: format})
}

func init() {
	rootCmd.AddCommand(backupCmd, restoreCmd)
	backupCmd.Flags().String("to", "", "backup format: json, yaml, toml or sqlite (default: from the extension)")
	restoreCmd.Flags().String("from", "", "backup format: json, yaml, toml or sqlite (default: from the extension)")
	restoreCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}
