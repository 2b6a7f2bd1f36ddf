package cmd

import (
	"context"
	"fmt"

	"github.com/josephgoksu/TaskNest/internal/task"
	"github.com/josephgoksu/TaskNest/internal/ui"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List tasks",
	Long: `List tasks in their stored order with subtasks indented below.
Only the first ui.pageSize tasks are shown; use --limit or --all to see more.`,
	Example: `  tasknest list
  tasknest list --limit 20
  tasknest list --all --table
  tasknest list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		limit, _ := cmd.Flags().GetInt("limit")
		table, _ := cmd.Flags().GetBool("table")
		if limit < 0 {
			return fmt.Errorf("--limit must not be negative")
		}

		return withService(cmd, func(ctx context.Context, svc *task.Service) error {
			n := appConfig.UI.PageSize
			switch {
			case all:
				n = 0
			case limit > 0:
				n = limit
			case isJSON():
				n = 0
			}
			tasks, more := svc.Window(n)

			if table && !isJSON() {
				fmt.Fprint(cmd.OutOrStdout(), ui.RenderTaskTable(tasks))
				if more > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "… %d more.\n", more)
				}
				return nil
			}
			return renderTasks(cmd, tasks, more)
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("all", false, "show every task")
	listCmd.Flags().IntP("limit", "n", 0, "show at most N tasks (default ui.pageSize)")
	listCmd.Flags().Bool("table", false, "show a detailed table instead of a tree")
}
