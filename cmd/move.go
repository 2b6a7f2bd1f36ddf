package cmd

import (
	"context"
	"fmt"

	"github.com/josephgoksu/TaskNest/internal/task"
	"github.com/josephgoksu/TaskNest/models"
	"github.com/spf13/cobra"
)

// moveCmd represents the move command
var moveCmd = &cobra.Command{
	Use:     "move <id|title>...",
	Aliases: []string{"mv", "reorder"},
	Short:   "Reorder tasks or the subtasks of one task",
	Long: `Rebuild the list in the order given. Unknown and repeated keys are ignored.
Items that are not listed are removed, so list every item you want to keep.

With --task the subtasks of that task are reordered instead. With --by-title the
arguments are titles rather than ids; when titles repeat, only the last item
carrying each title is kept.`,
	Example: `  tasknest move 3 1 2
  tasknest move --task 1 12 13 11
  tasknest move --by-title "Pay rent" "Book flights"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, _ := cmd.Flags().GetInt("task")
		byTitle, _ := cmd.Flags().GetBool("by-title")
		subtasks := cmd.Flags().Changed("task")

		var ids []int
		if !byTitle {
			what := "task"
			if subtasks {
				what = "subtask"
			}
			var err error
			if ids, err = parseIDs(args, what); err != nil {
				return err
			}
		}

		return withService(cmd, func(ctx context.Context, svc *task.Service) error {
			before := svc.Tasks()
			var (
				tasks []models.Task
				err   error
			)
			switch {
			case subtasks && byTitle:
				tasks, err = svc.ReorderSubtasksByTitle(ctx, parent, args)
			case subtasks:
				tasks, err = svc.ReorderSubtasks(ctx, parent, ids)
			case byTitle:
				tasks, err = svc.ReorderTasksByTitle(ctx, args)
			default:
				tasks, err = svc.ReorderTasks(ctx, ids)
			}
			if err != nil {
				return err
			}
			return report(cmd, reorderMessage(before, tasks, parent, subtasks), tasks)
		})
	},
}

func reorderMessage(before, after []models.Task, parent int, subtasks bool) string {
	if !subtasks {
		msg := "Tasks reordered."
		if dropped := len(before) - len(after); dropped > 0 {
			msg += fmt.Sprintf(" %d not listed and removed.", dropped)
		}
		return msg
	}
	msg := fmt.Sprintf("Subtasks of task %d reordered.", parent)
	i, j := models.FindTask(before, parent), models.FindTask(after, parent)
	if i >= 0 && j >= 0 {
		if dropped := len(before[i].Subtasks) - len(after[j].Subtasks); dropped > 0 {
			msg += fmt.Sprintf(" %d not listed and removed.", dropped)
		}
	}
	return msg
}

func init() {
	rootCmd.AddCommand(moveCmd)
	moveCmd.Flags().Int("task", 0, "reorder the subtasks of this task")
	moveCmd.Flags().Bool("by-title", false, "arguments are titles instead of ids")
}
