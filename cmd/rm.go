package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/josephgoksu/TaskNest/internal/task"
	"github.com/josephgoksu/TaskNest/models"
	"github.com/spf13/cobra"
)

// rmCmd represents the rm command
var rmCmd = &cobra.Command{
	Use:     "rm <task_id> [subtask_id]",
	Aliases: []string{"delete", "remove"},
	Short:   "Remove a task or one of its subtasks",
	Long: `Remove a task together with its subtasks, or a single subtask. In a terminal
you are asked to confirm unless --yes is given.`,
	Example: `  tasknest rm 3
  tasknest rm 1 12 --yes`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		subtaskID, err := optionalSubtask(args, 1)
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")

		return withService(cmd, func(ctx context.Context, svc *task.Service) error {
			label, err := removalLabel(svc.Tasks(), taskID, subtaskID)
			if err != nil {
				return err
			}
			if !yes {
				if err := confirm(fmt.Sprintf("Remove %s", label)); err != nil {
					if errors.Is(err, errCancelled) {
						fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled.")
						return nil
					}
					return err
				}
			}

			var tasks []models.Task
			if subtaskID != nil {
				tasks, err = svc.RemoveSubtask(ctx, taskID, *subtaskID)
			} else {
				tasks, err = svc.RemoveTask(ctx, taskID)
			}
			if err != nil {
				return err
			}
			return report(cmd, "Removed "+label+".", tasks)
		})
	},
}

// removalLabel describes what will be removed, failing early for unknown ids
// so the user is not asked to confirm a no-op.
func removalLabel(tasks []models.Task, taskID int, subtaskID *int) (string, error) {
	i := models.FindTask(tasks, taskID)
	if i < 0 {
		return "", &task.NotFoundError{TaskID: taskID}
	}
	t := tasks[i]
	if subtaskID == nil {
		return fmt.Sprintf("task %d %q", taskID, t.Title), nil
	}
	j := models.FindSubtask(&t, *subtaskID)
	if j < 0 {
		return "", &task.NotFoundError{TaskID: taskID, SubtaskID: subtaskID}
	}
	return fmt.Sprintf("subtask %d %q of task %d", *subtaskID, t.Subtasks[j].Title, taskID), nil
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rmCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}
