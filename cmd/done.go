package cmd

import (
	"context"
	"fmt"

	"github.com/josephgoksu/TaskNest/internal/task"
	"github.com/josephgoksu/TaskNest/models"
	"github.com/spf13/cobra"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:     "done <task_id> [subtask_id]",
	Aliases: []string{"toggle", "d"},
	Short:   "Toggle completion of a task or subtask",
	Example: `  # Complete (or reopen) task 1
  tasknest done 1

  # Toggle subtask 12 of task 1
  tasknest done 1 12`,
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

		return withService(cmd, func(ctx context.Context, svc *task.Service) error {
			tasks, err := svc.ToggleComplete(ctx, taskID, subtaskID)
			if err != nil {
				return err
			}
			return report(cmd, completionMessage(tasks, taskID, subtaskID), tasks)
		})
	},
}

func completionMessage(tasks []models.Task, taskID int, subtaskID *int) string {
	i := models.FindTask(tasks, taskID)
	if i < 0 {
		return "Toggled."
	}
	t := tasks[i]
	if subtaskID == nil {
		return fmt.Sprintf("Task %d marked %s.", taskID, state(t.Completed))
	}
	if j := models.FindSubtask(&t, *subtaskID); j >= 0 {
		return fmt.Sprintf("Subtask %d of task %d marked %s.", *subtaskID, taskID, state(t.Subtasks[j].Completed))
	}
	return "Toggled."
}

func state(done bool) string {
	if done {
		return "done"
	}
	return "not done"
}

// expandCmd represents the expand command
var expandCmd = &cobra.Command{
	Use:     "expand <task_id>",
	Aliases: []string{"fold", "collapse"},
	Short:   "Show or hide a task's subtasks in listings",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		return withService(cmd, func(ctx context.Context, svc *task.Service) error {
			tasks, err := svc.ToggleExpand(ctx, taskID)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Task %d collapsed.", taskID)
			if i := models.FindTask(tasks, taskID); i >= 0 && tasks[i].IsExpanded() {
				msg = fmt.Sprintf("Task %d expanded.", taskID)
			}
			return report(cmd, msg, tasks)
		})
	},
}

func init() {
	rootCmd.AddCommand(doneCmd, expandCmd)
}
