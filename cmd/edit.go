package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/josephgoksu/TaskNest/internal/task"
	"github.com/josephgoksu/TaskNest/models"
	"github.com/spf13/cobra"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:     "edit <task_id> [subtask_id] <title>",
	Aliases: []string{"rename", "e"},
	Short:   "Change the title of a task or subtask",
	Long: `Change a title. With two arguments the task is renamed; with three the
second argument selects a subtask. Any text is accepted, including an empty title.`,
	Example: `  tasknest edit 1 "Plan monthly schedule"
  tasknest edit 1 12 "Personal goals for July"`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		var subtaskID *int
		title := args[len(args)-1]
		if len(args) == 3 {
			if subtaskID, err = optionalSubtask(args, 1); err != nil {
				return err
			}
		}

		return withService(cmd, func(ctx context.Context, svc *task.Service) error {
			tasks, err := svc.EditTitle(ctx, taskID, subtaskID, title)
			if err != nil {
				return err
			}
			what := fmt.Sprintf("task %d", taskID)
			if subtaskID != nil {
				what = fmt.Sprintf("subtask %d of task %d", *subtaskID, taskID)
			}
			return report(cmd, "Renamed "+what+".", tasks)
		})
	},
}

// dueCmd represents the due command
var dueCmd = &cobra.Command{
	Use:   "due <task_id> [YYYY-MM-DD]",
	Short: "Set or clear a task's due date",
	Example: `  tasknest due 1 2025-07-04
  tasknest due 1 --clear`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		clearDue, _ := cmd.Flags().GetBool("clear")
		switch {
		case clearDue && len(args) == 2:
			return fmt.Errorf("give either a date or --clear, not both")
		case !clearDue && len(args) == 1:
			return fmt.Errorf("a date (YYYY-MM-DD) or --clear is required")
		}

		dateArg := ""
		if len(args) == 2 {
			dateArg = strings.TrimSpace(args[1])
		}
		due, err := task.ParseDueDate(dateArg)
		if err != nil {
			return err
		}

		return withService(cmd, func(ctx context.Context, svc *task.Service) error {
			tasks, err := svc.EditDueDate(ctx, taskID, due)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Cleared the due date of task %d.", taskID)
			if due != nil {
				msg = fmt.Sprintf("Task %d is due %s.", taskID, due.Format(models.DateLayout))
			}
			return report(cmd, msg, tasks)
		})
	},
}

func init() {
	rootCmd.AddCommand(editCmd, dueCmd)
	dueCmd.Flags().Bool("clear", false, "remove the due date")
}
