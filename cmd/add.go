package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/josephgoksu/TaskNest/internal/task"
	"github.com/spf13/cobra"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:     "add [title]",
	Aliases: []string{"a", "new"},
	Short:   "Add a task at the top of the list",
	Long: `Add a new task at the front of the list. The id is one more than the largest
existing task id. Without a title the task is named "New Task".`,
	Example: `  tasknest add "Book flights"
  tasknest add --title "Pay rent" --due 2025-07-01`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		if title == "" && len(args) > 0 {
			title = strings.Join(args, " ")
		}
		dueArg, _ := cmd.Flags().GetString("due")
		due, err := task.ParseDueDate(dueArg)
		if err != nil {
			return err
		}

		return withService(cmd, func(ctx context.Context, svc *task.Service) error {
			tasks, id, err := svc.AddTask(ctx)
			if err != nil {
				return err
			}
			if title != "" {
				if tasks, err = svc.EditTitle(ctx, id, nil, title); err != nil {
					return err
				}
			}
			if due != nil {
				if tasks, err = svc.EditDueDate(ctx, id, due); err != nil {
					return err
				}
			}
			return report(cmd, fmt.Sprintf("Added task %d.", id), tasks)
		})
	},
}

// subCmd represents the sub command
var subCmd = &cobra.Command{
	Use:     "sub <task_id> [title]",
	Aliases: []string{"subtask"},
	Short:   "Add a subtask to a task",
	Long: `Append a subtask to the end of a task's subtask list. Subtask ids start at
task_id*10+1 and then grow past the largest existing subtask id.`,
	Example: `  tasknest sub 1 "Buy stamps"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		if title == "" && len(args) > 1 {
			title = strings.Join(args[1:], " ")
		}

		return withService(cmd, func(ctx context.Context, svc *task.Service) error {
			tasks, id, err := svc.AddSubtask(ctx, taskID)
			if err != nil {
				return err
			}
			if title != "" {
				if tasks, err = svc.EditTitle(ctx, taskID, &id, title); err != nil {
					return err
				}
			}
			return report(cmd, fmt.Sprintf("Added subtask %d to task %d.", id, taskID), tasks)
		})
	},
}

func init() {
	rootCmd.AddCommand(addCmd, subCmd)
	addCmd.Flags().StringP("title", "t", "", "task title")
	addCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	subCmd.Flags().StringP("title", "t", "", "subtask title")
}
