package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/josephgoksu/TaskNest/internal/config"
	"github.com/josephgoksu/TaskNest/internal/task"
	"github.com/josephgoksu/TaskNest/internal/ui"
	"github.com/josephgoksu/TaskNest/models"
	"github.com/josephgoksu/TaskNest/store"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func isJSON() bool {
	return viper.GetBool("json")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

func printJSON(cmd *cobra.Command, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

// openService opens the configured persister and a Service over it. The
// returned function closes the persister.
func openService(ctx context.Context) (*task.Service, func(), error) {
	p, err := store.Open(ctx, config.StoreConfig(appConfig))
	if err != nil {
		return nil, nil, fmt.Errorf("open task store: %w", err)
	}
	svc, err := task.Open(ctx, p, task.WithLogger(appLogger))
	if err != nil {
		_ = p.Close()
		return nil, nil, err
	}
	closeFn := func() {
		if err := p.Close(); err != nil {
			LogError("Failed to close task store", err)
		}
	}
	return svc, closeFn, nil
}

// withService runs fn against a freshly opened Service.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *task.Service) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, closeFn, err := openService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, svc)
}

// parseID parses a positional task or subtask id.
func parseID(arg, what string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q: must be a number", what, arg)
	}
	return id, nil
}

// parseIDs parses a list of positional ids.
func parseIDs(args []string, what string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := parseID(a, what)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// optionalSubtask returns a pointer to the subtask id in args[i], if given.
func optionalSubtask(args []string, i int) (*int, error) {
	if len(args) <= i {
		return nil, nil
	}
	id, err := parseID(args[i], "subtask")
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// renderTasks prints the collection as JSON or as a styled tree.
func renderTasks(cmd *cobra.Command, tasks []models.Task, more int) error {
	if isJSON() {
		if tasks == nil {
			tasks = []models.Task{}
		}
		return printJSON(cmd, tasks)
	}
	fmt.Fprint(cmd.OutOrStdout(), ui.RenderTaskTree(tasks, more, time.Now()))
	return nil
}

// report prints a one-line confirmation followed by the collection, or the
// collection alone in JSON mode.
func report(cmd *cobra.Command, msg string, tasks []models.Task) error {
	if !isJSON() {
		fmt.Fprintln(cmd.OutOrStdout(), msg)
	}
	tasks, more := window(tasks)
	return renderTasks(cmd, tasks, more)
}

// window trims tasks to the configured page size outside JSON mode.
func window(tasks []models.Task) ([]models.Task, int) {
	n := appConfig.UI.PageSize
	if isJSON() || n <= 0 || len(tasks) <= n {
		return tasks, 0
	}
	return tasks[:n], len(tasks) - n
}

// errCancelled is returned when the user declines a confirmation.
var errCancelled = errors.New("cancelled")

// confirm asks a yes/no question. Non-interactive sessions and --json are
// treated as confirmed so scripts are never blocked on a prompt.
func confirm(label string) error {
	if isJSON() || !ui.IsInteractive(os.Stdin) {
		return nil
	}
	prompt := promptui.Prompt{Label: label, IsConfirm: true}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return errCancelled
		}
		return fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return nil
}
