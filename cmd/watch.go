package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/josephgoksu/TaskNest/internal/task"
	"github.com/josephgoksu/TaskNest/internal/watch"
	"github.com/josephgoksu/TaskNest/store"
	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the task list and redraw it when the data file changes",
	Long: `Print the task list, then keep it current: whenever another process (the CLI,
the HTTP API or an MCP client) changes the data file, the list is reloaded and
printed again. Press Ctrl+C to stop. Only file-backed formats can be watched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := store.Format(appConfig.Data.Format)
		if format != store.FormatSQLite && !format.IsFile() {
			return fmt.Errorf("watch needs a data file; format %s is not file-backed", format)
		}
		debounce, _ := cmd.Flags().GetDuration("debounce")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withService(cmd, func(_ context.Context, svc *task.Service) error {
			w, err := watch.New(svc.Path(), debounce)
			if err != nil {
				return err
			}
			w.WithLogger(appLogger)

			done := make(chan error, 1)
			go func() { done <- w.Run(ctx) }()

			draw := func() error {
				tasks, more := window(svc.Tasks())
				if !isJSON() {
					fmt.Fprintf(cmd.OutOrStdout(), "\n%s (%s)\n", svc.Path(), time.Now().Format(time.TimeOnly))
				}
				return renderTasks(cmd, tasks, more)
			}
			if err := draw(); err != nil {
				return err
			}

			for range w.Events() {
				changed, err := svc.Reload(ctx)
				if err != nil {
					appLogger.Warn("reload failed", "path", svc.Path(), "error", err)
					continue
				}
				if !changed {
					continue
				}
				if err := draw(); err != nil {
					return err
				}
			}
			return <-done
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "wait this long after a change before reloading")
}
