package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/josephgoksu/TaskNest/internal/server"
	"github.com/josephgoksu/TaskNest/internal/task"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task list over a JSON HTTP API",
	Long: `Start an HTTP server exposing the task list under /api. Browser front-ends
on other origins must be allowed with --origin.`,
	Example: `  tasknest serve
  tasknest serve --addr 127.0.0.1:9000 --origin http://localhost:5173`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = appConfig.Server.Addr
		}
		origins, _ := cmd.Flags().GetStringSlice("origin")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withService(cmd, func(_ context.Context, svc *task.Service) error {
			srv := server.New(svc, server.Options{
				Addr:    addr,
				Origins: origins,
				Logger:  appLogger,
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "Serving %s on http://%s (Ctrl+C to stop)\n", svc.Path(), srv.Addr())
			return srv.Run(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default server.addr)")
	serveCmd.Flags().StringSlice("origin", nil, "allowed CORS origin; repeat for several")
}
