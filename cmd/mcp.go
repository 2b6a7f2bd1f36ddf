package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/josephgoksu/TaskNest/internal/mcp"
	"github.com/josephgoksu/TaskNest/internal/task"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout so AI assistants can
read and edit the task list through a single "task" tool. Logs go to stderr.`,
	Example: `  # Claude Desktop / any MCP client configuration
  {"command": "tasknest", "args": ["mcp"]}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withService(cmd, func(_ context.Context, svc *task.Service) error {
			server := mcp.NewServer(svc, GetVersion(), appLogger)
			appLogger.Info("starting MCP server", "data", svc.Path())
			if err := server.Run(ctx, mcpsdk.NewStdioTransport()); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
