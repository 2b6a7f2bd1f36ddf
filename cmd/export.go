package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/josephgoksu/TaskNest/internal/export"
	"github.com/josephgoksu/TaskNest/internal/task"
	"github.com/spf13/cobra"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the task list as JSON, CSV, Markdown or PDF",
	Long: `Export every task and subtask. Exports are one-way: use backup for a copy
that can be restored later. Without --output the export goes to stdout; PDF
output requires --output.`,
	Example: `  tasknest export --format markdown
  tasknest export --format csv --output tasks.csv
  tasknest export --format pdf --output tasks.pdf --title "Q3 plan"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawFormat, _ := cmd.Flags().GetString("as")
		output, _ := cmd.Flags().GetString("output")
		title, _ := cmd.Flags().GetString("title")

		format, err := export.ParseFormat(rawFormat)
		if err != nil {
			return err
		}
		if format == export.FormatPDF && output == "" {
			return fmt.Errorf("pdf export requires --output")
		}

		return withService(cmd, func(ctx context.Context, svc *task.Service) error {
			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				if dir := filepath.Dir(output); dir != "." {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return fmt.Errorf("create directory %s: %w", dir, err)
					}
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			tasks := svc.Tasks()
			if err := export.Write(w, format, title, tasks); err != nil {
				return fmt.Errorf("export %s: %w", format, err)
			}
			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d task(s) to %s.\n", len(tasks), output)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	// --format is taken by the data format, so the export format is --as.
	exportCmd.Flags().String("as", string(export.FormatMarkdown), "export format: json, csv, markdown or pdf")
	exportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
	exportCmd.Flags().String("title", "Tasks", "document title for markdown and pdf")
}
