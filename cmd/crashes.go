package cmd

import (
	"fmt"
	"os"

	"github.com/josephgoksu/TaskNest/internal/config"
	"github.com/josephgoksu/TaskNest/internal/logger"
	"github.com/spf13/cobra"
)

// crashesCmd represents the crashes command
var crashesCmd = &cobra.Command{
	Use:   "crashes",
	Short: "List saved crash reports",
	Long: `List crash reports written when TaskNest panicked. Reports live in a
crash_logs directory next to the data file; only the most recent ones are kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logs, err := logger.ListCrashLogs()
		if err != nil {
			return fmt.Errorf("list crash logs: %w", err)
		}
		showLast, _ := cmd.Flags().GetBool("last")

		if isJSON() {
			if logs == nil {
				logs = []string{}
			}
			return printJSON(cmd, logs)
		}
		out := cmd.OutOrStdout()
		if len(logs) == 0 {
			fmt.Fprintf(out, "No crash reports in %s.\n", config.GetCrashLogDir(appConfig.Data.File))
			return nil
		}
		if showLast {
			data, err := os.ReadFile(logs[len(logs)-1])
			if err != nil {
				return fmt.Errorf("read crash log: %w", err)
			}
			_, err = out.Write(data)
			return err
		}
		for _, l := range logs {
			fmt.Fprintln(out, l)
		}
		return nil
	},
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if isJSON() {
			return printJSON(cmd, map[string]string{"version": GetVersion()})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "tasknest %s\n", GetVersion())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crashesCmd, versionCmd)
	crashesCmd.Flags().Bool("last", false, "print the most recent report")
}
