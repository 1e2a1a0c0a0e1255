package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taskvault",
	Short: "File-backed store for tasks, runs and rated outputs",
	Long: `taskvault keeps projects of tasks, task requirements, runs and rated outputs
as one JSON file per entity in a directory tree. Every save and load checks run
inputs and outputs against the task's JSON schemas, rating keys against the
task's requirements, and source properties against the run's data source.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which commands can use to
// observe cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default is $TASKVAULT_HOME/config.yaml or ~/.taskvault/config.yaml)")
	rootCmd.PersistentFlags().String("format", "text", "output format: text, json, yaml")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: json, text (overrides config)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
}
