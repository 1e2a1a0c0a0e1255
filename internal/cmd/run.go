package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskvault/internal/datamodel"
	"github.com/felixgeelhaar/taskvault/internal/domain"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Record and list task runs",
	Long: `A run is one execution of a task with a concrete input. Source properties
describe who or what produced it: human runs need creator=<name>, synthetic
runs need adapter_name, model_name, model_provider and prompt_builder_name.

Examples:
  taskvault run add --task ./Demo/tasks/<id> --input '{"text":"Alice is 30"}' \
    --source human --prop creator=ada
`,
}

var runAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a run to a task",
	Args:  cobra.NoArgs,
	RunE:  runRunAdd,
}

var runListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a task's runs",
	Args:  cobra.NoArgs,
	RunE:  runRunList,
}

var (
	runTask      string
	runInput     string
	runInputFile string
	runSource    string
	runProps     []string
)

func init() {
	runAddCmd.Flags().StringVar(&runTask, "task", "", "task directory or task.json")
	runAddCmd.Flags().StringVar(&runInput, "input", "", "run input")
	runAddCmd.Flags().StringVar(&runInputFile, "input-file", "", "file holding the run input")
	runAddCmd.Flags().StringVar(&runSource, "source", string(domain.SourceHuman), "human or synthetic")
	runAddCmd.Flags().StringArrayVar(&runProps, "prop", nil, "source property key=value (repeatable)")
	_ = runAddCmd.MarkFlagRequired("task")

	runListCmd.Flags().StringVar(&runTask, "task", "", "task directory or task.json")
	_ = runListCmd.MarkFlagRequired("task")

	runCmd.AddCommand(runAddCmd)
	runCmd.AddCommand(runListCmd)

	rootCmd.AddCommand(runCmd)
}

func runRunAdd(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	task, err := loadTaskArg(s, runTask)
	if err != nil {
		return err
	}
	input, err := textOrFile(runInput, runInputFile, "input")
	if err != nil {
		return err
	}
	props, err := parseKeyValues("prop", runProps)
	if err != nil {
		return err
	}

	run, err := datamodel.NewTaskRun(task, input, domain.DataSourceType(runSource), props)
	if err != nil {
		return err
	}
	if err := s.store.Save(run); err != nil {
		return err
	}
	return s.emit(entityRecord(run), viewOf(run))
}

func runRunList(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	task, err := loadTaskArg(s, runTask)
	if err != nil {
		return err
	}
	runs, err := s.store.Runs(task)
	if err != nil {
		return err
	}
	return s.emit(recordsOf(runs), viewsOf(runs))
}
