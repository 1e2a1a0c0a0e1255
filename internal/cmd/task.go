package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskvault/internal/datamodel"
	"github.com/felixgeelhaar/taskvault/internal/domain"
	"github.com/felixgeelhaar/taskvault/internal/errors"
	"github.com/felixgeelhaar/taskvault/internal/projects"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create and list tasks of a project",
	Long: `A task holds an instruction and optional JSON schemas. The input schema
constrains every run's input; the output schema constrains every output and
fixed output of those runs.

Examples:
  taskvault task create --project ./Demo --name Extract \
    --instruction "Extract name and age" --output-schema person.schema.json
  taskvault task list --project ./Demo
`,
}

var taskCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task in a project",
	Args:  cobra.NoArgs,
	RunE:  runTaskCreate,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a project's tasks",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var (
	taskProject          string
	taskName             string
	taskInstruction      string
	taskDescription      string
	taskPriority         string
	taskDeterminism      string
	taskOutputSchemaFile string
	taskInputSchemaFile  string
)

func init() {
	taskCreateCmd.Flags().StringVar(&taskProject, "project", "", "project directory or project.json")
	taskCreateCmd.Flags().StringVar(&taskName, "name", "", "task name")
	taskCreateCmd.Flags().StringVar(&taskInstruction, "instruction", "", "instruction for whoever performs the task")
	taskCreateCmd.Flags().StringVar(&taskDescription, "description", "", "task description")
	taskCreateCmd.Flags().StringVar(&taskPriority, "priority", domain.DefaultPriority.String(), "priority P0 (highest) to P3")
	taskCreateCmd.Flags().StringVar(&taskDeterminism, "determinism", string(domain.DeterminismFlexible), "deterministic, semantic_match or flexible")
	taskCreateCmd.Flags().StringVar(&taskOutputSchemaFile, "output-schema", "", "file holding the output JSON schema")
	taskCreateCmd.Flags().StringVar(&taskInputSchemaFile, "input-schema", "", "file holding the input JSON schema")
	_ = taskCreateCmd.MarkFlagRequired("project")
	_ = taskCreateCmd.MarkFlagRequired("name")
	_ = taskCreateCmd.MarkFlagRequired("instruction")

	taskListCmd.Flags().StringVar(&taskProject, "project", "", "project directory or project.json")
	_ = taskListCmd.MarkFlagRequired("project")

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskListCmd)

	rootCmd.AddCommand(taskCmd)
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	project, err := loadProjectArg(s, taskProject)
	if err != nil {
		return err
	}

	priority, err := domain.ParsePriority(taskPriority)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConstraint, "invalid --priority", err)
	}
	opts := []datamodel.TaskOption{
		datamodel.WithDescription(taskDescription),
		datamodel.WithPriority(priority),
		datamodel.WithDeterminism(domain.TaskDeterminism(taskDeterminism)),
	}
	if taskOutputSchemaFile != "" {
		text, err := readTextFile(taskOutputSchemaFile)
		if err != nil {
			return err
		}
		opts = append(opts, datamodel.WithOutputSchema(text))
	}
	if taskInputSchemaFile != "" {
		text, err := readTextFile(taskInputSchemaFile)
		if err != nil {
			return err
		}
		opts = append(opts, datamodel.WithInputSchema(text))
	}

	task, err := datamodel.NewTask(project, taskName, taskInstruction, opts...)
	if err != nil {
		return err
	}
	if err := s.store.Save(task); err != nil {
		return err
	}
	return s.emit(entityRecord(task), viewOf(task))
}

func runTaskList(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	project, err := loadProjectArg(s, taskProject)
	if err != nil {
		return err
	}
	tasks, err := s.store.Tasks(project)
	if err != nil {
		return err
	}
	return s.emit(recordsOf(tasks), viewsOf(tasks))
}

func loadProjectArg(s *session, arg string) (*datamodel.Project, error) {
	file, err := projects.ProjectFile(arg)
	if err != nil {
		return nil, err
	}
	return s.store.LoadProject(file)
}

func loadTaskArg(s *session, arg string) (*datamodel.Task, error) {
	file, err := entityFile(arg, datamodel.KindTask)
	if err != nil {
		return nil, err
	}
	return s.store.LoadTask(file)
}

func loadRunArg(s *session, arg string) (*datamodel.TaskRun, error) {
	file, err := entityFile(arg, datamodel.KindTaskRun)
	if err != nil {
		return nil, err
	}
	return s.store.LoadTaskRun(file)
}

func loadOutputArg(s *session, arg string) (*datamodel.TaskOutput, error) {
	file, err := entityFile(arg, datamodel.KindTaskOutput)
	if err != nil {
		return nil, err
	}
	return s.store.LoadTaskOutput(file)
}

func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewFileNotFoundError(path)
		}
		return "", errors.NewFileReadError(path, err)
	}
	return string(data), nil
}

// textOrFile returns the inline value, or the content of file when set.
func textOrFile(inline, file, flag string) (string, error) {
	if file != "" {
		if inline != "" {
			return "", errors.NewConstraintError("use either --" + flag + " or --" + flag + "-file, not both")
		}
		return readTextFile(file)
	}
	return inline, nil
}
