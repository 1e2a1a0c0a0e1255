package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskvault/internal/datamodel"
	"github.com/felixgeelhaar/taskvault/internal/domain"
	"github.com/felixgeelhaar/taskvault/internal/errors"
)

var requirementCmd = &cobra.Command{
	Use:     "requirement",
	Aliases: []string{"req"},
	Short:   "Add and list the requirements outputs are rated against",
}

var requirementAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a requirement to a task",
	Args:  cobra.NoArgs,
	RunE:  runRequirementAdd,
}

var requirementListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a task's requirements",
	Args:  cobra.NoArgs,
	RunE:  runRequirementList,
}

var (
	requirementTask        string
	requirementName        string
	requirementInstruction string
	requirementDescription string
	requirementPriority    string
)

func init() {
	requirementAddCmd.Flags().StringVar(&requirementTask, "task", "", "task directory or task.json")
	requirementAddCmd.Flags().StringVar(&requirementName, "name", "", "requirement name")
	requirementAddCmd.Flags().StringVar(&requirementInstruction, "instruction", "", "what an output must do to satisfy it")
	requirementAddCmd.Flags().StringVar(&requirementDescription, "description", "", "requirement description")
	requirementAddCmd.Flags().StringVar(&requirementPriority, "priority", domain.DefaultPriority.String(), "priority P0 (highest) to P3")
	_ = requirementAddCmd.MarkFlagRequired("task")
	_ = requirementAddCmd.MarkFlagRequired("name")
	_ = requirementAddCmd.MarkFlagRequired("instruction")

	requirementListCmd.Flags().StringVar(&requirementTask, "task", "", "task directory or task.json")
	_ = requirementListCmd.MarkFlagRequired("task")

	requirementCmd.AddCommand(requirementAddCmd)
	requirementCmd.AddCommand(requirementListCmd)

	rootCmd.AddCommand(requirementCmd)
}

func runRequirementAdd(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	task, err := loadTaskArg(s, requirementTask)
	if err != nil {
		return err
	}
	priority, err := domain.ParsePriority(requirementPriority)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConstraint, "invalid --priority", err)
	}

	req, err := datamodel.NewTaskRequirement(task, requirementName, requirementInstruction, priority)
	if err != nil {
		return err
	}
	req.Description = requirementDescription
	if err := s.store.Save(req); err != nil {
		return err
	}
	return s.emit(entityRecord(req), viewOf(req))
}

func runRequirementList(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	task, err := loadTaskArg(s, requirementTask)
	if err != nil {
		return err
	}
	reqs, err := s.store.Requirements(task)
	if err != nil {
		return err
	}
	byPriority(reqs)
	return s.emit(recordsOf(reqs), viewsOf(reqs))
}

// byPriority orders requirements most urgent first, keeping creation order
// within a priority.
func byPriority(reqs []*datamodel.TaskRequirement) {
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].Priority.IsHigherThan(reqs[j].Priority)
	})
}
