package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskvault/internal/datamodel"
	"github.com/felixgeelhaar/taskvault/internal/domain"
	"github.com/felixgeelhaar/taskvault/internal/errors"
	"github.com/felixgeelhaar/taskvault/internal/tui"
	"github.com/felixgeelhaar/taskvault/internal/ux"
)

var outputCmd = &cobra.Command{
	Use:   "output",
	Short: "Record, rate and fix run outputs",
	Long: `Each run holds at most one output. Outputs are checked against the task's
output schema, ratings against the task's requirements.

Examples:
  taskvault output add --run <run dir> --output '{"name":"Alice","age":30}' --prop creator=ada
  taskvault output rate <output dir> --rating 4 --req <requirement id>=5
  taskvault output rate <output dir> --interactive
  taskvault output fix <output dir> --fixed '{"name":"Alice","age":31}'
  taskvault output review --task <task dir>
`,
}

var outputAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add the output of a run",
	Args:  cobra.NoArgs,
	RunE:  runOutputAdd,
}

var outputRateCmd = &cobra.Command{
	Use:   "rate <output>",
	Short: "Rate an output overall and per requirement",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutputRate,
}

var outputFixCmd = &cobra.Command{
	Use:   "fix <output>",
	Short: "Record a corrected version of an output",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutputFix,
}

var outputShowCmd = &cobra.Command{
	Use:   "show <output>",
	Short: "Show an output and its content fingerprint",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutputShow,
}

var outputReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse a task's outputs and rate them with stars",
	Args:  cobra.NoArgs,
	RunE:  runOutputReview,
}

var (
	outputTask        string
	outputRun         string
	outputText        string
	outputFile        string
	outputSource      string
	outputProps       []string
	outputRatingType  string
	outputRating      float64
	outputReqRatings  []string
	outputInteractive bool
	outputFixed       string
	outputFixedFile   string
)

func init() {
	outputAddCmd.Flags().StringVar(&outputRun, "run", "", "run directory or task_run.json")
	outputAddCmd.Flags().StringVar(&outputText, "output", "", "output text")
	outputAddCmd.Flags().StringVar(&outputFile, "output-file", "", "file holding the output text")
	outputAddCmd.Flags().StringVar(&outputSource, "source", string(domain.SourceHuman), "human or synthetic")
	outputAddCmd.Flags().StringArrayVar(&outputProps, "prop", nil, "source property key=value (repeatable)")
	_ = outputAddCmd.MarkFlagRequired("run")

	outputRateCmd.Flags().StringVar(&outputRatingType, "type", string(domain.RatingFiveStar), "five_star or custom")
	outputRateCmd.Flags().Float64Var(&outputRating, "rating", 0, "overall rating")
	outputRateCmd.Flags().StringArrayVar(&outputReqRatings, "req", nil, "requirement rating <requirement id>=<value> (repeatable)")
	outputRateCmd.Flags().BoolVarP(&outputInteractive, "interactive", "i", false, "choose stars interactively")

	outputFixCmd.Flags().StringVar(&outputFixed, "fixed", "", "corrected output text")
	outputFixCmd.Flags().StringVar(&outputFixedFile, "fixed-file", "", "file holding the corrected output")

	outputCmd.AddCommand(outputAddCmd)
	outputCmd.AddCommand(outputRateCmd)
	outputCmd.AddCommand(outputFixCmd)
	outputReviewCmd.Flags().StringVar(&outputTask, "task", "", "task directory or task.json")
	_ = outputReviewCmd.MarkFlagRequired("task")

	outputCmd.AddCommand(outputShowCmd)
	outputCmd.AddCommand(outputReviewCmd)

	rootCmd.AddCommand(outputCmd)
}

func runOutputAdd(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	run, err := loadRunArg(s, outputRun)
	if err != nil {
		return err
	}
	text, err := textOrFile(outputText, outputFile, "output")
	if err != nil {
		return err
	}
	props, err := parseKeyValues("prop", outputProps)
	if err != nil {
		return err
	}

	out, err := datamodel.NewTaskOutput(run, text, domain.DataSourceType(outputSource), props)
	if err != nil {
		return err
	}
	if err := s.store.Save(out); err != nil {
		return err
	}
	return s.emit(entityRecord(out), viewOf(out))
}

func runOutputRate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	out, err := loadOutputArg(s, args[0])
	if err != nil {
		return err
	}

	var rating *datamodel.TaskOutputRating
	if outputInteractive {
		rating, err = promptRating(s, out)
	} else {
		rating, err = ratingFromFlags()
	}
	if err != nil {
		return err
	}
	if err := rating.Validate(); err != nil {
		return err
	}

	out.Rating = rating
	if err := s.store.Save(out); err != nil {
		return err
	}
	return s.emit(entityRecord(out), viewOf(out))
}

func ratingFromFlags() (*datamodel.TaskOutputRating, error) {
	pairs, err := parseKeyValues("req", outputReqRatings)
	if err != nil {
		return nil, err
	}
	reqs := make(map[string]float64, len(pairs))
	for id, raw := range pairs {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid argument %q for --req: rating must be a number", id+"="+raw)
		}
		reqs[id] = v
	}
	return &datamodel.TaskOutputRating{
		Type:               domain.RatingType(outputRatingType),
		Value:              outputRating,
		RequirementRatings: reqs,
	}, nil
}

func promptRating(s *session, out *datamodel.TaskOutput) (*datamodel.TaskOutputRating, error) {
	if !tui.ShouldPrompt() {
		return nil, errors.NewConstraintError("--interactive needs a terminal").
			WithSuggestion("Pass --rating and --req instead")
	}
	task, err := s.store.TaskFor(out)
	if err != nil {
		return nil, err
	}
	var choices []tui.Requirement
	if task != nil {
		reqs, err := s.store.Requirements(task)
		if err != nil {
			return nil, err
		}
		for _, r := range reqs {
			choices = append(choices, tui.Requirement{ID: r.ID, Name: r.Name.String()})
		}
	}

	current := 5
	if out.Rating != nil && out.Rating.Type == domain.RatingFiveStar {
		current = int(out.Rating.Value)
	}
	answers, err := tui.PromptForRating(current, choices)
	if err != nil {
		return nil, err
	}
	reqs := make(map[string]float64, len(answers.Requirements))
	for id, stars := range answers.Requirements {
		reqs[id] = float64(stars)
	}
	return datamodel.NewFiveStarRating(float64(answers.Overall), reqs)
}

func runOutputFix(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	out, err := loadOutputArg(s, args[0])
	if err != nil {
		return err
	}
	fixed, err := textOrFile(outputFixed, outputFixedFile, "fixed")
	if err != nil {
		return err
	}
	if fixed == "" {
		return errors.NewConstraintError("a fixed output is required").
			WithSuggestion("Pass --fixed or --fixed-file")
	}

	out.Fix(fixed)
	if err := s.store.Save(out); err != nil {
		return err
	}
	return s.emit(entityRecord(out), viewOf(out))
}

type outputShowView struct {
	entityView
	Fingerprint string `json:"fingerprint"`
}

func runOutputShow(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	out, err := loadOutputArg(s, args[0])
	if err != nil {
		return err
	}
	digest, err := s.store.Fingerprint(out)
	if err != nil {
		return err
	}

	record := entityRecord(out)
	record.Fields = append(record.Fields, ux.Field{Key: "fingerprint", Value: digest})
	return s.emit(record, outputShowView{entityView: viewOf(out), Fingerprint: digest})
}

type reviewEntry struct {
	out *datamodel.TaskOutput
	run *datamodel.TaskRun
}

func runOutputReview(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if !tui.ShouldPrompt() {
		return errors.NewConstraintError("output review needs a terminal").
			WithSuggestion("Use 'taskvault output rate' instead")
	}
	task, err := loadTaskArg(s, outputTask)
	if err != nil {
		return err
	}
	entries, err := reviewEntries(s.store, task)
	if err != nil {
		return err
	}

	items := make([]tui.ReviewItem, 0, len(entries))
	byID := make(map[string]*datamodel.TaskOutput, len(entries))
	for _, e := range entries {
		items = append(items, reviewItem(e))
		byID[e.out.ID] = e.out
	}
	res, err := tui.RunReview(task.Name.String(), items)
	if err != nil {
		return err
	}
	if !res.Saved {
		return s.out.Format("review cancelled, nothing saved")
	}

	var saved []*datamodel.TaskOutput
	for _, id := range sortedKeys(res.Ratings) {
		out := byID[id]
		if err := applyStars(out, res.Ratings[id]); err != nil {
			return err
		}
		if err := s.store.Save(out); err != nil {
			return err
		}
		saved = append(saved, out)
	}
	return s.emit(recordsOf(saved), viewsOf(saved))
}

// reviewEntries collects the outputs of every run of task in run order.
func reviewEntries(store *datamodel.Store, task *datamodel.Task) ([]reviewEntry, error) {
	runs, err := store.Runs(task)
	if err != nil {
		return nil, err
	}
	var entries []reviewEntry
	for _, r := range runs {
		outputs, err := store.Outputs(r)
		if err != nil {
			return nil, err
		}
		for _, o := range outputs {
			entries = append(entries, reviewEntry{out: o, run: r})
		}
	}
	return entries, nil
}

func reviewItem(e reviewEntry) tui.ReviewItem {
	item := tui.ReviewItem{
		ID:     e.out.ID,
		Input:  e.run.Input,
		Output: e.out.Output,
		Fixed:  deref(e.out.FixedOutput),
	}
	if r := e.out.Rating; r != nil && r.Type == domain.RatingFiveStar {
		item.Stars = int(r.Value)
	}
	return item
}

// applyStars sets the overall five-star rating, keeping requirement
// ratings of an existing five-star rating.
func applyStars(out *datamodel.TaskOutput, stars int) error {
	var reqs map[string]float64
	if out.Rating != nil && out.Rating.Type == domain.RatingFiveStar {
		reqs = out.Rating.RequirementRatings
	}
	rating, err := datamodel.NewFiveStarRating(float64(stars), reqs)
	if err != nil {
		return err
	}
	out.Rating = rating
	return nil
}
