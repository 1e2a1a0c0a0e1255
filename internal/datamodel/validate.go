package datamodel

import (
	"fmt"

	"github.com/felixgeelhaar/taskvault/internal/errors"
	"github.com/felixgeelhaar/taskvault/internal/schema"
)

// crossCheck is a validation that needs entities other than the one checked.
type crossCheck struct {
	name string
	run  func(s *Store, e Entity) (Verdict, error)
}

// crossChecks lists, per kind, the checks run after intrinsic validation.
func crossChecks(kind Kind) []crossCheck {
	switch kind {
	case KindTaskRun:
		return []crossCheck{
			{name: "input schema", run: checkRunInput},
		}
	case KindTaskOutput:
		return []crossCheck{
			{name: "output schema", run: checkOutputSchema},
			{name: "requirement ratings", run: checkRatingKeys},
		}
	default:
		return nil
	}
}

// Validate runs the intrinsic checks of e and every cross-entity check
// declared for its kind. It fails on the first violation.
func (s *Store) Validate(e Entity) (Verdict, error) {
	if err := e.validate(); err != nil {
		return Passed, err
	}
	verdict := Passed
	for _, check := range crossChecks(e.Kind()) {
		v, err := check.run(s, e)
		if err != nil {
			return Passed, err
		}
		if v == Deferred {
			s.logger.Debug("validation deferred",
				"kind", string(e.Kind()), "id", e.Meta().ID, "check", check.name)
			verdict = Deferred
		}
	}
	return verdict, nil
}

func checkRunInput(s *Store, e Entity) (Verdict, error) {
	run := e.(*TaskRun)
	task, err := s.TaskFor(run)
	if err != nil {
		return Passed, err
	}
	if task == nil {
		return Deferred, nil
	}
	return conform(task.InputSchema, "input", &run.Input)
}

func checkOutputSchema(s *Store, e Entity) (Verdict, error) {
	out := e.(*TaskOutput)
	task, err := s.TaskFor(out)
	if err != nil {
		return Passed, err
	}
	if task == nil {
		return Deferred, nil
	}
	if v, err := conform(task.OutputSchema, "output", &out.Output); err != nil {
		return v, err
	}
	return conform(task.OutputSchema, "fixed_output", out.FixedOutput)
}

// conform validates instance against the schema compile returns. A nil
// instance or a nil schema imposes nothing.
func conform(compile func() (*schema.Compiled, error), field string, instance *string) (Verdict, error) {
	if instance == nil {
		return Passed, nil
	}
	sch, err := compile()
	if err != nil {
		return Passed, err
	}
	if sch == nil {
		return Passed, nil
	}
	return Passed, sch.Validate(field, *instance)
}

func checkRatingKeys(s *Store, e Entity) (Verdict, error) {
	out := e.(*TaskOutput)
	if out.Rating == nil || len(out.Rating.RequirementRatings) == 0 {
		return Passed, nil
	}
	task, err := s.TaskFor(out)
	if err != nil {
		return Passed, err
	}
	if task == nil || task.Path == "" {
		return Deferred, nil
	}
	reqs, err := s.Requirements(task)
	if err != nil {
		return Passed, err
	}
	known := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		known[r.ID] = true
	}
	for _, key := range out.Rating.requirementKeys() {
		if !known[key] {
			return Passed, errors.NewReferenceError(fmt.Sprintf(
				"Requirement ID %q is not a valid requirement ID for this task", key)).
				WithSuggestion("List the task's requirements and rate against their IDs")
		}
	}
	return Passed, nil
}

// checkSingleOutput enforces that a run holds at most one output. It runs
// only at save time. Siblings are counted by their entity files without
// being loaded.
func (s *Store) checkSingleOutput(out *TaskOutput) error {
	run, err := s.ParentOf(out)
	if err != nil || run == nil || run.Meta().Path == "" {
		return err
	}
	rel, _ := RelationshipFor(KindTaskOutput)
	ids, err := s.childIDs(run, rel)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id != out.ID {
			return errors.NewConstraintError(fmt.Sprintf(
				"task run %s already has output %s", run.Meta().ID, id)).
				WithSuggestion("Update the existing output instead of adding another")
		}
	}
	return nil
}
