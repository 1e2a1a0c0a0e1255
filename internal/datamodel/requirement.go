package datamodel

import (
	"github.com/felixgeelhaar/taskvault/internal/domain"
	"github.com/felixgeelhaar/taskvault/internal/errors"
	"github.com/felixgeelhaar/taskvault/internal/idgen"
)

// TaskRequirement is a named criterion outputs of a task are rated against.
// Its ID is the key used in TaskOutputRating.RequirementRatings.
type TaskRequirement struct {
	Base
	Name        domain.Name     `json:"name"`
	Description string          `json:"description"`
	Instruction string          `json:"instruction"`
	Priority    domain.Priority `json:"priority"`

	parent *Task
}

// NewTaskRequirement creates a requirement. A nil task leaves it detached.
func NewTaskRequirement(task *Task, name, instruction string, priority domain.Priority) (*TaskRequirement, error) {
	r := &TaskRequirement{
		Base:        Base{V: SchemaVersion, ID: idgen.New()},
		Name:        domain.Name(name),
		Instruction: instruction,
		Priority:    priority,
		parent:      task,
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *TaskRequirement) Kind() Kind { return KindTaskRequirement }

// Task returns the in-memory parent, or nil.
func (r *TaskRequirement) Task() *Task { return r.parent }

// SetTask attaches the requirement to t.
func (r *TaskRequirement) SetTask(t *Task) { r.parent = t }

func (r *TaskRequirement) parentEntity() Entity {
	if r.parent == nil {
		return nil
	}
	return r.parent
}

func (r *TaskRequirement) attach(parent Entity) bool {
	t, ok := parent.(*Task)
	if ok {
		r.parent = t
	}
	return ok
}

func (r *TaskRequirement) validate() error {
	if err := validateName("requirement", r.Name); err != nil {
		return err
	}
	if r.Instruction == "" {
		return errors.NewConstraintError("requirement instruction must not be empty")
	}
	if err := r.Priority.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeConstraint, "requirement priority is invalid", err)
	}
	return nil
}
