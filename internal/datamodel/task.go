package datamodel

import (
	"github.com/felixgeelhaar/taskvault/internal/domain"
	"github.com/felixgeelhaar/taskvault/internal/errors"
	"github.com/felixgeelhaar/taskvault/internal/idgen"
	"github.com/felixgeelhaar/taskvault/internal/schema"
)

// Task is a unit of work inside a project. Its optional schemas constrain
// the input of its runs and the outputs of those runs.
type Task struct {
	Base
	Name             domain.Name            `json:"name"`
	Description      string                 `json:"description"`
	Priority         domain.Priority        `json:"priority"`
	Determinism      domain.TaskDeterminism `json:"determinism"`
	Instruction      string                 `json:"instruction"`
	OutputJSONSchema *string                `json:"output_json_schema,omitempty"`
	InputJSONSchema  *string                `json:"input_json_schema,omitempty"`

	parent *Project
}

// TaskOption configures optional task fields.
type TaskOption func(*Task)

// WithDescription sets the task description.
func WithDescription(d string) TaskOption {
	return func(t *Task) { t.Description = d }
}

// WithPriority sets the task priority.
func WithPriority(p domain.Priority) TaskOption {
	return func(t *Task) { t.Priority = p }
}

// WithDeterminism sets how strictly outputs must match.
func WithDeterminism(d domain.TaskDeterminism) TaskOption {
	return func(t *Task) { t.Determinism = d }
}

// WithOutputSchema constrains every output of the task's runs.
func WithOutputSchema(text string) TaskOption {
	return func(t *Task) { t.OutputJSONSchema = &text }
}

// WithInputSchema constrains the input of every run.
func WithInputSchema(text string) TaskOption {
	return func(t *Task) { t.InputJSONSchema = &text }
}

// NewTask creates a task. A nil project leaves the task detached.
func NewTask(project *Project, name, instruction string, opts ...TaskOption) (*Task, error) {
	t := &Task{
		Base:        Base{V: SchemaVersion, ID: idgen.New()},
		Name:        domain.Name(name),
		Priority:    domain.DefaultPriority,
		Determinism: domain.DeterminismFlexible,
		Instruction: instruction,
		parent:      project,
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Task) Kind() Kind { return KindTask }

// Project returns the in-memory parent, or nil.
func (t *Task) Project() *Project { return t.parent }

// SetProject attaches the task to p.
func (t *Task) SetProject(p *Project) { t.parent = p }

func (t *Task) parentEntity() Entity {
	if t.parent == nil {
		return nil
	}
	return t.parent
}

func (t *Task) attach(parent Entity) bool {
	p, ok := parent.(*Project)
	if ok {
		t.parent = p
	}
	return ok
}

// OutputSchema compiles the output schema. It returns nil when none is set.
func (t *Task) OutputSchema() (*schema.Compiled, error) {
	return compileOptional(t.OutputJSONSchema)
}

// InputSchema compiles the input schema. It returns nil when none is set.
func (t *Task) InputSchema() (*schema.Compiled, error) {
	return compileOptional(t.InputJSONSchema)
}

func compileOptional(text *string) (*schema.Compiled, error) {
	if text == nil {
		return nil, nil
	}
	return schema.CompileObject(*text)
}

func (t *Task) validate() error {
	if err := validateName("task", t.Name); err != nil {
		return err
	}
	if t.Instruction == "" {
		return errors.NewConstraintError("task instruction must not be empty")
	}
	if err := t.Priority.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeConstraint, "task priority is invalid", err)
	}
	if err := t.Determinism.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeConstraint, "task determinism is invalid", err)
	}
	if _, err := t.OutputSchema(); err != nil {
		return err
	}
	if _, err := t.InputSchema(); err != nil {
		return err
	}
	return nil
}
