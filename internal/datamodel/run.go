package datamodel

import (
	"github.com/felixgeelhaar/taskvault/internal/domain"
	"github.com/felixgeelhaar/taskvault/internal/idgen"
)

// TaskRun is one execution of a task with a concrete input.
type TaskRun struct {
	Base
	Input            string                `json:"input"`
	Source           domain.DataSourceType `json:"source"`
	SourceProperties map[string]string     `json:"source_properties"`

	parent *Task
}

// NewTaskRun creates a run. A nil task leaves it detached, which defers
// the input schema check until the run is attached.
func NewTaskRun(task *Task, input string, source domain.DataSourceType, props map[string]string) (*TaskRun, error) {
	if props == nil {
		props = map[string]string{}
	}
	r := &TaskRun{
		Base:             Base{V: SchemaVersion, ID: idgen.New()},
		Input:            input,
		Source:           source,
		SourceProperties: props,
		parent:           task,
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *TaskRun) Kind() Kind { return KindTaskRun }

// Task returns the in-memory parent, or nil.
func (r *TaskRun) Task() *Task { return r.parent }

// SetTask attaches the run to t.
func (r *TaskRun) SetTask(t *Task) { r.parent = t }

func (r *TaskRun) parentEntity() Entity {
	if r.parent == nil {
		return nil
	}
	return r.parent
}

func (r *TaskRun) attach(parent Entity) bool {
	t, ok := parent.(*Task)
	if ok {
		r.parent = t
	}
	return ok
}

func (r *TaskRun) validate() error {
	return outputSourceProperties.CheckStrings("TaskRun", r.Source, r.SourceProperties)
}
