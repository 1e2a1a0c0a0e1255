package datamodel

import (
	"github.com/felixgeelhaar/taskvault/internal/domain"
	"github.com/felixgeelhaar/taskvault/internal/idgen"
)

// TaskOutput is the result of a run, optionally rated and corrected.
type TaskOutput struct {
	Base
	Output           string                `json:"output"`
	Source           domain.DataSourceType `json:"source"`
	SourceProperties map[string]string     `json:"source_properties"`
	Rating           *TaskOutputRating     `json:"rating,omitempty"`
	FixedOutput      *string               `json:"fixed_output,omitempty"`

	parent *TaskRun
}

// NewTaskOutput creates an output. A nil run leaves it detached; schema and
// requirement checks then wait until it is attached and saved.
func NewTaskOutput(run *TaskRun, output string, source domain.DataSourceType, props map[string]string) (*TaskOutput, error) {
	if props == nil {
		props = map[string]string{}
	}
	o := &TaskOutput{
		Base:             Base{V: SchemaVersion, ID: idgen.New()},
		Output:           output,
		Source:           source,
		SourceProperties: props,
		parent:           run,
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *TaskOutput) Kind() Kind { return KindTaskOutput }

// Run returns the in-memory parent, or nil.
func (o *TaskOutput) Run() *TaskRun { return o.parent }

// SetRun attaches the output to r.
func (o *TaskOutput) SetRun(r *TaskRun) { o.parent = r }

func (o *TaskOutput) parentEntity() Entity {
	if o.parent == nil {
		return nil
	}
	return o.parent
}

func (o *TaskOutput) attach(parent Entity) bool {
	r, ok := parent.(*TaskRun)
	if ok {
		o.parent = r
	}
	return ok
}

// Fix records a corrected output. It is checked against the output schema
// on the next save.
func (o *TaskOutput) Fix(fixed string) {
	o.FixedOutput = &fixed
}

func (o *TaskOutput) validate() error {
	if err := outputSourceProperties.CheckStrings("TaskOutput", o.Source, o.SourceProperties); err != nil {
		return err
	}
	if o.Rating != nil {
		return o.Rating.Validate()
	}
	return nil
}
