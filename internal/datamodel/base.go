// Package datamodel defines the persisted entity tree
// (Project, Task, TaskRequirement, TaskRun, TaskOutput) and the Store that
// saves, loads and validates it.
//
// Every entity lives in its own JSON file. Children are stored beneath their
// parent's directory:
//
//	<project dir>/project.json
//	<project dir>/tasks/<task id>/task.json
//	<project dir>/tasks/<task id>/requirements/<req id>/task_requirement.json
//	<project dir>/tasks/<task id>/runs/<run id>/task_run.json
//	<project dir>/tasks/<task id>/runs/<run id>/outputs/<output id>/task_output.json
//
// Validation that needs a parent is deferred while an entity is detached and
// runs again on every save and load.
package datamodel

import "time"

// SchemaVersion is the document version written into new files.
const SchemaVersion = 1

// Base holds the fields every persisted entity shares.
type Base struct {
	V         int       `json:"v"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	ModelType Kind      `json:"model_type"`

	// Path is the location of the entity's file. It is never serialized.
	Path string `json:"-"`
}

// Meta returns the shared fields. Entities embed Base, so this is promoted.
func (b *Base) Meta() *Base {
	return b
}

// Entity is implemented by every persisted type.
type Entity interface {
	Kind() Kind
	Meta() *Base

	// validate checks the fields that need nothing but the entity itself.
	validate() error
}

// parented is implemented by entities that sit below the root.
type parented interface {
	Entity
	parentEntity() Entity
	attach(parent Entity) bool
}

// Verdict is the outcome of a validation pass that did not fail.
type Verdict int

const (
	// Passed means every applicable check ran and succeeded.
	Passed Verdict = iota
	// Deferred means some check needed an ancestor that could not be resolved.
	Deferred
)

func (v Verdict) String() string {
	if v == Deferred {
		return "deferred"
	}
	return "passed"
}

// newEntity returns an empty entity of kind.
func newEntity(kind Kind) (Entity, bool) {
	switch kind {
	case KindProject:
		return &Project{}, true
	case KindTask:
		return &Task{}, true
	case KindTaskRequirement:
		return &TaskRequirement{}, true
	case KindTaskRun:
		return &TaskRun{}, true
	case KindTaskOutput:
		return &TaskOutput{}, true
	default:
		return nil, false
	}
}
