package datamodel

import (
	"path"
	"strings"
)

// Kind identifies an entity type. It doubles as the model_type marker
// written into every document.
type Kind string

const (
	KindProject         Kind = "project"
	KindTask            Kind = "task"
	KindTaskRequirement Kind = "task_requirement"
	KindTaskRun         Kind = "task_run"
	KindTaskOutput      Kind = "task_output"
)

var kinds = []Kind{KindProject, KindTask, KindTaskRequirement, KindTaskRun, KindTaskOutput}

// BaseFilename is the fixed name of the file an entity of this kind is stored in.
func (k Kind) BaseFilename() string {
	return string(k) + ".json"
}

// KindForFilename maps a canonical file name back to its kind.
func KindForFilename(name string) (Kind, bool) {
	base := path.Base(name)
	for _, k := range kinds {
		if base == k.BaseFilename() {
			return k, true
		}
	}
	return "", false
}

// Relationship binds a parent kind to one of its child kinds. Children live
// in Dir, one subdirectory per child named after the child's ID.
type Relationship struct {
	Name   string
	Parent Kind
	Child  Kind
	Dir    string
}

// relationships is the full containment tree. Each child kind appears once,
// so a child kind determines its parent kind.
var relationships = []Relationship{
	{Name: "tasks", Parent: KindProject, Child: KindTask, Dir: "tasks"},
	{Name: "requirements", Parent: KindTask, Child: KindTaskRequirement, Dir: "requirements"},
	{Name: "runs", Parent: KindTask, Child: KindTaskRun, Dir: "runs"},
	{Name: "outputs", Parent: KindTaskRun, Child: KindTaskOutput, Dir: "outputs"},
}

// RelationshipsOf lists the child relationships a parent kind declares.
func RelationshipsOf(parent Kind) []Relationship {
	var out []Relationship
	for _, r := range relationships {
		if r.Parent == parent {
			out = append(out, r)
		}
	}
	return out
}

// RelationshipFor returns the relationship a child kind belongs to.
// Root kinds have none.
func RelationshipFor(child Kind) (Relationship, bool) {
	for _, r := range relationships {
		if r.Child == child {
			return r, true
		}
	}
	return Relationship{}, false
}

// LookupRelationship finds a parent's relationship by name.
func LookupRelationship(parent Kind, name string) (Relationship, bool) {
	for _, r := range relationships {
		if r.Parent == parent && r.Name == name {
			return r, true
		}
	}
	return Relationship{}, false
}

// childPath is where a child with id is stored beneath a parent file.
func (r Relationship) childPath(parentPath, id string) string {
	return path.Join(path.Dir(parentPath), r.Dir, id, r.Child.BaseFilename())
}

// childDir is the directory holding every child of this relationship.
func (r Relationship) childDir(parentPath string) string {
	return path.Join(path.Dir(parentPath), r.Dir)
}

// parentPath inverts childPath: <parent dir>/<dir>/<id>/<child file>.
// ok is false when childPath is not laid out under r.Dir.
func (r Relationship) parentPath(childPath string) (string, bool) {
	idDir := path.Dir(childPath)
	relDir := path.Dir(idDir)
	if path.Base(relDir) != r.Dir || strings.Trim(idDir, "/.") == "" {
		return "", false
	}
	return path.Join(path.Dir(relDir), r.Parent.BaseFilename()), true
}
