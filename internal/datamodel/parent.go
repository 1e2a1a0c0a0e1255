package datamodel

import (
	"fmt"
	"path"
	"sort"

	"github.com/felixgeelhaar/taskvault/internal/errors"
	"github.com/felixgeelhaar/taskvault/internal/storage"
)

// Attachment describes how an entity reaches its parent.
type Attachment int

const (
	// Detached entities have neither an in-memory parent nor a path.
	Detached Attachment = iota
	// AttachedInMemory entities hold a reference to their parent.
	AttachedInMemory
	// AttachedByPath entities find their parent from their own file path.
	AttachedByPath
)

func (a Attachment) String() string {
	switch a {
	case AttachedInMemory:
		return "in-memory"
	case AttachedByPath:
		return "by-path"
	default:
		return "detached"
	}
}

// AttachmentOf reports how e is attached. Projects are never attached.
func AttachmentOf(e Entity) Attachment {
	child, ok := e.(parented)
	if !ok {
		return Detached
	}
	if child.parentEntity() != nil {
		return AttachedInMemory
	}
	if e.Meta().Path != "" {
		return AttachedByPath
	}
	return Detached
}

// ParentOf returns e's parent. An in-memory parent is returned as is; otherwise
// the parent file is read from the path layout. It returns nil when e is a
// project, detached, or its parent file does not exist.
func (s *Store) ParentOf(e Entity) (Entity, error) {
	child, ok := e.(parented)
	if !ok {
		return nil, nil
	}
	if p := child.parentEntity(); p != nil {
		return p, nil
	}
	own := e.Meta().Path
	if own == "" {
		return nil, nil
	}
	rel, _ := RelationshipFor(e.Kind())
	parentPath, ok := rel.parentPath(own)
	if !ok {
		return nil, nil
	}
	parent, err := s.decode(parentPath, rel.Parent)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Debug("parent file missing, treating entity as detached",
				"kind", string(e.Kind()), "path", own, "parent_path", parentPath)
			return nil, nil
		}
		return nil, err
	}
	return parent, nil
}

// ancestor walks up from e to the nearest entity of kind. A nil result means
// the chain broke before reaching one.
func (s *Store) ancestor(e Entity, kind Kind) (Entity, error) {
	cur := e
	for cur.Kind() != kind {
		next, err := s.ParentOf(cur)
		if err != nil || next == nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// TaskFor returns the task e belongs to: e itself for a task, its parent for
// requirements and runs, its grandparent for outputs.
func (s *Store) TaskFor(e Entity) (*Task, error) {
	a, err := s.ancestor(e, KindTask)
	if err != nil || a == nil {
		return nil, err
	}
	return a.(*Task), nil
}

// ProjectFor returns the project e belongs to, or nil.
func (s *Store) ProjectFor(e Entity) (*Project, error) {
	a, err := s.ancestor(e, KindProject)
	if err != nil || a == nil {
		return nil, err
	}
	return a.(*Project), nil
}

// Children lists parent's children under the named relationship, sorted by
// ID. Child directories without the canonical file are skipped. Each child
// is validated and attached to parent in memory.
func (s *Store) Children(parent Entity, relationship string) ([]Entity, error) {
	rel, ok := LookupRelationship(parent.Kind(), relationship)
	if !ok {
		return nil, errors.NewReferenceError(fmt.Sprintf(
			"%s has no relationship %q", parent.Kind(), relationship))
	}
	pp := parent.Meta().Path
	if pp == "" {
		return nil, errors.NewConstraintError(fmt.Sprintf(
			"%s must be saved before listing its %s", parent.Kind(), relationship))
	}

	dir := rel.childDir(pp)
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if storage.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewDirectoryError(dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []Entity
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		file := path.Join(dir, entry.Name(), rel.Child.BaseFilename())
		child, err := s.decode(file, rel.Child)
		if err != nil {
			if errors.IsNotFound(err) {
				s.logger.Warn("skipping child directory without entity file",
					"relationship", relationship, "dir", path.Join(dir, entry.Name()))
				continue
			}
			return nil, err
		}
		child.(parented).attach(parent)
		if _, err := s.Validate(child); err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

func childrenAs[T Entity](s *Store, parent Entity, relationship string) ([]T, error) {
	children, err := s.Children(parent, relationship)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(children))
	for _, c := range children {
		out = append(out, c.(T))
	}
	return out, nil
}

// Tasks lists a project's tasks.
func (s *Store) Tasks(p *Project) ([]*Task, error) {
	return childrenAs[*Task](s, p, "tasks")
}

// Requirements lists a task's requirements.
func (s *Store) Requirements(t *Task) ([]*TaskRequirement, error) {
	return childrenAs[*TaskRequirement](s, t, "requirements")
}

// Runs lists a task's runs.
func (s *Store) Runs(t *Task) ([]*TaskRun, error) {
	return childrenAs[*TaskRun](s, t, "runs")
}

// Outputs lists a run's outputs.
func (s *Store) Outputs(r *TaskRun) ([]*TaskOutput, error) {
	return childrenAs[*TaskOutput](s, r, "outputs")
}

// childIDs returns the ids of the children of parent under rel that have an
// entity file, sorted. The files are not decoded or validated.
func (s *Store) childIDs(parent Entity, rel Relationship) ([]string, error) {
	dir := rel.childDir(parent.Meta().Path)
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if storage.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewDirectoryError(dir, err)
	}
	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		file := path.Join(dir, entry.Name(), rel.Child.BaseFilename())
		ok, err := s.fs.Exists(file)
		if err != nil {
			return nil, errors.NewFileReadError(file, err)
		}
		if ok {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}
