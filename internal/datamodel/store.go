package datamodel

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/zeebo/blake3"

	"github.com/felixgeelhaar/taskvault/internal/errors"
	"github.com/felixgeelhaar/taskvault/internal/idgen"
	"github.com/felixgeelhaar/taskvault/internal/log"
	"github.com/felixgeelhaar/taskvault/internal/storage"
)

// Store persists entities to a filesystem. Its fields are fixed at
// construction, so a Store is safe to share between goroutines. Concurrent
// writers to the same file are not coordinated; the last rename wins.
type Store struct {
	fs      storage.FS
	logger  *log.Logger
	now     func() time.Time
	creator string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock replaces time.Now for created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithCreator sets the created_by value stamped on entities that have none.
func WithCreator(user string) Option {
	return func(s *Store) { s.creator = user }
}

// NewStore creates a Store over fsys.
func NewStore(fsys storage.FS, opts ...Option) *Store {
	s := &Store{
		fs:     fsys,
		logger: log.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save validates e and writes it to its canonical path. Entities without a
// path get one derived from their parent, which must already be saved.
// On failure e is left as it was before the call.
func (s *Store) Save(e Entity) error {
	b := e.Meta()
	before := *b
	committed := false
	defer func() {
		if !committed {
			*b = before
		}
	}()

	if b.ID == "" {
		b.ID = idgen.New()
	}
	if !idgen.Valid(b.ID) {
		return errors.NewConstraintError(fmt.Sprintf("%s id %q is not a valid identifier", e.Kind(), b.ID))
	}
	p, err := s.canonicalPath(e)
	if err != nil {
		return err
	}
	if err := s.checkIdentity(e, p); err != nil {
		return err
	}
	b.Path = p
	b.ModelType = e.Kind()
	if b.V == 0 {
		b.V = SchemaVersion
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now().UTC()
	}
	if b.CreatedBy == "" {
		b.CreatedBy = s.creator
	}

	logger := s.logger.WithEntity(string(e.Kind()), b.ID, p)

	verdict, err := s.Validate(e)
	if err != nil {
		return err
	}
	if o, ok := e.(*TaskOutput); ok {
		if err := s.checkSingleOutput(o); err != nil {
			return err
		}
	}

	data, err := encode(e)
	if err != nil {
		return err
	}
	digest := fingerprint(data)

	if existing, err := s.fs.ReadFile(p); err == nil && bytes.Equal(existing, data) {
		logger.Debug("entity unchanged, skipping write", "digest", digest)
		committed = true
		return nil
	}

	if err := s.fs.MkdirAll(path.Dir(p)); err != nil {
		return errors.NewDirectoryError(path.Dir(p), err)
	}
	if err := s.fs.WriteFileAtomic(p, data); err != nil {
		return errors.NewFileWriteError(p, err)
	}
	committed = true
	logger.Debug("entity saved", "digest", digest, "validation", verdict.String())
	return nil
}

// Fingerprint returns the hex BLAKE3 digest of the document Save would write
// for e, which callers can use as an ETag.
func (s *Store) Fingerprint(e Entity) (string, error) {
	data, err := encode(e)
	if err != nil {
		return "", err
	}
	return fingerprint(data), nil
}

func fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func encode(e Entity) ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, errors.NewFileMarshalError(string(e.Kind()), err)
	}
	return append(data, '\n'), nil
}

// canonicalPath returns the path e is stored at, deriving it from the
// in-memory parent when e has none yet.
func (s *Store) canonicalPath(e Entity) (string, error) {
	b := e.Meta()
	kind := e.Kind()
	if b.Path != "" {
		if path.Base(b.Path) != kind.BaseFilename() {
			return "", errors.NewConstraintError(fmt.Sprintf(
				"%s path %q must end in %s", kind, b.Path, kind.BaseFilename()))
		}
		return path.Clean(b.Path), nil
	}

	child, ok := e.(parented)
	if !ok {
		return "", errors.NewConstraintError(fmt.Sprintf("%s has no path", kind)).
			WithSuggestion("Set a path ending in " + kind.BaseFilename() + " before saving")
	}
	parent := child.parentEntity()
	if parent == nil {
		return "", errors.NewConstraintError(fmt.Sprintf("%s has no parent and no path", kind)).
			WithSuggestion("Attach it to a parent before saving")
	}
	parentPath := parent.Meta().Path
	saved := false
	if parentPath != "" {
		var err error
		if saved, err = s.fs.Exists(parentPath); err != nil {
			return "", errors.NewFileReadError(parentPath, err)
		}
	}
	if !saved {
		return "", errors.NewConstraintError(fmt.Sprintf(
			"%s parent %s must be saved before its children", kind, parent.Kind())).
			WithSuggestion("Save the " + string(parent.Kind()) + " first")
	}
	rel, _ := RelationshipFor(kind)
	return rel.childPath(parentPath, b.ID), nil
}

// checkIdentity rejects an ID that disagrees with the one p already records,
// either through its directory name or through the document stored there.
func (s *Store) checkIdentity(e Entity, p string) error {
	id := e.Meta().ID
	if rel, ok := RelationshipFor(e.Kind()); ok {
		if _, inLayout := rel.parentPath(p); inLayout {
			if dirID := path.Base(path.Dir(p)); dirID != id {
				return idChangedError(e.Kind(), p, dirID, id)
			}
		}
	}

	data, err := s.fs.ReadFile(p)
	if err != nil {
		if storage.IsNotExist(err) {
			return nil
		}
		return errors.NewFileReadError(p, err)
	}
	var stored struct {
		ID string `json:"id"`
	}
	if json.Unmarshal(data, &stored) != nil || stored.ID == "" {
		return nil
	}
	if stored.ID != id {
		return idChangedError(e.Kind(), p, stored.ID, id)
	}
	return nil
}

func idChangedError(kind Kind, p, was, now string) error {
	return errors.NewConstraintError(fmt.Sprintf(
		"%s at %s has id %s; ids cannot change (got %s)", kind, p, was, now)).
		WithSuggestion("Construct a new entity instead of changing the id of a saved one")
}

// LoadProject reads and validates the project at path.
func (s *Store) LoadProject(p string) (*Project, error) {
	return loadAs[*Project](s, p, KindProject)
}

// LoadTask reads and validates the task at path.
func (s *Store) LoadTask(p string) (*Task, error) {
	return loadAs[*Task](s, p, KindTask)
}

// LoadTaskRequirement reads and validates the requirement at path.
func (s *Store) LoadTaskRequirement(p string) (*TaskRequirement, error) {
	return loadAs[*TaskRequirement](s, p, KindTaskRequirement)
}

// LoadTaskRun reads and validates the run at path.
func (s *Store) LoadTaskRun(p string) (*TaskRun, error) {
	return loadAs[*TaskRun](s, p, KindTaskRun)
}

// LoadTaskOutput reads and validates the output at path.
func (s *Store) LoadTaskOutput(p string) (*TaskOutput, error) {
	return loadAs[*TaskOutput](s, p, KindTaskOutput)
}

// Load reads any entity, choosing its kind from the file name.
func (s *Store) Load(p string) (Entity, error) {
	kind, ok := KindForFilename(p)
	if !ok {
		return nil, errors.New(errors.ErrCodeFileUnmarshal, fmt.Sprintf("%s is not an entity file", p)).
			WithSuggestion("Entity files are named project.json, task.json, task_requirement.json, task_run.json or task_output.json")
	}
	return s.load(p, kind)
}

func loadAs[T Entity](s *Store, p string, kind Kind) (T, error) {
	var zero T
	e, err := s.load(p, kind)
	if err != nil {
		return zero, err
	}
	return e.(T), nil
}

func (s *Store) load(p string, kind Kind) (Entity, error) {
	e, err := s.decode(p, kind)
	if err != nil {
		return nil, err
	}
	if _, err := s.Validate(e); err != nil {
		return nil, err
	}
	return e, nil
}

// decode reads the file at p without validating it.
func (s *Store) decode(p string, kind Kind) (Entity, error) {
	p = path.Clean(p)
	data, err := s.fs.ReadFile(p)
	if err != nil {
		if storage.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError(p)
		}
		return nil, errors.NewFileReadError(p, err)
	}
	e, _ := newEntity(kind)
	if err := json.Unmarshal(data, e); err != nil {
		return nil, errors.NewFileUnmarshalError(p, "JSON", err)
	}
	b := e.Meta()
	if b.ModelType != "" && b.ModelType != kind {
		return nil, errors.New(errors.ErrCodeFileUnmarshal, fmt.Sprintf(
			"%s holds a %s, expected %s", p, b.ModelType, kind))
	}
	b.ModelType = kind
	b.Path = p
	return e, nil
}
