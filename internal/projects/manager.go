// Package projects keeps the registry of known projects in the user
// configuration and creates, imports and lists them.
package projects

import (
	"fmt"
	"path/filepath"

	"github.com/felixgeelhaar/taskvault/internal/config"
	"github.com/felixgeelhaar/taskvault/internal/datamodel"
	"github.com/felixgeelhaar/taskvault/internal/errors"
	"github.com/felixgeelhaar/taskvault/internal/log"
	"github.com/felixgeelhaar/taskvault/internal/storage"
)

// Manager creates and tracks projects. The store must address absolute
// paths, which NewOSFS("/") does.
type Manager struct {
	store      *datamodel.Store
	fs         storage.FS
	cfg        *config.Config
	cfgPath    string
	projectDir string
	logger     *log.Logger
}

// NewManager returns a Manager. cfg is the on-disk config, which Manager
// updates and saves to cfgPath; projectsDir is where new projects go.
func NewManager(store *datamodel.Store, fsys storage.FS, cfg *config.Config, cfgPath, projectsDir string, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Discard()
	}
	return &Manager{
		store:      store,
		fs:         fsys,
		cfg:        cfg,
		cfgPath:    cfgPath,
		projectDir: projectsDir,
		logger:     logger,
	}
}

// Create makes a new project directory named after the project and
// registers it. It fails if the directory already exists.
func (m *Manager) Create(name, description string) (*datamodel.Project, error) {
	dir := filepath.Join(m.projectDir, name)
	project, err := datamodel.NewProject(name, description, filepath.Join(dir, datamodel.KindProject.BaseFilename()))
	if err != nil {
		return nil, err
	}

	exists, err := m.fs.Exists(dir)
	if err != nil {
		return nil, errors.NewDirectoryError(dir, err)
	}
	if exists {
		return nil, errors.NewAlreadyExistsError(dir).
			WithSuggestion("Import the existing project with 'taskvault project import " + dir + "'")
	}

	if err := m.store.Save(project); err != nil {
		return nil, err
	}
	if err := m.register(project.Path); err != nil {
		return nil, err
	}
	m.logger.Info("project created", "id", project.ID, "path", project.Path)
	return project, nil
}

// Import registers an existing project. path may name the project file or
// its directory.
func (m *Manager) Import(path string) (*datamodel.Project, error) {
	file, err := ProjectFile(path)
	if err != nil {
		return nil, err
	}
	project, err := m.store.LoadProject(file)
	if err != nil {
		return nil, err
	}
	if err := m.register(project.Path); err != nil {
		return nil, err
	}
	m.logger.Info("project imported", "id", project.ID, "path", project.Path)
	return project, nil
}

// Skipped is a registered project that could not be loaded.
type Skipped struct {
	Path string
	Err  error
}

// ListResult is the outcome of List.
type ListResult struct {
	Projects []*datamodel.Project
	Skipped  []Skipped
}

// List loads every registered project in registration order. Projects that
// fail to load are reported in Skipped rather than failing the listing.
func (m *Manager) List() ListResult {
	var res ListResult
	for _, p := range m.cfg.Projects {
		project, err := m.store.LoadProject(p)
		if err != nil {
			m.logger.Warn("skipping unloadable project", "path", p, "error_code", string(errors.CodeOf(err)))
			res.Skipped = append(res.Skipped, Skipped{Path: p, Err: err})
			continue
		}
		res.Projects = append(res.Projects, project)
	}
	return res
}

// Remove unregisters a project without touching its files.
func (m *Manager) Remove(path string) (bool, error) {
	file, err := ProjectFile(path)
	if err != nil {
		return false, err
	}
	if !m.cfg.RemoveProject(file) {
		return false, nil
	}
	return true, m.cfg.Save(m.cfgPath)
}

func (m *Manager) register(path string) error {
	if !m.cfg.AddProject(path) {
		return nil
	}
	return m.cfg.Save(m.cfgPath)
}

// ProjectFile normalizes a project reference to an absolute project.json path.
func ProjectFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.NewFileReadError(path, err)
	}
	if filepath.Base(abs) == datamodel.KindProject.BaseFilename() {
		return abs, nil
	}
	if filepath.Ext(abs) == ".json" {
		return "", errors.NewConstraintError(fmt.Sprintf("%s is not a project file", path)).
			WithSuggestion("Pass the project directory or its project.json")
	}
	return filepath.Join(abs, datamodel.KindProject.BaseFilename()), nil
}
