package projects

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskvault/internal/config"
	"github.com/felixgeelhaar/taskvault/internal/datamodel"
	"github.com/felixgeelhaar/taskvault/internal/errors"
	"github.com/felixgeelhaar/taskvault/internal/storage"
)

func newManager(t *testing.T) (*Manager, *config.Config, string) {
	t.Helper()
	home := t.TempDir()
	cfgPath := filepath.Join(home, config.FileName)
	cfg := config.Default(home)
	fsys := storage.NewOSFS("/")
	store := datamodel.NewStore(fsys)
	return NewManager(store, fsys, cfg, cfgPath, cfg.ProjectsDir, nil), cfg, cfgPath
}

func TestCreateRegistersProject(t *testing.T) {
	m, cfg, cfgPath := newManager(t)

	p, err := m.Create("My Project", "first")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.ProjectsDir, "My Project", "project.json"), p.Path)
	assert.Equal(t, []string{p.Path}, cfg.Projects)

	saved, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, []string{p.Path}, saved.Projects, "registration is persisted")

	_, err = os.Stat(p.Path)
	assert.NoError(t, err)
}

func TestCreateFailsWhenDirectoryExists(t *testing.T) {
	m, cfg, _ := newManager(t)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.ProjectsDir, "Taken"), 0o755))

	_, err := m.Create("Taken", "")
	assert.Equal(t, errors.ErrCodeAlreadyExists, errors.CodeOf(err))
	assert.Empty(t, cfg.Projects)
}

func TestCreateRejectsInvalidName(t *testing.T) {
	m, _, _ := newManager(t)
	_, err := m.Create("../escape", "")
	assert.Equal(t, errors.ErrCodeConstraint, errors.CodeOf(err))
}

func TestImportAndList(t *testing.T) {
	m, cfg, _ := newManager(t)

	created, err := m.Create("Alpha", "")
	require.NoError(t, err)

	other, _, _ := newManager(t)
	imported, err := other.Import(filepath.Dir(created.Path))
	require.NoError(t, err)
	assert.Equal(t, created.ID, imported.ID)

	_, err = other.Import(filepath.Join(t.TempDir(), "nothing"))
	assert.True(t, errors.IsNotFound(err))

	cfg.AddProject(filepath.Join(t.TempDir(), "gone", "project.json"))
	res := m.List()
	require.Len(t, res.Projects, 1)
	assert.Equal(t, created.ID, res.Projects[0].ID)
	require.Len(t, res.Skipped, 1)
	assert.True(t, errors.IsNotFound(res.Skipped[0].Err))
}

func TestRemove(t *testing.T) {
	m, cfg, _ := newManager(t)
	p, err := m.Create("Beta", "")
	require.NoError(t, err)

	removed, err := m.Remove(filepath.Dir(p.Path))
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, cfg.Projects)

	_, err = os.Stat(p.Path)
	assert.NoError(t, err, "files are kept")
}

func TestProjectFile(t *testing.T) {
	got, err := ProjectFile("/a/b")
	require.NoError(t, err)
	assert.Equal(t, "/a/b/project.json", got)

	got, err = ProjectFile("/a/b/project.json")
	require.NoError(t, err)
	assert.Equal(t, "/a/b/project.json", got)

	_, err = ProjectFile("/a/b/task.json")
	assert.Error(t, err)
}
