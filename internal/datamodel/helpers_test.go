package datamodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskvault/internal/domain"
	"github.com/felixgeelhaar/taskvault/internal/storage"
)

const personSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "age": {"type": "integer"}
  },
  "required": ["name", "age"]
}`

var fixedNow = time.Date(2024, 3, 1, 12, 30, 0, 123456789, time.UTC)

func human() map[string]string {
	return map[string]string{"creator": "ada"}
}

func synthetic() map[string]string {
	return map[string]string{
		"adapter_name":        "langchain",
		"model_name":          "gpt-4o",
		"model_provider":      "openai",
		"prompt_builder_name": "simple",
	}
}

func newTestStore(t *testing.T) (*Store, *storage.BillyFS) {
	t.Helper()
	fsys := storage.NewMemFS()
	return NewStore(fsys, WithClock(func() time.Time { return fixedNow }), WithCreator("tester")), fsys
}

// fixture is a saved project with one task, one requirement and one run.
type fixture struct {
	store   *Store
	fs      *storage.BillyFS
	project *Project
	task    *Task
	req     *TaskRequirement
	run     *TaskRun
}

func newFixture(t *testing.T, opts ...TaskOption) fixture {
	t.Helper()
	store, fsys := newTestStore(t)

	project, err := NewProject("Demo", "a test project", "demo/project.json")
	require.NoError(t, err)
	require.NoError(t, store.Save(project))

	task, err := NewTask(project, "Extract", "Extract a person", opts...)
	require.NoError(t, err)
	require.NoError(t, store.Save(task))

	req, err := NewTaskRequirement(task, "Accuracy", "Fields must be correct", domain.PriorityP1)
	require.NoError(t, err)
	require.NoError(t, store.Save(req))

	run, err := NewTaskRun(task, "Alice is thirty", domain.SourceHuman, human())
	require.NoError(t, err)
	require.NoError(t, store.Save(run))

	return fixture{store: store, fs: fsys, project: project, task: task, req: req, run: run}
}
