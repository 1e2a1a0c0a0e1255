package datamodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskvault/internal/domain"
	"github.com/felixgeelhaar/taskvault/internal/errors"
)

func TestAttachmentOf(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, Detached, AttachmentOf(f.project))
	assert.Equal(t, AttachedInMemory, AttachmentOf(f.run))

	loaded, err := f.store.LoadTaskRun(f.run.Path)
	require.NoError(t, err)
	assert.Equal(t, AttachedByPath, AttachmentOf(loaded))
	assert.Nil(t, loaded.Task())

	orphan, err := NewTaskRun(nil, "x", domain.SourceHuman, human())
	require.NoError(t, err)
	assert.Equal(t, Detached, AttachmentOf(orphan))
}

func TestParentOfResolvesByPath(t *testing.T) {
	f := newFixture(t)

	loaded, err := f.store.LoadTaskRequirement(f.req.Path)
	require.NoError(t, err)

	parent, err := f.store.ParentOf(loaded)
	require.NoError(t, err)
	require.NotNil(t, parent)
	assert.Equal(t, f.task.ID, parent.Meta().ID)
	assert.Equal(t, f.task.Path, parent.Meta().Path)

	project, err := f.store.ProjectFor(loaded)
	require.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, f.project.ID, project.ID)

	root, err := f.store.ParentOf(f.project)
	require.NoError(t, err)
	assert.Nil(t, root)
}

func TestParentOfMissingParentIsDetached(t *testing.T) {
	store, fsys := newTestStore(t)

	task, err := NewTask(nil, "Standalone", "no project")
	require.NoError(t, err)
	task.Path = "solo/task.json"
	require.NoError(t, store.Save(task))

	run, err := NewTaskRun(task, "hi", domain.SourceHuman, human())
	require.NoError(t, err)
	require.NoError(t, store.Save(run))

	parent, err := store.ParentOf(task)
	require.NoError(t, err)
	assert.Nil(t, parent, "a task outside a project layout has no parent")

	loaded, err := store.LoadTaskRun(run.Path)
	require.NoError(t, err)
	got, err := store.TaskFor(loaded)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, task.ID, got.ID)

	require.NoError(t, fsys.Remove(task.Path))
	got, err = store.TaskFor(loaded)
	require.NoError(t, err)
	assert.Nil(t, got, "a deleted parent file reads as detached")
}

func TestChildrenOrderAndAttachment(t *testing.T) {
	f := newFixture(t)

	var ids []string
	ids = append(ids, f.run.ID)
	for i := 0; i < 4; i++ {
		run, err := NewTaskRun(f.task, "more input", domain.SourceHuman, human())
		require.NoError(t, err)
		require.NoError(t, f.store.Save(run))
		ids = append(ids, run.ID)
	}

	runs, err := f.store.Runs(f.task)
	require.NoError(t, err)
	require.Len(t, runs, len(ids))
	for i, r := range runs {
		assert.Equal(t, ids[i], r.ID, "children come back in creation order")
		assert.Same(t, f.task, r.Task())
	}

	reqs, err := f.store.Requirements(f.task)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, f.req.ID, reqs[0].ID)

	tasks, err := f.store.Tasks(f.project)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Same(t, f.project, tasks[0].Project())

	outputs, err := f.store.Outputs(f.run)
	require.NoError(t, err)
	assert.Empty(t, outputs, "no outputs directory means no children")
}

func TestChildrenSkipsDirectoriesWithoutEntityFile(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.fs.MkdirAll("demo/tasks/stray"))

	tasks, err := f.store.Tasks(f.project)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestChildrenErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.Children(f.project, "runs")
	assert.Equal(t, errors.ErrCodeReference, errors.CodeOf(err))

	unsaved, err := NewProject("Unsaved", "", "")
	require.NoError(t, err)
	_, err = f.store.Children(unsaved, "tasks")
	assert.Equal(t, errors.ErrCodeConstraint, errors.CodeOf(err))

	require.NoError(t, f.fs.MkdirAll("demo/tasks/bad"))
	require.NoError(t, f.fs.WriteFileAtomic("demo/tasks/bad/task.json", []byte("[]")))
	_, err = f.store.Tasks(f.project)
	assert.Equal(t, errors.ErrCodeFileUnmarshal, errors.CodeOf(err), "a broken child aborts the listing")
}
