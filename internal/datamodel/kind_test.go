package datamodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindBaseFilename(t *testing.T) {
	assert.Equal(t, "project.json", KindProject.BaseFilename())
	assert.Equal(t, "task_output.json", KindTaskOutput.BaseFilename())

	for _, k := range kinds {
		got, ok := KindForFilename("a/b/" + k.BaseFilename())
		require.True(t, ok, k)
		assert.Equal(t, k, got)
	}
	_, ok := KindForFilename("notes.json")
	assert.False(t, ok)
}

func TestRelationshipRegistry(t *testing.T) {
	names := func(rs []Relationship) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.Name)
		}
		return out
	}
	assert.Equal(t, []string{"tasks"}, names(RelationshipsOf(KindProject)))
	assert.Equal(t, []string{"requirements", "runs"}, names(RelationshipsOf(KindTask)))
	assert.Equal(t, []string{"outputs"}, names(RelationshipsOf(KindTaskRun)))
	assert.Empty(t, RelationshipsOf(KindTaskOutput))

	_, ok := RelationshipFor(KindProject)
	assert.False(t, ok, "project is a root")

	rel, ok := RelationshipFor(KindTaskRun)
	require.True(t, ok)
	assert.Equal(t, KindTask, rel.Parent)

	_, ok = LookupRelationship(KindTask, "outputs")
	assert.False(t, ok)
}

func TestRelationshipPaths(t *testing.T) {
	rel, _ := LookupRelationship(KindTask, "runs")

	child := rel.childPath("demo/tasks/t1/task.json", "r1")
	assert.Equal(t, "demo/tasks/t1/runs/r1/task_run.json", child)

	parent, ok := rel.parentPath(child)
	require.True(t, ok)
	assert.Equal(t, "demo/tasks/t1/task.json", parent)

	_, ok = rel.parentPath("loose/task_run.json")
	assert.False(t, ok, "a file outside the runs layout has no parent path")
}
