package datamodel

import (
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskvault/internal/domain"
	"github.com/felixgeelhaar/taskvault/internal/errors"
)

func TestOutputSchemaScenario(t *testing.T) {
	f := newFixture(t, WithOutputSchema(personSchema))

	bad, err := NewTaskOutput(f.run, `{"name": "Alice", "age": "thirty"}`, domain.SourceHuman, human())
	require.NoError(t, err, "schema checks do not run at construction")

	err = f.store.Save(bad)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSchemaMismatch, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "age")

	text := `{"name": "Alice", "age": 30}`
	good, err := NewTaskOutput(f.run, text, domain.SourceHuman, human())
	require.NoError(t, err)
	require.NoError(t, f.store.Save(good))

	loaded, err := f.store.LoadTaskOutput(good.Path)
	require.NoError(t, err)
	assert.Equal(t, text, loaded.Output)
}

func TestOutputMustBeJSONWhenSchemaSet(t *testing.T) {
	f := newFixture(t, WithOutputSchema(personSchema))

	out, err := NewTaskOutput(f.run, "Alice, 30", domain.SourceHuman, human())
	require.NoError(t, err)
	err = f.store.Save(out)
	assert.Equal(t, errors.ErrCodeFormat, errors.CodeOf(err))
}

func TestPlainTextOutputWithoutSchema(t *testing.T) {
	f := newFixture(t)

	out, err := NewTaskOutput(f.run, "just prose", domain.SourceHuman, human())
	require.NoError(t, err)
	assert.NoError(t, f.store.Save(out))
}

func TestFixedOutputIsChecked(t *testing.T) {
	f := newFixture(t, WithOutputSchema(personSchema))

	out, err := NewTaskOutput(f.run, `{"name":"Alice","age":30}`, domain.SourceHuman, human())
	require.NoError(t, err)
	require.NoError(t, f.store.Save(out))

	out.Fix(`{"name":"Alice"}`)
	err = f.store.Save(out)
	assert.Equal(t, errors.ErrCodeSchemaMismatch, errors.CodeOf(err))
	assert.ErrorContains(t, err, "fixed_output")
	assert.NotNil(t, out.FixedOutput, "only base fields are rolled back on failure")

	out.Fix(`{"name":"Alice","age":31}`)
	assert.NoError(t, f.store.Save(out))
}

func TestRunInputSchema(t *testing.T) {
	store, _ := newTestStore(t)
	project, err := NewProject("P", "", "p/project.json")
	require.NoError(t, err)
	require.NoError(t, store.Save(project))
	task, err := NewTask(project, "T", "Greet", WithInputSchema(`{"type":"object","properties":{"who":{"type":"string"}},"required":["who"]}`))
	require.NoError(t, err)
	require.NoError(t, store.Save(task))

	tests := []struct {
		name     string
		input    string
		wantCode errors.ErrorCode
	}{
		{name: "conforming", input: `{"who":"world"}`},
		{name: "missing property", input: `{}`, wantCode: errors.ErrCodeSchemaMismatch},
		{name: "wrong type", input: `{"who":7}`, wantCode: errors.ErrCodeSchemaMismatch},
		{name: "not json", input: `who=world`, wantCode: errors.ErrCodeFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := NewTaskRun(task, tt.input, domain.SourceHuman, human())
			require.NoError(t, err)
			err = store.Save(run)
			assert.Equal(t, tt.wantCode, errors.CodeOf(err))
		})
	}
}

func TestInvalidTaskSchemaRejected(t *testing.T) {
	_, err := NewTask(nil, "T", "x", WithOutputSchema(`{"type":"array"}`))
	assert.Equal(t, errors.ErrCodeSchemaCompile, errors.CodeOf(err))

	_, err = NewTask(nil, "T", "x", WithInputSchema(`not a schema`))
	assert.Equal(t, errors.ErrCodeSchemaCompile, errors.CodeOf(err))
}

func TestRatingKeysMustNameRequirements(t *testing.T) {
	f := newFixture(t)

	out, err := NewTaskOutput(f.run, "ok", domain.SourceHuman, human())
	require.NoError(t, err)
	out.Rating, err = NewFiveStarRating(4, map[string]float64{"unknown_id": 5})
	require.NoError(t, err)

	err = f.store.Save(out)
	assert.Equal(t, errors.ErrCodeReference, errors.CodeOf(err))
	assert.ErrorContains(t, err, `Requirement ID "unknown_id" is not a valid requirement ID for this task`)

	out.Rating.RequirementRatings = map[string]float64{f.req.ID: 5}
	assert.NoError(t, f.store.Save(out))
}

func TestRatingValuesCheckedOnSave(t *testing.T) {
	f := newFixture(t)

	out, err := NewTaskOutput(f.run, "ok", domain.SourceHuman, human())
	require.NoError(t, err)
	out.Rating = &TaskOutputRating{Type: domain.RatingFiveStar, Value: 3.5}

	err = f.store.Save(out)
	assert.Equal(t, errors.ErrCodeConstraint, errors.CodeOf(err))
	assert.ErrorContains(t, err, "must be an integer value")
}

func TestDetachedValidationIsDeferred(t *testing.T) {
	f := newFixture(t, WithOutputSchema(personSchema))

	out, err := NewTaskOutput(nil, `{"age":"thirty"}`, domain.SourceHuman, human())
	require.NoError(t, err)

	verdict, err := f.store.Validate(out)
	require.NoError(t, err)
	assert.Equal(t, Deferred, verdict)

	err = f.store.Save(out)
	assert.Equal(t, errors.ErrCodeConstraint, errors.CodeOf(err), "a detached output has nowhere to go")

	out.SetRun(f.run)
	err = f.store.Save(out)
	assert.Equal(t, errors.ErrCodeSchemaMismatch, errors.CodeOf(err))
}

func TestRatingKeysDeferredForUnsavedTask(t *testing.T) {
	store, _ := newTestStore(t)
	task, err := NewTask(nil, "T", "x")
	require.NoError(t, err)
	run, err := NewTaskRun(task, "in", domain.SourceHuman, human())
	require.NoError(t, err)
	out, err := NewTaskOutput(run, "out", domain.SourceHuman, human())
	require.NoError(t, err)
	out.Rating, err = NewFiveStarRating(5, map[string]float64{"anything": 5})
	require.NoError(t, err)

	verdict, err := store.Validate(out)
	require.NoError(t, err)
	assert.Equal(t, Deferred, verdict)
}

func TestSingleOutputPerRun(t *testing.T) {
	f := newFixture(t)

	first, err := NewTaskOutput(f.run, "one", domain.SourceHuman, human())
	require.NoError(t, err)
	require.NoError(t, f.store.Save(first))

	first.Output = "one, revised"
	require.NoError(t, f.store.Save(first), "updating the same output is allowed")

	second, err := NewTaskOutput(f.run, "two", domain.SourceHuman, human())
	require.NoError(t, err)
	err = f.store.Save(second)
	assert.Equal(t, errors.ErrCodeConstraint, errors.CodeOf(err))
	assert.ErrorContains(t, err, "already has output "+first.ID)
}

func TestSyntheticOutputSourceProperties(t *testing.T) {
	f := newFixture(t)

	_, err := NewTaskOutput(f.run, "x", domain.SourceHuman, map[string]string{})
	assert.ErrorContains(t, err, "must include creator")

	_, err = NewTaskOutput(f.run, "x", domain.SourceHuman, map[string]string{"creator": ""})
	assert.ErrorContains(t, err, "must not be empty string")

	out, err := NewTaskOutput(f.run, "x", domain.SourceSynthetic, synthetic())
	require.NoError(t, err)
	assert.NoError(t, f.store.Save(out))
}

func TestSingleOutputCountsInvalidSiblings(t *testing.T) {
	f := newFixture(t, WithOutputSchema(personSchema))

	first, err := NewTaskOutput(f.run, `{"name":"Ann","age":1}`, domain.SourceHuman, human())
	require.NoError(t, err)
	require.NoError(t, f.store.Save(first))

	data, err := f.fs.ReadFile(first.Path)
	require.NoError(t, err)
	tampered := strings.Replace(string(data), `\"age\":1`, `\"age\":\"one\"`, 1)
	require.NotEqual(t, string(data), tampered)
	require.NoError(t, f.fs.WriteFileAtomic(first.Path, []byte(tampered)))

	_, err = f.store.LoadTaskOutput(first.Path)
	require.Equal(t, errors.ErrCodeSchemaMismatch, errors.CodeOf(err))

	second, err := NewTaskOutput(f.run, `{"name":"Ann","age":2}`, domain.SourceHuman, human())
	require.NoError(t, err)
	err = f.store.Save(second)
	assert.Equal(t, errors.ErrCodeConstraint, errors.CodeOf(err), "the invalid sibling is counted, not re-validated")
	assert.ErrorContains(t, err, "already has output "+first.ID)
}

func TestSingleOutputIgnoresEmptyDirectories(t *testing.T) {
	f := newFixture(t)

	outputs := path.Join(path.Dir(f.run.Path), "outputs", "stray")
	require.NoError(t, f.fs.MkdirAll(outputs))

	out, err := NewTaskOutput(f.run, "only", domain.SourceHuman, human())
	require.NoError(t, err)
	assert.NoError(t, f.store.Save(out))
}
