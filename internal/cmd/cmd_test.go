package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskvault/internal/config"
	"github.com/felixgeelhaar/taskvault/internal/errors"
	"github.com/felixgeelhaar/taskvault/internal/exitcode"
)

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type cli struct {
	t       *testing.T
	home    string
	cfgPath string
}

func newCLI(t *testing.T) *cli {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvUser, "tester")
	t.Setenv("CI", "true")
	return &cli{t: t, home: home, cfgPath: filepath.Join(home, config.FileName)}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--config", c.cfgPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

// runJSON executes a command with --format json and decodes the result.
func (c *cli) runJSON(v interface{}, args ...string) {
	c.t.Helper()
	out, err := c.run(append([]string{"--format", "json"}, args...)...)
	require.NoError(c.t, err, out)
	require.NoError(c.t, json.Unmarshal([]byte(out), v), out)
}

type created struct {
	Path   string `json:"path"`
	Entity struct {
		ID string `json:"id"`
	} `json:"entity"`
}

const personSchema = `{"type":"object","properties":{"name":{"type":"string"},"age":{"type":"integer"}},"required":["name","age"]}`

func TestEndToEnd(t *testing.T) {
	c := newCLI(t)

	var project created
	c.runJSON(&project, "project", "create", "Demo", "--description", "people")
	assert.Equal(t, filepath.Join(c.home, "projects", "Demo", "project.json"), project.Path)

	schemaFile := filepath.Join(t.TempDir(), "person.json")
	require.NoError(t, os.WriteFile(schemaFile, []byte(personSchema), 0o600))

	var task created
	c.runJSON(&task, "task", "create", "--project", filepath.Dir(project.Path),
		"--name", "Extract", "--instruction", "Extract the person", "--output-schema", schemaFile, "--priority", "P1")

	var req created
	c.runJSON(&req, "requirement", "add", "--task", task.Path, "--name", "Accurate", "--instruction", "No mistakes")

	var run created
	c.runJSON(&run, "run", "add", "--task", task.Path, "--input", "Alice is thirty", "--prop", "creator=ada")

	_, err := c.run("output", "add", "--run", run.Path, "--output", `{"name":"Alice","age":"thirty"}`, "--prop", "creator=ada")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSchemaMismatch, errors.CodeOf(err))
	assert.Equal(t, exitcode.ValidationError, exitcode.DetermineExitCode(err))

	var out created
	c.runJSON(&out, "output", "add", "--run", run.Path, "--output", `{"name":"Alice","age":30}`, "--prop", "creator=ada")

	_, err = c.run("output", "rate", out.Path, "--rating", "4", "--req", "nope=5")
	assert.Equal(t, errors.ErrCodeReference, errors.CodeOf(err))

	_, err = c.run("output", "rate", out.Path, "--rating", "4.5")
	assert.Equal(t, errors.ErrCodeConstraint, errors.CodeOf(err))

	var rated struct {
		Entity struct {
			CreatedBy string `json:"created_by"`
			Rating    struct {
				Type               string             `json:"type"`
				Rating             float64            `json:"rating"`
				RequirementRatings map[string]float64 `json:"requirement_ratings"`
			} `json:"rating"`
		} `json:"entity"`
	}
	c.runJSON(&rated, "output", "rate", out.Path, "--rating", "4", "--req", req.Entity.ID+"=5")
	assert.Equal(t, "five_star", rated.Entity.Rating.Type)
	assert.Equal(t, 4.0, rated.Entity.Rating.Rating)
	assert.Equal(t, map[string]float64{req.Entity.ID: 5}, rated.Entity.Rating.RequirementRatings)
	assert.Equal(t, "tester", rated.Entity.CreatedBy)

	_, err = c.run("output", "fix", out.Path, "--fixed", `{"name":"Alice"}`)
	assert.Equal(t, errors.ErrCodeSchemaMismatch, errors.CodeOf(err))

	var shown struct {
		Fingerprint string `json:"fingerprint"`
	}
	c.runJSON(&shown, "output", "show", out.Path)
	assert.Len(t, shown.Fingerprint, 64)

	var results []struct {
		Kind    string `json:"kind"`
		Verdict string `json:"verdict"`
	}
	c.runJSON(&results, "validate", project.Path, task.Path, req.Path, run.Path, out.Path)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.Equal(t, "passed", r.Verdict, r.Kind)
	}

	text, err := c.run("--no-color", "project", "show", filepath.Dir(project.Path))
	require.NoError(t, err)
	assert.Contains(t, text, "Demo")
	assert.Contains(t, text, "Extract")
	assert.Contains(t, text, "output "+out.Entity.ID)
	assert.Contains(t, text, "★★★★☆")
}

func TestProjectListAndImport(t *testing.T) {
	c := newCLI(t)

	var project created
	c.runJSON(&project, "project", "create", "Alpha")

	_, err := c.run("project", "create", "Alpha")
	assert.Equal(t, errors.ErrCodeAlreadyExists, errors.CodeOf(err))

	other := newCLI(t)
	var imported created
	other.runJSON(&imported, "project", "import", filepath.Dir(project.Path))
	assert.Equal(t, project.Entity.ID, imported.Entity.ID)

	var list struct {
		Projects []created `json:"projects"`
	}
	other.runJSON(&list, "project", "list")
	require.Len(t, list.Projects, 1)
	assert.Equal(t, project.Path, list.Projects[0].Path)

	text, err := other.run("--no-color", "project", "list")
	require.NoError(t, err)
	assert.Contains(t, text, "Alpha")
}

func TestProjectCreateNeedsNameWithoutTerminal(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("project", "create")
	require.Error(t, err)
	assert.Equal(t, exitcode.UsageError, exitcode.DetermineExitCode(err))
}

func TestRunSourcePropertiesEnforced(t *testing.T) {
	c := newCLI(t)

	var project, task created
	c.runJSON(&project, "project", "create", "Beta")
	c.runJSON(&task, "task", "create", "--project", project.Path, "--name", "T", "--instruction", "do")

	_, err := c.run("run", "add", "--task", task.Path, "--input", "x")
	assert.ErrorContains(t, err, "must include creator")

	_, err = c.run("run", "add", "--task", task.Path, "--input", "x", "--source", "synthetic",
		"--prop", "model_name=m", "--prop", "model_provider=p", "--prop", "adapter_name=a", "--prop", "prompt_builder_name=b")
	assert.NoError(t, err)

	_, err = c.run("run", "add", "--task", task.Path, "--input", "x", "--prop", "creator")
	assert.Equal(t, exitcode.UsageError, exitcode.DetermineExitCode(err))

	var runs []created
	c.runJSON(&runs, "run", "list", "--task", task.Path)
	assert.Len(t, runs, 1)
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("version")
	require.NoError(t, err)
	assert.Contains(t, out, "taskvault")

	var info struct {
		Version string `json:"version"`
	}
	c.runJSON(&info, "version")
	assert.NotEmpty(t, info.Version)
}

func TestProjectRemove(t *testing.T) {
	c := newCLI(t)

	var project created
	c.runJSON(&project, "project", "create", "Gamma")

	out, err := c.run("project", "remove", filepath.Dir(project.Path))
	require.NoError(t, err)
	assert.Contains(t, out, "project unregistered")

	out, err = c.run("project", "remove", project.Path)
	require.NoError(t, err)
	assert.Contains(t, out, "not registered")

	var list struct {
		Projects []created `json:"projects"`
	}
	c.runJSON(&list, "project", "list")
	assert.Empty(t, list.Projects)

	_, err = os.Stat(project.Path)
	assert.NoError(t, err, "remove leaves files in place")
}

func TestRequirementListByPriority(t *testing.T) {
	c := newCLI(t)

	var project, task created
	c.runJSON(&project, "project", "create", "Delta")
	c.runJSON(&task, "task", "create", "--project", project.Path, "--name", "T", "--instruction", "do")

	for _, p := range []string{"P3", "P0", "P1", "P0"} {
		var req created
		c.runJSON(&req, "requirement", "add", "--task", task.Path,
			"--name", "needs "+p, "--instruction", "check", "--priority", p)
	}

	var reqs []struct {
		Entity struct {
			Name     string `json:"name"`
			Priority int    `json:"priority"`
		} `json:"entity"`
	}
	c.runJSON(&reqs, "requirement", "list", "--task", task.Path)
	require.Len(t, reqs, 4)

	var got []int
	for _, r := range reqs {
		got = append(got, r.Entity.Priority)
	}
	assert.Equal(t, []int{0, 0, 1, 3}, got)
}
