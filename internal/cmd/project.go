package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskvault/internal/datamodel"
	"github.com/felixgeelhaar/taskvault/internal/domain"
	"github.com/felixgeelhaar/taskvault/internal/errors"
	"github.com/felixgeelhaar/taskvault/internal/projects"
	"github.com/felixgeelhaar/taskvault/internal/tui"
	"github.com/felixgeelhaar/taskvault/internal/ux"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create, import and inspect projects",
	Long: `Projects are the root of the tree. Each lives in its own directory holding
project.json and a tasks/ subdirectory. Known projects are registered in the
config file.

Examples:
  # Create a project under the configured projects directory
  taskvault project create "Invoice Extraction" --description "parse PDFs"

  # Register a project someone else created
  taskvault project import ./shared/Invoice\ Extraction

  # Show the whole tree of a project
  taskvault project show ./shared/Invoice\ Extraction
`,
}

var projectCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create and register a new project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProjectCreate,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Register an existing project directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectImport,
}

var projectRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Unregister a project without deleting its files",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectRemove,
}

var projectShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Show a project's tasks, runs and outputs as a tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectDescription string

func init() {
	projectCreateCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "project description")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectImportCmd)
	projectCmd.AddCommand(projectRemoveCmd)
	projectCmd.AddCommand(projectShowCmd)

	rootCmd.AddCommand(projectCmd)
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	var name string
	switch {
	case len(args) == 1:
		name = args[0]
	case tui.ShouldPrompt():
		name, err = tui.PromptForString(tui.Prompt{
			Message:     "Project name",
			Placeholder: "Invoice Extraction",
			Validate:    func(v string) error { return domain.Name(v).Validate() },
		})
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("accepts 1 arg(s), received 0: a project name is required")
	}

	project, err := s.projects.Create(name, projectDescription)
	if err != nil {
		return err
	}
	return s.emit(entityRecord(project), viewOf(project))
}

type projectListView struct {
	Projects []entityView  `json:"projects"`
	Skipped  []skippedView `json:"skipped,omitempty"`
}

type skippedView struct {
	Path  string `json:"path"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (v projectListView) Render(s ux.Styles) string {
	var b strings.Builder
	if len(v.Projects) == 0 {
		b.WriteString(s.Muted.Render("no projects registered"))
	}
	for i, p := range v.Projects {
		if i > 0 {
			b.WriteString("\n")
		}
		project := p.Entity.(*datamodel.Project)
		b.WriteString(s.Title.Render(project.Name.String()))
		b.WriteString("  ")
		b.WriteString(s.Muted.Render(p.Path))
	}
	for _, sk := range v.Skipped {
		b.WriteString("\n")
		b.WriteString(s.Bad.Render("skipped"))
		b.WriteString(" " + sk.Path + " " + s.Muted.Render("["+sk.Code+"]"))
	}
	return b.String()
}

func runProjectList(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	res := s.projects.List()
	view := projectListView{Projects: viewsOf(res.Projects)}
	for _, sk := range res.Skipped {
		view.Skipped = append(view.Skipped, skippedView{
			Path:  sk.Path,
			Error: sk.Err.Error(),
			Code:  string(errors.CodeOf(sk.Err)),
		})
	}
	return s.emit(view, view)
}

func runProjectImport(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	project, err := s.projects.Import(args[0])
	if err != nil {
		return err
	}
	return s.emit(entityRecord(project), viewOf(project))
}

func runProjectRemove(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	removed, err := s.projects.Remove(args[0])
	if err != nil {
		return err
	}
	msg := "project was not registered"
	if removed {
		msg = "project unregistered"
	}
	return s.out.Format(msg)
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	file, err := projects.ProjectFile(args[0])
	if err != nil {
		return err
	}
	project, err := s.store.LoadProject(file)
	if err != nil {
		return err
	}
	tree, err := projectTree(s.store, project)
	if err != nil {
		return err
	}
	return s.emit(tree, tree)
}

// projectTree walks a project and renders every descendant.
func projectTree(store *datamodel.Store, p *datamodel.Project) (ux.Node, error) {
	root := ux.Node{Label: p.Name.String(), Detail: p.ID}
	tasks, err := store.Tasks(p)
	if err != nil {
		return ux.Node{}, err
	}
	for _, t := range tasks {
		reqs, err := store.Requirements(t)
		if err != nil {
			return ux.Node{}, err
		}
		runs, err := store.Runs(t)
		if err != nil {
			return ux.Node{}, err
		}
		taskNode := ux.Node{
			Label:  t.Name.String(),
			Detail: fmt.Sprintf("%s %s, %d requirements", t.ID, t.Priority, len(reqs)),
		}
		for _, r := range runs {
			outputs, err := store.Outputs(r)
			if err != nil {
				return ux.Node{}, err
			}
			runNode := ux.Node{Label: "run " + r.ID, Detail: string(r.Source)}
			for _, o := range outputs {
				detail := string(o.Source)
				if o.Rating != nil {
					detail += " " + ratingLine(o.Rating)
				}
				if o.FixedOutput != nil {
					detail += " fixed"
				}
				runNode.Children = append(runNode.Children, ux.Node{Label: "output " + o.ID, Detail: detail})
			}
			taskNode.Children = append(taskNode.Children, runNode)
		}
		root.Children = append(root.Children, taskNode)
	}
	return root, nil
}
