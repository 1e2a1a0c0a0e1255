package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskvault/internal/datamodel"
	"github.com/felixgeelhaar/taskvault/internal/ux"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Load entity files and run every validation against them",
	Long: `Load each entity file, choosing its type from the file name, and run the
full validation pipeline including the checks that need parent entities.
The exit status is 3 when a file fails validation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

type validationView struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Verdict string `json:"verdict"`
}

type validationList []validationView

func (l validationList) Render(s ux.Styles) string {
	records := make(recordList, 0, len(l))
	for _, v := range l {
		verdict := s.Good.Render(v.Verdict)
		if v.Verdict == datamodel.Deferred.String() {
			verdict = s.Muted.Render(v.Verdict)
		}
		records = append(records, ux.Record{
			Title:  v.Path,
			Fields: []ux.Field{{Key: "kind", Value: v.Kind}, {Key: "id", Value: v.ID}, {Key: "result", Value: verdict}},
		})
	}
	return records.Render(s)
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	var results validationList
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return err
		}
		e, err := s.store.Load(abs)
		if err != nil {
			s.logger.LogErrorContext(cmd.Context(), err)
			return err
		}
		verdict, err := s.store.Validate(e)
		if err != nil {
			return err
		}
		results = append(results, validationView{
			Path:    abs,
			Kind:    string(e.Kind()),
			ID:      e.Meta().ID,
			Verdict: verdict.String(),
		})
	}
	return s.emit(results, results)
}
