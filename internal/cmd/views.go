package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/taskvault/internal/datamodel"
	"github.com/felixgeelhaar/taskvault/internal/domain"
	"github.com/felixgeelhaar/taskvault/internal/tui"
	"github.com/felixgeelhaar/taskvault/internal/ux"
)

// entityView is the json/yaml shape of one entity: the document plus where
// it lives.
type entityView struct {
	Path   string           `json:"path"`
	Entity datamodel.Entity `json:"entity"`
}

func viewOf(e datamodel.Entity) entityView {
	return entityView{Path: e.Meta().Path, Entity: e}
}

func viewsOf[T datamodel.Entity](items []T) []entityView {
	out := make([]entityView, 0, len(items))
	for _, e := range items {
		out = append(out, viewOf(e))
	}
	return out
}

// entityRecord renders an entity as key/value lines.
func entityRecord(e datamodel.Entity) ux.Record {
	b := e.Meta()
	fields := []ux.Field{
		{Key: "id", Value: b.ID},
		{Key: "path", Value: b.Path},
	}
	if !b.CreatedAt.IsZero() {
		fields = append(fields, ux.Field{Key: "created", Value: b.CreatedAt.Format(time.RFC3339)})
	}
	if b.CreatedBy != "" {
		fields = append(fields, ux.Field{Key: "created by", Value: b.CreatedBy})
	}

	title := string(e.Kind())
	switch v := e.(type) {
	case *datamodel.Project:
		title = "project " + v.Name.String()
		fields = appendIf(fields, "description", v.Description)
	case *datamodel.Task:
		title = "task " + v.Name.String()
		fields = appendIf(fields, "description", v.Description)
		fields = append(fields,
			ux.Field{Key: "priority", Value: v.Priority.String()},
			ux.Field{Key: "determinism", Value: string(v.Determinism)},
			ux.Field{Key: "instruction", Value: v.Instruction})
		fields = appendIf(fields, "input schema", deref(v.InputJSONSchema))
		fields = appendIf(fields, "output schema", deref(v.OutputJSONSchema))
	case *datamodel.TaskRequirement:
		title = "requirement " + v.Name.String()
		fields = append(fields,
			ux.Field{Key: "priority", Value: v.Priority.String()},
			ux.Field{Key: "instruction", Value: v.Instruction})
	case *datamodel.TaskRun:
		title = "run"
		fields = append(fields,
			ux.Field{Key: "source", Value: sourceLine(v.Source, v.SourceProperties)},
			ux.Field{Key: "input", Value: v.Input})
	case *datamodel.TaskOutput:
		title = "output"
		fields = append(fields,
			ux.Field{Key: "source", Value: sourceLine(v.Source, v.SourceProperties)},
			ux.Field{Key: "output", Value: v.Output})
		fields = appendIf(fields, "fixed output", deref(v.FixedOutput))
		if v.Rating != nil {
			fields = append(fields, ux.Field{Key: "rating", Value: ratingLine(v.Rating)})
			for _, id := range sortedKeys(v.Rating.RequirementRatings) {
				fields = append(fields, ux.Field{Key: "  " + id, Value: ratingValue(v.Rating.Type, v.Rating.RequirementRatings[id])})
			}
		}
	}
	return ux.Record{Title: title, Fields: fields}
}

// recordList renders several records separated by blank lines.
type recordList []ux.Record

func (l recordList) Render(s ux.Styles) string {
	if len(l) == 0 {
		return s.Muted.Render("(none)")
	}
	parts := make([]string, 0, len(l))
	for _, r := range l {
		parts = append(parts, r.Render(s))
	}
	return strings.Join(parts, "\n\n")
}

func recordsOf[T datamodel.Entity](items []T) recordList {
	out := make(recordList, 0, len(items))
	for _, e := range items {
		out = append(out, entityRecord(e))
	}
	return out
}

func sourceLine(src domain.DataSourceType, props map[string]string) string {
	var parts []string
	for _, k := range sortedKeys(props) {
		parts = append(parts, k+"="+props[k])
	}
	if len(parts) == 0 {
		return string(src)
	}
	return fmt.Sprintf("%s (%s)", src, strings.Join(parts, ", "))
}

func ratingLine(r *datamodel.TaskOutputRating) string {
	return ratingValue(r.Type, r.Value)
}

func ratingValue(t domain.RatingType, v float64) string {
	if t == domain.RatingFiveStar {
		return tui.Stars(int(v))
	}
	return fmt.Sprintf("%g", v)
}

func appendIf(fields []ux.Field, key, value string) []ux.Field {
	if value == "" {
		return fields
	}
	return append(fields, ux.Field{Key: key, Value: value})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
