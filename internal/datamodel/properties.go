package datamodel

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/felixgeelhaar/taskvault/internal/domain"
	"github.com/felixgeelhaar/taskvault/internal/errors"
)

// Presence says whether a property must, may or must not appear.
type Presence int

const (
	Optional Presence = iota
	Required
	NotAllowed
)

// ValueKind is the JSON type a property value must have.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueInt
	ValueFloat
)

func (k ValueKind) String() string {
	switch k {
	case ValueInt:
		return "int"
	case ValueFloat:
		return "float"
	default:
		return "str"
	}
}

// PropertyDef declares one source property and how each source type treats it.
type PropertyDef struct {
	Name      string
	Kind      ValueKind
	Human     Presence
	Synthetic Presence
}

// presenceFor resolves the rule for src.
func (d PropertyDef) presenceFor(src domain.DataSourceType) (Presence, error) {
	switch src {
	case domain.SourceHuman:
		return d.Human, nil
	case domain.SourceSynthetic:
		return d.Synthetic, nil
	default:
		return Optional, errors.NewConstraintError(fmt.Sprintf("no source property rules for source type %q", src))
	}
}

// PropertyTable is the full rule set for one kind of source-tagged record.
// Keys not listed in the table are accepted.
type PropertyTable []PropertyDef

// outputSourceProperties governs TaskRun and TaskOutput source_properties.
var outputSourceProperties = PropertyTable{
	{Name: "creator", Kind: ValueString, Human: Required, Synthetic: NotAllowed},
	{Name: "adapter_name", Kind: ValueString, Human: NotAllowed, Synthetic: Required},
	{Name: "model_name", Kind: ValueString, Human: NotAllowed, Synthetic: Required},
	{Name: "model_provider", Kind: ValueString, Human: NotAllowed, Synthetic: Required},
	{Name: "prompt_builder_name", Kind: ValueString, Human: NotAllowed, Synthetic: Required},
}

// dataSourceProperties governs DataSource.Properties.
var dataSourceProperties = PropertyTable{
	{Name: "created_by", Kind: ValueString, Human: Required, Synthetic: NotAllowed},
	{Name: "model_name", Kind: ValueString, Human: NotAllowed, Synthetic: Required},
	{Name: "model_provider", Kind: ValueString, Human: NotAllowed, Synthetic: Required},
	{Name: "prompt_type", Kind: ValueString, Human: NotAllowed, Synthetic: Optional},
}

// Check validates props for a record of subject (for example "TaskOutput")
// tagged with src. Present-value problems are reported in table order, then
// every missing required key is reported at once.
func (t PropertyTable) Check(subject string, src domain.DataSourceType, props map[string]any) error {
	if err := src.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeConstraint, subject+" source is invalid", err)
	}

	var missing []string
	for _, def := range t {
		value, present := props[def.Name]
		presence, err := def.presenceFor(src)
		if err != nil {
			return err
		}
		switch presence {
		case Required:
			if !present {
				missing = append(missing, def.Name)
				continue
			}
			if s, ok := value.(string); ok && s == "" {
				return errors.NewConstraintError(fmt.Sprintf(
					"%s source_properties[%q] must not be empty string for %s data", subject, def.Name, src))
			}
		case NotAllowed:
			if present {
				return errors.NewConstraintError(fmt.Sprintf(
					"%s source_properties[%q] is not allowed for %s data", subject, def.Name, src))
			}
			continue
		case Optional:
			if !present {
				continue
			}
		}
		if !def.Kind.matches(value) {
			return errors.NewConstraintError(fmt.Sprintf(
				"%s source_properties[%q] must be of type %s", subject, def.Name, def.Kind))
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return errors.NewConstraintError(fmt.Sprintf(
			"%s source_properties must include %s for %s data", subject, strings.Join(missing, ", "), src)).
			WithSuggestion(fmt.Sprintf("Add the missing keys or change the source away from %s", src))
	}
	return nil
}

// CheckStrings is Check for string-valued property maps.
func (t PropertyTable) CheckStrings(subject string, src domain.DataSourceType, props map[string]string) error {
	generic := make(map[string]any, len(props))
	for k, v := range props {
		generic[k] = v
	}
	return t.Check(subject, src, generic)
}

func (k ValueKind) matches(v any) bool {
	switch k {
	case ValueString:
		_, ok := v.(string)
		return ok
	case ValueInt:
		switch n := v.(type) {
		case int, int32, int64:
			return true
		case float64:
			return n == math.Trunc(n) && !math.IsInf(n, 0)
		}
		return false
	case ValueFloat:
		switch n := v.(type) {
		case int, int32, int64:
			return true
		case float64:
			return !math.IsNaN(n) && !math.IsInf(n, 0)
		}
		return false
	}
	return false
}
