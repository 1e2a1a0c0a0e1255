// Package schema compiles JSON Schema documents stored as text and validates
// JSON instances against them.
//
// Schemas are interpreted by kin-openapi, which implements the OpenAPI 3.0
// dialect of JSON Schema. Common draft keywords with an OpenAPI equivalent
// (type arrays with "null", const, numeric exclusive bounds and local $defs
// references) are rewritten before compiling. Compiled schemas are immutable
// and safe for concurrent use.
package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/felixgeelhaar/taskvault/internal/errors"
)

// annotations are JSON Schema keywords that carry no validation meaning for
// the OpenAPI dialect but commonly appear in hand-written schemas.
var annotations = []string{"$schema", "$id", "$comment", "examples"}

// Compiled is a parsed and structurally checked schema.
type Compiled struct {
	source string
	schema *openapi3.Schema
}

// Compile parses text as a JSON Schema document. The root must be a JSON
// object and the document must be structurally consistent.
func Compile(text string) (*Compiled, error) {
	var root any
	if err := json.Unmarshal([]byte(text), &root); err != nil {
		return nil, errors.NewSchemaCompileError("schema is not valid JSON", err)
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, errors.NewSchemaCompileError(fmt.Sprintf("schema root must be a JSON object, got %s", jsonKind(root)), nil)
	}

	rewritten, err := toOpenAPI(obj)
	if err != nil {
		return nil, errors.NewSchemaCompileError(err.Error(), nil)
	}
	data, err := json.Marshal(rewritten)
	if err != nil {
		return nil, errors.NewSchemaCompileError("schema has malformed keywords", err)
	}

	var s openapi3.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.NewSchemaCompileError("schema has malformed keywords", err)
	}

	ctx := context.Background()
	if err := s.Validate(ctx, openapi3.AllowExtraSiblingFields(annotations...)); err != nil {
		return nil, errors.NewSchemaCompileError("schema is structurally inconsistent", err)
	}

	return &Compiled{source: text, schema: &s}, nil
}

// CompileObject is Compile restricted to schemas describing a JSON object,
// which is what task input and output schemas must be.
func CompileObject(text string) (*Compiled, error) {
	c, err := Compile(text)
	if err != nil {
		return nil, err
	}
	if c.schema.Type == nil || !c.schema.Type.Is(openapi3.TypeObject) {
		return nil, errors.NewSchemaCompileError(`schema root must declare "type": "object"`, nil)
	}
	return c, nil
}

// Source returns the schema text the Compiled was built from.
func (c *Compiled) Source() string {
	return c.source
}

// Validate parses instance as JSON and checks it against the schema.
// Malformed JSON yields a FORMAT error; a structural mismatch yields a
// SCHEMA-002 error listing every violated constraint.
func (c *Compiled) Validate(field, instance string) error {
	var value any
	if err := json.Unmarshal([]byte(instance), &value); err != nil {
		return errors.NewFormatError(field, err)
	}
	return c.ValidateValue(field, value)
}

// ValidateValue checks an already decoded JSON value against the schema.
func (c *Compiled) ValidateValue(field string, value any) error {
	err := c.schema.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	violations := describe(err)
	sort.Strings(violations)
	return errors.NewSchemaMismatchError(field, strings.Join(violations, "; "))
}

// describe flattens a kin-openapi validation error into one line per
// violated constraint.
func describe(err error) []string {
	switch e := err.(type) {
	case openapi3.MultiError:
		var out []string
		for _, inner := range e {
			out = append(out, describe(inner)...)
		}
		return out
	case *openapi3.SchemaError:
		pointer := "(root)"
		if parts := e.JSONPointer(); len(parts) > 0 {
			pointer = "/" + strings.Join(parts, "/")
		}
		reason := e.Reason
		if reason == "" {
			reason = fmt.Sprintf("violates %q", e.SchemaField)
		}
		return []string{fmt.Sprintf("%s: %s", pointer, reason)}
	default:
		return []string{err.Error()}
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	default:
		return "object"
	}
}
