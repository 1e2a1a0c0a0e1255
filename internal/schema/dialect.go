package schema

import (
	"fmt"
	"strings"
)

// defsKeys are the containers local $ref pointers may resolve into.
var defsKeys = []string{"$defs", "definitions"}

// toOpenAPI rewrites the JSON Schema draft keywords that have an OpenAPI 3.0
// equivalent so kin-openapi can compile the document:
//
//	"type": ["string", "null"]   -> "type": "string", "nullable": true
//	"const": v                   -> "enum": [v]
//	"exclusiveMinimum": n        -> "minimum": n, "exclusiveMinimum": true
//	"$ref": "#/$defs/Name"       -> the referenced schema, inlined
//
// Recursive references cannot be inlined and are rejected.
func toOpenAPI(root map[string]any) (map[string]any, error) {
	defs := map[string]any{}
	for _, key := range defsKeys {
		if m, ok := root[key].(map[string]any); ok {
			for name, def := range m {
				defs["#/"+key+"/"+name] = def
			}
		}
	}
	r := &rewriter{defs: defs, active: map[string]bool{}}
	out, err := r.schema(root)
	if err != nil {
		return nil, err
	}
	for _, key := range defsKeys {
		delete(out, key)
	}
	return out, nil
}

type rewriter struct {
	defs   map[string]any
	active map[string]bool
}

func (r *rewriter) schema(in map[string]any) (map[string]any, error) {
	if ref, ok := in["$ref"].(string); ok {
		return r.resolve(ref)
	}

	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}

	if types, ok := out["type"].([]any); ok {
		var kept []any
		for _, t := range types {
			if t == "null" {
				out["nullable"] = true
				continue
			}
			kept = append(kept, t)
		}
		switch len(kept) {
		case 0:
			return nil, fmt.Errorf(`"type": "null" on its own has no OpenAPI equivalent`)
		case 1:
			out["type"] = kept[0]
		default:
			out["type"] = kept
		}
	}

	if v, ok := out["const"]; ok {
		if _, has := out["enum"]; !has {
			out["enum"] = []any{v}
		}
		delete(out, "const")
	}

	exclusiveBound(out, "exclusiveMinimum", "minimum", func(a, b float64) bool { return a >= b })
	exclusiveBound(out, "exclusiveMaximum", "maximum", func(a, b float64) bool { return a <= b })

	for _, key := range []string{"items", "not", "additionalProperties"} {
		if m, ok := out[key].(map[string]any); ok {
			sub, err := r.schema(m)
			if err != nil {
				return nil, err
			}
			out[key] = sub
		}
	}
	for _, key := range []string{"allOf", "anyOf", "oneOf"} {
		list, ok := out[key].([]any)
		if !ok {
			continue
		}
		subs := make([]any, len(list))
		for i, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				subs[i] = item
				continue
			}
			sub, err := r.schema(m)
			if err != nil {
				return nil, err
			}
			subs[i] = sub
		}
		out[key] = subs
	}
	if props, ok := out["properties"].(map[string]any); ok {
		subs := make(map[string]any, len(props))
		for name, item := range props {
			m, ok := item.(map[string]any)
			if !ok {
				subs[name] = item
				continue
			}
			sub, err := r.schema(m)
			if err != nil {
				return nil, err
			}
			subs[name] = sub
		}
		out["properties"] = subs
	}
	return out, nil
}

func (r *rewriter) resolve(ref string) (map[string]any, error) {
	if !strings.HasPrefix(ref, "#/") {
		return nil, fmt.Errorf("$ref %q must point into $defs of the same document", ref)
	}
	def, ok := r.defs[ref]
	if !ok {
		return nil, fmt.Errorf("$ref %q does not resolve", ref)
	}
	m, ok := def.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("$ref %q does not point at a schema object", ref)
	}
	if r.active[ref] {
		return nil, fmt.Errorf("recursive $ref %q is not supported", ref)
	}
	r.active[ref] = true
	defer delete(r.active, ref)
	return r.schema(m)
}

// exclusiveBound turns a numeric draft-06+ exclusive bound into the boolean
// OpenAPI form. When an inclusive bound is also present the stricter wins.
func exclusiveBound(s map[string]any, exclusive, inclusive string, stricter func(a, b float64) bool) {
	n, ok := s[exclusive].(float64)
	if !ok {
		return
	}
	if cur, has := s[inclusive].(float64); has && !stricter(n, cur) {
		delete(s, exclusive)
		return
	}
	s[inclusive] = n
	s[exclusive] = true
}
