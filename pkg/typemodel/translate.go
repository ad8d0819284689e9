package typemodel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// MaxDepth bounds schema recursion. Nodes past this depth translate to
// KindUnknown with a diagnostic instead of recursing further.
const MaxDepth = 32

// Translate converts a JSON schema into a type model rooted at the given
// name. It never returns an error: untranslatable nodes degrade to
// KindUnknown and the reasons are returned as diagnostics.
func Translate(name string, s *jsonschema.Schema) (*Type, []Diagnostic) {
	tr := &translator{visited: make(map[*jsonschema.Schema]bool)}
	if s != nil {
		tr.defs = s.Defs
	}
	t := tr.translate(name, s, 0)
	return t, tr.diags
}

type translator struct {
	defs    map[string]*jsonschema.Schema
	visited map[*jsonschema.Schema]bool
	diags   []Diagnostic
}

func (tr *translator) fallback(path, reason string) *Type {
	tr.diags = append(tr.diags, Diagnostic{Path: path, Reason: reason})
	return Unknown()
}

func (tr *translator) translate(path string, s *jsonschema.Schema, depth int) *Type {
	if s == nil {
		return Unknown()
	}
	if depth > MaxDepth {
		return tr.fallback(path, fmt.Sprintf("max depth %d exceeded", MaxDepth))
	}
	if tr.visited[s] {
		return tr.fallback(path, "schema cycle detected")
	}
	tr.visited[s] = true
	defer delete(tr.visited, s)

	if s.Ref != "" {
		target, ok := tr.resolveRef(s.Ref)
		if !ok {
			return tr.fallback(path, fmt.Sprintf("unresolvable $ref %q", s.Ref))
		}
		return tr.translate(path, target, depth+1)
	}

	if len(s.Enum) > 0 {
		values, ok := stringEnum(s.Enum)
		if !ok {
			return tr.fallback(path, "enum with non-string members")
		}
		return &Type{Kind: KindEnum, Name: path, Values: values, Doc: s.Description}
	}

	if inner, ok := nullableOf(s); ok {
		elem := tr.translate(path, inner, depth+1)
		return &Type{Kind: KindOptional, Elem: elem, Doc: s.Description}
	}

	switch primaryType(s) {
	case "string":
		return &Type{Kind: KindString, Doc: s.Description}
	case "number":
		return &Type{Kind: KindFloat, Doc: s.Description}
	case "integer":
		return &Type{Kind: KindInt, Doc: s.Description}
	case "boolean":
		return &Type{Kind: KindBool, Doc: s.Description}
	case "null":
		return &Type{Kind: KindNull, Doc: s.Description}
	case "array":
		if s.Items == nil {
			return tr.fallback(path, "array without items schema")
		}
		elem := tr.translate(path+".item", s.Items, depth+1)
		return &Type{Kind: KindList, Elem: elem, Doc: s.Description}
	case "object":
		return tr.translateObject(path, s, depth)
	case "":
		// Absent type with no other recognized shape: explicit fallback, no
		// diagnostic since this is the documented "unknown JSON value" case.
		return Unknown()
	default:
		return tr.fallback(path, fmt.Sprintf("unsupported type %q", primaryType(s)))
	}
}

func (tr *translator) translateObject(path string, s *jsonschema.Schema, depth int) *Type {
	if len(s.Properties) > 0 {
		required := make(map[string]bool, len(s.Required))
		for _, name := range s.Required {
			required[name] = true
		}
		names := make([]string, 0, len(s.Properties))
		for name := range s.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		fields := make([]Field, 0, len(names))
		for _, name := range names {
			prop := s.Properties[name]
			fields = append(fields, Field{
				JSONName: name,
				Type:     tr.translate(path+"."+name, prop, depth+1),
				Required: required[name],
				Doc:      propertyDoc(prop),
			})
		}
		return &Type{Kind: KindRecord, Name: path, Fields: fields, Doc: s.Description}
	}
	if s.AdditionalProperties != nil {
		elem := tr.translate(path+".value", s.AdditionalProperties, depth+1)
		return &Type{Kind: KindMap, Elem: elem, Doc: s.Description}
	}
	// Object with no declared members: a record with no fields, which is how
	// parameterless tools describe their input.
	return &Type{Kind: KindRecord, Name: path, Doc: s.Description}
}

func (tr *translator) resolveRef(ref string) (*jsonschema.Schema, bool) {
	const prefix = "#/$defs/"
	if !strings.HasPrefix(ref, prefix) {
		return nil, false
	}
	target, ok := tr.defs[strings.TrimPrefix(ref, prefix)]
	if !ok || target == nil {
		return nil, false
	}
	return target, true
}

// nullableOf recognizes the ["string","null"] union shape and returns a
// schema describing the non-null half.
func nullableOf(s *jsonschema.Schema) (*jsonschema.Schema, bool) {
	if len(s.Types) != 2 {
		return nil, false
	}
	var other string
	switch {
	case s.Types[0] == "null":
		other = s.Types[1]
	case s.Types[1] == "null":
		other = s.Types[0]
	default:
		return nil, false
	}
	inner := *s
	inner.Types = nil
	inner.Type = other
	return &inner, true
}

func primaryType(s *jsonschema.Schema) string {
	if s.Type != "" {
		return s.Type
	}
	if len(s.Types) == 1 {
		return s.Types[0]
	}
	if len(s.Properties) > 0 || s.AdditionalProperties != nil {
		return "object"
	}
	if s.Items != nil {
		return "array"
	}
	return ""
}

func stringEnum(members []any) ([]string, bool) {
	values := make([]string, 0, len(members))
	for _, m := range members {
		s, ok := m.(string)
		if !ok {
			return nil, false
		}
		values = append(values, s)
	}
	return values, true
}

func propertyDoc(s *jsonschema.Schema) string {
	if s == nil {
		return ""
	}
	return s.Description
}
