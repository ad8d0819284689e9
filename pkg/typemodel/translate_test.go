package typemodel

import (
	"strings"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
)

func TestTranslateScalars(t *testing.T) {
	t.Parallel()

	cases := []struct {
		schemaType string
		want       Kind
	}{
		{"string", KindString},
		{"number", KindFloat},
		{"integer", KindInt},
		{"boolean", KindBool},
		{"null", KindNull},
	}
	for _, tc := range cases {
		got, diags := Translate("x", &jsonschema.Schema{Type: tc.schemaType})
		if got.Kind != tc.want {
			t.Fatalf("Translate(%s) = %s, expected %s", tc.schemaType, got.Kind, tc.want)
		}
		if len(diags) != 0 {
			t.Fatalf("Translate(%s) diagnostics: %v", tc.schemaType, diags)
		}
	}
}

func TestTranslateRecord(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":  {Type: "string", Description: "the name"},
			"count": {Type: "integer"},
			"tags":  {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
		Required: []string{"name"},
	}
	got, diags := Translate("getStats", s)
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
	if got.Kind != KindRecord || got.Name != "getStats" {
		t.Fatalf("Translate = %s %q", got.Kind, got.Name)
	}
	if len(got.Fields) != 3 {
		t.Fatalf("field count = %d, expected 3", len(got.Fields))
	}
	// Fields come back sorted by wire name.
	if got.Fields[0].JSONName != "count" || got.Fields[1].JSONName != "name" || got.Fields[2].JSONName != "tags" {
		t.Fatalf("field order = %q, %q, %q", got.Fields[0].JSONName, got.Fields[1].JSONName, got.Fields[2].JSONName)
	}
	name := got.Fields[1]
	if !name.Required || name.Type.Kind != KindString || name.Doc != "the name" {
		t.Fatalf("name field = %#v", name)
	}
	if got.Fields[0].Required {
		t.Fatalf("count should not be required")
	}
	tags := got.Fields[2]
	if tags.Type.Kind != KindList || tags.Type.Elem.Kind != KindString {
		t.Fatalf("tags type = %#v", tags.Type)
	}
}

func TestTranslateEmptyObjectIsFieldlessRecord(t *testing.T) {
	t.Parallel()

	got, diags := Translate("noParams", &jsonschema.Schema{Type: "object"})
	if got.Kind != KindRecord || len(got.Fields) != 0 {
		t.Fatalf("Translate = %#v", got)
	}
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
}

func TestTranslateMap(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{
		Type:                 "object",
		AdditionalProperties: &jsonschema.Schema{Type: "number"},
	}
	got, _ := Translate("metrics", s)
	if got.Kind != KindMap || got.Elem.Kind != KindFloat {
		t.Fatalf("Translate = %#v", got)
	}
}

func TestTranslateEnum(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{Enum: []any{"asc", "desc"}}
	got, diags := Translate("order", s)
	if got.Kind != KindEnum || len(got.Values) != 2 || got.Values[0] != "asc" {
		t.Fatalf("Translate = %#v", got)
	}
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
}

func TestTranslateMixedEnumFallsBack(t *testing.T) {
	t.Parallel()

	got, diags := Translate("order", &jsonschema.Schema{Enum: []any{"asc", 1}})
	if !got.IsUnknown() {
		t.Fatalf("Translate = %#v, expected unknown", got)
	}
	if len(diags) != 1 || !strings.Contains(diags[0].Reason, "enum") {
		t.Fatalf("diagnostics = %v", diags)
	}
}

func TestTranslateNullableUnion(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{Types: []string{"string", "null"}}
	got, diags := Translate("note", s)
	if got.Kind != KindOptional || got.Elem.Kind != KindString {
		t.Fatalf("Translate = %#v", got)
	}
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
}

func TestTranslateNilAndEmptySchemas(t *testing.T) {
	t.Parallel()

	got, diags := Translate("x", nil)
	if !got.IsUnknown() || len(diags) != 0 {
		t.Fatalf("Translate(nil) = %#v, %v", got, diags)
	}

	got, diags = Translate("x", &jsonschema.Schema{})
	if !got.IsUnknown() || len(diags) != 0 {
		t.Fatalf("Translate(empty) = %#v, %v", got, diags)
	}
}

func TestTranslateArrayWithoutItemsFallsBack(t *testing.T) {
	t.Parallel()

	got, diags := Translate("list", &jsonschema.Schema{Type: "array"})
	if !got.IsUnknown() {
		t.Fatalf("Translate = %#v", got)
	}
	if len(diags) != 1 {
		t.Fatalf("diagnostics = %v", diags)
	}
}

func TestTranslateRef(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"point": {Ref: "#/$defs/Point"},
		},
		Defs: map[string]*jsonschema.Schema{
			"Point": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"x": {Type: "number"},
					"y": {Type: "number"},
				},
			},
		},
	}
	got, diags := Translate("shape", s)
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
	point := got.Fields[0].Type
	if point.Kind != KindRecord || len(point.Fields) != 2 {
		t.Fatalf("resolved ref = %#v", point)
	}
}

func TestTranslateUnresolvableRefFallsBack(t *testing.T) {
	t.Parallel()

	got, diags := Translate("x", &jsonschema.Schema{Ref: "#/$defs/Missing"})
	if !got.IsUnknown() {
		t.Fatalf("Translate = %#v", got)
	}
	if len(diags) != 1 || !strings.Contains(diags[0].Reason, "$ref") {
		t.Fatalf("diagnostics = %v", diags)
	}
}

func TestTranslateCycleFallsBack(t *testing.T) {
	t.Parallel()

	node := &jsonschema.Schema{Type: "object"}
	node.Properties = map[string]*jsonschema.Schema{
		"next": {Ref: "#/$defs/Node"},
	}
	root := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"head": {Ref: "#/$defs/Node"},
		},
		Defs: map[string]*jsonschema.Schema{"Node": node},
	}

	got, diags := Translate("list", root)
	if got.Kind != KindRecord {
		t.Fatalf("Translate = %#v", got)
	}
	if len(diags) == 0 || !strings.Contains(diags[0].Reason, "cycle") {
		t.Fatalf("diagnostics = %v", diags)
	}
	// The cyclic member degrades to unknown; the rest of the record survives.
	next := got.Fields[0].Type.Fields[0]
	if next.JSONName != "next" || !next.Type.IsUnknown() {
		t.Fatalf("cyclic field = %#v", next)
	}
}

func TestTranslateDepthLimit(t *testing.T) {
	t.Parallel()

	// A chain of nested arrays deeper than the limit.
	leaf := &jsonschema.Schema{Type: "string"}
	s := leaf
	for i := 0; i < MaxDepth+5; i++ {
		s = &jsonschema.Schema{Type: "array", Items: s}
	}

	got, diags := Translate("deep", s)
	if got.Kind != KindList {
		t.Fatalf("Translate = %#v", got)
	}
	if len(diags) != 1 || !strings.Contains(diags[0].Reason, "depth") {
		t.Fatalf("diagnostics = %v", diags)
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	if KindRecord.String() != "record" || Kind(99).String() != "invalid" {
		t.Fatalf("Kind.String broken: %s / %s", KindRecord, Kind(99))
	}
}
