package wrappergen

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/vikashloomba/mcp-code-execution-go/pkg/typemodel"
)

// goRenderer turns type-model nodes into Go type expressions, accumulating the
// named struct and enum declarations the expressions depend on. Declarations
// are emitted in first-use order, which is deterministic because record fields
// arrive sorted by wire name.
type goRenderer struct {
	decls []string
	seen  map[string]bool
}

func newGoRenderer() *goRenderer {
	return &goRenderer{seen: make(map[string]bool)}
}

// typeExpr returns the Go expression for a node. Optional scalars, records,
// and enums become pointers; lists, maps, and unknowns already have a usable
// zero value and stay bare.
func (r *goRenderer) typeExpr(t *typemodel.Type, optional bool) string {
	base := r.baseExpr(t)
	if optional && pointerWhenOptional(t) {
		return "*" + base
	}
	return base
}

func (r *goRenderer) baseExpr(t *typemodel.Type) string {
	if t == nil {
		return "any"
	}
	switch t.Kind {
	case typemodel.KindString:
		return "string"
	case typemodel.KindFloat:
		return "float64"
	case typemodel.KindInt:
		return "int64"
	case typemodel.KindBool:
		return "bool"
	case typemodel.KindNull, typemodel.KindUnknown:
		return "any"
	case typemodel.KindOptional:
		return r.typeExpr(t.Elem, true)
	case typemodel.KindList:
		return "[]" + r.baseExpr(t.Elem)
	case typemodel.KindMap:
		return "map[string]" + r.baseExpr(t.Elem)
	case typemodel.KindEnum:
		return r.enumDecl(t)
	case typemodel.KindRecord:
		return r.recordDecl(t)
	default:
		return "any"
	}
}

func pointerWhenOptional(t *typemodel.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case typemodel.KindList, typemodel.KindMap, typemodel.KindUnknown, typemodel.KindNull:
		return false
	case typemodel.KindOptional:
		return pointerWhenOptional(t.Elem)
	default:
		return true
	}
}

// recordDecl emits a named struct for a record node and returns its name.
func (r *goRenderer) recordDecl(t *typemodel.Type) string {
	name := typeName(t.Name)
	if r.seen[name] {
		return name
	}
	r.seen[name] = true

	var b strings.Builder
	if t.Doc != "" {
		writeDocComment(&b, name, t.Doc)
	}
	fmt.Fprintf(&b, "type %s struct {\n", name)
	for _, f := range t.Fields {
		expr := r.typeExpr(f.Type, !f.Required)
		tag := f.JSONName
		if !f.Required {
			tag += ",omitempty"
		}
		if f.Doc != "" {
			fmt.Fprintf(&b, "\t// %s\n", strings.ReplaceAll(f.Doc, "\n", " "))
		}
		fmt.Fprintf(&b, "\t%s %s `json:%q`\n", fieldName(f.JSONName), expr, tag)
	}
	b.WriteString("}\n")
	r.decls = append(r.decls, b.String())
	return name
}

// enumDecl emits a named string type with one constant per member and a
// valid() guard, returning the type name.
func (r *goRenderer) enumDecl(t *typemodel.Type) string {
	name := typeName(t.Name)
	if r.seen[name] {
		return name
	}
	r.seen[name] = true

	var b strings.Builder
	if t.Doc != "" {
		writeDocComment(&b, name, t.Doc)
	}
	fmt.Fprintf(&b, "type %s string\n\n", name)
	b.WriteString("const (\n")
	for _, v := range t.Values {
		fmt.Fprintf(&b, "\t%s%s %s = %q\n", name, exportIdent(v), name, v)
	}
	b.WriteString(")\n\n")
	fmt.Fprintf(&b, "func (v %s) valid() bool {\n\tswitch v {\n\tcase ", name)
	consts := make([]string, 0, len(t.Values))
	for _, v := range t.Values {
		consts = append(consts, name+exportIdent(v))
	}
	b.WriteString(strings.Join(consts, ", "))
	b.WriteString(":\n\t\treturn true\n\t}\n\treturn false\n}\n")
	r.decls = append(r.decls, b.String())
	return name
}

func writeDocComment(b *strings.Builder, name, doc string) {
	fmt.Fprintf(b, "// %s: %s\n", name, strings.ReplaceAll(strings.TrimSpace(doc), "\n", " "))
}

// typeName converts a dotted schema path such as "get_cpu.filter.mode" into
// an exported identifier ("GetCpuFilterMode").
func typeName(path string) string {
	parts := strings.Split(path, ".")
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(exportIdent(p))
	}
	return b.String()
}

// exportIdent converts an arbitrary wire name into an exported Go identifier.
// Non-alphanumeric runes act as word breaks; a leading digit is prefixed.
func exportIdent(s string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			if upperNext {
				b.WriteRune(unicode.ToUpper(r))
				upperNext = false
			} else {
				b.WriteRune(r)
			}
		case unicode.IsDigit(r):
			if b.Len() == 0 {
				b.WriteString("X")
			}
			b.WriteRune(r)
			upperNext = true
		default:
			upperNext = true
		}
	}
	if b.Len() == 0 {
		return "X"
	}
	return b.String()
}

func fieldName(wire string) string {
	return exportIdent(wire)
}

// packageName converts a server name into a valid Go package identifier.
func packageName(server string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(server) {
		if unicode.IsLower(r) || (unicode.IsDigit(r) && b.Len() > 0) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "srv"
	}
	return b.String()
}

// fileNameFor converts a tool name into the generated file's base name.
func fileNameFor(tool string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(tool) {
		if unicode.IsLower(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String() + ".go"
}

// enumFields returns the params-struct fields whose type resolves to an enum,
// in declaration order, with their resolved optionality.
type enumField struct {
	goName   string
	typeName string
	optional bool
}

func collectEnumFields(record *typemodel.Type) []enumField {
	if record == nil || record.Kind != typemodel.KindRecord {
		return nil
	}
	var out []enumField
	for _, f := range record.Fields {
		t, optional := resolveOptional(f.Type, !f.Required)
		if t != nil && t.Kind == typemodel.KindEnum {
			out = append(out, enumField{
				goName:   fieldName(f.JSONName),
				typeName: typeName(t.Name),
				optional: optional,
			})
		}
	}
	return out
}

func resolveOptional(t *typemodel.Type, optional bool) (*typemodel.Type, bool) {
	for t != nil && t.Kind == typemodel.KindOptional {
		t = t.Elem
		optional = true
	}
	return t, optional
}
