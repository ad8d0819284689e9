// Package typemodel converts JSON-Schema tool descriptions into a small
// target-independent type model. The model is the contract between schema
// translation and code rendering: translation never fails outright, it
// degrades untranslatable nodes to KindUnknown and records a diagnostic so
// generation of the remaining tools can continue.
package typemodel

// Kind enumerates the type shapes the model can express.
type Kind int

const (
	// KindUnknown is the explicit fallback for absent, unrecognized, cyclic,
	// or too-deep schemas.
	KindUnknown Kind = iota
	KindString
	KindFloat
	KindInt
	KindBool
	KindNull
	KindOptional
	KindList
	KindMap
	KindRecord
	KindEnum
)

var kindNames = map[Kind]string{
	KindUnknown:  "unknown",
	KindString:   "string",
	KindFloat:    "float",
	KindInt:      "int",
	KindBool:     "bool",
	KindNull:     "null",
	KindOptional: "optional",
	KindList:     "list",
	KindMap:      "map",
	KindRecord:   "record",
	KindEnum:     "enum",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Type is one node of the translated model.
type Type struct {
	Kind Kind
	// Name carries the schema-path-derived name for records and enums; the
	// renderer turns it into a target-language identifier.
	Name string
	// Elem is the optional's inner type, the list element, or the map value.
	Elem *Type
	// Fields are the record's members, sorted by wire name.
	Fields []Field
	// Values are the enum's members.
	Values []string
	Doc    string
}

// Field is one record member.
type Field struct {
	// JSONName is the wire name exactly as declared by the schema.
	JSONName string
	Type     *Type
	Required bool
	Doc      string
}

// Diagnostic records a schema node that had to fall back to KindUnknown.
type Diagnostic struct {
	Path   string
	Reason string
}

// Unknown returns the explicit fallback type.
func Unknown() *Type {
	return &Type{Kind: KindUnknown}
}

// IsUnknown reports whether t is the fallback type.
func (t *Type) IsUnknown() bool {
	return t == nil || t.Kind == KindUnknown
}
