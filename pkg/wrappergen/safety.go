package wrappergen

import (
	"regexp"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vikashloomba/mcp-code-execution-go/pkg/typemodel"
)

// Safety classifies how risky it is to invoke a tool unattended, for example
// while probing a freshly discovered server.
type Safety int

const (
	SafetyUnknown Safety = iota
	SafetySafe
	SafetyDangerous
)

func (s Safety) String() string {
	switch s {
	case SafetySafe:
		return "SAFE"
	case SafetyDangerous:
		return "DANGEROUS"
	default:
		return "UNKNOWN"
	}
}

var (
	dangerousName = regexp.MustCompile(`(?i)(delete|remove|drop|destroy|kill|terminate|shutdown|reboot|format|wipe|purge|truncate|write|update|create|insert|upload|send|post|execute|exec|deploy|install|uninstall|revoke)`)
	safeName      = regexp.MustCompile(`(?i)(get|list|read|search|query|fetch|describe|show|status|info|count|find|view|lookup|check)`)
)

var dangerousDescription = []string{
	"irreversible", "permanently", "destructive", "cannot be undone",
	"deletes", "removes", "overwrites", "modifies",
}

// Classify derives a safety class from the tool's name and description.
// Dangerous signals win over safe ones; tools matching neither are Unknown.
func Classify(tool *mcp.Tool) Safety {
	if tool == nil {
		return SafetyUnknown
	}
	if dangerousName.MatchString(tool.Name) {
		return SafetyDangerous
	}
	desc := strings.ToLower(tool.Description)
	for _, kw := range dangerousDescription {
		if strings.Contains(desc, kw) {
			return SafetyDangerous
		}
	}
	if safeName.MatchString(tool.Name) {
		return SafetySafe
	}
	return SafetyUnknown
}

// DiscoveryEntry is one tool's row in a discovery configuration: its
// identifier, safety class, and, for safe tools, a minimal parameter set
// derived mechanically from the input schema.
type DiscoveryEntry struct {
	Tool   string         `json:"tool"`
	Safety string         `json:"safety"`
	Params map[string]any `json:"params,omitempty"`
}

// DiscoveryConfig builds the probe configuration for one server's catalog.
// Only SAFE tools get parameters; the output is sorted by tool identifier so
// repeated runs produce identical configurations.
func DiscoveryConfig(server string, tools []*mcp.Tool) []DiscoveryEntry {
	entries := make([]DiscoveryEntry, 0, len(tools))
	for _, tool := range tools {
		if tool == nil {
			continue
		}
		safety := Classify(tool)
		entry := DiscoveryEntry{
			Tool:   server + "__" + tool.Name,
			Safety: safety.String(),
		}
		if safety == SafetySafe {
			entry.Params = minimalParams(tool)
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Tool < entries[j].Tool })
	return entries
}

// minimalParams synthesizes the smallest argument map the schema accepts:
// required fields only, zero values for scalars, the first member for enums.
func minimalParams(tool *mcp.Tool) map[string]any {
	schema, _ := tool.InputSchema.(*jsonschema.Schema)
	t, _ := typemodel.Translate(tool.Name, schema)
	if t == nil || t.Kind != typemodel.KindRecord {
		return map[string]any{}
	}
	return requiredZero(t)
}

func requiredZero(record *typemodel.Type) map[string]any {
	out := make(map[string]any)
	for _, f := range record.Fields {
		if !f.Required {
			continue
		}
		out[f.JSONName] = zeroValue(f.Type)
	}
	return out
}

func zeroValue(t *typemodel.Type) any {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case typemodel.KindString:
		return ""
	case typemodel.KindFloat, typemodel.KindInt:
		return 0
	case typemodel.KindBool:
		return false
	case typemodel.KindEnum:
		if len(t.Values) > 0 {
			return t.Values[0]
		}
		return ""
	case typemodel.KindList:
		return []any{}
	case typemodel.KindMap:
		return map[string]any{}
	case typemodel.KindRecord:
		return requiredZero(t)
	case typemodel.KindOptional:
		return zeroValue(t.Elem)
	default:
		return nil
	}
}
