package mcpexec

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tidwall/gjson"
)

// toolIDSeparator joins server and tool names into a qualified identifier.
const toolIDSeparator = "__"

// ToolID builds the qualified identifier for a server/tool pair.
func ToolID(serverName, toolName string) string {
	return serverName + toolIDSeparator + toolName
}

// ParseToolID splits a qualified identifier of the form "server__tool" into
// its two parts. Any other shape is an *InvalidIdentifierError.
func ParseToolID(id string) (serverName, toolName string, err error) {
	parts := strings.Split(id, toolIDSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &InvalidIdentifierError{ID: id}
	}
	return parts[0], parts[1], nil
}

// Invoker resolves qualified tool identifiers, validates them against the
// server's cached catalog, and defensively unwraps the raw replies.
type Invoker struct {
	cfg     *Config
	manager *Manager
}

// NewInvoker builds an Invoker on top of an existing Manager.
func NewInvoker(cfg *Config, manager *Manager) *Invoker {
	return &Invoker{cfg: cfg, manager: manager}
}

// Invoke resolves the identifier, connects to the server on demand, verifies
// the tool exists in the cached catalog, calls it, and returns the unwrapped
// result.
func (inv *Invoker) Invoke(ctx context.Context, toolID string, args map[string]any) (any, error) {
	serverName, toolName, err := ParseToolID(toolID)
	if err != nil {
		return nil, err
	}

	sc, ok := inv.cfg.Server(serverName)
	if !ok {
		return nil, &ToolNotFoundError{Server: serverName, Available: inv.cfg.ServerNames()}
	}
	if sc.Disabled {
		return nil, &ToolNotFoundError{Server: serverName, Tool: toolName, Available: nil}
	}

	catalog, err := inv.manager.EnsureConnected(ctx, serverName)
	if err != nil {
		return nil, err
	}
	if !catalogHas(catalog, toolName) {
		return nil, &ToolNotFoundError{Server: serverName, Tool: toolName, Available: toolNames(catalog)}
	}

	res, err := inv.manager.CallTool(ctx, serverName, toolName, args)
	if err != nil {
		return nil, &ToolExecutionError{ID: toolID, Message: err.Error(), Err: err}
	}
	if res != nil && res.IsError {
		return nil, &ToolExecutionError{ID: toolID, Message: contentText(res.Content)}
	}
	return unwrapResult(res), nil
}

func catalogHas(catalog []*mcp.Tool, toolName string) bool {
	for _, tool := range catalog {
		if tool != nil && tool.Name == toolName {
			return true
		}
	}
	return false
}

func toolNames(catalog []*mcp.Tool) []string {
	names := make([]string, 0, len(catalog))
	for _, tool := range catalog {
		if tool != nil {
			names = append(names, tool.Name)
		}
	}
	return names
}

// unwrapResult normalizes the heterogeneous reply shapes servers produce.
// Strategies are tried in order, first match wins:
//
//  1. structured content (the reply's typed value field);
//  2. a content list holding exactly one text entry: JSON-looking text is
//     parsed, anything else is returned as the raw string;
//  3. a content list of any other shape is returned as-is;
//  4. the raw reply.
func unwrapResult(res *mcp.CallToolResult) any {
	if res == nil {
		return nil
	}
	if res.StructuredContent != nil {
		return res.StructuredContent
	}
	if len(res.Content) == 1 {
		if tc, ok := res.Content[0].(*mcp.TextContent); ok {
			return unwrapText(tc.Text)
		}
	}
	if len(res.Content) > 0 {
		return res.Content
	}
	return res
}

// unwrapText parses text that looks like a JSON document. The "starts with
// '{' or '['" heuristic can misfire on plain text; invalid documents fall
// back to the raw string.
func unwrapText(text string) any {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if gjson.Valid(trimmed) {
			return gjson.Parse(trimmed).Value()
		}
	}
	return text
}

func contentText(content []mcp.Content) string {
	var parts []string
	for _, c := range content {
		if tc, ok := c.(*mcp.TextContent); ok && tc.Text != "" {
			parts = append(parts, tc.Text)
		}
	}
	if len(parts) == 0 {
		return "tool reported an error"
	}
	return strings.Join(parts, "\n")
}
