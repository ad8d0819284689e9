package mcpexec

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// newStatsServer builds an in-process MCP server exposing the reply shapes the
// invoker has to unwrap: plain text, JSON text, structured content, a tool
// error, and a protocol failure.
func newStatsServer(t *testing.T) *mcp.Server {
	t.Helper()
	server := mcp.NewServer(&mcp.Implementation{Name: "stats-server", Version: "0.1.0"}, nil)

	type echoArgs struct {
		Text string `json:"text"`
	}
	mcp.AddTool(server, &mcp.Tool{Name: "echo", Description: "Returns its input as plain text."},
		func(ctx context.Context, req *mcp.CallToolRequest, args echoArgs) (*mcp.CallToolResult, any, error) {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: args.Text}},
			}, nil, nil
		})

	type emptyArgs struct{}
	mcp.AddTool(server, &mcp.Tool{Name: "cpu_json", Description: "Returns CPU stats as a JSON text blob."},
		func(ctx context.Context, req *mcp.CallToolRequest, args emptyArgs) (*mcp.CallToolResult, any, error) {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: `{"cpuLoad": 0.25, "cores": 8}`}},
			}, nil, nil
		})

	mcp.AddTool(server, &mcp.Tool{Name: "cpu_structured", Description: "Returns CPU stats as structured content."},
		func(ctx context.Context, req *mcp.CallToolRequest, args emptyArgs) (*mcp.CallToolResult, any, error) {
			return &mcp.CallToolResult{
				StructuredContent: map[string]any{"cpuLoad": 0.5},
			}, nil, nil
		})

	mcp.AddTool(server, &mcp.Tool{Name: "always_fails", Description: "Reports a tool-level error."},
		func(ctx context.Context, req *mcp.CallToolRequest, args emptyArgs) (*mcp.CallToolResult, any, error) {
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{Text: "disk on fire"}},
			}, nil, nil
		})

	mcp.AddTool(server, &mcp.Tool{Name: "broken", Description: "Fails at the protocol level."},
		func(ctx context.Context, req *mcp.CallToolRequest, args emptyArgs) (*mcp.CallToolResult, any, error) {
			return nil, nil, errors.New("handler exploded")
		})

	return server
}

// inMemoryDial returns a DialFunc that connects the given server over an
// in-memory transport instead of spawning a subprocess, counting each dial.
func inMemoryDial(server *mcp.Server, dials *atomic.Int32) DialFunc {
	return func(serverName string, cfg ServerConfig) (mcp.Transport, error) {
		if dials != nil {
			dials.Add(1)
		}
		clientTransport, serverTransport := mcp.NewInMemoryTransports()
		if _, err := server.Connect(context.Background(), serverTransport, nil); err != nil {
			return nil, err
		}
		return clientTransport, nil
	}
}

func statsConfig() *Config {
	return &Config{McpServers: map[string]ServerConfig{
		"stats": {Command: "stats-server"},
		"off":   {Command: "off-server", Disabled: true},
	}}
}
