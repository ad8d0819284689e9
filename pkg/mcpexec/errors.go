package mcpexec

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a missing or malformed server configuration.
// It is fatal: nothing retries a bad config.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("mcpexec: configuration %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("mcpexec: configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ServerConnectionError reports a failed launch or handshake for one server.
// It surfaces on the first tool call touching that server and leaves other
// servers unaffected.
type ServerConnectionError struct {
	Server string
	Err    error
}

func (e *ServerConnectionError) Error() string {
	return fmt.Sprintf("mcpexec: could not connect to server %q: %v", e.Server, e.Err)
}

func (e *ServerConnectionError) Unwrap() error { return e.Err }

// InvalidIdentifierError reports a qualified tool identifier that does not
// have the "server__tool" shape. This is a caller bug and is never retried.
type InvalidIdentifierError struct {
	ID string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("mcpexec: invalid tool identifier %q: expected \"serverName__toolName\"", e.ID)
}

// ToolNotFoundError reports a tool (or its server) that is not present in the
// configuration or the server's cached catalog. Never retried.
type ToolNotFoundError struct {
	Server string
	Tool   string
	// Available names the tools the server does expose, or the configured
	// servers when the server itself is unknown.
	Available []string
}

func (e *ToolNotFoundError) Error() string {
	if e.Tool == "" {
		return fmt.Sprintf("mcpexec: server %q not found in configuration (servers: %s)",
			e.Server, strings.Join(e.Available, ", "))
	}
	return fmt.Sprintf("mcpexec: tool %q not found on server %q (tools: %s)",
		e.Tool, e.Server, strings.Join(e.Available, ", "))
}

// ToolExecutionError reports a failure from the remote tool itself, carrying
// the server-reported message.
type ToolExecutionError struct {
	ID      string
	Message string
	Err     error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("mcpexec: tool %q failed: %s", e.ID, e.Message)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }
