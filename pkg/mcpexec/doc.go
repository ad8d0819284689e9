// Package mcpexec runs scripts against Model Context Protocol (MCP) servers
// from a single Go process. It layers lazy connection management, qualified
// tool identifiers, and defensive result unwrapping on top of the
// modelcontextprotocol/go-sdk client so generated tool wrappers stay thin.
//
// # Core entry points
//
//   - Run is the top-level harness. It wires a Runtime from a Config, executes
//     a caller-supplied Script, handles interrupts, closes every session, and
//     returns a process exit code.
//   - Runtime bundles the connection Manager, the Invoker, and the field
//     normalization registry behind one explicit handle.
//   - Config (loaded via LoadConfig) declares how each MCP server is launched
//     as a stdio subprocess.
//
// Tools are addressed by qualified identifiers of the form "server__tool";
// ToolID and ParseToolID convert between the joined and split forms. Invoke
// connects to the named server on first use, verifies the tool against the
// cached catalog, and unwraps the heterogeneous reply shapes servers produce
// into plain Go values.
//
// Failures surface as typed errors (ConfigurationError, ServerConnectionError,
// InvalidIdentifierError, ToolNotFoundError, ToolExecutionError) so scripts
// can branch on the failure class with errors.As.
package mcpexec
