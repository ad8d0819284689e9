// Command mcpexec runs scripts and utilities against configured MCP servers:
// listing tools, calling them by qualified identifier, generating typed Go
// wrappers, and emitting discovery configurations.
package main

func main() {
	Execute()
}
