// Package cmd provides the command-line interface for mcp-chaos.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - serve: Starts the MCP server (default behavior when no subcommand is provided)
//   - version: Displays the application version
//
// The CLI runs the serve command when no subcommand is specified, so the
// binary can be dropped into an MCP host configuration as-is.
//
// Command Structure:
//
//	mcp-chaos [flags]                 # Starts the MCP server (default)
//	mcp-chaos serve [flags]           # Explicitly starts the MCP server
//	mcp-chaos version                 # Shows version information
//	mcp-chaos help [command]          # Shows help information
//
// The serve command supports multiple transport options:
//   - stdio: Standard input/output (default) - for command-line integration
//   - sse: Server-Sent Events over HTTP - for web-based clients
//   - streamable-http: Streamable HTTP transport - for HTTP-based integration
//
// Transport Configuration Examples:
//
//	mcp-chaos serve --transport stdio           # Default STDIO transport
//	mcp-chaos serve --transport sse --http-addr :8080 --sse-endpoint /sse
//	mcp-chaos serve --transport streamable-http --http-addr :9000 --http-endpoint /mcp
//
// The serve command also supports flags for controlling the Kubernetes
// client (kubeconfig path, context, API rate limits) and chaos safety
// behavior (non-destructive mode, dry-run mode, restricted namespaces).
package cmd
