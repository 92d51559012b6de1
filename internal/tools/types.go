package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-chaos/internal/k8s"
	"github.com/giantswarm/mcp-chaos/internal/server"
)

// ToolHandler is the signature for MCP tool handler functions that take ServerContext.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error)

// AcquireClient builds a Kubernetes client for a single tool invocation.
// When kubeconfigPath is non-empty it overrides the server's configured
// kubeconfig. Every gateway call on the returned client is traced and its
// duration recorded. The caller must Close the client before the invocation
// finishes so that no cluster session outlives it.
func AcquireClient(sc *server.ServerContext, kubeconfigPath string) (k8s.Client, error) {
	client, err := sc.NewK8sClient(kubeconfigPath)
	if err != nil {
		return nil, err
	}
	return k8s.NewInstrumentedClient(client, sc.InstrumentationProvider()), nil
}
