package tools

import (
	mcp "github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-chaos/internal/server"
)

// AddKubeconfigParam returns tool options for the kubeconfigPath parameter
// based on the server's operating mode. When the server runs in-cluster the
// parameter is omitted, as service account credentials are always used.
//
// Usage in tool registration:
//
//	opts := []mcp.ToolOption{
//	    mcp.WithDescription("..."),
//	}
//	opts = append(opts, tools.AddKubeconfigParam(sc)...)
//	opts = append(opts, /* tool-specific params */...)
//	tool := mcp.NewTool("tool_name", opts...)
func AddKubeconfigParam(sc *server.ServerContext) []mcp.ToolOption {
	var opts []mcp.ToolOption

	if !sc.ClientConfig().InCluster {
		opts = append(opts, mcp.WithString("kubeconfigPath",
			mcp.Description("Path to the kubeconfig file (optional, uses KUBECONFIG or the default location if not specified)"),
		))
	}

	return opts
}
