package chaos

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	chaoscore "github.com/giantswarm/mcp-chaos/internal/chaos"
	"github.com/giantswarm/mcp-chaos/internal/server"
	"github.com/giantswarm/mcp-chaos/internal/tools"
)

// ToolKillContainers is the fixed identifier the kill tool is registered
// under. Hosts address the tool by this name.
const ToolKillContainers = "kill-containers"

// RegisterChaosTools registers all chaos injection tools with the MCP server
func RegisterChaosTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Execute a kill command inside the target container of up to N pods selected by label selector or name pattern. Returns one record per container killed, keyed by a unique nanosecond token."),
		mcp.WithString("namespace",
			mcp.Required(),
			mcp.Description("Namespace to select target pods from"),
		),
		mcp.WithString("containerName",
			mcp.Description("Name of the container to kill inside each selected pod"),
		),
		mcp.WithString("command",
			mcp.Description("Command executed inside the container through the shell (default: '"+chaoscore.DefaultCommand+"')"),
		),
		mcp.WithNumber("kill",
			mcp.Description("Number of pods to act on (default: 1, minimum: 1)"),
		),
		mcp.WithString("labelSelector",
			mcp.Description("Label selector for target pods (mutually exclusive with namePattern)"),
		),
		mcp.WithString("namePattern",
			mcp.Description("Regular expression matched against pod names (mutually exclusive with labelSelector)"),
		),
	}
	opts = append(opts, tools.AddKubeconfigParam(sc)...)

	killTool := mcp.NewTool(ToolKillContainers, opts...)

	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleKillContainers(ctx, request, sc)
	}

	s.AddTool(killTool, tools.WrapWithInstrumentation(
		ToolKillContainers,
		sc.InstrumentationProvider(),
		handler,
	))

	return nil
}
