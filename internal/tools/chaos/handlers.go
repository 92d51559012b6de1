package chaos

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	chaoscore "github.com/giantswarm/mcp-chaos/internal/chaos"
	"github.com/giantswarm/mcp-chaos/internal/logging"
	"github.com/giantswarm/mcp-chaos/internal/server"
	"github.com/giantswarm/mcp-chaos/internal/tools"
)

// handleKillContainers handles one kill-containers invocation end to end:
// safety gates, per-invocation cluster session, orchestrated run, and the
// tagged result mapping.
func handleKillContainers(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	namespace, ok := args["namespace"].(string)
	if !ok || namespace == "" {
		return mcp.NewToolResultError("namespace is required"), nil
	}

	containerName, _ := args["containerName"].(string)
	command, _ := args["command"].(string)
	labelSelector, _ := args["labelSelector"].(string)
	namePattern, _ := args["namePattern"].(string)
	kubeconfigPath, _ := args["kubeconfigPath"].(string)

	// An absent kill falls back to the default; an explicit value below the
	// minimum is invalid input, not a request for the default.
	kill := chaoscore.DefaultKill
	if killFloat, ok := args["kill"].(float64); ok {
		kill = int(killFloat)
		if kill < 1 {
			return mcp.NewToolResultError(fmt.Sprintf("kill must be at least 1, got %d", kill)), nil
		}
	}

	if result := tools.CheckMutatingOperation(sc, "kill"); result != nil {
		return result, nil
	}
	if result := tools.CheckRestrictedNamespace(sc, namespace); result != nil {
		return result, nil
	}

	spec := chaoscore.TargetSpec{
		Namespace:     namespace,
		ContainerName: containerName,
		Command:       command,
		Kill:          kill,
		LabelSelector: labelSelector,
		NamePattern:   namePattern,
	}

	// One cluster session per invocation. It is released on every exit path
	// and nothing about it persists across invocations.
	client, err := tools.AcquireClient(sc, kubeconfigPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to connect to cluster: %v", logging.SanitizeHost(err.Error()))), nil
	}
	defer func() {
		_ = client.Close()
	}()

	logger := logging.NewStderrLogger(logging.ParseLevel(sc.Config().LogLevel))
	orchestrator := chaoscore.NewOrchestrator(client,
		chaoscore.WithLogger(logger),
		chaoscore.WithDryRun(sc.Config().DryRun),
	)

	outcome := orchestrator.Run(ctx, spec)
	return reportOutcome(ctx, sc, outcome)
}

// reportOutcome maps a tagged run outcome onto an MCP tool result and feeds
// the run counters.
func reportOutcome(ctx context.Context, sc *server.ServerContext, outcome chaoscore.Outcome) (*mcp.CallToolResult, error) {
	tag, payload := chaoscore.Report(outcome)

	body, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}

	switch v := outcome.(type) {
	case *chaoscore.Success:
		recordRun(ctx, sc, true, len(v.Records))
		return mcp.NewToolResultText(string(body)), nil
	case *chaoscore.Failure:
		recordRun(ctx, sc, false, v.Killed)
		return mcp.NewToolResultError(string(body)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown outcome tag %q", tag)), nil
	}
}

// recordRun updates the in-process counters and, when instrumentation is
// enabled, the OpenTelemetry chaos run metrics.
func recordRun(ctx context.Context, sc *server.ServerContext, success bool, killed int) {
	if metrics := sc.Metrics(); metrics != nil {
		metrics.RecordRun(success, killed)
	}

	provider := sc.InstrumentationProvider()
	if provider == nil || !provider.Enabled() {
		return
	}
	result := "error"
	if success {
		result = "success"
	}
	provider.Metrics().RecordChaosRun(ctx, result, killed)
}
