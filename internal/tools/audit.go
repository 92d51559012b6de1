package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-chaos/internal/instrumentation"
)

// statusOf classifies a handler outcome for metrics and span status.
func statusOf(result *mcp.CallToolResult, err error) string {
	if err != nil || (result != nil && result.IsError) {
		return "error"
	}
	return "success"
}

// WrapWithInstrumentation wraps a tool handler with tracing and metrics.
// Each invocation is recorded as a server span named after the tool, and its
// status and duration feed the tool invocation metrics. When the provider is
// nil or disabled the wrapper only adds the span, which is a no-op under the
// default tracer.
func WrapWithInstrumentation(
	toolName string,
	provider *instrumentation.Provider,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := statusOf(result, err)
		if err != nil {
			instrumentation.SetSpanError(span, err)
		} else if status == "success" {
			instrumentation.SetSpanSuccess(span)
		}

		if provider != nil && provider.Enabled() {
			provider.Metrics().RecordToolInvocation(ctx, toolName, status, duration)
		}

		return result, err
	}
}
