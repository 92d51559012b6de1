// Package instrumentation provides OpenTelemetry instrumentation for the
// mcp-chaos server.
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool and status
//   - mcp_tool_duration_seconds: Histogram of tool invocation durations
//
// Chaos Run Metrics:
//   - chaos_runs_total: Counter of chaos runs by result
//   - chaos_containers_killed_total: Counter of containers killed
//
// Kubernetes Operation Metrics:
//   - kubernetes_operations_total: Counter of K8s operations by operation and status
//   - kubernetes_operation_duration_seconds: Histogram of K8s operation durations
//
// Metric labels stay low-cardinality. Namespace, pod, and container names are
// carried on spans instead.
//
// # Tracing
//
// Distributed tracing spans are created for MCP tool invocations and
// Kubernetes API calls (pod listing, container inspection, exec).
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: mcp-chaos)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordToolInvocation(ctx, "kill-containers", "success", time.Since(start))
package instrumentation
