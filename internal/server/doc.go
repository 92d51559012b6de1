// Package server provides the ServerContext pattern and related infrastructure
// for the MCP chaos server.
//
// This package implements the core server architecture patterns including:
//
//   - ServerContext: Encapsulates all server dependencies and lifecycle management
//   - Functional Options: Clean dependency injection and configuration
//   - Logger Interface: Abstraction for logging operations
//   - Configuration Management: Centralized server configuration
//   - HealthChecker: Liveness and readiness endpoints for Kubernetes probes
//   - MetricsServer: Dedicated Prometheus metrics listener
//
// The ServerContext Pattern:
//
// The ServerContext struct follows the context pattern commonly used in Go
// applications to encapsulate dependencies and provide clean separation of
// concerns. It includes:
//
//   - A Kubernetes client factory with a base client configuration
//   - Logger interface
//   - Configuration settings
//   - Context for cancellation and timeouts
//   - Lifecycle management (shutdown, cleanup)
//
// Kubernetes clients are not shared across tool invocations. Each invocation
// builds a client through NewK8sClient, optionally overriding the kubeconfig
// path, and releases it when the invocation finishes. Nothing about a cluster
// session persists between invocations.
//
// Example usage:
//
//	ctx := context.Background()
//	serverCtx, err := NewServerContext(ctx,
//		WithClientFactory(factory),
//		WithClientConfig(clientConfig),
//		WithLogger(customLogger),
//		WithDryRun(false),
//		WithLogLevel("debug"),
//	)
//	if err != nil {
//		return err
//	}
//	defer serverCtx.Shutdown()
//
//	client, err := serverCtx.NewK8sClient("")
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Configuration Management:
//
// The Config struct provides centralized configuration with sensible defaults
// and support for:
//
//   - Server identity (name, version)
//   - Kubernetes settings (context, kubeconfig path)
//   - Non-destructive mode and dry-run settings
//   - Logging configuration (level, format)
//   - Security settings (allowed operations, restricted namespaces)
//
// The configuration supports deep cloning to prevent accidental mutations.
package server
