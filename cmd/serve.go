package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-chaos/internal/instrumentation"
	"github.com/giantswarm/mcp-chaos/internal/k8s"
	"github.com/giantswarm/mcp-chaos/internal/server"
	"github.com/giantswarm/mcp-chaos/internal/tools/chaos"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportStreamableHTTP = "streamable-http"
)

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	var (
		kubeconfigPath string
		kubeContext    string
		qpsLimit       float32
		burstLimit     int
		debugMode      bool
		inCluster      bool

		nonDestructiveMode   bool
		dryRun               bool
		allowedOperations    []string
		restrictedNamespaces []string

		// Transport options
		transport       string
		httpAddr        string
		sseEndpoint     string
		messageEndpoint string
		httpEndpoint    string

		// Metrics server options
		enableMetricsServer bool
		metricsAddr         string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP chaos server",
		Long: `Start the MCP chaos server to provide controlled fault injection
tools for Kubernetes clusters via the Model Context Protocol.

The server exposes a kill-containers tool that executes a kill command
inside the target container of selected pods, for testing how workloads
behave when their processes die.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

Authentication modes:
  - Kubeconfig (default): Uses standard kubeconfig file authentication
  - In-cluster: Uses service account token when running inside a Kubernetes pod`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := ServeConfig{
				Transport:            transport,
				HTTPAddr:             httpAddr,
				SSEEndpoint:          sseEndpoint,
				MessageEndpoint:      messageEndpoint,
				HTTPEndpoint:         httpEndpoint,
				KubeconfigPath:       kubeconfigPath,
				KubeContext:          kubeContext,
				QPSLimit:             qpsLimit,
				BurstLimit:           burstLimit,
				DebugMode:            debugMode,
				InCluster:            inCluster,
				NonDestructiveMode:   nonDestructiveMode,
				DryRun:               dryRun,
				AllowedOperations:    allowedOperations,
				RestrictedNamespaces: restrictedNamespaces,
				Metrics: MetricsServeConfig{
					Enabled: enableMetricsServer,
					Addr:    metricsAddr,
				},
			}
			return runServe(config)
		},
	}

	// Add flags for configuring the server
	cmd.Flags().StringVar(&kubeconfigPath, "kubeconfig", "", "Path to the kubeconfig file (defaults to KUBECONFIG or ~/.kube/config)")
	cmd.Flags().StringVar(&kubeContext, "context", "", "Kubeconfig context to use (defaults to the current context)")
	cmd.Flags().Float32Var(&qpsLimit, "qps-limit", 20.0, "QPS limit for Kubernetes API calls (default: 20.0)")
	cmd.Flags().IntVar(&burstLimit, "burst-limit", 30, "Burst limit for Kubernetes API calls (default: 30)")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging (default: false)")
	cmd.Flags().BoolVar(&inCluster, "in-cluster", false, "Use in-cluster authentication (service account token) instead of kubeconfig (default: false)")

	// Safety flags
	cmd.Flags().BoolVar(&nonDestructiveMode, "non-destructive", false, "Block kill operations entirely (default: false)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Select and verify targets without executing kill commands (default: false)")
	cmd.Flags().StringSliceVar(&allowedOperations, "allowed-operations", nil, "Operations permitted even in non-destructive mode (e.g. kill)")
	cmd.Flags().StringSliceVar(&restrictedNamespaces, "restricted-namespaces", []string{"kube-system", "kube-public"}, "Namespaces that can never be targeted")

	// Transport flags
	cmd.Flags().StringVar(&transport, "transport", transportStdio, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&sseEndpoint, "sse-endpoint", "/sse", "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&messageEndpoint, "message-endpoint", "/message", "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&httpEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")

	// Metrics server flags
	cmd.Flags().BoolVar(&enableMetricsServer, "enable-metrics-server", false, "Serve Prometheus metrics on a dedicated port (requires instrumentation to be enabled)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Address for the dedicated metrics server")

	return cmd
}

// runServe contains the main server logic with support for multiple transports
func runServe(config ServeConfig) error {
	// Create Kubernetes client configuration
	var k8sLogger = &simpleLogger{}

	k8sConfig := k8s.ClientConfig{
		KubeconfigPath: config.KubeconfigPath,
		Context:        config.KubeContext,
		QPSLimit:       config.QPSLimit,
		BurstLimit:     config.BurstLimit,
		Timeout:        30 * time.Second,
		DebugMode:      config.DebugMode,
		InCluster:      config.InCluster,
		Logger:         k8sLogger,
	}

	// Setup graceful shutdown - listen for both SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize OpenTelemetry instrumentation provider
	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			if config.Transport != transportStdio {
				log.Printf("Error during instrumentation shutdown: %v", shutdownErr)
			}
		}
	}()

	if instrumentationProvider.Enabled() {
		log.Printf("OpenTelemetry instrumentation enabled (metrics: %s, tracing: %s)",
			instrumentationConfig.MetricsExporter, instrumentationConfig.TracingExporter)
	}

	// Create server context. Each tool invocation acquires its own cluster
	// session through the client factory and releases it when done.
	serverContext, err := server.NewServerContext(shutdownCtx,
		server.WithClientFactory(func(cfg *k8s.ClientConfig) (k8s.Client, error) {
			return k8s.NewClient(cfg)
		}),
		server.WithClientConfig(k8sConfig),
		server.WithLogger(k8sLogger),
		server.WithNonDestructiveMode(config.NonDestructiveMode),
		server.WithDryRun(config.DryRun),
		server.WithAllowedOperations(config.AllowedOperations),
		server.WithRestrictedNamespaces(config.RestrictedNamespaces),
		server.WithInstrumentationProvider(instrumentationProvider),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			// Only log shutdown errors for non-stdio transports to avoid output interference
			if config.Transport != transportStdio {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("mcp-chaos", rootCmd.Version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := chaos.RegisterChaosTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register chaos tools: %w", err)
	}

	// Start the appropriate server based on transport type
	switch config.Transport {
	case transportStdio:
		// Don't print startup message for stdio mode as it interferes with MCP communication
		return runStdioServer(mcpSrv)
	case transportSSE:
		fmt.Printf("Starting MCP chaos server with %s transport...\n", config.Transport)
		return runSSEServer(mcpSrv, config.HTTPAddr, config.SSEEndpoint, config.MessageEndpoint, shutdownCtx, config.DebugMode)
	case transportStreamableHTTP:
		fmt.Printf("Starting MCP chaos server with %s transport...\n", config.Transport)
		return runStreamableHTTPServer(mcpSrv, config.HTTPAddr, config.HTTPEndpoint, shutdownCtx, instrumentationProvider, serverContext, config.Metrics)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", config.Transport)
	}
}
