package server

import (
	"context"
	"sync"
	"time"

	"github.com/giantswarm/mcp-chaos/internal/instrumentation"
	"github.com/giantswarm/mcp-chaos/internal/k8s"
)

// DefaultShutdownTimeout bounds graceful shutdown of the HTTP listeners.
const DefaultShutdownTimeout = 30 * time.Second

// ClientFactory builds a Kubernetes client from a client configuration.
// The server creates one client per tool invocation so that per-invocation
// overrides, such as an explicit kubeconfig path, take effect without
// leaking state across invocations.
type ClientFactory func(config *k8s.ClientConfig) (k8s.Client, error)

// ServerContext encapsulates all dependencies needed by the MCP server
// and provides a clean abstraction for dependency injection and lifecycle management.
type ServerContext struct {
	// Core dependencies
	clientFactory ClientFactory
	clientConfig  k8s.ClientConfig
	logger        Logger
	config        *Config

	// Observability
	provider *instrumentation.Provider
	metrics  *Metrics

	// Context management
	ctx    context.Context
	cancel context.CancelFunc

	// Lifecycle management
	mu       sync.RWMutex
	shutdown bool
}

// Metrics tracks operational counters for monitoring and health reporting.
type Metrics struct {
	RunsSucceeded    int64 // Chaos runs that completed successfully
	RunsFailed       int64 // Chaos runs that ended in a failure outcome
	ContainersKilled int64 // Containers killed across all runs

	mu sync.RWMutex
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordRun records the outcome of a single chaos run.
func (m *Metrics) RecordRun(success bool, killed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.RunsSucceeded++
	} else {
		m.RunsFailed++
	}
	m.ContainersKilled += int64(killed)
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() (succeeded, failed, killed int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RunsSucceeded, m.RunsFailed, m.ContainersKilled
}

// NewServerContext creates a new ServerContext with default values.
// Use the provided functional options to customize the context.
func NewServerContext(ctx context.Context, opts ...Option) (*ServerContext, error) {
	// Create a cancellable context
	serverCtx, cancel := context.WithCancel(ctx)

	// Initialize with defaults
	sc := &ServerContext{
		ctx:     serverCtx,
		cancel:  cancel,
		config:  NewDefaultConfig(),
		logger:  NewDefaultLogger(),
		metrics: NewMetrics(),
	}

	// Apply functional options
	for _, opt := range opts {
		if err := opt(sc); err != nil {
			cancel()
			return nil, err
		}
	}

	// Validate required dependencies
	if err := sc.validate(); err != nil {
		cancel()
		return nil, err
	}

	return sc, nil
}

// Context returns the server context for cancellation and deadlines.
func (sc *ServerContext) Context() context.Context {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.ctx
}

// NewK8sClient builds a Kubernetes client for a single tool invocation.
// When kubeconfigPath is non-empty it overrides the server's configured path.
// The caller owns the returned client and must Close it.
func (sc *ServerContext) NewK8sClient(kubeconfigPath string) (k8s.Client, error) {
	sc.mu.RLock()
	factory := sc.clientFactory
	config := sc.clientConfig
	sc.mu.RUnlock()

	if factory == nil {
		return nil, ErrMissingClientFactory
	}

	if kubeconfigPath != "" {
		config.KubeconfigPath = kubeconfigPath
		config.InCluster = false
	}
	return factory(&config)
}

// ClientConfig returns a copy of the base Kubernetes client configuration.
func (sc *ServerContext) ClientConfig() k8s.ClientConfig {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.clientConfig
}

// Metrics returns the metrics tracker.
func (sc *ServerContext) Metrics() *Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// InstrumentationProvider returns the OpenTelemetry provider, or nil when
// instrumentation is not configured.
func (sc *ServerContext) InstrumentationProvider() *instrumentation.Provider {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.provider
}

// Logger returns the logger interface.
func (sc *ServerContext) Logger() Logger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.logger
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config
}

// Shutdown gracefully shuts down the server context.
// This cancels the context and releases any resources.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.logger.Info("Shutting down server context")

	// Cancel the context
	if sc.cancel != nil {
		sc.cancel()
	}

	// Mark as shutdown
	sc.shutdown = true

	sc.logger.Info("Server context shutdown complete")
	return nil
}

// IsShutdown returns true if the server context has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// validate ensures all required dependencies are set.
func (sc *ServerContext) validate() error {
	if sc.clientFactory == nil {
		return ErrMissingClientFactory
	}
	if sc.logger == nil {
		return ErrMissingLogger
	}
	if sc.config == nil {
		return ErrMissingConfig
	}
	return nil
}

// Logger defines the interface for logging operations.
type Logger interface {
	// Info logs an informational message.
	Info(msg string, args ...interface{})

	// Debug logs a debug message.
	Debug(msg string, args ...interface{})

	// Warn logs a warning message.
	Warn(msg string, args ...interface{})

	// Error logs an error message.
	Error(msg string, args ...interface{})
}

// Config holds the server configuration.
type Config struct {
	// Server settings
	ServerName string `json:"serverName"`
	Version    string `json:"version"`

	// Kubernetes settings
	KubeConfigPath string `json:"kubeConfigPath"`
	DefaultContext string `json:"defaultContext"`

	// Non-destructive mode settings
	NonDestructiveMode bool `json:"nonDestructiveMode"`
	DryRun             bool `json:"dryRun"`

	// Logging settings
	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`

	// Security settings
	AllowedOperations    []string `json:"allowedOperations"`
	RestrictedNamespaces []string `json:"restrictedNamespaces"`
}

// NewDefaultConfig creates a configuration with sensible defaults.
// Kill operations run by default; enabling non-destructive mode blocks them
// unless explicitly whitelisted via AllowedOperations or dry-run is set.
func NewDefaultConfig() *Config {
	return &Config{
		ServerName:           "mcp-chaos",
		Version:              "0.1.0",
		NonDestructiveMode:   false,
		DryRun:               false,
		LogLevel:             "info",
		LogFormat:            "json",
		RestrictedNamespaces: []string{"kube-system", "kube-public"},
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c

	// Deep copy slices
	if c.AllowedOperations != nil {
		clone.AllowedOperations = make([]string, len(c.AllowedOperations))
		copy(clone.AllowedOperations, c.AllowedOperations)
	}

	if c.RestrictedNamespaces != nil {
		clone.RestrictedNamespaces = make([]string, len(c.RestrictedNamespaces))
		copy(clone.RestrictedNamespaces, c.RestrictedNamespaces)
	}

	return &clone
}
