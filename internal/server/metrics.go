package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/giantswarm/mcp-chaos/internal/instrumentation"
)

// DefaultMetricsAddr is the default listen address for the metrics server.
const DefaultMetricsAddr = ":9090"

// MetricsServerConfig configures the standalone metrics HTTP server.
type MetricsServerConfig struct {
	// Addr is the listen address. Defaults to DefaultMetricsAddr.
	Addr string

	// InstrumentationProvider supplies the Prometheus-backed metrics.
	InstrumentationProvider *instrumentation.Provider
}

// MetricsServer serves Prometheus metrics and a liveness endpoint on a
// dedicated listener, separate from the MCP transport.
type MetricsServer struct {
	addr     string
	provider *instrumentation.Provider

	mu     sync.Mutex
	server *http.Server
}

// NewMetricsServer creates a metrics server from the given config.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	if config.InstrumentationProvider == nil {
		return nil, errors.New("instrumentation provider is required")
	}

	addr := config.Addr
	if addr == "" {
		addr = DefaultMetricsAddr
	}

	return &MetricsServer{
		addr:     addr,
		provider: config.InstrumentationProvider,
	}, nil
}

// Addr returns the configured listen address.
func (s *MetricsServer) Addr() string {
	return s.addr
}

// Start runs the metrics server. It blocks until the server stops and
// returns http.ErrServerClosed after a clean Shutdown.
func (s *MetricsServer) Start() error {
	mux := http.NewServeMux()

	endpoint := s.provider.Config().PrometheusEndpoint
	if endpoint == "" {
		endpoint = "/metrics"
	}
	// The OpenTelemetry prometheus exporter registers against the default
	// registry, which promhttp.Handler serves.
	mux.Handle(endpoint, promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	return server.ListenAndServe()
}

// Shutdown gracefully stops the metrics server. Calling Shutdown before
// Start is a no-op.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}
