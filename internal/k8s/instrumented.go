package k8s

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/giantswarm/mcp-chaos/internal/instrumentation"
)

// instrumentedClient decorates a Client with a span and a duration metric
// around each gateway operation. Close is delegated untouched.
type instrumentedClient struct {
	inner    Client
	provider *instrumentation.Provider
}

// NewInstrumentedClient wraps client so every gateway call is traced and its
// duration recorded. A nil or disabled provider skips the metrics; the spans
// are no-ops under the default tracer.
func NewInstrumentedClient(client Client, provider *instrumentation.Provider) Client {
	return &instrumentedClient{inner: client, provider: provider}
}

func (c *instrumentedClient) ListPods(ctx context.Context, namespace, labelSelector string) ([]PodInfo, error) {
	ctx, span := instrumentation.StartK8sSpan(ctx, "list", namespace)
	defer span.End()

	start := time.Now()
	pods, err := c.inner.ListPods(ctx, namespace, labelSelector)
	c.finish(ctx, span, "list", start, err)
	return pods, err
}

func (c *instrumentedClient) GetContainers(ctx context.Context, namespace, podName string) ([]string, error) {
	ctx, span := instrumentation.StartK8sSpan(ctx, "get", namespace)
	defer span.End()

	start := time.Now()
	containers, err := c.inner.GetContainers(ctx, namespace, podName)
	c.finish(ctx, span, "get", start, err)
	return containers, err
}

func (c *instrumentedClient) Exec(ctx context.Context, namespace, podName, containerName string, command []string, opts ExecOptions) (*ExecResult, error) {
	ctx, span := instrumentation.StartK8sSpan(ctx, "exec", namespace)
	defer span.End()

	start := time.Now()
	result, err := c.inner.Exec(ctx, namespace, podName, containerName, command, opts)
	c.finish(ctx, span, "exec", start, err)
	return result, err
}

func (c *instrumentedClient) Close() error {
	return c.inner.Close()
}

// finish records the span status and the operation duration metric.
func (c *instrumentedClient) finish(ctx context.Context, span trace.Span, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	if c.provider != nil && c.provider.Enabled() {
		c.provider.Metrics().RecordK8sOperation(ctx, operation, status, time.Since(start))
	}
}
