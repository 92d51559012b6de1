package chaos

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chaoscore "github.com/giantswarm/mcp-chaos/internal/chaos"
	"github.com/giantswarm/mcp-chaos/internal/k8s"
	"github.com/giantswarm/mcp-chaos/internal/server"
)

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...interface{}) {}
func (noopLogger) Info(msg string, args ...interface{})  {}
func (noopLogger) Warn(msg string, args ...interface{})  {}
func (noopLogger) Error(msg string, args ...interface{}) {}

// fakeClient is a scriptable cluster session for handler tests.
type fakeClient struct {
	pods       []k8s.PodInfo
	listErr    error
	containers map[string][]string
	execErr    error
	execCalls  []string
	closed     bool
}

func (f *fakeClient) ListPods(ctx context.Context, namespace, labelSelector string) ([]k8s.PodInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.pods, nil
}

func (f *fakeClient) GetContainers(ctx context.Context, namespace, podName string) ([]string, error) {
	if containers, ok := f.containers[podName]; ok {
		return containers, nil
	}
	return []string{"app"}, nil
}

func (f *fakeClient) Exec(ctx context.Context, namespace, podName, containerName string, command []string, opts k8s.ExecOptions) (*k8s.ExecResult, error) {
	if f.execErr != nil {
		return nil, f.execErr
	}
	f.execCalls = append(f.execCalls, podName)
	return &k8s.ExecResult{ExitCode: 0}, nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func newHandlerTestContext(t *testing.T, client *fakeClient, opts ...server.Option) *server.ServerContext {
	t.Helper()

	all := append([]server.Option{
		server.WithClientFactory(func(config *k8s.ClientConfig) (k8s.Client, error) {
			return client, nil
		}),
		server.WithLogger(noopLogger{}),
	}, opts...)

	sc, err := server.NewServerContext(context.Background(), all...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func callKillContainers(t *testing.T, sc *server.ServerContext, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()

	request := mcp.CallToolRequest{}
	request.Params.Arguments = args

	result, err := handleKillContainers(context.Background(), request, sc)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent in result, got %T", result.Content[0])
	return textContent.Text
}

func TestHandleKillContainers_MissingNamespace(t *testing.T) {
	sc := newHandlerTestContext(t, &fakeClient{})

	result := callKillContainers(t, sc, map[string]interface{}{
		"labelSelector": "app=web",
	})

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "namespace is required")
}

func TestHandleKillContainers_ExplicitKillZero(t *testing.T) {
	client := &fakeClient{pods: []k8s.PodInfo{{Namespace: "default", Name: "web-1"}}}
	sc := newHandlerTestContext(t, client)

	result := callKillContainers(t, sc, map[string]interface{}{
		"namespace":     "default",
		"labelSelector": "app=web",
		"kill":          float64(0),
	})

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "kill must be at least 1")
	assert.Empty(t, client.execCalls, "an explicit zero must not be coerced to the default")
}

func TestHandleKillContainers_NonDestructiveMode(t *testing.T) {
	client := &fakeClient{pods: []k8s.PodInfo{{Namespace: "default", Name: "web-1"}}}
	sc := newHandlerTestContext(t, client,
		server.WithNonDestructiveMode(true),
		server.WithDryRun(false),
	)

	result := callKillContainers(t, sc, map[string]interface{}{
		"namespace":     "default",
		"labelSelector": "app=web",
	})

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "not allowed in non-destructive mode")
	assert.Empty(t, client.execCalls, "no command may run when the operation is blocked")
}

func TestHandleKillContainers_RestrictedNamespace(t *testing.T) {
	client := &fakeClient{}
	sc := newHandlerTestContext(t, client)

	result := callKillContainers(t, sc, map[string]interface{}{
		"namespace":     "kube-system",
		"labelSelector": "k8s-app=kube-dns",
	})

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "restricted")
	assert.Empty(t, client.execCalls)
}

func TestHandleKillContainers_FactoryError(t *testing.T) {
	sc, err := server.NewServerContext(context.Background(),
		server.WithClientFactory(func(config *k8s.ClientConfig) (k8s.Client, error) {
			return nil, errors.New("connection refused")
		}),
		server.WithLogger(noopLogger{}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	result := callKillContainers(t, sc, map[string]interface{}{
		"namespace":     "default",
		"labelSelector": "app=web",
	})

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Failed to connect to cluster")
}

func TestHandleKillContainers_Success(t *testing.T) {
	client := &fakeClient{
		pods: []k8s.PodInfo{
			{Namespace: "default", Name: "web-1"},
			{Namespace: "default", Name: "web-2"},
			{Namespace: "default", Name: "web-3"},
		},
	}
	sc := newHandlerTestContext(t, client)

	result := callKillContainers(t, sc, map[string]interface{}{
		"namespace":     "default",
		"containerName": "app",
		"labelSelector": "app=web",
		"kill":          float64(2),
	})

	assert.False(t, result.IsError)
	assert.True(t, client.closed, "the cluster session must be released")
	assert.Equal(t, []string{"web-1", "web-2"}, client.execCalls)

	var payload chaoscore.SuccessPayload
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
	assert.Len(t, payload.Containers, 2)
	for _, record := range payload.Containers {
		assert.Equal(t, "default", record.Namespace)
		assert.Equal(t, "app", record.Container)
	}

	succeeded, failed, killed := sc.Metrics().Snapshot()
	assert.Equal(t, int64(1), succeeded)
	assert.Equal(t, int64(0), failed)
	assert.Equal(t, int64(2), killed)
}

func TestHandleKillContainers_DryRun(t *testing.T) {
	client := &fakeClient{
		pods: []k8s.PodInfo{{Namespace: "default", Name: "web-1"}},
	}
	sc := newHandlerTestContext(t, client, server.WithDryRun(true))

	result := callKillContainers(t, sc, map[string]interface{}{
		"namespace":     "default",
		"labelSelector": "app=web",
	})

	assert.False(t, result.IsError)
	assert.Empty(t, client.execCalls, "dry-run must not execute commands")

	var payload chaoscore.SuccessPayload
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
	assert.True(t, payload.DryRun)
	assert.Len(t, payload.Containers, 1)
}

func TestHandleKillContainers_InsufficientPods(t *testing.T) {
	client := &fakeClient{
		pods: []k8s.PodInfo{{Namespace: "default", Name: "web-1"}},
	}
	sc := newHandlerTestContext(t, client)

	result := callKillContainers(t, sc, map[string]interface{}{
		"namespace":     "default",
		"labelSelector": "app=web",
		"kill":          float64(3),
	})

	assert.True(t, result.IsError)
	assert.True(t, client.closed)

	var payload chaoscore.FailurePayload
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
	assert.Contains(t, payload.Error, "not enough pods match the criteria")
	assert.Equal(t, 0, payload.Killed)

	succeeded, failed, _ := sc.Metrics().Snapshot()
	assert.Equal(t, int64(0), succeeded)
	assert.Equal(t, int64(1), failed)
}

func TestHandleKillContainers_ContainerNotFound(t *testing.T) {
	client := &fakeClient{
		pods: []k8s.PodInfo{
			{Namespace: "default", Name: "web-1"},
			{Namespace: "default", Name: "web-2"},
		},
		containers: map[string][]string{
			"web-1": {"app", "sidecar"},
			"web-2": {"app"},
		},
	}
	sc := newHandlerTestContext(t, client)

	result := callKillContainers(t, sc, map[string]interface{}{
		"namespace":     "default",
		"containerName": "sidecar",
		"labelSelector": "app=web",
		"kill":          float64(2),
	})

	assert.True(t, result.IsError)
	assert.Equal(t, []string{"web-1"}, client.execCalls)

	var payload chaoscore.FailurePayload
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
	assert.Contains(t, payload.Error, "cannot find the specified container")
	assert.Equal(t, 1, payload.Killed)
}

func TestHandleKillContainers_NamePattern(t *testing.T) {
	client := &fakeClient{
		pods: []k8s.PodInfo{
			{Namespace: "default", Name: "web-1"},
			{Namespace: "default", Name: "worker-1"},
		},
	}
	sc := newHandlerTestContext(t, client)

	result := callKillContainers(t, sc, map[string]interface{}{
		"namespace":   "default",
		"namePattern": "^worker-",
	})

	assert.False(t, result.IsError)
	assert.Equal(t, []string{"worker-1"}, client.execCalls)
}

func TestHandleKillContainers_SelectorConflict(t *testing.T) {
	sc := newHandlerTestContext(t, &fakeClient{})

	result := callKillContainers(t, sc, map[string]interface{}{
		"namespace":     "default",
		"labelSelector": "app=web",
		"namePattern":   "^web-",
	})

	assert.True(t, result.IsError)

	var payload chaoscore.FailurePayload
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
	assert.Contains(t, payload.Error, "labelSelector and namePattern")
}
