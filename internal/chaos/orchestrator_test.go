package chaos

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-chaos/internal/k8s"
)

// fakeGateway scripts the three gateway operations and records exec calls.
type fakeGateway struct {
	pods       []k8s.PodInfo
	containers map[string][]string // pod name -> declared containers
	listErr    error
	getErr     error
	execErr    error

	listCalls int
	execCalls []string // pod names, in execution order
}

func (g *fakeGateway) ListPods(ctx context.Context, namespace, labelSelector string) ([]k8s.PodInfo, error) {
	g.listCalls++
	if g.listErr != nil {
		return nil, g.listErr
	}
	out := make([]k8s.PodInfo, 0, len(g.pods))
	for _, pod := range g.pods {
		if pod.Namespace == namespace {
			out = append(out, pod)
		}
	}
	return out, nil
}

func (g *fakeGateway) GetContainers(ctx context.Context, namespace, podName string) ([]string, error) {
	if g.getErr != nil {
		return nil, g.getErr
	}
	containers, ok := g.containers[podName]
	if !ok {
		return nil, fmt.Errorf("pod %s/%s not found", namespace, podName)
	}
	return containers, nil
}

func (g *fakeGateway) Exec(ctx context.Context, namespace, podName, containerName string, command []string, opts k8s.ExecOptions) (*k8s.ExecResult, error) {
	g.execCalls = append(g.execCalls, podName)
	if g.execErr != nil {
		return nil, g.execErr
	}
	return &k8s.ExecResult{ExitCode: 0}, nil
}

func webGateway(podCount int) *fakeGateway {
	g := &fakeGateway{containers: map[string][]string{}}
	for i := 0; i < podCount; i++ {
		name := fmt.Sprintf("web-%d", i)
		g.pods = append(g.pods, k8s.PodInfo{Namespace: "chaos", Name: name})
		g.containers[name] = []string{"app", "sidecar"}
	}
	return g
}

func webSpec(kill int) TargetSpec {
	return TargetSpec{
		Namespace:     "chaos",
		LabelSelector: "app=web",
		ContainerName: "app",
		Command:       "kill 1",
		Kill:          kill,
	}
}

func TestRunSuccess(t *testing.T) {
	// Sufficient pods, container present: 3 candidates, kill 2.
	gateway := webGateway(3)
	orchestrator := NewOrchestrator(gateway)

	outcome := orchestrator.Run(context.Background(), webSpec(2))

	success, ok := outcome.(*Success)
	require.True(t, ok, "expected Success, got %#v", outcome)
	require.Len(t, success.Records, 2)
	assert.False(t, success.DryRun)

	// Records reference the first two pods in listing order.
	tokens := make([]int64, 0, len(success.Records))
	for token := range success.Records {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })

	assert.Equal(t, KillRecord{Namespace: "chaos", Name: "web-0", Container: "app"}, success.Records[tokens[0]])
	assert.Equal(t, KillRecord{Namespace: "chaos", Name: "web-1", Container: "app"}, success.Records[tokens[1]])
	assert.Equal(t, []string{"web-0", "web-1"}, gateway.execCalls)
}

func TestRunInsufficientPods(t *testing.T) {
	// kill=5 with only 2 matching pods: error before any exec call.
	gateway := webGateway(2)
	orchestrator := NewOrchestrator(gateway)

	outcome := orchestrator.Run(context.Background(), webSpec(5))

	failure, ok := outcome.(*Failure)
	require.True(t, ok, "expected Failure, got %#v", outcome)
	assert.Equal(t, "not enough pods match the criteria, expected 5 but found only 2 pods", failure.Message)
	assert.Zero(t, failure.Killed)
	assert.Empty(t, gateway.execCalls)
}

func TestRunContainerMissing(t *testing.T) {
	t.Run("first pod, zero execs", func(t *testing.T) {
		gateway := webGateway(1)
		gateway.containers["web-0"] = []string{"sidecar"}
		orchestrator := NewOrchestrator(gateway)

		outcome := orchestrator.Run(context.Background(), webSpec(1))

		failure, ok := outcome.(*Failure)
		require.True(t, ok)
		assert.Contains(t, failure.Message, "cannot find the specified container in the pods matching the label selector")
		assert.Contains(t, failure.Message, "web-0")
		assert.Zero(t, failure.Killed)
		assert.Empty(t, gateway.execCalls)
	})

	t.Run("pod at position j aborts after exactly j execs", func(t *testing.T) {
		gateway := webGateway(4)
		gateway.containers["web-2"] = []string{"sidecar"}
		orchestrator := NewOrchestrator(gateway)

		outcome := orchestrator.Run(context.Background(), webSpec(4))

		failure, ok := outcome.(*Failure)
		require.True(t, ok)
		// Kills on web-0 and web-1 happened and are reported, not rolled back.
		assert.Equal(t, 2, failure.Killed)
		assert.Equal(t, []string{"web-0", "web-1"}, gateway.execCalls)
	})
}

func TestRunListFailure(t *testing.T) {
	gateway := webGateway(3)
	gateway.listErr = errors.New("the server reported a conflict (503 Service Unavailable)")
	orchestrator := NewOrchestrator(gateway)

	outcome := orchestrator.Run(context.Background(), webSpec(1))

	failure, ok := outcome.(*Failure)
	require.True(t, ok)
	assert.Contains(t, failure.Message, "503 Service Unavailable")
	assert.Empty(t, gateway.execCalls)
}

func TestRunExecFailure(t *testing.T) {
	gateway := webGateway(3)
	gateway.execErr = errors.New("error dialing backend: EOF")
	orchestrator := NewOrchestrator(gateway)

	outcome := orchestrator.Run(context.Background(), webSpec(2))

	failure, ok := outcome.(*Failure)
	require.True(t, ok)
	assert.Contains(t, failure.Message, "error dialing backend")
	// The first exec already failed, so nothing was recorded as killed.
	assert.Zero(t, failure.Killed)
	assert.Equal(t, []string{"web-0"}, gateway.execCalls)
}

func TestRunVerifyFailureMidRun(t *testing.T) {
	gateway := webGateway(3)
	delete(gateway.containers, "web-1")
	orchestrator := NewOrchestrator(gateway)

	outcome := orchestrator.Run(context.Background(), webSpec(3))

	failure, ok := outcome.(*Failure)
	require.True(t, ok)
	assert.Equal(t, 1, failure.Killed)
	assert.Equal(t, []string{"web-0"}, gateway.execCalls)
}

func TestRunInvalidSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    TargetSpec
		wantMsg string
	}{
		{
			name:    "missing namespace",
			spec:    TargetSpec{LabelSelector: "app=web", Kill: 1},
			wantMsg: "namespace is required",
		},
		{
			name:    "missing selection predicate",
			spec:    TargetSpec{Namespace: "chaos", Kill: 1},
			wantMsg: "either labelSelector or namePattern is required",
		},
		{
			name:    "both selection predicates",
			spec:    TargetSpec{Namespace: "chaos", LabelSelector: "app=web", NamePattern: "web-.*", Kill: 1},
			wantMsg: "mutually exclusive",
		},
		{
			name:    "negative kill count",
			spec:    TargetSpec{Namespace: "chaos", LabelSelector: "app=web", Kill: -1},
			wantMsg: "kill must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := webGateway(3)
			outcome := NewOrchestrator(gateway).Run(context.Background(), tt.spec)

			failure, ok := outcome.(*Failure)
			require.True(t, ok)
			assert.Contains(t, failure.Message, tt.wantMsg)
			assert.Zero(t, gateway.listCalls, "invalid specs must not reach the cluster")
			assert.Empty(t, gateway.execCalls)
		})
	}
}

func TestRunDefaults(t *testing.T) {
	gateway := webGateway(1)
	orchestrator := NewOrchestrator(gateway)

	// Command and kill count fall back to "kill 1" and 1.
	outcome := orchestrator.Run(context.Background(), TargetSpec{
		Namespace:     "chaos",
		LabelSelector: "app=web",
		ContainerName: "app",
	})

	success, ok := outcome.(*Success)
	require.True(t, ok)
	assert.Len(t, success.Records, 1)
	assert.Equal(t, []string{"web-0"}, gateway.execCalls)
}

func TestRunDryRun(t *testing.T) {
	gateway := webGateway(3)
	orchestrator := NewOrchestrator(gateway, WithDryRun(true))

	outcome := orchestrator.Run(context.Background(), webSpec(2))

	success, ok := outcome.(*Success)
	require.True(t, ok)
	assert.True(t, success.DryRun)
	assert.Len(t, success.Records, 2)
	assert.Empty(t, gateway.execCalls, "dry-run must not exec")
}

func TestTokenUniqueness(t *testing.T) {
	t.Run("frozen clock still yields unique tokens", func(t *testing.T) {
		frozen := time.Unix(1700000000, 0)
		gateway := webGateway(50)
		orchestrator := NewOrchestrator(gateway, withClock(func() time.Time { return frozen }))

		outcome := orchestrator.Run(context.Background(), webSpec(50))

		success, ok := outcome.(*Success)
		require.True(t, ok)
		assert.Len(t, success.Records, 50, "token collisions would shrink the record map")
	})

	t.Run("tokens increase in execution order", func(t *testing.T) {
		gateway := webGateway(10)
		orchestrator := NewOrchestrator(gateway)

		outcome := orchestrator.Run(context.Background(), webSpec(10))
		success, ok := outcome.(*Success)
		require.True(t, ok)

		tokens := make([]int64, 0, len(success.Records))
		for token := range success.Records {
			tokens = append(tokens, token)
		}
		sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })

		for i, token := range tokens {
			assert.Equal(t, fmt.Sprintf("web-%d", i), success.Records[token].Name)
		}
	})
}

func TestRunRecoversFromPanic(t *testing.T) {
	orchestrator := NewOrchestrator(panickingGateway{})

	outcome := orchestrator.Run(context.Background(), webSpec(1))

	failure, ok := outcome.(*Failure)
	require.True(t, ok)
	assert.Contains(t, failure.Message, "unexpected failure")
}

type panickingGateway struct{}

func (panickingGateway) ListPods(ctx context.Context, namespace, labelSelector string) ([]k8s.PodInfo, error) {
	panic("malformed API response")
}

func (panickingGateway) GetContainers(ctx context.Context, namespace, podName string) ([]string, error) {
	panic("malformed API response")
}

func (panickingGateway) Exec(ctx context.Context, namespace, podName, containerName string, command []string, opts k8s.ExecOptions) (*k8s.ExecResult, error) {
	panic("malformed API response")
}
