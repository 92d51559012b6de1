package k8s

import (
	"context"
	"io"
)

// Client defines the cluster gateway used by the chaos orchestration core.
// It exposes exactly the three primitive operations the kill workflow needs:
// listing candidate pods, reading a pod's declared containers, and executing
// a command inside a container.
//
// A Client represents one authenticated cluster session. It is acquired for
// the duration of a single action invocation and must be released with Close
// on every exit path; nothing is cached or reused across invocations.
type Client interface {
	// ListPods lists namespace-scoped pods, optionally filtered by a label
	// selector expression. The returned order is the API server's canonical
	// listing order; no client-side sorting is applied.
	ListPods(ctx context.Context, namespace, labelSelector string) ([]PodInfo, error)

	// GetContainers fetches the pod spec and returns the declared container
	// names in spec order.
	GetContainers(ctx context.Context, namespace, podName string) ([]string, error)

	// Exec executes a command inside a pod container. When containerName is
	// empty the pod's default container is used.
	Exec(ctx context.Context, namespace, podName, containerName string, command []string, opts ExecOptions) (*ExecResult, error)

	// Close releases the cluster session.
	Close() error
}

// PodInfo identifies a candidate pod at selection time.
type PodInfo struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// ExecOptions configures command execution in pods.
// When Stdout/Stderr are nil the output is captured into the ExecResult.
type ExecOptions struct {
	Stdin  io.Reader `json:"-"`
	Stdout io.Writer `json:"-"`
	Stderr io.Writer `json:"-"`
	TTY    bool      `json:"tty,omitempty"`
}

// ExecResult contains the result of command execution.
type ExecResult struct {
	ExitCode int    `json:"exitCode"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
}

// Logger interface for client logging.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
