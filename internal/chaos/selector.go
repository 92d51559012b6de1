package chaos

import (
	"context"
	"fmt"
	"regexp"

	"github.com/giantswarm/mcp-chaos/internal/k8s"
)

// Gateway is the slice of the cluster client the chaos workflow consumes.
// k8s.Client satisfies it; tests supply fakes.
type Gateway interface {
	ListPods(ctx context.Context, namespace, labelSelector string) ([]k8s.PodInfo, error)
	GetContainers(ctx context.Context, namespace, podName string) ([]string, error)
	Exec(ctx context.Context, namespace, podName, containerName string, command []string, opts k8s.ExecOptions) (*k8s.ExecResult, error)
}

// Selector resolves a target's selection predicate into an ordered sequence
// of candidate pods.
type Selector struct {
	gateway Gateway
}

// NewSelector creates a Selector backed by the given gateway.
func NewSelector(gateway Gateway) *Selector {
	return &Selector{gateway: gateway}
}

// Select returns the candidate pods for the target, in the API server's
// listing order. Label-selector filtering is delegated to the API server;
// name-pattern filtering lists the whole namespace and matches client-side.
// An empty result is a valid empty sequence, not an error.
func (s *Selector) Select(ctx context.Context, spec *TargetSpec) ([]k8s.PodInfo, error) {
	if spec.LabelSelector != "" {
		pods, err := s.gateway.ListPods(ctx, spec.Namespace, spec.LabelSelector)
		if err != nil {
			return nil, fmt.Errorf("selecting pods by label selector %q: %w", spec.LabelSelector, err)
		}
		return pods, nil
	}

	re, err := regexp.Compile(spec.NamePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid namePattern: %w", err)
	}

	pods, err := s.gateway.ListPods(ctx, spec.Namespace, "")
	if err != nil {
		return nil, fmt.Errorf("selecting pods by name pattern %q: %w", spec.NamePattern, err)
	}

	matched := make([]k8s.PodInfo, 0, len(pods))
	for _, pod := range pods {
		if re.MatchString(pod.Name) {
			matched = append(matched, pod)
		}
	}
	return matched, nil
}
