package chaos

import (
	"context"
	"fmt"

	"github.com/giantswarm/mcp-chaos/internal/k8s"
)

// Verifier reads a pod's declared container set. It is a pure read, used
// once per candidate pod immediately before the kill attempt to keep the
// window between verification and use small. The two steps are separate
// round-trips, so the set can still change in between.
type Verifier struct {
	gateway Gateway
}

// NewVerifier creates a Verifier backed by the given gateway.
func NewVerifier(gateway Gateway) *Verifier {
	return &Verifier{gateway: gateway}
}

// ContainersOf returns the container names declared in the pod's spec.
func (v *Verifier) ContainersOf(ctx context.Context, pod k8s.PodInfo) ([]string, error) {
	containers, err := v.gateway.GetContainers(ctx, pod.Namespace, pod.Name)
	if err != nil {
		return nil, fmt.Errorf("reading containers of pod %s/%s: %w", pod.Namespace, pod.Name, err)
	}
	return containers, nil
}

// hasContainer reports whether name is among the declared containers.
func hasContainer(containers []string, name string) bool {
	for _, c := range containers {
		if c == name {
			return true
		}
	}
	return false
}
