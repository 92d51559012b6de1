package chaos

import (
	"fmt"

	"github.com/giantswarm/mcp-chaos/internal/k8s"
)

// InsufficientPodsError reports that fewer candidate pods matched the
// selection criteria than the requested kill count. It is a deterministic
// precondition failure raised before any destructive action.
type InsufficientPodsError struct {
	Expected int
	Found    int
}

func (e *InsufficientPodsError) Error() string {
	return fmt.Sprintf("not enough pods match the criteria, expected %d but found only %d pods", e.Expected, e.Found)
}

// ContainerNotFoundError reports that the target container is absent from a
// candidate pod's spec. Killed records how many pods were already acted on
// in the same run; those kills are not rolled back.
type ContainerNotFoundError struct {
	Container string
	Pod       k8s.PodInfo
	Declared  []string
	Killed    int
}

func (e *ContainerNotFoundError) Error() string {
	return fmt.Sprintf("cannot find the specified container in the pods matching the label selector: container %q not declared by pod %s/%s",
		e.Container, e.Pod.Namespace, e.Pod.Name)
}
