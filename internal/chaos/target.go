package chaos

import (
	"fmt"
	"regexp"
)

// Default values for optional target fields, matching the tool's schema.
const (
	DefaultCommand = "kill 1"
	DefaultKill    = 1
)

// TargetSpec describes which pods and container to select for killing and
// how many pods to act on. Exactly one of LabelSelector and NamePattern must
// be set.
type TargetSpec struct {
	// Namespace is the target pod namespace.
	Namespace string `json:"namespace"`

	// ContainerName is the target container in each selected pod. A pod
	// whose spec does not declare this container aborts the run.
	ContainerName string `json:"containerName,omitempty"`

	// Command is the kill command executed through a shell inside the
	// container, for example "kill 1" or "kill 9".
	Command string `json:"command,omitempty"`

	// Kill is how many pods to act on.
	Kill int `json:"kill,omitempty"`

	// LabelSelector is a Kubernetes label selector for the target pods.
	LabelSelector string `json:"labelSelector,omitempty"`

	// NamePattern is a regular expression matched against pod names,
	// filtered client-side over the full namespace listing.
	NamePattern string `json:"namePattern,omitempty"`
}

// ApplyDefaults fills in the documented defaults for unset optional fields.
func (s *TargetSpec) ApplyDefaults() {
	if s.Command == "" {
		s.Command = DefaultCommand
	}
	if s.Kill == 0 {
		s.Kill = DefaultKill
	}
}

// Validate checks the target invariants: namespace present, exactly one
// selection predicate, kill count at least one, and a compilable name
// pattern when that selection mode is used.
func (s *TargetSpec) Validate() error {
	if s.Namespace == "" {
		return fmt.Errorf("namespace is required")
	}
	if s.LabelSelector == "" && s.NamePattern == "" {
		return fmt.Errorf("either labelSelector or namePattern is required")
	}
	if s.LabelSelector != "" && s.NamePattern != "" {
		return fmt.Errorf("labelSelector and namePattern are mutually exclusive")
	}
	if s.Kill < 1 {
		return fmt.Errorf("kill must be at least 1, got %d", s.Kill)
	}
	if s.Command == "" {
		return fmt.Errorf("command is required")
	}
	if s.NamePattern != "" {
		if _, err := regexp.Compile(s.NamePattern); err != nil {
			return fmt.Errorf("invalid namePattern: %w", err)
		}
	}
	return nil
}
