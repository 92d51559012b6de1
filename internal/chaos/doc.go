// Package chaos implements the pod/container selection-and-kill workflow.
//
// Given a target description (namespace, a label selector or pod name
// pattern, a container name, a kill command and a pod count), the
// orchestrator selects candidate pods through the cluster gateway, verifies
// the target container exists in each, executes the kill command inside it,
// and produces a tagged outcome: success with a token-keyed record of every
// container acted upon, or an error with a diagnostic message and the number
// of kills performed before the failure.
//
// The run is strictly sequential: pods are processed one at a time in the
// API server's listing order, no operation is retried, and the first
// unrecoverable condition aborts the batch. Kills already performed are not
// rolled back; the error payload reports how many happened.
//
// Container verification and command execution are separate API round-trips,
// so a pod's container set can change between the two. This is a documented
// best-effort guarantee, not a strict invariant; the workflow neither locks
// nor re-verifies atomically.
package chaos
