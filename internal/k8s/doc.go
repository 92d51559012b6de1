// Package k8s provides the cluster gateway used by the chaos action.
//
// This package defines the narrow Client interface the kill workflow needs
// and its client-go backed implementation:
//
//   - ListPods: list candidate pods in a namespace, optionally filtered by a
//     label selector, in the API server's listing order
//   - GetContainers: read a pod's declared container names from its spec
//   - Exec: run a command inside a container over the SPDY remote-execution
//     channel, capturing stdout/stderr
//
// A Client is one authenticated cluster session, built either from a
// kubeconfig file (explicit path, KUBECONFIG, or the default loading rules)
// or from the in-cluster service account. It is constructed per action
// invocation and released with Close on every exit path; nothing persists
// across invocations.
//
// Example usage:
//
//	client, err := k8s.NewClient(&k8s.ClientConfig{KubeconfigPath: path})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	pods, err := client.ListPods(ctx, "chaos", "app=web")
//	if err != nil {
//		return err
//	}
//
//	result, err := client.Exec(ctx, "chaos", pods[0].Name, "app",
//		k8s.ShellCommand("bash", "kill 1"), k8s.ExecOptions{})
package k8s
