package k8s

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	utilexec "k8s.io/client-go/util/exec"

	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/remotecommand"
)

// ListPods lists namespace-scoped pods, optionally filtered by a label
// selector. Ordering is whatever the API server returns for the list call.
func (c *kubernetesClient) ListPods(ctx context.Context, namespace, labelSelector string) ([]PodInfo, error) {
	c.logOperation("list-pods", namespace, "")

	listOpts := metav1.ListOptions{}
	if labelSelector != "" {
		listOpts.LabelSelector = labelSelector
	}

	podList, err := c.clientset.CoreV1().Pods(namespace).List(ctx, listOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pods in namespace %s: %w", namespace, err)
	}

	pods := make([]PodInfo, 0, len(podList.Items))
	for _, pod := range podList.Items {
		pods = append(pods, PodInfo{Namespace: pod.Namespace, Name: pod.Name})
	}
	return pods, nil
}

// GetContainers fetches the pod spec and returns the declared container names
// in spec order.
func (c *kubernetesClient) GetContainers(ctx context.Context, namespace, podName string) ([]string, error) {
	c.logOperation("get-containers", namespace, podName)

	pod, err := c.clientset.CoreV1().Pods(namespace).Get(ctx, podName, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get pod %s/%s: %w", namespace, podName, err)
	}

	containers := make([]string, 0, len(pod.Spec.Containers))
	for _, container := range pod.Spec.Containers {
		containers = append(containers, container.Name)
	}
	return containers, nil
}

// ShellCommand wraps a command string for non-interactive execution through a
// shell, matching "kubectl exec -- <shell> -c <command>".
func ShellCommand(shell, command string) []string {
	if shell == "" {
		shell = DefaultShell
	}
	return []string{shell, "-c", command}
}

// Exec executes a command inside a pod container over the API server's SPDY
// remote-execution channel. Stdout and stderr are captured into the result
// unless explicit writers are supplied. A non-zero remote exit is returned as
// an error carrying the exit code and captured stderr.
func (c *kubernetesClient) Exec(ctx context.Context, namespace, podName, containerName string, command []string, opts ExecOptions) (*ExecResult, error) {
	c.logOperation("exec", namespace, podName)

	if len(command) == 0 {
		return nil, fmt.Errorf("command is required")
	}

	var stdout, stderr bytes.Buffer
	stdoutW := opts.Stdout
	stderrW := opts.Stderr
	if stdoutW == nil {
		stdoutW = &stdout
	}
	if stderrW == nil {
		stderrW = &stderr
	}

	execReq := c.clientset.CoreV1().RESTClient().Post().
		Resource("pods").
		Name(podName).
		Namespace(namespace).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Container: containerName,
			Command:   command,
			Stdin:     opts.Stdin != nil,
			Stdout:    true,
			Stderr:    true,
			TTY:       opts.TTY,
		}, scheme.ParameterCodec)

	exec, err := remotecommand.NewSPDYExecutor(c.restConfig, http.MethodPost, execReq.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to create executor: %w", err)
	}

	streamOpts := remotecommand.StreamOptions{
		Stdin:  opts.Stdin,
		Stdout: stdoutW,
		Stderr: stderrW,
		Tty:    opts.TTY,
	}

	err = exec.StreamWithContext(ctx, streamOpts)
	if err != nil {
		var exitErr utilexec.CodeExitError
		if errors.As(err, &exitErr) {
			msg := fmt.Sprintf("command in pod %s/%s exited with code %d", namespace, podName, exitErr.Code)
			if s := strings.TrimSpace(stderr.String()); s != "" {
				msg = fmt.Sprintf("%s: %s", msg, s)
			}
			return nil, fmt.Errorf("%s: %w", msg, err)
		}
		return nil, fmt.Errorf("failed to execute command in pod %s/%s: %w", namespace, podName, err)
	}

	return &ExecResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}
