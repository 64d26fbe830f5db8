package kubectl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/remotecommand"

	"github.com/kubehelpers/kubectl-go/internal/logging"
)

// LogOptions configures Logs and StreamLogs.
type LogOptions struct {
	Namespace string

	// Container selects the container; defaults to the first container in
	// the pod spec. Init container names are accepted.
	Container string

	// Follow keeps a StreamLogs stream open as new lines arrive. Ignored
	// by Logs, which always reads to the end.
	Follow     bool
	Previous   bool
	Timestamps bool
	TailLines  *int64
}

// ExecOptions configures Exec.
type ExecOptions struct {
	Namespace string

	// Container selects the container; defaults to the first container in
	// the pod spec.
	Container string

	// Stdin is attached to the remote process when set.
	Stdin io.Reader

	// Stdout and Stderr receive the command output as it is produced.
	// When both are nil, Exec captures the output and returns it.
	Stdout io.Writer
	Stderr io.Writer

	TTY bool
}

// Logs retrieves a pod's logs (similar to 'kubectl logs') and returns them
// as a single string.
func (c *Client) Logs(ctx context.Context, pod string, opts LogOptions) (string, error) {
	stream, err := c.openLogStream(ctx, pod, opts, false)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	logs, err := io.ReadAll(stream)
	if err != nil {
		return "", fmt.Errorf("failed to read logs for pod %s/%s: %w", namespaceOrDefault(opts.Namespace), pod, err)
	}
	return string(logs), nil
}

// StreamLogs returns a pod's logs as a live stream (similar to
// 'kubectl logs --follow' when opts.Follow is set). The caller must close
// the returned stream.
func (c *Client) StreamLogs(ctx context.Context, pod string, opts LogOptions) (io.ReadCloser, error) {
	return c.openLogStream(ctx, pod, opts, opts.Follow)
}

func (c *Client) openLogStream(ctx context.Context, pod string, opts LogOptions, follow bool) (io.ReadCloser, error) {
	namespace := namespaceOrDefault(opts.Namespace)

	// Log requests accept init container names too.
	container, err := c.findContainer(ctx, namespace, pod, opts.Container, true)
	if err != nil {
		return nil, err
	}

	c.logPodOperation("logs", namespace, pod, container)

	clientset, err := c.kube()
	if err != nil {
		return nil, err
	}

	logOpts := &corev1.PodLogOptions{
		Container:  container,
		Follow:     follow,
		Previous:   opts.Previous,
		Timestamps: opts.Timestamps,
		TailLines:  opts.TailLines,
	}

	stream, err := clientset.CoreV1().Pods(namespace).GetLogs(pod, logOpts).Stream(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get logs for pod %s/%s: %w", namespace, pod, err)
	}
	return stream, nil
}

// Exec executes a command in a pod container (similar to 'kubectl exec').
// With no writers configured the combined stdout and stderr output is
// returned; callers that set opts.Stdout/opts.Stderr get the output live
// and an empty return string.
func (c *Client) Exec(ctx context.Context, pod string, command []string, opts ExecOptions) (string, error) {
	namespace := namespaceOrDefault(opts.Namespace)

	container, err := c.findContainer(ctx, namespace, pod, opts.Container, false)
	if err != nil {
		return "", err
	}

	c.logPodOperation("exec", namespace, pod, container)

	var captured bytes.Buffer
	stdout := opts.Stdout
	stderr := opts.Stderr
	capture := stdout == nil && stderr == nil
	if capture {
		stdout = &captured
		stderr = &captured
	}

	err = c.execStream(ctx, namespace, pod, container, command, opts.Stdin, stdout, stderr, opts.TTY)
	if err != nil {
		return "", err
	}

	if capture {
		return captured.String(), nil
	}
	return "", nil
}

// execStream runs a command over the pod exec subresource, wiring the given
// streams through a SPDY connection.
func (c *Client) execStream(ctx context.Context, namespace, pod, container string, command []string, stdin io.Reader, stdout, stderr io.Writer, tty bool) error {
	clientset, err := c.kube()
	if err != nil {
		return err
	}

	execReq := clientset.CoreV1().RESTClient().Post().
		Resource("pods").
		Name(pod).
		Namespace(namespace).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Container: container,
			Command:   command,
			Stdin:     stdin != nil,
			Stdout:    stdout != nil,
			Stderr:    stderr != nil,
			TTY:       tty,
		}, scheme.ParameterCodec)

	executor, err := remotecommand.NewSPDYExecutor(c.restConfig, http.MethodPost, execReq.URL())
	if err != nil {
		return fmt.Errorf("failed to create executor: %w", err)
	}

	err = executor.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Tty:    tty,
	})
	if err != nil {
		return fmt.Errorf("failed to execute command in pod %s/%s: %w", namespace, pod, err)
	}
	return nil
}

// findContainer reads the pod and validates the container choice. An empty
// container name selects the first container in the spec; a named container
// must exist in the spec (and, when includeInit is set, may also name an
// init container).
func (c *Client) findContainer(ctx context.Context, namespace, pod, container string, includeInit bool) (string, error) {
	clientset, err := c.kube()
	if err != nil {
		return "", err
	}

	podSpec, err := clientset.CoreV1().Pods(namespace).Get(ctx, pod, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return "", &NotFoundError{Resource: "pods", Name: pod, Namespace: namespace, Err: err}
		}
		return "", fmt.Errorf("failed to get pod %s/%s: %w", namespace, pod, err)
	}

	if container == "" {
		if len(podSpec.Spec.Containers) == 0 {
			return "", &InvalidContainerError{Pod: pod, Namespace: namespace, Container: container}
		}
		return podSpec.Spec.Containers[0].Name, nil
	}

	for _, candidate := range podSpec.Spec.Containers {
		if candidate.Name == container {
			return container, nil
		}
	}
	if includeInit {
		for _, candidate := range podSpec.Spec.InitContainers {
			if candidate.Name == container {
				return container, nil
			}
		}
	}

	return "", &InvalidContainerError{Pod: pod, Namespace: namespace, Container: container}
}

// logPodOperation logs a pod-level operation with the resolved container.
func (c *Client) logPodOperation(operation, namespace, pod, container string) {
	c.logger.Debug("kubernetes operation",
		logging.Operation(operation),
		logging.Namespace(namespace),
		logging.ResourceType("pods"),
		logging.ResourceName(pod),
		logging.Container(container),
	)
}

func namespaceOrDefault(namespace string) string {
	if namespace == "" {
		return DefaultNamespace
	}
	return namespace
}
