package kubectl

import (
	"context"
	"fmt"
	"sort"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// RunOptions configures Run.
type RunOptions struct {
	Namespace   string
	Labels      map[string]string
	Annotations map[string]string
	Env         map[string]string

	// Restart is the pod restart policy; defaults to Always.
	Restart corev1.RestartPolicy
}

var podGVR = schema.GroupVersionResource{Version: "v1", Resource: "pods"}

// Run creates a single-container pod from an image (similar to
// 'kubectl run'). Labels default to {"run": name} when none are given.
func (c *Client) Run(ctx context.Context, name, image string, opts RunOptions) (map[string]any, error) {
	if name == "" {
		return nil, ErrMissingResourceName
	}

	namespace := opts.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	labels := opts.Labels
	if len(labels) == 0 {
		labels = map[string]string{"run": name}
	}

	restart := opts.Restart
	if restart == "" {
		restart = corev1.RestartPolicyAlways
	}

	// Sorted for a deterministic container spec.
	envNames := make([]string, 0, len(opts.Env))
	for envName := range opts.Env {
		envNames = append(envNames, envName)
	}
	sort.Strings(envNames)

	env := make([]corev1.EnvVar, 0, len(envNames))
	for _, envName := range envNames {
		env = append(env, corev1.EnvVar{Name: envName, Value: opts.Env[envName]})
	}

	pod := &corev1.Pod{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Pod",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:        name,
			Namespace:   namespace,
			Labels:      labels,
			Annotations: opts.Annotations,
		},
		Spec: corev1.PodSpec{
			RestartPolicy: restart,
			Containers: []corev1.Container{
				{
					Name:  name,
					Image: image,
					Env:   env,
				},
			},
		},
	}

	c.logOperation("run", namespace, "pods", name)

	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(pod)
	if err != nil {
		return nil, fmt.Errorf("failed to convert pod to unstructured: %w", err)
	}

	dynamicClient, err := c.dyn()
	if err != nil {
		return nil, err
	}

	result, err := dynamicClient.Resource(podGVR).Namespace(namespace).Create(ctx, &unstructured.Unstructured{Object: content}, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to run pod %q: %w", name, err)
	}

	return resultBody(result.Object), nil
}
