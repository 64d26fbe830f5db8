package kubectl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

func podMetrics(name, namespace string) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "metrics.k8s.io/v1beta1",
		"kind":       "PodMetrics",
		"metadata": map[string]any{
			"name":      name,
			"namespace": namespace,
		},
		"containers": []any{
			map[string]any{
				"name": "app",
				"usage": map[string]any{
					"cpu":    "12m",
					"memory": "48Mi",
				},
			},
		},
	}}
}

func nodeMetrics(name string) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "metrics.k8s.io/v1beta1",
		"kind":       "NodeMetrics",
		"metadata": map[string]any{
			"name": name,
		},
		"usage": map[string]any{
			"cpu":    "250m",
			"memory": "2Gi",
		},
	}}
}

func TestTopPods(t *testing.T) {
	c := newMetricsTestClient(t, podMetrics("web", "default"))

	items, err := c.Top(context.Background(), "pods", GetOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "web", items[0]["metadata"].(map[string]any)["name"])
	container := items[0]["containers"].([]any)[0].(map[string]any)
	assert.Equal(t, "12m", container["usage"].(map[string]any)["cpu"])
}

func TestTopNodes(t *testing.T) {
	c := newMetricsTestClient(t, nodeMetrics("worker-1"))

	items, err := c.Top(context.Background(), "nodes", GetOptions{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "worker-1", items[0]["metadata"].(map[string]any)["name"])
	assert.Equal(t, "2Gi", items[0]["usage"].(map[string]any)["memory"])
}

func TestTopAliases(t *testing.T) {
	c := newMetricsTestClient(t, podMetrics("web", "default"))

	for _, alias := range []string{"pod", "pods"} {
		t.Run(alias, func(t *testing.T) {
			items, err := c.Top(context.Background(), alias, GetOptions{})
			require.NoError(t, err)
			assert.Len(t, items, 1)
		})
	}
}

func TestTopUnsupportedType(t *testing.T) {
	c := newMetricsTestClient(t)

	// Only the four spelled-out pod/node forms are accepted; the usual
	// kubectl short names are not.
	for _, obj := range []string{"services", "po", "no", "deploy", ""} {
		t.Run("rejects "+obj, func(t *testing.T) {
			_, err := c.Top(context.Background(), obj, GetOptions{})
			assert.ErrorIs(t, err, ErrUnknownResourceType)
		})
	}
}
