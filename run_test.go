package kubectl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	c, _ := newTestClient(t)

	result, err := c.Run(context.Background(), "web", "nginx:1.27", RunOptions{
		Env: map[string]string{"B_VAR": "2", "A_VAR": "1"},
	})
	require.NoError(t, err)

	metadata := result["metadata"].(map[string]any)
	assert.Equal(t, "web", metadata["name"])
	assert.Equal(t, "default", metadata["namespace"])
	assert.Equal(t, "web", metadata["labels"].(map[string]any)["run"])

	spec := result["spec"].(map[string]any)
	assert.Equal(t, "Always", spec["restart_policy"])

	container := spec["containers"].([]any)[0].(map[string]any)
	assert.Equal(t, "web", container["name"])
	assert.Equal(t, "nginx:1.27", container["image"])

	// Env vars come out sorted by name.
	env := container["env"].([]any)
	require.Len(t, env, 2)
	assert.Equal(t, "A_VAR", env[0].(map[string]any)["name"])
	assert.Equal(t, "B_VAR", env[1].(map[string]any)["name"])

	// The pod exists afterwards.
	_, err = c.Get(context.Background(), "pods", "web", GetOptions{})
	assert.NoError(t, err)
}

func TestRunOptions(t *testing.T) {
	c, _ := newTestClient(t)

	result, err := c.Run(context.Background(), "task", "busybox", RunOptions{
		Namespace: "batch-jobs",
		Labels:    map[string]string{"app": "task"},
		Restart:   "Never",
	})
	require.NoError(t, err)

	metadata := result["metadata"].(map[string]any)
	assert.Equal(t, "batch-jobs", metadata["namespace"])
	labels := metadata["labels"].(map[string]any)
	assert.Equal(t, "task", labels["app"])
	assert.NotContains(t, labels, "run")

	assert.Equal(t, "Never", result["spec"].(map[string]any)["restart_policy"])
}

func TestRunMissingName(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Run(context.Background(), "", "nginx", RunOptions{})
	assert.ErrorIs(t, err, ErrMissingResourceName)
}
