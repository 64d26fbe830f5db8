package kubectl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamelToSnake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple word", input: "metadata", expected: "metadata"},
		{name: "two words", input: "restartPolicy", expected: "restart_policy"},
		{name: "three words", input: "terminationGracePeriodSeconds", expected: "termination_grace_period_seconds"},
		{name: "leading acronym", input: "apiVersion", expected: "api_version"},
		{name: "capitalized acronym", input: "APIVersion", expected: "api_version"},
		{name: "trailing acronym", input: "podCIDR", expected: "pod_cidr"},
		{name: "embedded acronym", input: "externalTrafficPolicy", expected: "external_traffic_policy"},
		{name: "acronym before word", input: "hostIPC", expected: "host_ipc"},
		{name: "digit boundary", input: "ipv4Address", expected: "ipv4_address"},
		{name: "already snake", input: "restart_policy", expected: "restart_policy"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CamelToSnake(tt.input))
		})
	}
}

func TestSnakeToCamel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple word", input: "metadata", expected: "metadata"},
		{name: "two words", input: "restart_policy", expected: "restartPolicy"},
		{name: "three words", input: "termination_grace_period_seconds", expected: "terminationGracePeriodSeconds"},
		{name: "api version", input: "api_version", expected: "apiVersion"},
		{name: "acronym lowered", input: "pod_cidr", expected: "podCidr"},
		{name: "already camel untouched", input: "restartPolicy", expected: "restartPolicy"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SnakeToCamel(tt.input))
		})
	}
}

func TestSnakeCamelRoundTrip(t *testing.T) {
	// Snake names survive a snake -> camel -> snake round trip.
	for _, name := range []string{
		"restart_policy",
		"api_version",
		"pod_cidr",
		"image_pull_policy",
		"host_network",
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, CamelToSnake(SnakeToCamel(name)))
		})
	}
}

func TestCamelToSnakeMap(t *testing.T) {
	input := map[string]any{
		"apiVersion": "v1",
		"spec": map[string]any{
			"restartPolicy": "Never",
			"containers": []any{
				map[string]any{"imagePullPolicy": "Always"},
			},
		},
		"replicas": int64(3),
	}

	result := CamelToSnakeMap(input)

	assert.Equal(t, "v1", result["api_version"])
	spec := result["spec"].(map[string]any)
	assert.Equal(t, "Never", spec["restart_policy"])
	containers := spec["containers"].([]any)
	assert.Equal(t, "Always", containers[0].(map[string]any)["image_pull_policy"])
	assert.Equal(t, int64(3), result["replicas"])

	// The input map is not mutated.
	assert.Contains(t, input, "apiVersion")
	assert.NotContains(t, input, "api_version")
}

func TestSnakeToCamelMap(t *testing.T) {
	input := map[string]any{
		"api_version": "apps/v1",
		"spec": map[string]any{
			"restart_policy": "Never",
		},
	}

	result := SnakeToCamelMap(input)

	assert.Equal(t, "apps/v1", result["apiVersion"])
	assert.Equal(t, "Never", result["spec"].(map[string]any)["restartPolicy"])
}

func TestPrepareBodyKeepsDataVerbatim(t *testing.T) {
	body := map[string]any{
		"api_version": "v1",
		"kind":        "ConfigMap",
		"data": map[string]any{
			"config_file.yaml": "contents",
			"another_key":      "value",
		},
	}

	prepared := prepareBody(body)

	assert.Equal(t, "v1", prepared["apiVersion"])
	data := prepared["data"].(map[string]any)
	assert.Contains(t, data, "config_file.yaml")
	assert.Contains(t, data, "another_key")
}

func TestPrepareBodyPassesCamelManifests(t *testing.T) {
	// Manifests decoded from YAML already carry camelCase keys; preparing
	// them must be a no-op.
	body := map[string]any{
		"apiVersion": "v1",
		"spec": map[string]any{
			"restartPolicy": "Never",
		},
	}

	prepared := prepareBody(body)

	assert.Equal(t, "v1", prepared["apiVersion"])
	assert.Equal(t, "Never", prepared["spec"].(map[string]any)["restartPolicy"])
}

func TestResultBodyKeepsUserKeysVerbatim(t *testing.T) {
	body := map[string]any{
		"apiVersion": "v1",
		"metadata": map[string]any{
			"creationTimestamp": "2026-01-01T00:00:00Z",
			"annotations": map[string]any{
				"myCompany.io/someAnnotation": "x",
			},
			"labels": map[string]any{
				"appKind": "web",
			},
		},
		"data": map[string]any{
			"configFile": "contents",
		},
	}

	result := resultBody(body)

	assert.Equal(t, "v1", result["api_version"])
	metadata := result["metadata"].(map[string]any)
	assert.Equal(t, "2026-01-01T00:00:00Z", metadata["creation_timestamp"])
	assert.Contains(t, metadata["annotations"].(map[string]any), "myCompany.io/someAnnotation")
	assert.Contains(t, metadata["labels"].(map[string]any), "appKind")
	assert.Contains(t, result["data"].(map[string]any), "configFile")
}
