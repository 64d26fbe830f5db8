package kubectl

import (
	"context"
	"fmt"
)

// Top returns resource usage metrics for pods or nodes (similar to
// 'kubectl top'). Only "pod", "pods", "node" and "nodes" are accepted.
// The cluster must run a metrics server exposing the metrics.k8s.io API.
func (c *Client) Top(ctx context.Context, obj string, opts GetOptions) ([]map[string]any, error) {
	var metricsType string
	switch obj {
	case "pod", "pods":
		metricsType = "podmetrics"
	case "node", "nodes":
		metricsType = "nodemetrics"
	default:
		return nil, fmt.Errorf("%w: top supports pods and nodes, got %q", ErrUnknownResourceType, obj)
	}

	c.logOperation("top", opts.Namespace, metricsType, "")

	return c.List(ctx, metricsType, opts)
}
