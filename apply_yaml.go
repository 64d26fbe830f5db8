package kubectl

import (
	"context"
	"fmt"

	"sigs.k8s.io/yaml"
)

// ApplyManifest decodes a single-document YAML (or JSON) manifest and
// applies it (similar to 'kubectl apply -f').
func (c *Client) ApplyManifest(ctx context.Context, manifest []byte, opts ApplyOptions) (map[string]any, error) {
	var body map[string]any
	if err := yaml.Unmarshal(manifest, &body); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return c.Apply(ctx, body, opts)
}
