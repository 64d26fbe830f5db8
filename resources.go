package kubectl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"
)

// GetOptions configures Get, List and Top.
type GetOptions struct {
	Namespace     string
	LabelSelector string
	AllNamespaces bool
}

// ApplyOptions configures Create, Patch, Apply and Scale. DryRun is passed
// through to the server as an opaque flag; the server validates and
// simulates the operation without persisting it.
type ApplyOptions struct {
	Namespace string
	DryRun    bool
}

// DeleteOptions configures Delete.
type DeleteOptions struct {
	Namespace string
	DryRun    bool
}

// AnnotateOptions configures Annotate.
type AnnotateOptions struct {
	Namespace string
	Overwrite bool
	DryRun    bool
}

// Get retrieves a resource by type and name (similar to 'kubectl get').
// The result's keys are converted to snake_case; annotation, label and data
// keys are kept verbatim. A missing resource is reported as a NotFoundError
// matching ErrResourceNotFound.
func (c *Client) Get(ctx context.Context, obj, name string, opts GetOptions) (map[string]any, error) {
	if name == "" {
		return nil, ErrMissingResourceName
	}

	descriptor, err := c.Resolve(ctx, obj)
	if err != nil {
		return nil, err
	}
	if !descriptor.hasVerb("get") {
		return nil, ErrMethodNotAllowed
	}

	c.logOperation("get", opts.Namespace, obj, name)

	resourceInterface, namespace, err := c.resourceInterface(descriptor, opts.Namespace, false)
	if err != nil {
		return nil, err
	}

	result, err := resourceInterface.Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, &NotFoundError{Resource: descriptor.GVR.Resource, Name: name, Namespace: namespace, Err: err}
		}
		return nil, fmt.Errorf("failed to get %s %q: %w", obj, name, err)
	}

	return resultBody(result.Object), nil
}

// List retrieves all resources of a type (similar to 'kubectl get' without
// a name), optionally filtered by label selector or across all namespaces.
func (c *Client) List(ctx context.Context, obj string, opts GetOptions) ([]map[string]any, error) {
	descriptor, err := c.Resolve(ctx, obj)
	if err != nil {
		return nil, err
	}
	if !descriptor.hasVerb("list") {
		return nil, ErrMethodNotAllowed
	}

	c.logOperation("list", opts.Namespace, obj, "")

	resourceInterface, _, err := c.resourceInterface(descriptor, opts.Namespace, opts.AllNamespaces)
	if err != nil {
		return nil, err
	}

	list, err := resourceInterface.List(ctx, metav1.ListOptions{LabelSelector: opts.LabelSelector})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", obj, err)
	}

	items := make([]map[string]any, 0, len(list.Items))
	for i := range list.Items {
		items = append(items, resultBody(list.Items[i].Object))
	}
	return items, nil
}

// Create creates a resource (similar to 'kubectl create'). Missing manifest
// fields are defaulted: the name from the name argument, the namespace from
// the options, and apiVersion/kind from the resolved descriptor. A body with
// snake_case keys is rewritten to the camelCase the server expects.
func (c *Client) Create(ctx context.Context, obj, name string, body map[string]any, opts ApplyOptions) (map[string]any, error) {
	descriptor, err := c.Resolve(ctx, obj)
	if err != nil {
		return nil, err
	}
	if !descriptor.hasVerb("create") {
		return nil, ErrMethodNotAllowed
	}

	manifest, err := c.completeManifest(descriptor, name, opts.Namespace, body)
	if err != nil {
		return nil, err
	}

	c.logOperation("create", manifest.GetNamespace(), obj, manifest.GetName())

	resourceInterface, _, err := c.resourceInterface(descriptor, manifest.GetNamespace(), false)
	if err != nil {
		return nil, err
	}

	createOpts := metav1.CreateOptions{}
	if opts.DryRun {
		createOpts.DryRun = []string{metav1.DryRunAll}
	}

	result, err := resourceInterface.Create(ctx, manifest, createOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s %q: %w", obj, manifest.GetName(), err)
	}

	return resultBody(result.Object), nil
}

// Patch merges the supplied body into a resource (similar to
// 'kubectl patch' with a merge patch). The same manifest defaulting as
// Create applies.
func (c *Client) Patch(ctx context.Context, obj, name string, body map[string]any, opts ApplyOptions) (map[string]any, error) {
	descriptor, err := c.Resolve(ctx, obj)
	if err != nil {
		return nil, err
	}
	if !descriptor.hasVerb("patch") {
		return nil, ErrMethodNotAllowed
	}

	manifest, err := c.completeManifest(descriptor, name, opts.Namespace, body)
	if err != nil {
		return nil, err
	}

	c.logOperation("patch", manifest.GetNamespace(), obj, manifest.GetName())

	data, err := json.Marshal(manifest.Object)
	if err != nil {
		return nil, fmt.Errorf("failed to encode patch for %s %q: %w", obj, manifest.GetName(), err)
	}

	resourceInterface, _, err := c.resourceInterface(descriptor, manifest.GetNamespace(), false)
	if err != nil {
		return nil, err
	}

	patchOpts := metav1.PatchOptions{}
	if opts.DryRun {
		patchOpts.DryRun = []string{metav1.DryRunAll}
	}

	result, err := resourceInterface.Patch(ctx, manifest.GetName(), types.MergePatchType, data, patchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to patch %s %q: %w", obj, manifest.GetName(), err)
	}

	return resultBody(result.Object), nil
}

// Apply creates the resource described by body if it does not exist, and
// patches it otherwise (similar to 'kubectl apply').
func (c *Client) Apply(ctx context.Context, body map[string]any, opts ApplyOptions) (map[string]any, error) {
	prepared := prepareBody(body)

	kind, _ := prepared["kind"].(string)
	if kind == "" {
		return nil, &ResourceTypeError{Type: "<missing kind>"}
	}

	name := nestedString(prepared, "metadata", "name")
	if name == "" {
		return nil, ErrMissingResourceName
	}

	namespace := opts.Namespace
	if ns := nestedString(prepared, "metadata", "namespace"); ns != "" {
		namespace = ns
	}

	_, err := c.Get(ctx, kind, name, GetOptions{Namespace: namespace})
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return c.Create(ctx, kind, name, body, ApplyOptions{Namespace: namespace, DryRun: opts.DryRun})
		}
		return nil, err
	}

	return c.Patch(ctx, kind, name, body, ApplyOptions{Namespace: namespace, DryRun: opts.DryRun})
}

// Delete removes a resource by type and name (similar to 'kubectl delete').
func (c *Client) Delete(ctx context.Context, obj, name string, opts DeleteOptions) error {
	if name == "" {
		return ErrMissingResourceName
	}

	descriptor, err := c.Resolve(ctx, obj)
	if err != nil {
		return err
	}
	if !descriptor.hasVerb("delete") {
		return ErrMethodNotAllowed
	}

	c.logOperation("delete", opts.Namespace, obj, name)

	resourceInterface, namespace, err := c.resourceInterface(descriptor, opts.Namespace, false)
	if err != nil {
		return err
	}

	deleteOpts := metav1.DeleteOptions{}
	if opts.DryRun {
		deleteOpts.DryRun = []string{metav1.DryRunAll}
	}

	if err := resourceInterface.Delete(ctx, name, deleteOpts); err != nil {
		if apierrors.IsNotFound(err) {
			return &NotFoundError{Resource: descriptor.GVR.Resource, Name: name, Namespace: namespace, Err: err}
		}
		return fmt.Errorf("failed to delete %s %q: %w", obj, name, err)
	}

	return nil
}

// Scale changes the replica count of a Deployment, StatefulSet or
// ReplicaSet (similar to 'kubectl scale'). Other resource types are
// rejected with ErrResourceNotFound.
func (c *Client) Scale(ctx context.Context, obj, name string, replicas int32, opts ApplyOptions) (map[string]any, error) {
	if name == "" {
		return nil, ErrMissingResourceName
	}

	descriptor, err := c.Resolve(ctx, obj)
	if err != nil {
		return nil, err
	}

	switch descriptor.Kind {
	case "Deployment", "StatefulSet", "ReplicaSet":
	default:
		return nil, ErrResourceNotFound
	}
	if !descriptor.hasVerb("patch") {
		return nil, ErrMethodNotAllowed
	}

	c.logOperation("scale", opts.Namespace, obj, name)

	resourceInterface, _, err := c.resourceInterface(descriptor, opts.Namespace, false)
	if err != nil {
		return nil, err
	}

	patchOpts := metav1.PatchOptions{}
	if opts.DryRun {
		patchOpts.DryRun = []string{metav1.DryRunAll}
	}

	patch := fmt.Sprintf(`{"spec":{"replicas":%d}}`, replicas)
	result, err := resourceInterface.Patch(ctx, name, types.MergePatchType, []byte(patch), patchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to scale %s %q: %w", obj, name, err)
	}

	return resultBody(result.Object), nil
}

// Annotate updates annotations on a resource (similar to
// 'kubectl annotate'). Without overwrite, a key that already has a value is
// rejected with an AnnotationConflictError. An empty annotation set is
// rejected with ErrNoAnnotations.
func (c *Client) Annotate(ctx context.Context, obj, name string, annotations map[string]string, opts AnnotateOptions) (map[string]any, error) {
	if len(annotations) == 0 {
		return nil, ErrNoAnnotations
	}

	current, err := c.Get(ctx, obj, name, GetOptions{Namespace: opts.Namespace})
	if err != nil {
		return nil, err
	}

	merged := make(map[string]any)
	if metadata, ok := current["metadata"].(map[string]any); ok {
		if existing, ok := metadata["annotations"].(map[string]any); ok {
			for key, value := range existing {
				if _, updated := annotations[key]; updated && !opts.Overwrite {
					return nil, &AnnotationConflictError{Key: key, Existing: fmt.Sprintf("%v", value)}
				}
				merged[key] = value
			}
		}
	}
	for key, value := range annotations {
		merged[key] = value
	}

	body := map[string]any{
		"metadata": map[string]any{
			"annotations": merged,
		},
	}
	return c.Patch(ctx, obj, name, body, ApplyOptions{Namespace: opts.Namespace, DryRun: opts.DryRun})
}

// completeManifest prepares a request body and fills in the defaults the
// original arguments imply: metadata.name, metadata.namespace for
// namespaced resources, and apiVersion/kind from the descriptor.
func (c *Client) completeManifest(descriptor *ResourceDescriptor, name, namespace string, body map[string]any) (*unstructured.Unstructured, error) {
	if body == nil {
		body = map[string]any{}
	}
	prepared := prepareBody(body)

	metadata, ok := prepared["metadata"].(map[string]any)
	if !ok {
		metadata = map[string]any{}
		prepared["metadata"] = metadata
	}

	if name != "" {
		if _, ok := metadata["name"]; !ok {
			metadata["name"] = name
		}
	}
	if _, ok := metadata["name"]; !ok {
		return nil, ErrMissingResourceName
	}

	if descriptor.Namespaced {
		if _, ok := metadata["namespace"]; !ok {
			if namespace == "" {
				namespace = DefaultNamespace
			}
			metadata["namespace"] = namespace
		}
	}

	if _, ok := prepared["apiVersion"]; !ok {
		prepared["apiVersion"] = descriptor.GroupVersion()
	}
	if _, ok := prepared["kind"]; !ok {
		prepared["kind"] = descriptor.Kind
	}

	return &unstructured.Unstructured{Object: prepared}, nil
}

// resourceInterface returns the dynamic resource interface scoped to the
// effective namespace. Namespaced resources default to "default" unless the
// caller asked for all namespaces.
func (c *Client) resourceInterface(descriptor *ResourceDescriptor, namespace string, allNamespaces bool) (dynamic.ResourceInterface, string, error) {
	dynamicClient, err := c.dyn()
	if err != nil {
		return nil, "", err
	}

	if !descriptor.Namespaced || allNamespaces {
		return dynamicClient.Resource(descriptor.GVR), "", nil
	}

	if namespace == "" {
		namespace = DefaultNamespace
	}
	return dynamicClient.Resource(descriptor.GVR).Namespace(namespace), namespace, nil
}

// nestedString digs a string out of nested maps, returning "" at any miss.
func nestedString(m map[string]any, keys ...string) string {
	var current any = m
	for _, key := range keys {
		asMap, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current = asMap[key]
	}
	s, _ := current.(string)
	return s
}
