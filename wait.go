package kubectl

import (
	"context"
	"fmt"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/kubehelpers/kubectl-go/internal/logging"
)

// WaitOptions configures Wait.
type WaitOptions struct {
	Namespace string

	// Interval between condition checks; defaults to DefaultWaitInterval.
	Interval time.Duration

	// Timeout bounds the whole wait; defaults to the client timeout.
	Timeout time.Duration
}

// Wait blocks until a resource reports a status condition (similar to
// 'kubectl wait --for=condition=...'). The condition is given as "Type" or
// "Type=Status"; the bare form waits for status "True". Matching is
// case-insensitive. A resource that does not exist yet is polled, not
// failed.
func (c *Client) Wait(ctx context.Context, obj, name, condition string, opts WaitOptions) error {
	if name == "" {
		return ErrMissingResourceName
	}

	wantType, wantStatus, found := strings.Cut(condition, "=")
	if !found {
		wantStatus = "True"
	}
	if wantType == "" {
		return fmt.Errorf("empty condition type in %q", condition)
	}

	descriptor, err := c.Resolve(ctx, obj)
	if err != nil {
		return err
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultWaitInterval
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.restConfig.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
	}

	client, namespace, err := c.resourceInterface(descriptor, opts.Namespace, false)
	if err != nil {
		return err
	}

	c.logOperation("wait", namespace, descriptor.GVR.Resource, name)

	err = wait.PollUntilContextTimeout(ctx, interval, timeout, true, func(ctx context.Context) (bool, error) {
		resource, err := client.Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			// Not created yet, or transiently unreachable; keep polling.
			return false, nil
		}
		return hasCondition(resource, wantType, wantStatus), nil
	})
	if err != nil {
		c.logger.Debug("wait ended without condition",
			logging.Operation("wait"),
			logging.ResourceName(name),
			logging.Err(err),
		)
		return fmt.Errorf("timed out waiting for condition %q on %s %q: %w", condition, descriptor.GVR.Resource, name, err)
	}
	return nil
}

// hasCondition reports whether status.conditions contains an entry whose
// type and status match, ignoring case.
func hasCondition(resource *unstructured.Unstructured, wantType, wantStatus string) bool {
	conditions, found, err := unstructured.NestedSlice(resource.Object, "status", "conditions")
	if err != nil || !found {
		return false
	}

	for _, entry := range conditions {
		condition, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		condType, _ := condition["type"].(string)
		condStatus, _ := condition["status"].(string)
		if strings.EqualFold(condType, wantType) && strings.EqualFold(condStatus, wantStatus) {
			return true
		}
	}
	return false
}
