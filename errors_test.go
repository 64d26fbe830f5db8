package kubectl

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceTypeErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("resolving: %w", &ResourceTypeError{Type: "widgets"})

	assert.ErrorIs(t, err, ErrUnknownResourceType)

	var typeErr *ResourceTypeError
	assert.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "widgets", typeErr.Type)
	assert.Contains(t, err.Error(), `"widgets"`)
}

func TestNotFoundErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("pods \"web\" not found")
	err := &NotFoundError{Resource: "pods", Name: "web", Namespace: "default", Err: cause}

	assert.ErrorIs(t, err, ErrResourceNotFound)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `pods "web" not found in namespace "default"`, err.Error())
}

func TestNotFoundErrorClusterScoped(t *testing.T) {
	err := &NotFoundError{Resource: "nodes", Name: "worker-1"}
	assert.Equal(t, `nodes "worker-1" not found`, err.Error())
}

func TestInvalidContainerErrorMatchesSentinel(t *testing.T) {
	err := &InvalidContainerError{Pod: "web", Namespace: "default", Container: "sidecar"}

	assert.ErrorIs(t, err, ErrInvalidContainer)
	assert.Contains(t, err.Error(), `"sidecar"`)
	assert.Contains(t, err.Error(), "default/web")
}

func TestAnnotationConflictErrorMatchesSentinel(t *testing.T) {
	err := &AnnotationConflictError{Key: "team", Existing: "platform"}

	assert.ErrorIs(t, err, ErrAnnotationConflict)
	assert.Contains(t, err.Error(), `"team"`)
	assert.Contains(t, err.Error(), "platform")
}
