package kubectl

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure categories this package reports.
// These can be checked using errors.Is() for programmatic error handling.
var (
	// ErrConfig indicates that client configuration could not be loaded,
	// either from explicit parameters or from a kubeconfig file.
	ErrConfig = errors.New("failed to load client configuration")

	// ErrConnection indicates that a client for the API server could not
	// be constructed from the loaded configuration.
	ErrConnection = errors.New("failed to connect to cluster")

	// ErrUnknownResourceType indicates that the requested resource type,
	// kind or short name is not served by the cluster.
	ErrUnknownResourceType = errors.New("the server doesn't have the requested resource type")

	// ErrMissingResourceName indicates that an operation requiring a
	// resource name was called without one, in the arguments or the body.
	ErrMissingResourceName = errors.New("resource(s) were provided, but no name was specified")

	// ErrResourceNotFound indicates that the named resource does not exist.
	ErrResourceNotFound = errors.New("the server could not find the requested resource")

	// ErrMethodNotAllowed indicates that the discovery document does not
	// list the requested verb for the resource type.
	ErrMethodNotAllowed = errors.New("the server does not allow this method on the requested resource")

	// ErrInvalidContainer indicates that the named container is not part
	// of the pod's spec.
	ErrInvalidContainer = errors.New("container is not valid for pod")

	// ErrAnnotationConflict indicates that Annotate was called without
	// overwrite while one of the supplied keys already has a value.
	ErrAnnotationConflict = errors.New("overwrite is false but annotation already has a value")

	// ErrNoAnnotations indicates that Annotate was called with an empty
	// annotation set.
	ErrNoAnnotations = errors.New("at least one annotation update is required")

	// ErrBadCopySpec indicates that Cp was called with two local or two
	// remote file specifications.
	ErrBadCopySpec = errors.New("exactly one of src or dest must be a remote file specification")
)

// ResourceTypeError reports a resource type, kind or alias that could not be
// resolved against the discovery document.
type ResourceTypeError struct {
	Type string
}

// Error implements the error interface.
func (e *ResourceTypeError) Error() string {
	return fmt.Sprintf("the server doesn't have a resource type %q", e.Type)
}

// Unwrap returns the underlying sentinel error for use with errors.Is().
func (e *ResourceTypeError) Unwrap() error {
	return ErrUnknownResourceType
}

// InvalidContainerError reports a container name that does not exist in the
// target pod's spec.
type InvalidContainerError struct {
	Pod       string
	Namespace string
	Container string
}

// Error implements the error interface.
func (e *InvalidContainerError) Error() string {
	return fmt.Sprintf("container %q is not valid for pod %s/%s", e.Container, e.Namespace, e.Pod)
}

// Unwrap returns the underlying sentinel error for use with errors.Is().
func (e *InvalidContainerError) Unwrap() error {
	return ErrInvalidContainer
}

// AnnotationConflictError reports an annotation key that already has a value
// when Annotate is called without overwrite.
type AnnotationConflictError struct {
	Key      string
	Existing string
}

// Error implements the error interface.
func (e *AnnotationConflictError) Error() string {
	return fmt.Sprintf("overwrite is false but found the following declared annotation(s): %q already has a value (%s)", e.Key, e.Existing)
}

// Unwrap returns the underlying sentinel error for use with errors.Is().
func (e *AnnotationConflictError) Unwrap() error {
	return ErrAnnotationConflict
}

// NotFoundError reports a named resource the server could not find.
type NotFoundError struct {
	Resource  string
	Name      string
	Namespace string
	Err       error
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Namespace != "" {
		return fmt.Sprintf("%s %q not found in namespace %q", e.Resource, e.Name, e.Namespace)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Name)
}

// Unwrap returns the underlying API error for use with errors.As().
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Is implements custom error matching so NotFoundError matches
// ErrResourceNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrResourceNotFound
}
