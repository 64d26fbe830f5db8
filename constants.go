package kubectl

import "time"

const (
	// Service account paths - default Kubernetes in-cluster locations
	DefaultServiceAccountPath = "/var/run/secrets/kubernetes.io/serviceaccount"
	DefaultTokenPath          = DefaultServiceAccountPath + "/token"
	DefaultCACertPath         = DefaultServiceAccountPath + "/ca.crt"
	DefaultNamespacePath      = DefaultServiceAccountPath + "/namespace"

	// DefaultNamespace is used when an operation on a namespaced resource
	// does not specify a namespace.
	DefaultNamespace = "default"

	// Default performance settings
	DefaultQPSLimit   = 20.0
	DefaultBurstLimit = 30
	DefaultTimeout    = 30 * time.Second

	// DefaultWaitInterval is the polling interval used by Wait when none
	// is configured.
	DefaultWaitInterval = 2 * time.Second
)
