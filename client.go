package kubectl

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/kubehelpers/kubectl-go/internal/logging"
)

// Config holds the connection parameters for a Client. The zero value
// connects with the local kubeconfig (or the in-cluster service account when
// running inside a pod), mirroring kubectl's own lookup order.
type Config struct {
	// Host is the API server URL. When set, the kubeconfig is bypassed and
	// the connection is built from Host, BearerToken and CACert directly.
	Host string

	// BearerToken authenticates requests when Host is set.
	BearerToken string

	// CACert is the PEM-encoded (not base64) CA bundle for the API server.
	// When Host is set and CACert is empty, TLS verification is disabled.
	CACert []byte

	// Insecure disables TLS verification regardless of CACert.
	Insecure bool

	// KubeconfigPath overrides the default kubeconfig location. The
	// KUBECONFIG environment variable is honored when this is empty.
	KubeconfigPath string

	// Context selects a kubeconfig context other than the current one.
	Context string

	// InCluster forces in-cluster service account authentication.
	InCluster bool

	// Performance settings applied to the rest.Config; zero values pick
	// the package defaults.
	QPS     float32
	Burst   int
	Timeout time.Duration

	// Logger receives structured operation logs. Nil discards them.
	Logger *slog.Logger
}

// Client is a connection handle to a single cluster. All kubectl-style
// operations hang off it. The underlying clients are built lazily and
// cached; aside from that cache the Client is stateless and safe for
// concurrent use to the extent client-go is.
type Client struct {
	restConfig *rest.Config
	logger     *slog.Logger

	mu              sync.Mutex
	clientset       kubernetes.Interface
	dynamicClient   dynamic.Interface
	discoveryClient discovery.DiscoveryInterface

	resourceMu    sync.RWMutex
	resourceCache map[string]*ResourceDescriptor

	builtinResources map[string]builtinResource
}

// New creates a Client from the given configuration.
//
// When cfg.Host is set the connection is built from the explicit
// host/token/certificate parameters. Otherwise the in-cluster service
// account is used when available (or forced via cfg.InCluster), falling
// back to the kubeconfig resolved through the standard loading rules.
// Configuration failures are reported as ErrConfig.
func New(cfg Config) (*Client, error) {
	restConfig, err := buildRestConfig(cfg)
	if err != nil {
		return nil, err
	}

	restConfig.QPS = cfg.QPS
	if restConfig.QPS == 0 {
		restConfig.QPS = DefaultQPSLimit
	}
	restConfig.Burst = cfg.Burst
	if restConfig.Burst == 0 {
		restConfig.Burst = DefaultBurstLimit
	}
	restConfig.Timeout = cfg.Timeout
	if restConfig.Timeout == 0 {
		restConfig.Timeout = DefaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("kubernetes client configured",
		logging.Host(restConfig.Host),
		slog.String("bearer_token", logging.SanitizeToken(restConfig.BearerToken)),
	)

	return &Client{
		restConfig:       restConfig,
		logger:           logger,
		resourceCache:    make(map[string]*ResourceDescriptor),
		builtinResources: initBuiltinResources(),
	}, nil
}

// buildRestConfig selects between explicit parameters, in-cluster service
// account credentials and the local kubeconfig.
func buildRestConfig(cfg Config) (*rest.Config, error) {
	if cfg.Host != "" {
		restConfig := &rest.Config{
			Host:        cfg.Host,
			BearerToken: cfg.BearerToken,
		}
		if len(cfg.CACert) > 0 && !cfg.Insecure {
			restConfig.TLSClientConfig = rest.TLSClientConfig{CAData: cfg.CACert}
		} else {
			restConfig.TLSClientConfig = rest.TLSClientConfig{Insecure: true}
		}
		return restConfig, nil
	}

	if cfg.InCluster || inClusterEnvironment() {
		restConfig, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("%w: in-cluster config: %v", ErrConfig, err)
		}
		return restConfig, nil
	}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if path := kubeconfigPath(cfg.KubeconfigPath); path != "" {
		loadingRules.ExplicitPath = path
	}

	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules,
		&clientcmd.ConfigOverrides{CurrentContext: cfg.Context},
	)

	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return restConfig, nil
}

// kubeconfigPath resolves the explicit kubeconfig path, honoring KUBECONFIG
// and expanding a leading "~/".
func kubeconfigPath(explicit string) string {
	path := explicit
	if path == "" {
		path = os.Getenv("KUBECONFIG")
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}

// inClusterEnvironment reports whether the service account credential files
// a pod is provisioned with are present.
func inClusterEnvironment() bool {
	if _, err := os.Stat(DefaultTokenPath); err != nil {
		return false
	}
	if _, err := os.Stat(DefaultCACertPath); err != nil {
		return false
	}
	return true
}

// kube returns the typed clientset, building it on first use.
func (c *Client) kube() (kubernetes.Interface, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.clientset != nil {
		return c.clientset, nil
	}

	clientset, err := kubernetes.NewForConfig(c.restConfig)
	if err != nil {
		c.logger.Debug("clientset construction failed", logging.SanitizedErr(err))
		return nil, fmt.Errorf("%w: clientset: %v", ErrConnection, err)
	}
	c.clientset = clientset
	return clientset, nil
}

// dyn returns the dynamic client, building it on first use.
func (c *Client) dyn() (dynamic.Interface, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dynamicClient != nil {
		return c.dynamicClient, nil
	}

	dynamicClient, err := dynamic.NewForConfig(c.restConfig)
	if err != nil {
		c.logger.Debug("dynamic client construction failed", logging.SanitizedErr(err))
		return nil, fmt.Errorf("%w: dynamic client: %v", ErrConnection, err)
	}
	c.dynamicClient = dynamicClient
	return dynamicClient, nil
}

// disc returns the discovery client, building it on first use.
func (c *Client) disc() (discovery.DiscoveryInterface, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.discoveryClient != nil {
		return c.discoveryClient, nil
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(c.restConfig)
	if err != nil {
		c.logger.Debug("discovery client construction failed", logging.SanitizedErr(err))
		return nil, fmt.Errorf("%w: discovery client: %v", ErrConnection, err)
	}
	c.discoveryClient = discoveryClient
	return discoveryClient, nil
}

// logOperation logs an operation for debugging and audit purposes.
func (c *Client) logOperation(operation, namespace, resourceType, name string) {
	c.logger.Debug("kubernetes operation",
		logging.Operation(operation),
		logging.Namespace(namespace),
		logging.ResourceType(resourceType),
		logging.ResourceName(name),
	)
}
