package k8s

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// kubernetesClient implements the Client interface using client-go.
// One instance represents one cluster session: the rest config, HTTP
// transport and clientset are built eagerly in NewClient so configuration
// problems surface at connect time, and Close releases the transport.
type kubernetesClient struct {
	config *ClientConfig

	restConfig *rest.Config
	httpClient *http.Client
	clientset  kubernetes.Interface
}

// ClientConfig holds configuration for the Kubernetes client.
type ClientConfig struct {
	// Kubeconfig settings
	KubeconfigPath string
	Context        string

	// Authentication mode
	InCluster bool // Use in-cluster service account authentication instead of kubeconfig

	// Performance settings
	QPSLimit   float32
	BurstLimit int
	Timeout    time.Duration

	// Debug settings
	DebugMode bool

	// Logging
	Logger Logger
}

// NewClient creates a new Kubernetes client with the given configuration.
// It fails when the kubeconfig is missing, unparsable, or yields an empty
// configuration, and when the in-cluster service account files are absent
// in in-cluster mode.
func NewClient(config *ClientConfig) (*kubernetesClient, error) {
	if config == nil {
		return nil, fmt.Errorf("client configuration is required")
	}

	// Set defaults
	if config.QPSLimit == 0 {
		config.QPSLimit = DefaultQPSLimit
	}
	if config.BurstLimit == 0 {
		config.BurstLimit = DefaultBurstLimit
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout * time.Second
	}

	client := &kubernetesClient{config: config}

	restConfig, err := client.buildRestConfig()
	if err != nil {
		return nil, err
	}

	// Apply performance settings
	restConfig.QPS = config.QPSLimit
	restConfig.Burst = config.BurstLimit
	restConfig.Timeout = config.Timeout
	client.restConfig = restConfig

	// Build the transport explicitly so Close can release idle connections.
	httpClient, err := rest.HTTPClientFor(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	client.httpClient = httpClient

	clientset, err := kubernetes.NewForConfigAndClient(restConfig, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}
	client.clientset = clientset

	if config.Logger != nil {
		if config.InCluster {
			config.Logger.Info("Using in-cluster authentication")
		} else {
			config.Logger.Info("Using kubeconfig authentication", "context", config.Context)
		}
	}

	return client, nil
}

// buildRestConfig resolves cluster credentials from either the in-cluster
// service account or a kubeconfig file.
func (c *kubernetesClient) buildRestConfig() (*rest.Config, error) {
	if c.config.InCluster {
		if err := c.validateInClusterEnvironment(); err != nil {
			return nil, fmt.Errorf("in-cluster authentication not available: %w", err)
		}
		restConfig, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create in-cluster rest config: %w", err)
		}
		return restConfig, nil
	}

	// Kubeconfig resolution order: explicit path, then KUBECONFIG, then the
	// default loading rules (~/.kube/config).
	if c.config.KubeconfigPath == "" {
		if kconf := os.Getenv("KUBECONFIG"); kconf != "" {
			if strings.HasPrefix(kconf, "~/") {
				uhd, _ := os.UserHomeDir()
				kconf = filepath.Join(uhd, kconf[2:])
			}
			c.config.KubeconfigPath = kconf
		}
	}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if c.config.KubeconfigPath != "" {
		loadingRules.ExplicitPath = c.config.KubeconfigPath
	}

	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules,
		&clientcmd.ConfigOverrides{
			CurrentContext: c.config.Context,
		},
	)

	// RawConfig surfaces missing or empty kubeconfigs before any API call.
	rawConfig, err := clientConfig.RawConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	if len(rawConfig.Clusters) == 0 {
		return nil, fmt.Errorf("invalid kubeconfig %q: no configuration found", c.config.KubeconfigPath)
	}
	if c.config.Context != "" {
		if _, exists := rawConfig.Contexts[c.config.Context]; !exists {
			return nil, fmt.Errorf("context %q does not exist in kubeconfig", c.config.Context)
		}
	}

	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create rest config: %w", err)
	}
	return restConfig, nil
}

// validateInClusterEnvironment checks if the required in-cluster authentication files are present.
func (c *kubernetesClient) validateInClusterEnvironment() error {
	if _, err := os.Stat(DefaultTokenPath); os.IsNotExist(err) {
		return fmt.Errorf("service account token not found at %s", DefaultTokenPath)
	}
	if _, err := os.Stat(DefaultCACertPath); os.IsNotExist(err) {
		return fmt.Errorf("service account CA certificate not found at %s", DefaultCACertPath)
	}
	return nil
}

// Close releases the cluster session by dropping idle connections held by the
// underlying transport. Safe to call on every exit path.
func (c *kubernetesClient) Close() error {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
	return nil
}

func (c *kubernetesClient) logOperation(operation, namespace, pod string) {
	if c.config.DebugMode && c.config.Logger != nil {
		c.config.Logger.Debug("executing operation",
			"operation", operation,
			"namespace", namespace,
			"pod", pod,
		)
	}
}
