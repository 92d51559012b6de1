package k8s

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKubeconfig = `apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://kubernetes.example.com:6443
  name: test-cluster
contexts:
- context:
    cluster: test-cluster
    user: test-user
  name: test-context
current-context: test-context
users:
- name: test-user
  user:
    token: test-token
`

// writeTestKubeconfig writes a minimal valid kubeconfig and returns its path.
func writeTestKubeconfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kubeconfig")
	require.NoError(t, os.WriteFile(path, []byte(testKubeconfig), 0o600))
	return path
}

func TestNewClient(t *testing.T) {
	t.Run("nil config is rejected", func(t *testing.T) {
		client, err := NewClient(nil)
		assert.Error(t, err)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("valid kubeconfig", func(t *testing.T) {
		client, err := NewClient(&ClientConfig{
			KubeconfigPath: writeTestKubeconfig(t),
		})
		require.NoError(t, err)
		require.NotNil(t, client)
		defer client.Close()

		assert.NotNil(t, client.restConfig)
		assert.NotNil(t, client.clientset)
		assert.Equal(t, "https://kubernetes.example.com:6443", client.restConfig.Host)
	})

	t.Run("defaults are applied", func(t *testing.T) {
		client, err := NewClient(&ClientConfig{
			KubeconfigPath: writeTestKubeconfig(t),
		})
		require.NoError(t, err)
		defer client.Close()

		assert.Equal(t, float32(DefaultQPSLimit), client.restConfig.QPS)
		assert.Equal(t, DefaultBurstLimit, client.restConfig.Burst)
		assert.Equal(t, DefaultTimeout*time.Second, client.restConfig.Timeout)
	})

	t.Run("explicit performance settings win", func(t *testing.T) {
		client, err := NewClient(&ClientConfig{
			KubeconfigPath: writeTestKubeconfig(t),
			QPSLimit:       50,
			BurstLimit:     100,
			Timeout:        5 * time.Second,
		})
		require.NoError(t, err)
		defer client.Close()

		assert.Equal(t, float32(50), client.restConfig.QPS)
		assert.Equal(t, 100, client.restConfig.Burst)
		assert.Equal(t, 5*time.Second, client.restConfig.Timeout)
	})

	t.Run("missing kubeconfig file", func(t *testing.T) {
		client, err := NewClient(&ClientConfig{
			KubeconfigPath: filepath.Join(t.TempDir(), "does-not-exist"),
		})
		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("empty kubeconfig file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "kubeconfig")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

		client, err := NewClient(&ClientConfig{KubeconfigPath: path})
		assert.Error(t, err)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), "no configuration found")
	})

	t.Run("unknown context is rejected", func(t *testing.T) {
		client, err := NewClient(&ClientConfig{
			KubeconfigPath: writeTestKubeconfig(t),
			Context:        "nonexistent",
		})
		assert.Error(t, err)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), "does not exist in kubeconfig")
	})

	t.Run("KUBECONFIG env is honored", func(t *testing.T) {
		t.Setenv("KUBECONFIG", writeTestKubeconfig(t))

		client, err := NewClient(&ClientConfig{})
		require.NoError(t, err)
		defer client.Close()

		assert.Equal(t, "https://kubernetes.example.com:6443", client.restConfig.Host)
	})
}

func TestClientClose(t *testing.T) {
	client, err := NewClient(&ClientConfig{
		KubeconfigPath: writeTestKubeconfig(t),
	})
	require.NoError(t, err)

	// Close must be safe on every exit path, including repeated calls.
	assert.NoError(t, client.Close())
	assert.NoError(t, client.Close())
}
