package outputs_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quansight/conda-store-operator/pkg/outputs"
)

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "conda-store-nfs.dev.svc.cluster.local", outputs.Endpoint("conda-store-nfs", "dev"))
	assert.Equal(t, "conda-store-nfs.prod.svc.cluster.local", outputs.Endpoint("conda-store-nfs", "prod"))
}

func TestProject(t *testing.T) {
	out, err := outputs.Project("conda-store-nfs", "dev", "10.96.0.42",
		[]string{"a", "b"},
		map[string]string{"a": "secretA", "b": "secretB"},
	)
	require.NoError(t, err)

	assert.Equal(t, "conda-store-nfs.dev.svc.cluster.local", out.Endpoint)
	assert.Equal(t, "10.96.0.42", out.EndpointIP)
	require.Len(t, out.ServiceTokens, 2)

	for svc, raw := range map[string]string{"a": "secretA", "b": "secretB"} {
		decoded, decErr := base64.StdEncoding.DecodeString(out.ServiceTokens[svc])
		require.NoError(t, decErr)
		assert.Equal(t, raw, string(decoded))
	}
}

func TestProjectPendingClusterIP(t *testing.T) {
	// A Service whose cluster IP has not been assigned yet projects an
	// empty endpoint_ip verbatim; callers tolerate the transient state.
	out, err := outputs.Project("conda-store-nfs", "dev", "",
		[]string{"a"},
		map[string]string{"a": "secretA"},
	)
	require.NoError(t, err)

	assert.Equal(t, "conda-store-nfs.dev.svc.cluster.local", out.Endpoint)
	assert.Equal(t, "", out.EndpointIP)
}

func TestProjectExtraTokensIgnored(t *testing.T) {
	// A stale key left behind in the Secret must not leak into the outputs.
	out, err := outputs.Project("conda-store-nfs", "dev", "10.96.0.42",
		[]string{"a"},
		map[string]string{"a": "secretA", "orphan": "old"},
	)
	require.NoError(t, err)
	assert.Len(t, out.ServiceTokens, 1)
	assert.NotContains(t, out.ServiceTokens, "orphan")
}

func TestProjectMissingTokens(t *testing.T) {
	_, err := outputs.Project("conda-store-nfs", "dev", "10.96.0.42",
		[]string{"b", "a", "c"},
		map[string]string{"a": "secretA"},
	)
	require.Error(t, err)
	// All missing services are named, sorted, in one error.
	assert.Contains(t, err.Error(), "b, c")
	assert.NotContains(t, err.Error(), "a,")
}

func TestProjectNoServices(t *testing.T) {
	out, err := outputs.Project("conda-store-nfs", "dev", "10.96.0.42", nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, out.ServiceTokens)
	assert.Empty(t, out.ServiceTokens)
}
