package k8s_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/quansight/conda-store-operator/api/v1alpha1"
	"github.com/quansight/conda-store-operator/pkg/client/k8s"
	"github.com/quansight/conda-store-operator/pkg/token"
)

func newScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, clientgoscheme.AddToScheme(scheme))
	require.NoError(t, v1alpha1.AddToScheme(scheme))
	return scheme
}

func testOptions() k8s.ClientOptions {
	opts := k8s.DefaultClientOptions()
	opts.Namespace = "dev"
	return opts
}

func provisionedObjects(opts k8s.ClientOptions) []client.Object {
	store := &v1alpha1.CondaStore{
		ObjectMeta: metav1.ObjectMeta{Name: opts.ShareName, Namespace: opts.Namespace},
		Spec: v1alpha1.CondaStoreSpec{
			Services: map[string]v1alpha1.ServiceGrant{
				"jupyterhub":   {},
				"dask-gateway": {},
			},
		},
		Status: v1alpha1.CondaStoreStatus{Provisioned: true},
	}

	svc := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: opts.ServiceName, Namespace: opts.Namespace},
		Spec:       corev1.ServiceSpec{ClusterIP: "10.0.0.42"},
	}

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: k8s.TokensSecretName, Namespace: opts.Namespace},
		Data: map[string][]byte{
			"jupyterhub":   []byte("rawJupyterToken"),
			"dask-gateway": []byte("rawDaskToken"),
		},
	}

	return []client.Object{store, svc, secret}
}

func newProvisionedClient(t *testing.T, opts k8s.ClientOptions) k8s.CondaStoreClient {
	t.Helper()
	fakeClient := fake.NewClientBuilder().
		WithScheme(newScheme(t)).
		WithObjects(provisionedObjects(opts)...).
		Build()
	return k8s.NewCondaStoreClient(fakeClient, opts)
}

func TestGetOutputs(t *testing.T) {
	opts := testOptions()
	csc := newProvisionedClient(t, opts)

	out, err := csc.GetOutputs(context.Background())
	require.Nil(t, err)

	assert.Equal(t, "conda-store-nfs.dev.svc.cluster.local", out.Endpoint)
	assert.Equal(t, "10.0.0.42", out.EndpointIP)
	assert.Equal(t, token.Render("rawJupyterToken"), out.ServiceTokens["jupyterhub"])
	assert.Equal(t, token.Render("rawDaskToken"), out.ServiceTokens["dask-gateway"])
}

func TestGetOutputsNotProvisioned(t *testing.T) {
	opts := testOptions()
	store := &v1alpha1.CondaStore{
		ObjectMeta: metav1.ObjectMeta{Name: opts.ShareName, Namespace: opts.Namespace},
		Spec: v1alpha1.CondaStoreSpec{
			Services: map[string]v1alpha1.ServiceGrant{"jupyterhub": {}},
		},
	}
	fakeClient := fake.NewClientBuilder().WithScheme(newScheme(t)).WithObjects(store).Build()
	csc := k8s.NewCondaStoreClient(fakeClient, opts)

	_, err := csc.GetOutputs(context.Background())
	require.NotNil(t, err)
	assert.Equal(t, k8s.NotReadyYetError, err)
}

func TestGetOutputsShareNotDeclared(t *testing.T) {
	opts := testOptions()
	fakeClient := fake.NewClientBuilder().WithScheme(newScheme(t)).Build()
	csc := k8s.NewCondaStoreClient(fakeClient, opts)

	_, err := csc.GetOutputs(context.Background())
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "Share not declared")
}

func TestGetEndpoint(t *testing.T) {
	opts := testOptions()
	csc := newProvisionedClient(t, opts)

	info, err := csc.GetEndpoint(context.Background())
	require.Nil(t, err)
	assert.Equal(t, "conda-store-nfs.dev.svc.cluster.local", info.Endpoint)
	assert.Equal(t, "10.0.0.42", info.EndpointIP)
}

func TestGetEndpointPendingClusterIP(t *testing.T) {
	opts := testOptions()
	objects := provisionedObjects(opts)
	objects[1].(*corev1.Service).Spec.ClusterIP = ""
	fakeClient := fake.NewClientBuilder().
		WithScheme(newScheme(t)).
		WithObjects(objects...).
		Build()
	csc := k8s.NewCondaStoreClient(fakeClient, opts)

	info, err := csc.GetEndpoint(context.Background())
	require.Nil(t, err)
	assert.Equal(t, "conda-store-nfs.dev.svc.cluster.local", info.Endpoint)
	assert.Equal(t, "", info.EndpointIP)

	out, err := csc.GetOutputs(context.Background())
	require.Nil(t, err)
	assert.Equal(t, "", out.EndpointIP)
}

func TestGetServiceToken(t *testing.T) {
	opts := testOptions()
	csc := newProvisionedClient(t, opts)

	rendered, err := csc.GetServiceToken(context.Background(), "jupyterhub")
	require.Nil(t, err)
	assert.Equal(t, token.Render("rawJupyterToken"), rendered)

	_, err = csc.GetServiceToken(context.Background(), "keycloak")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "not declared")
}

func TestRotateServiceToken(t *testing.T) {
	opts := testOptions()
	fakeClient := fake.NewClientBuilder().
		WithScheme(newScheme(t)).
		WithObjects(provisionedObjects(opts)...).
		Build()
	csc := k8s.NewCondaStoreClient(fakeClient, opts)

	err := csc.RotateServiceToken(context.Background(), "jupyterhub")
	require.Nil(t, err)

	var secret corev1.Secret
	require.NoError(t, fakeClient.Get(context.Background(), client.ObjectKey{Name: k8s.TokensSecretName, Namespace: opts.Namespace}, &secret))
	assert.NotContains(t, secret.Data, "jupyterhub")
	assert.Contains(t, secret.Data, "dask-gateway")

	var store v1alpha1.CondaStore
	require.NoError(t, fakeClient.Get(context.Background(), client.ObjectKey{Name: opts.ShareName, Namespace: opts.Namespace}, &store))
	assert.NotEmpty(t, store.Annotations[k8s.LastRotationRequest])
	assert.Equal(t, "jupyterhub", store.Annotations[k8s.RotateServices])
}

func TestRotateServiceTokenUndeclared(t *testing.T) {
	opts := testOptions()
	csc := newProvisionedClient(t, opts)

	err := csc.RotateServiceToken(context.Background(), "keycloak")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "not declared")
}

func TestVerifyToken(t *testing.T) {
	opts := testOptions()
	csc := newProvisionedClient(t, opts)

	svc, err := csc.VerifyToken(context.Background(), token.Render("rawDaskToken"))
	require.Nil(t, err)
	assert.Equal(t, "dask-gateway", svc)

	_, err = csc.VerifyToken(context.Background(), "bogus")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}
