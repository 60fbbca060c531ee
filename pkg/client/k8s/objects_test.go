package k8s_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/quansight/conda-store-operator/api/v1alpha1"
	"github.com/quansight/conda-store-operator/pkg/client/k8s"
)

func newStore(namespace string) *v1alpha1.CondaStore {
	return &v1alpha1.CondaStore{
		ObjectMeta: metav1.ObjectMeta{
			Name:      k8s.DefaultShareName,
			Namespace: namespace,
		},
		Spec: v1alpha1.CondaStoreSpec{
			Services: map[string]v1alpha1.ServiceGrant{
				"jupyterhub":   {},
				"dask-gateway": {},
			},
		},
	}
}

func TestFormatPVCName(t *testing.T) {
	assert.Equal(t, "conda-store-dev-share", k8s.FormatPVCName("dev"))
	assert.Equal(t, "conda-store-prod-share", k8s.FormatPVCName("prod"))
}

func TestNewSharePVC(t *testing.T) {
	opts := k8s.DefaultClientOptions()

	t.Run("default capacity", func(t *testing.T) {
		pvc := k8s.NewSharePVC(newStore("dev"), opts)

		require.NotNil(t, pvc)
		assert.Equal(t, "conda-store-dev-share", pvc.Name)
		assert.Equal(t, "dev", pvc.Namespace)
		assert.Equal(t, []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce}, pvc.Spec.AccessModes)
		assert.Equal(t, k8s.DefaultShareCapacity, pvc.Spec.Resources.Requests[corev1.ResourceStorage])
	})

	t.Run("explicit capacity", func(t *testing.T) {
		store := newStore("dev")
		capacity := resource.MustParse("100Gi")
		store.Spec.Capacity = &capacity

		pvc := k8s.NewSharePVC(store, opts)
		assert.Equal(t, capacity, pvc.Spec.Resources.Requests[corev1.ResourceStorage])
	})
}

func TestNewNFSServer(t *testing.T) {
	opts := k8s.DefaultClientOptions()
	deploy := k8s.NewNFSServer(newStore("dev"), opts)

	require.NotNil(t, deploy)
	assert.Equal(t, k8s.DefaultServiceName, deploy.Name)
	assert.Equal(t, "dev", deploy.Namespace)

	require.Len(t, deploy.Spec.Template.Spec.Containers, 1)
	container := deploy.Spec.Template.Spec.Containers[0]
	assert.Equal(t, k8s.NFSServerImage, container.Image)
	require.NotNil(t, container.SecurityContext.Privileged)
	assert.True(t, *container.SecurityContext.Privileged)

	ports := make(map[string]int32, len(container.Ports))
	for _, p := range container.Ports {
		ports[p.Name] = p.ContainerPort
	}
	assert.Equal(t, int32(k8s.NFSPort), ports["nfs"])
	assert.Equal(t, int32(k8s.MountdPort), ports["mountd"])
	assert.Equal(t, int32(k8s.RPCBindPort), ports["rpcbind"])

	require.Len(t, deploy.Spec.Template.Spec.Volumes, 1)
	claim := deploy.Spec.Template.Spec.Volumes[0].PersistentVolumeClaim
	require.NotNil(t, claim)
	assert.Equal(t, "conda-store-dev-share", claim.ClaimName)
}

func TestNewNFSService(t *testing.T) {
	opts := k8s.DefaultClientOptions()
	svc := k8s.NewNFSService(newStore("dev"), opts)

	require.NotNil(t, svc)
	assert.Equal(t, k8s.DefaultServiceName, svc.Name)
	assert.Equal(t, "dev", svc.Namespace)
	assert.Equal(t, svc.Spec.Selector, svc.Labels)
	require.Len(t, svc.Spec.Ports, 3)
	assert.Equal(t, int32(k8s.NFSPort), svc.Spec.Ports[0].Port)
}

func TestNewTokensSecret(t *testing.T) {
	secret := k8s.NewTokensSecret(newStore("dev"), map[string]string{
		"jupyterhub":   "secretA",
		"dask-gateway": "secretB",
	})

	require.NotNil(t, secret)
	assert.Equal(t, k8s.TokensSecretName, secret.Name)
	assert.Equal(t, "dev", secret.Namespace)
	assert.Equal(t, corev1.SecretTypeOpaque, secret.Type)
	assert.Equal(t, []byte("secretA"), secret.Data["jupyterhub"])
	assert.Equal(t, []byte("secretB"), secret.Data["dask-gateway"])
}
