package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/quansight/conda-store-operator/api/v1alpha1"
	"github.com/quansight/conda-store-operator/pkg/client/k8s"
)

func annotatedStore(rotate string) *v1alpha1.CondaStore {
	return &v1alpha1.CondaStore{
		ObjectMeta: metav1.ObjectMeta{
			Name:      k8s.DefaultShareName,
			Namespace: "dev",
			Annotations: map[string]string{
				k8s.RotateServices: rotate,
			},
		},
		Spec: v1alpha1.CondaStoreSpec{
			Services: map[string]v1alpha1.ServiceGrant{
				"jupyterhub":   {},
				"dask-gateway": {},
			},
		},
	}
}

func TestRotationRequests(t *testing.T) {
	t.Run("no annotation means no requests", func(t *testing.T) {
		store := annotatedStore("")
		store.Annotations = nil
		assert.Empty(t, rotationRequests(store))
	})

	t.Run("empty annotation means no requests", func(t *testing.T) {
		assert.Empty(t, rotationRequests(annotatedStore("")))
	})

	t.Run("single service", func(t *testing.T) {
		assert.Equal(t, []string{"jupyterhub"}, rotationRequests(annotatedStore("jupyterhub")))
	})

	t.Run("comma separated list", func(t *testing.T) {
		assert.Equal(t, []string{"jupyterhub", "dask-gateway"}, rotationRequests(annotatedStore("jupyterhub,dask-gateway")))
	})

	t.Run("undeclared services are skipped", func(t *testing.T) {
		assert.Equal(t, []string{"dask-gateway"}, rotationRequests(annotatedStore("keycloak,dask-gateway")))
	})
}
