package operator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sierrasoftworks/humane-errors-go"
	"go.uber.org/zap"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/spechtlabs/go-otel-utils/otelzap"

	"github.com/quansight/conda-store-operator/api/v1alpha1"
	"github.com/quansight/conda-store-operator/pkg/client/k8s"
	"github.com/quansight/conda-store-operator/pkg/outputs"
	"github.com/quansight/conda-store-operator/pkg/token"
)

func (t *CondaStoreOperator) provisionShare(ctx context.Context, store *v1alpha1.CondaStore) humane.Error {
	// 1. Backing volume
	if err := t.createOrUpdateSharePVC(ctx, store); err != nil {
		return err
	}

	// 2. NFS server
	if err := t.createOrUpdateNFSServer(ctx, store); err != nil {
		return err
	}

	// 3. Service fronting the NFS server
	svc, err := t.createOrUpdateNFSService(ctx, store)
	if err != nil {
		return err
	}

	// 4. One token per declared service
	if err := t.reconcileTokensSecret(ctx, store); err != nil {
		return err
	}

	return t.updateShareStatus(ctx, store, svc)
}

// createOrUpdateSharePVC creates the backing PersistentVolumeClaim if it does not
// exist. Volume requests are immutable apart from capacity, so an existing claim
// is left alone.
func (t *CondaStoreOperator) createOrUpdateSharePVC(ctx context.Context, store *v1alpha1.CondaStore) humane.Error {
	c := t.mgr.GetClient()
	scheme := t.mgr.GetScheme()

	pvc := k8s.NewSharePVC(store, t.opts)
	_ = ctrl.SetControllerReference(store, pvc, scheme)

	if err := c.Create(ctx, pvc); err != nil && !k8serrors.IsAlreadyExists(err) {
		return humane.Wrap(err, "Failed to create share volume claim", "check Kubernetes permissions for creating persistent volume claims in namespace "+store.Namespace)
	}

	return nil
}

// createOrUpdateNFSServer creates or updates the Deployment running the NFS server.
func (t *CondaStoreOperator) createOrUpdateNFSServer(ctx context.Context, store *v1alpha1.CondaStore) humane.Error {
	c := t.mgr.GetClient()
	scheme := t.mgr.GetScheme()

	deploy := k8s.NewNFSServer(store, t.opts)
	_ = ctrl.SetControllerReference(store, deploy, scheme)

	if err := c.Create(ctx, deploy); err != nil {
		if !k8serrors.IsAlreadyExists(err) {
			return humane.Wrap(err, "Failed to create NFS server deployment", "check Kubernetes permissions for creating deployments in namespace "+store.Namespace)
		}

		existing := &appsv1.Deployment{}
		deployName := types.NamespacedName{Name: deploy.Name, Namespace: deploy.Namespace}
		if err := c.Get(ctx, deployName, existing); err != nil {
			return humane.Wrap(err, "Failed to get existing NFS server deployment", "verify the deployment exists and you have read permissions")
		}

		existing.Spec.Template = deploy.Spec.Template
		if err := c.Update(ctx, existing); err != nil {
			return humane.Wrap(err, "Failed to update NFS server deployment", "check Kubernetes permissions for updating deployments")
		}
	}

	return nil
}

// createOrUpdateNFSService creates the ClusterIP Service and returns its live
// state so the assigned cluster IP can be published in the status.
func (t *CondaStoreOperator) createOrUpdateNFSService(ctx context.Context, store *v1alpha1.CondaStore) (*corev1.Service, humane.Error) {
	c := t.mgr.GetClient()
	scheme := t.mgr.GetScheme()

	svc := k8s.NewNFSService(store, t.opts)
	_ = ctrl.SetControllerReference(store, svc, scheme)

	if err := c.Create(ctx, svc); err != nil {
		if !k8serrors.IsAlreadyExists(err) {
			return nil, humane.Wrap(err, "Failed to create NFS service", "check Kubernetes permissions for creating services in namespace "+store.Namespace)
		}

		svcName := types.NamespacedName{Name: svc.Name, Namespace: svc.Namespace}
		if err := c.Get(ctx, svcName, svc); err != nil {
			return nil, humane.Wrap(err, "Failed to get existing NFS service", "verify the service exists and you have read permissions")
		}
	}

	return svc, nil
}

// reconcileTokensSecret makes the tokens Secret's key set equal to the declared
// service set. Missing tokens are minted, keys for undeclared services are
// pruned, and everything else keeps its current value so rotation only happens
// when a key was dropped.
func (t *CondaStoreOperator) reconcileTokensSecret(ctx context.Context, store *v1alpha1.CondaStore) humane.Error {
	c := t.mgr.GetClient()
	scheme := t.mgr.GetScheme()

	length := store.Spec.TokenLength
	if length <= 0 {
		length = t.opts.TokenLength
	}

	secret := &corev1.Secret{}
	secretName := types.NamespacedName{Name: k8s.TokensSecretName, Namespace: store.Namespace}
	if err := c.Get(ctx, secretName, secret); err != nil {
		if !k8serrors.IsNotFound(err) {
			return humane.Wrap(err, "Failed to load tokens Secret", "check Kubernetes connectivity and read permissions in namespace "+store.Namespace)
		}

		minted, herr := t.mintTokens(ctx, store, length, nil)
		if herr != nil {
			return herr
		}

		secret = k8s.NewTokensSecret(store, minted)
		_ = ctrl.SetControllerReference(store, secret, scheme)
		if err := c.Create(ctx, secret); err != nil {
			return humane.Wrap(err, "Failed to create tokens Secret", "check Kubernetes permissions for creating secrets in namespace "+store.Namespace)
		}

		return t.clearRotationRequests(ctx, store)
	}

	changed := false

	for key := range secret.Data {
		if _, declared := store.Spec.Services[key]; !declared {
			delete(secret.Data, key)
			changed = true
		}
	}

	// Consume pending rotation requests: dropping the key here makes the
	// mint below generate a fresh token even when the API's own delete
	// was lost to a conflicting write.
	for _, svc := range rotationRequests(store) {
		if _, ok := secret.Data[svc]; ok {
			delete(secret.Data, svc)
			changed = true
		}
	}

	existing := make(map[string]struct{}, len(secret.Data))
	for key := range secret.Data {
		existing[key] = struct{}{}
	}

	minted, herr := t.mintTokens(ctx, store, length, existing)
	if herr != nil {
		return herr
	}

	if len(minted) > 0 {
		if secret.Data == nil {
			secret.Data = map[string][]byte{}
		}
		for svc, raw := range minted {
			secret.Data[svc] = []byte(raw)
		}
		changed = true
	}

	if changed {
		if err := c.Update(ctx, secret); err != nil {
			return humane.Wrap(err, "Failed to update tokens Secret", "check Kubernetes permissions for updating secrets in namespace "+store.Namespace)
		}
	}

	return t.clearRotationRequests(ctx, store)
}

// rotationRequests parses the rotate-services annotation into the list of
// declared services awaiting a fresh token. Names that are no longer
// declared are skipped; pruning already handled their keys.
func rotationRequests(store *v1alpha1.CondaStore) []string {
	raw := store.Annotations[k8s.RotateServices]
	if raw == "" {
		return nil
	}

	var services []string
	for _, svc := range strings.Split(raw, ",") {
		if _, declared := store.Spec.Services[svc]; declared {
			services = append(services, svc)
		}
	}
	return services
}

// clearRotationRequests removes the rotate-services annotation once the
// tokens Secret reflects the declared service set again.
func (t *CondaStoreOperator) clearRotationRequests(ctx context.Context, store *v1alpha1.CondaStore) humane.Error {
	if _, ok := store.Annotations[k8s.RotateServices]; !ok {
		return nil
	}

	delete(store.Annotations, k8s.RotateServices)
	if err := t.mgr.GetClient().Update(ctx, store); err != nil {
		return humane.Wrap(err, "Failed to clear rotation requests", "check Kubernetes permissions for updating CondaStore resources in namespace "+store.Namespace)
	}

	return nil
}

// mintTokens generates fresh tokens for every declared service not present in
// the existing key set.
func (t *CondaStoreOperator) mintTokens(ctx context.Context, store *v1alpha1.CondaStore, length int, existing map[string]struct{}) (map[string]string, humane.Error) {
	minted := make(map[string]string)
	for svc := range store.Spec.Services {
		if _, ok := existing[svc]; ok {
			continue
		}

		raw, err := token.New(length)
		if err != nil {
			return nil, humane.Wrap(err, fmt.Sprintf("Failed to mint token for service %s", svc))
		}

		minted[svc] = raw
		tokensMintedTotal.WithLabelValues(svc, store.Namespace).Inc()

		otelzap.L().InfoContext(ctx, "minted service token",
			zap.String("service", svc),
			zap.String("namespace", store.Namespace),
		)
	}

	return minted, nil
}

func (t *CondaStoreOperator) updateShareStatus(ctx context.Context, store *v1alpha1.CondaStore, svc *corev1.Service) humane.Error {
	c := t.mgr.GetClient()

	resName := client.ObjectKey{
		Name:      store.Name,
		Namespace: store.Namespace,
	}
	if err := c.Get(ctx, resName, store); err != nil {
		return humane.Wrap(err, "Failed to reload share",
			"name: "+resName.Name,
			"namespace: "+resName.Namespace)
	}

	store.Status.Endpoint = outputs.Endpoint(svc.Name, store.Namespace)
	store.Status.EndpointIP = svc.Spec.ClusterIP
	store.Status.TokensSecret = k8s.TokensSecretName
	if store.Status.ProvisionedAt == "" {
		store.Status.ProvisionedAt = time.Now().Format(time.RFC3339)
	}
	store.Status.Provisioned = true

	if err := c.Status().Update(ctx, store); err != nil {
		return humane.Wrap(err, "Error updating share status", "check Kubernetes API connectivity and RBAC permissions")
	}

	provisionedShares.WithLabelValues(store.Namespace).Set(1)

	return nil
}
