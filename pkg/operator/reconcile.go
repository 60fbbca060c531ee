package operator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	"github.com/spechtlabs/go-otel-utils/otelzap"

	"github.com/quansight/conda-store-operator/api/v1alpha1"
)

// +kubebuilder:rbac:groups=condastore.quansight.dev,resources=condastores,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=condastore.quansight.dev,resources=condastores/status,verbs=get;update;patch
// +kubebuilder:rbac:groups="",resources=persistentvolumeclaims;services;secrets,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update;patch;delete

func (t *CondaStoreOperator) Reconcile(ctx context.Context, req ctrl.Request) (reconcile.Result, error) {
	startTime := time.Now()
	defer func() {
		reconcilerDuration.WithLabelValues("share", req.Name, req.Namespace).Observe(float64(time.Since(startTime).Microseconds()))
	}()

	ctx, span := t.tracer.Start(ctx, "CondaStoreOperator.Reconcile")
	defer span.End()

	c := t.mgr.GetClient()

	// Grab and process the share object first
	store := &v1alpha1.CondaStore{}
	if err := c.Get(ctx, req.NamespacedName, store); err != nil {
		if k8serrors.IsNotFound(err) {
			otelzap.L().Info("share deleted", zap.String("name", req.Name), zap.String("namespace", req.Namespace))
			provisionedShares.WithLabelValues(req.Namespace).Set(0)
			return reconcile.Result{}, nil
		}

		otelzap.L().WithError(err).Error("failed to get conda store share", zap.String("name", req.Name), zap.String("namespace", req.Namespace))
		return reconcile.Result{}, err
	}

	if err := t.provisionShare(ctx, store); err != nil {
		otelzap.L().WithError(err).Error("Failed to provision share", zap.String("namespace", store.Namespace))
		return reconcile.Result{}, fmt.Errorf("%s", err.Display())
	}

	return reconcile.Result{}, nil
}
