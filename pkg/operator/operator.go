// Package operator implements the Kubernetes controller that manages
// CondaStore custom resources. For each share it provisions the backing
// PersistentVolumeClaim, the NFS server Deployment, the ClusterIP
// Service, and the per-service tokens Secret, and keeps them in step
// with the declared spec.
package operator

import (
	"context"
	"os"

	"github.com/go-logr/zapr"
	"github.com/sierrasoftworks/humane-errors-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"sigs.k8s.io/controller-runtime/pkg/metrics/server"

	"github.com/spechtlabs/go-otel-utils/otelzap"

	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/quansight/conda-store-operator/api/v1alpha1"
	"github.com/quansight/conda-store-operator/internal/utils"
	"github.com/quansight/conda-store-operator/pkg/client/k8s"
)

var scheme = runtime.NewScheme()

type CondaStoreOperator struct {
	mgr    ctrl.Manager
	tracer trace.Tracer
	client k8s.CondaStoreClient
	opts   k8s.ClientOptions
}

func isInCluster() bool {
	return os.Getenv("KUBERNETES_SERVICE_HOST") != ""
}

func newManager() (ctrl.Manager, humane.Error) {
	// If we run in-cluster then we also do leader election.
	// For local debugging that's not needed.
	inCluster := isInCluster()
	leaderElectionNamespace := ""
	if !inCluster {
		leaderElectionNamespace = "default"
	}

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme:                  scheme,
		HealthProbeBindAddress:  "0",
		LeaderElection:          inCluster,
		LeaderElectionNamespace: leaderElectionNamespace,
		LeaderElectionID:        "controller.condastore.quansight.dev",
		Metrics: server.Options{
			BindAddress: "0",
		},
	})
	if err != nil {
		return nil, humane.Wrap(err, "failed to create manager")
	}

	return mgr, nil
}

func newCondaStoreOperator(mgr ctrl.Manager, clientOpts k8s.ClientOptions) (*CondaStoreOperator, humane.Error) {
	op := &CondaStoreOperator{
		mgr:    mgr,
		tracer: otel.Tracer("conda_store_controller"),
		client: k8s.NewCondaStoreClient(mgr.GetClient(), clientOpts),
		opts:   clientOpts,
	}

	if err := ctrl.NewControllerManagedBy(mgr).For(&v1alpha1.CondaStore{}).Named("CondaStore").Complete(op); err != nil {
		return nil, humane.Wrap(err, "failed to register controller manager")
	}

	return op, nil
}

func NewK8sOperator(clientOpts k8s.ClientOptions) (*CondaStoreOperator, humane.Error) {
	// Register the schemes
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		return nil, humane.Wrap(err, "failed to add clientgoscheme to scheme")
	}

	if err := v1alpha1.AddToScheme(scheme); err != nil {
		return nil, humane.Wrap(err, "failed to add v1alpha1 to scheme")
	}

	ctrl.SetLogger(zapr.NewLogger(otelzap.L().Logger))

	mgr, err := newManager()
	if err != nil {
		return nil, err
	}

	if ok, err := utils.IsK8sVerAtLeast(1, 24); err != nil {
		return nil, err
	} else if !ok {
		return nil, humane.New("k8s version must be at least 1.24")
	}

	op, err := newCondaStoreOperator(mgr, clientOpts)
	if err != nil {
		otelzap.L().WithError(err).Error("failed to create kube operator")
		return nil, err
	}

	return op, nil
}

func (t *CondaStoreOperator) Start(ctx context.Context) humane.Error {
	if err := t.mgr.Start(ctx); err != nil {
		otelzap.L().WithError(err).Error("failed to start manager")
		return humane.Wrap(err, "failed to start manager")
	}

	return nil
}

func (t *CondaStoreOperator) GetClient() k8s.CondaStoreClient {
	return t.client
}
