package operator

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var reconcilerDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "conda_store_reconciler_duration",
		Help: "How long the reconcile loop ran for in microseconds",
	},
	[]string{
		"reconciler",
		"name",
		"namespace",
	},
)

// tokensMintedTotal tracks the total number of tokens minted per service
var tokensMintedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "conda_store_tokens_minted_total",
		Help: "Total number of service tokens minted by service name",
	},
	[]string{
		"service",
		"namespace",
	},
)

// provisionedShares tracks the current number of fully provisioned shares
var provisionedShares = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "conda_store_provisioned_shares",
		Help: "Current number of fully provisioned conda-store shares",
	},
	[]string{
		"namespace",
	},
)

func init() {
	metrics.Registry.MustRegister(reconcilerDuration)
	metrics.Registry.MustRegister(tokensMintedTotal)
	metrics.Registry.MustRegister(provisionedShares)
}
