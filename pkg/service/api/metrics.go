package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// outputsReads tracks outputs reads by calling service and outcome.
var outputsReads = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "conda_store_outputs_reads_total",
		Help: "Total number of outputs reads by calling service and outcome",
	},
	[]string{
		"service",
		"outcome", // success, error
	},
)

// tokenRotations tracks rotation requests by target service and outcome.
var tokenRotations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "conda_store_token_rotations_total",
		Help: "Total number of token rotation requests by target service and outcome",
	},
	[]string{
		"service",
		"outcome", // accepted, error
	},
)

func init() {
	prometheus.MustRegister(outputsReads)
	prometheus.MustRegister(tokenRotations)
}
