package api

import (
	ginprometheus "github.com/zsais/go-gin-prometheus"

	mw "github.com/quansight/conda-store-operator/pkg/middleware"
)

// Option defines a functional option pattern for configuring CondaStoreServer instances.
// Options are applied during NewCondaStoreServer() construction to customize server
// behavior without complex constructors.
//
// Example usage:
//
//	server := NewCondaStoreServer(
//	  WithRetryAfterSeconds(10),
//	  WithAuthMiddleware(mockAuth),
//	)
type Option func(*CondaStoreServer)

// WithRetryAfterSeconds configures the Retry-After header value for asynchronous operations.
// This affects HTTP 202 (Accepted) responses while the share is being provisioned or a
// token rotation is in flight. The value tells clients how long to wait before polling.
func WithRetryAfterSeconds(seconds int) Option {
	return func(srv *CondaStoreServer) {
		if seconds > 0 {
			srv.retryAfterSeconds = seconds
		}
	}
}

// WithAuthMiddleware replaces the default bearer-token authentication middleware.
// This is primarily used for testing with mock authentication or for custom
// authentication implementations.
func WithAuthMiddleware(m mw.Middleware) Option {
	return func(srv *CondaStoreServer) {
		srv.authMiddleware = m
	}
}

// WithPrometheusMiddleware replaces the default Prometheus middleware.
// This allows sharing one Prometheus instance between several routers.
func WithPrometheusMiddleware(p *ginprometheus.Prometheus) Option {
	return func(srv *CondaStoreServer) {
		srv.sharedPrometheus = p
	}
}
