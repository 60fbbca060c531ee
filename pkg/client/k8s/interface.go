// Package k8s implements the business logic layer between the HTTP API
// and the Kubernetes resources the operator manages. It reads the
// CondaStore resource, the NFS Service, and the tokens Secret, and
// projects them into the published outputs.
package k8s

import (
	"context"

	humane "github.com/sierrasoftworks/humane-errors-go"

	"github.com/quansight/conda-store-operator/pkg/outputs"
)

// EndpointInfo is the cluster-internal address of one share in a
// router-agnostic format.
type EndpointInfo struct {
	// Endpoint is the DNS name of the NFS service.
	Endpoint string
	// EndpointIP is the Service's cluster IP, passed through verbatim.
	EndpointIP string
}

// CondaStoreClient defines the read and rotate operations for a
// provisioned conda-store share.
//
// Implementations should:
// Handle all business logic validation
// Return humane.Error for structured error handling
// Be safe for concurrent use
type CondaStoreClient interface {
	// GetOutputs assembles the full published view of the share.
	// Fails with NotReadyYetError while provisioning is in flight.
	GetOutputs(ctx context.Context) (*outputs.Outputs, humane.Error)

	// GetEndpoint returns the share's DNS name and cluster IP.
	GetEndpoint(ctx context.Context) (*EndpointInfo, humane.Error)

	// GetServiceToken returns the rendered token for one declared service.
	GetServiceToken(ctx context.Context, service string) (string, humane.Error)

	// RotateServiceToken schedules a new token for one declared service.
	// This is an asynchronous operation; the fresh token appears in the
	// outputs once the operator has reconciled.
	RotateServiceToken(ctx context.Context, service string) humane.Error

	// VerifyToken resolves a presented bearer token to the service it
	// was minted for. Unknown tokens fail.
	VerifyToken(ctx context.Context, presented string) (string, humane.Error)
}
