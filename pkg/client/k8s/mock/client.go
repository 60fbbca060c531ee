package mock

import (
	"context"

	"github.com/sierrasoftworks/humane-errors-go"

	"github.com/quansight/conda-store-operator/pkg/client/k8s"
	"github.com/quansight/conda-store-operator/pkg/outputs"
)

// Compile-time interface verification
var _ k8s.CondaStoreClient = &MockCondaStoreClient{}

// MockCondaStoreClient provides a configurable mock implementation of
// k8s.CondaStoreClient for testing. It allows tests to simulate
// different scenarios (success, failure, async provisioning) without a
// real Kubernetes cluster or operator.
//
// Set the function fields to define custom behavior for each method.
// If a function field is nil, the method returns a default success
// response.
type MockCondaStoreClient struct {
	// OutputsFn defines custom behavior for GetOutputs method calls
	OutputsFn func() (*outputs.Outputs, humane.Error)
	// EndpointFn defines custom behavior for GetEndpoint method calls
	EndpointFn func() (*k8s.EndpointInfo, humane.Error)
	// ServiceTokenFn defines custom behavior for GetServiceToken method calls
	ServiceTokenFn func(service string) (string, humane.Error)
	// RotateFn defines custom behavior for RotateServiceToken method calls
	RotateFn func(service string) humane.Error
	// VerifyFn defines custom behavior for VerifyToken method calls
	VerifyFn func(presented string) (string, humane.Error)
}

// NewMockCondaStoreClient creates a new mock client with default
// (success) behavior.
func NewMockCondaStoreClient() k8s.CondaStoreClient {
	return &MockCondaStoreClient{}
}

func (m *MockCondaStoreClient) GetOutputs(_ context.Context) (*outputs.Outputs, humane.Error) {
	if m.OutputsFn != nil {
		return m.OutputsFn()
	}
	return &outputs.Outputs{ServiceTokens: map[string]string{}}, nil
}

func (m *MockCondaStoreClient) GetEndpoint(_ context.Context) (*k8s.EndpointInfo, humane.Error) {
	if m.EndpointFn != nil {
		return m.EndpointFn()
	}
	return &k8s.EndpointInfo{}, nil
}

func (m *MockCondaStoreClient) GetServiceToken(_ context.Context, service string) (string, humane.Error) {
	if m.ServiceTokenFn != nil {
		return m.ServiceTokenFn(service)
	}
	return "", nil
}

func (m *MockCondaStoreClient) RotateServiceToken(_ context.Context, service string) humane.Error {
	if m.RotateFn != nil {
		return m.RotateFn(service)
	}
	return nil
}

func (m *MockCondaStoreClient) VerifyToken(_ context.Context, presented string) (string, humane.Error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(presented)
	}
	return "", nil
}
