package k8s

import "github.com/quansight/conda-store-operator/pkg/token"

// ClientOptions holds configuration for the share's naming and token policy.
type ClientOptions struct {
	Namespace   string
	ShareName   string
	ServiceName string
	TokenLength int
}

func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Namespace:   DefaultNamespace,
		ShareName:   DefaultShareName,
		ServiceName: DefaultServiceName,
		TokenLength: token.DefaultLength,
	}
}
