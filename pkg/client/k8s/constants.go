package k8s

import (
	"github.com/sierrasoftworks/humane-errors-go"
)

// Defaults are used when no configuration is provided via ClientOptions.
const (
	DefaultNamespace   = "conda-store"
	DefaultShareName   = "conda-store"
	DefaultServiceName = "conda-store-nfs"

	// TokensSecretName is the Secret holding one raw token per declared
	// service. The operator owns its contents.
	TokensSecretName = "conda-store-service-tokens"

	// NFSServerImage serves the share over NFSv3 and NFSv4.
	NFSServerImage = "gcr.io/google_containers/volume-nfs:0.8"
)

// NFS server ports. Mountd and rpcbind are needed for NFSv3 clients.
const (
	NFSPort     = 2049
	MountdPort  = 20048
	RPCBindPort = 111
)

var NotReadyYetError = humane.New("Not ready yet", "Please wait for the conda-store share to finish provisioning")
