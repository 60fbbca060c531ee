// Package outputs projects a provisioned conda-store share into the
// values its consumers need: the in-cluster NFS endpoint, the service's
// cluster IP, and one rendered token per declared service.
package outputs

import (
	"fmt"
	"sort"
	"strings"

	humane "github.com/sierrasoftworks/humane-errors-go"

	"github.com/quansight/conda-store-operator/pkg/token"
)

// ClusterDomainSuffix is the cluster-local DNS zone services resolve
// under. The endpoint is always built against it; a share is only
// reachable from inside the cluster.
const ClusterDomainSuffix = "svc.cluster.local"

// Outputs is the published view of one conda-store share.
type Outputs struct {
	// Endpoint is the cluster-internal DNS name of the NFS service,
	// of the form <service>.<namespace>.svc.cluster.local.
	Endpoint string `json:"endpoint"`

	// EndpointIP is the cluster IP assigned to the NFS service,
	// passed through verbatim.
	EndpointIP string `json:"endpoint_ip"`

	// ServiceTokens maps each declared service to its base64-rendered
	// token. The key set always equals the declared service set.
	ServiceTokens map[string]string `json:"service-tokens"`
}

// Endpoint builds the cluster-internal DNS name for a service in a
// namespace.
func Endpoint(serviceName, namespace string) string {
	return fmt.Sprintf("%s.%s.%s", serviceName, namespace, ClusterDomainSuffix)
}

// Project assembles the Outputs for a share. services is the declared
// service set; tokens maps service names to their raw (unencoded)
// tokens. Every declared service must have a token: if any are
// missing, Project fails and names all of them, so a half-minted
// Secret is surfaced in one pass instead of key by key.
func Project(serviceName, namespace, clusterIP string, services []string, tokens map[string]string) (*Outputs, humane.Error) {
	missing := make([]string, 0)
	rendered := make(map[string]string, len(services))
	for _, svc := range services {
		raw, ok := tokens[svc]
		if !ok {
			missing = append(missing, svc)
			continue
		}
		rendered[svc] = token.Render(raw)
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, humane.New(
			fmt.Sprintf("no token minted for service(s): %s", strings.Join(missing, ", ")),
			"the tokens Secret is out of step with the declared services",
			"wait for the operator to reconcile the share, or check the operator logs if it keeps failing",
		)
	}

	return &Outputs{
		Endpoint:      Endpoint(serviceName, namespace),
		EndpointIP:    clusterIP,
		ServiceTokens: rendered,
	}, nil
}
