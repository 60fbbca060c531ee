package v1alpha1

import (
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ServiceGrant describes what a platform service is allowed to do with the
// shared environment store. Only the key of the services map determines the
// token set; the grant body is carried through to consumers of the share.
type ServiceGrant struct {
	// +kubebuilder:validation:Optional
	Roles []string `json:"roles,omitempty"`
}

type CondaStoreSpec struct {
	// Services enumerates the platform services that receive an access token
	// for the shared store. One token is minted per key.
	// +kubebuilder:validation:Required
	Services map[string]ServiceGrant `json:"services"`

	// Capacity is the size of the PersistentVolumeClaim backing the share.
	// +kubebuilder:validation:Optional
	Capacity *resource.Quantity `json:"capacity,omitempty"`

	// TokenLength overrides the default length of generated service tokens.
	// +kubebuilder:validation:Optional
	// +kubebuilder:validation:Minimum=16
	TokenLength int `json:"token_length,omitempty"`
}

type CondaStoreStatus struct {
	Provisioned   bool   `json:"provisioned"`
	Endpoint      string `json:"endpoint"`
	EndpointIP    string `json:"endpoint_ip"`
	TokensSecret  string `json:"tokens_secret"`
	ProvisionedAt string `json:"provisioned_at"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=cs
// +kubebuilder:printcolumn:name="provisioned",type=boolean,JSONPath=`.status.provisioned`,description="true if the NFS share and service tokens are provisioned"
// +kubebuilder:printcolumn:name="endpoint",type=string,JSONPath=`.status.endpoint`,description="cluster-internal DNS name of the share"
// +kubebuilder:printcolumn:name="ip",type=string,JSONPath=`.status.endpoint_ip`,description="cluster IP of the share service"
type CondaStore struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   CondaStoreSpec   `json:"spec,omitempty"`
	Status CondaStoreStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

type CondaStoreList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []CondaStore `json:"items"`
}

func init() {
	SchemeBuilder.Register(&CondaStore{}, &CondaStoreList{})
}
