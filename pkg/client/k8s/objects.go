package k8s

import (
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/quansight/conda-store-operator/api/v1alpha1"
)

// DefaultShareCapacity is requested for the backing volume when the
// CondaStore spec leaves capacity unset.
var DefaultShareCapacity = resource.MustParse("10Gi")

// FormatPVCName generates the PersistentVolumeClaim name for a share.
// The namespace is baked into the name so shares from different
// namespaces never collide on pre-provisioned volumes.
func FormatPVCName(namespace string) string {
	return fmt.Sprintf("conda-store-%s-share", namespace)
}

func nfsLabels(serviceName string) map[string]string {
	return map[string]string{
		"role": serviceName,
	}
}

// NewSharePVC creates the PersistentVolumeClaim backing the share.
func NewSharePVC(store *v1alpha1.CondaStore, opts ClientOptions) *corev1.PersistentVolumeClaim {
	capacity := DefaultShareCapacity
	if store.Spec.Capacity != nil {
		capacity = *store.Spec.Capacity
	}

	return &corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{
			Name:      FormatPVCName(store.Namespace),
			Namespace: store.Namespace,
		},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{
				corev1.ReadWriteOnce,
			},
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{
					corev1.ResourceStorage: capacity,
				},
			},
		},
	}
}

// NewNFSServer creates the Deployment running the NFS server that
// exports the share volume.
func NewNFSServer(store *v1alpha1.CondaStore, opts ClientOptions) *appsv1.Deployment {
	replicas := int32(1)
	privileged := true

	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      opts.ServiceName,
			Namespace: store.Namespace,
			Labels:    nfsLabels(opts.ServiceName),
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{
				MatchLabels: nfsLabels(opts.ServiceName),
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: nfsLabels(opts.ServiceName),
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:  "nfs-server",
							Image: NFSServerImage,
							Ports: []corev1.ContainerPort{
								{Name: "nfs", ContainerPort: NFSPort},
								{Name: "mountd", ContainerPort: MountdPort},
								{Name: "rpcbind", ContainerPort: RPCBindPort},
							},
							SecurityContext: &corev1.SecurityContext{
								// The in-kernel NFS server needs privileged
								// access to register its exports.
								Privileged: &privileged,
							},
							VolumeMounts: []corev1.VolumeMount{
								{
									Name:      "exports",
									MountPath: "/exports",
								},
							},
						},
					},
					Volumes: []corev1.Volume{
						{
							Name: "exports",
							VolumeSource: corev1.VolumeSource{
								PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
									ClaimName: FormatPVCName(store.Namespace),
								},
							},
						},
					},
				},
			},
		},
	}
}

// NewNFSService creates the ClusterIP Service fronting the NFS server.
// Its DNS name and cluster IP are what the outputs publish.
func NewNFSService(store *v1alpha1.CondaStore, opts ClientOptions) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      opts.ServiceName,
			Namespace: store.Namespace,
			Labels:    nfsLabels(opts.ServiceName),
		},
		Spec: corev1.ServiceSpec{
			Selector: nfsLabels(opts.ServiceName),
			Ports: []corev1.ServicePort{
				{Name: "nfs", Port: NFSPort, TargetPort: intstr.FromString("nfs")},
				{Name: "mountd", Port: MountdPort, TargetPort: intstr.FromString("mountd")},
				{Name: "rpcbind", Port: RPCBindPort, TargetPort: intstr.FromString("rpcbind")},
			},
		},
	}
}

// NewTokensSecret creates the Secret holding one raw token per declared
// service. Values are stored unencoded; the API layer renders them.
func NewTokensSecret(store *v1alpha1.CondaStore, tokens map[string]string) *corev1.Secret {
	data := make(map[string][]byte, len(tokens))
	for svc, raw := range tokens {
		data[svc] = []byte(raw)
	}

	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      TokensSecretName,
			Namespace: store.Namespace,
		},
		Type: corev1.SecretTypeOpaque,
		Data: data,
	}
}
