package k8s

// Annotation keys used on CondaStore resources to track token lifecycle.
const (
	// LastRotationRequest stores the timestamp of the most recent token
	// rotation request. Bumping it forces a reconcile.
	LastRotationRequest = "condastore.quansight.dev/last-rotation-request"
	// RotateServices lists the services whose tokens should be re-minted
	// on the next reconcile, comma separated.
	RotateServices = "condastore.quansight.dev/rotate-services"
)
