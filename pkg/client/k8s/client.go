package k8s

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/quansight/conda-store-operator/api/v1alpha1"
	"github.com/quansight/conda-store-operator/pkg/outputs"
	"github.com/quansight/conda-store-operator/pkg/token"
)

type condaStoreClient struct {
	client client.Client
	tracer trace.Tracer
	opts   ClientOptions
}

func NewCondaStoreClient(client client.Client, opts ClientOptions) CondaStoreClient {
	return &condaStoreClient{
		client: client,
		tracer: otel.Tracer("conda_store_k8s_client"),
		opts:   opts,
	}
}

func (c *condaStoreClient) getShare(ctx context.Context) (*v1alpha1.CondaStore, humane.Error) {
	resName := client.ObjectKey{
		Name:      c.opts.ShareName,
		Namespace: c.opts.Namespace,
	}

	var store v1alpha1.CondaStore
	if err := c.client.Get(ctx, resName, &store); err != nil {
		if k8serrors.IsNotFound(err) {
			return nil, humane.Wrap(err, "Share not declared",
				fmt.Sprintf("Create a CondaStore resource named %s in namespace %s", c.opts.ShareName, c.opts.Namespace),
			)
		}
		return nil, humane.Wrap(err, "Failed to load CondaStore resource")
	}

	return &store, nil
}

func (c *condaStoreClient) getTokensSecret(ctx context.Context) (*corev1.Secret, humane.Error) {
	resName := client.ObjectKey{
		Name:      TokensSecretName,
		Namespace: c.opts.Namespace,
	}

	var secret corev1.Secret
	if err := c.client.Get(ctx, resName, &secret); err != nil {
		if k8serrors.IsNotFound(err) {
			return nil, NotReadyYetError
		}
		return nil, humane.Wrap(err, "Failed to load tokens Secret")
	}

	return &secret, nil
}

// GetOutputs assembles the endpoint, the cluster IP and the rendered token map
func (c *condaStoreClient) GetOutputs(ctx context.Context) (*outputs.Outputs, humane.Error) {
	ctx, span := c.tracer.Start(ctx, "CondaStoreClient.GetOutputs")
	defer span.End()

	store, err := c.getShare(ctx)
	if err != nil {
		return nil, err
	}

	if !store.Status.Provisioned {
		return nil, NotReadyYetError
	}

	endpoint, err := c.GetEndpoint(ctx)
	if err != nil {
		return nil, err
	}

	secret, err := c.getTokensSecret(ctx)
	if err != nil {
		return nil, err
	}

	services := make([]string, 0, len(store.Spec.Services))
	for svc := range store.Spec.Services {
		services = append(services, svc)
	}
	sort.Strings(services)

	raw := make(map[string]string, len(secret.Data))
	for svc, val := range secret.Data {
		raw[svc] = string(val)
	}

	return outputs.Project(c.opts.ServiceName, c.opts.Namespace, endpoint.EndpointIP, services, raw)
}

func (c *condaStoreClient) GetEndpoint(ctx context.Context) (*EndpointInfo, humane.Error) {
	ctx, span := c.tracer.Start(ctx, "CondaStoreClient.GetEndpoint")
	defer span.End()

	resName := client.ObjectKey{
		Name:      c.opts.ServiceName,
		Namespace: c.opts.Namespace,
	}

	var svc corev1.Service
	if err := c.client.Get(ctx, resName, &svc); err != nil {
		if k8serrors.IsNotFound(err) {
			return nil, NotReadyYetError
		}
		return nil, humane.Wrap(err, "Failed to load NFS service")
	}

	return &EndpointInfo{
		Endpoint:   outputs.Endpoint(c.opts.ServiceName, c.opts.Namespace),
		EndpointIP: svc.Spec.ClusterIP,
	}, nil
}

func (c *condaStoreClient) GetServiceToken(ctx context.Context, service string) (string, humane.Error) {
	ctx, span := c.tracer.Start(ctx, "CondaStoreClient.GetServiceToken")
	defer span.End()

	store, err := c.getShare(ctx)
	if err != nil {
		return "", err
	}

	if _, declared := store.Spec.Services[service]; !declared {
		return "", humane.New(
			fmt.Sprintf("service %q is not declared on this share", service),
			"declare the service under spec.services of the CondaStore resource",
		)
	}

	if !store.Status.Provisioned {
		return "", NotReadyYetError
	}

	secret, err := c.getTokensSecret(ctx)
	if err != nil {
		return "", err
	}

	raw, ok := secret.Data[service]
	if !ok {
		return "", humane.New(
			fmt.Sprintf("no token minted for service(s): %s", service),
			"the tokens Secret is out of step with the declared services",
			"wait for the operator to reconcile the share, or check the operator logs if it keeps failing",
		)
	}

	return token.Render(string(raw)), nil
}

// RotateServiceToken drops the service's key from the tokens Secret and
// bumps the rotation annotation on the CondaStore. The operator re-mints
// the missing token on the next reconcile.
func (c *condaStoreClient) RotateServiceToken(ctx context.Context, service string) humane.Error {
	ctx, span := c.tracer.Start(ctx, "CondaStoreClient.RotateServiceToken")
	defer span.End()

	store, err := c.getShare(ctx)
	if err != nil {
		return err
	}

	if _, declared := store.Spec.Services[service]; !declared {
		return humane.New(
			fmt.Sprintf("service %q is not declared on this share", service),
			"declare the service under spec.services of the CondaStore resource",
		)
	}

	secret, err := c.getTokensSecret(ctx)
	if err != nil {
		return err
	}

	delete(secret.Data, service)
	if err := c.client.Update(ctx, secret); err != nil {
		return humane.Wrap(err, "Failed to invalidate old token")
	}

	if store.Annotations == nil {
		store.Annotations = map[string]string{}
	}
	store.Annotations[LastRotationRequest] = time.Now().Format(time.RFC3339)
	store.Annotations[RotateServices] = appendService(store.Annotations[RotateServices], service)
	if err := c.client.Update(ctx, store); err != nil {
		return humane.Wrap(err, "Failed to schedule token rotation")
	}

	otelzap.L().InfoContext(ctx, "Scheduled token rotation",
		zap.String("service", service),
		zap.String("namespace", c.opts.Namespace),
	)

	return nil
}

func (c *condaStoreClient) VerifyToken(ctx context.Context, presented string) (string, humane.Error) {
	ctx, span := c.tracer.Start(ctx, "CondaStoreClient.VerifyToken")
	defer span.End()

	store, err := c.getShare(ctx)
	if err != nil {
		return "", err
	}

	secret, err := c.getTokensSecret(ctx)
	if err != nil {
		return "", err
	}

	for svc := range store.Spec.Services {
		raw, ok := secret.Data[svc]
		if !ok {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(token.Render(string(raw))), []byte(presented)) == 1 {
			return svc, nil
		}
	}

	return "", humane.New("invalid token",
		"present the current token for a declared service",
		"tokens change when rotated; re-read the outputs if yours stopped working",
	)
}

func appendService(existing, service string) string {
	if existing == "" {
		return service
	}
	for _, s := range strings.Split(existing, ",") {
		if s == service {
			return existing
		}
	}
	return existing + "," + service
}
