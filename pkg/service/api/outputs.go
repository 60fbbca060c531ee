package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"sigs.k8s.io/yaml"

	"github.com/quansight/conda-store-operator/pkg/client/k8s"
	mwauth "github.com/quansight/conda-store-operator/pkg/middleware/auth"
	"github.com/quansight/conda-store-operator/pkg/models"
)

// getOutputs handles retrieving the full published view of the share.
// @Summary       Get the outputs of the conda-store share
// @Description   Returns the NFS endpoint, the service cluster IP, and the rendered token map for all declared services
// @Tags          outputs
// @Produce       application/json
// @Produce       application/yaml
// @Success       200         {object}  outputs.Outputs           "OK - Returns the share outputs"
// @Failure       401         {object}  models.ErrorResponse      "Unauthorized - Missing bearer token"
// @Failure       403         {object}  models.ErrorResponse      "Forbidden - Unknown bearer token"
// @Failure       404         {object}  models.ErrorResponse      "Not Found - Share not declared"
// @Failure       500         {object}  models.ErrorResponse      "Internal Server Error - Token bookkeeping out of step with declared services"
// @Header        202         {integer} Retry-After               "Seconds until next poll recommended"
// @Router        /api/v1alpha1/outputs [get]
// @Security      ServiceToken
func (t *CondaStoreServer) getOutputs(ct *gin.Context) {
	req := ct.Request
	service := mwauth.GetService(ct)

	ctx, span := t.tracer.Start(req.Context(), "CondaStoreServer.getOutputs")
	defer span.End()

	span.SetAttributes(attribute.String("outputs.service", service))

	out, err := t.client.GetOutputs(ctx)
	if err != nil {
		// If the operator is still provisioning, return 202
		if err == k8s.NotReadyYetError {
			span.SetAttributes(
				attribute.String("outputs.status", "not_ready"),
				attribute.Int("outputs.http_status", http.StatusAccepted),
			)
			ct.Header("Retry-After", strconv.Itoa(t.retryAfterSeconds))
			ct.Status(http.StatusAccepted)
			otelzap.L().InfoContext(ctx, "Outputs not ready yet",
				zap.String("service", service),
				zap.Int("http_status", http.StatusAccepted),
			)
			return
		}

		span.SetAttributes(attribute.String("outputs.status", "error"))
		span.SetStatus(codes.Error, "error getting outputs")
		span.RecordError(err)
		otelzap.L().WithError(err).ErrorContext(ctx, "Error getting outputs")
		outputsReads.WithLabelValues(service, "error").Inc()
		writeHumaneError(ct, err, http.StatusNotFound)
		return
	}

	span.SetAttributes(
		attribute.String("outputs.status", "success"),
		attribute.Int("outputs.http_status", http.StatusOK),
	)
	outputsReads.WithLabelValues(service, "success").Inc()

	// Content negotiation: YAML if explicitly requested, otherwise JSON
	if acceptsYAML(ct) {
		span.SetAttributes(attribute.String("outputs.format", "yaml"))
		if data, yerr := yaml.Marshal(out); yerr == nil {
			ct.Data(http.StatusOK, "application/yaml", data)
			return
		}
		// Fall through to JSON on marshal error
	}
	span.SetAttributes(attribute.String("outputs.format", "json"))
	ct.JSON(http.StatusOK, out)
}

// getEndpoint handles retrieving the NFS endpoint address of the share.
// @Summary       Get the NFS endpoint of the conda-store share
// @Description   Returns the cluster-internal DNS name and cluster IP of the NFS service
// @Tags          outputs
// @Produce       application/json
// @Success       200         {object}  models.EndpointResponse   "OK - Returns the endpoint address"
// @Failure       401         {object}  models.ErrorResponse      "Unauthorized - Missing bearer token"
// @Failure       403         {object}  models.ErrorResponse      "Forbidden - Unknown bearer token"
// @Failure       404         {object}  models.ErrorResponse      "Not Found - Share not declared"
// @Header        202         {integer} Retry-After               "Seconds until next poll recommended"
// @Router        /api/v1alpha1/endpoint [get]
// @Security      ServiceToken
func (t *CondaStoreServer) getEndpoint(ct *gin.Context) {
	req := ct.Request
	service := mwauth.GetService(ct)

	ctx, span := t.tracer.Start(req.Context(), "CondaStoreServer.getEndpoint")
	defer span.End()

	span.SetAttributes(attribute.String("endpoint.service", service))

	info, err := t.client.GetEndpoint(ctx)
	if err != nil {
		if err == k8s.NotReadyYetError {
			span.SetAttributes(
				attribute.String("endpoint.status", "not_ready"),
				attribute.Int("endpoint.http_status", http.StatusAccepted),
			)
			ct.Header("Retry-After", strconv.Itoa(t.retryAfterSeconds))
			ct.Status(http.StatusAccepted)
			return
		}

		span.SetAttributes(attribute.String("endpoint.status", "error"))
		span.SetStatus(codes.Error, "error getting endpoint")
		span.RecordError(err)
		otelzap.L().WithError(err).ErrorContext(ctx, "Error getting endpoint")
		writeHumaneError(ct, err, http.StatusNotFound)
		return
	}

	span.SetAttributes(
		attribute.String("endpoint.status", "success"),
		attribute.String("endpoint.dns", info.Endpoint),
	)

	ct.JSON(http.StatusOK, models.EndpointResponse{
		Endpoint:   info.Endpoint,
		EndpointIP: info.EndpointIP,
	})
}
