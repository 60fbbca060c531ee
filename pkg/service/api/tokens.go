package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/quansight/conda-store-operator/pkg/client/k8s"
	mwauth "github.com/quansight/conda-store-operator/pkg/middleware/auth"
	"github.com/quansight/conda-store-operator/pkg/models"
)

// requestedService returns the service a token operation targets: the
// explicit ?service= query parameter, or the caller's own identity.
func requestedService(ct *gin.Context) string {
	if svc := ct.Query("service"); svc != "" {
		return svc
	}
	return mwauth.GetService(ct)
}

// getToken handles retrieving the token for one declared service.
// @Summary       Get a service token
// @Description   Returns the base64-encoded token for a declared service. Defaults to the calling service when no service parameter is given.
// @Tags          tokens
// @Produce       application/json
// @Param         service     query     string false              "Service name (defaults to the calling service)"
// @Success       200         {object}  models.TokenResponse      "OK - Returns the rendered token"
// @Failure       401         {object}  models.ErrorResponse      "Unauthorized - Missing bearer token"
// @Failure       403         {object}  models.ErrorResponse      "Forbidden - Unknown bearer token"
// @Failure       404         {object}  models.ErrorResponse      "Not Found - Share not declared"
// @Failure       500         {object}  models.ErrorResponse      "Internal Server Error - Service not declared or token missing"
// @Header        202         {integer} Retry-After               "Seconds until next poll recommended"
// @Router        /api/v1alpha1/token [get]
// @Security      ServiceToken
func (t *CondaStoreServer) getToken(ct *gin.Context) {
	req := ct.Request
	service := requestedService(ct)

	ctx, span := t.tracer.Start(req.Context(), "CondaStoreServer.getToken")
	defer span.End()

	span.SetAttributes(attribute.String("token.service", service))

	rendered, err := t.client.GetServiceToken(ctx, service)
	if err != nil {
		if err == k8s.NotReadyYetError {
			span.SetAttributes(
				attribute.String("token.status", "not_ready"),
				attribute.Int("token.http_status", http.StatusAccepted),
			)
			ct.Header("Retry-After", strconv.Itoa(t.retryAfterSeconds))
			ct.Status(http.StatusAccepted)
			otelzap.L().InfoContext(ctx, "Token not ready yet",
				zap.String("service", service),
				zap.Int("http_status", http.StatusAccepted),
			)
			return
		}

		span.SetAttributes(attribute.String("token.status", "error"))
		span.SetStatus(codes.Error, "error getting token")
		span.RecordError(err)
		otelzap.L().WithError(err).ErrorContext(ctx, "Error getting token")
		writeHumaneError(ct, err, http.StatusNotFound)
		return
	}

	span.SetAttributes(attribute.String("token.status", "success"))

	ct.JSON(http.StatusOK, models.NewTokenResponse(service, rendered))
}

// rotateToken handles requesting a fresh token for one declared service.
// @Summary       Rotate a service token
// @Description   Invalidates the current token for a declared service and schedules a fresh one. The new token appears in the outputs once the operator has reconciled.
// @Tags          tokens
// @Produce       application/json
// @Param         service     query     string false              "Service name (defaults to the calling service)"
// @Success       202         {object}  models.TokenResponse      "Accepted - Rotation scheduled"
// @Failure       401         {object}  models.ErrorResponse      "Unauthorized - Missing bearer token"
// @Failure       403         {object}  models.ErrorResponse      "Forbidden - Unknown bearer token"
// @Failure       404         {object}  models.ErrorResponse      "Not Found - Share not declared"
// @Failure       500         {object}  models.ErrorResponse      "Internal Server Error - Service not declared or rotation could not be scheduled"
// @Header        202         {integer} Retry-After               "Seconds until next poll recommended"
// @Router        /api/v1alpha1/token/rotate [post]
// @Security      ServiceToken
func (t *CondaStoreServer) rotateToken(ct *gin.Context) {
	req := ct.Request
	caller := mwauth.GetService(ct)
	service := requestedService(ct)

	ctx, span := t.tracer.Start(req.Context(), "CondaStoreServer.rotateToken")
	defer span.End()

	span.SetAttributes(
		attribute.String("rotate.caller", caller),
		attribute.String("rotate.service", service),
	)

	if err := t.client.RotateServiceToken(ctx, service); err != nil {
		if err == k8s.NotReadyYetError {
			span.SetAttributes(
				attribute.String("rotate.status", "not_ready"),
				attribute.Int("rotate.http_status", http.StatusAccepted),
			)
			ct.Header("Retry-After", strconv.Itoa(t.retryAfterSeconds))
			ct.Status(http.StatusAccepted)
			otelzap.L().InfoContext(ctx, "Rotation not possible yet",
				zap.String("service", service),
				zap.Int("http_status", http.StatusAccepted),
			)
			return
		}

		span.SetAttributes(attribute.String("rotate.status", "error"))
		span.SetStatus(codes.Error, "error rotating token")
		span.RecordError(err)
		otelzap.L().WithError(err).ErrorContext(ctx, "Error rotating token")
		tokenRotations.WithLabelValues(service, "error").Inc()
		writeHumaneError(ct, err, http.StatusNotFound)
		return
	}

	span.SetAttributes(
		attribute.String("rotate.status", "accepted"),
		attribute.Int("rotate.http_status", http.StatusAccepted),
	)
	tokenRotations.WithLabelValues(service, "accepted").Inc()

	// The fresh token is minted asynchronously by the operator
	ct.Header("Retry-After", strconv.Itoa(t.retryAfterSeconds))
	ct.JSON(http.StatusAccepted, models.NewTokenResponse(service, ""))
}
