// Package auth provides bearer-token authentication middleware for the
// conda-store provisioning API. Callers present the token minted for
// their service; the middleware resolves it back to the service name
// and makes that identity available to downstream handlers.
package auth

import (
	"context"
	"net/http"
	"strings"

	// misc
	"github.com/gin-gonic/gin"
	humane "github.com/sierrasoftworks/humane-errors-go"

	// o11y
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.opentelemetry.io/otel/trace"

	"github.com/quansight/conda-store-operator/pkg/models"
)

// Resolver resolves a presented bearer token to the service it was
// minted for. k8s.CondaStoreClient satisfies this.
type Resolver interface {
	VerifyToken(ctx context.Context, presented string) (string, humane.Error)
}

// ginAuthMiddleware authenticates requests by their bearer token.
//
// The middleware performs these steps:
//  1. Extracts the token from the Authorization header
//  2. Resolves it against the currently minted service tokens
//  3. Stores the calling service's name in the Gin context for handlers
type ginAuthMiddleware struct {
	resolver Resolver
}

// NewGinAuthMiddleware creates a new bearer-token authentication
// middleware for Gin. The resolver is consulted on every request, so a
// rotated token stops working as soon as the operator has re-minted it.
func NewGinAuthMiddleware(resolver Resolver) *ginAuthMiddleware {
	return &ginAuthMiddleware{
		resolver: resolver,
	}
}

// Use installs the authentication middleware into the provided Gin engine.
// This method implements the middleware.Middleware interface.
// The middleware will be applied to all routes registered after this call.
func (m *ginAuthMiddleware) Use(e *gin.Engine, tracer trace.Tracer) {
	e.Use(m.handler(tracer))
}

// UseGroup installs the authentication middleware on a route group only,
// leaving sibling routes (health, docs) unauthenticated.
func (m *ginAuthMiddleware) UseGroup(rg *gin.RouterGroup, tracer trace.Tracer) {
	rg.Use(m.handler(tracer))
}

func (m *ginAuthMiddleware) handler(tracer trace.Tracer) gin.HandlerFunc {
	return func(ct *gin.Context) {
		req := ct.Request

		ctx, span := tracer.Start(req.Context(), "Middleware.Auth")
		defer span.End()

		header := req.Header.Get("Authorization")
		presented, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || presented == "" {
			otelzap.L().ErrorContext(ctx, "Request without bearer token")
			ct.JSON(http.StatusUnauthorized, models.NewErrorResponse("Missing bearer token", nil))
			ct.Abort()
			return
		}

		service, herr := m.resolver.VerifyToken(ctx, presented)
		if herr != nil {
			otelzap.L().WithError(herr).ErrorContext(ctx, "Failed to resolve bearer token")
			ct.JSON(http.StatusForbidden, models.FromHumaneError(herr))
			ct.Abort()
			return
		}

		SetService(ct, service)

		ct.Next()
	}
}
