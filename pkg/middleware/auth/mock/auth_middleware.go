package mock

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	mwauth "github.com/quansight/conda-store-operator/pkg/middleware/auth"
	"github.com/quansight/conda-store-operator/pkg/models"
)

// AuthMiddleware is a mock implementation of middleware.Middleware for testing.
// It bypasses real token resolution and injects a fixed service identity
// into the Gin context, allowing tests to simulate different callers.
type AuthMiddleware struct {
	// Service is the fixed service name to inject into all requests
	Service string
	// Reject makes every request fail as unauthorized
	Reject bool
}

// Use installs the mock authentication middleware into the provided Gin engine.
// This method implements the middleware.Middleware interface for testing.
func (m *AuthMiddleware) Use(e *gin.Engine, _ trace.Tracer) {
	e.Use(m.handler())
}

// UseGroup installs the mock authentication middleware into the provided Gin router group.
// This method implements the middleware.Middleware interface for testing.
func (m *AuthMiddleware) UseGroup(rg *gin.RouterGroup, _ trace.Tracer) {
	rg.Use(m.handler())
}

func (m *AuthMiddleware) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.Reject {
			c.JSON(http.StatusForbidden, models.NewErrorResponse("invalid token", nil))
			c.Abort()
			return
		}
		mwauth.SetService(c, m.Service)
	}
}
