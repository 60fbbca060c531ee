package auth

import "github.com/gin-gonic/gin"

const (
	contextKeyService = "auth_service"
)

// SetService stores the authenticated service name in the Gin context.
// This function is used by authentication middleware to make the caller's
// identity available to downstream HTTP handlers.
func SetService(c *gin.Context, service string) {
	c.Set(contextKeyService, service)
}

// GetService retrieves the authenticated service name from the Gin context.
func GetService(c *gin.Context) string {
	if service, ok := c.Get(contextKeyService); ok {
		if s, ok := service.(string); ok {
			return s
		}
	}
	return ""
}
