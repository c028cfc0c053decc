package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// TenantContextKey is a gin context key for the resolved tenant identifier.
	TenantContextKey = "tenantID"
	tenantHeaderName = "X-Tenant-ID"
)

// TenantRequired resolves the tenant from the request header and rejects
// requests without one. Every points route is tenant scoped.
func TenantRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader(tenantHeaderName)
		if tenantID == "" {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		c.Set(TenantContextKey, tenantID)
		c.Next()
	}
}
