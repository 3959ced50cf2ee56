package middleware

import (
	"github.com/Ontinet-com/contract/internal/types"
	"github.com/gin-gonic/gin"
)

// IdentityMiddleware scopes the request to the tenant and user named in the
// request headers, falling back to the default identity.
func IdentityMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	if tenantID := c.GetHeader(types.HeaderTenantID); tenantID != "" {
		ctx = types.SetTenantID(ctx, tenantID)
	}
	if userID := c.GetHeader(types.HeaderUserID); userID != "" {
		ctx = types.SetUserID(ctx, userID)
	}

	c.Request = c.Request.WithContext(types.WithDefaultIdentity(ctx))
	c.Next()
}
