package middleware

import (
	"context"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = contextKey("userID")
	tenantIDKey = contextKey("tenantID")
	roleKey     = contextKey("role")
)

// GetUserIDFromContext retrieves the authenticated user ID from the request context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetLedgerContext builds the explicit tenant/actor scope from the values
// the auth middleware stored on the request.
func GetLedgerContext(c *gin.Context) (domain.LedgerContext, bool) {
	ctx := c.Request.Context()
	userID, _ := ctx.Value(userIDKey).(string)
	tenantID, _ := ctx.Value(tenantIDKey).(string)
	role, _ := ctx.Value(roleKey).(domain.TenantRole)
	lc := domain.LedgerContext{TenantID: tenantID, ActorID: userID, Role: role}
	return lc, lc.Valid()
}

// withIdentity stores the authenticated identity on ctx.
func withIdentity(ctx context.Context, userID, tenantID string, role domain.TenantRole) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, tenantIDKey, tenantID)
	return context.WithValue(ctx, roleKey, role)
}
