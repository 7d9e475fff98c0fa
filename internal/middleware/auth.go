package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// LedgerClaims are the JWT claims issued by the cooperative's identity
// service. Subject is the actor id.
type LedgerClaims struct {
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens
// and stores the actor, tenant and role on the request context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header format must be Bearer {token}")
			return
		}

		claims := &LedgerClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			logger.Warn("Invalid token", slog.Any("error", err))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", msg)
			return
		}

		if claims.Subject == "" || claims.TenantID == "" {
			logger.Error("Subject or tenant missing from valid token")
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token claims")
			return
		}

		role := domain.ParseTenantRole(claims.Role)
		enrichedLogger := logger.With(
			slog.String("user_id", claims.Subject),
			slog.String("tenant_id", claims.TenantID),
		)
		ctx := withIdentity(c.Request.Context(), claims.Subject, claims.TenantID, role)
		c.Request = c.Request.WithContext(WithLogger(ctx, enrichedLogger))

		c.Next()
	}
}

// abortWithError writes the standard error envelope and stops the chain.
func abortWithError(c *gin.Context, status int, code, message string) {
	body := gin.H{"error": gin.H{"code": code, "message": message}}
	if correlationID := GetCorrelationID(c); correlationID != "" {
		body["correlation_id"] = correlationID
	}
	c.AbortWithStatusJSON(status, body)
}
