package utils_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/middleware"
	"github.com/SscSPs/coop_ledger/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-key-that-is-long-enough"

func TestGenerateLedgerToken_AcceptedByMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lc := domain.LedgerContext{TenantID: "coop-1", ActorID: "clerk-7", Role: domain.RoleClerk}
	token, err := utils.GenerateLedgerToken(secret, lc, time.Hour, "ledger-token")
	require.NoError(t, err)

	var got domain.LedgerContext
	r := gin.New()
	r.GET("/whoami", middleware.AuthMiddleware(secret), func(c *gin.Context) {
		got, _ = middleware.GetLedgerContext(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, lc, got)
}

func TestGenerateLedgerToken_Rejects(t *testing.T) {
	_, err := utils.GenerateLedgerToken("", domain.LedgerContext{TenantID: "coop-1", ActorID: "a"}, time.Hour, "")
	assert.Error(t, err)

	_, err = utils.GenerateLedgerToken(secret, domain.LedgerContext{TenantID: "coop-1"}, time.Hour, "")
	assert.Error(t, err)
}

func TestGenerateLedgerToken_Expired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	token, err := utils.GenerateLedgerToken(secret, domain.LedgerContext{TenantID: "coop-1", ActorID: "a", Role: domain.RoleAdmin}, -time.Minute, "")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/", middleware.AuthMiddleware(secret), func(c *gin.Context) { c.Status(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token has expired")
}
