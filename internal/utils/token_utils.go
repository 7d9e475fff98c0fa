package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateLedgerToken signs an HS256 token the ledger's auth middleware accepts.
func GenerateLedgerToken(secret string, lc domain.LedgerContext, expiryDuration time.Duration, issuer string) (string, error) {
	if secret == "" {
		return "", errors.New("secret is required")
	}
	if !lc.Valid() {
		return "", errors.New("tenant and actor are required")
	}
	now := time.Now()
	claims := middleware.LedgerClaims{
		TenantID: lc.TenantID,
		Role:     strings.ToLower(string(lc.Role)),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   lc.ActorID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
