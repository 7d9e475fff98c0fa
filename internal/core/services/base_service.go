package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	now func() time.Time
}

// Now returns the service clock, UTC.
func (s *BaseService) Now() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// AuthorizeUser checks that lc names a tenant and actor and carries at least
// the required role.
func (s *BaseService) AuthorizeUser(ctx context.Context, lc domain.LedgerContext, requiredRole domain.TenantRole) error {
	if !lc.Valid() {
		return fmt.Errorf("%w: tenant and actor are required", apperrors.ErrUnauthorized)
	}
	if !lc.Role.Satisfies(requiredRole) {
		s.LogDebug(ctx, "Actor lacks required role",
			slog.String("user_id", lc.ActorID),
			slog.String("tenant_id", lc.TenantID),
			slog.String("role", string(lc.Role)),
			slog.String("required_role", string(requiredRole)))
		return fmt.Errorf("%w: role %s required", apperrors.ErrForbidden, requiredRole)
	}
	return nil
}
