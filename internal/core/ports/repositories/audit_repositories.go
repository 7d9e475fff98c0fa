package repositories

import (
	"context"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

// AuditTrail stores lifecycle records outside the ledger tables.
type AuditTrail interface {
	RecordAudit(ctx context.Context, record domain.AuditRecord) error
	ListAudit(ctx context.Context, tenantID, entryID string) ([]domain.AuditRecord, error)
}
