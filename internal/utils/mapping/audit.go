package mapping

import (
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/models"
)

// The domain and row audit columns share a layout, so they convert directly.
func auditRow(a domain.AuditFields) models.AuditFields {
	return models.AuditFields(a)
}

// auditFromRow also pins timestamps to UTC; pgx returns timestamptz in the
// session's local zone.
func auditFromRow(a models.AuditFields) domain.AuditFields {
	a.CreatedAt = a.CreatedAt.UTC()
	a.LastUpdatedAt = a.LastUpdatedAt.UTC()
	return domain.AuditFields(a)
}
