package pgsql

import (
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/coop_ledger/pkg/database"
)

// NewRepositoryProvider wires every pgsql repository onto db's pool.
// audit may be nil when no audit store is configured.
func NewRepositoryProvider(db *database.PostgresDB, audit portsrepo.AuditTrail) portsrepo.RepositoryProvider {
	pool := db.Pool()
	return portsrepo.RepositoryProvider{
		TxManager:   db,
		AccountRepo: newPgxAccountRepository(pool),
		JournalRepo: newPgxJournalRepository(pool),
		ReportRepo:  newReportingRepository(pool),
		EventRepo:   newPgxEventSourceRepository(pool),
		AuditRepo:   audit,
	}
}
