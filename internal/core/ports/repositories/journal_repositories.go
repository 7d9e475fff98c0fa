package repositories

import (
	"context"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves an entry header with its lines.
	FindJournalByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)

	// FindJournalBySourceEvent retrieves the entry generated for an event, or ErrNotFound.
	FindJournalBySourceEvent(ctx context.Context, tenantID string, eventType domain.EventType, eventID string) (*domain.JournalEntry, error)

	// ListJournals retrieves headers newest first using token-based pagination.
	ListJournals(ctx context.Context, tenantID string, params domain.ListJournalsParams) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal data. Callers run
// these inside TransactionManager.ExecuteTx on a WithTx-bound repository.
type JournalWriter interface {
	// SaveJournal assigns the entry number and inserts header and lines.
	SaveJournal(ctx context.Context, entry *domain.JournalEntry) error

	// LockJournalForUpdate reads a header (with lines) holding a row lock until the transaction ends.
	LockJournalForUpdate(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)

	// UpdateJournalStatus applies a status transition guarded by the expected status and version.
	UpdateJournalStatus(ctx context.Context, change domain.StatusChange) error

	// ReplaceDraft rewrites header fields and lines of a draft, guarded by version.
	ReplaceDraft(ctx context.Context, entry *domain.JournalEntry) error

	// MarkReversed links a posted entry to the entry that offsets it.
	MarkReversed(ctx context.Context, tenantID, entryID, reversalID, userID string, expectedVersion int) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

// JournalRepositoryWithTx can rebind itself to a running transaction.
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	WithTx(tx pgx.Tx) JournalRepositoryFacade
}
