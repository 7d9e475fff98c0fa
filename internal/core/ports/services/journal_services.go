package services

import (
	"context"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	GetJournal(ctx context.Context, lc domain.LedgerContext, entryID string) (*domain.JournalEntry, error)
	ListJournals(ctx context.Context, lc domain.LedgerContext, params domain.ListJournalsParams) ([]domain.JournalEntry, *string, error)
	GetAuditTrail(ctx context.Context, lc domain.LedgerContext, entryID string) ([]domain.AuditRecord, error)
}

// JournalWriterSvc defines the draft/posted/void lifecycle
type JournalWriterSvc interface {
	// CreateJournal validates and stores a new draft entry atomically.
	CreateJournal(ctx context.Context, lc domain.LedgerContext, header domain.JournalHeader, lines []domain.LineInput) (*domain.JournalEntry, error)

	// UpdateDraft replaces the header fields and lines of a draft entry.
	UpdateDraft(ctx context.Context, lc domain.LedgerContext, entryID string, header domain.JournalHeader, lines []domain.LineInput) (*domain.JournalEntry, error)

	// Post moves a balanced draft to posted. It succeeds at most once per entry.
	Post(ctx context.Context, lc domain.LedgerContext, entryID string) (*domain.JournalEntry, error)

	// Void cancels a draft without deleting it.
	Void(ctx context.Context, lc domain.LedgerContext, entryID string) (*domain.JournalEntry, error)

	// Reverse creates and posts the offsetting entry of a posted entry.
	Reverse(ctx context.Context, lc domain.LedgerContext, entryID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
