package repositories

import (
	"context"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ReportingReader reads posted data only. Draft and void entries are never
// visible through it.
type ReportingReader interface {
	// SumPostedActivity aggregates posted debit/credit per account within the range.
	SumPostedActivity(ctx context.Context, tenantID string, period domain.DateRange) ([]domain.AccountActivity, error)

	// SumPostedActivityForAccounts is SumPostedActivity restricted to codes.
	SumPostedActivityForAccounts(ctx context.Context, tenantID string, codes []string, period domain.DateRange) ([]domain.AccountActivity, error)

	// ListPostedLines returns posted lines touching codes in chronological order.
	ListPostedLines(ctx context.Context, tenantID string, codes []string, period domain.DateRange) ([]domain.LedgerLine, error)
}

// ReportingRepositoryWithTx can rebind itself to a snapshot transaction.
type ReportingRepositoryWithTx interface {
	ReportingReader
	WithTx(tx pgx.Tx) ReportingReader
}
