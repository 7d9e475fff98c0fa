package repositories

import (
	"context"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

// EventSourceReader reads the minimal fields of collaborator records that
// generate journal entries.
type EventSourceReader interface {
	FindLoanDisbursement(ctx context.Context, tenantID, loanID string) (*domain.EventRecord, error)
	FindRepayment(ctx context.Context, tenantID, repaymentID string) (*domain.EventRecord, error)
	FindSavingsDeposit(ctx context.Context, tenantID, depositID string) (*domain.EventRecord, error)
}
