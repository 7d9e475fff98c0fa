package services

import (
	"context"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

// EventJournalSvc turns collaborator events into draft entries. Each method
// is idempotent per (tenant, event type, event id).
type EventJournalSvc interface {
	FromLoanDisbursement(ctx context.Context, lc domain.LedgerContext, loanID string) (*domain.EventResult, error)
	FromRepayment(ctx context.Context, lc domain.LedgerContext, repaymentID string) (*domain.EventResult, error)
	FromSavingsDeposit(ctx context.Context, lc domain.LedgerContext, depositID string) (*domain.EventResult, error)

	// BuildFromEvent dispatches on trigger.Type.
	BuildFromEvent(ctx context.Context, lc domain.LedgerContext, trigger domain.EventTrigger) (*domain.EventResult, error)
}
