package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolEventService bounds how many events are journalized at once.
// Callers block until their own event is processed.
type WorkerPoolEventService struct {
	base   portssvc.EventJournalSvc
	pool   *ants.Pool
	logger *slog.Logger
}

// WorkerPoolConfig sizes the pool.
type WorkerPoolConfig struct {
	Size int
}

type eventOutcome struct {
	result *domain.EventResult
	err    error
}

// NewWorkerPoolEventService wraps base with an ants pool of config.Size workers.
func NewWorkerPoolEventService(base portssvc.EventJournalSvc, config WorkerPoolConfig, logger *slog.Logger) (*WorkerPoolEventService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}
	return &WorkerPoolEventService{
		base:   base,
		pool:   pool,
		logger: logger,
	}, nil
}

var _ portssvc.EventJournalSvc = (*WorkerPoolEventService)(nil)

func (s *WorkerPoolEventService) FromLoanDisbursement(ctx context.Context, lc domain.LedgerContext, loanID string) (*domain.EventResult, error) {
	return s.BuildFromEvent(ctx, lc, domain.EventTrigger{Type: domain.EventLoanDisbursement, ReferenceID: loanID})
}

func (s *WorkerPoolEventService) FromRepayment(ctx context.Context, lc domain.LedgerContext, repaymentID string) (*domain.EventResult, error) {
	return s.BuildFromEvent(ctx, lc, domain.EventTrigger{Type: domain.EventRepayment, ReferenceID: repaymentID})
}

func (s *WorkerPoolEventService) FromSavingsDeposit(ctx context.Context, lc domain.LedgerContext, depositID string) (*domain.EventResult, error) {
	return s.BuildFromEvent(ctx, lc, domain.EventTrigger{Type: domain.EventSavingsDeposit, ReferenceID: depositID})
}

// BuildFromEvent submits the trigger to the pool and waits for its outcome.
func (s *WorkerPoolEventService) BuildFromEvent(ctx context.Context, lc domain.LedgerContext, trigger domain.EventTrigger) (*domain.EventResult, error) {
	s.logger.Debug("Submitting event to worker pool",
		"event_type", string(trigger.Type),
		"reference_id", trigger.ReferenceID,
		"tenant_id", lc.TenantID,
	)

	resultChan := make(chan eventOutcome, 1)
	err := s.pool.Submit(func() {
		result, err := s.base.BuildFromEvent(ctx, lc, trigger)
		resultChan <- eventOutcome{result: result, err: err}
	})
	if err != nil {
		s.logger.Error("Failed to submit event to worker pool",
			"event_type", string(trigger.Type),
			"reference_id", trigger.ReferenceID,
			"error", err,
		)
		return nil, err
	}

	select {
	case out := <-resultChan:
		return out.result, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolEventService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolEventService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolEventService) Capacity() int {
	return s.pool.Cap()
}
