package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

type sourceLookup func(ctx context.Context, tenantID, id string) (*domain.EventRecord, error)

// EventJournalService builds draft entries from loan and savings events
// using the fixed posting rules.
type EventJournalService struct {
	BaseService
	journals    portssvc.JournalWriterSvc
	journalRepo portsrepo.JournalReader
	events      portsrepo.EventSourceReader
}

// NewEventJournalService creates the builder on top of the journal engine.
func NewEventJournalService(journals portssvc.JournalWriterSvc, journalRepo portsrepo.JournalReader, events portsrepo.EventSourceReader) *EventJournalService {
	return &EventJournalService{
		journals:    journals,
		journalRepo: journalRepo,
		events:      events,
	}
}

var _ portssvc.EventJournalSvc = (*EventJournalService)(nil)

// FromLoanDisbursement debits Loans Receivable and credits Cash on Hand.
func (s *EventJournalService) FromLoanDisbursement(ctx context.Context, lc domain.LedgerContext, loanID string) (*domain.EventResult, error) {
	return s.fromEvent(ctx, lc, domain.EventLoanDisbursement, loanID, s.events.FindLoanDisbursement)
}

// FromRepayment debits Cash on Hand and credits Loans Receivable.
func (s *EventJournalService) FromRepayment(ctx context.Context, lc domain.LedgerContext, repaymentID string) (*domain.EventResult, error) {
	return s.fromEvent(ctx, lc, domain.EventRepayment, repaymentID, s.events.FindRepayment)
}

// FromSavingsDeposit debits Cash on Hand and credits Members' Savings.
func (s *EventJournalService) FromSavingsDeposit(ctx context.Context, lc domain.LedgerContext, depositID string) (*domain.EventResult, error) {
	return s.fromEvent(ctx, lc, domain.EventSavingsDeposit, depositID, s.events.FindSavingsDeposit)
}

// BuildFromEvent dispatches on trigger.Type.
func (s *EventJournalService) BuildFromEvent(ctx context.Context, lc domain.LedgerContext, trigger domain.EventTrigger) (*domain.EventResult, error) {
	switch trigger.Type {
	case domain.EventLoanDisbursement:
		return s.FromLoanDisbursement(ctx, lc, trigger.ReferenceID)
	case domain.EventRepayment:
		return s.FromRepayment(ctx, lc, trigger.ReferenceID)
	case domain.EventSavingsDeposit:
		return s.FromSavingsDeposit(ctx, lc, trigger.ReferenceID)
	default:
		return nil, apperrors.NewValidationError("unsupported event type %q", trigger.Type)
	}
}

func (s *EventJournalService) fromEvent(ctx context.Context, lc domain.LedgerContext, eventType domain.EventType, eventID string, lookup sourceLookup) (*domain.EventResult, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleClerk); err != nil {
		return nil, err
	}
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, apperrors.NewValidationError("reference id is required")
	}
	logger := s.GetLogger(ctx).With(slog.String("event_type", string(eventType)), slog.String("event_id", eventID))

	existing, err := s.findExisting(ctx, lc.TenantID, eventType, eventID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logger.Info("Event already journalized", slog.String("entry_id", existing.EntryID))
		return &domain.EventResult{Entry: existing, Created: false}, nil
	}

	source, err := lookup(ctx, lc.TenantID, eventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%s %s: %w", eventType, eventID, apperrors.ErrNotFound)
		}
		logger.Error("Failed to read source event", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to read %s %s: %w", eventType, eventID, err)
	}
	if !source.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("%s %s has non-positive amount %s", eventType, eventID, source.Amount)
	}

	rule := domain.EventPostingRules[eventType]
	header, lines := draftForEvent(rule, eventType, eventID, source)
	entry, err := s.journals.CreateJournal(ctx, lc, header, lines)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// A concurrent delivery of the same event won the insert.
			existing, findErr := s.findExisting(ctx, lc.TenantID, eventType, eventID)
			if findErr == nil && existing != nil {
				logger.Info("Event journalized concurrently", slog.String("entry_id", existing.EntryID))
				return &domain.EventResult{Entry: existing, Created: false}, nil
			}
		}
		return nil, err
	}

	logger.Info("Draft entry built from event", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	return &domain.EventResult{Entry: entry, Created: true}, nil
}

func (s *EventJournalService) findExisting(ctx context.Context, tenantID string, eventType domain.EventType, eventID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalBySourceEvent(ctx, tenantID, eventType, eventID)
	if err == nil {
		return entry, nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	s.LogError(ctx, err, "Failed to look up event entry", slog.String("event_id", eventID))
	return nil, fmt.Errorf("failed to look up entry for %s %s: %w", eventType, eventID, err)
}

func draftForEvent(rule domain.PostingRule, eventType domain.EventType, eventID string, source *domain.EventRecord) (domain.JournalHeader, []domain.LineInput) {
	description := rule.Description
	if source.Counterparty != "" {
		description = fmt.Sprintf("%s - %s", rule.Description, source.Counterparty)
	}
	reference := source.Reference
	if reference == "" {
		reference = eventID
	}
	et, id := eventType, eventID
	header := domain.JournalHeader{
		EntryDate:   source.OccurredOn,
		Description: description,
		Reference:   reference,
		Source:      domain.SourceEvent,
		EventType:   &et,
		EventID:     &id,
	}
	lines := []domain.LineInput{
		{AccountCode: rule.DebitCode, Debit: source.Amount, Credit: decimal.Zero},
		{AccountCode: rule.CreditCode, Debit: decimal.Zero, Credit: source.Amount},
	}
	return header, lines
}
