package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	defaultJournalPageSize = 20
	maxJournalPageSize     = 100
)

// JournalService owns the draft/posted/void lifecycle of journal entries.
type JournalService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	journalRepo portsrepo.JournalRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryWithTx
	audit       portsrepo.AuditTrail
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*JournalService)

// WithAuditTrail records lifecycle changes after each commit.
func WithAuditTrail(audit portsrepo.AuditTrail) JournalServiceOption {
	return func(s *JournalService) {
		s.audit = audit
	}
}

// WithJournalClock overrides the clock used for posting and audit times.
func WithJournalClock(now func() time.Time) JournalServiceOption {
	return func(s *JournalService) {
		s.now = now
	}
}

// NewJournalService creates a new journal service with the provided options
func NewJournalService(
	txManager portsrepo.TransactionManager,
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountRepo portsrepo.AccountRepositoryWithTx,
	options ...JournalServiceOption,
) *JournalService {
	svc := &JournalService{
		txManager:   txManager,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.JournalSvcFacade = (*JournalService)(nil)

// CreateJournal validates lines against the chart and stores a draft entry.
func (s *JournalService) CreateJournal(ctx context.Context, lc domain.LedgerContext, header domain.JournalHeader, lines []domain.LineInput) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleClerk); err != nil {
		return nil, err
	}
	if err := validateHeader(header, lines); err != nil {
		return nil, err
	}

	var entry *domain.JournalEntry
	err := s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.validateLines(ctx, s.accountRepo.WithTx(tx), lc.TenantID, lines); err != nil {
			return err
		}
		entry = s.newEntry(lc, header, lines, domain.Draft)
		return s.journalRepo.WithTx(tx).SaveJournal(ctx, entry)
	})
	if err != nil {
		return nil, s.wrapWriteError(ctx, err, "Failed to create journal entry")
	}

	s.LogInfo(ctx, "Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("tenant_id", lc.TenantID),
		slog.String("source", string(entry.Source)))
	s.recordAudit(ctx, lc, entry, domain.AuditCreated, nil)
	return entry, nil
}

// UpdateDraft replaces the header fields and lines of a draft entry.
func (s *JournalService) UpdateDraft(ctx context.Context, lc domain.LedgerContext, entryID string, header domain.JournalHeader, lines []domain.LineInput) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleClerk); err != nil {
		return nil, err
	}
	if err := validateHeader(header, lines); err != nil {
		return nil, err
	}

	var entry *domain.JournalEntry
	err := s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.journalRepo.WithTx(tx)
		current, err := repo.LockJournalForUpdate(ctx, lc.TenantID, entryID)
		if err != nil {
			return err
		}
		if current.Status != domain.Draft {
			return fmt.Errorf("%w: entry %s is %s", apperrors.ErrAlreadyPosted, current.EntryNumber, current.Status)
		}
		if err := s.validateLines(ctx, s.accountRepo.WithTx(tx), lc.TenantID, lines); err != nil {
			return err
		}

		updated := s.newEntry(lc, header, lines, domain.Draft)
		updated.EntryID = current.EntryID
		updated.EntryNumber = current.EntryNumber
		updated.Source = current.Source
		updated.SourceEventType = current.SourceEventType
		updated.SourceEventID = current.SourceEventID
		updated.Version = current.Version
		updated.CreatedAt, updated.CreatedBy = current.CreatedAt, current.CreatedBy
		for i := range updated.Lines {
			updated.Lines[i].EntryID = current.EntryID
		}
		if err := repo.ReplaceDraft(ctx, updated); err != nil {
			return err
		}
		updated.Version++
		entry = updated
		return nil
	})
	if err != nil {
		return nil, s.wrapWriteError(ctx, err, "Failed to update draft", slog.String("entry_id", entryID))
	}

	s.LogInfo(ctx, "Draft journal entry updated", slog.String("entry_id", entry.EntryID), slog.Int("version", entry.Version))
	s.recordAudit(ctx, lc, entry, domain.AuditUpdated, nil)
	return entry, nil
}

// Post moves a balanced draft to POSTED. Concurrent posts of the same entry
// serialize on the row lock and the loser gets ErrAlreadyPosted.
func (s *JournalService) Post(ctx context.Context, lc domain.LedgerContext, entryID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleAccountant); err != nil {
		return nil, err
	}

	var entry *domain.JournalEntry
	err := s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.journalRepo.WithTx(tx)
		current, err := repo.LockJournalForUpdate(ctx, lc.TenantID, entryID)
		if err != nil {
			return err
		}
		if current.Status != domain.Draft {
			return fmt.Errorf("%w: entry %s is %s", apperrors.ErrAlreadyPosted, current.EntryNumber, current.Status)
		}
		debit, credit := domain.SumLines(current.Lines)
		if len(current.Lines) == 0 || !debit.Equal(credit) || !debit.Equal(current.TotalDebit) || !credit.Equal(current.TotalCredit) {
			return fmt.Errorf("%w: stored lines sum to %s/%s against totals %s/%s",
				apperrors.ErrUnbalancedEntry, debit, credit, current.TotalDebit, current.TotalCredit)
		}

		now := s.Now()
		if err := repo.UpdateJournalStatus(ctx, domain.StatusChange{
			TenantID:        lc.TenantID,
			EntryID:         current.EntryID,
			From:            domain.Draft,
			To:              domain.Posted,
			ExpectedVersion: current.Version,
			ActorID:         lc.ActorID,
			At:              now,
		}); err != nil {
			return err
		}
		current.Status = domain.Posted
		current.PostedBy = &lc.ActorID
		current.PostedAt = &now
		current.LastUpdatedAt, current.LastUpdatedBy = now, lc.ActorID
		current.Version++
		entry = current
		return nil
	})
	if err != nil {
		return nil, s.wrapWriteError(ctx, err, "Failed to post journal entry", slog.String("entry_id", entryID))
	}

	s.LogInfo(ctx, "Journal entry posted", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	s.recordAudit(ctx, lc, entry, domain.AuditPosted, nil)
	return entry, nil
}

// Void cancels a draft. Posted entries are corrected by Reverse instead.
func (s *JournalService) Void(ctx context.Context, lc domain.LedgerContext, entryID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleClerk); err != nil {
		return nil, err
	}

	var entry *domain.JournalEntry
	err := s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.journalRepo.WithTx(tx)
		current, err := repo.LockJournalForUpdate(ctx, lc.TenantID, entryID)
		if err != nil {
			return err
		}
		switch current.Status {
		case domain.Posted:
			return fmt.Errorf("%w: entry %s must be reversed instead", apperrors.ErrAlreadyPosted, current.EntryNumber)
		case domain.Void:
			return fmt.Errorf("%w: entry %s is already void", apperrors.ErrConflict, current.EntryNumber)
		}

		now := s.Now()
		if err := repo.UpdateJournalStatus(ctx, domain.StatusChange{
			TenantID:        lc.TenantID,
			EntryID:         current.EntryID,
			From:            domain.Draft,
			To:              domain.Void,
			ExpectedVersion: current.Version,
			ActorID:         lc.ActorID,
			At:              now,
		}); err != nil {
			return err
		}
		current.Status = domain.Void
		current.VoidedBy = &lc.ActorID
		current.VoidedAt = &now
		current.LastUpdatedAt, current.LastUpdatedBy = now, lc.ActorID
		current.Version++
		entry = current
		return nil
	})
	if err != nil {
		return nil, s.wrapWriteError(ctx, err, "Failed to void journal entry", slog.String("entry_id", entryID))
	}

	s.LogInfo(ctx, "Journal entry voided", slog.String("entry_id", entry.EntryID))
	s.recordAudit(ctx, lc, entry, domain.AuditVoided, nil)
	return entry, nil
}

// Reverse creates and posts the offsetting entry of a posted entry, dated
// today, and links the two. Returns the new reversal entry.
func (s *JournalService) Reverse(ctx context.Context, lc domain.LedgerContext, entryID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleAccountant); err != nil {
		return nil, err
	}

	var original, reversal *domain.JournalEntry
	err := s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		repo := s.journalRepo.WithTx(tx)
		current, err := repo.LockJournalForUpdate(ctx, lc.TenantID, entryID)
		if err != nil {
			return err
		}
		if current.Status != domain.Posted {
			return fmt.Errorf("%w: entry %s is %s, expected POSTED", apperrors.ErrConflict, current.EntryNumber, current.Status)
		}
		if current.ReversedByID != nil {
			return fmt.Errorf("%w: entry %s is already reversed", apperrors.ErrConflict, current.EntryNumber)
		}

		now := s.Now()
		reversal = s.newEntry(lc, domain.JournalHeader{
			EntryDate:   now,
			Description: "Reversal of " + current.EntryNumber,
			Reference:   current.EntryNumber,
			Source:      domain.SourceManual,
		}, domain.SwappedLines(current.Lines), domain.Posted)
		reversal.ReversalOfID = &current.EntryID
		reversal.PostedBy = &lc.ActorID
		reversal.PostedAt = &now
		if err := repo.SaveJournal(ctx, reversal); err != nil {
			return err
		}
		if err := repo.MarkReversed(ctx, lc.TenantID, current.EntryID, reversal.EntryID, lc.ActorID, current.Version); err != nil {
			return err
		}
		current.ReversedByID = &reversal.EntryID
		current.Version++
		original = current
		return nil
	})
	if err != nil {
		return nil, s.wrapWriteError(ctx, err, "Failed to reverse journal entry", slog.String("entry_id", entryID))
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", original.EntryID),
		slog.String("reversal_id", reversal.EntryID),
		slog.String("reversal_number", reversal.EntryNumber))
	s.recordAudit(ctx, lc, original, domain.AuditReversed, map[string]string{"reversal_id": reversal.EntryID})
	s.recordAudit(ctx, lc, reversal, domain.AuditCreated, map[string]string{"reversal_of": original.EntryID})
	return reversal, nil
}

// GetJournal returns one entry with its lines.
func (s *JournalService) GetJournal(ctx context.Context, lc domain.LedgerContext, entryID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	entry, err := s.journalRepo.FindJournalByID(ctx, lc.TenantID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to get journal entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}
	return entry, nil
}

// ListJournals returns a page of headers, newest first.
func (s *JournalService) ListJournals(ctx context.Context, lc domain.LedgerContext, params domain.ListJournalsParams) ([]domain.JournalEntry, *string, error) {
	if err := s.AuthorizeUser(ctx, lc, domain.RoleReadOnly); err != nil {
		return nil, nil, err
	}
	switch {
	case params.Limit <= 0:
		params.Limit = defaultJournalPageSize
	case params.Limit > maxJournalPageSize:
		params.Limit = maxJournalPageSize
	}
	entries, next, err := s.journalRepo.ListJournals(ctx, lc.TenantID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return nil, nil, err
		}
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return entries, next, nil
}

// GetAuditTrail returns the lifecycle records of an entry, oldest first.
func (s *JournalService) GetAuditTrail(ctx context.Context, lc domain.LedgerContext, entryID string) ([]domain.AuditRecord, error) {
	if _, err := s.GetJournal(ctx, lc, entryID); err != nil {
		return nil, err
	}
	if s.audit == nil {
		return []domain.AuditRecord{}, nil
	}
	records, err := s.audit.ListAudit(ctx, lc.TenantID, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to read audit trail", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to read audit trail: %w", err)
	}
	return records, nil
}

func validateHeader(header domain.JournalHeader, lines []domain.LineInput) error {
	if header.EntryDate.IsZero() {
		return apperrors.NewValidationError("entry date is required")
	}
	if strings.TrimSpace(header.Description) == "" {
		return apperrors.NewValidationError("description is required")
	}
	if len(lines) == 0 {
		return apperrors.NewValidationError("at least one line is required")
	}
	return nil
}

// validateLines applies the checks in order: accounts, amounts, balance.
func (s *JournalService) validateLines(ctx context.Context, repo portsrepo.AccountRepositoryFacade, tenantID string, lines []domain.LineInput) error {
	codes := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountCode]; ok || l.AccountCode == "" {
			continue
		}
		seen[l.AccountCode] = struct{}{}
		codes = append(codes, l.AccountCode)
	}

	accounts, err := repo.FindAccountsByCodes(ctx, tenantID, codes)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	for i, l := range lines {
		acc, ok := accounts[l.AccountCode]
		if !ok {
			return apperrors.NewLineError(i, l.AccountCode, apperrors.ErrAccountNotFound, "")
		}
		if !acc.IsActive {
			return apperrors.NewLineError(i, l.AccountCode, apperrors.ErrAccountNotFound, "account is inactive")
		}
	}

	if err := accounting.ValidateLineAmounts(lines); err != nil {
		return err
	}
	return accounting.ValidateJournalBalance(lines)
}

func (s *JournalService) newEntry(lc domain.LedgerContext, header domain.JournalHeader, lines []domain.LineInput, status domain.JournalStatus) *domain.JournalEntry {
	now := s.Now()
	entryID := uuid.NewString()
	source := header.Source
	if source == "" {
		source = domain.SourceManual
	}

	entry := &domain.JournalEntry{
		EntryID:         entryID,
		TenantID:        lc.TenantID,
		EntryDate:       dateOnly(header.EntryDate),
		Description:     strings.TrimSpace(header.Description),
		Reference:       strings.TrimSpace(header.Reference),
		Source:          source,
		SourceEventType: header.EventType,
		SourceEventID:   header.EventID,
		Status:          status,
		Version:         1,
		Lines:           make([]domain.JournalLine, len(lines)),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     lc.ActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: lc.ActorID,
		},
	}
	for i, l := range lines {
		entry.Lines[i] = domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			LineNo:       i + 1,
			AccountCode:  l.AccountCode,
			DebitAmount:  l.Debit,
			CreditAmount: l.Credit,
			Description:  l.Description,
		}
	}
	entry.TotalDebit, entry.TotalCredit = domain.SumLines(entry.Lines)
	return entry
}

// wrapWriteError logs unexpected failures. Domain sentinels pass through
// untouched so handlers can map them.
func (s *JournalService) wrapWriteError(ctx context.Context, err error, msg string, keyvals ...any) error {
	for _, sentinel := range []error{
		apperrors.ErrValidation,
		apperrors.ErrNotFound,
		apperrors.ErrAccountNotFound,
		apperrors.ErrMalformedLine,
		apperrors.ErrUnbalancedEntry,
		apperrors.ErrAlreadyPosted,
		apperrors.ErrConflict,
		apperrors.ErrDuplicate,
	} {
		if errors.Is(err, sentinel) {
			s.LogDebug(ctx, msg, append(keyvals, slog.String("reason", err.Error()))...)
			return err
		}
	}
	s.LogError(ctx, err, msg, keyvals...)
	return fmt.Errorf("%s: %w", strings.ToLower(msg), err)
}

// recordAudit appends to the audit trail after commit. The ledger tables
// remain the source of truth, so a failure here is only logged.
func (s *JournalService) recordAudit(ctx context.Context, lc domain.LedgerContext, entry *domain.JournalEntry, action domain.AuditAction, details map[string]string) {
	if s.audit == nil {
		return
	}
	record := domain.AuditRecord{
		TenantID:    lc.TenantID,
		EntryID:     entry.EntryID,
		EntryNumber: entry.EntryNumber,
		Action:      action,
		ActorID:     lc.ActorID,
		At:          s.Now(),
		Details:     details,
	}
	if err := s.audit.RecordAudit(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to record audit trail",
			slog.String("entry_id", entry.EntryID),
			slog.String("action", string(action)))
	}
}
