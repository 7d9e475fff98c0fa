package handlers_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetHierarchy(ctx context.Context, lc domain.LedgerContext) ([]*domain.AccountNode, error) {
	args := m.Called(ctx, lc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccountNode), args.Error(1)
}

func (m *MockAccountService) FindByCode(ctx context.Context, lc domain.LedgerContext, code string) (*domain.Account, error) {
	args := m.Called(ctx, lc, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) Search(ctx context.Context, lc domain.LedgerContext, query string) ([]domain.Account, error) {
	args := m.Called(ctx, lc, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) GetActiveAccounts(ctx context.Context, lc domain.LedgerContext) ([]domain.Account, error) {
	args := m.Called(ctx, lc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) SeedChart(ctx context.Context, lc domain.LedgerContext, accounts []domain.Account) error {
	return m.Called(ctx, lc, accounts).Error(0)
}

func (m *MockAccountService) SetActive(ctx context.Context, lc domain.LedgerContext, code string, active bool) (*domain.Account, error) {
	args := m.Called(ctx, lc, code, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) entry(args mock.Arguments) (*domain.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) GetJournal(ctx context.Context, lc domain.LedgerContext, entryID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, lc, entryID))
}

func (m *MockJournalService) ListJournals(ctx context.Context, lc domain.LedgerContext, params domain.ListJournalsParams) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, lc, params)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), next, args.Error(2)
}

func (m *MockJournalService) GetAuditTrail(ctx context.Context, lc domain.LedgerContext, entryID string) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, lc, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

func (m *MockJournalService) CreateJournal(ctx context.Context, lc domain.LedgerContext, header domain.JournalHeader, lines []domain.LineInput) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, lc, header, lines))
}

func (m *MockJournalService) UpdateDraft(ctx context.Context, lc domain.LedgerContext, entryID string, header domain.JournalHeader, lines []domain.LineInput) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, lc, entryID, header, lines))
}

func (m *MockJournalService) Post(ctx context.Context, lc domain.LedgerContext, entryID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, lc, entryID))
}

func (m *MockJournalService) Void(ctx context.Context, lc domain.LedgerContext, entryID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, lc, entryID))
}

func (m *MockJournalService) Reverse(ctx context.Context, lc domain.LedgerContext, entryID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, lc, entryID))
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock EventJournalService ---
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) result(args mock.Arguments) (*domain.EventResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventResult), args.Error(1)
}

func (m *MockEventService) FromLoanDisbursement(ctx context.Context, lc domain.LedgerContext, loanID string) (*domain.EventResult, error) {
	return m.result(m.Called(ctx, lc, loanID))
}

func (m *MockEventService) FromRepayment(ctx context.Context, lc domain.LedgerContext, repaymentID string) (*domain.EventResult, error) {
	return m.result(m.Called(ctx, lc, repaymentID))
}

func (m *MockEventService) FromSavingsDeposit(ctx context.Context, lc domain.LedgerContext, depositID string) (*domain.EventResult, error) {
	return m.result(m.Called(ctx, lc, depositID))
}

func (m *MockEventService) BuildFromEvent(ctx context.Context, lc domain.LedgerContext, trigger domain.EventTrigger) (*domain.EventResult, error) {
	return m.result(m.Called(ctx, lc, trigger))
}

var _ portssvc.EventJournalSvc = (*MockEventService)(nil)

// --- Mock LedgerQueryService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GeneralLedger(ctx context.Context, lc domain.LedgerContext, accountCode string, start, end time.Time) (*domain.GeneralLedger, error) {
	args := m.Called(ctx, lc, accountCode, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneralLedger), args.Error(1)
}

func (m *MockLedgerService) TrialBalance(ctx context.Context, lc domain.LedgerContext, start, end time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, lc, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

func (m *MockLedgerService) BalanceSheet(ctx context.Context, lc domain.LedgerContext, asOf time.Time) (*domain.BalanceSheet, error) {
	args := m.Called(ctx, lc, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheet), args.Error(1)
}

func (m *MockLedgerService) IncomeStatement(ctx context.Context, lc domain.LedgerContext, start, end time.Time) (*domain.IncomeStatement, error) {
	args := m.Called(ctx, lc, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatement), args.Error(1)
}

var _ portssvc.LedgerQuerySvc = (*MockLedgerService)(nil)

// --- Mock ReportExportService ---
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportTrialBalanceCSV(ctx context.Context, lc domain.LedgerContext, start, end time.Time) ([]byte, error) {
	args := m.Called(ctx, lc, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockExportService) ExportGeneralLedgerCSV(ctx context.Context, lc domain.LedgerContext, accountCode string, start, end time.Time) ([]byte, error) {
	args := m.Called(ctx, lc, accountCode, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockExportService) WriteTrialBalanceCSV(w io.Writer, tb *domain.TrialBalance) error {
	return m.Called(w, tb).Error(0)
}

func (m *MockExportService) WriteGeneralLedgerCSV(w io.Writer, gl *domain.GeneralLedger) error {
	return m.Called(w, gl).Error(0)
}

var _ portssvc.ReportExportSvc = (*MockExportService)(nil)
