package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// MockTxManager runs the unit of work inline with a nil transaction.
type MockTxManager struct {
	TxCalls       int
	SnapshotCalls int
}

var _ portsrepo.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.TxCalls++
	return fn(nil)
}

func (m *MockTxManager) ExecuteSnapshot(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.SnapshotCalls++
	return fn(nil)
}

// MockAccountRepository is a mock type for the account repository
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryWithTx = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) WithTx(tx pgx.Tx) portsrepo.AccountRepositoryFacade {
	return m
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tenantID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListActiveAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SearchActiveAccounts(ctx context.Context, tenantID, query string, limit int) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CodesWithPostedLines(ctx context.Context, tenantID string, codes []string) ([]string, error) {
	args := m.Called(ctx, tenantID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccountRepository) LockChart(ctx context.Context, tenantID string) error {
	return m.Called(ctx, tenantID).Error(0)
}

func (m *MockAccountRepository) UpsertAccounts(ctx context.Context, accounts []domain.Account) error {
	args := m.Called(ctx, accounts)
	return args.Error(0)
}

func (m *MockAccountRepository) SetAccountActive(ctx context.Context, tenantID, code string, active bool, userID string, now time.Time) error {
	args := m.Called(ctx, tenantID, code, active, userID, now)
	return args.Error(0)
}

// MockJournalRepository is a mock type for the journal repository
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryWithTx = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) WithTx(tx pgx.Tx) portsrepo.JournalRepositoryFacade {
	return m
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindJournalBySourceEvent(ctx context.Context, tenantID string, eventType domain.EventType, eventID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, eventType, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListJournals(ctx context.Context, tenantID string, params domain.ListJournalsParams) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, tenantID, params)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), next, args.Error(2)
}

func (m *MockJournalRepository) SaveJournal(ctx context.Context, entry *domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) LockJournalForUpdate(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) UpdateJournalStatus(ctx context.Context, change domain.StatusChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func (m *MockJournalRepository) ReplaceDraft(ctx context.Context, entry *domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) MarkReversed(ctx context.Context, tenantID, entryID, reversalID, userID string, expectedVersion int) error {
	args := m.Called(ctx, tenantID, entryID, reversalID, userID, expectedVersion)
	return args.Error(0)
}

// MockReportingRepository is a mock type for the reporting repository
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepositoryWithTx = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) WithTx(tx pgx.Tx) portsrepo.ReportingReader {
	return m
}

func (m *MockReportingRepository) SumPostedActivity(ctx context.Context, tenantID string, period domain.DateRange) ([]domain.AccountActivity, error) {
	args := m.Called(ctx, tenantID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountActivity), args.Error(1)
}

func (m *MockReportingRepository) SumPostedActivityForAccounts(ctx context.Context, tenantID string, codes []string, period domain.DateRange) ([]domain.AccountActivity, error) {
	args := m.Called(ctx, tenantID, codes, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountActivity), args.Error(1)
}

func (m *MockReportingRepository) ListPostedLines(ctx context.Context, tenantID string, codes []string, period domain.DateRange) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, tenantID, codes, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerLine), args.Error(1)
}

// MockEventSourceReader is a mock type for collaborator event lookups
type MockEventSourceReader struct {
	mock.Mock
}

var _ portsrepo.EventSourceReader = (*MockEventSourceReader)(nil)

func (m *MockEventSourceReader) find(ctx context.Context, method string, tenantID, id string) (*domain.EventRecord, error) {
	args := m.MethodCalled(method, ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventRecord), args.Error(1)
}

func (m *MockEventSourceReader) FindLoanDisbursement(ctx context.Context, tenantID, loanID string) (*domain.EventRecord, error) {
	return m.find(ctx, "FindLoanDisbursement", tenantID, loanID)
}

func (m *MockEventSourceReader) FindRepayment(ctx context.Context, tenantID, repaymentID string) (*domain.EventRecord, error) {
	return m.find(ctx, "FindRepayment", tenantID, repaymentID)
}

func (m *MockEventSourceReader) FindSavingsDeposit(ctx context.Context, tenantID, depositID string) (*domain.EventRecord, error) {
	return m.find(ctx, "FindSavingsDeposit", tenantID, depositID)
}

// MockAuditTrail is a mock type for the audit trail
type MockAuditTrail struct {
	mock.Mock
}

var _ portsrepo.AuditTrail = (*MockAuditTrail)(nil)

func (m *MockAuditTrail) RecordAudit(ctx context.Context, record domain.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditTrail) ListAudit(ctx context.Context, tenantID, entryID string) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}
