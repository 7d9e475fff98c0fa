package services_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteTrialBalanceCSV(t *testing.T) {
	exporter := services.NewReportExportService(nil)
	tb := &domain.TrialBalance{
		Rows: []domain.TrialBalanceRow{
			{AccountCode: "1110", AccountName: "Cash on Hand", TotalDebit: dec("2050000"), TotalCredit: dec("1020000"), Balance: dec("1030000")},
			{AccountCode: "2110", AccountName: "Members' Savings, Regular", TotalDebit: dec("0"), TotalCredit: dec("12.5"), Balance: dec("12.5")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteTrialBalanceCSV(&buf, tb))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Account Code,Account Name,Debit,Credit,Balance", lines[0])
	assert.Equal(t, "1110,Cash on Hand,2050000.0000,1020000.0000,1030000.0000", lines[1])
	assert.Equal(t, `2110,"Members' Savings, Regular",0.0000,12.5000,12.5000`, lines[2])
}

func TestWriteGeneralLedgerCSV(t *testing.T) {
	exporter := services.NewReportExportService(nil)
	gl := &domain.GeneralLedger{
		StartDate:      day("2025-01-01"),
		OpeningBalance: dec("400"),
		Lines: []domain.GeneralLedgerLine{
			{Date: day("2025-01-10"), EntryNumber: "JE-2025-000002", Description: "Loan disbursement #42", Debit: dec("0"), Credit: dec("700"), Balance: dec("-300")},
			{Date: day("2025-01-11"), EntryNumber: "JE-2025-000003", Reference: "RCPT-9", Description: "Deposit", Debit: dec("50"), Credit: dec("0"), Balance: dec("-250")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteGeneralLedgerCSV(&buf, gl))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, "one row per line after the header")
	assert.Equal(t, "Date,Reference,Description,Debit,Credit,Balance", lines[0])
	assert.Equal(t, "2025-01-10,JE-2025-000002,Loan disbursement #42,0.0000,700.0000,-300.0000", lines[1])
	assert.Equal(t, "2025-01-11,RCPT-9,Deposit,50.0000,0.0000,-250.0000", lines[2])
}

func TestWriteCSV_KeepsStoredScale(t *testing.T) {
	exporter := services.NewReportExportService(nil)
	tb := &domain.TrialBalance{
		Rows: []domain.TrialBalanceRow{
			{AccountCode: "4100", AccountName: "Interest Income", TotalDebit: dec("0"), TotalCredit: dec("0.0049"), Balance: dec("0.0049")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteTrialBalanceCSV(&buf, tb))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "4100,Interest Income,0.0000,0.0049,0.0049", lines[1])
}

func TestWriteCSV_EscapesFormulaCells(t *testing.T) {
	exporter := services.NewReportExportService(nil)
	gl := &domain.GeneralLedger{
		StartDate: day("2025-01-01"),
		Lines: []domain.GeneralLedgerLine{
			{Date: day("2025-01-10"), EntryNumber: "JE-2025-000002", Description: "=HYPERLINK(\"http://x\")", Debit: dec("5"), Credit: dec("0"), Balance: dec("5")},
			{Date: day("2025-01-11"), EntryNumber: "JE-2025-000003", Reference: "@SUM(A1)", Description: "+1", Debit: dec("0"), Credit: dec("5"), Balance: dec("0")},
			{Date: day("2025-01-12"), EntryNumber: "JE-2025-000004", Description: "-2 refund", Debit: dec("1"), Credit: dec("0"), Balance: dec("-1")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, exporter.WriteGeneralLedgerCSV(&buf, gl))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `2025-01-10,JE-2025-000002,"'=HYPERLINK(""http://x"")",5.0000,0.0000,5.0000`, lines[1])
	assert.Equal(t, "2025-01-11,'@SUM(A1),'+1,0.0000,5.0000,0.0000", lines[2])
	assert.Equal(t, "2025-01-12,JE-2025-000004,'-2 refund,1.0000,0.0000,-1.0000", lines[3], "amounts are not escaped")

	tb := &domain.TrialBalance{Rows: []domain.TrialBalanceRow{
		{AccountCode: "5900", AccountName: "=cmd|' /C calc'!A0", TotalDebit: dec("1"), TotalCredit: dec("0"), Balance: dec("1")},
	}}
	buf.Reset()
	require.NoError(t, exporter.WriteTrialBalanceCSV(&buf, tb))
	assert.Contains(t, buf.String(), "5900,'=cmd|' /C calc'!A0,1.0000,0.0000,1.0000")
}

func TestWriteCSV_WriterFailure(t *testing.T) {
	exporter := services.NewReportExportService(nil)
	err := exporter.WriteTrialBalanceCSV(failingWriter{}, &domain.TrialBalance{})
	assert.ErrorContains(t, err, "disk full")
}

func TestExportTrialBalanceCSV_FailsClosed(t *testing.T) {
	ctx := context.Background()
	accountRepo := new(MockAccountRepository)
	reportRepo := new(MockReportingRepository)
	accountRepo.On("ListAccounts", ctx, tenantID).Return(sampleChart(), nil)
	reportRepo.On("SumPostedActivity", ctx, tenantID, mock.Anything).Return(nil, errors.New("connection reset")).Once()
	ledger := services.NewLedgerQueryService(&MockTxManager{}, accountRepo, reportRepo)
	exporter := services.NewReportExportService(ledger)
	lc := domain.LedgerContext{TenantID: tenantID, ActorID: "auditor", Role: domain.RoleReadOnly}

	out, err := exporter.ExportTrialBalanceCSV(ctx, lc, day("2025-01-01"), day("2025-01-31"))

	assert.Error(t, err)
	assert.Nil(t, out)

	_, err = exporter.ExportTrialBalanceCSV(ctx, lc, day("2025-02-01"), day("2025-01-01"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestExportTrialBalanceCSV_MatchesJSONRows(t *testing.T) {
	ctx := context.Background()
	accountRepo := new(MockAccountRepository)
	reportRepo := new(MockReportingRepository)
	accountRepo.On("ListAccounts", ctx, tenantID).Return(sampleChart(), nil)
	reportRepo.On("SumPostedActivity", ctx, tenantID, mock.Anything).Return(periodActivity(), nil)
	ledger := services.NewLedgerQueryService(&MockTxManager{}, accountRepo, reportRepo)
	exporter := services.NewReportExportService(ledger)
	lc := domain.LedgerContext{TenantID: tenantID, ActorID: "auditor", Role: domain.RoleReadOnly}

	tb, err := ledger.TrialBalance(ctx, lc, day("2025-01-01"), day("2025-01-31"))
	require.NoError(t, err)
	out, err := exporter.ExportTrialBalanceCSV(ctx, lc, day("2025-01-01"), day("2025-01-31"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	assert.Len(t, lines, len(tb.Rows)+1)
}
