package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var (
	janStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	janEnd   = time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
)

func (suite *HandlerTestSuite) TestTrialBalance() {
	tb := &domain.TrialBalance{
		StartDate: janStart,
		EndDate:   janEnd,
		Rows: []domain.TrialBalanceRow{
			{AccountCode: "1110", AccountName: "Cash on Hand", AccountType: domain.Asset, TotalDebit: decimal.Zero, TotalCredit: million, Balance: million.Neg()},
			{AccountCode: "1310", AccountName: "Loans Receivable", AccountType: domain.Asset, TotalDebit: million, TotalCredit: decimal.Zero, Balance: million},
		},
		TotalDebit:  million,
		TotalCredit: million,
		IsBalanced:  true,
	}
	suite.mockLedgerService.On("TrialBalance", mock.Anything, testLC, janStart, janEnd).Return(tb, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/reports/trial-balance?start=2025-01-01&end=2025-01-31", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TrialBalanceResponse
	suite.decode(w, &resp)
	suite.True(resp.IsBalanced)
	suite.Equal("2025-01-31", resp.EndDate)
	suite.Require().Len(resp.Rows, 2)
	suite.True(resp.Rows[0].Balance.Equal(million.Neg()))
}

func (suite *HandlerTestSuite) TestTrialBalance_PeriodRequired() {
	w := suite.doJSON(http.MethodGet, "/api/v1/reports/trial-balance?end=2025-01-31", "")
	suite.assertErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR")
}

func (suite *HandlerTestSuite) TestTrialBalance_StartAfterEnd() {
	suite.mockLedgerService.On("TrialBalance", mock.Anything, testLC, janEnd, janStart).
		Return(nil, apperrors.NewValidationError("start date 2025-01-31 is after end date 2025-01-01")).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/reports/trial-balance?start=2025-01-31&end=2025-01-01", "")

	suite.assertErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR")
}

func (suite *HandlerTestSuite) TestTrialBalanceCSV() {
	csv := []byte("Account Code,Account Name,Debit,Credit,Balance\n1310,Loans Receivable,1000000.00,0.00,1000000.00\n")
	suite.mockExportService.On("ExportTrialBalanceCSV", mock.Anything, testLC, janStart, janEnd).Return(csv, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/reports/trial-balance/csv?start=2025-01-01&end=2025-01-31", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "trial-balance-2025-01-01-2025-01-31.csv")
	suite.Equal(string(csv), w.Body.String())
}

func (suite *HandlerTestSuite) TestGeneralLedgerCSV_FailsClosed() {
	suite.mockExportService.On("ExportGeneralLedgerCSV", mock.Anything, testLC, "1110", janStart, janEnd).
		Return(nil, errors.New("snapshot aborted")).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/reports/general-ledger/1110/csv?start=2025-01-01&end=2025-01-31", "")

	suite.assertErrorCode(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR")
	suite.Contains(w.Header().Get("Content-Type"), "application/json")
	suite.Empty(w.Header().Get("Content-Disposition"))
}

func (suite *HandlerTestSuite) TestGeneralLedger() {
	gl := &domain.GeneralLedger{
		Account:        cashAccount(),
		StartDate:      janStart,
		EndDate:        janEnd,
		OpeningBalance: decimal.NewFromInt(250),
		Lines: []domain.GeneralLedgerLine{{
			Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), EntryID: "entry-1", EntryNumber: "JE-2025-000001",
			AccountCode: "1110", Debit: decimal.NewFromInt(100), Credit: decimal.Zero, Balance: decimal.NewFromInt(350),
		}},
		TotalDebit:     decimal.NewFromInt(100),
		TotalCredit:    decimal.Zero,
		ClosingBalance: decimal.NewFromInt(350),
	}
	suite.mockLedgerService.On("GeneralLedger", mock.Anything, testLC, "1110", janStart, janEnd).Return(gl, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/reports/general-ledger/1110?start=2025-01-01&end=2025-01-31", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.GeneralLedgerResponse
	suite.decode(w, &resp)
	suite.Equal("1110", resp.Account.Code)
	suite.True(resp.OpeningBalance.Equal(decimal.NewFromInt(250)))
	suite.Require().Len(resp.Lines, 1)
	suite.Equal("2025-01-10", resp.Lines[0].Date)
}

func (suite *HandlerTestSuite) TestGeneralLedger_UnknownAccount() {
	suite.mockLedgerService.On("GeneralLedger", mock.Anything, testLC, "9999", janStart, janEnd).
		Return(nil, fmt.Errorf("account 9999: %w", apperrors.ErrNotFound)).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/reports/general-ledger/9999?start=2025-01-01&end=2025-01-31", "")

	suite.assertErrorCode(w, http.StatusNotFound, "NOT_FOUND")
}

func (suite *HandlerTestSuite) TestBalanceSheet() {
	bs := &domain.BalanceSheet{
		AsOf:            janEnd,
		Assets:          domain.StatementSection{AccountType: domain.Asset, Total: million},
		Liabilities:     domain.StatementSection{AccountType: domain.Liability, Total: decimal.NewFromInt(600000)},
		Equity:          domain.StatementSection{AccountType: domain.Equity, Total: decimal.NewFromInt(400000)},
		CurrentEarnings: decimal.NewFromInt(50000),
		TotalEquity:     decimal.NewFromInt(400000),
		IsBalanced:      true,
	}
	suite.mockLedgerService.On("BalanceSheet", mock.Anything, testLC, janEnd).Return(bs, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/reports/balance-sheet?asOf=2025-01-31", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.BalanceSheetResponse
	suite.decode(w, &resp)
	suite.Equal("2025-01-31", resp.AsOf)
	suite.True(resp.IsBalanced)
}

func (suite *HandlerTestSuite) TestBalanceSheet_BadDate() {
	w := suite.doJSON(http.MethodGet, "/api/v1/reports/balance-sheet?asOf=yesterday", "")
	suite.assertErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR")
}

func (suite *HandlerTestSuite) TestIncomeStatement() {
	is := &domain.IncomeStatement{
		StartDate: janStart,
		EndDate:   janEnd,
		Revenue:   domain.StatementSection{AccountType: domain.Revenue, Total: decimal.NewFromInt(80000)},
		Expenses:  domain.StatementSection{AccountType: domain.Expense, Total: decimal.NewFromInt(30000)},
		NetIncome: decimal.NewFromInt(50000),
	}
	suite.mockLedgerService.On("IncomeStatement", mock.Anything, testLC, janStart, janEnd).Return(is, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/reports/income-statement?start=2025-01-01&end=2025-01-31", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.IncomeStatementResponse
	suite.decode(w, &resp)
	suite.True(resp.NetIncome.Equal(decimal.NewFromInt(50000)))
}
