package dto

import (
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PeriodParams binds a start/end report period.
type PeriodParams struct {
	Start string `form:"start" binding:"required,datetime=2006-01-02"`
	End   string `form:"end" binding:"required,datetime=2006-01-02"`
}

// Dates parses both bounds.
func (p PeriodParams) Dates() (time.Time, time.Time, error) {
	start, err := time.Parse(domain.DateLayout, p.Start)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewValidationError("start must be YYYY-MM-DD")
	}
	end, err := time.Parse(domain.DateLayout, p.End)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewValidationError("end must be YYYY-MM-DD")
	}
	return start, end, nil
}

// GeneralLedgerLineResponse is one posted line with its running balance.
type GeneralLedgerLineResponse struct {
	Date        string          `json:"date"`
	EntryID     string          `json:"entryID"`
	EntryNumber string          `json:"entryNumber"`
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// GeneralLedgerResponse represents the general ledger report response.
type GeneralLedgerResponse struct {
	Account        AccountResponse             `json:"account"`
	StartDate      string                      `json:"startDate"`
	EndDate        string                      `json:"endDate"`
	OpeningBalance decimal.Decimal             `json:"openingBalance"`
	Lines          []GeneralLedgerLineResponse `json:"lines"`
	TotalDebit     decimal.Decimal             `json:"totalDebit"`
	TotalCredit    decimal.Decimal             `json:"totalCredit"`
	ClosingBalance decimal.Decimal             `json:"closingBalance"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response.
type TrialBalanceRowResponse struct {
	AccountCode string             `json:"accountCode"`
	AccountName string             `json:"accountName"`
	AccountType domain.AccountType `json:"accountType"`
	TotalDebit  decimal.Decimal    `json:"totalDebit"`
	TotalCredit decimal.Decimal    `json:"totalCredit"`
	Balance     decimal.Decimal    `json:"balance"`
}

// TrialBalanceResponse represents the trial balance report response.
type TrialBalanceResponse struct {
	StartDate   string                    `json:"startDate"`
	EndDate     string                    `json:"endDate"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  decimal.Decimal           `json:"totalDebit"`
	TotalCredit decimal.Decimal           `json:"totalCredit"`
	IsBalanced  bool                      `json:"isBalanced"`
}

// BalanceSheetResponse represents the balance sheet report response.
type BalanceSheetResponse struct {
	AsOf            string                  `json:"asOf"`
	Assets          domain.StatementSection `json:"assets"`
	Liabilities     domain.StatementSection `json:"liabilities"`
	Equity          domain.StatementSection `json:"equity"`
	CurrentEarnings decimal.Decimal         `json:"currentEarnings"`
	TotalEquity     decimal.Decimal         `json:"totalEquity"`
	IsBalanced      bool                    `json:"isBalanced"`
}

// IncomeStatementResponse represents the income statement report response.
type IncomeStatementResponse struct {
	StartDate string                  `json:"startDate"`
	EndDate   string                  `json:"endDate"`
	Revenue   domain.StatementSection `json:"revenue"`
	Expenses  domain.StatementSection `json:"expenses"`
	NetIncome decimal.Decimal         `json:"netIncome"`
}

// ToGeneralLedgerResponse converts the domain report.
func ToGeneralLedgerResponse(gl *domain.GeneralLedger) GeneralLedgerResponse {
	resp := GeneralLedgerResponse{
		Account:        ToAccountResponse(&gl.Account),
		StartDate:      gl.StartDate.Format(domain.DateLayout),
		EndDate:        gl.EndDate.Format(domain.DateLayout),
		OpeningBalance: gl.OpeningBalance,
		Lines:          make([]GeneralLedgerLineResponse, len(gl.Lines)),
		TotalDebit:     gl.TotalDebit,
		TotalCredit:    gl.TotalCredit,
		ClosingBalance: gl.ClosingBalance,
	}
	for i, l := range gl.Lines {
		resp.Lines[i] = GeneralLedgerLineResponse{
			Date:        l.Date.Format(domain.DateLayout),
			EntryID:     l.EntryID,
			EntryNumber: l.EntryNumber,
			Reference:   l.Reference,
			Description: l.Description,
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Balance:     l.Balance,
		}
	}
	return resp
}

// ToTrialBalanceResponse converts the domain report.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		StartDate:   tb.StartDate.Format(domain.DateLayout),
		EndDate:     tb.EndDate.Format(domain.DateLayout),
		Rows:        make([]TrialBalanceRowResponse, len(tb.Rows)),
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
		IsBalanced:  tb.IsBalanced,
	}
	for i, r := range tb.Rows {
		resp.Rows[i] = TrialBalanceRowResponse(r)
	}
	return resp
}

// ToBalanceSheetResponse converts the domain report.
func ToBalanceSheetResponse(bs *domain.BalanceSheet) BalanceSheetResponse {
	return BalanceSheetResponse{
		AsOf:            bs.AsOf.Format(domain.DateLayout),
		Assets:          bs.Assets,
		Liabilities:     bs.Liabilities,
		Equity:          bs.Equity,
		CurrentEarnings: bs.CurrentEarnings,
		TotalEquity:     bs.TotalEquity,
		IsBalanced:      bs.IsBalanced,
	}
}

// ToIncomeStatementResponse converts the domain report.
func ToIncomeStatementResponse(is *domain.IncomeStatement) IncomeStatementResponse {
	return IncomeStatementResponse{
		StartDate: is.StartDate.Format(domain.DateLayout),
		EndDate:   is.EndDate.Format(domain.DateLayout),
		Revenue:   is.Revenue,
		Expenses:  is.Expenses,
		NetIncome: is.NetIncome,
	}
}
