package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountActivity is the posted debit/credit total of one account.
type AccountActivity struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// LedgerLine is a posted line joined with its entry header.
type LedgerLine struct {
	EntryID         string
	EntryNumber     string
	EntryDate       time.Time
	Reference       string
	Description     string
	LineNo          int
	AccountCode     string
	LineDescription string
	Debit           decimal.Decimal
	Credit          decimal.Decimal
}

// GeneralLedgerLine is one posted line with the running balance after it.
type GeneralLedgerLine struct {
	Date        time.Time       `json:"date"`
	EntryID     string          `json:"entryID"`
	EntryNumber string          `json:"entryNumber"`
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// GeneralLedger is the running-balance detail of an account subtree.
type GeneralLedger struct {
	Account        Account             `json:"account"`
	StartDate      time.Time           `json:"startDate"`
	EndDate        time.Time           `json:"endDate"`
	OpeningBalance decimal.Decimal     `json:"openingBalance"`
	Lines          []GeneralLedgerLine `json:"lines"`
	TotalDebit     decimal.Decimal     `json:"totalDebit"`
	TotalCredit    decimal.Decimal     `json:"totalCredit"`
	ClosingBalance decimal.Decimal     `json:"closingBalance"`
}

// TrialBalanceRow represents a single row in a trial balance report.
type TrialBalanceRow struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balance     decimal.Decimal `json:"balance"`
}

// HasActivity reports whether any posted amount touched the account.
func (r TrialBalanceRow) HasActivity() bool {
	return !r.TotalDebit.IsZero() || !r.TotalCredit.IsZero()
}

// TrialBalance is the per-account activity of a period.
type TrialBalance struct {
	StartDate   time.Time         `json:"startDate"`
	EndDate     time.Time         `json:"endDate"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
}

// AccountBalance is an account's subtree balance within a statement.
type AccountBalance struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Depth       int             `json:"depth"`
	Balance     decimal.Decimal `json:"balance"`
}

// StatementSection groups the balances under one account type.
type StatementSection struct {
	AccountType AccountType      `json:"accountType"`
	Accounts    []AccountBalance `json:"accounts"`
	Total       decimal.Decimal  `json:"total"`
}

// BalanceSheet reports assets, liabilities and equity as of a date.
type BalanceSheet struct {
	AsOf            time.Time        `json:"asOf"`
	Assets          StatementSection `json:"assets"`
	Liabilities     StatementSection `json:"liabilities"`
	Equity          StatementSection `json:"equity"`
	CurrentEarnings decimal.Decimal  `json:"currentEarnings"`
	TotalEquity     decimal.Decimal  `json:"totalEquity"`
	IsBalanced      bool             `json:"isBalanced"`
}

// IncomeStatement reports revenue and expense over a period.
type IncomeStatement struct {
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
	Revenue   StatementSection `json:"revenue"`
	Expenses  StatementSection `json:"expenses"`
	NetIncome decimal.Decimal  `json:"netIncome"`
}

// DateRange bounds a posted-line query. Nil ends are open; both ends are
// inclusive.
type DateRange struct {
	From *time.Time
	To   *time.Time
}
