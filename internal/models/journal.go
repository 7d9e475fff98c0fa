package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID         string          `db:"entry_id"`
	TenantID        string          `db:"tenant_id"`
	EntryNumber     string          `db:"entry_number"`
	EntryDate       time.Time       `db:"entry_date"`
	Description     string          `db:"description"`
	Reference       string          `db:"reference"`
	Source          string          `db:"source"`
	SourceEventType *string         `db:"source_event_type"`
	SourceEventID   *string         `db:"source_event_id"`
	Status          string          `db:"status"`
	TotalDebit      decimal.Decimal `db:"total_debit"`
	TotalCredit     decimal.Decimal `db:"total_credit"`
	PostedBy        *string         `db:"posted_by"`
	PostedAt        *time.Time      `db:"posted_at"`
	VoidedBy        *string         `db:"voided_by"`
	VoidedAt        *time.Time      `db:"voided_at"`
	ReversalOfID    *string         `db:"reversal_of_id"`
	ReversedByID    *string         `db:"reversed_by_id"`
	Version         int             `db:"version"`
	AuditFields
}

// JournalLine is a row of the journal_lines table.
type JournalLine struct {
	LineID       string          `db:"line_id"`
	EntryID      string          `db:"entry_id"`
	TenantID     string          `db:"tenant_id"`
	LineNo       int             `db:"line_no"`
	AccountCode  string          `db:"account_code"`
	DebitAmount  decimal.Decimal `db:"debit_amount"`
	CreditAmount decimal.Decimal `db:"credit_amount"`
	Description  string          `db:"description"`
}
