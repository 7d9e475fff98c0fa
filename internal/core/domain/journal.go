package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft  JournalStatus = "DRAFT"
	Posted JournalStatus = "POSTED"
	Void   JournalStatus = "VOID"
)

// JournalSource records who originated an entry.
type JournalSource string

const (
	SourceManual JournalSource = "MANUAL"
	SourceEvent  JournalSource = "EVENT"
)

// Amounts are stored as NUMERIC(20,4).
const AmountScale int32 = 4

// MaxAmount is the first value that no longer fits the amount columns.
var MaxAmount = decimal.New(1, 20-AmountScale)

// JournalEntry is the header of a balanced group of debit/credit lines.
type JournalEntry struct {
	EntryID         string          `json:"entryID"`
	TenantID        string          `json:"tenantID"`
	EntryNumber     string          `json:"entryNumber"`
	EntryDate       time.Time       `json:"entryDate"`
	Description     string          `json:"description"`
	Reference       string          `json:"reference"`
	Source          JournalSource   `json:"source"`
	SourceEventType *EventType      `json:"sourceEventType,omitempty"`
	SourceEventID   *string         `json:"sourceEventID,omitempty"`
	Status          JournalStatus   `json:"status"`
	TotalDebit      decimal.Decimal `json:"totalDebit"`
	TotalCredit     decimal.Decimal `json:"totalCredit"`
	PostedBy        *string         `json:"postedBy,omitempty"`
	PostedAt        *time.Time      `json:"postedAt,omitempty"`
	VoidedBy        *string         `json:"voidedBy,omitempty"`
	VoidedAt        *time.Time      `json:"voidedAt,omitempty"`
	ReversalOfID    *string         `json:"reversalOfID,omitempty"`
	ReversedByID    *string         `json:"reversedByID,omitempty"`
	Version         int             `json:"version"`
	Lines           []JournalLine   `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is a single debit or credit against one account.
type JournalLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	LineNo       int             `json:"lineNo"`
	AccountCode  string          `json:"accountCode"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}

// JournalHeader holds the caller-supplied fields of a new entry.
type JournalHeader struct {
	EntryDate   time.Time
	Description string
	Reference   string
	Source      JournalSource
	EventType   *EventType
	EventID     *string
}

// LineInput is one requested line before it is assigned ids.
type LineInput struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// IsDebit reports whether the line carries its amount on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.DebitAmount.IsPositive()
}

// Amount returns the non-zero side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.DebitAmount
	}
	return l.CreditAmount
}

// SumLines returns the debit and credit column totals.
func SumLines(lines []JournalLine) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.DebitAmount)
		credit = credit.Add(l.CreditAmount)
	}
	return debit, credit
}

// IsBalanced reports whether the cached totals agree.
func (e JournalEntry) IsBalanced() bool {
	return e.TotalDebit.Equal(e.TotalCredit)
}

// SwappedLines returns lines with debit and credit exchanged, for reversals.
func SwappedLines(lines []JournalLine) []LineInput {
	out := make([]LineInput, len(lines))
	for i, l := range lines {
		out[i] = LineInput{
			AccountCode: l.AccountCode,
			Debit:       l.CreditAmount,
			Credit:      l.DebitAmount,
			Description: l.Description,
		}
	}
	return out
}

// ListJournalsParams filters the journal listing.
type ListJournalsParams struct {
	Status    *JournalStatus
	Limit     int
	NextToken *string
}

// StatusChange describes a guarded status transition.
type StatusChange struct {
	TenantID        string
	EntryID         string
	From            JournalStatus
	To              JournalStatus
	ExpectedVersion int
	ActorID         string
	At              time.Time
}
