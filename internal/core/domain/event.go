package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType names a collaborator event that produces a journal entry.
type EventType string

const (
	EventLoanDisbursement EventType = "loan_disbursement"
	EventRepayment        EventType = "repayment"
	EventSavingsDeposit   EventType = "savings_deposit"
)

// Valid reports whether t has a posting rule.
func (t EventType) Valid() bool {
	_, ok := EventPostingRules[t]
	return ok
}

// Fixed chart codes referenced by event posting rules.
const (
	CodeCashOnHand      = "1110"
	CodeLoansReceivable = "1310"
	CodeMemberSavings   = "2110"
)

// PostingRule is the fixed debit/credit pair for an event type.
type PostingRule struct {
	DebitCode   string
	CreditCode  string
	Description string
}

// EventPostingRules maps each event type to its accounts. The codes are
// fixed; callers never supply them.
var EventPostingRules = map[EventType]PostingRule{
	EventLoanDisbursement: {DebitCode: CodeLoansReceivable, CreditCode: CodeCashOnHand, Description: "Loan disbursement"},
	EventRepayment:        {DebitCode: CodeCashOnHand, CreditCode: CodeLoansReceivable, Description: "Loan repayment"},
	EventSavingsDeposit:   {DebitCode: CodeCashOnHand, CreditCode: CodeMemberSavings, Description: "Savings deposit"},
}

// EventTrigger is what a collaborator sends: which event, and its id.
type EventTrigger struct {
	Type        EventType `json:"type"`
	ReferenceID string    `json:"reference_id"`
}

// EventRecord is the minimal data read from the originating record.
type EventRecord struct {
	Type         EventType
	ID           string
	Amount       decimal.Decimal
	OccurredOn   time.Time
	Reference    string
	Counterparty string
}

// EventResult reports the entry for a trigger and whether this call created it.
type EventResult struct {
	Entry   *JournalEntry
	Created bool
}
