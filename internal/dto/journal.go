package dto

import (
	"strings"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one requested debit or credit line.
type JournalLineRequest struct {
	AccountCode string          `json:"accountCode" binding:"required,account_code"`
	Debit       decimal.Decimal `json:"debit" binding:"decimal_nonneg"`
	Credit      decimal.Decimal `json:"credit" binding:"decimal_nonneg"`
	Description string          `json:"description" binding:"max=255"`
}

// CreateJournalRequest defines the data needed to create a draft entry.
// The same body is used to replace a draft.
type CreateJournalRequest struct {
	EntryDate   string               `json:"entryDate" binding:"required,datetime=2006-01-02"`
	Description string               `json:"description" binding:"required,max=500"`
	Reference   string               `json:"reference" binding:"max=100"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToDomain splits the request into the header and line inputs the journal
// service expects.
func (r CreateJournalRequest) ToDomain() (domain.JournalHeader, []domain.LineInput, error) {
	entryDate, err := time.Parse(domain.DateLayout, strings.TrimSpace(r.EntryDate))
	if err != nil {
		return domain.JournalHeader{}, nil, apperrors.NewValidationError("entry date must be YYYY-MM-DD")
	}
	header := domain.JournalHeader{
		EntryDate:   entryDate,
		Description: strings.TrimSpace(r.Description),
		Reference:   strings.TrimSpace(r.Reference),
		Source:      domain.SourceManual,
	}
	lines := make([]domain.LineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.LineInput{
			AccountCode: strings.TrimSpace(l.AccountCode),
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: strings.TrimSpace(l.Description),
		}
	}
	return header, lines, nil
}

// ListJournalsParams binds the journal listing query string.
type ListJournalsParams struct {
	Status    string  `form:"status" binding:"omitempty,oneof=DRAFT POSTED VOID draft posted void"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ToDomain converts the query into repository parameters.
func (p ListJournalsParams) ToDomain() domain.ListJournalsParams {
	params := domain.ListJournalsParams{Limit: p.Limit, NextToken: p.NextToken}
	if p.Status != "" {
		status := domain.JournalStatus(strings.ToUpper(p.Status))
		params.Status = &status
	}
	return params
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	LineNo      int             `json:"lineNo"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	EntryID         string                `json:"entryID"`
	EntryNumber     string                `json:"entryNumber"`
	EntryDate       string                `json:"entryDate"`
	Description     string                `json:"description"`
	Reference       string                `json:"reference"`
	Source          domain.JournalSource  `json:"source"`
	SourceEventType *domain.EventType     `json:"sourceEventType,omitempty"`
	SourceEventID   *string               `json:"sourceEventID,omitempty"`
	Status          domain.JournalStatus  `json:"status"`
	TotalDebit      decimal.Decimal       `json:"totalDebit"`
	TotalCredit     decimal.Decimal       `json:"totalCredit"`
	PostedBy        *string               `json:"postedBy,omitempty"`
	PostedAt        *time.Time            `json:"postedAt,omitempty"`
	VoidedBy        *string               `json:"voidedBy,omitempty"`
	VoidedAt        *time.Time            `json:"voidedAt,omitempty"`
	ReversalOfID    *string               `json:"reversalOfID,omitempty"`
	ReversedByID    *string               `json:"reversedByID,omitempty"`
	Version         int                   `json:"version"`
	Lines           []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
	LastUpdatedAt   time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy   string                `json:"lastUpdatedBy"`
}

// ListJournalsResponse is a page of journal headers.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// AuditRecordResponse is one lifecycle step of an entry.
type AuditRecordResponse struct {
	Action  domain.AuditAction `json:"action"`
	ActorID string             `json:"actorID"`
	At      time.Time          `json:"at"`
	Details map[string]string  `json:"details,omitempty"`
}

// ToJournalResponse converts a domain.JournalEntry to JournalResponse.
func ToJournalResponse(e *domain.JournalEntry) JournalResponse {
	resp := JournalResponse{
		EntryID:         e.EntryID,
		EntryNumber:     e.EntryNumber,
		EntryDate:       e.EntryDate.Format(domain.DateLayout),
		Description:     e.Description,
		Reference:       e.Reference,
		Source:          e.Source,
		SourceEventType: e.SourceEventType,
		SourceEventID:   e.SourceEventID,
		Status:          e.Status,
		TotalDebit:      e.TotalDebit,
		TotalCredit:     e.TotalCredit,
		PostedBy:        e.PostedBy,
		PostedAt:        e.PostedAt,
		VoidedBy:        e.VoidedBy,
		VoidedAt:        e.VoidedAt,
		ReversalOfID:    e.ReversalOfID,
		ReversedByID:    e.ReversedByID,
		Version:         e.Version,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
		LastUpdatedAt:   e.LastUpdatedAt,
		LastUpdatedBy:   e.LastUpdatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(e.Lines))
		for i, l := range e.Lines {
			resp.Lines[i] = JournalLineResponse{
				LineID:      l.LineID,
				LineNo:      l.LineNo,
				AccountCode: l.AccountCode,
				Debit:       l.DebitAmount,
				Credit:      l.CreditAmount,
				Description: l.Description,
			}
		}
	}
	return resp
}

// ToListJournalsResponse converts a page of entries.
func ToListJournalsResponse(entries []domain.JournalEntry, nextToken *string) ListJournalsResponse {
	out := ListJournalsResponse{Journals: make([]JournalResponse, len(entries)), NextToken: nextToken}
	for i := range entries {
		out.Journals[i] = ToJournalResponse(&entries[i])
	}
	return out
}

// ToAuditRecordResponses converts audit records.
func ToAuditRecordResponses(records []domain.AuditRecord) []AuditRecordResponse {
	out := make([]AuditRecordResponse, len(records))
	for i, r := range records {
		out[i] = AuditRecordResponse{Action: r.Action, ActorID: r.ActorID, At: r.At, Details: r.Details}
	}
	return out
}
