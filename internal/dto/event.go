package dto

import (
	"strings"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

// EventRequest names a collaborator event to journalize.
type EventRequest struct {
	Type        string `json:"type" binding:"required,oneof=loan_disbursement repayment savings_deposit"`
	ReferenceID string `json:"reference_id" binding:"required,max=100"`
}

// ToDomain converts the request into an event trigger.
func (r EventRequest) ToDomain() domain.EventTrigger {
	return domain.EventTrigger{Type: domain.EventType(r.Type), ReferenceID: strings.TrimSpace(r.ReferenceID)}
}

// BatchEventRequest carries several events processed independently.
type BatchEventRequest struct {
	Events []EventRequest `json:"events" binding:"required,min=1,max=100,dive"`
}

// EventResponse reports the draft for an event and whether this call created it.
type EventResponse struct {
	Created bool            `json:"created"`
	Entry   JournalResponse `json:"entry"`
}

// BatchEventResult is the outcome of one event in a batch.
type BatchEventResult struct {
	Type         string  `json:"type"`
	ReferenceID  string  `json:"reference_id"`
	Created      bool    `json:"created"`
	EntryID      *string `json:"entry_id,omitempty"`
	EntryNumber  *string `json:"entry_number,omitempty"`
	ErrorCode    string  `json:"error_code,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

// BatchEventResponse lists per-event outcomes in request order.
type BatchEventResponse struct {
	Results   []BatchEventResult `json:"results"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
}

// ToEventResponse converts an event result.
func ToEventResponse(r *domain.EventResult) EventResponse {
	return EventResponse{Created: r.Created, Entry: ToJournalResponse(r.Entry)}
}
