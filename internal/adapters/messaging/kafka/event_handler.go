package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/middleware"
)

// EventMessage is the payload collaborators publish when a loan or savings
// record is ready to be journalized.
type EventMessage struct {
	TenantID    string           `json:"tenant_id"`
	Type        domain.EventType `json:"type"`
	ReferenceID string           `json:"reference_id"`
}

// EventHandler turns event messages into draft journal entries.
type EventHandler struct {
	events  portssvc.EventJournalSvc
	actorID string
	logger  *slog.Logger
}

// NewEventHandler acts as actorID with the SYSTEM role.
func NewEventHandler(events portssvc.EventJournalSvc, actorID string, logger *slog.Logger) *EventHandler {
	return &EventHandler{events: events, actorID: actorID, logger: logger}
}

// Handle returns nil for messages that can never succeed so the consumer
// commits past them; only transient failures are returned.
func (h *EventHandler) Handle(ctx context.Context, key []byte, value []byte) error {
	var msg EventMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		h.logger.Error("Dropping undecodable event message", "key", string(key), "error", err)
		return nil
	}
	if msg.TenantID == "" {
		msg.TenantID = string(key)
	}

	lc := domain.LedgerContext{TenantID: msg.TenantID, ActorID: h.actorID, Role: domain.RoleSystem}
	ctx = middleware.WithLogger(ctx, h.logger.With("tenant_id", msg.TenantID, "user_id", h.actorID))
	result, err := h.events.BuildFromEvent(ctx, lc, domain.EventTrigger{Type: msg.Type, ReferenceID: msg.ReferenceID})
	if err != nil {
		if isPermanent(err) {
			h.logger.Error("Dropping event that cannot be journalized",
				"tenant_id", msg.TenantID,
				"event_type", string(msg.Type),
				"reference_id", msg.ReferenceID,
				"error", err,
			)
			return nil
		}
		return err
	}

	h.logger.Info("Event journalized",
		"tenant_id", msg.TenantID,
		"event_type", string(msg.Type),
		"reference_id", msg.ReferenceID,
		"entry_id", result.Entry.EntryID,
		"created", result.Created,
	)
	return nil
}

func isPermanent(err error) bool {
	for _, sentinel := range []error{
		apperrors.ErrValidation,
		apperrors.ErrNotFound,
		apperrors.ErrAccountNotFound,
		apperrors.ErrMalformedLine,
		apperrors.ErrUnbalancedEntry,
		apperrors.ErrUnauthorized,
		apperrors.ErrForbidden,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
