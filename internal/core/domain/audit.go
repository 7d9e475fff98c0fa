package domain

import "time"

// AuditAction names a lifecycle step recorded in the audit trail.
type AuditAction string

const (
	AuditCreated  AuditAction = "CREATED"
	AuditUpdated  AuditAction = "UPDATED"
	AuditPosted   AuditAction = "POSTED"
	AuditVoided   AuditAction = "VOIDED"
	AuditReversed AuditAction = "REVERSED"
)

// AuditRecord is an append-only note of who did what to an entry.
type AuditRecord struct {
	TenantID    string            `json:"tenantID" bson:"tenant_id"`
	EntryID     string            `json:"entryID" bson:"entry_id"`
	EntryNumber string            `json:"entryNumber" bson:"entry_number"`
	Action      AuditAction       `json:"action" bson:"action"`
	ActorID     string            `json:"actorID" bson:"actor_id"`
	At          time.Time         `json:"at" bson:"at"`
	Details     map[string]string `json:"details,omitempty" bson:"details,omitempty"`
}
