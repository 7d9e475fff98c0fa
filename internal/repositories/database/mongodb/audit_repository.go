package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditCollectionName is the collection holding lifecycle records.
const AuditCollectionName = "ledger_audit"

// AuditTrailRepository appends journal lifecycle records to MongoDB.
// Records are never updated or deleted.
type AuditTrailRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewAuditTrailRepository creates the audit store on db.
func NewAuditTrailRepository(logger *slog.Logger, db *mongo.Database) *AuditTrailRepository {
	return &AuditTrailRepository{db: db, logger: logger}
}

var _ portsrepo.AuditTrail = (*AuditTrailRepository)(nil)

// EnsureIndexes creates the lookup index used by ListAudit.
func (r *AuditTrailRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(AuditCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "entry_id", Value: 1}, {Key: "at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create audit index: %w", err)
	}
	return nil
}

// RecordAudit inserts one record.
func (r *AuditTrailRepository) RecordAudit(ctx context.Context, record domain.AuditRecord) error {
	if _, err := r.db.Collection(AuditCollectionName).InsertOne(ctx, record); err != nil {
		r.logger.Error("Failed to record audit entry",
			"entry_id", record.EntryID,
			"action", string(record.Action),
			"error", err)
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// ListAudit returns the records of one entry, oldest first.
func (r *AuditTrailRepository) ListAudit(ctx context.Context, tenantID, entryID string) ([]domain.AuditRecord, error) {
	filter := bson.M{"tenant_id": tenantID, "entry_id": entryID}
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: 1}})

	cursor, err := r.db.Collection(AuditCollectionName).Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to query audit entries", "entry_id", entryID, "error", err)
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	records := []domain.AuditRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode audit entries", "entry_id", entryID, "error", err)
		return nil, fmt.Errorf("failed to decode audit entries: %w", err)
	}
	return records, nil
}
