package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/coop_ledger/internal/models"
	"github.com/SscSPs/coop_ledger/internal/utils/mapping"
	"github.com/SscSPs/coop_ledger/internal/utils/pagination"
	"github.com/SscSPs/coop_ledger/pkg/database"
	"github.com/jackc/pgx/v5"
)

const journalColumns = `entry_id, tenant_id, entry_number, entry_date, description, reference, source,
		       source_event_type, source_event_id, status, total_debit, total_credit,
		       posted_by, posted_at, voided_by, voided_at, reversal_of_id, reversed_by_id, version,
		       created_at, created_by, last_updated_at, last_updated_by`

const insertLineQuery = `
		INSERT INTO journal_lines (line_id, entry_id, tenant_id, line_no, account_code, debit_amount, credit_amount, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(querier database.Querier) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{querier: querier}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

// WithTx returns a copy of the repository bound to tx.
func (r *PgxJournalRepository) WithTx(tx pgx.Tx) portsrepo.JournalRepositoryFacade {
	return newPgxJournalRepository(tx)
}

func scanJournal(row scanner) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Description,
		&m.Reference,
		&m.Source,
		&m.SourceEventType,
		&m.SourceEventID,
		&m.Status,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.PostedBy,
		&m.PostedAt,
		&m.VoidedBy,
		&m.VoidedAt,
		&m.ReversalOfID,
		&m.ReversedByID,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// nextEntryNumber bumps the tenant's counter for year and formats JE-YYYY-NNNNNN.
// The upsert holds the counter row lock until the surrounding transaction ends.
func (r *PgxJournalRepository) nextEntryNumber(ctx context.Context, tenantID string, year int) (string, error) {
	query := `
		INSERT INTO journal_sequences (tenant_id, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (tenant_id, year) DO UPDATE SET last_value = journal_sequences.last_value + 1
		RETURNING last_value;
	`
	var seq int64
	if err := r.querier.QueryRow(ctx, query, tenantID, year).Scan(&seq); err != nil {
		return "", mapPgError(err, "journal sequence")
	}
	return fmt.Sprintf("JE-%d-%06d", year, seq), nil
}

// SaveJournal assigns the entry number and inserts header and lines.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, entry *domain.JournalEntry) error {
	if entry.EntryNumber == "" {
		number, err := r.nextEntryNumber(ctx, entry.TenantID, entry.EntryDate.Year())
		if err != nil {
			return err
		}
		entry.EntryNumber = number
	}

	m := mapping.ToModelJournalEntry(*entry)
	query := `
		INSERT INTO journal_entries (
			entry_id, tenant_id, entry_number, entry_date, description, reference, source,
			source_event_type, source_event_id, status, total_debit, total_credit,
			posted_by, posted_at, voided_by, voided_at, reversal_of_id, reversed_by_id, version,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err := r.querier.Exec(ctx, query,
		m.EntryID,
		m.TenantID,
		m.EntryNumber,
		m.EntryDate,
		m.Description,
		m.Reference,
		m.Source,
		m.SourceEventType,
		m.SourceEventID,
		m.Status,
		m.TotalDebit,
		m.TotalCredit,
		m.PostedBy,
		m.PostedAt,
		m.VoidedBy,
		m.VoidedAt,
		m.ReversalOfID,
		m.ReversedByID,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "journal entry "+m.EntryNumber)
	}
	return r.insertLines(ctx, entry.TenantID, entry.Lines)
}

func (r *PgxJournalRepository) insertLines(ctx context.Context, tenantID string, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelJournalLine(tenantID, line)
		batch.Queue(insertLineQuery,
			m.LineID,
			m.EntryID,
			m.TenantID,
			m.LineNo,
			m.AccountCode,
			m.DebitAmount,
			m.CreditAmount,
			m.Description,
		)
	}
	if err := r.querier.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(err, "journal lines")
	}
	return nil
}

func (r *PgxJournalRepository) findLines(ctx context.Context, tenantID, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, tenant_id, line_no, account_code, debit_amount, credit_amount, description
		FROM journal_lines
		WHERE tenant_id = $1 AND entry_id = $2
		ORDER BY line_no;
	`
	rows, err := r.querier.Query(ctx, query, tenantID, entryID)
	if err != nil {
		return nil, mapPgError(err, "journal lines")
	}
	defer rows.Close()

	var lines []models.JournalLine
	for rows.Next() {
		var m models.JournalLine
		if err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.TenantID,
			&m.LineNo,
			&m.AccountCode,
			&m.DebitAmount,
			&m.CreditAmount,
			&m.Description,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal line row", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal line rows", err)
	}
	return mapping.ToDomainJournalLineSlice(lines), nil
}

// findOne reads a single header matching where and attaches its lines.
func (r *PgxJournalRepository) findOne(ctx context.Context, what, where string, args ...any) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM journal_entries
		` + where
	m, err := scanJournal(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapPgError(err, what)
	}
	entry := mapping.ToDomainJournalEntry(m)
	entry.Lines, err = r.findLines(ctx, m.TenantID, m.EntryID)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindJournalByID retrieves an entry header with its lines.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	return r.findOne(ctx, "journal entry", `WHERE tenant_id = $1 AND entry_id = $2;`, tenantID, entryID)
}

// LockJournalForUpdate reads an entry holding its row lock until the transaction ends.
func (r *PgxJournalRepository) LockJournalForUpdate(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	return r.findOne(ctx, "journal entry", `WHERE tenant_id = $1 AND entry_id = $2 FOR UPDATE;`, tenantID, entryID)
}

// FindJournalBySourceEvent retrieves the entry generated for an event.
func (r *PgxJournalRepository) FindJournalBySourceEvent(ctx context.Context, tenantID string, eventType domain.EventType, eventID string) (*domain.JournalEntry, error) {
	return r.findOne(ctx, "journal entry for event",
		`WHERE tenant_id = $1 AND source_event_type = $2 AND source_event_id = $3;`,
		tenantID, string(eventType), eventID)
}

// ListJournals retrieves headers ordered by (entry_date, entry_number) descending.
// Lines are not loaded.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, tenantID string, params domain.ListJournalsParams) ([]domain.JournalEntry, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells us whether another page exists.
	fetchLimit := limit + 1

	query := `
		SELECT ` + journalColumns + `
		FROM journal_entries
		WHERE tenant_id = $1`
	args := []any{tenantID}

	if params.Status != nil {
		args = append(args, string(*params.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if params.NextToken != nil && *params.NextToken != "" {
		lastDate, lastNumber, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken: %v", err)
		}
		args = append(args, lastDate, lastNumber)
		query += ` AND (entry_date, entry_number) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}
	args = append(args, fetchLimit)
	query += ` ORDER BY entry_date DESC, entry_number DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "journal entries")
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}

	var nextToken *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.EntryNumber)
		nextToken = &token
		entries = entries[:limit]
	}
	return entries, nextToken, nil
}

// UpdateJournalStatus applies change only if the row still has the expected
// status and version. Zero rows affected means another writer got there first.
func (r *PgxJournalRepository) UpdateJournalStatus(ctx context.Context, change domain.StatusChange) error {
	var postedBy, voidedBy *string
	var postedAt, voidedAt *time.Time
	switch change.To {
	case domain.Posted:
		postedBy, postedAt = &change.ActorID, &change.At
	case domain.Void:
		voidedBy, voidedAt = &change.ActorID, &change.At
	}

	query := `
		UPDATE journal_entries
		SET status          = $3,
		    posted_by       = COALESCE($5, posted_by),
		    posted_at       = COALESCE($6, posted_at),
		    voided_by       = COALESCE($7, voided_by),
		    voided_at       = COALESCE($8, voided_at),
		    version         = version + 1,
		    last_updated_at = $9,
		    last_updated_by = $10
		WHERE tenant_id = $1 AND entry_id = $2 AND status = $4 AND version = $11;
	`
	tag, err := r.querier.Exec(ctx, query,
		change.TenantID,
		change.EntryID,
		string(change.To),
		string(change.From),
		postedBy,
		postedAt,
		voidedBy,
		voidedAt,
		change.At,
		change.ActorID,
		change.ExpectedVersion,
	)
	if err != nil {
		return mapPgError(err, "journal entry "+change.EntryID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is no longer %s at version %d", apperrors.ErrAlreadyPosted, change.EntryID, change.From, change.ExpectedVersion)
	}
	return nil
}

// ReplaceDraft rewrites the header and lines of a draft at entry.Version.
func (r *PgxJournalRepository) ReplaceDraft(ctx context.Context, entry *domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(*entry)
	query := `
		UPDATE journal_entries
		SET entry_date      = $3,
		    description     = $4,
		    reference       = $5,
		    total_debit     = $6,
		    total_credit    = $7,
		    version         = version + 1,
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE tenant_id = $1 AND entry_id = $2 AND status = 'DRAFT' AND version = $10;
	`
	tag, err := r.querier.Exec(ctx, query,
		m.TenantID,
		m.EntryID,
		m.EntryDate,
		m.Description,
		m.Reference,
		m.TotalDebit,
		m.TotalCredit,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return mapPgError(err, "journal entry "+m.EntryID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is no longer a draft at version %d", apperrors.ErrAlreadyPosted, m.EntryID, m.Version)
	}

	deleteLines := `DELETE FROM journal_lines WHERE tenant_id = $1 AND entry_id = $2;`
	if _, err := r.querier.Exec(ctx, deleteLines, m.TenantID, m.EntryID); err != nil {
		return mapPgError(err, "journal lines")
	}
	return r.insertLines(ctx, m.TenantID, entry.Lines)
}

// MarkReversed links a posted entry to its reversal. Fails with ErrConflict
// when the entry was already reversed or changed since it was read.
func (r *PgxJournalRepository) MarkReversed(ctx context.Context, tenantID, entryID, reversalID, userID string, expectedVersion int) error {
	query := `
		UPDATE journal_entries
		SET reversed_by_id  = $3,
		    version         = version + 1,
		    last_updated_at = NOW(),
		    last_updated_by = $4
		WHERE tenant_id = $1 AND entry_id = $2 AND status = 'POSTED'
		  AND reversed_by_id IS NULL AND version = $5;
	`
	tag, err := r.querier.Exec(ctx, query, tenantID, entryID, reversalID, userID, expectedVersion)
	if err != nil {
		return mapPgError(err, "journal entry "+entryID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s was reversed or changed concurrently", apperrors.ErrConflict, entryID)
	}
	return nil
}
