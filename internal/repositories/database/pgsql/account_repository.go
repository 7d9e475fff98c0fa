package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/coop_ledger/internal/models"
	"github.com/SscSPs/coop_ledger/internal/utils/mapping"
	"github.com/SscSPs/coop_ledger/pkg/database"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `tenant_id, code, name, account_type, parent_code, description, is_active,
		       created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for the chart of accounts.
func newPgxAccountRepository(querier database.Querier) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{querier: querier}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

// WithTx returns a copy of the repository bound to tx.
func (r *PgxAccountRepository) WithTx(tx pgx.Tx) portsrepo.AccountRepositoryFacade {
	return newPgxAccountRepository(tx)
}

func scanAccount(row scanner) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.TenantID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.ParentCode,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "accounts")
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

// FindAccountByCode retrieves one account of the tenant.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND code = $2;
	`
	m, err := scanAccount(r.querier.QueryRow(ctx, query, tenantID, code))
	if err != nil {
		return nil, mapPgError(err, "account "+code)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByCodes retrieves the existing accounts among codes, keyed by code.
func (r *PgxAccountRepository) FindAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(codes))
	if len(codes) == 0 {
		return result, nil
	}
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND code = ANY($2);
	`
	accounts, err := r.queryAccounts(ctx, query, tenantID, codes)
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		result[acc.Code] = acc
	}
	return result, nil
}

// ListAccounts retrieves the whole chart ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1
		ORDER BY code;
	`
	return r.queryAccounts(ctx, query, tenantID)
}

// CodesWithPostedLines returns, ordered, the codes in codes that a posted entry references.
func (r *PgxAccountRepository) CodesWithPostedLines(ctx context.Context, tenantID string, codes []string) ([]string, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	query := `
		SELECT DISTINCT l.account_code
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.tenant_id = $1 AND l.account_code = ANY($2) AND e.status = 'POSTED'
		ORDER BY l.account_code;
	`
	rows, err := r.querier.Query(ctx, query, tenantID, codes)
	if err != nil {
		return nil, mapPgError(err, "journal lines")
	}
	defer rows.Close()

	var used []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan account code: %w", err)
		}
		used = append(used, code)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "journal lines")
	}
	return used, nil
}

// LockChart takes a transaction-scoped advisory lock on the tenant's chart.
func (r *PgxAccountRepository) LockChart(ctx context.Context, tenantID string) error {
	if _, err := r.querier.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('accounts:' || $1));`, tenantID); err != nil {
		return mapPgError(err, "accounts")
	}
	return nil
}

// ListActiveAccounts retrieves postable accounts ordered by code.
func (r *PgxAccountRepository) ListActiveAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND is_active
		ORDER BY code;
	`
	return r.queryAccounts(ctx, query, tenantID)
}

// SearchActiveAccounts matches query as a substring of code or name, case-insensitively.
func (r *PgxAccountRepository) SearchActiveAccounts(ctx context.Context, tenantID, query string, limit int) ([]domain.Account, error) {
	sqlQuery := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND is_active
		  AND (code ILIKE $2 ESCAPE '\' OR name ILIKE $2 ESCAPE '\')
		ORDER BY code
		LIMIT $3;
	`
	return r.queryAccounts(ctx, sqlQuery, tenantID, likePattern(query), limit)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps s for a substring ILIKE match with wildcards escaped.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// UpsertAccounts inserts or updates accounts keyed by (tenant_id, code).
// created_* are kept on update.
func (r *PgxAccountRepository) UpsertAccounts(ctx context.Context, accounts []domain.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	query := `
		INSERT INTO accounts (tenant_id, code, name, account_type, parent_code, description, is_active,
		                      created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (tenant_id, code) DO UPDATE SET
			name            = EXCLUDED.name,
			account_type    = EXCLUDED.account_type,
			parent_code     = EXCLUDED.parent_code,
			description     = EXCLUDED.description,
			is_active       = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	batch := &pgx.Batch{}
	for _, acc := range accounts {
		m := mapping.ToModelAccount(acc)
		batch.Queue(query,
			m.TenantID,
			m.Code,
			m.Name,
			m.AccountType,
			m.ParentCode,
			m.Description,
			m.IsActive,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	if err := r.querier.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(err, "accounts")
	}
	return nil
}

// SetAccountActive flips is_active for one account.
func (r *PgxAccountRepository) SetAccountActive(ctx context.Context, tenantID, code string, active bool, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE tenant_id = $1 AND code = $2;
	`
	tag, err := r.querier.Exec(ctx, query, tenantID, code, active, now, userID)
	if err != nil {
		return mapPgError(err, "account "+code)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", code, apperrors.ErrNotFound)
	}
	return nil
}
