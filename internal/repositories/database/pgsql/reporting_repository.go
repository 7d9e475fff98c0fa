package pgsql

import (
	"context"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/coop_ledger/pkg/database"
	"github.com/jackc/pgx/v5"
)

// Only POSTED entries ever reach a report.
const postedLinesFrom = `
		FROM journal_lines l
		JOIN journal_entries j ON j.tenant_id = l.tenant_id AND j.entry_id = l.entry_id
		WHERE j.tenant_id = $1
		  AND j.status = 'POSTED'
		  AND ($2::date IS NULL OR j.entry_date >= $2::date)
		  AND ($3::date IS NULL OR j.entry_date <= $3::date)`

// reportingRepository implements portsrepo.ReportingRepositoryWithTx
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(querier database.Querier) *reportingRepository {
	return &reportingRepository{BaseRepository: BaseRepository{querier: querier}}
}

var _ portsrepo.ReportingRepositoryWithTx = (*reportingRepository)(nil)

// WithTx returns a copy of the repository bound to a snapshot transaction.
func (r *reportingRepository) WithTx(tx pgx.Tx) portsrepo.ReportingReader {
	return newReportingRepository(tx)
}

// SumPostedActivity aggregates posted debit and credit per account.
func (r *reportingRepository) SumPostedActivity(ctx context.Context, tenantID string, period domain.DateRange) ([]domain.AccountActivity, error) {
	query := `
		SELECT l.account_code, COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)` +
		postedLinesFrom + `
		GROUP BY l.account_code
		ORDER BY l.account_code;
	`
	return r.queryActivity(ctx, query, tenantID, period.From, period.To)
}

// SumPostedActivityForAccounts is SumPostedActivity restricted to codes.
func (r *reportingRepository) SumPostedActivityForAccounts(ctx context.Context, tenantID string, codes []string, period domain.DateRange) ([]domain.AccountActivity, error) {
	if len(codes) == 0 {
		return []domain.AccountActivity{}, nil
	}
	query := `
		SELECT l.account_code, COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)` +
		postedLinesFrom + `
		  AND l.account_code = ANY($4)
		GROUP BY l.account_code
		ORDER BY l.account_code;
	`
	return r.queryActivity(ctx, query, tenantID, period.From, period.To, codes)
}

func (r *reportingRepository) queryActivity(ctx context.Context, query string, args ...any) ([]domain.AccountActivity, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "posted activity")
	}
	defer rows.Close()

	result := []domain.AccountActivity{}
	for rows.Next() {
		var a domain.AccountActivity
		if err := rows.Scan(&a.AccountCode, &a.Debit, &a.Credit); err != nil {
			return nil, apperrors.NewAppError(500, "error scanning activity row", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating activity rows", err)
	}
	return result, nil
}

// ListPostedLines returns posted lines touching codes ordered by
// (entry_date, entry_number, line_no).
func (r *reportingRepository) ListPostedLines(ctx context.Context, tenantID string, codes []string, period domain.DateRange) ([]domain.LedgerLine, error) {
	if len(codes) == 0 {
		return []domain.LedgerLine{}, nil
	}
	query := `
		SELECT j.entry_id, j.entry_number, j.entry_date, j.reference, j.description,
		       l.line_no, l.account_code, l.description, l.debit_amount, l.credit_amount` +
		postedLinesFrom + `
		  AND l.account_code = ANY($4)
		ORDER BY j.entry_date, j.entry_number, l.line_no;
	`
	rows, err := r.querier.Query(ctx, query, tenantID, period.From, period.To, codes)
	if err != nil {
		return nil, mapPgError(err, "posted lines")
	}
	defer rows.Close()

	result := []domain.LedgerLine{}
	for rows.Next() {
		var l domain.LedgerLine
		if err := rows.Scan(
			&l.EntryID,
			&l.EntryNumber,
			&l.EntryDate,
			&l.Reference,
			&l.Description,
			&l.LineNo,
			&l.AccountCode,
			&l.LineDescription,
			&l.Debit,
			&l.Credit,
		); err != nil {
			return nil, apperrors.NewAppError(500, "error scanning ledger line row", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger line rows", err)
	}
	return result, nil
}
