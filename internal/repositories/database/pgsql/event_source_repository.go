package pgsql

import (
	"context"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/coop_ledger/pkg/database"
)

// PgxEventSourceRepository reads the collaborator tables that trigger
// journal entries. The ledger never writes to them.
type PgxEventSourceRepository struct {
	BaseRepository
}

func newPgxEventSourceRepository(querier database.Querier) *PgxEventSourceRepository {
	return &PgxEventSourceRepository{BaseRepository: BaseRepository{querier: querier}}
}

var _ portsrepo.EventSourceReader = (*PgxEventSourceRepository)(nil)

// FindLoanDisbursement reads a disbursed loan. Loans not yet disbursed are not found.
func (r *PgxEventSourceRepository) FindLoanDisbursement(ctx context.Context, tenantID, loanID string) (*domain.EventRecord, error) {
	query := `
		SELECT loan_id, principal_amount, disbursed_on, COALESCE(loan_number, ''), COALESCE(member_name, '')
		FROM loans
		WHERE tenant_id = $1 AND loan_id = $2 AND disbursed_on IS NOT NULL;
	`
	return r.findSource(ctx, domain.EventLoanDisbursement, "loan "+loanID, query, tenantID, loanID)
}

// FindRepayment reads one loan repayment.
func (r *PgxEventSourceRepository) FindRepayment(ctx context.Context, tenantID, repaymentID string) (*domain.EventRecord, error) {
	query := `
		SELECT repayment_id, amount, paid_on, COALESCE(receipt_number, ''), COALESCE(member_name, '')
		FROM loan_repayments
		WHERE tenant_id = $1 AND repayment_id = $2;
	`
	return r.findSource(ctx, domain.EventRepayment, "repayment "+repaymentID, query, tenantID, repaymentID)
}

// FindSavingsDeposit reads one savings deposit.
func (r *PgxEventSourceRepository) FindSavingsDeposit(ctx context.Context, tenantID, depositID string) (*domain.EventRecord, error) {
	query := `
		SELECT deposit_id, amount, deposited_on, COALESCE(receipt_number, ''), COALESCE(member_name, '')
		FROM savings_deposits
		WHERE tenant_id = $1 AND deposit_id = $2;
	`
	return r.findSource(ctx, domain.EventSavingsDeposit, "savings deposit "+depositID, query, tenantID, depositID)
}

func (r *PgxEventSourceRepository) findSource(ctx context.Context, eventType domain.EventType, what, query string, args ...any) (*domain.EventRecord, error) {
	source := domain.EventRecord{Type: eventType}
	err := r.querier.QueryRow(ctx, query, args...).Scan(
		&source.ID,
		&source.Amount,
		&source.OccurredOn,
		&source.Reference,
		&source.Counterparty,
	)
	if err != nil {
		return nil, mapPgError(err, what)
	}
	return &source, nil
}
