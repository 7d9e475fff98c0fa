package accounting

import (
	"fmt"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the normal-balance sign to a debit/credit pair.
// DEBIT-normal accounts (ASSET, EXPENSE) grow with debits; CREDIT-normal
// accounts (LIABILITY, EQUITY, REVENUE) grow with credits.
func SignedAmount(debit, credit decimal.Decimal, normal domain.NormalBalance) decimal.Decimal {
	if normal == domain.DebitNormal {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// ValidateLineAmounts checks that each line carries exactly one non-zero,
// non-negative amount that the ledger can store without rounding.
func ValidateLineAmounts(lines []domain.LineInput) error {
	for i, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return apperrors.NewLineError(i, l.AccountCode, apperrors.ErrMalformedLine, "amounts must not be negative")
		}
		if !Storable(l.Debit) || !Storable(l.Credit) {
			return apperrors.NewLineError(i, l.AccountCode, apperrors.ErrMalformedLine,
				fmt.Sprintf("amounts must have at most %d decimal places and be below %s", domain.AmountScale, domain.MaxAmount.String()))
		}
		debitSet, creditSet := !l.Debit.IsZero(), !l.Credit.IsZero()
		if debitSet == creditSet {
			return apperrors.NewLineError(i, l.AccountCode, apperrors.ErrMalformedLine, "exactly one of debit or credit must be non-zero")
		}
	}
	return nil
}

// Storable reports whether d survives the amount columns unchanged.
func Storable(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(domain.AmountScale)) && d.Abs().LessThan(domain.MaxAmount)
}

// SumInputs totals the debit and credit columns of requested lines.
func SumInputs(lines []domain.LineInput) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// ValidateJournalBalance checks that debits equal credits.
func ValidateJournalBalance(lines []domain.LineInput) error {
	debit, credit := SumInputs(lines)
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s", apperrors.ErrUnbalancedEntry, debit.String(), credit.String())
	}
	return nil
}

// RollUp adds each account's own balance into every ancestor, returning
// subtree balances keyed by code.
func RollUp(tree *domain.AccountTree, own map[string]decimal.Decimal) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	var sum func(n *domain.AccountNode) decimal.Decimal
	sum = func(n *domain.AccountNode) decimal.Decimal {
		total := own[n.Code]
		for _, c := range n.Children {
			total = total.Add(sum(c))
		}
		totals[n.Code] = total
		return total
	}
	for _, r := range tree.Roots {
		sum(r)
	}
	return totals
}
