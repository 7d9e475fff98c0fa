package accounting_test

import (
	"errors"
	"testing"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSignedAmount(t *testing.T) {
	assert.True(t, accounting.SignedAmount(dec("100"), dec("30"), domain.DebitNormal).Equal(dec("70")))
	assert.True(t, accounting.SignedAmount(dec("100"), dec("30"), domain.CreditNormal).Equal(dec("-70")))
	assert.True(t, accounting.SignedAmount(dec("0"), dec("1000000"), domain.DebitNormal).Equal(dec("-1000000")))
}

func TestValidateLineAmounts(t *testing.T) {
	tests := []struct {
		name    string
		lines   []domain.LineInput
		wantErr bool
		index   int
	}{
		{
			name: "valid",
			lines: []domain.LineInput{
				{AccountCode: "1110", Debit: dec("10"), Credit: decimal.Zero},
				{AccountCode: "1310", Debit: decimal.Zero, Credit: dec("10")},
			},
		},
		{
			name: "both sides set",
			lines: []domain.LineInput{
				{AccountCode: "1110", Debit: dec("10"), Credit: decimal.Zero},
				{AccountCode: "1310", Debit: dec("5"), Credit: dec("10")},
			},
			wantErr: true,
			index:   1,
		},
		{
			name: "zero line",
			lines: []domain.LineInput{
				{AccountCode: "1110", Debit: decimal.Zero, Credit: decimal.Zero},
			},
			wantErr: true,
		},
		{
			name: "trailing zeros beyond the stored scale",
			lines: []domain.LineInput{
				{AccountCode: "1110", Debit: dec("10.000000"), Credit: decimal.Zero},
				{AccountCode: "1310", Debit: decimal.Zero, Credit: dec("10.0000")},
			},
		},
		{
			name: "finer than the stored scale",
			lines: []domain.LineInput{
				{AccountCode: "1110", Debit: dec("0.00005"), Credit: decimal.Zero},
				{AccountCode: "1110", Debit: dec("0.00005"), Credit: decimal.Zero},
				{AccountCode: "1310", Debit: decimal.Zero, Credit: dec("0.0001")},
			},
			wantErr: true,
		},
		{
			name: "rounds to zero when stored",
			lines: []domain.LineInput{
				{AccountCode: "1110", Debit: dec("0.0001"), Credit: decimal.Zero},
				{AccountCode: "1310", Debit: decimal.Zero, Credit: dec("0.00001")},
			},
			wantErr: true,
			index:   1,
		},
		{
			name: "too large for the amount column",
			lines: []domain.LineInput{
				{AccountCode: "1110", Debit: dec("10000000000000000"), Credit: decimal.Zero},
			},
			wantErr: true,
		},
		{
			name: "negative amount",
			lines: []domain.LineInput{
				{AccountCode: "1110", Debit: dec("-10"), Credit: decimal.Zero},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := accounting.ValidateLineAmounts(tt.lines)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrMalformedLine)
			var lineErr *apperrors.LineError
			require.True(t, errors.As(err, &lineErr))
			assert.Equal(t, tt.index, lineErr.Index)
		})
	}
}

func TestStorable(t *testing.T) {
	assert.True(t, accounting.Storable(dec("1000000.1234")))
	assert.True(t, accounting.Storable(dec("9999999999999999.9999")))
	assert.False(t, accounting.Storable(dec("1000000.12345")))
	assert.False(t, accounting.Storable(dec("10000000000000000")))
}

func TestValidateJournalBalance(t *testing.T) {
	balanced := []domain.LineInput{
		{AccountCode: "1110", Debit: dec("1000000")},
		{AccountCode: "1310", Credit: dec("1000000")},
	}
	assert.NoError(t, accounting.ValidateJournalBalance(balanced))

	unbalanced := []domain.LineInput{
		{AccountCode: "1110", Debit: dec("1000000")},
		{AccountCode: "1310", Credit: dec("900000")},
	}
	err := accounting.ValidateJournalBalance(unbalanced)
	assert.ErrorIs(t, err, apperrors.ErrUnbalancedEntry)
	assert.Contains(t, err.Error(), "900000")
}

func TestRollUp(t *testing.T) {
	parent := "1000"
	cash := "1100"
	tree, err := domain.BuildAccountTree([]domain.Account{
		{Code: "1000", AccountType: domain.Asset},
		{Code: "1100", AccountType: domain.Asset, ParentCode: &parent},
		{Code: "1110", AccountType: domain.Asset, ParentCode: &cash},
		{Code: "1300", AccountType: domain.Asset, ParentCode: &parent},
	})
	require.NoError(t, err)

	totals := accounting.RollUp(tree, map[string]decimal.Decimal{
		"1110": dec("250"),
		"1300": dec("100"),
		"1000": dec("5"),
	})
	assert.True(t, totals["1100"].Equal(dec("250")))
	assert.True(t, totals["1000"].Equal(dec("355")))
	assert.True(t, totals["1300"].Equal(dec("100")))
}
