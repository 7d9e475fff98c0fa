package dto

import (
	"net/url"
	"strings"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ManualEntryForm is a journal entry submitted from the back-office form.
type ManualEntryForm struct {
	Request    CreateJournalRequest
	PostNow    bool
	RedirectTo string
}

// ParseManualEntryForm reads the parallel line arrays account_code[],
// debit[], credit[] and entry_description[] plus the header fields. Rows
// without an account code are skipped. Blank amounts are zero; anything else
// that does not parse is a validation error. The result still has to pass
// binding validation.
func ParseManualEntryForm(form url.Values) (*ManualEntryForm, error) {
	codes := formArray(form, "account_code")
	debits := formArray(form, "debit")
	credits := formArray(form, "credit")
	descriptions := formArray(form, "entry_description")

	parsed := &ManualEntryForm{
		Request: CreateJournalRequest{
			EntryDate:   strings.TrimSpace(form.Get("transaction_date")),
			Description: strings.TrimSpace(form.Get("description")),
			Reference:   strings.TrimSpace(form.Get("reference_number")),
		},
		RedirectTo: safeRedirect(form.Get("redirect_to")),
	}

	switch strings.ToLower(strings.TrimSpace(form.Get("status"))) {
	case "", "draft":
	case "posted":
		parsed.PostNow = true
	default:
		return parsed, apperrors.NewValidationError("status must be draft or posted")
	}

	for i, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		debit, err := parseFormAmount(valueAt(debits, i))
		if err != nil {
			return parsed, apperrors.NewValidationError("row %d: debit %q is not a valid amount", i+1, valueAt(debits, i))
		}
		credit, err := parseFormAmount(valueAt(credits, i))
		if err != nil {
			return parsed, apperrors.NewValidationError("row %d: credit %q is not a valid amount", i+1, valueAt(credits, i))
		}
		parsed.Request.Lines = append(parsed.Request.Lines, JournalLineRequest{
			AccountCode: code,
			Debit:       debit,
			Credit:      credit,
			Description: strings.TrimSpace(valueAt(descriptions, i)),
		})
	}
	return parsed, nil
}

// formArray accepts both "name[]" and "name" keys.
func formArray(form url.Values, name string) []string {
	if values, ok := form[name+"[]"]; ok {
		return values
	}
	return form[name]
}

func valueAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

func parseFormAmount(raw string) (decimal.Decimal, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

// safeRedirect only allows same-site absolute paths.
func safeRedirect(target string) string {
	target = strings.TrimSpace(target)
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return ""
	}
	return target
}
