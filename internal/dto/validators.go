package dto

import (
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var accountCodePattern = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z.\-]{0,31}$`)

// RegisterValidators adds the ledger's binding tags to v. Decimal fields are
// validated through their string form.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := v.RegisterValidation("decimal_nonneg", validateDecimalNonNeg); err != nil {
		return err
	}
	return v.RegisterValidation("account_code", validateAccountCode)
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func validateDecimalNonNeg(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative()
}

func validateAccountCode(fl validator.FieldLevel) bool {
	return accountCodePattern.MatchString(fl.Field().String())
}
