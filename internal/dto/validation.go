package dto

import (
	"reflect"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidations installs the custom binding rules used by the request DTOs.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return registerValidations(v)
}

func registerValidations(v *validator.Validate) error {
	// Decimals are validated through their string form so tags apply to the value
	// rather than the struct internals.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("positive_amount", positiveAmount); err != nil {
		return err
	}
	if err := v.RegisterValidation("non_negative_amount", nonNegativeAmount); err != nil {
		return err
	}
	return v.RegisterValidation("account_kind", accountKind)
}

func amountOf(fl validator.FieldLevel) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(fl.Field().String())
	return d, err == nil
}

func positiveAmount(fl validator.FieldLevel) bool {
	d, ok := amountOf(fl)
	return ok && d.IsPositive()
}

func nonNegativeAmount(fl validator.FieldLevel) bool {
	d, ok := amountOf(fl)
	return ok && !d.IsNegative()
}

func accountKind(fl validator.FieldLevel) bool {
	switch domain.AccountKind(fl.Field().String()) {
	case domain.Savings, domain.Checking:
		return true
	default:
		return false
	}
}
