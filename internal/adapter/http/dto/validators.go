package dto

import (
	"fairsplit/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("decimal_amount", validateDecimalAmount)
		_ = v.RegisterValidation("strategy", validateStrategy)
		_ = v.RegisterValidation("invariant", validateInvariant)
	}
}

// maxAmountLen bounds the amount string before parsing.
const maxAmountLen = 64

// validateDecimalAmount accepts plain decimal strings such as "-12.34".
// Exponent notation is rejected.
func validateDecimalAmount(fl validator.FieldLevel) bool {
	return IsDecimalAmount(fl.Field().String())
}

// IsDecimalAmount reports whether s is a plain decimal string.
func IsDecimalAmount(s string) bool {
	if s == "" || len(s) > maxAmountLen {
		return false
	}
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
		case (r == '-' || r == '+') && i == 0:
		default:
			return false
		}
	}
	_, err := decimal.NewFromString(s)
	return err == nil
}

func validateStrategy(fl validator.FieldLevel) bool {
	return domain.Strategy(fl.Field().String()).IsValid()
}

func validateInvariant(fl validator.FieldLevel) bool {
	return domain.Invariant(fl.Field().String()).IsValid()
}
