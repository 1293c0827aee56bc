package domain

import (
	"github.com/shopspring/decimal"
)

// MaxScale is the largest supported number of fractional digits. Every amount
// up to 10^18 smallest units fits an int64 at any scale in range.
const MaxScale int32 = 18

// Rounding is the policy used when an amount carries more fractional digits
// than the requested scale.
type Rounding string

const (
	RoundHalfEven Rounding = "half_even"
	RoundTruncate Rounding = "truncate"
)

// IsValid reports whether r names a supported rounding policy.
func (r Rounding) IsValid() bool {
	return r == RoundHalfEven || r == RoundTruncate
}

// Apply rescales amount to scale fractional digits under the policy.
// Unknown policies fall back to half-even.
func (r Rounding) Apply(amount decimal.Decimal, scale int32) decimal.Decimal {
	if r == RoundTruncate {
		return amount.Truncate(scale)
	}
	return amount.RoundBank(scale)
}

// SplitPolicy fixes how an amount is converted to smallest units before it is divided.
type SplitPolicy struct {
	Rounding      Rounding `json:"rounding"`
	AllowNegative bool     `json:"allow_negative"`
}

// DefaultSplitPolicy rounds half-to-even and accepts negative amounts.
func DefaultSplitPolicy() SplitPolicy {
	return SplitPolicy{Rounding: RoundHalfEven, AllowNegative: true}
}

// Unit returns one smallest unit at scale (0.01 at scale 2).
func Unit(scale int32) decimal.Decimal {
	return decimal.New(1, -scale)
}

// FromUnits builds the amount holding units smallest units at scale.
func FromUnits(units int64, scale int32) decimal.Decimal {
	return decimal.New(units, -scale)
}
