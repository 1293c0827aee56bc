package domain

import (
	"fmt"

	"fairsplit/pkg/apperror"

	"github.com/shopspring/decimal"
)

// SplitRequest is an immutable split input.
type SplitRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Recipients int             `json:"recipients"`
	Scale      int32           `json:"scale"`
}

// NewSplitRequest builds a request from an amount expressed in smallest units.
func NewSplitRequest(units int64, recipients int, scale int32) SplitRequest {
	return SplitRequest{Amount: FromUnits(units, scale), Recipients: recipients, Scale: scale}
}

// Validate checks the data model invariants: recipients >= 1 and 0 <= scale <= MaxScale.
func (r SplitRequest) Validate() error {
	if r.Recipients < 1 {
		return apperror.ErrZeroRecipients()
	}
	if r.Scale < 0 || r.Scale > MaxScale {
		return apperror.ErrInvalidScale(r.Scale, MaxScale)
	}
	return nil
}

// Key is a canonical identity used for visited sets and cache keys.
// Amounts that differ only in trailing zeros share a key.
func (r SplitRequest) Key() string {
	return fmt.Sprintf("%s/%d/%d", r.Amount.String(), r.Recipients, r.Scale)
}

func (r SplitRequest) String() string {
	return fmt.Sprintf("split(%s, %d, %d)", r.Amount.String(), r.Recipients, r.Scale)
}

// ShareSet holds one amount per recipient, in recipient index order.
type ShareSet []decimal.Decimal

// Sum adds every share exactly.
func (s ShareSet) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, share := range s {
		total = total.Add(share)
	}
	return total
}

// Spread is max(share) - min(share); zero for an empty set.
func (s ShareSet) Spread() decimal.Decimal {
	if len(s) == 0 {
		return decimal.Zero
	}
	return decimal.Max(s[0], s[1:]...).Sub(decimal.Min(s[0], s[1:]...))
}

// Strings renders every share with exactly scale fractional digits.
func (s ShareSet) Strings(scale int32) []string {
	out := make([]string, len(s))
	for i, share := range s {
		out[i] = share.StringFixed(scale)
	}
	return out
}
