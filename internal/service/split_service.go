package service

import (
	"fairsplit/internal/core/domain"
	"fairsplit/pkg/apperror"

	"github.com/shopspring/decimal"
)

// SplitService divides an amount into index-ordered shares without losing
// or creating a single smallest unit.
type SplitService struct {
	policy domain.SplitPolicy
}

// NewSplitService creates a splitter. An unknown rounding policy falls back to half-even.
func NewSplitService(policy domain.SplitPolicy) *SplitService {
	if !policy.Rounding.IsValid() {
		policy.Rounding = domain.RoundHalfEven
	}
	return &SplitService{policy: policy}
}

var defaultSplitter = NewSplitService(domain.DefaultSplitPolicy())

// Split divides amount among recipients at scale using the default policy
// (round half to even, negative amounts allowed).
func Split(amount decimal.Decimal, recipients int, scale int32) (domain.ShareSet, error) {
	return defaultSplitter.Split(amount, recipients, scale)
}

// Policy returns the conversion policy in effect.
func (s *SplitService) Policy() domain.SplitPolicy {
	return s.policy
}

// Split validates the request, converts the amount to smallest units and
// distributes them. It returns an error for every invalid input and never panics.
// The result holds one share per recipient, so callers taking recipients
// from untrusted input must bound it first.
func (s *SplitService) Split(amount decimal.Decimal, recipients int, scale int32) (domain.ShareSet, error) {
	req := domain.SplitRequest{Amount: amount, Recipients: recipients, Scale: scale}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	units, err := ToUnits(s.policy, amount, scale)
	if err != nil {
		return nil, err
	}

	return DistributeUnits(units, recipients, scale), nil
}

// ToUnits converts amount to an integer count of smallest units at scale.
// The result must fit in an int64; anything larger is ErrScaleOverflow.
func ToUnits(policy domain.SplitPolicy, amount decimal.Decimal, scale int32) (int64, error) {
	if amount.Sign() < 0 && !policy.AllowNegative {
		return 0, apperror.ErrNegativeAmount()
	}

	units := policy.Rounding.Apply(amount, scale).Shift(scale).BigInt()
	if !units.IsInt64() {
		return 0, apperror.ErrScaleOverflow()
	}
	return units.Int64(), nil
}

// DistributeUnits splits total units by floor division. The first remainder
// recipients receive one extra unit. recipients must be at least 1.
func DistributeUnits(total int64, recipients int, scale int32) domain.ShareSet {
	base, remainder := floorDivMod(total, int64(recipients))

	shares := make(domain.ShareSet, recipients)
	for i := range shares {
		units := base
		if int64(i) < remainder {
			units++
		}
		shares[i] = domain.FromUnits(units, scale)
	}
	return shares
}

// floorDivMod returns q = floor(a/n) and r = a - q*n with 0 <= r < n, for n > 0.
func floorDivMod(a, n int64) (int64, int64) {
	q, r := a/n, a%n
	if r < 0 {
		q--
		r += n
	}
	return q, r
}
