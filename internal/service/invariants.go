package service

import (
	"errors"
	"fmt"

	"fairsplit/internal/core/domain"
	"fairsplit/internal/core/ports"
	"fairsplit/pkg/apperror"
)

// Evaluator runs one input through a splitter and checks the result against
// the configured invariants. The expected behaviour is derived from the
// request and the split policy alone.
type Evaluator struct {
	splitter   ports.Splitter
	policy     domain.SplitPolicy
	invariants []domain.Invariant
}

// NewEvaluator creates an evaluator. Rejection of invalid input is always checked.
func NewEvaluator(splitter ports.Splitter, policy domain.SplitPolicy, invariants []domain.Invariant) *Evaluator {
	return &Evaluator{splitter: splitter, policy: policy, invariants: invariants}
}

// panicError carries a recovered splitter panic.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("splitter panicked: %v", e.value)
}

// Evaluate returns Pass, Fail with the first violated invariant, or Error
// with the kind of an unexpected error.
func (e *Evaluator) Evaluate(req domain.SplitRequest) domain.Outcome {
	units, expected := e.expect(req)

	shares, err := e.call(req)
	if err != nil {
		kind := errorKind(err)
		switch {
		case kind == domain.ErrorKindPanic:
			return domain.Errored(kind, err.Error())
		case expected == "":
			return domain.Errored(kind, err.Error())
		case kind == expected:
			return domain.Passed()
		default:
			return domain.Violation(domain.InvariantRejection, "expected %s, got %s", expected, kind)
		}
	}
	if expected != "" {
		return domain.Violation(domain.InvariantRejection, "expected %s, got %d shares", expected, len(shares))
	}

	for _, inv := range e.invariants {
		if out := e.check(inv, req, units, shares); !out.IsPass() {
			return out
		}
	}
	return domain.Passed()
}

// expect computes the total units of a valid request, or the error code a
// correct splitter rejects it with.
func (e *Evaluator) expect(req domain.SplitRequest) (int64, string) {
	if err := req.Validate(); err != nil {
		return 0, apperror.Code(err)
	}
	units, err := ToUnits(e.policy, req.Amount, req.Scale)
	if err != nil {
		return 0, apperror.Code(err)
	}
	return units, ""
}

func (e *Evaluator) call(req domain.SplitRequest) (shares domain.ShareSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			shares, err = nil, &panicError{value: r}
		}
	}()
	return e.splitter.Split(req.Amount, req.Recipients, req.Scale)
}

func errorKind(err error) string {
	var pe *panicError
	if errors.As(err, &pe) {
		return domain.ErrorKindPanic
	}
	if code := apperror.Code(err); code != "" {
		return code
	}
	return domain.ErrorKindUnknown
}

func (e *Evaluator) check(inv domain.Invariant, req domain.SplitRequest, units int64, shares domain.ShareSet) domain.Outcome {
	switch inv {
	case domain.InvariantConservation:
		return checkConservation(req, units, shares)
	case domain.InvariantScaleFidelity:
		return checkScaleFidelity(req, shares)
	case domain.InvariantBoundedSpread:
		return checkBoundedSpread(req, shares)
	case domain.InvariantDeterminism:
		return e.checkDeterminism(req, shares)
	case domain.InvariantRemainderPlacement:
		return checkRemainderPlacement(req, units, shares)
	}
	return domain.Passed()
}

func checkConservation(req domain.SplitRequest, units int64, shares domain.ShareSet) domain.Outcome {
	if len(shares) != req.Recipients {
		return domain.Violation(domain.InvariantConservation, "got %d shares for %d recipients", len(shares), req.Recipients)
	}
	want := domain.FromUnits(units, req.Scale)
	if sum := shares.Sum(); !sum.Equal(want) {
		return domain.Violation(domain.InvariantConservation, "shares sum to %s, want %s", sum, want)
	}
	return domain.Passed()
}

func checkScaleFidelity(req domain.SplitRequest, shares domain.ShareSet) domain.Outcome {
	for i, share := range shares {
		if !share.Equal(share.Truncate(req.Scale)) {
			return domain.Violation(domain.InvariantScaleFidelity, "share %d = %s exceeds scale %d", i, share, req.Scale)
		}
	}
	return domain.Passed()
}

func checkBoundedSpread(req domain.SplitRequest, shares domain.ShareSet) domain.Outcome {
	if spread := shares.Spread(); spread.GreaterThan(domain.Unit(req.Scale)) {
		return domain.Violation(domain.InvariantBoundedSpread, "spread %s exceeds one unit %s", spread, domain.Unit(req.Scale))
	}
	return domain.Passed()
}

func (e *Evaluator) checkDeterminism(req domain.SplitRequest, shares domain.ShareSet) domain.Outcome {
	again, err := e.call(req)
	if err != nil {
		return domain.Violation(domain.InvariantDeterminism, "second call failed: %v", err)
	}
	if len(again) != len(shares) {
		return domain.Violation(domain.InvariantDeterminism, "second call returned %d shares, first %d", len(again), len(shares))
	}
	for i := range shares {
		if !shares[i].Equal(again[i]) {
			return domain.Violation(domain.InvariantDeterminism, "share %d changed from %s to %s", i, shares[i], again[i])
		}
	}
	return domain.Passed()
}

// checkRemainderPlacement requires shares to be non-increasing by index with
// exactly remainder shares above the smallest one.
func checkRemainderPlacement(req domain.SplitRequest, units int64, shares domain.ShareSet) domain.Outcome {
	if len(shares) == 0 {
		return domain.Passed()
	}
	for i := 1; i < len(shares); i++ {
		if shares[i].GreaterThan(shares[i-1]) {
			return domain.Violation(domain.InvariantRemainderPlacement, "share %d = %s exceeds share %d = %s", i, shares[i], i-1, shares[i-1])
		}
	}

	_, remainder := floorDivMod(units, int64(req.Recipients))
	last := shares[len(shares)-1]
	larger := 0
	for _, share := range shares {
		if share.GreaterThan(last) {
			larger++
		}
	}
	if int64(larger) != remainder {
		return domain.Violation(domain.InvariantRemainderPlacement, "%d shares carry an extra unit, want %d", larger, remainder)
	}
	return domain.Passed()
}
