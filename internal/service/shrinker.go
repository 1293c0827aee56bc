package service

import (
	"context"
	"math/big"
	"time"

	"fairsplit/internal/core/domain"
	"fairsplit/internal/core/ports"
	"fairsplit/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CaseEvaluator re-runs a candidate input during shrinking.
type CaseEvaluator interface {
	Evaluate(req domain.SplitRequest) domain.Outcome
}

// Shrinker reduces a failing input with a greedy work-list search: the first
// candidate that reproduces the failure replaces the current input and the
// search restarts from the highest-priority transformation.
type Shrinker struct {
	eval     CaseEvaluator
	maxSteps int
	timeout  time.Duration
	log      zerolog.Logger
}

// NewShrinker creates a shrinker with a per-case budget of maxSteps
// evaluations and timeout wall-clock time.
func NewShrinker(eval CaseEvaluator, maxSteps int, timeout time.Duration, log zerolog.Logger) *Shrinker {
	return &Shrinker{eval: eval, maxSteps: maxSteps, timeout: timeout, log: log}
}

var _ ports.Shrinker = (*Shrinker)(nil)

type candidate struct {
	transform domain.Transform
	request   domain.SplitRequest
}

// Shrink returns the smallest input found that fails the same way as tc.
// When the budget runs out the best input so far is returned with Exhausted set.
func (s *Shrinker) Shrink(ctx context.Context, tc domain.TestCase, sink ports.EventSink) domain.ShrinkResult {
	if sink == nil {
		sink = NopSink{}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	current := tc.Input
	outcome := tc.Outcome
	result := domain.ShrinkResult{
		Trace: []domain.ShrinkStep{{Transform: domain.TransformOriginal, Request: current}},
	}
	visited := map[string]struct{}{current.Key(): {}}

search:
	for {
		for _, c := range candidates(current) {
			key := c.request.Key()
			if _, seen := visited[key]; seen {
				continue
			}
			if result.Steps >= s.maxSteps || ctx.Err() != nil {
				result.Exhausted = true
				break search
			}
			visited[key] = struct{}{}
			if introducesViolation(current, c.request) {
				continue
			}

			result.Steps++
			got := s.eval.Evaluate(c.request)
			if !tc.Outcome.SameFailure(got) {
				continue
			}

			current, outcome = c.request, got
			result.Trace = append(result.Trace, domain.ShrinkStep{Transform: c.transform, Request: current})
			sink.Emit(domain.Event{
				Kind:      domain.EventShrinkStep,
				Seed:      tc.Seed,
				Index:     tc.Index,
				Strategy:  tc.Strategy,
				Transform: c.transform,
				Request:   current,
			})
			continue search
		}
		break
	}

	result.Minimal = current
	result.Outcome = outcome
	sink.Emit(domain.Event{
		Kind:     domain.EventShrinkDone,
		Seed:     tc.Seed,
		Index:    tc.Index,
		Strategy: tc.Strategy,
		Request:  current,
		Outcome:  &outcome,
	})

	s.log.Debug().
		Uint64("seed", tc.Seed).
		Stringer("original", tc.Input).
		Stringer("minimal", current).
		Int("steps", result.Steps).
		Bool("exhausted", result.Exhausted).
		Msg("shrink finished")

	return result
}

// candidates lists single-transformation reductions of req in priority order.
func candidates(req domain.SplitRequest) []candidate {
	var out []candidate
	add := func(t domain.Transform, r domain.SplitRequest) {
		if r.Key() == req.Key() {
			return
		}
		for _, c := range out {
			if c.request.Key() == r.Key() {
				return
			}
		}
		out = append(out, candidate{transform: t, request: r})
	}

	if !req.Amount.IsZero() {
		scale := max(req.Scale, 0)
		unit := domain.Unit(scale)
		if req.Amount.IsNegative() {
			unit = unit.Neg()
		}
		add(domain.TransformMinimizeAmount, domain.SplitRequest{Amount: decimal.Zero, Recipients: req.Recipients, Scale: req.Scale})
		add(domain.TransformMinimizeAmount, domain.SplitRequest{Amount: unit, Recipients: req.Recipients, Scale: req.Scale})

		half := req.Amount.Mul(decimal.New(5, -1)).Truncate(scale)
		add(domain.TransformHalveAmount, domain.SplitRequest{Amount: half, Recipients: req.Recipients, Scale: req.Scale})
	}

	if req.Recipients > 1 {
		for _, r := range []int{1, req.Recipients / 2, req.Recipients - 1} {
			if r >= 1 && r < req.Recipients {
				add(domain.TransformDecreaseRecipients, domain.SplitRequest{Amount: req.Amount, Recipients: r, Scale: req.Scale})
			}
		}
	}

	if req.Scale > 0 {
		for _, sc := range []int32{0, req.Scale - 1} {
			add(domain.TransformDecreaseScale, domain.SplitRequest{Amount: req.Amount.Truncate(sc), Recipients: req.Recipients, Scale: sc})
		}
	}

	if rounded, ok := dropSignificantDigit(req.Amount); ok {
		add(domain.TransformRoundAmount, domain.SplitRequest{Amount: rounded, Recipients: req.Recipients, Scale: req.Scale})
	}

	return out
}

// dropSignificantDigit rounds d toward zero to one fewer significant digit.
// It reports false when d has at most one significant digit.
func dropSignificantDigit(d decimal.Decimal) (decimal.Decimal, bool) {
	coef := d.Coefficient()
	exp := d.Exponent()
	ten := big.NewInt(10)
	mod := new(big.Int)

	if coef.Sign() == 0 {
		return d, false
	}
	for {
		q, m := new(big.Int).QuoRem(coef, ten, mod)
		if m.Sign() != 0 {
			break
		}
		coef = q
		exp++
	}
	if new(big.Int).Abs(coef).Cmp(ten) < 0 {
		return d, false
	}
	return decimal.NewFromBigInt(new(big.Int).Quo(coef, ten), exp+1), true
}

// introducesViolation reports whether next breaks a data model invariant
// that current does not already break.
func introducesViolation(current, next domain.SplitRequest) bool {
	err := next.Validate()
	if err == nil {
		return false
	}
	return apperror.Code(err) != apperror.Code(current.Validate())
}
