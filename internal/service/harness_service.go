package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fairsplit/internal/core/domain"
	"fairsplit/internal/core/ports"
	"fairsplit/pkg/apperror"
	"fairsplit/pkg/random"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// errStopRun ends a fail-fast run after its first failure.
var errStopRun = errors.New("run stopped after first failure")

// HarnessService implements ports.HarnessService.
type HarnessService struct {
	splitter ports.Splitter
	policy   domain.SplitPolicy
	log      zerolog.Logger
	newSeed  func() (int64, error)
}

var _ ports.HarnessService = (*HarnessService)(nil)

// NewHarnessService creates a harness that checks splitter under policy.
// policy must match the one splitter converts amounts with.
func NewHarnessService(splitter ports.Splitter, policy domain.SplitPolicy, log zerolog.Logger) *HarnessService {
	return &HarnessService{
		splitter: splitter,
		policy:   policy,
		log:      log,
		newSeed:  random.NewSeed,
	}
}

// Run generates cfg.Trials cases, evaluates each, shrinks every failure and
// returns the aggregated report. Trial t uses strategy t mod len(strategies)
// at index t / len(strategies). Fail-fast runs execute sequentially so the
// reported failure is always the first one in trial order.
func (s *HarnessService) Run(ctx context.Context, cfg domain.HarnessConfig) (*domain.Report, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed, err := s.runSeed(cfg)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if cfg.FailFast {
		workers = 1
	}
	workers = min(workers, cfg.Trials)

	report := &domain.Report{
		RunID:     uuid.New(),
		Seed:      seed,
		Trials:    cfg.Trials,
		StartedAt: time.Now().UTC(),
	}
	runLog := s.log.With().Str("run_id", report.RunID.String()).Int64("seed", seed).Logger()
	runLog.Info().
		Int("trials", cfg.Trials).
		Int("workers", workers).
		Bool("fail_fast", cfg.FailFast).
		Msg("harness run started")

	rec := NewRecorder(runLog)
	eval := NewEvaluator(s.splitter, s.policy, cfg.Invariants)
	shrinker := NewShrinker(eval, cfg.ShrinkMaxSteps, cfg.ShrinkTimeout, runLog)
	gen := NewCaseGenerator(cfg.Bounds)

	g, gctx := errgroup.WithContext(ctx)
	chunk := (cfg.Trials + workers - 1) / workers
	for lo := 0; lo < cfg.Trials; lo += chunk {
		hi := min(lo+chunk, cfg.Trials)
		g.Go(func() error {
			for trial := lo; trial < hi; trial++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				strategy := cfg.Strategies[trial%len(cfg.Strategies)]
				index := trial / len(cfg.Strategies)
				if failed := s.runCase(gctx, gen, eval, shrinker, rec, seed, strategy, index, runLog); failed && cfg.FailFast {
					return errStopRun
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, errStopRun) {
		runLog.Warn().Err(err).Msg("harness run aborted")
		return nil, fmt.Errorf("harness run %s: %w", report.RunID, err)
	}

	out := rec.Export()
	report.Executed = out.Executed
	report.Passed = out.Passed
	report.Failed = out.Failed
	report.Errored = out.Errored
	report.Failures = out.Failures
	report.FinishedAt = time.Now().UTC()

	runLog.Info().
		Int("executed", report.Executed).
		Int("passed", report.Passed).
		Int("failed", report.Failed).
		Int("errored", report.Errored).
		Dur("duration", report.Duration()).
		Msg("harness run finished")

	return report, nil
}

// runCase generates, evaluates and records one case. It reports whether the case failed.
func (s *HarnessService) runCase(
	ctx context.Context,
	gen *CaseGenerator,
	eval *Evaluator,
	shrinker *Shrinker,
	rec *Recorder,
	runSeed int64,
	strategy domain.Strategy,
	index int,
	log zerolog.Logger,
) bool {
	caseSeed := CaseSeed(runSeed, strategy, index)
	tc := domain.TestCase{
		Seed:     caseSeed,
		Index:    index,
		Strategy: strategy,
		Input:    gen.Case(caseSeed, strategy, index),
	}
	rec.Emit(domain.Event{Kind: domain.EventGenerated, Seed: caseSeed, Index: index, Strategy: strategy, Request: tc.Input})

	tc.Outcome = eval.Evaluate(tc.Input)
	if tc.Outcome.IsPass() {
		rec.Record(tc, nil)
		return false
	}

	outcome := tc.Outcome
	rec.Emit(domain.Event{Kind: domain.EventViolation, Seed: caseSeed, Index: index, Strategy: strategy, Request: tc.Input, Outcome: &outcome})

	res := shrinker.Shrink(ctx, tc, rec)
	rec.Record(tc, &res)

	log.Warn().
		Str("strategy", string(strategy)).
		Int("index", index).
		Uint64("case_seed", caseSeed).
		Str("outcome", tc.Outcome.String()).
		Stringer("original", tc.Input).
		Stringer("minimal", res.Minimal).
		Bool("shrink_exhausted", res.Exhausted).
		Msg("case failed")
	return true
}

// Replay regenerates one case of a seeded run, evaluates it and shrinks it
// when it fails. cfg supplies invariants, generator bounds and shrink budget.
func (s *HarnessService) Replay(ctx context.Context, cfg domain.HarnessConfig, req domain.ReplayRequest) (*domain.ReplayResult, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !req.Strategy.IsValid() {
		return nil, apperror.ErrInvalidConfig(fmt.Sprintf("unknown strategy %q", req.Strategy))
	}
	if req.Index < 0 {
		return nil, apperror.ErrInvalidConfig("index must not be negative")
	}

	caseSeed := CaseSeed(req.Seed, req.Strategy, req.Index)
	gen := NewCaseGenerator(cfg.Bounds)
	eval := NewEvaluator(s.splitter, s.policy, cfg.Invariants)

	tc := domain.TestCase{
		Seed:     caseSeed,
		Index:    req.Index,
		Strategy: req.Strategy,
		Input:    gen.Case(caseSeed, req.Strategy, req.Index),
	}
	tc.Outcome = eval.Evaluate(tc.Input)

	result := &domain.ReplayResult{Case: tc}
	if !tc.Outcome.IsPass() {
		res := NewShrinker(eval, cfg.ShrinkMaxSteps, cfg.ShrinkTimeout, s.log).Shrink(ctx, tc, NopSink{})
		result.Shrink = &res
	}

	s.log.Info().
		Int64("seed", req.Seed).
		Str("strategy", string(req.Strategy)).
		Int("index", req.Index).
		Str("outcome", tc.Outcome.String()).
		Msg("case replayed")

	return result, nil
}

func (s *HarnessService) runSeed(cfg domain.HarnessConfig) (int64, error) {
	if cfg.Seed != nil {
		return *cfg.Seed, nil
	}
	seed, err := s.newSeed()
	if err != nil {
		return 0, apperror.InternalError(err)
	}
	return seed, nil
}
