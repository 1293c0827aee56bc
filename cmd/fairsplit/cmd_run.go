package main

import (
	"errors"
	"fmt"

	"fairsplit/internal/adapter/http/dto"
	"fairsplit/internal/adapter/storage"
	"fairsplit/internal/core/domain"
	"fairsplit/internal/service"
	"fairsplit/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// errCasesFailed makes the process exit non-zero when a run or replay finds a failure.
var errCasesFailed = errors.New("property check failed")

func (a *app) runCmd() *cobra.Command {
	var (
		req  dto.RunRequest
		save bool

		trials, workers, shrinkSteps, maxRecipients int
		seed, maxUnits                              int64
		maxScale                                    int32
		failFast                                    bool
		shrinkTimeoutMs                             int64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the property harness against the splitter",
		Long: `Run generates cases from a seed, checks every invariant, shrinks each
failure to a minimal reproducer and prints the report as JSON.

Flags left unset fall back to the harness section of the config. Without
--seed a fresh seed is drawn and printed in the report. The command exits
non-zero when any case fails.`,
		Example: "  fairsplit run --seed 42 --trials 5000 --strategy monetary",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("trials") {
				req.Trials = &trials
			}
			if flags.Changed("seed") {
				req.Seed = &seed
			}
			if flags.Changed("fail-fast") {
				req.FailFast = &failFast
			}
			if flags.Changed("workers") {
				req.Workers = &workers
			}
			if flags.Changed("shrink-max-steps") {
				req.ShrinkMaxSteps = &shrinkSteps
			}
			if flags.Changed("shrink-timeout-ms") {
				req.ShrinkTimeoutMs = &shrinkTimeoutMs
			}
			if flags.Changed("max-units") {
				req.MaxUnits = &maxUnits
			}
			if flags.Changed("max-recipients") {
				req.MaxRecipients = &maxRecipients
			}
			if flags.Changed("max-scale") {
				req.MaxScale = &maxScale
			}
			cfg := req.Apply(a.cfg.Harness.RunDefaults())

			ctx := cmd.Context()
			harness := a.harness()

			var (
				report *domain.Report
				err    error
			)
			if save {
				stores, openErr := storage.Open(ctx, a.cfg, a.log)
				if openErr != nil {
					return openErr
				}
				defer stores.Close()

				reports := service.NewReportService(harness, a.cfg.Splitter.Policy(), stores.Reports, stores.Cache, stores.Transactor,
					a.cfg.Redis.ReportTTL, logger.Component(a.log, "reports"))
				report, err = reports.Run(ctx, cfg)
			} else {
				report, err = harness.Run(ctx, cfg)
			}
			if err != nil {
				return err
			}

			if err := a.writeJSON(dto.NewRunResponse(report)); err != nil {
				return err
			}
			if !report.OK() {
				return fmt.Errorf("%w: %d failed, %d errored of %d executed (seed %d)",
					errCasesFailed, report.Failed, report.Errored, report.Executed, report.Seed)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&trials, "trials", "n", domain.DefaultTrials, "Number of cases to generate")
	f.Int64Var(&seed, "seed", 0, "Run seed (default: drawn at random)")
	f.StringSliceVar(&req.Strategies, "strategy", nil, "Generation strategies: uniform, boundary, monetary")
	f.StringSliceVar(&req.Invariants, "invariant", nil, "Invariants to check (default: all)")
	f.BoolVar(&failFast, "fail-fast", false, "Stop after the first failure")
	f.IntVarP(&workers, "workers", "w", domain.DefaultWorkers, "Parallel workers")
	f.IntVar(&shrinkSteps, "shrink-max-steps", domain.DefaultShrinkMaxSteps, "Shrink step budget per failure")
	f.Int64Var(&shrinkTimeoutMs, "shrink-timeout-ms", domain.DefaultShrinkTimeout.Milliseconds(), "Shrink time budget per failure")
	f.Int64Var(&maxUnits, "max-units", 0, "Largest generated amount in smallest units")
	f.IntVar(&maxRecipients, "max-recipients", 0, "Largest generated recipient count")
	f.Int32Var(&maxScale, "max-scale", 0, "Largest generated scale")
	f.BoolVar(&save, "save", false, "Persist the report to the configured store")
	return cmd
}

func (a *app) replayCmd() *cobra.Command {
	var (
		seed     int64
		strategy string
		index    int
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Regenerate and re-check one case of a seeded run",
		Long: `Replay rebuilds the case at --index of --strategy for the run seed,
re-evaluates it and, when it fails, shrinks it again. Use the seed,
strategy and index printed in a report's failures.`,
		Example: "  fairsplit replay --seed 42 --strategy monetary --index 17",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.harness().Replay(cmd.Context(), a.cfg.Harness.RunDefaults(), domain.ReplayRequest{
				Seed:     seed,
				Strategy: domain.Strategy(strategy),
				Index:    index,
			})
			if err != nil {
				return err
			}
			if err := a.writeJSON(result); err != nil {
				return err
			}
			if !result.Case.Outcome.IsPass() {
				return fmt.Errorf("%w: %s", errCasesFailed, result.Case.Outcome)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Run seed")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Strategy of the case")
	cmd.Flags().IntVar(&index, "index", 0, "Case index within the strategy")
	_ = cmd.MarkFlagRequired("seed")
	_ = cmd.MarkFlagRequired("strategy")
	return cmd
}

func (a *app) reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report RUN_ID",
		Short: "Print a stored run report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("run id must be a UUID: %w", err)
			}
			if !a.cfg.Database.Enabled && !a.cfg.Redis.Enabled {
				return errors.New("report lookup needs database.enabled or redis.enabled")
			}

			ctx := cmd.Context()
			stores, err := storage.Open(ctx, a.cfg, a.log)
			if err != nil {
				return err
			}
			defer stores.Close()

			reports := service.NewReportService(a.harness(), a.cfg.Splitter.Policy(), stores.Reports, stores.Cache, stores.Transactor,
				a.cfg.Redis.ReportTTL, logger.Component(a.log, "reports"))
			report, err := reports.GetReport(ctx, id)
			if err != nil {
				return err
			}
			return a.writeJSON(dto.NewRunResponse(report))
		},
	}
}
