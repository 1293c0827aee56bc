package service

import (
	"context"
	"fmt"
	"time"

	"fairsplit/internal/core/domain"
	"fairsplit/internal/core/ports"
	"fairsplit/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultReportTTL is how long reports stay in the cache.
const DefaultReportTTL = 24 * time.Hour

// ReportServiceImpl implements ports.ReportService. Seeded runs are
// deterministic, so their reports are served from cache by the fingerprint
// of config and split policy.
type ReportServiceImpl struct {
	harness    ports.HarnessService
	policy     domain.SplitPolicy
	reportRepo ports.ReportRepository
	cache      ports.ReportCache
	transactor ports.DBTransactor
	ttl        time.Duration
	log        zerolog.Logger
}

// NewReportService creates a new ReportServiceImpl. policy must be the one
// harness checks the splitter under.
func NewReportService(
	harness ports.HarnessService,
	policy domain.SplitPolicy,
	reportRepo ports.ReportRepository,
	cache ports.ReportCache,
	transactor ports.DBTransactor,
	ttl time.Duration,
	log zerolog.Logger,
) *ReportServiceImpl {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &ReportServiceImpl{
		harness:    harness,
		policy:     policy,
		reportRepo: reportRepo,
		cache:      cache,
		transactor: transactor,
		ttl:        ttl,
		log:        log,
	}
}

// Run executes the harness and persists the report. A seeded config whose
// report is already cached is answered from the cache without running.
func (s *ReportServiceImpl) Run(ctx context.Context, cfg domain.HarnessConfig) (*domain.Report, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var configKey string
	if cfg.Seed != nil {
		configKey = domain.ConfigCacheKey(cfg.Fingerprint(s.policy))
		cached, err := s.cache.Get(ctx, configKey)
		if err != nil {
			s.log.Warn().Err(err).Str("key", configKey).Msg("report cache lookup failed, running harness")
		}
		if cached != nil {
			s.log.Info().Str("run_id", cached.RunID.String()).Msg("serving cached report for seeded config")
			return cached, nil
		}
	}

	report, err := s.harness.Run(ctx, cfg)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.reportRepo.Save(ctx, dbTx, report); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("save report: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	s.cacheReport(ctx, domain.RunCacheKey(report.RunID), report)
	if configKey != "" {
		s.cacheReport(ctx, configKey, report)
	}

	s.log.Info().
		Str("run_id", report.RunID.String()).
		Int("failed", report.Failed).
		Int("errored", report.Errored).
		Msg("report stored")

	return report, nil
}

// GetReport looks a report up by run id, cache first.
func (s *ReportServiceImpl) GetReport(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	key := domain.RunCacheKey(id)
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("report cache lookup failed, falling through to DB")
	}
	if cached != nil {
		return cached, nil
	}

	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get report: %w", err))
	}
	if report == nil {
		return nil, apperror.ErrNotFound("report")
	}

	s.cacheReport(ctx, key, report)
	return report, nil
}

// cacheReport stores report in the cache; failures are logged, not returned.
func (s *ReportServiceImpl) cacheReport(ctx context.Context, key string, report *domain.Report) {
	if err := s.cache.Set(ctx, key, report, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to cache report")
	}
}
