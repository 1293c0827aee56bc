// Package storage selects the report stores from configuration: PostgreSQL
// and Redis when enabled, the in-process stores otherwise.
package storage

import (
	"context"
	"fmt"

	"fairsplit/config"
	"fairsplit/internal/adapter/storage/memory"
	"fairsplit/internal/adapter/storage/postgres"
	redisStorage "fairsplit/internal/adapter/storage/redis"
	"fairsplit/internal/core/ports"

	"github.com/rs/zerolog"
)

// Stores bundles the persistence ports used by the report service and the API.
type Stores struct {
	Reports        ports.ReportRepository
	Transactor     ports.DBTransactor
	Cache          ports.ReportCache
	RateLimit      ports.RateLimitStore
	HealthCheckers []ports.HealthChecker

	closers []func()
}

// Close releases every connection opened by Open, in reverse order.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Open connects the configured backends. On error, anything already opened is closed.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	s := &Stores{}

	if cfg.Database.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		s.closers = append(s.closers, pool.Close)

		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			s.Close()
			return nil, fmt.Errorf("ensuring schema: %w", err)
		}
		s.Reports = postgres.NewReportRepo(pool)
		s.Transactor = postgres.NewTransactor(pool)
		s.HealthCheckers = append(s.HealthCheckers, postgres.NewHealthCheck(pool))
	} else {
		log.Warn().Msg("database disabled, reports are kept in memory")
		s.Reports = memory.NewReportRepo()
		s.Transactor = memory.Transactor{}
		s.HealthCheckers = append(s.HealthCheckers, memory.HealthCheck{})
	}

	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		s.closers = append(s.closers, func() { _ = rdb.Close() })

		s.Cache = redisStorage.NewReportCache(rdb)
		s.RateLimit = redisStorage.NewRateLimitStore(rdb)
		s.HealthCheckers = append(s.HealthCheckers, redisStorage.NewHealthCheck(rdb))
	} else {
		s.Cache = memory.NewReportCache()
		s.RateLimit = memory.NewRateLimitStore()
	}

	return s, nil
}
