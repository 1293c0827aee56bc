package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"
	"time"

	"fairsplit/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReportRepository defines persistence operations for harness reports.
// Save runs inside a caller-owned transaction so a report and its failures
// land together.
type ReportRepository interface {
	Save(ctx context.Context, tx pgx.Tx, report *domain.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ReportCache is the Redis-layer report lookup (fast path).
type ReportCache interface {
	Get(ctx context.Context, key string) (*domain.Report, error) // Returns nil, nil on miss
	Set(ctx context.Context, key string, report *domain.Report, ttl time.Duration) error
}

// RateLimitStore counts requests per key in fixed windows.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*domain.RateLimitResult, error)
}
