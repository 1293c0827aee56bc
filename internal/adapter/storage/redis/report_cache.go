package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fairsplit/internal/core/domain"
	"fairsplit/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

// ReportCache implements ports.ReportCache using Redis. Reports are stored as JSON.
type ReportCache struct {
	client *goredis.Client
	prefix string
}

var _ ports.ReportCache = (*ReportCache)(nil)

// NewReportCache creates a new Redis-backed report cache.
func NewReportCache(client *goredis.Client) *ReportCache {
	return &ReportCache{
		client: client,
		prefix: "fairsplit:report:",
	}
}

// Get retrieves a cached report.
// Returns nil, nil if the key does not exist.
func (c *ReportCache) Get(ctx context.Context, key string) (*domain.Report, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis report get: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal(val, &report); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}
	return &report, nil
}

// Set stores a report with TTL.
func (c *ReportCache) Set(ctx context.Context, key string, report *domain.Report, ttl time.Duration) error {
	val, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis report set: %w", err)
	}
	return nil
}
