// Package memory holds process-local stand-ins for the PostgreSQL and Redis
// adapters, used when those backends are disabled.
package memory

import (
	"context"
	"sync"
	"time"

	"fairsplit/internal/core/domain"
	"fairsplit/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- Report repository ---

// ReportRepo keeps reports in a map.
type ReportRepo struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]domain.Report
}

var _ ports.ReportRepository = (*ReportRepo)(nil)

func NewReportRepo() *ReportRepo {
	return &ReportRepo{reports: make(map[uuid.UUID]domain.Report)}
}

// Save stores a copy of report. The transaction is ignored.
func (r *ReportRepo) Save(_ context.Context, _ pgx.Tx, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.RunID] = cloneReport(report)
	return nil
}

// GetByID returns nil, nil when the run is unknown.
func (r *ReportRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, nil
	}
	out := cloneReport(&report)
	return &out, nil
}

// --- Report cache ---

type cacheEntry struct {
	report    domain.Report
	expiresAt time.Time
}

// ReportCache is a TTL map implementing ports.ReportCache.
type ReportCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

var _ ports.ReportCache = (*ReportCache)(nil)

func NewReportCache() *ReportCache {
	return &ReportCache{entries: make(map[string]cacheEntry), now: time.Now}
}

// Get returns nil, nil on a miss or an expired entry.
func (c *ReportCache) Get(_ context.Context, key string) (*domain.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, nil
	}
	out := cloneReport(&e.report)
	return &out, nil
}

func (c *ReportCache) Set(_ context.Context, key string, report *domain.Report, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{report: cloneReport(report), expiresAt: c.now().Add(ttl)}
	return nil
}

func cloneReport(r *domain.Report) domain.Report {
	out := *r
	if r.Failures != nil {
		out.Failures = make([]domain.Failure, len(r.Failures))
		for i, f := range r.Failures {
			f.Trace = append([]domain.ShrinkStep(nil), f.Trace...)
			out.Failures[i] = f
		}
	}
	return out
}

// --- Rate limit store ---

type window struct {
	id    int64
	count int64
}

// RateLimitStore counts requests in fixed windows, like the Redis store.
type RateLimitStore struct {
	mu      sync.Mutex
	windows map[string]window
	now     func() time.Time
}

var _ ports.RateLimitStore = (*RateLimitStore)(nil)

func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{windows: make(map[string]window), now: time.Now}
}

func (s *RateLimitStore) Allow(_ context.Context, key string, limit int64, win time.Duration) (*domain.RateLimitResult, error) {
	windowSecs := max(int64(win.Seconds()), 1)
	windowID := s.now().Unix() / windowSecs

	s.mu.Lock()
	w := s.windows[key]
	if w.id != windowID {
		w = window{id: windowID}
	}
	w.count++
	s.windows[key] = w
	s.mu.Unlock()

	return &domain.RateLimitResult{
		Allowed:   w.count <= limit,
		Limit:     limit,
		Remaining: max(limit-w.count, 0),
		ResetAt:   (windowID + 1) * windowSecs,
	}, nil
}

// --- Transactor ---

// Transactor hands out no-op transactions.
type Transactor struct{}

var _ ports.DBTransactor = Transactor{}

func (Transactor) Begin(_ context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a pgx.Tx that does nothing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }

// --- Health ---

// HealthCheck always reports healthy for the in-process store.
type HealthCheck struct{}

func (HealthCheck) Ping(context.Context) error { return nil }
func (HealthCheck) Name() string               { return "memory" }
