package postgres

import (
	"context"
	"fmt"

	"fairsplit/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Pool is the subset of *pgxpool.Pool the repositories use.
// pgxmock's pool satisfies it in tests.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Pool = (*pgxpool.Pool)(nil)

// Schema creates the tables the report repository writes to.
const Schema = `
CREATE TABLE IF NOT EXISTS harness_runs (
	id          UUID PRIMARY KEY,
	seed        BIGINT      NOT NULL,
	trials      INTEGER     NOT NULL,
	executed    INTEGER     NOT NULL,
	passed      INTEGER     NOT NULL,
	failed      INTEGER     NOT NULL,
	errored     INTEGER     NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS harness_failures (
	run_id      UUID    NOT NULL REFERENCES harness_runs(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	case_seed   BIGINT  NOT NULL,
	case_index  INTEGER NOT NULL,
	strategy    TEXT    NOT NULL,
	outcome     JSONB   NOT NULL,
	original    JSONB   NOT NULL,
	minimal     JSONB   NOT NULL,
	trace       JSONB   NOT NULL,
	steps       INTEGER NOT NULL,
	exhausted   BOOLEAN NOT NULL,
	PRIMARY KEY (run_id, position)
);`

// NewPool creates a PostgreSQL connection pool using pgx.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("dbname", cfg.DBName).
		Int32("max_conns", cfg.MaxConns).
		Msg("PostgreSQL connection pool established")

	return pool, nil
}

// EnsureSchema creates the report tables when they do not exist.
func EnsureSchema(ctx context.Context, pool Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
