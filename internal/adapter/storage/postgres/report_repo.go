package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fairsplit/internal/core/domain"
	"fairsplit/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReportRepo implements ports.ReportRepository.
type ReportRepo struct {
	pool Pool
}

var _ ports.ReportRepository = (*ReportRepo)(nil)

// NewReportRepo creates a new ReportRepo.
func NewReportRepo(pool Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

const insertRunQuery = `INSERT INTO harness_runs (id, seed, trials, executed, passed, failed, errored, started_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const insertFailureQuery = `INSERT INTO harness_failures (run_id, position, case_seed, case_index, strategy,
	outcome, original, minimal, trace, steps, exhausted)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Save inserts a report and its failures within a database transaction.
func (r *ReportRepo) Save(ctx context.Context, tx pgx.Tx, report *domain.Report) error {
	_, err := tx.Exec(ctx, insertRunQuery,
		report.RunID, report.Seed, report.Trials, report.Executed,
		report.Passed, report.Failed, report.Errored,
		report.StartedAt, report.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, f := range report.Failures {
		row, err := encodeFailure(f)
		if err != nil {
			return fmt.Errorf("encode failure %d: %w", i, err)
		}
		_, err = tx.Exec(ctx, insertFailureQuery,
			report.RunID, i, int64(f.Seed), f.Index, string(f.Strategy),
			row.outcome, row.original, row.minimal, row.trace, f.Steps, f.Exhausted,
		)
		if err != nil {
			return fmt.Errorf("insert failure %d: %w", i, err)
		}
	}
	return nil
}

// GetByID fetches a report and its failures. It returns nil, nil when the run does not exist.
func (r *ReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	query := `SELECT id, seed, trials, executed, passed, failed, errored, started_at, finished_at
		FROM harness_runs WHERE id = $1`

	report := &domain.Report{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&report.RunID, &report.Seed, &report.Trials, &report.Executed,
		&report.Passed, &report.Failed, &report.Errored,
		&report.StartedAt, &report.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}

	failures, err := r.listFailures(ctx, id)
	if err != nil {
		return nil, err
	}
	report.Failures = failures
	return report, nil
}

func (r *ReportRepo) listFailures(ctx context.Context, runID uuid.UUID) ([]domain.Failure, error) {
	query := `SELECT case_seed, case_index, strategy, outcome, original, minimal, trace, steps, exhausted
		FROM harness_failures WHERE run_id = $1 ORDER BY position`

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list failures: %w", err)
	}
	defer rows.Close()

	failures := []domain.Failure{}
	for rows.Next() {
		var (
			f        domain.Failure
			seed     int64
			strategy string
			row      failureRow
		)
		err := rows.Scan(
			&seed, &f.Index, &strategy,
			&row.outcome, &row.original, &row.minimal, &row.trace,
			&f.Steps, &f.Exhausted,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failure row: %w", err)
		}
		f.Seed = uint64(seed)
		f.Strategy = domain.Strategy(strategy)
		if err := row.decode(&f); err != nil {
			return nil, fmt.Errorf("decode failure row: %w", err)
		}
		failures = append(failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate failure rows: %w", err)
	}
	return failures, nil
}

// failureRow carries the JSONB columns of a harness_failures row.
type failureRow struct {
	outcome  []byte
	original []byte
	minimal  []byte
	trace    []byte
}

func encodeFailure(f domain.Failure) (failureRow, error) {
	var (
		row failureRow
		err error
	)
	if row.outcome, err = json.Marshal(f.Outcome); err != nil {
		return row, err
	}
	if row.original, err = json.Marshal(f.Original); err != nil {
		return row, err
	}
	if row.minimal, err = json.Marshal(f.Minimal); err != nil {
		return row, err
	}
	trace := f.Trace
	if trace == nil {
		trace = []domain.ShrinkStep{}
	}
	row.trace, err = json.Marshal(trace)
	return row, err
}

func (row failureRow) decode(f *domain.Failure) error {
	if err := json.Unmarshal(row.outcome, &f.Outcome); err != nil {
		return err
	}
	if err := json.Unmarshal(row.original, &f.Original); err != nil {
		return err
	}
	if err := json.Unmarshal(row.minimal, &f.Minimal); err != nil {
		return err
	}
	return json.Unmarshal(row.trace, &f.Trace)
}
