package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"fairsplit/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReport() *domain.Report {
	now := time.Now().UTC().Truncate(time.Microsecond)
	original := domain.NewSplitRequest(1234, 5, 2)
	minimal := domain.NewSplitRequest(1, 2, 2)
	return &domain.Report{
		RunID:    uuid.New(),
		Seed:     42,
		Trials:   100,
		Executed: 100,
		Passed:   99,
		Failed:   1,
		Failures: []domain.Failure{{
			Seed:     ^uint64(0) - 7,
			Index:    3,
			Strategy: domain.StrategyMonetary,
			Outcome:  domain.Violation(domain.InvariantConservation, "sum 12.33 != amount 12.34"),
			Original: original,
			Minimal:  minimal,
			Trace: []domain.ShrinkStep{
				{Transform: domain.TransformOriginal, Request: original},
				{Transform: domain.TransformMinimizeAmount, Request: minimal},
			},
			Steps: 6,
		}},
		StartedAt:  now,
		FinishedAt: now.Add(time.Second),
	}
}

func runColumns() []string {
	return []string{"id", "seed", "trials", "executed", "passed", "failed", "errored", "started_at", "finished_at"}
}

func failureColumns() []string {
	return []string{"case_seed", "case_index", "strategy", "outcome", "original", "minimal", "trace", "steps", "exhausted"}
}

func runRow(r *domain.Report) *pgxmock.Rows {
	return pgxmock.NewRows(runColumns()).AddRow(
		r.RunID, r.Seed, r.Trials, r.Executed, r.Passed, r.Failed, r.Errored, r.StartedAt, r.FinishedAt,
	)
}

func TestReportRepo_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReportRepo(mock)
	report := newTestReport()
	f := report.Failures[0]
	row, err := encodeFailure(f)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO harness_runs").
		WithArgs(
			report.RunID, report.Seed, report.Trials, report.Executed,
			report.Passed, report.Failed, report.Errored,
			report.StartedAt, report.FinishedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO harness_failures").
		WithArgs(
			report.RunID, 0, int64(f.Seed), f.Index, string(f.Strategy),
			row.outcome, row.original, row.minimal, row.trace, f.Steps, f.Exhausted,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Save(context.Background(), dbTx, report)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_Save_RunInsertFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReportRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO harness_runs").
		WillReturnError(errors.New("duplicate key"))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Save(context.Background(), dbTx, newTestReport())
	assert.ErrorContains(t, err, "insert run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReportRepo(mock)
	report := newTestReport()
	f := report.Failures[0]
	row, err := encodeFailure(f)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .+ FROM harness_runs WHERE id").
		WithArgs(report.RunID).
		WillReturnRows(runRow(report))
	mock.ExpectQuery("SELECT .+ FROM harness_failures WHERE run_id").
		WithArgs(report.RunID).
		WillReturnRows(pgxmock.NewRows(failureColumns()).AddRow(
			int64(f.Seed), f.Index, string(f.Strategy),
			row.outcome, row.original, row.minimal, row.trace, f.Steps, f.Exhausted,
		))

	got, err := repo.GetByID(context.Background(), report.RunID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, report.RunID, got.RunID)
	assert.Equal(t, report.Seed, got.Seed)
	assert.Equal(t, report.Failed, got.Failed)
	require.Len(t, got.Failures, 1)

	gf := got.Failures[0]
	assert.Equal(t, f.Seed, gf.Seed)
	assert.Equal(t, f.Strategy, gf.Strategy)
	assert.Equal(t, f.Outcome, gf.Outcome)
	assert.Equal(t, f.Original.Key(), gf.Original.Key())
	assert.Equal(t, f.Minimal.Key(), gf.Minimal.Key())
	require.Len(t, gf.Trace, 2)
	assert.Equal(t, domain.TransformMinimizeAmount, gf.Trace[1].Transform)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReportRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM harness_runs WHERE id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(runColumns()))

	got, err := repo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepo_GetByID_NoFailures(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewReportRepo(mock)
	report := newTestReport()

	mock.ExpectQuery("SELECT .+ FROM harness_runs WHERE id").
		WithArgs(report.RunID).
		WillReturnRows(runRow(report))
	mock.ExpectQuery("SELECT .+ FROM harness_failures WHERE run_id").
		WithArgs(report.RunID).
		WillReturnRows(pgxmock.NewRows(failureColumns()))

	got, err := repo.GetByID(context.Background(), report.RunID)
	require.NoError(t, err)
	assert.NotNil(t, got.Failures)
	assert.Empty(t, got.Failures)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_Begin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	tx, err := NewTransactor(mock).Begin(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tx)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("SELECT 1").WillReturnResult(pgxmock.NewResult("SELECT", 1))

	hc := NewHealthCheck(mock)
	assert.Equal(t, "postgresql", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS harness_runs").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	assert.NoError(t, EnsureSchema(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}
