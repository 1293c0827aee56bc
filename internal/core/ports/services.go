package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"iter"
	"time"

	"fairsplit/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Splitter computes a conservation-preserving share distribution.
type Splitter interface {
	Split(amount decimal.Decimal, recipients int, scale int32) (domain.ShareSet, error)
}

// SplitFunc adapts an ordinary function to the Splitter interface.
type SplitFunc func(amount decimal.Decimal, recipients int, scale int32) (domain.ShareSet, error)

func (f SplitFunc) Split(amount decimal.Decimal, recipients int, scale int32) (domain.ShareSet, error) {
	return f(amount, recipients, scale)
}

// CaseGenerator produces split inputs deterministically from a seed.
type CaseGenerator interface {
	// Generate yields count cases of one strategy. Ranging twice yields the same sequence.
	Generate(seed int64, strategy domain.Strategy, count int) iter.Seq2[int, domain.SplitRequest]
	// Case regenerates the single input for a derived case seed.
	Case(caseSeed uint64, strategy domain.Strategy, index int) domain.SplitRequest
}

// EventSink receives structured trace events.
type EventSink interface {
	Emit(event domain.Event)
}

// Shrinker reduces a failing case to a minimal reproducer.
type Shrinker interface {
	Shrink(ctx context.Context, tc domain.TestCase, sink EventSink) domain.ShrinkResult
}

// --- Service Ports (Business Logic) ---

// HarnessService runs property checks against a splitter.
type HarnessService interface {
	Run(ctx context.Context, cfg domain.HarnessConfig) (*domain.Report, error)
	Replay(ctx context.Context, cfg domain.HarnessConfig, req domain.ReplayRequest) (*domain.ReplayResult, error)
}

// ReportService runs the harness and stores its reports.
type ReportService interface {
	Run(ctx context.Context, cfg domain.HarnessConfig) (*domain.Report, error)
	GetReport(ctx context.Context, id uuid.UUID) (*domain.Report, error)
}

// TokenService handles JWT token operations for operators.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
}
