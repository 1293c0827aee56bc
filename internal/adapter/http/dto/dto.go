package dto

import (
	"time"

	"fairsplit/internal/core/domain"
)

// MaxSplitRecipients caps recipients on every outer surface; the binding
// tags below repeat it.
const MaxSplitRecipients = 1_000_000

// SplitRequest is the request body for a single split. Amount is a decimal
// string so no precision is lost in JSON.
type SplitRequest struct {
	Amount     string `json:"amount" binding:"required,decimal_amount"`
	Recipients int    `json:"recipients" binding:"gte=0,lte=1000000"`
	Scale      *int32 `json:"scale" binding:"required"`
}

// SplitResponse is the response body for a split.
type SplitResponse struct {
	Amount     string   `json:"amount"`
	Recipients int      `json:"recipients"`
	Scale      int32    `json:"scale"`
	Shares     []string `json:"shares"`
}

// RunRequest is the request body for a harness run. Omitted fields fall back
// to the server's configured defaults.
type RunRequest struct {
	Trials          *int     `json:"trials,omitempty" binding:"omitempty,gte=1"`
	Seed            *int64   `json:"seed,omitempty"`
	Strategies      []string `json:"strategies,omitempty" binding:"omitempty,unique,dive,strategy"`
	Invariants      []string `json:"invariants,omitempty" binding:"omitempty,unique,dive,invariant"`
	FailFast        *bool    `json:"fail_fast,omitempty"`
	Workers         *int     `json:"workers,omitempty" binding:"omitempty,gte=1,lte=64"`
	ShrinkMaxSteps  *int     `json:"shrink_max_steps,omitempty" binding:"omitempty,gte=1"`
	ShrinkTimeoutMs *int64   `json:"shrink_timeout_ms,omitempty" binding:"omitempty,gte=1"`
	MaxUnits        *int64   `json:"max_units,omitempty" binding:"omitempty,gte=1"`
	MaxRecipients   *int     `json:"max_recipients,omitempty" binding:"omitempty,gte=1,lte=1000000"`
	MaxScale        *int32   `json:"max_scale,omitempty" binding:"omitempty,gte=0,lte=18"`
}

// Apply overlays the request onto base.
func (r RunRequest) Apply(base domain.HarnessConfig) domain.HarnessConfig {
	cfg := base
	if r.Trials != nil {
		cfg.Trials = *r.Trials
	}
	if r.Seed != nil {
		seed := *r.Seed
		cfg.Seed = &seed
	}
	if len(r.Strategies) > 0 {
		cfg.Strategies = make([]domain.Strategy, len(r.Strategies))
		for i, s := range r.Strategies {
			cfg.Strategies[i] = domain.Strategy(s)
		}
	}
	if len(r.Invariants) > 0 {
		cfg.Invariants = make([]domain.Invariant, len(r.Invariants))
		for i, inv := range r.Invariants {
			cfg.Invariants[i] = domain.Invariant(inv)
		}
	}
	if r.FailFast != nil {
		cfg.FailFast = *r.FailFast
	}
	if r.Workers != nil {
		cfg.Workers = *r.Workers
	}
	if r.ShrinkMaxSteps != nil {
		cfg.ShrinkMaxSteps = *r.ShrinkMaxSteps
	}
	if r.ShrinkTimeoutMs != nil {
		cfg.ShrinkTimeout = time.Duration(*r.ShrinkTimeoutMs) * time.Millisecond
	}
	if r.MaxUnits != nil {
		cfg.Bounds.MaxUnits = *r.MaxUnits
	}
	if r.MaxRecipients != nil {
		cfg.Bounds.MaxRecipients = *r.MaxRecipients
	}
	if r.MaxScale != nil {
		cfg.Bounds.MaxScale = domain.ScaleBound(*r.MaxScale)
	}
	return cfg
}

// RunResponse wraps a report with derived summary fields.
type RunResponse struct {
	*domain.Report
	OK         bool  `json:"ok"`
	DurationMs int64 `json:"duration_ms"`
}

// NewRunResponse builds the response body for a report.
func NewRunResponse(r *domain.Report) RunResponse {
	return RunResponse{Report: r, OK: r.OK(), DurationMs: r.Duration().Milliseconds()}
}

// ReplayRequest identifies one generated case of a seeded run.
type ReplayRequest struct {
	Seed     *int64 `json:"seed" binding:"required"`
	Strategy string `json:"strategy" binding:"required,strategy"`
	Index    int    `json:"index" binding:"gte=0"`
}

// TokenResponse is returned by token issuing commands.
type TokenResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}
