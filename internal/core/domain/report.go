package domain

import (
	"time"

	"github.com/google/uuid"
)

// Report aggregates the outcome of one harness run.
type Report struct {
	RunID      uuid.UUID `json:"run_id"`
	Seed       int64     `json:"seed"`
	Trials     int       `json:"trials"`
	Executed   int       `json:"executed"`
	Passed     int       `json:"passed"`
	Failed     int       `json:"failed"`
	Errored    int       `json:"errored"`
	Failures   []Failure `json:"failures"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// OK returns true when every executed case passed.
func (r *Report) OK() bool {
	return r.Failed == 0 && r.Errored == 0
}

// Duration returns the wall-clock time the run took.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// EventKind classifies recorder events.
type EventKind string

const (
	EventGenerated  EventKind = "generated"
	EventViolation  EventKind = "violation"
	EventShrinkStep EventKind = "shrink_step"
	EventShrinkDone EventKind = "shrink_done"
)

// Event is a structured trace entry emitted while a case runs.
type Event struct {
	Kind      EventKind    `json:"kind"`
	Seed      uint64       `json:"seed"`
	Index     int          `json:"index"`
	Strategy  Strategy     `json:"strategy,omitempty"`
	Transform Transform    `json:"transform,omitempty"`
	Request   SplitRequest `json:"request"`
	Outcome   *Outcome     `json:"outcome,omitempty"`
}

// RunCacheKey builds the cache key of a report looked up by run id.
func RunCacheKey(id uuid.UUID) string {
	return "run:" + id.String()
}

// ConfigCacheKey builds the cache key of a seeded run's report.
func ConfigCacheKey(fingerprint string) string {
	return "config:" + fingerprint
}
