package service

import (
	"cmp"
	"slices"
	"sync"

	"fairsplit/internal/core/domain"
	"fairsplit/internal/core/ports"

	"github.com/rs/zerolog"
)

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Emit(domain.Event) {}

// caseKey identifies a case within a run.
type caseKey struct {
	strategy domain.Strategy
	index    int
}

// Recorder collects case outcomes and trace events for one run. It is safe
// for concurrent use; ordering is fixed at export time, not at record time.
type Recorder struct {
	log zerolog.Logger

	mu       sync.Mutex
	passed   int
	failed   int
	errored  int
	failures map[caseKey]domain.Failure
	events   []domain.Event
}

var _ ports.EventSink = (*Recorder)(nil)

// NewRecorder creates an empty recorder. Events are mirrored to log at debug level.
func NewRecorder(log zerolog.Logger) *Recorder {
	return &Recorder{
		log:      log,
		failures: make(map[caseKey]domain.Failure),
	}
}

// Emit stores a structured event.
func (r *Recorder) Emit(event domain.Event) {
	r.log.Debug().
		Str("kind", string(event.Kind)).
		Uint64("seed", event.Seed).
		Int("index", event.Index).
		Str("strategy", string(event.Strategy)).
		Str("transform", string(event.Transform)).
		Stringer("request", event.Request).
		Msg("case event")

	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

// Record stores the verdict of a case. shrink is nil for passing cases.
// Failures are keyed by strategy and index; recording the same case twice
// keeps the later failure.
func (r *Recorder) Record(tc domain.TestCase, shrink *domain.ShrinkResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch tc.Outcome.Status {
	case domain.OutcomePass:
		r.passed++
		return
	case domain.OutcomeFail:
		r.failed++
	default:
		r.errored++
	}

	f := domain.Failure{
		Seed:     tc.Seed,
		Index:    tc.Index,
		Strategy: tc.Strategy,
		Outcome:  tc.Outcome,
		Original: tc.Input,
		Minimal:  tc.Input,
	}
	if shrink != nil {
		f.Minimal = shrink.Minimal
		f.Trace = slices.Clone(shrink.Trace)
		f.Steps = shrink.Steps
		f.Exhausted = shrink.Exhausted
	}
	r.failures[caseKey{strategy: tc.Strategy, index: tc.Index}] = f
}

// Export returns a snapshot of counts and failures. Failures are ordered by
// case index, then strategy, so the result does not depend on worker scheduling.
func (r *Recorder) Export() domain.Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	failures := make([]domain.Failure, 0, len(r.failures))
	for _, f := range r.failures {
		failures = append(failures, f)
	}
	slices.SortFunc(failures, func(a, b domain.Failure) int {
		return cmp.Or(
			cmp.Compare(a.Index, b.Index),
			cmp.Compare(a.Strategy, b.Strategy),
			cmp.Compare(a.Seed, b.Seed),
		)
	})

	return domain.Report{
		Executed: r.passed + r.failed + r.errored,
		Passed:   r.passed,
		Failed:   r.failed,
		Errored:  r.errored,
		Failures: failures,
	}
}

// Events returns a copy of the recorded events grouped by case. Events of a
// single case keep their emission order.
func (r *Recorder) Events() []domain.Event {
	r.mu.Lock()
	out := slices.Clone(r.events)
	r.mu.Unlock()

	slices.SortStableFunc(out, func(a, b domain.Event) int {
		return cmp.Or(
			cmp.Compare(a.Index, b.Index),
			cmp.Compare(a.Strategy, b.Strategy),
			cmp.Compare(a.Seed, b.Seed),
		)
	})
	return out
}
