package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"fairsplit/pkg/apperror"
)

// Strategy selects how the case generator draws inputs.
type Strategy string

const (
	StrategyUniform  Strategy = "uniform"
	StrategyBoundary Strategy = "boundary"
	StrategyMonetary Strategy = "monetary"
)

// AllStrategies returns every supported strategy in canonical order.
func AllStrategies() []Strategy {
	return []Strategy{StrategyUniform, StrategyBoundary, StrategyMonetary}
}

func (s Strategy) IsValid() bool {
	switch s {
	case StrategyUniform, StrategyBoundary, StrategyMonetary:
		return true
	}
	return false
}

// Invariant names a property checked against every split outcome.
type Invariant string

const (
	InvariantConservation       Invariant = "conservation"
	InvariantScaleFidelity      Invariant = "scale_fidelity"
	InvariantBoundedSpread      Invariant = "bounded_spread"
	InvariantDeterminism        Invariant = "determinism"
	InvariantRemainderPlacement Invariant = "remainder_placement"
	// InvariantRejection is always checked: invalid inputs must be rejected
	// with the expected error kind and valid inputs must not be.
	InvariantRejection Invariant = "rejection"
)

// DefaultInvariants returns the configurable invariants in evaluation order.
func DefaultInvariants() []Invariant {
	return []Invariant{
		InvariantConservation,
		InvariantScaleFidelity,
		InvariantBoundedSpread,
		InvariantDeterminism,
		InvariantRemainderPlacement,
	}
}

func (i Invariant) IsValid() bool {
	switch i {
	case InvariantConservation, InvariantScaleFidelity, InvariantBoundedSpread,
		InvariantDeterminism, InvariantRemainderPlacement, InvariantRejection:
		return true
	}
	return false
}

// OutcomeStatus is the verdict of a single evaluation.
type OutcomeStatus string

const (
	OutcomePass  OutcomeStatus = "PASS"
	OutcomeFail  OutcomeStatus = "FAIL"
	OutcomeError OutcomeStatus = "ERROR"
)

// Error kinds for failures that carry no error code.
const (
	ErrorKindPanic   = "PANIC"
	ErrorKindUnknown = "UNKNOWN"
)

// Outcome is Pass, Fail (with the violated invariant) or Error (with the error kind).
type Outcome struct {
	Status    OutcomeStatus `json:"status"`
	Invariant Invariant     `json:"invariant,omitempty"`
	ErrorKind string        `json:"error_kind,omitempty"`
	Detail    string        `json:"detail,omitempty"`
}

func Passed() Outcome {
	return Outcome{Status: OutcomePass}
}

func Violation(inv Invariant, format string, args ...any) Outcome {
	return Outcome{Status: OutcomeFail, Invariant: inv, Detail: fmt.Sprintf(format, args...)}
}

func Errored(kind string, detail string) Outcome {
	return Outcome{Status: OutcomeError, ErrorKind: kind, Detail: detail}
}

func (o Outcome) IsPass() bool {
	return o.Status == OutcomePass
}

// SameFailure reports whether other reproduces o: the same violated
// invariant, or the same error kind. Details are ignored.
func (o Outcome) SameFailure(other Outcome) bool {
	if o.IsPass() || other.IsPass() {
		return false
	}
	return o.Status == other.Status &&
		o.Invariant == other.Invariant &&
		o.ErrorKind == other.ErrorKind
}

func (o Outcome) String() string {
	switch o.Status {
	case OutcomeFail:
		return fmt.Sprintf("FAIL(%s): %s", o.Invariant, o.Detail)
	case OutcomeError:
		return fmt.Sprintf("ERROR(%s): %s", o.ErrorKind, o.Detail)
	default:
		return string(o.Status)
	}
}

// TestCase is one generated input and its verdict.
type TestCase struct {
	Seed     uint64       `json:"seed"`
	Index    int          `json:"index"`
	Strategy Strategy     `json:"strategy"`
	Input    SplitRequest `json:"input"`
	Outcome  Outcome      `json:"outcome"`
}

// Transform names a single shrink transformation.
type Transform string

const (
	TransformOriginal           Transform = "original"
	TransformMinimizeAmount     Transform = "minimize_amount"
	TransformHalveAmount        Transform = "halve_amount"
	TransformDecreaseRecipients Transform = "decrease_recipients"
	TransformDecreaseScale      Transform = "decrease_scale"
	TransformRoundAmount        Transform = "round_amount"
)

// ShrinkStep is one entry of a shrink trace.
type ShrinkStep struct {
	Transform Transform    `json:"transform"`
	Request   SplitRequest `json:"request"`
}

// ShrinkResult is the outcome of shrinking one failing case. Trace starts
// with the original input and ends with Minimal.
type ShrinkResult struct {
	Minimal   SplitRequest `json:"minimal"`
	Outcome   Outcome      `json:"outcome"`
	Trace     []ShrinkStep `json:"trace"`
	Steps     int          `json:"steps"`
	Exhausted bool         `json:"exhausted"`
}

// Failure is a failing case together with its shrunk reproducer.
type Failure struct {
	Seed      uint64       `json:"seed"`
	Index     int          `json:"index"`
	Strategy  Strategy     `json:"strategy"`
	Outcome   Outcome      `json:"outcome"`
	Original  SplitRequest `json:"original_input"`
	Minimal   SplitRequest `json:"minimal_input"`
	Trace     []ShrinkStep `json:"shrink_trace"`
	Steps     int          `json:"shrink_steps"`
	Exhausted bool         `json:"shrink_exhausted"`
}

// DefaultMaxScaleBound is the generator scale bound used when none is set.
const DefaultMaxScaleBound int32 = 6

// GeneratorBounds limits what the uniform and monetary strategies draw.
// MaxScale is optional: nil means unset, zero restricts cases to whole units.
type GeneratorBounds struct {
	MaxUnits      int64  `json:"max_units"`
	MaxRecipients int    `json:"max_recipients"`
	MaxScale      *int32 `json:"max_scale"`
}

func DefaultGeneratorBounds() GeneratorBounds {
	return GeneratorBounds{MaxUnits: 1_000_000_000, MaxRecipients: 100, MaxScale: ScaleBound(DefaultMaxScaleBound)}
}

// ScaleBound returns a pointer to scale for use as GeneratorBounds.MaxScale.
func ScaleBound(scale int32) *int32 {
	return &scale
}

// Scale returns the largest scale the generator draws.
func (b GeneratorBounds) Scale() int32 {
	if b.MaxScale == nil {
		return DefaultMaxScaleBound
	}
	return *b.MaxScale
}

// HarnessConfig configures one property run.
type HarnessConfig struct {
	Trials         int             `json:"trials"`
	Seed           *int64          `json:"seed,omitempty"`
	Strategies     []Strategy      `json:"strategies"`
	FailFast       bool            `json:"fail_fast"`
	Invariants     []Invariant     `json:"invariants"`
	Workers        int             `json:"workers"`
	ShrinkMaxSteps int             `json:"shrink_max_steps"`
	ShrinkTimeout  time.Duration   `json:"shrink_timeout"`
	Bounds         GeneratorBounds `json:"bounds"`
}

const (
	DefaultTrials         = 1000
	DefaultWorkers        = 4
	DefaultShrinkMaxSteps = 1000
	DefaultShrinkTimeout  = 5 * time.Second
)

// WithDefaults fills every unset field with its default. Repeated
// strategies and invariants are dropped, keeping first occurrences.
func (c HarnessConfig) WithDefaults() HarnessConfig {
	if c.Trials == 0 {
		c.Trials = DefaultTrials
	}
	if len(c.Strategies) == 0 {
		c.Strategies = AllStrategies()
	}
	c.Strategies = dedupe(c.Strategies)
	if len(c.Invariants) == 0 {
		c.Invariants = DefaultInvariants()
	}
	c.Invariants = dedupe(c.Invariants)
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.ShrinkMaxSteps == 0 {
		c.ShrinkMaxSteps = DefaultShrinkMaxSteps
	}
	if c.ShrinkTimeout == 0 {
		c.ShrinkTimeout = DefaultShrinkTimeout
	}
	def := DefaultGeneratorBounds()
	if c.Bounds.MaxUnits == 0 {
		c.Bounds.MaxUnits = def.MaxUnits
	}
	if c.Bounds.MaxRecipients == 0 {
		c.Bounds.MaxRecipients = def.MaxRecipients
	}
	if c.Bounds.MaxScale == nil {
		c.Bounds.MaxScale = def.MaxScale
	}
	return c
}

func dedupe[T comparable](items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !slices.Contains(out, item) {
			out = append(out, item)
		}
	}
	return out
}

// Validate rejects configurations the harness cannot run.
func (c HarnessConfig) Validate() error {
	if c.Trials < 1 {
		return apperror.ErrInvalidConfig("trials must be at least 1")
	}
	if c.Workers < 1 {
		return apperror.ErrInvalidConfig("workers must be at least 1")
	}
	if c.ShrinkMaxSteps < 1 {
		return apperror.ErrInvalidConfig("shrink_max_steps must be at least 1")
	}
	if c.ShrinkTimeout <= 0 {
		return apperror.ErrInvalidConfig("shrink_timeout must be positive")
	}
	for i, s := range c.Strategies {
		if !s.IsValid() {
			return apperror.ErrInvalidConfig(fmt.Sprintf("unknown strategy %q", s))
		}
		if slices.Contains(c.Strategies[:i], s) {
			return apperror.ErrInvalidConfig(fmt.Sprintf("duplicate strategy %q", s))
		}
	}
	for i, inv := range c.Invariants {
		if !inv.IsValid() {
			return apperror.ErrInvalidConfig(fmt.Sprintf("unknown invariant %q", inv))
		}
		if slices.Contains(c.Invariants[:i], inv) {
			return apperror.ErrInvalidConfig(fmt.Sprintf("duplicate invariant %q", inv))
		}
	}
	if c.Bounds.MaxUnits < 1 {
		return apperror.ErrInvalidConfig("max_units must be at least 1")
	}
	if c.Bounds.MaxRecipients < 1 {
		return apperror.ErrInvalidConfig("max_recipients must be at least 1")
	}
	if scale := c.Bounds.Scale(); scale < 0 || scale > MaxScale {
		return apperror.ErrInvalidConfig(fmt.Sprintf("max_scale must be within 0..%d", MaxScale))
	}
	return nil
}

// Fingerprint identifies the run a seeded config produces against a splitter
// running under policy. Two equal fingerprints yield the same report apart
// from run id and timings. Workers is excluded since it does not change results.
func (c HarnessConfig) Fingerprint(policy SplitPolicy) string {
	canonical := c
	canonical.Workers = 0
	data, _ := json.Marshal(struct {
		Config HarnessConfig `json:"config"`
		Policy SplitPolicy   `json:"policy"`
	}{canonical, policy})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ReplayRequest identifies one case of a seeded run.
type ReplayRequest struct {
	Seed     int64    `json:"seed"`
	Strategy Strategy `json:"strategy"`
	Index    int      `json:"index"`
}

// ReplayResult is a regenerated case, re-evaluated and shrunk when it fails.
type ReplayResult struct {
	Case   TestCase      `json:"case"`
	Shrink *ShrinkResult `json:"shrink,omitempty"`
}
