package dto

import (
	"testing"
	"time"

	"fairsplit/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDecimalAmount(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"100.01", true},
		{"-0.05", true},
		{"0", true},
		{"92233720368547758.07", true},
		{"", false},
		{"1e5", false},
		{"12,34", false},
		{"abc", false},
		{"1-2", false},
		{"--1", false},
		{"1.2.3", false},
		{" 12.34", false},
		{"1" + string(make([]byte, 70)), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDecimalAmount(tt.in), "%q", tt.in)
	}
}

func scale(s int32) *int32 { return &s }

func TestSplitRequest_Binding(t *testing.T) {
	tests := []struct {
		name    string
		req     SplitRequest
		wantErr bool
	}{
		{"valid", SplitRequest{Amount: "12.34", Recipients: 5, Scale: scale(2)}, false},
		{"zero recipients reaches the splitter", SplitRequest{Amount: "1", Recipients: 0, Scale: scale(2)}, false},
		{"missing scale", SplitRequest{Amount: "1", Recipients: 2}, true},
		{"bad amount", SplitRequest{Amount: "1e3", Recipients: 2, Scale: scale(0)}, true},
		{"too many recipients", SplitRequest{Amount: "1", Recipients: 1_000_001, Scale: scale(0)}, true},
		{"negative recipients", SplitRequest{Amount: "1", Recipients: -1, Scale: scale(0)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRunRequest_Binding(t *testing.T) {
	workers := 0
	assert.Error(t, binding.Validator.ValidateStruct(RunRequest{Strategies: []string{"fuzzy"}}))
	assert.Error(t, binding.Validator.ValidateStruct(RunRequest{Invariants: []string{"conservation", "nope"}}))
	assert.Error(t, binding.Validator.ValidateStruct(RunRequest{Workers: &workers}))
	assert.Error(t, binding.Validator.ValidateStruct(RunRequest{Strategies: []string{"uniform", "uniform"}}))
	assert.Error(t, binding.Validator.ValidateStruct(RunRequest{Invariants: []string{"determinism", "determinism"}}))
	assert.NoError(t, binding.Validator.ValidateStruct(RunRequest{
		Strategies: []string{"uniform", "boundary"},
		Invariants: []string{"conservation", "determinism"},
	}))
	assert.NoError(t, binding.Validator.ValidateStruct(RunRequest{}))
}

func TestReplayRequest_Binding(t *testing.T) {
	seed := int64(0)
	assert.NoError(t, binding.Validator.ValidateStruct(ReplayRequest{Seed: &seed, Strategy: "monetary", Index: 3}))
	assert.Error(t, binding.Validator.ValidateStruct(ReplayRequest{Strategy: "monetary"}), "seed required")
	assert.Error(t, binding.Validator.ValidateStruct(ReplayRequest{Seed: &seed, Strategy: "x"}))
	assert.Error(t, binding.Validator.ValidateStruct(ReplayRequest{Seed: &seed, Strategy: "uniform", Index: -1}))
}

func TestRunRequest_Apply(t *testing.T) {
	base := domain.HarnessConfig{
		Trials:     1000,
		Workers:    4,
		Strategies: domain.AllStrategies(),
		Bounds:     domain.GeneratorBounds{MaxUnits: 10, MaxRecipients: 5, MaxScale: domain.ScaleBound(2)},
	}

	t.Run("empty request keeps base", func(t *testing.T) {
		got := RunRequest{}.Apply(base)
		assert.Equal(t, base, got)
	})

	t.Run("overrides", func(t *testing.T) {
		trials, seed, failFast, timeout, maxScale := 50, int64(-9), true, int64(250), int32(4)
		got := RunRequest{
			Trials:          &trials,
			Seed:            &seed,
			Strategies:      []string{"monetary"},
			Invariants:      []string{"conservation"},
			FailFast:        &failFast,
			ShrinkTimeoutMs: &timeout,
			MaxScale:        &maxScale,
		}.Apply(base)

		assert.Equal(t, 50, got.Trials)
		require.NotNil(t, got.Seed)
		assert.Equal(t, int64(-9), *got.Seed)
		assert.Equal(t, []domain.Strategy{domain.StrategyMonetary}, got.Strategies)
		assert.Equal(t, []domain.Invariant{domain.InvariantConservation}, got.Invariants)
		assert.True(t, got.FailFast)
		assert.Equal(t, 250*time.Millisecond, got.ShrinkTimeout)
		assert.Equal(t, int32(4), got.Bounds.Scale())
		assert.Equal(t, int32(2), base.Bounds.Scale(), "base is not mutated")
		assert.Equal(t, int64(10), got.Bounds.MaxUnits)
		assert.Equal(t, 4, got.Workers)
		assert.Len(t, base.Strategies, 3, "base is not mutated")
	})
}
