package bench

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/rwbench/rwlock"
)

func TestResolveProbabilities(t *testing.T) {
	tests := []struct {
		name           string
		search, insert float64
		wantS, wantI   float64
		wantD          float64
		wantAdjusted   bool
	}{
		{"defaults", 0.8, 0.1, 0.8, 0.1, 0.1, false},
		{"read only", 1.0, 0.0, 1.0, 0.0, 0.0, false},
		{"write heavy", 0.2, 0.4, 0.2, 0.4, 0.4, false},
		{"sum over one", 0.9, 0.3, DefaultSearchProb, DefaultInsertProb, DefaultDeleteProb, true},
		{"negative insert", 0.5, -0.1, DefaultSearchProb, DefaultInsertProb, DefaultDeleteProb, true},
		{"NaN search", math.NaN(), 0.1, DefaultSearchProb, DefaultInsertProb, DefaultDeleteProb, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, i, d, adjusted := ResolveProbabilities(tt.search, tt.insert)
			assert.Equal(t, tt.wantAdjusted, adjusted)
			assert.InDelta(t, tt.wantS, s, 1e-12)
			assert.InDelta(t, tt.wantI, i, 1e-12)
			assert.InDelta(t, tt.wantD, d, 1e-12)
		})
	}
}

func TestNewWorkloadConfig_FillsDefaults(t *testing.T) {
	got := NewWorkloadConfig(4, 1000, 100, 0.8, 0.1)
	assert.Equal(t, 4, got.Threads)
	assert.Equal(t, 1000, got.TotalOps)
	assert.Equal(t, 100, got.InitialKeys)
	assert.InDelta(t, 0.1, got.DeleteProb, 1e-12)
	assert.Equal(t, DefaultKeyDomain, got.KeyDomain)
	assert.Equal(t, int64(DefaultSeed), got.Seed)
	assert.Equal(t, rwlock.KindCustom, got.LockKind)
}

func TestWorkloadConfig_Normalize_FallsBackOnBadSum(t *testing.T) {
	// GIVEN probabilities that do not sum to 1
	cfg := WorkloadConfig{Threads: 1, SearchProb: 0.5, InsertProb: 0.1, DeleteProb: 0.1}

	// WHEN normalized
	adjusted := cfg.Normalize()

	// THEN the defaults are substituted and zero fields are filled
	assert.True(t, adjusted)
	assert.Equal(t, DefaultSearchProb, cfg.SearchProb)
	assert.Equal(t, DefaultInsertProb, cfg.InsertProb)
	assert.Equal(t, DefaultDeleteProb, cfg.DeleteProb)
	assert.Equal(t, DefaultKeyDomain, cfg.KeyDomain)
	assert.Equal(t, rwlock.KindCustom, cfg.LockKind)
}

func TestWorkloadConfig_Normalize_KeepsConsistentProbabilities(t *testing.T) {
	cfg := WorkloadConfig{SearchProb: 0.6, InsertProb: 0.3, DeleteProb: 0.1, KeyDomain: 50, LockKind: rwlock.KindPlatform}
	assert.False(t, cfg.Normalize())
	assert.Equal(t, 0.6, cfg.SearchProb)
	assert.Equal(t, 50, cfg.KeyDomain)
	assert.Equal(t, rwlock.KindPlatform, cfg.LockKind)
}

func TestWorkloadConfig_Validate(t *testing.T) {
	valid := NewWorkloadConfig(2, 10, 5, 0.8, 0.1)
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*WorkloadConfig)
	}{
		{"zero threads", func(c *WorkloadConfig) { c.Threads = 0 }},
		{"negative ops", func(c *WorkloadConfig) { c.TotalOps = -1 }},
		{"negative initial keys", func(c *WorkloadConfig) { c.InitialKeys = -1 }},
		{"zero key domain", func(c *WorkloadConfig) { c.KeyDomain = 0 }},
		{"unknown lock", func(c *WorkloadConfig) { c.LockKind = "spin" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWorkloadConfig_OpsPerThread_DropsRemainder(t *testing.T) {
	assert.Equal(t, 250, NewWorkloadConfig(4, 1000, 0, 0.8, 0.1).OpsPerThread())
	assert.Equal(t, 333, NewWorkloadConfig(3, 1000, 0, 0.8, 0.1).OpsPerThread())
	assert.Equal(t, 0, NewWorkloadConfig(8, 7, 0, 0.8, 0.1).OpsPerThread())
	assert.Equal(t, 0, WorkloadConfig{}.OpsPerThread())
}

func TestWorkloadConfig_ChooseOp_CumulativeThresholds(t *testing.T) {
	cfg := NewWorkloadConfig(1, 1, 0, 0.8, 0.1)
	assert.Equal(t, OpMember, cfg.ChooseOp(0.0))
	assert.Equal(t, OpMember, cfg.ChooseOp(0.79))
	assert.Equal(t, OpInsert, cfg.ChooseOp(0.8))
	assert.Equal(t, OpInsert, cfg.ChooseOp(0.89))
	assert.Equal(t, OpDelete, cfg.ChooseOp(0.9))
	assert.Equal(t, OpDelete, cfg.ChooseOp(0.999))
}
