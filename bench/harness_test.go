package bench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/rwbench/rwlock"
)

func newTestHarness(t *testing.T, cfg WorkloadConfig) *Harness {
	t.Helper()
	h, err := NewHarness(cfg, rwlock.NewLocker(cfg.LockKind))
	require.NoError(t, err)
	return h
}

func TestHarness_FourThreads_SplitMatchesProbabilities(t *testing.T) {
	// GIVEN 4 threads, 1000 ops, 0.8/0.1/0.1
	cfg := NewWorkloadConfig(4, 1000, 100, 0.8, 0.1)
	h := newTestHarness(t, cfg)

	// WHEN the benchmark runs
	report, err := h.Run(context.Background())
	require.NoError(t, err)

	// THEN exactly 4 x 250 operations are recorded, split roughly 800/100/100
	c := report.Counts
	assert.Equal(t, 1000, c.Total())
	assert.Equal(t, 1000, report.CompletedOps)
	assert.InDelta(t, 800, c.Member, 60)
	assert.InDelta(t, 100, c.Insert, 50)
	assert.InDelta(t, 100, c.Delete, 50)
	assert.Equal(t, 4, h.State.Metrics.Merges())
}

func TestHarness_Conservation_DropsRemainder(t *testing.T) {
	for _, kind := range []string{rwlock.KindCustom, rwlock.KindPlatform} {
		t.Run(kind, func(t *testing.T) {
			cfg := NewWorkloadConfig(3, 1000, 50, 0.5, 0.25)
			cfg.LockKind = kind
			h := newTestHarness(t, cfg)

			report, err := h.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, 3*333, report.Counts.Total())
			assert.Equal(t, 333, report.OpsPerThread)
			assert.Equal(t, kind, report.Lock)
		})
	}
}

func TestHarness_ConcurrentStress_TerminatesWithSortedList(t *testing.T) {
	if testing.Short() {
		t.Skip("stress run skipped in -short mode")
	}
	for _, kind := range []string{rwlock.KindCustom, rwlock.KindPlatform} {
		t.Run(kind, func(t *testing.T) {
			// GIVEN 8 threads, 100000 ops over a 1000-key list
			cfg := NewWorkloadConfig(8, 100000, 1000, 0.8, 0.1)
			cfg.KeyDomain = 5000
			cfg.LockKind = kind
			h := newTestHarness(t, cfg)

			// WHEN the run completes
			report, err := h.Run(context.Background())
			require.NoError(t, err)

			// THEN the list is strictly increasing and every op is accounted for
			assert.True(t, h.State.List.IsSorted())
			assert.Equal(t, 100000, report.Counts.Total())
			assert.Equal(t, h.State.List.Len(), report.FinalKeys)
			assert.Equal(t, report.InitialKeys+report.Counts.InsertHits-report.Counts.DeleteHits, report.FinalKeys)
		})
	}
}

func TestHarness_Populate_StopsAtAttemptBudget(t *testing.T) {
	// GIVEN a key domain of one value and 5 requested keys
	cfg := NewWorkloadConfig(1, 0, 5, 0.8, 0.1)
	cfg.KeyDomain = 1
	h := newTestHarness(t, cfg)

	// WHEN populated
	inserted := h.Populate()

	// THEN duplicates cost attempts and population stops at the budget
	assert.Equal(t, 1, inserted)
	assert.Equal(t, []int{0}, h.State.List.Keys())

	// AND populating again changes nothing
	assert.Equal(t, 1, h.Populate())
}

func TestHarness_Populate_ReachesTarget(t *testing.T) {
	h := newTestHarness(t, NewWorkloadConfig(1, 0, 100, 0.8, 0.1))
	assert.Equal(t, 100, h.Populate())
	assert.Equal(t, 100, h.State.List.Len())
	assert.True(t, h.State.List.IsSorted())
}

func TestHarness_SingleThread_SameSeedSameList(t *testing.T) {
	run := func() []int {
		cfg := NewWorkloadConfig(1, 2000, 100, 0.5, 0.3)
		cfg.KeyDomain = 500
		cfg.Seed = 7
		h := newTestHarness(t, cfg)
		_, err := h.Run(context.Background())
		require.NoError(t, err)
		return h.State.List.Keys()
	}
	assert.Equal(t, run(), run())
}

func TestHarness_Run_DestroysLockAndRunsOnce(t *testing.T) {
	h := newTestHarness(t, NewWorkloadConfig(2, 10, 5, 0.8, 0.1))
	_, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, h.State.Lock.AcquireRead(), rwlock.ErrDestroyed)
	_, err = h.Run(context.Background())
	assert.Error(t, err)
}

func TestHarness_WorkerLockFailure_AbortsRun(t *testing.T) {
	// GIVEN a write-only workload on a lock that fails after 20 writes
	cfg := NewWorkloadConfig(4, 4000, 0, 0, 0.5)
	h, err := NewHarness(cfg, newFailingLock(20))
	require.NoError(t, err)

	// WHEN the run executes
	report, err := h.Run(context.Background())

	// THEN the failure is surfaced and no report is produced
	assert.Nil(t, report)
	require.ErrorIs(t, err, rwlock.ErrSynchronization)
	assert.Contains(t, err.Error(), "benchmark aborted")
}

func TestNewHarness_RejectsInvalidInput(t *testing.T) {
	_, err := NewHarness(NewWorkloadConfig(0, 10, 0, 0.8, 0.1), rwlock.New())
	assert.Error(t, err, "zero threads")

	_, err = NewHarness(NewWorkloadConfig(1, 10, 0, 0.8, 0.1), nil)
	assert.ErrorIs(t, err, rwlock.ErrInvalidArgument)
}

func TestNewHarness_NormalizesProbabilities(t *testing.T) {
	cfg := NewWorkloadConfig(1, 10, 0, 0.8, 0.1)
	cfg.DeleteProb = 0.5
	h := newTestHarness(t, cfg)
	assert.Equal(t, DefaultDeleteProb, h.Config.DeleteProb)
	assert.NotEmpty(t, h.RunID)
}
