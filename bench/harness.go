package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/rwbench/rwlock"
)

// ErrInvariant is returned when a finished run leaves the list or the
// counters in a state the workload could not have produced.
var ErrInvariant = errors.New("bench: invariant violated")

// Harness owns one benchmark run: the config, the shared state and the
// generators. A Harness runs once; the lock is destroyed when Run returns.
type Harness struct {
	Config WorkloadConfig
	State  *SharedState
	RunID  string

	rng       *PartitionedRNG
	populated bool
	inserted  int
	ran       bool
}

// NewHarness normalizes and validates cfg and wires lock into fresh shared
// state. LockKind in cfg only labels the report; lock is what gets driven.
func NewHarness(cfg WorkloadConfig, lock rwlock.Locker) (*Harness, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload config: %w", err)
	}
	if lock == nil {
		return nil, fmt.Errorf("nil lock: %w", rwlock.ErrInvalidArgument)
	}
	return &Harness{
		Config: cfg,
		State:  NewSharedState(lock),
		RunID:  uuid.NewString(),
		rng:    NewPartitionedRNG(RunKey(cfg.Seed)),
	}, nil
}

// Populate inserts random keys until InitialKeys distinct keys are present or
// 2*InitialKeys attempts have been made. Duplicate draws use up an attempt.
// It runs before any worker exists, so it takes no lock. Calling it again is
// a no-op. Returns the number of keys inserted.
func (h *Harness) Populate() int {
	if h.populated {
		return h.inserted
	}
	h.populated = true

	rng := h.rng.ForSubsystem(SubsystemPopulate)
	target := h.Config.InitialKeys
	attempts := 0
	for h.inserted < target && attempts < 2*target {
		if h.State.List.Insert(rng.Intn(h.Config.KeyDomain)) {
			h.inserted++
		}
		attempts++
	}
	if h.inserted < target {
		logrus.Warnf("populated %d of %d requested keys after %d attempts", h.inserted, target, attempts)
	} else {
		logrus.Infof("populated %d keys in %d attempts", h.inserted, attempts)
	}
	return h.inserted
}

// Run populates the list if that has not happened yet, starts one worker per
// configured thread, waits for all of them and returns the report.
//
// The first worker error aborts the run: the remaining workers stop at their
// next operation boundary and Run returns that error. After a clean run the
// list ordering and the operation count are checked; a violation is reported
// as ErrInvariant.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	if h.ran {
		return nil, errors.New("harness already ran")
	}
	h.ran = true
	h.Populate()

	cfg := &h.Config
	workers := make([]*Worker, cfg.Threads)
	for i := range workers {
		workers[i] = NewWorker(i, cfg, h.State, h.rng.ForWorker(i))
	}

	logrus.Infof("starting %d workers, %d ops each, lock=%s", cfg.Threads, cfg.OpsPerThread(), cfg.LockKind)
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		g.Go(func() error { return w.Run(gctx) })
	}
	err := g.Wait()
	elapsed := time.Since(start)

	if derr := h.State.Lock.Destroy(); derr != nil && err == nil {
		err = derr
	}
	if err != nil {
		return nil, fmt.Errorf("benchmark aborted: %w", err)
	}

	if err := h.checkInvariants(); err != nil {
		return nil, err
	}

	report := h.newReport(elapsed)
	logrus.WithField("run_id", h.RunID).Infof("run finished in %v (%.0f ops/s)", elapsed, report.OpsPerSec)
	return report, nil
}

// checkInvariants verifies the final list snapshot and the operation count.
// Workers have all joined, so the list is read without a lock.
func (h *Harness) checkInvariants() error {
	if !h.State.List.IsSorted() {
		return fmt.Errorf("%w: list keys are not strictly increasing", ErrInvariant)
	}
	want := h.Config.Threads * h.Config.OpsPerThread()
	if got := h.State.Metrics.Counts().Total(); got != want {
		return fmt.Errorf("%w: %d operations recorded, want %d", ErrInvariant, got, want)
	}
	return nil
}
