package bench

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rwbench/rwlock"
	"github.com/inference-sim/rwbench/sortedlist"
)

// SharedState is everything the workers share. The harness owns it; workers
// hold a pointer for the duration of the run.
type SharedState struct {
	List    *sortedlist.SortedList // guarded by Lock
	Lock    rwlock.Locker
	Metrics *Metrics // guarded by its own mutex
}

// NewSharedState wires an empty list and metrics to lock.
func NewSharedState(lock rwlock.Locker) *SharedState {
	return &SharedState{
		List:    sortedlist.New(),
		Lock:    lock,
		Metrics: NewMetrics(),
	}
}

// Worker is the per-goroutine context: identity, shared state, a private
// generator and local counters.
type Worker struct {
	ID    int
	Ops   int
	State *SharedState

	cfg    *WorkloadConfig
	rng    *rand.Rand
	counts OpCounts
}

// NewWorker creates worker id. rng must not be shared with any other worker.
func NewWorker(id int, cfg *WorkloadConfig, state *SharedState, rng *rand.Rand) *Worker {
	return &Worker{
		ID:    id,
		Ops:   cfg.OpsPerThread(),
		State: state,
		cfg:   cfg,
		rng:   rng,
	}
}

// Counts returns the worker's local tally.
func (w *Worker) Counts() OpCounts {
	return w.counts
}

// Run performs the worker's operations, then merges its counts into the
// shared metrics. A lock failure ends the worker immediately without merging.
// Cancellation of ctx is only observed between operations; a worker blocked
// inside the lock stays blocked.
func (w *Worker) Run(ctx context.Context) error {
	done := ctx.Done()
	for i := 0; i < w.Ops; i++ {
		select {
		case <-done:
			return ctx.Err()
		default:
		}

		p := w.rng.Float64()
		key := w.rng.Intn(w.cfg.KeyDomain)
		if err := w.step(w.cfg.ChooseOp(p), key); err != nil {
			return fmt.Errorf("worker %d, op %d: %w", w.ID, i, err)
		}
	}

	w.State.Metrics.Merge(w.counts)
	logrus.Debugf("worker %d finished: %d member, %d insert, %d delete",
		w.ID, w.counts.Member, w.counts.Insert, w.counts.Delete)
	return nil
}

// step runs one operation under the lock mode it requires.
func (w *Worker) step(op OpKind, key int) error {
	lock := w.State.Lock
	var err error
	if op == OpMember {
		err = lock.AcquireRead()
	} else {
		err = lock.AcquireWrite()
	}
	if err != nil {
		return fmt.Errorf("acquiring lock for %s: %w", op, err)
	}

	var hit bool
	switch op {
	case OpMember:
		hit = w.State.List.Member(key)
	case OpInsert:
		hit = w.State.List.Insert(key)
	case OpDelete:
		hit = w.State.List.Delete(key)
	}

	if err := lock.Release(); err != nil {
		return fmt.Errorf("releasing lock after %s: %w", op, err)
	}
	w.counts.record(op, hit)
	return nil
}
