package bench

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rwbench/rwlock"
)

// Defaults substituted for missing or malformed configuration.
const (
	DefaultInitialKeys = 100
	DefaultTotalOps    = 10000
	DefaultSearchProb  = 0.8
	DefaultInsertProb  = 0.1
	DefaultDeleteProb  = 0.1
	DefaultKeyDomain   = 100000000
	DefaultSeed        = 1
)

// probTolerance is how far the three probabilities may drift from summing to 1.
const probTolerance = 1e-9

// WorkloadConfig describes one benchmark run. It is read-only once the
// harness has been constructed.
type WorkloadConfig struct {
	Threads     int     // worker goroutines (must be > 0)
	TotalOps    int     // operations across all workers; remainder of TotalOps/Threads is dropped
	SearchProb  float64 // probability that an operation is a Member lookup
	InsertProb  float64 // probability that an operation is an Insert
	DeleteProb  float64 // probability that an operation is a Delete
	InitialKeys int     // keys inserted before workers start
	KeyDomain   int     // keys are drawn uniformly from [0, KeyDomain)
	Seed        int64   // master seed for every generator in the run
	LockKind    string  // rwlock.KindCustom (default) or rwlock.KindPlatform
}

// NewWorkloadConfig builds a config with the delete probability derived from
// the search and insert probabilities. Defaults fill the remaining fields.
func NewWorkloadConfig(threads, totalOps, initialKeys int, search, insert float64) WorkloadConfig {
	s, i, d, _ := ResolveProbabilities(search, insert)
	return WorkloadConfig{
		Threads:     threads,
		TotalOps:    totalOps,
		SearchProb:  s,
		InsertProb:  i,
		DeleteProb:  d,
		InitialKeys: initialKeys,
		KeyDomain:   DefaultKeyDomain,
		Seed:        DefaultSeed,
		LockKind:    rwlock.KindCustom,
	}
}

// ResolveProbabilities derives the delete probability as 1 - search - insert.
// If that is negative, or either input is outside [0, 1], all three fall back
// to the defaults and adjusted is true.
func ResolveProbabilities(search, insert float64) (s, i, d float64, adjusted bool) {
	d = 1.0 - (search + insert)
	if d < 0 && d > -probTolerance {
		d = 0
	}
	if d < 0 || !inUnit(search) || !inUnit(insert) {
		return DefaultSearchProb, DefaultInsertProb, DefaultDeleteProb, true
	}
	return search, insert, d, false
}

func inUnit(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

// Normalize replaces inconsistent probabilities with the defaults and fills
// zero-valued KeyDomain and LockKind. It returns true if the probabilities
// were replaced. Malformed probabilities are a recovery case, not an error.
func (c *WorkloadConfig) Normalize() bool {
	if c.KeyDomain == 0 {
		c.KeyDomain = DefaultKeyDomain
	}
	if c.LockKind == "" {
		c.LockKind = rwlock.KindCustom
	}

	sum := c.SearchProb + c.InsertProb + c.DeleteProb
	if inUnit(c.SearchProb) && inUnit(c.InsertProb) && inUnit(c.DeleteProb) &&
		math.Abs(sum-1.0) <= probTolerance {
		return false
	}
	logrus.Warnf("operation probabilities %.3f/%.3f/%.3f do not sum to 1; using %.1f/%.1f/%.1f",
		c.SearchProb, c.InsertProb, c.DeleteProb,
		DefaultSearchProb, DefaultInsertProb, DefaultDeleteProb)
	c.SearchProb, c.InsertProb, c.DeleteProb = DefaultSearchProb, DefaultInsertProb, DefaultDeleteProb
	return true
}

// Validate checks the fields that have no safe fallback.
func (c WorkloadConfig) Validate() error {
	if c.Threads <= 0 {
		return fmt.Errorf("thread count must be positive, got %d", c.Threads)
	}
	if c.TotalOps < 0 {
		return fmt.Errorf("total operations must be non-negative, got %d", c.TotalOps)
	}
	if c.InitialKeys < 0 {
		return fmt.Errorf("initial keys must be non-negative, got %d", c.InitialKeys)
	}
	if c.KeyDomain <= 0 {
		return fmt.Errorf("key domain must be positive, got %d", c.KeyDomain)
	}
	if !rwlock.IsValidLockKind(c.LockKind) {
		return fmt.Errorf("unknown lock kind %q", c.LockKind)
	}
	return nil
}

// OpsPerThread is the number of iterations each worker runs.
func (c WorkloadConfig) OpsPerThread() int {
	if c.Threads <= 0 {
		return 0
	}
	return c.TotalOps / c.Threads
}

// ChooseOp maps a uniform draw in [0, 1) onto an operation using the
// cumulative probability thresholds.
func (c WorkloadConfig) ChooseOp(p float64) OpKind {
	switch {
	case p < c.SearchProb:
		return OpMember
	case p < c.SearchProb+c.InsertProb:
		return OpInsert
	default:
		return OpDelete
	}
}
