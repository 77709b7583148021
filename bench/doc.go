// Package bench drives a reader-writer lock against a shared sorted list and
// reports what happened.
//
// # Reading Guide
//
//   - config.go: WorkloadConfig, defaults and the probability fallback policy
//   - rng.go: per-subsystem and per-worker seeded generators
//   - worker.go: the per-goroutine operation loop
//   - harness.go: population, fan-out/join and post-run invariant checks
//   - metrics.go, report.go: counter aggregation, console report, JSON results
//
// # Locking
//
// The list is only touched while holding the rwlock.Locker in the matching
// mode. Metrics has its own mutex, which is only taken after the worker has
// released the list lock, so the two are never nested.
package bench
