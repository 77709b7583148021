// Package rwlock provides the reader-writer locks driven by the benchmark.
//
// Two implementations satisfy the Locker interface:
//   - RWLock: a write-preferring lock built from one mutex and two condition
//     variables (readersOk, writersOk) plus reader/writer and waiter counters.
//   - PlatformLock: a thin adapter over sync.RWMutex, used as the baseline.
//
// NewLocker selects an implementation by name so the same harness can drive
// either one.
//
// # Admission policy
//
// A reader is admitted only while no writer holds the lock and no writer is
// waiting for it. Once a writer has registered as a waiter, every reader that
// arrives afterwards blocks until that writer has acquired and released, which
// bounds writer starvation. Writers among themselves are served in no
// particular order.
//
// Nested acquisition by the same goroutine is not supported.
package rwlock
