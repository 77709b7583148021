package rwlock

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// RWLock is a write-preferring reader-writer lock.
//
// All counters are guarded by mu. readersOk and writersOk share mu as their
// locker. Invariants while mu is not held:
//
//	writeCount ∈ {0, 1}
//	writeCount == 1 ⇒ readCount == 0
//	readCount > 0   ⇒ writeCount == 0
//
// An RWLock must be created with New and must not be copied after first use.
type RWLock struct {
	mu        sync.Mutex
	readersOk *sync.Cond
	writersOk *sync.Cond

	readCount    int // goroutines holding read access
	writeCount   int // 0 or 1
	readWaiters  int // goroutines blocked in AcquireRead
	writeWaiters int // goroutines blocked in AcquireWrite
	destroyed    bool
}

// State is a point-in-time copy of the lock counters.
type State struct {
	ReadCount    int
	WriteCount   int
	ReadWaiters  int
	WriteWaiters int
}

// Consistent reports whether the state satisfies the mutual exclusion invariants.
func (s State) Consistent() bool {
	if s.WriteCount < 0 || s.WriteCount > 1 || s.ReadCount < 0 {
		return false
	}
	if s.ReadWaiters < 0 || s.WriteWaiters < 0 {
		return false
	}
	return s.WriteCount == 0 || s.ReadCount == 0
}

// New creates an unlocked RWLock.
func New() *RWLock {
	l := &RWLock{}
	l.readersOk = sync.NewCond(&l.mu)
	l.writersOk = sync.NewCond(&l.mu)
	return l
}

// valid rejects nil and zero-value locks. The condition variables are only set
// by New, before the lock is shared, so reading them without mu is safe.
func (l *RWLock) valid() bool {
	return l != nil && l.readersOk != nil && l.writersOk != nil
}

// AcquireRead blocks while a writer holds the lock or any writer is waiting,
// then registers the caller as a reader.
func (l *RWLock) AcquireRead() error {
	if !l.valid() {
		return fmt.Errorf("acquire read: %w", ErrInvalidArgument)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.destroyed {
		return fmt.Errorf("acquire read: %w", ErrDestroyed)
	}

	l.readWaiters++
	for l.writeCount > 0 || l.writeWaiters > 0 {
		l.readersOk.Wait()
		if l.destroyed {
			l.readWaiters--
			return fmt.Errorf("acquire read: %w", ErrDestroyed)
		}
	}
	l.readWaiters--
	l.readCount++
	return nil
}

// AcquireWrite registers the caller as a waiting writer, which stops new
// readers from being admitted, and blocks until no reader or writer holds the
// lock.
func (l *RWLock) AcquireWrite() error {
	if !l.valid() {
		return fmt.Errorf("acquire write: %w", ErrInvalidArgument)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.destroyed {
		return fmt.Errorf("acquire write: %w", ErrDestroyed)
	}

	l.writeWaiters++
	for l.readCount > 0 || l.writeCount > 0 {
		l.writersOk.Wait()
		if l.destroyed {
			l.writeWaiters--
			return fmt.Errorf("acquire write: %w", ErrDestroyed)
		}
	}
	l.writeWaiters--
	l.writeCount = 1
	return nil
}

// Release drops whichever access the lock is currently held with.
//
// Releasing a write lock wakes every reader and every writer; each waiter
// re-checks its own predicate, so either a batch of readers or a single
// writer proceeds. Releasing the last read lock wakes writers only, since
// that is the only transition that can unblock one.
func (l *RWLock) Release() error {
	if !l.valid() {
		return fmt.Errorf("release: %w", ErrInvalidArgument)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.destroyed {
		return fmt.Errorf("release: %w", ErrDestroyed)
	}

	switch {
	case l.writeCount > 0:
		l.writeCount = 0
		l.readersOk.Broadcast()
		l.writersOk.Broadcast()
	case l.readCount > 0:
		l.readCount--
		if l.readCount == 0 {
			l.writersOk.Broadcast()
		}
	default:
		return fmt.Errorf("release: %w", ErrNotHeld)
	}
	return nil
}

// Destroy retires the lock. Goroutines still blocked in an acquire are woken
// and fail with ErrDestroyed after removing themselves from the waiter counts.
// Every later call on the lock fails with ErrDestroyed.
func (l *RWLock) Destroy() error {
	if !l.valid() {
		return fmt.Errorf("destroy: %w", ErrInvalidArgument)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.destroyed {
		return fmt.Errorf("destroy: %w", ErrDestroyed)
	}

	if l.readWaiters > 0 || l.writeWaiters > 0 {
		logrus.Warnf("destroying rwlock with %d blocked readers and %d blocked writers",
			l.readWaiters, l.writeWaiters)
	}
	l.destroyed = true
	l.readersOk.Broadcast()
	l.writersOk.Broadcast()
	return nil
}

// Snapshot returns the current counters, read under the guard.
func (l *RWLock) Snapshot() State {
	if !l.valid() {
		return State{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return State{
		ReadCount:    l.readCount,
		WriteCount:   l.writeCount,
		ReadWaiters:  l.readWaiters,
		WriteWaiters: l.writeWaiters,
	}
}
