package rwlock

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// PlatformLock adapts sync.RWMutex to the Locker interface.
//
// sync.RWMutex has a single unlock per mode, so the adapter records which mode
// it is held in. A release with no holder returns ErrNotHeld instead of
// crashing the process the way RUnlock of an unlocked mutex would.
//
// Unlike RWLock, Destroy cannot wake goroutines already blocked in the
// underlying mutex; it only fails subsequent calls.
type PlatformLock struct {
	mu        sync.RWMutex
	writer    atomic.Bool
	readers   atomic.Int64
	destroyed atomic.Bool
}

// NewPlatform creates an unlocked PlatformLock.
func NewPlatform() *PlatformLock {
	return &PlatformLock{}
}

// AcquireRead blocks until shared access is granted.
func (l *PlatformLock) AcquireRead() error {
	if l == nil {
		return fmt.Errorf("acquire read: %w", ErrInvalidArgument)
	}
	if l.destroyed.Load() {
		return fmt.Errorf("acquire read: %w", ErrDestroyed)
	}
	l.mu.RLock()
	l.readers.Add(1)
	return nil
}

// AcquireWrite blocks until exclusive access is granted.
func (l *PlatformLock) AcquireWrite() error {
	if l == nil {
		return fmt.Errorf("acquire write: %w", ErrInvalidArgument)
	}
	if l.destroyed.Load() {
		return fmt.Errorf("acquire write: %w", ErrDestroyed)
	}
	l.mu.Lock()
	l.writer.Store(true)
	return nil
}

// Release gives up whichever mode the lock is held in.
func (l *PlatformLock) Release() error {
	if l == nil {
		return fmt.Errorf("release: %w", ErrInvalidArgument)
	}
	if l.destroyed.Load() {
		return fmt.Errorf("release: %w", ErrDestroyed)
	}
	if l.writer.CompareAndSwap(true, false) {
		l.mu.Unlock()
		return nil
	}
	for {
		n := l.readers.Load()
		if n <= 0 {
			return fmt.Errorf("release: %w", ErrNotHeld)
		}
		if l.readers.CompareAndSwap(n, n-1) {
			l.mu.RUnlock()
			return nil
		}
	}
}

// Destroy makes every later call fail with ErrDestroyed.
func (l *PlatformLock) Destroy() error {
	if l == nil {
		return fmt.Errorf("destroy: %w", ErrInvalidArgument)
	}
	if !l.destroyed.CompareAndSwap(false, true) {
		return fmt.Errorf("destroy: %w", ErrDestroyed)
	}
	return nil
}
