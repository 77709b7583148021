package rwlock

import "fmt"

// Locker is the capability the benchmark workers need from a reader-writer lock.
// Release drops whichever mode the lock is held in.
type Locker interface {
	AcquireRead() error
	AcquireWrite() error
	Release() error
	Destroy() error
}

const (
	// KindCustom selects RWLock.
	KindCustom = "custom"
	// KindPlatform selects PlatformLock (sync.RWMutex).
	KindPlatform = "platform"
)

// ValidLockKinds is the set of recognized lock implementation names.
// Shared by IsValidLockKind and NewLocker. An empty name means KindCustom.
var ValidLockKinds = map[string]bool{"": true, KindCustom: true, KindPlatform: true}

// IsValidLockKind returns true if kind names a known lock implementation.
func IsValidLockKind(kind string) bool {
	return ValidLockKinds[kind]
}

// NewLocker creates a lock implementation by name.
// Panics on unrecognized names; callers validate user input with IsValidLockKind.
func NewLocker(kind string) Locker {
	if !IsValidLockKind(kind) {
		panic(fmt.Sprintf("unknown lock kind %q", kind))
	}
	switch kind {
	case "", KindCustom:
		return New()
	case KindPlatform:
		return NewPlatform()
	default:
		panic(fmt.Sprintf("unhandled lock kind %q", kind))
	}
}

// Describe returns the human-readable implementation name used in reports.
func Describe(kind string) string {
	switch kind {
	case "", KindCustom:
		return "CUSTOM RWLock implementation"
	case KindPlatform:
		return "sync.RWMutex (standard library)"
	default:
		return fmt.Sprintf("unknown lock %q", kind)
	}
}

var (
	_ Locker = (*RWLock)(nil)
	_ Locker = (*PlatformLock)(nil)
)
