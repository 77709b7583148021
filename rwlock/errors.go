package rwlock

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when an operation is invoked on a nil lock
	// or on a lock that was never constructed through New.
	ErrInvalidArgument = errors.New("rwlock: invalid argument")

	// ErrSynchronization is the kind of every failure of the underlying guard
	// or condition primitives. Callers should treat it as fatal for the run.
	ErrSynchronization = errors.New("rwlock: synchronization failure")

	// ErrNotHeld is returned by Release when the lock is held in neither mode.
	ErrNotHeld = fmt.Errorf("%w: release of unheld lock", ErrSynchronization)

	// ErrDestroyed is returned by any operation on a destroyed lock, including
	// acquires that were blocked when Destroy ran.
	ErrDestroyed = fmt.Errorf("%w: lock destroyed", ErrSynchronization)
)
