package flock

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	"github.com/projecteru2/preload/lock"
)

const retryDelay = 50 * time.Millisecond

var _ lock.Locker = (*Lock)(nil)

// Lock guards a directory shared by several preload processes, e.g. an
// export target. A size-1 channel serializes holders inside this process
// and flock(2) on path serializes processes; every acquisition opens a
// fresh descriptor.
type Lock struct {
	path  string
	token chan struct{}
	held  *flock.Flock
}

// New creates a Lock backed by the file at path. The file is created on first use.
func New(path string) *Lock {
	return &Lock{path: path, token: make(chan struct{}, 1)}
}

// Lock blocks until the lock is held or ctx is done.
func (l *Lock) Lock(ctx context.Context) error {
	select {
	case l.token <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("lock %s: %w", l.path, ctx.Err())
	}
	fl := flock.New(l.path)
	ok, err := fl.TryLockContext(ctx, retryDelay)
	if err != nil || !ok {
		<-l.token
		if err == nil {
			err = ctx.Err()
		}
		return fmt.Errorf("flock %s: %w", l.path, err)
	}
	l.held = fl
	return nil
}

// TryLock returns (false, nil) when another holder has the lock.
func (l *Lock) TryLock(_ context.Context) (bool, error) {
	select {
	case l.token <- struct{}{}:
	default:
		return false, nil
	}
	fl := flock.New(l.path)
	ok, err := fl.TryLock()
	if err != nil || !ok {
		<-l.token
		if err != nil {
			return false, fmt.Errorf("flock %s: %w", l.path, err)
		}
		return false, nil
	}
	l.held = fl
	return true, nil
}

// Unlock releases the lock. Unlocking an unheld Lock is a no-op.
func (l *Lock) Unlock(_ context.Context) error {
	var err error
	if l.held != nil {
		err = l.held.Unlock()
		l.held = nil
	}
	select {
	case <-l.token:
	default:
	}
	if err != nil {
		return fmt.Errorf("unflock %s: %w", l.path, err)
	}
	return nil
}
