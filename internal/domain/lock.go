package domain

import (
	"context"
	"errors"
	"time"
)

// ErrLockLost means the lease expired and someone else may hold the key.
var ErrLockLost = errors.New("lock lost")

// Lease is a held TTL lock.
type Lease interface {
	// Refresh pushes the expiry to now+ttl, or returns ErrLockLost when the
	// key no longer belongs to this lease.
	Refresh(ctx context.Context, ttl time.Duration) error
	// Release frees the key if it still belongs to this lease.
	Release(ctx context.Context) error
}
