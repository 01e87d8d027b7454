package shared

import (
	"context"
	"time"
)

// InFlightGuard serializes a keyed operation so at most one runs at a time.
// Keys expire after the TTL so a crashed holder cannot block forever.
type InFlightGuard interface {
	// TryAcquire takes the key. Returns false if another holder has it.
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees the key. Releasing a free key is not an error.
	Release(ctx context.Context, key string) error

	// Close releases resources held by the guard
	Close() error
}
