package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/requisition/internal/domain/shared"
)

// InMemoryInFlightGuard implements InFlightGuard with a map of expiring keys.
// It only serializes callers within one process.
type InMemoryInFlightGuard struct {
	mu   sync.Mutex
	held map[string]time.Time // key -> expiry
	now  func() time.Time
}

// NewInMemoryInFlightGuard creates a new in-memory guard
func NewInMemoryInFlightGuard() *InMemoryInFlightGuard {
	return &InMemoryInFlightGuard{
		held: make(map[string]time.Time),
		now:  time.Now,
	}
}

// TryAcquire takes the key unless an unexpired holder has it
func (g *InMemoryInFlightGuard) TryAcquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if expiry, ok := g.held[key]; ok && now.Before(expiry) {
		return false, nil
	}
	g.held[key] = now.Add(ttl)
	return true, nil
}

// Release frees the key
func (g *InMemoryInFlightGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	delete(g.held, key)
	g.mu.Unlock()
	return nil
}

// Close drops all held keys
func (g *InMemoryInFlightGuard) Close() error {
	g.mu.Lock()
	g.held = make(map[string]time.Time)
	g.mu.Unlock()
	return nil
}

var _ shared.InFlightGuard = (*InMemoryInFlightGuard)(nil)
