package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRevocationList invalidates session tokens before they expire (on logout)
type SessionRevocationList interface {
	// Revoke marks the session revoked for ttl, normally the token's remaining lifetime
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// RedisSessionRevocationList implements SessionRevocationList using Redis
type RedisSessionRevocationList struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisSessionRevocationList creates a revocation list on an existing Redis client
func NewRedisSessionRevocationList(client redis.UniversalClient) *RedisSessionRevocationList {
	return &RedisSessionRevocationList{
		client:    client,
		keyPrefix: "session:revoked:",
	}
}

// Revoke stores the session id with a TTL
func (l *RedisSessionRevocationList) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, l.keyPrefix+sessionID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked checks if the session id is in the list
func (l *RedisSessionRevocationList) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	exists, err := l.client.Exists(ctx, l.keyPrefix+sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return exists > 0, nil
}

var _ SessionRevocationList = (*RedisSessionRevocationList)(nil)

// InMemorySessionRevocationList is a single-instance revocation list
type InMemorySessionRevocationList struct {
	mu      sync.Mutex
	revoked map[string]time.Time // session id -> expiry
	now     func() time.Time
}

// NewInMemorySessionRevocationList creates a new in-memory revocation list
func NewInMemorySessionRevocationList() *InMemorySessionRevocationList {
	return &InMemorySessionRevocationList{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks the session revoked until ttl elapses
func (l *InMemorySessionRevocationList) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[sessionID] = l.now().Add(ttl)
	return nil
}

// IsRevoked checks if the session is revoked and not yet expired
func (l *InMemorySessionRevocationList) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiry, ok := l.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if l.now().After(expiry) {
		delete(l.revoked, sessionID)
		return false, nil
	}
	return true, nil
}

var _ SessionRevocationList = (*InMemorySessionRevocationList)(nil)
