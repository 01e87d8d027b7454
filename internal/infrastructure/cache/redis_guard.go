package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/erp/requisition/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token, so a
// holder whose TTL lapsed cannot free a key someone else has since taken
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisInFlightGuard implements InFlightGuard with SET NX PX, shared by every
// gateway instance using the same Redis
type RedisInFlightGuard struct {
	client    redis.UniversalClient
	keyPrefix string

	mu     sync.Mutex
	tokens map[string]string
}

// NewRedisInFlightGuard creates a guard on an existing Redis client
func NewRedisInFlightGuard(client redis.UniversalClient) *RedisInFlightGuard {
	return &RedisInFlightGuard{
		client:    client,
		keyPrefix: "requisition:inflight:",
		tokens:    make(map[string]string),
	}
}

// TryAcquire takes the key with SETNX and a TTL
func (g *RedisInFlightGuard) TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, g.keyPrefix+key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire in-flight guard: %w", err)
	}
	if ok {
		g.mu.Lock()
		g.tokens[key] = token
		g.mu.Unlock()
	}
	return ok, nil
}

// Release frees the key if this guard still holds it
func (g *RedisInFlightGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	token, ok := g.tokens[key]
	delete(g.tokens, key)
	g.mu.Unlock()
	if !ok {
		return nil
	}

	if err := releaseScript.Run(ctx, g.client, []string{g.keyPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release in-flight guard: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (g *RedisInFlightGuard) Close() error {
	return g.client.Close()
}

var _ shared.InFlightGuard = (*RedisInFlightGuard)(nil)
