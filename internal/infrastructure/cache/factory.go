package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/requisition/internal/domain/shared"
	"github.com/erp/requisition/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrRedisDisabled is returned by Connect when Redis is switched off in config
var ErrRedisDisabled = errors.New("redis is disabled")

// Factory creates the Redis-backed components, falling back to in-memory ones
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	pingTimeout           time.Duration
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory components
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		pingTimeout:           5 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Connect opens and pings a Redis client
func (f *Factory) Connect(ctx context.Context) (*redis.Client, error) {
	if !f.redisConfig.Enabled {
		return nil, ErrRedisDisabled
	}
	client := redis.NewClient(&redis.Options{
		Addr:         f.redisConfig.Addr(),
		Password:     f.redisConfig.Password,
		DB:           f.redisConfig.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  f.pingTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, f.pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// CreateGuard returns a Redis guard on client, or an in-memory guard when
// client is nil and fallback is allowed
func (f *Factory) CreateGuard(client *redis.Client, connectErr error) (shared.InFlightGuard, error) {
	if client != nil {
		f.logger.Info("using Redis in-flight guard")
		return NewRedisInFlightGuard(client), nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for the submission guard but unavailable: %w", connectErr)
	}
	if !errors.Is(connectErr, ErrRedisDisabled) {
		f.logger.Warn("Redis unavailable, falling back to in-memory in-flight guard. "+
			"Concurrent submits from different instances will not be serialized.",
			zap.Error(connectErr),
		)
	}
	return NewInMemoryInFlightGuard(), nil
}
