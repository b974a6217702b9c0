package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/mwc/backend/internal/domain/integration"
	"github.com/mwc/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Supported cache and lock drivers
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Factory builds the products cache and locker from configuration
type Factory struct {
	redisConfig           config.RedisConfig
	cacheConfig           config.CacheConfig
	lockConfig            config.LockConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	dial                  func(config.RedisConfig) (redis.UniversalClient, error)
	client                redis.UniversalClient
	ownsClient            bool
	dialErr               error
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory
// implementations when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithRedisClient makes the factory use an existing client instead of dialing
func WithRedisClient(client redis.UniversalClient) FactoryOption {
	return func(f *Factory) {
		f.client = client
	}
}

// NewFactory creates a cache factory
func NewFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, lockCfg config.LockConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           redisCfg,
		cacheConfig:           cacheCfg,
		lockConfig:            lockCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		dial: func(cfg config.RedisConfig) (redis.UniversalClient, error) {
			return NewRedisClient(cfg)
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Factory) redisClient() (redis.UniversalClient, error) {
	if f.client != nil {
		return f.client, nil
	}
	if f.dialErr != nil {
		return nil, f.dialErr
	}
	client, err := f.dial(f.redisConfig)
	if err != nil {
		f.dialErr = err
		return nil, err
	}
	f.client = client
	f.ownsClient = true
	return client, nil
}

// CreateProductsCache returns the configured ProductsCache
func (f *Factory) CreateProductsCache() (integration.ProductsCache, error) {
	if f.cacheConfig.Driver != DriverRedis {
		f.logger.Info("Using in-memory products cache", zap.Duration("ttl", f.cacheConfig.TTL))
		return NewMemoryProductsCache(WithMemoryTTL(f.cacheConfig.TTL), WithMemoryLogger(f.logger)), nil
	}

	client, err := f.redisClient()
	if err == nil {
		f.logger.Info("Using Redis products cache", zap.Duration("ttl", f.cacheConfig.TTL))
		return NewRedisProductsCache(client,
			WithRedisTTL(f.cacheConfig.TTL),
			WithKeyPrefix(f.cacheConfig.KeyPrefix),
			WithRedisLogger(f.logger),
		), nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for products cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory products cache. "+
		"Cached products will not be shared across instances.",
		zap.Error(err),
	)
	return NewMemoryProductsCache(WithMemoryTTL(f.cacheConfig.TTL), WithMemoryLogger(f.logger)), nil
}

// CreateProductLocker returns the configured ProductLocker
func (f *Factory) CreateProductLocker() (integration.ProductLocker, error) {
	if f.lockConfig.Driver != DriverRedis {
		f.logger.Info("Using in-process product locker")
		return NewMemoryProductLocker(), nil
	}

	client, err := f.redisClient()
	if err == nil {
		f.logger.Info("Using Redis product locker", zap.Duration("ttl", f.lockConfig.TTL))
		return NewRedisProductLocker(client,
			WithLockTTL(f.lockConfig.TTL),
			WithLockKeyPrefix(f.cacheConfig.KeyPrefix),
			WithLockLogger(f.logger),
		), nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for product locks but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-process product locker. "+
		"Concurrent syncs on different instances are not serialized.",
		zap.Error(err),
	)
	return NewMemoryProductLocker(), nil
}

// Close releases the Redis client if the factory opened one
func (f *Factory) Close() error {
	if f.client == nil || !f.ownsClient {
		return nil
	}
	return f.client.Close()
}
