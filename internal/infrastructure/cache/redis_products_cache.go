package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mwc/backend/internal/domain/integration"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultKeyPrefix = "mwc:"

// setIfVersionScript stores ARGV[1] under KEYS[1] for ARGV[3] milliseconds
// only while the version counter KEYS[2] still equals ARGV[2]
var setIfVersionScript = redis.NewScript(`
local current = redis.call("GET", KEYS[2])
if current == false then
	current = "0"
end
if current ~= ARGV[2] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
return 1
`)

// RedisProductsCache implements ProductsCache on Redis with JSON values.
type RedisProductsCache struct {
	client    redis.UniversalClient
	group     singleflight.Group
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// RedisProductsCacheOption configures a RedisProductsCache
type RedisProductsCacheOption func(*RedisProductsCache)

// WithRedisTTL sets how long a remote product stays cached
func WithRedisTTL(ttl time.Duration) RedisProductsCacheOption {
	return func(c *RedisProductsCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithKeyPrefix sets the prefix prepended to every key
func WithKeyPrefix(prefix string) RedisProductsCacheOption {
	return func(c *RedisProductsCache) {
		if prefix != "" {
			c.keyPrefix = prefix
		}
	}
}

// WithRedisLogger sets the logger
func WithRedisLogger(logger *zap.Logger) RedisProductsCacheOption {
	return func(c *RedisProductsCache) {
		c.logger = logger
	}
}

// NewRedisProductsCache creates a products cache on an existing client.
// The caller keeps ownership of the client.
func NewRedisProductsCache(client redis.UniversalClient, opts ...RedisProductsCacheOption) *RedisProductsCache {
	c := &RedisProductsCache{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		ttl:       defaultProductTTL,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisProductsCache) key(remoteID string) string {
	return c.keyPrefix + "products:" + remoteID
}

func (c *RedisProductsCache) versionKey(remoteID string) string {
	return c.key(remoteID) + ":version"
}

// Remember returns the cached product for remoteID or loads and caches it.
// Redis read and write failures degrade to calling load directly.
func (c *RedisProductsCache) Remember(ctx context.Context, remoteID string, load integration.ProductLoader) (*integration.RemoteProduct, error) {
	key := c.key(remoteID)

	cached, err := c.get(ctx, key)
	if err != nil {
		c.logger.Warn("Failed to read remote product from cache",
			zap.String("remote_id", remoteID),
			zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		version, versionErr := c.version(ctx, remoteID)
		p, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if p != nil && versionErr == nil {
			if err := c.setIfVersion(ctx, remoteID, version, p); err != nil {
				c.logger.Warn("Failed to cache remote product",
					zap.String("remote_id", remoteID),
					zap.Error(err))
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	p, _ := v.(*integration.RemoteProduct)
	if p == nil {
		return nil, nil
	}
	out := *p
	return &out, nil
}

func (c *RedisProductsCache) get(ctx context.Context, key string) (*integration.RemoteProduct, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product from cache: %w", err)
	}

	var p integration.RemoteProduct
	if err := json.Unmarshal(data, &p); err != nil {
		_ = c.client.Del(ctx, key)
		return nil, fmt.Errorf("failed to unmarshal cached product: %w", err)
	}
	return &p, nil
}

// version returns the invalidation counter of remoteID; a missing counter is "0"
func (c *RedisProductsCache) version(ctx context.Context, remoteID string) (string, error) {
	v, err := c.client.Get(ctx, c.versionKey(remoteID)).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	if err != nil {
		c.logger.Warn("Failed to read cache version, result will not be cached",
			zap.String("remote_id", remoteID),
			zap.Error(err))
		return "", err
	}
	return v, nil
}

// setIfVersion caches p unless Remove ran since version was read
func (c *RedisProductsCache) setIfVersion(ctx context.Context, remoteID, version string, p *integration.RemoteProduct) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}
	stored, err := setIfVersionScript.Run(ctx, c.client,
		[]string{c.key(remoteID), c.versionKey(remoteID)},
		data, version, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return fmt.Errorf("failed to set product in cache: %w", err)
	}
	if stored == 0 {
		c.logger.Debug("Discarding remote product loaded before invalidation", zap.String("remote_id", remoteID))
	}
	return nil
}

// Remove deletes the entry for remoteID and bumps its version so a load
// already in flight does not store its result
func (c *RedisProductsCache) Remove(ctx context.Context, remoteID string) error {
	key := c.key(remoteID)
	versionKey := c.versionKey(remoteID)
	c.group.Forget(key)

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		pipe.PExpire(ctx, versionKey, c.ttl)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete product from cache: %w", err)
	}
	return nil
}

var _ integration.ProductsCache = (*RedisProductsCache)(nil)
