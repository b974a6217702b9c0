package cache

import (
	"context"
	"sync"
	"time"

	"github.com/mwc/backend/internal/domain/integration"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultProductTTL      = 10 * time.Minute
	defaultCleanupInterval = 15 * time.Minute
)

// MemoryProductsCache implements ProductsCache in process memory.
// Entries are not shared across instances.
type MemoryProductsCache struct {
	items  *gocache.Cache
	group  singleflight.Group
	ttl    time.Duration
	logger *zap.Logger

	// generations is bumped by Remove so a load that started before the
	// removal does not store its result
	mu          sync.Mutex
	generations map[string]uint64
}

// MemoryProductsCacheOption configures a MemoryProductsCache
type MemoryProductsCacheOption func(*MemoryProductsCache)

// WithMemoryTTL sets how long a remote product stays cached
func WithMemoryTTL(ttl time.Duration) MemoryProductsCacheOption {
	return func(c *MemoryProductsCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMemoryLogger sets the logger
func WithMemoryLogger(logger *zap.Logger) MemoryProductsCacheOption {
	return func(c *MemoryProductsCache) {
		c.logger = logger
	}
}

// NewMemoryProductsCache creates an in-memory products cache
func NewMemoryProductsCache(opts ...MemoryProductsCacheOption) *MemoryProductsCache {
	c := &MemoryProductsCache{
		ttl:         defaultProductTTL,
		logger:      zap.NewNop(),
		generations: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.items = gocache.New(c.ttl, defaultCleanupInterval)
	return c
}

// Remember returns the cached product for remoteID or loads and caches it.
// Concurrent misses for the same remoteID share a single load.
func (c *MemoryProductsCache) Remember(ctx context.Context, remoteID string, load integration.ProductLoader) (*integration.RemoteProduct, error) {
	if v, ok := c.items.Get(remoteID); ok {
		if p, ok := v.(integration.RemoteProduct); ok {
			c.logger.Debug("Remote product cache hit", zap.String("remote_id", remoteID))
			return &p, nil
		}
	}

	v, err, _ := c.group.Do(remoteID, func() (any, error) {
		gen := c.generation(remoteID)
		p, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if p != nil {
			c.storeIfCurrent(remoteID, gen, *p)
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

func (c *MemoryProductsCache) generation(remoteID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[remoteID]
}

func (c *MemoryProductsCache) storeIfCurrent(remoteID string, gen uint64, p integration.RemoteProduct) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[remoteID] != gen {
		c.logger.Debug("Discarding remote product loaded before invalidation", zap.String("remote_id", remoteID))
		return
	}
	c.items.Set(remoteID, p, c.ttl)
}

// Remove drops the entry for remoteID. A load already in flight for remoteID
// still returns to its callers but is not cached.
func (c *MemoryProductsCache) Remove(_ context.Context, remoteID string) error {
	c.mu.Lock()
	c.generations[remoteID]++
	c.items.Delete(remoteID)
	c.mu.Unlock()
	c.group.Forget(remoteID)
	return nil
}

// Len returns the number of unexpired entries
func (c *MemoryProductsCache) Len() int {
	return c.items.ItemCount()
}

var _ integration.ProductsCache = (*MemoryProductsCache)(nil)
