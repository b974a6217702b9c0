package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mwc/backend/internal/domain/integration"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// MemoryProductLocker serializes work per local product ID within one process.
type MemoryProductLocker struct {
	mu    sync.Mutex
	locks map[int64]*lockSlot
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

// NewMemoryProductLocker creates an in-process locker
func NewMemoryProductLocker() *MemoryProductLocker {
	return &MemoryProductLocker{locks: make(map[int64]*lockSlot)}
}

// Lock blocks until the lock for localID is held or ctx is done
func (l *MemoryProductLocker) Lock(ctx context.Context, localID int64) (func(), error) {
	l.mu.Lock()
	slot, ok := l.locks[localID]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		l.locks[localID] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(localID, slot, false)
		return nil, fmt.Errorf("%w: %v", integration.ErrLockNotAcquired, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(localID, slot, true) })
	}, nil
}

func (l *MemoryProductLocker) release(localID int64, slot *lockSlot, held bool) {
	if held {
		<-slot.ch
	}
	l.mu.Lock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.locks, localID)
	}
	l.mu.Unlock()
}

// releaseScript deletes the lock key only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const (
	defaultLockTTL   = 30 * time.Second
	defaultLockRetry = 50 * time.Millisecond
)

// RedisProductLocker serializes work per local product ID across instances.
// A lock expires after its TTL so a crashed holder cannot block forever.
type RedisProductLocker struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
	retry     time.Duration
	logger    *zap.Logger
}

// RedisProductLockerOption configures a RedisProductLocker
type RedisProductLockerOption func(*RedisProductLocker)

// WithLockTTL sets the lock expiry
func WithLockTTL(ttl time.Duration) RedisProductLockerOption {
	return func(l *RedisProductLocker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithLockRetryInterval sets the polling interval while waiting for a lock
func WithLockRetryInterval(d time.Duration) RedisProductLockerOption {
	return func(l *RedisProductLocker) {
		if d > 0 {
			l.retry = d
		}
	}
}

// WithLockKeyPrefix sets the key prefix
func WithLockKeyPrefix(prefix string) RedisProductLockerOption {
	return func(l *RedisProductLocker) {
		if prefix != "" {
			l.keyPrefix = prefix
		}
	}
}

// WithLockLogger sets the logger
func WithLockLogger(logger *zap.Logger) RedisProductLockerOption {
	return func(l *RedisProductLocker) {
		l.logger = logger
	}
}

// NewRedisProductLocker creates a distributed locker on an existing client
func NewRedisProductLocker(client redis.UniversalClient, opts ...RedisProductLockerOption) *RedisProductLocker {
	l := &RedisProductLocker{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		ttl:       defaultLockTTL,
		retry:     defaultLockRetry,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *RedisProductLocker) key(localID int64) string {
	return l.keyPrefix + "locks:product:" + strconv.FormatInt(localID, 10)
}

// Lock polls SET NX until the lock is held or ctx is done
func (l *RedisProductLocker) Lock(ctx context.Context, localID int64) (func(), error) {
	key := l.key(localID)
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire product lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", integration.ErrLockNotAcquired, ctx.Err())
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// release must run even when the caller's ctx is already cancelled
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
				l.logger.Warn("Failed to release product lock",
					zap.Int64("local_id", localID),
					zap.Error(err))
			}
		})
	}, nil
}

var (
	_ integration.ProductLocker = (*MemoryProductLocker)(nil)
	_ integration.ProductLocker = (*RedisProductLocker)(nil)
)
