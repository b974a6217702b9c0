package integration

import "context"

// ProductLoader fetches a remote product on cache miss
type ProductLoader func(ctx context.Context) (*RemoteProduct, error)

// ProductsCache memoizes remote product reads keyed by remote ID
type ProductsCache interface {
	// Remember returns the cached product, or calls load and caches its result.
	// Loader errors are returned as-is and never cached.
	Remember(ctx context.Context, remoteID string, load ProductLoader) (*RemoteProduct, error)
	// Remove invalidates the entry for remoteID
	Remove(ctx context.Context, remoteID string) error
}

// ProductLocker serializes synchronization of the same local product
type ProductLocker interface {
	// Lock blocks until the lock for localID is held or ctx is done.
	// The returned function releases the lock.
	Lock(ctx context.Context, localID int64) (unlock func(), err error)
}
