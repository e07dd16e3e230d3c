package redis

import (
	"context"
	"time"

	"cargotma/internal/domain"
)

// DriverCacheInterface defines the interface for driver profile caching.
type DriverCacheInterface interface {
	GetDriverByUser(ctx context.Context, userID string) (*domain.Driver, error)
	SetDriver(ctx context.Context, driver *domain.Driver) error
	InvalidateDriver(ctx context.Context, userID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireOrderLock(ctx context.Context, orderID string, ttl time.Duration) (string, error)
	ReleaseOrderLock(ctx context.Context, orderID, token string) error
}

// Ensure concrete types implement interfaces.
var (
	_ DriverCacheInterface = (*CacheStore)(nil)
	_ LockStoreInterface   = (*LockStore)(nil)
)
