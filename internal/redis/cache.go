package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"cargotma/internal/domain"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// DriverCacheTTL bounds how long a stale profile can be served after a
// write that failed to invalidate it.
const DriverCacheTTL = 5 * time.Minute

const driverByUserPrefix = "cache:driver:user:"

// CachedDriver is the cached form of a driver profile.
type CachedDriver struct {
	ID                 string              `json:"id"`
	UserID             string              `json:"user_id"`
	PriorityDirections []cachedDirection   `json:"priority_directions"`
	ExcludedDirections []cachedDirection   `json:"excluded_directions"`
	CargoVolumes       []domain.Dimensions `json:"cargo_volumes"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

type cachedDirection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewCachedDriver converts a domain driver to its cached form.
func NewCachedDriver(d *domain.Driver) *CachedDriver {
	cached := &CachedDriver{
		ID:           d.ID,
		UserID:       d.UserID,
		CargoVolumes: append([]domain.Dimensions(nil), d.CargoVolumes...),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	for _, dir := range d.PriorityDirections {
		cached.PriorityDirections = append(cached.PriorityDirections, cachedDirection{From: dir.From, To: dir.To})
	}
	for _, dir := range d.ExcludedDirections {
		cached.ExcludedDirections = append(cached.ExcludedDirections, cachedDirection{From: dir.From, To: dir.To})
	}
	return cached
}

// ToDomain converts the cached form back to a domain driver.
func (c *CachedDriver) ToDomain() *domain.Driver {
	d := &domain.Driver{
		ID:           c.ID,
		UserID:       c.UserID,
		CargoVolumes: append([]domain.Dimensions(nil), c.CargoVolumes...),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	for _, dir := range c.PriorityDirections {
		d.PriorityDirections = append(d.PriorityDirections, domain.Direction{From: dir.From, To: dir.To})
	}
	for _, dir := range c.ExcludedDirections {
		d.ExcludedDirections = append(d.ExcludedDirections, domain.Direction{From: dir.From, To: dir.To})
	}
	return d
}

// GetDriverByUser retrieves a driver profile from cache by owning user.
// A miss returns (nil, nil).
func (s *CacheStore) GetDriverByUser(ctx context.Context, userID string) (*domain.Driver, error) {
	data, err := s.client.Get(ctx, driverByUserPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cached CachedDriver
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return cached.ToDomain(), nil
}

// SetDriver stores a driver profile in cache, keyed by its user.
func (s *CacheStore) SetDriver(ctx context.Context, driver *domain.Driver) error {
	data, err := json.Marshal(NewCachedDriver(driver))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, driverByUserPrefix+driver.UserID, data, DriverCacheTTL).Err()
}

// InvalidateDriver removes a user's driver profile from cache.
func (s *CacheStore) InvalidateDriver(ctx context.Context, userID string) error {
	return s.client.Del(ctx, driverByUserPrefix+userID).Err()
}
