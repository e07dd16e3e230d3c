// Package tests holds in-memory fakes of the service collaborators and the
// cross-service scenario tests built on them.
package tests

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"cargotma/internal/domain"
	"cargotma/internal/redis"
	"cargotma/internal/repository"
	"cargotma/internal/service"
)

// Ensure fakes implement the interfaces they stand in for.
var (
	_ repository.OrderRepository  = (*MockOrderRepository)(nil)
	_ repository.DriverRepository = (*MockDriverRepository)(nil)
	_ repository.BidRepository    = (*MockBidRepository)(nil)
	_ redis.DriverCacheInterface  = (*MockDriverCache)(nil)
	_ redis.LockStoreInterface    = (*MockLockStore)(nil)
	_ service.Notifier            = (*MockNotifier)(nil)
)

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is a mock implementation of OrderRepository. Its
// compare-and-set methods are atomic under the mutex.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	// Counters for verification
	ListCallCount   int32
	AssignCallCount int32

	// Error injection
	CreateError error
	ListError   error
	AssignError error
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

// AddOrder adds an order to the mock repository.
func (m *MockOrderRepository) AddOrder(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *order
	m.orders[order.ID] = &copy
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.orders[order.ID]; exists {
		return repository.ErrConflict
	}
	copy := *order
	m.orders[order.ID] = &copy
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *order
	return &copy, nil
}

func (m *MockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	result, err := m.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if limit := filter.EffectiveLimit(); len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockOrderRepository) ListAll(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	atomic.AddInt32(&m.ListCallCount, 1)
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.CreatedBy != "" && o.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.AssignedDriver != "" && o.AssignedDriver != filter.AssignedDriver {
			continue
		}
		copy := *o
		result = append(result, &copy)
	}

	slices.SortFunc(result, func(a, b *domain.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return result, nil
}

func (m *MockOrderRepository) CompareAndAssign(ctx context.Context, id string, expected domain.OrderStatus, driverID string) (bool, error) {
	atomic.AddInt32(&m.AssignCallCount, 1)
	if m.AssignError != nil {
		return false, m.AssignError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if order.Status != expected {
		return false, nil
	}
	order.Status = domain.OrderStatusAssigned
	order.AssignedDriver = driverID
	order.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *MockOrderRepository) CompareAndSetStatus(ctx context.Context, id, driverID string, from, to domain.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if order.Status != from || order.AssignedDriver != driverID {
		return false, nil
	}
	order.Status = to
	order.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *MockOrderRepository) UpdateChatID(ctx context.Context, id, chatID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	order.ChatID = chatID
	order.UpdatedAt = time.Now().UTC()
	return nil
}

// GetOrder returns the stored order for test assertions.
func (m *MockOrderRepository) GetOrder(id string) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil
	}
	copy := *order
	return &copy
}

// CountOrders returns the number of stored orders.
func (m *MockOrderRepository) CountOrders() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	// Counters for verification
	CreateCallCount      int32
	GetByUserIDCallCount int32

	// Error injection
	CreateError error
	GetError    error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = cloneDriver(driver)
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.drivers {
		if d.UserID == driver.UserID {
			return repository.ErrConflict
		}
	}
	m.drivers[driver.ID] = cloneDriver(driver)
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneDriver(driver), nil
}

func (m *MockDriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	atomic.AddInt32(&m.GetByUserIDCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.drivers {
		if d.UserID == userID {
			return cloneDriver(d), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		result = append(result, cloneDriver(d))
	}
	slices.SortFunc(result, func(a, b *domain.Driver) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return result, nil
}

func (m *MockDriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[driver.ID]; !ok {
		return repository.ErrNotFound
	}
	m.drivers[driver.ID] = cloneDriver(driver)
	return nil
}

// GetDriver returns driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil
	}
	return cloneDriver(driver)
}

func cloneDriver(d *domain.Driver) *domain.Driver {
	copy := *d
	copy.PriorityDirections = slices.Clone(d.PriorityDirections)
	copy.ExcludedDirections = slices.Clone(d.ExcludedDirections)
	copy.CargoVolumes = slices.Clone(d.CargoVolumes)
	return &copy
}

// ──────────────────────────────────────────────
// MOCK BID REPOSITORY
// ──────────────────────────────────────────────

// MockBidRepository is a mock implementation of BidRepository.
type MockBidRepository struct {
	mu   sync.RWMutex
	bids []*domain.Bid

	// Error injection
	CreateError error
}

// NewMockBidRepository creates a new mock bid repository.
func NewMockBidRepository() *MockBidRepository {
	return &MockBidRepository{}
}

func (m *MockBidRepository) Create(ctx context.Context, bid *domain.Bid) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bids {
		if b.OrderID == bid.OrderID && b.DriverID == bid.DriverID {
			return repository.ErrConflict
		}
	}
	copy := *bid
	m.bids = append(m.bids, &copy)
	return nil
}

func (m *MockBidRepository) List(ctx context.Context, filter repository.BidFilter) ([]*domain.Bid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Bid, 0, len(m.bids))
	for i := len(m.bids) - 1; i >= 0; i-- {
		b := m.bids[i]
		if filter.OrderID != "" && b.OrderID != filter.OrderID {
			continue
		}
		if filter.DriverID != "" && b.DriverID != filter.DriverID {
			continue
		}
		copy := *b
		result = append(result, &copy)
	}
	return result, nil
}

// CountBids returns the number of stored bids.
func (m *MockBidRepository) CountBids() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bids)
}

// ──────────────────────────────────────────────
// MOCK DRIVER CACHE
// ──────────────────────────────────────────────

// MockDriverCache is a mock implementation of the driver profile cache.
type MockDriverCache struct {
	mu      sync.Mutex
	drivers map[string]*domain.Driver

	// Counters
	HitCount        int32
	InvalidateCount int32

	// Error injection
	GetError error
	SetError error
}

// NewMockDriverCache creates a new mock driver cache.
func NewMockDriverCache() *MockDriverCache {
	return &MockDriverCache{
		drivers: make(map[string]*domain.Driver),
	}
}

func (m *MockDriverCache) GetDriverByUser(ctx context.Context, userID string) (*domain.Driver, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[userID]
	if !ok {
		return nil, nil
	}
	atomic.AddInt32(&m.HitCount, 1)
	return cloneDriver(driver), nil
}

func (m *MockDriverCache) SetDriver(ctx context.Context, driver *domain.Driver) error {
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.UserID] = cloneDriver(driver)
	return nil
}

func (m *MockDriverCache) InvalidateDriver(ctx context.Context, userID string) error {
	atomic.AddInt32(&m.InvalidateCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drivers, userID)
	return nil
}

// IsCached reports whether the user's profile is cached.
func (m *MockDriverCache) IsCached(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.drivers[userID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireOrderLock(ctx context.Context, orderID string, ttl time.Duration) (string, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return "", m.AcquireError
	}
	if m.ForceAcquireFailure {
		return "", nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:order:" + orderID
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return "", nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return "token-" + orderID, nil
}

func (m *MockLockStore) ReleaseOrderLock(ctx context.Context, orderID, token string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:order:"+orderID)
	return nil
}

// IsLocked checks if an order is locked (for test assertions).
func (m *MockLockStore) IsLocked(orderID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:order:"+orderID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER
// ──────────────────────────────────────────────

// MockNotifier records delivered notifications.
type MockNotifier struct {
	mu sync.Mutex

	Accepted      []string // order IDs
	StatusChanges []domain.OrderStatus
	Bids          []string // bid IDs

	// Error injection
	Err error
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) NotifyOrderAccepted(ctx context.Context, order *domain.Order, driver *domain.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Accepted = append(m.Accepted, order.ID)
	return m.Err
}

func (m *MockNotifier) NotifyStatusChanged(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusChanges = append(m.StatusChanges, order.Status)
	return m.Err
}

func (m *MockNotifier) NotifyBidPlaced(ctx context.Context, order *domain.Order, bid *domain.Bid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Bids = append(m.Bids, bid.ID)
	return m.Err
}

// AcceptedCount returns how many acceptances were notified.
func (m *MockNotifier) AcceptedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Accepted)
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockStorage = errors.New("mock: storage unavailable")
	ErrMockRedis   = errors.New("mock: redis unavailable")
)
