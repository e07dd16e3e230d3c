package repository

import (
	"context"

	"cargotma/internal/domain"
)

// DefaultOrderLimit caps List when the filter sets no limit.
const DefaultOrderLimit = 500

// OrderFilter narrows List. Zero-valued fields are ignored.
type OrderFilter struct {
	Status         domain.OrderStatus
	CreatedBy      string
	AssignedDriver string
	Limit          int
}

// EffectiveLimit returns the limit List should apply.
func (f OrderFilter) EffectiveLimit() int {
	if f.Limit <= 0 || f.Limit > DefaultOrderLimit {
		return DefaultOrderLimit
	}
	return f.Limit
}

// OrderRepository defines the persistence operations for orders.
type OrderRepository interface {
	// Create persists a new order.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the filter, newest first, capped at
	// filter.EffectiveLimit().
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)

	// ListAll returns every order matching the filter, newest first.
	// filter.Limit is ignored.
	ListAll(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)

	// CompareAndAssign atomically sets status=assigned and the assigned driver
	// iff the order is still in the expected status. Returns false when the
	// order exists but its status has moved on, ErrNotFound when it does not exist.
	CompareAndAssign(ctx context.Context, id string, expected domain.OrderStatus, driverID string) (bool, error)

	// CompareAndSetStatus atomically moves the order from one status to another
	// iff it is currently in `from` and assigned to driverID.
	CompareAndSetStatus(ctx context.Context, id, driverID string, from, to domain.OrderStatus) (bool, error)

	// UpdateChatID stores the chat linking customer and driver.
	UpdateChatID(ctx context.Context, id, chatID string) error
}
