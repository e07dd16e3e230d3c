package repository

import (
	"context"

	"cargotma/internal/domain"
)

// BidFilter narrows List. Zero-valued fields are ignored.
type BidFilter struct {
	OrderID  string
	DriverID string
}

// BidRepository defines the persistence operations for bids.
type BidRepository interface {
	// Create persists a new bid. Returns ErrConflict if the driver already bid on the order.
	Create(ctx context.Context, bid *domain.Bid) error

	// List returns bids matching the filter, newest first.
	List(ctx context.Context, filter BidFilter) ([]*domain.Bid, error)
}
