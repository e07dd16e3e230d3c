package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the current status of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusAssigned   OrderStatus = "assigned"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
)

// ErrInvalidOrderState is returned by Order.Validate when the status and
// assigned driver disagree.
var ErrInvalidOrderState = errors.New("order status and assigned driver are inconsistent")

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAssigned, OrderStatusInProgress, OrderStatusCompleted:
		return true
	default:
		return false
	}
}

// Next returns the only legal successor of s. The lifecycle is linear and
// has no reverse transitions, so completed has no successor.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case OrderStatusPending:
		return OrderStatusAssigned, true
	case OrderStatusAssigned:
		return OrderStatusInProgress, true
	case OrderStatusInProgress:
		return OrderStatusCompleted, true
	default:
		return "", false
	}
}

// RequiresDriver reports whether an order in this status must carry an
// assigned driver.
func (s OrderStatus) RequiresDriver() bool {
	return s != OrderStatusPending
}

func (s OrderStatus) String() string {
	return string(s)
}

// Order represents a cargo delivery request posted by a customer.
type Order struct {
	ID             string
	From           string
	To             string
	Dimensions     Dimensions // centimetres
	PaymentAmount  float64
	Status         OrderStatus
	CreatedBy      string
	AssignedDriver string // empty while pending
	ChatID         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Route returns the order's from/to pair.
func (o *Order) Route() Direction {
	return Direction{From: o.From, To: o.To}
}

// Validate checks that AssignedDriver is set iff the status is assigned or later.
func (o *Order) Validate() error {
	if !o.Status.IsValid() {
		return ErrInvalidOrderState
	}
	if o.Status.RequiresDriver() != (o.AssignedDriver != "") {
		return ErrInvalidOrderState
	}
	return nil
}
