package domain

import "time"

// Bid is a driver's price offer on an order. A driver bids at most once per order.
type Bid struct {
	ID        string
	OrderID   string
	DriverID  string
	Amount    float64
	CreatedAt time.Time
}
