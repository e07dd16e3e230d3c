package service

import (
	"errors"

	"cargotma/internal/matching"
)

var (
	// ErrNotEligible is returned when the driver's profile rules the order out.
	ErrNotEligible = matching.ErrNotEligible

	// ErrAlreadyAssigned is returned when the order is no longer pending at acceptance time.
	ErrAlreadyAssigned = errors.New("order already assigned")

	// ErrDriverNotFound is returned when no driver profile exists for the given id or user.
	ErrDriverNotFound = errors.New("driver not found")

	// ErrInvalidOrderID is returned when order ID is empty.
	ErrInvalidOrderID = errors.New("invalid order id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidUserID is returned when user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidRoute is returned when an order's from or to city is empty.
	ErrInvalidRoute = errors.New("invalid route")

	// ErrInvalidDimensions is returned when an order's cargo dimensions are not positive.
	ErrInvalidDimensions = errors.New("invalid cargo dimensions")

	// ErrInvalidPaymentAmount is returned when payment amount is not positive.
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")

	// ErrInvalidCargoVolume is returned when a driver's cargo volume is not positive.
	ErrInvalidCargoVolume = errors.New("invalid cargo volume")

	// ErrInvalidDirection is returned when a direction has an empty endpoint.
	ErrInvalidDirection = errors.New("invalid direction")

	// ErrInvalidUnit is returned for an unknown length unit.
	ErrInvalidUnit = errors.New("invalid unit")

	// ErrInvalidBidAmount is returned when bid amount is not positive.
	ErrInvalidBidAmount = errors.New("invalid bid amount")

	// ErrInvalidStatus is returned for an unknown order status filter.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrInvalidStatusTransition is returned when the order has no further status.
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrDriverNotAssigned is returned when a driver acts on an order assigned to someone else.
	ErrDriverNotAssigned = errors.New("driver not assigned to this order")

	// ErrOrderNotPending is returned when bidding on an order that is no longer pending.
	ErrOrderNotPending = errors.New("order not pending")

	// ErrDriverAlreadyRegistered is returned when the user already has a driver profile.
	ErrDriverAlreadyRegistered = errors.New("driver already registered for user")

	// ErrBidAlreadyPlaced is returned when the driver already bid on the order.
	ErrBidAlreadyPlaced = errors.New("bid already placed")
)
