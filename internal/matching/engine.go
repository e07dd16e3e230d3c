// Package matching filters and ranks orders for a driver. Every function here
// is pure: inputs are never mutated and results are freshly allocated.
package matching

import (
	"errors"
	"fmt"
	"slices"

	"cargotma/internal/domain"
)

var (
	// ErrNotEligible is returned when a driver may not act on an order.
	ErrNotEligible = errors.New("order not eligible for driver")

	// ErrRouteExcluded is returned when the order's route is in the driver's excluded set.
	ErrRouteExcluded = fmt.Errorf("%w: route excluded", ErrNotEligible)

	// ErrCargoTooLarge is returned when no cargo volume of the driver contains the order.
	ErrCargoTooLarge = fmt.Errorf("%w: cargo does not fit", ErrNotEligible)
)

// EligibleOrders returns the orders the driver may act on, best first.
//
// An order qualifies when it is pending (or assigned to this driver), its
// route is not excluded, and its cargo fits one of the driver's volumes.
// A nil driver yields an empty result.
func EligibleOrders(driver *domain.Driver, orders []*domain.Order) []*domain.Order {
	if driver == nil {
		return []*domain.Order{}
	}

	excluded := directionSet(driver.ExcludedDirections)
	priority := directionSet(driver.PriorityDirections)

	eligible := make([]*domain.Order, 0, len(orders))
	for _, o := range orders {
		if o == nil || !visibleTo(o, driver.ID) {
			continue
		}
		if _, ok := excluded[o.Route()]; ok {
			continue
		}
		if !CargoFits(o, driver) {
			continue
		}
		eligible = append(eligible, o)
	}

	slices.SortStableFunc(eligible, func(a, b *domain.Order) int {
		_, pa := priority[a.Route()]
		_, pb := priority[b.Route()]
		if pa != pb {
			if pa {
				return -1
			}
			return 1
		}
		return compareByPaymentAndAge(a, b)
	})

	return eligible
}

// AllPendingOrders returns every pending order, highest payment first, then
// newest first. It applies no driver filtering and backs the preview feed only.
func AllPendingOrders(orders []*domain.Order) []*domain.Order {
	pending := make([]*domain.Order, 0, len(orders))
	for _, o := range orders {
		if o != nil && o.Status == domain.OrderStatusPending {
			pending = append(pending, o)
		}
	}
	slices.SortStableFunc(pending, compareByPaymentAndAge)
	return pending
}

// CanServe checks the route and cargo parts of the eligibility predicate.
// Status is not checked; acceptance enforces it with compare-and-set.
func CanServe(driver *domain.Driver, order *domain.Order) error {
	if IsExcluded(order, driver) {
		return ErrRouteExcluded
	}
	if !CargoFits(order, driver) {
		return ErrCargoTooLarge
	}
	return nil
}

// CargoFits reports whether the order fits at least one of the driver's
// cargo volumes. An empty volume list fits nothing.
func CargoFits(order *domain.Order, driver *domain.Driver) bool {
	for _, v := range driver.CargoVolumes {
		if order.Dimensions.FitsWithin(v) {
			return true
		}
	}
	return false
}

// IsPriority reports whether the order's route is one of the driver's priority routes.
func IsPriority(order *domain.Order, driver *domain.Driver) bool {
	return containsDirection(driver.PriorityDirections, order.Route())
}

// IsExcluded reports whether the order's route is one of the driver's excluded routes.
func IsExcluded(order *domain.Order, driver *domain.Driver) bool {
	return containsDirection(driver.ExcludedDirections, order.Route())
}

func visibleTo(o *domain.Order, driverID string) bool {
	switch o.Status {
	case domain.OrderStatusPending:
		return true
	case domain.OrderStatusAssigned:
		return o.AssignedDriver != "" && o.AssignedDriver == driverID
	default:
		return false
	}
}

// compareByPaymentAndAge orders by payment desc, createdAt desc, then ID asc
// so that equal keys still compare deterministically.
func compareByPaymentAndAge(a, b *domain.Order) int {
	switch {
	case a.PaymentAmount > b.PaymentAmount:
		return -1
	case a.PaymentAmount < b.PaymentAmount:
		return 1
	}
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

func directionSet(dirs []domain.Direction) map[domain.Direction]struct{} {
	set := make(map[domain.Direction]struct{}, len(dirs))
	for _, d := range dirs {
		set[d] = struct{}{}
	}
	return set
}

func containsDirection(dirs []domain.Direction, route domain.Direction) bool {
	return slices.Contains(dirs, route)
}
