package service_test

import (
	"time"

	"go.uber.org/zap"

	"cargotma/internal/domain"
	"cargotma/internal/service"
	"cargotma/internal/tests"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	orders   *tests.MockOrderRepository
	drivers  *tests.MockDriverRepository
	bids     *tests.MockBidRepository
	cache    *tests.MockDriverCache
	locks    *tests.MockLockStore
	notifier *tests.MockNotifier

	driverService   *service.DriverService
	orderService    *service.OrderService
	matchingService *service.MatchingService
	bidService      *service.BidService
}

func newFixture() *fixture {
	f := &fixture{
		orders:   tests.NewMockOrderRepository(),
		drivers:  tests.NewMockDriverRepository(),
		bids:     tests.NewMockBidRepository(),
		cache:    tests.NewMockDriverCache(),
		locks:    tests.NewMockLockStore(),
		notifier: tests.NewMockNotifier(),
	}
	logger := zap.NewNop()

	f.driverService = service.NewDriverService(f.drivers, f.cache, logger)
	f.orderService = service.NewOrderService(f.orders, f.notifier, nil, logger)
	f.matchingService = service.NewMatchingService(f.orders, f.driverService, f.locks, f.notifier, nil, logger)
	f.bidService = service.NewBidService(f.bids, f.orders, f.driverService, f.notifier, nil, logger)
	return f
}

func pendingOrder(id, from, to string, pay float64) *domain.Order {
	return &domain.Order{
		ID:            id,
		From:          from,
		To:            to,
		Dimensions:    domain.Dimensions{Length: 50, Width: 50, Height: 50},
		PaymentAmount: pay,
		Status:        domain.OrderStatusPending,
		CreatedBy:     "customer-1",
		CreatedAt:     baseTime,
		UpdatedAt:     baseTime,
	}
}

func testDriver(id, userID string) *domain.Driver {
	return &domain.Driver{
		ID:           id,
		UserID:       userID,
		CargoVolumes: []domain.Dimensions{{Length: 100, Width: 100, Height: 100}},
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
	}
}

func orderIDs(orders []*domain.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}
