package service

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cargotma/internal/domain"
	"cargotma/internal/matching"
	"cargotma/internal/metrics"
	"cargotma/internal/redis"
	"cargotma/internal/repository"
)

const (
	orderLockTTL = 10 * time.Second

	// A contended order lock is polled for up to orderLockPolls*orderLockPoll.
	orderLockPoll  = 25 * time.Millisecond
	orderLockPolls = 40
)

var errOrderLockHeld = errors.New("order lock held")

// Feed names used in metrics.
const (
	feedDriver  = "driver"
	feedPending = "pending"
)

// DriverProvider resolves driver profiles. Missing profiles are reported as
// ErrDriverNotFound.
type DriverProvider interface {
	GetDriver(ctx context.Context, driverID string) (*domain.Driver, error)
	GetDriverByUserID(ctx context.Context, userID string) (*domain.Driver, error)
}

// Ensure DriverService implements DriverProvider.
var _ DriverProvider = (*DriverService)(nil)

// MatchingService serves order feeds and order acceptance.
type MatchingService struct {
	orderRepo repository.OrderRepository
	drivers   DriverProvider
	lockStore redis.LockStoreInterface
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewMatchingService creates a new MatchingService. lockStore and notifier may be nil.
func NewMatchingService(
	orderRepo repository.OrderRepository,
	drivers DriverProvider,
	lockStore redis.LockStoreInterface,
	notifier Notifier,
	m *metrics.Metrics,
	logger *zap.Logger,
) *MatchingService {
	return &MatchingService{
		orderRepo: orderRepo,
		drivers:   drivers,
		lockStore: lockStore,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
	}
}

// AcceptResult contains the result of a successful acceptance.
type AcceptResult struct {
	Order           *domain.Order
	Driver          *domain.Driver
	CustomerContact string
}

// EligibleOrdersForDriver returns the ranked feed for a driver.
func (s *MatchingService) EligibleOrdersForDriver(ctx context.Context, driverID string) ([]*domain.Order, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	var driver *domain.Driver
	var orders []*domain.Order

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		driver, err = s.drivers.GetDriver(gctx, driverID)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.orderSnapshot(gctx, driverID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	eligible := matching.EligibleOrders(driver, orders)
	s.metrics.ObserveFeed(feedDriver, len(eligible))
	return eligible, nil
}

// EligibleOrdersForUser returns the ranked feed for the driver profile owned
// by userID. A user without a profile gets an empty feed.
func (s *MatchingService) EligibleOrdersForUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	driver, err := s.drivers.GetDriverByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrDriverNotFound) {
			return []*domain.Order{}, nil
		}
		return nil, err
	}

	orders, err := s.orderSnapshot(ctx, driver.ID)
	if err != nil {
		return nil, err
	}

	eligible := matching.EligibleOrders(driver, orders)
	s.metrics.ObserveFeed(feedDriver, len(eligible))
	return eligible, nil
}

// AllPendingOrders returns every pending order without driver filtering.
// It backs the preview feed only.
func (s *MatchingService) AllPendingOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx, repository.OrderFilter{Status: domain.OrderStatusPending})
	if err != nil {
		return nil, err
	}

	pending := matching.AllPendingOrders(orders)
	s.metrics.ObserveFeed(feedPending, len(pending))
	return pending, nil
}

// AcceptOrder assigns a pending order to the driver.
//
// Eligibility is re-checked against the driver's current profile, and the
// assignment itself is a compare-and-set on the order status, so of several
// concurrent acceptances exactly one succeeds and the rest get
// ErrAlreadyAssigned. The Redis lock serialises attempts on the same order;
// a caller that cannot take it in time falls through to the compare-and-set.
func (s *MatchingService) AcceptOrder(ctx context.Context, orderID, driverID string) (*AcceptResult, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	result, err := s.acceptOrder(ctx, orderID, driverID)
	s.metrics.ObserveAcceptance(acceptanceOutcome(err))
	if err != nil {
		return nil, err
	}

	s.logger.Info("order accepted",
		zap.String("order_id", orderID),
		zap.String("driver_id", driverID),
	)

	if s.notifier != nil {
		if err := s.notifier.NotifyOrderAccepted(ctx, result.Order, result.Driver); err != nil {
			s.logger.Warn("notify order accepted", zap.String("order_id", orderID), zap.Error(err))
		}
	}

	return result, nil
}

func (s *MatchingService) acceptOrder(ctx context.Context, orderID, driverID string) (*AcceptResult, error) {
	driver, err := s.drivers.GetDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	if token := s.acquireOrderLock(ctx, orderID); token != "" {
		defer func() {
			if err := s.lockStore.ReleaseOrderLock(context.WithoutCancel(ctx), orderID, token); err != nil {
				s.logger.Warn("release order lock", zap.String("order_id", orderID), zap.Error(err))
			}
		}()
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusPending {
		return nil, ErrAlreadyAssigned
	}

	if err := matching.CanServe(driver, order); err != nil {
		return nil, err
	}

	swapped, err := s.orderRepo.CompareAndAssign(ctx, orderID, domain.OrderStatusPending, driverID)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, ErrAlreadyAssigned
	}

	order.Status = domain.OrderStatusAssigned
	order.AssignedDriver = driverID
	order.UpdatedAt = time.Now().UTC()

	return &AcceptResult{
		Order:           order,
		Driver:          driver,
		CustomerContact: ContactLink(order.CreatedBy),
	}, nil
}

// acquireOrderLock waits for the order lock while another acceptance holds
// it. An empty token means the lock was not taken.
func (s *MatchingService) acquireOrderLock(ctx context.Context, orderID string) string {
	if s.lockStore == nil {
		return ""
	}

	var token string
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(orderLockPoll), orderLockPolls),
		ctx,
	)
	err := backoff.Retry(func() error {
		t, err := s.lockStore.AcquireOrderLock(ctx, orderID, orderLockTTL)
		if err != nil {
			return backoff.Permanent(err)
		}
		if t == "" {
			return errOrderLockHeld
		}
		token = t
		return nil
	}, policy)
	if err != nil {
		s.logger.Warn("order lock not acquired", zap.String("order_id", orderID), zap.Error(err))
	}
	return token
}

// orderSnapshot loads every order a driver can see: all pending orders plus
// those already assigned to the driver.
func (s *MatchingService) orderSnapshot(ctx context.Context, driverID string) ([]*domain.Order, error) {
	var pending, assigned []*domain.Order

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pending, err = s.orderRepo.ListAll(gctx, repository.OrderFilter{Status: domain.OrderStatusPending})
		return err
	})
	g.Go(func() error {
		var err error
		assigned, err = s.orderRepo.ListAll(gctx, repository.OrderFilter{
			Status:         domain.OrderStatusAssigned,
			AssignedDriver: driverID,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return append(pending, assigned...), nil
}

func acceptanceOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeAccepted
	case errors.Is(err, ErrAlreadyAssigned):
		return metrics.OutcomeAlreadyAssigned
	case errors.Is(err, ErrNotEligible):
		return metrics.OutcomeNotEligible
	case errors.Is(err, ErrDriverNotFound):
		return metrics.OutcomeDriverNotFound
	case errors.Is(err, repository.ErrNotFound):
		return metrics.OutcomeOrderNotFound
	default:
		return metrics.OutcomeError
	}
}
