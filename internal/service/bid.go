package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cargotma/internal/domain"
	"cargotma/internal/matching"
	"cargotma/internal/metrics"
	"cargotma/internal/repository"
)

// BidService handles driver price offers. It records bids only; choosing a
// winning bid is left to the customer.
type BidService struct {
	bidRepo   repository.BidRepository
	orderRepo repository.OrderRepository
	drivers   DriverProvider
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewBidService creates a new BidService. notifier may be nil.
func NewBidService(
	bidRepo repository.BidRepository,
	orderRepo repository.OrderRepository,
	drivers DriverProvider,
	notifier Notifier,
	m *metrics.Metrics,
	logger *zap.Logger,
) *BidService {
	return &BidService{
		bidRepo:   bidRepo,
		orderRepo: orderRepo,
		drivers:   drivers,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
	}
}

// PlaceBidRequest contains the parameters for placing a bid.
type PlaceBidRequest struct {
	OrderID  string
	DriverID string
	Amount   float64
}

// PlaceBid records a driver's offer on a pending order the driver could serve.
func (s *BidService) PlaceBid(ctx context.Context, req PlaceBidRequest) (*domain.Bid, error) {
	if req.OrderID == "" {
		return nil, ErrInvalidOrderID
	}
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidBidAmount
	}

	driver, err := s.drivers.GetDriver(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusPending {
		return nil, ErrOrderNotPending
	}
	if err := matching.CanServe(driver, order); err != nil {
		return nil, err
	}

	bid := &domain.Bid{
		ID:        uuid.New().String(),
		OrderID:   order.ID,
		DriverID:  driver.ID,
		Amount:    req.Amount,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.bidRepo.Create(ctx, bid); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrBidAlreadyPlaced
		}
		return nil, err
	}

	s.metrics.BidPlaced()

	if s.notifier != nil {
		if err := s.notifier.NotifyBidPlaced(ctx, order, bid); err != nil {
			s.logger.Warn("notify bid placed", zap.String("bid_id", bid.ID), zap.Error(err))
		}
	}

	return bid, nil
}

// ListBids returns bids for an order, a driver, or both.
func (s *BidService) ListBids(ctx context.Context, filter repository.BidFilter) ([]*domain.Bid, error) {
	return s.bidRepo.List(ctx, filter)
}
