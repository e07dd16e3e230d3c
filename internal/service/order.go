package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cargotma/internal/domain"
	"cargotma/internal/metrics"
	"cargotma/internal/repository"
)

// OrderService handles order operations.
type OrderService struct {
	orderRepo repository.OrderRepository
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService. notifier may be nil.
func NewOrderService(
	orderRepo repository.OrderRepository,
	notifier Notifier,
	m *metrics.Metrics,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
	}
}

// CreateOrderRequest contains the parameters for creating an order.
// Dimensions are expressed in Unit; an empty unit means centimetres.
type CreateOrderRequest struct {
	CustomerID    string
	From          string
	To            string
	Dimensions    domain.Dimensions
	Unit          string
	PaymentAmount float64
}

// CreateOrder validates and stores a new pending order.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	customerID := strings.TrimSpace(req.CustomerID)
	if customerID == "" {
		return nil, ErrInvalidUserID
	}

	from, to := strings.TrimSpace(req.From), strings.TrimSpace(req.To)
	if from == "" || to == "" {
		return nil, ErrInvalidRoute
	}

	unit, ok := domain.ParseUnit(req.Unit)
	if !ok {
		return nil, ErrInvalidUnit
	}
	if !req.Dimensions.IsPositive() {
		return nil, ErrInvalidDimensions
	}
	if req.PaymentAmount <= 0 {
		return nil, ErrInvalidPaymentAmount
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:            uuid.New().String(),
		From:          from,
		To:            to,
		Dimensions:    req.Dimensions.ToCentimetres(unit),
		PaymentAmount: req.PaymentAmount,
		Status:        domain.OrderStatusPending,
		CreatedBy:     customerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.metrics.OrderCreated()
	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("route", order.Route().Key()),
		zap.Float64("payment", order.PaymentAmount),
		zap.Float64("volume_cm3", order.Dimensions.Volume()),
	)

	return order, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	return s.orderRepo.GetByID(ctx, orderID)
}

// ListOrders returns orders matching the filter, newest first.
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return s.orderRepo.List(ctx, filter)
}

// AdvanceStatus moves an order to its next status. Only the assigned driver
// may do so: assigned -> in_progress -> completed.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID, driverID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == domain.OrderStatusPending {
		return nil, ErrInvalidStatusTransition
	}
	if order.AssignedDriver != driverID {
		return nil, ErrDriverNotAssigned
	}

	next, ok := order.Status.Next()
	if !ok {
		return nil, ErrInvalidStatusTransition
	}

	swapped, err := s.orderRepo.CompareAndSetStatus(ctx, orderID, driverID, order.Status, next)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, ErrInvalidStatusTransition
	}

	order.Status = next
	order.UpdatedAt = time.Now().UTC()

	s.metrics.StatusAdvanced(next.String())
	s.logger.Info("order status advanced",
		zap.String("order_id", orderID),
		zap.String("driver_id", driverID),
		zap.String("status", next.String()),
	)

	if s.notifier != nil {
		if err := s.notifier.NotifyStatusChanged(ctx, order); err != nil {
			s.logger.Warn("notify status changed", zap.String("order_id", orderID), zap.Error(err))
		}
	}

	return order, nil
}

// AttachChat records the chat linking the order's customer and driver.
func (s *OrderService) AttachChat(ctx context.Context, orderID, chatID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	if err := s.orderRepo.UpdateChatID(ctx, orderID, strings.TrimSpace(chatID)); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(ctx, orderID)
}
