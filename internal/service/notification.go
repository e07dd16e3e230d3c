package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cargotma/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationOrderAccepted NotificationType = "ORDER_ACCEPTED"
	NotificationOrderStarted  NotificationType = "ORDER_STARTED"
	NotificationOrderDone     NotificationType = "ORDER_COMPLETED"
	NotificationBidPlaced     NotificationType = "BID_PLACED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string // user ID
	Title       string
	Message     string
	Data        map[string]any
	CreatedAt   time.Time
}

// Notifier delivers order events to the people involved.
type Notifier interface {
	NotifyOrderAccepted(ctx context.Context, order *domain.Order, driver *domain.Driver) error
	NotifyStatusChanged(ctx context.Context, order *domain.Order) error
	NotifyBidPlaced(ctx context.Context, order *domain.Order, bid *domain.Bid) error
}

// Ensure NotificationService implements Notifier.
var _ Notifier = (*NotificationService)(nil)

// NotificationService logs notifications with a contact link for each party.
// Delivery through the messenger happens outside this service.
type NotificationService struct {
	logger *zap.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(logger *zap.Logger) *NotificationService {
	return &NotificationService{logger: logger}
}

// ContactLink returns a messenger deep link for the user.
func ContactLink(userID string) string {
	return "tg://user?id=" + userID
}

// NotifyOrderAccepted tells the customer which driver took the order.
func (s *NotificationService) NotifyOrderAccepted(ctx context.Context, order *domain.Order, driver *domain.Driver) error {
	return s.send(ctx, Notification{
		Type:        NotificationOrderAccepted,
		RecipientID: order.CreatedBy,
		Title:       "Order Accepted",
		Message:     fmt.Sprintf("Your order %s -> %s was accepted by a driver", order.From, order.To),
		Data: map[string]any{
			"order_id":       order.ID,
			"driver_id":      driver.ID,
			"driver_contact": ContactLink(driver.UserID),
		},
		CreatedAt: time.Now(),
	})
}

// NotifyStatusChanged tells the customer the order moved along its lifecycle.
func (s *NotificationService) NotifyStatusChanged(ctx context.Context, order *domain.Order) error {
	n := Notification{
		RecipientID: order.CreatedBy,
		Data: map[string]any{
			"order_id":  order.ID,
			"driver_id": order.AssignedDriver,
			"status":    order.Status.String(),
		},
		CreatedAt: time.Now(),
	}

	switch order.Status {
	case domain.OrderStatusInProgress:
		n.Type = NotificationOrderStarted
		n.Title = "Delivery Started"
		n.Message = fmt.Sprintf("Your cargo %s -> %s is on its way", order.From, order.To)
	case domain.OrderStatusCompleted:
		n.Type = NotificationOrderDone
		n.Title = "Delivery Completed"
		n.Message = fmt.Sprintf("Your cargo %s -> %s was delivered", order.From, order.To)
	default:
		return nil
	}
	return s.send(ctx, n)
}

// NotifyBidPlaced tells the customer a driver made an offer.
func (s *NotificationService) NotifyBidPlaced(ctx context.Context, order *domain.Order, bid *domain.Bid) error {
	return s.send(ctx, Notification{
		Type:        NotificationBidPlaced,
		RecipientID: order.CreatedBy,
		Title:       "New Offer",
		Message:     fmt.Sprintf("A driver offered %.2f for your order %s -> %s", bid.Amount, order.From, order.To),
		Data: map[string]any{
			"order_id":  order.ID,
			"bid_id":    bid.ID,
			"driver_id": bid.DriverID,
			"amount":    bid.Amount,
		},
		CreatedAt: time.Now(),
	})
}

func (s *NotificationService) send(_ context.Context, n Notification) error {
	s.logger.Info("notification",
		zap.String("type", string(n.Type)),
		zap.String("recipient", n.RecipientID),
		zap.String("recipient_contact", ContactLink(n.RecipientID)),
		zap.String("title", n.Title),
		zap.String("message", n.Message),
		zap.Any("data", n.Data),
	)
	return nil
}
