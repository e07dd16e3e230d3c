package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"cargotma/internal/domain"
	"cargotma/internal/service"
)

func TestNotificationService_LogsContactLinks(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := service.NewNotificationService(zap.New(core))

	order := pendingOrder("O1", "Minsk", "Moscow", 100)
	order.Status = domain.OrderStatusAssigned
	order.AssignedDriver = "driver-x"
	driver := testDriver("driver-x", "42")

	require.NoError(t, svc.NotifyOrderAccepted(context.Background(), order, driver))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "ORDER_ACCEPTED", fields["type"])
	assert.Equal(t, "customer-1", fields["recipient"])
	assert.Equal(t, "tg://user?id=customer-1", fields["recipient_contact"])
}

func TestNotificationService_StatusChanges(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := service.NewNotificationService(zap.New(core))
	order := pendingOrder("O1", "Minsk", "Moscow", 100)
	ctx := context.Background()

	order.Status = domain.OrderStatusAssigned
	require.NoError(t, svc.NotifyStatusChanged(ctx, order))
	assert.Equal(t, 0, logs.Len(), "assignment is announced by NotifyOrderAccepted")

	order.Status = domain.OrderStatusInProgress
	require.NoError(t, svc.NotifyStatusChanged(ctx, order))
	order.Status = domain.OrderStatusCompleted
	require.NoError(t, svc.NotifyStatusChanged(ctx, order))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "ORDER_STARTED", entries[0].ContextMap()["type"])
	assert.Equal(t, "ORDER_COMPLETED", entries[1].ContextMap()["type"])
}

func TestContactLink(t *testing.T) {
	assert.Equal(t, "tg://user?id=123", service.ContactLink("123"))
}
