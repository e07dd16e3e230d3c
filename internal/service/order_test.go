package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargotma/internal/domain"
	"cargotma/internal/repository"
	"cargotma/internal/service"
	"cargotma/internal/tests"
)

func validOrderRequest() service.CreateOrderRequest {
	return service.CreateOrderRequest{
		CustomerID:    "customer-1",
		From:          "Minsk",
		To:            "Moscow",
		Dimensions:    domain.Dimensions{Length: 120, Width: 80, Height: 60},
		PaymentAmount: 250,
	}
}

func TestCreateOrder_Success(t *testing.T) {
	f := newFixture()

	order, err := f.orderService.CreateOrder(context.Background(), validOrderRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Empty(t, order.AssignedDriver)
	assert.Equal(t, "customer-1", order.CreatedBy)
	assert.False(t, order.CreatedAt.IsZero())
	assert.NoError(t, order.Validate())
	assert.Equal(t, 1, f.orders.CountOrders())
}

func TestCreateOrder_ConvertsMetres(t *testing.T) {
	f := newFixture()
	req := validOrderRequest()
	req.Dimensions = domain.Dimensions{Length: 1.2, Width: 0.8, Height: 0.5}
	req.Unit = "m"

	order, err := f.orderService.CreateOrder(context.Background(), req)

	require.NoError(t, err)
	assert.InDelta(t, 120, order.Dimensions.Length, 1e-9)
	assert.InDelta(t, 80, order.Dimensions.Width, 1e-9)
	assert.InDelta(t, 50, order.Dimensions.Height, 1e-9)
}

func TestCreateOrder_Validation(t *testing.T) {
	cases := []struct {
		name    string
		modify  func(r *service.CreateOrderRequest)
		wantErr error
	}{
		{"missing customer", func(r *service.CreateOrderRequest) { r.CustomerID = " " }, service.ErrInvalidUserID},
		{"missing from", func(r *service.CreateOrderRequest) { r.From = "" }, service.ErrInvalidRoute},
		{"missing to", func(r *service.CreateOrderRequest) { r.To = "" }, service.ErrInvalidRoute},
		{"zero height", func(r *service.CreateOrderRequest) { r.Dimensions.Height = 0 }, service.ErrInvalidDimensions},
		{"negative length", func(r *service.CreateOrderRequest) { r.Dimensions.Length = -5 }, service.ErrInvalidDimensions},
		{"zero payment", func(r *service.CreateOrderRequest) { r.PaymentAmount = 0 }, service.ErrInvalidPaymentAmount},
		{"unknown unit", func(r *service.CreateOrderRequest) { r.Unit = "ft" }, service.ErrInvalidUnit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			req := validOrderRequest()
			tc.modify(&req)

			_, err := f.orderService.CreateOrder(context.Background(), req)

			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, 0, f.orders.CountOrders())
		})
	}
}

func TestCreateOrder_StorageError(t *testing.T) {
	f := newFixture()
	f.orders.CreateError = tests.ErrMockStorage

	_, err := f.orderService.CreateOrder(context.Background(), validOrderRequest())

	assert.ErrorIs(t, err, tests.ErrMockStorage)
}

func TestListOrders_Filters(t *testing.T) {
	f := newFixture()
	a := pendingOrder("a", "A", "B", 1)
	b := pendingOrder("b", "A", "B", 1)
	b.CreatedBy = "customer-2"
	f.orders.AddOrder(a)
	f.orders.AddOrder(b)

	got, err := f.orderService.ListOrders(context.Background(), repository.OrderFilter{CreatedBy: "customer-2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, orderIDs(got))

	_, err = f.orderService.ListOrders(context.Background(), repository.OrderFilter{Status: "lost"})
	assert.ErrorIs(t, err, service.ErrInvalidStatus)
}

func TestGetOrder(t *testing.T) {
	f := newFixture()
	f.orders.AddOrder(pendingOrder("O1", "A", "B", 1))

	got, err := f.orderService.GetOrder(context.Background(), "O1")
	require.NoError(t, err)
	assert.Equal(t, "O1", got.ID)

	_, err = f.orderService.GetOrder(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.orderService.GetOrder(context.Background(), "")
	assert.ErrorIs(t, err, service.ErrInvalidOrderID)
}

func TestAdvanceStatus_FullLifecycle(t *testing.T) {
	f := newFixture()
	f.drivers.AddDriver(testDriver("driver-x", "user-x"))
	f.orders.AddOrder(pendingOrder("O1", "A", "B", 100))
	ctx := context.Background()

	_, err := f.orderService.AdvanceStatus(ctx, "O1", "driver-x")
	require.ErrorIs(t, err, service.ErrInvalidStatusTransition, "pending orders advance only through acceptance")

	_, err = f.matchingService.AcceptOrder(ctx, "O1", "driver-x")
	require.NoError(t, err)

	order, err := f.orderService.AdvanceStatus(ctx, "O1", "driver-x")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusInProgress, order.Status)

	order, err = f.orderService.AdvanceStatus(ctx, "O1", "driver-x")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)

	_, err = f.orderService.AdvanceStatus(ctx, "O1", "driver-x")
	require.ErrorIs(t, err, service.ErrInvalidStatusTransition)

	stored := f.orders.GetOrder("O1")
	assert.Equal(t, domain.OrderStatusCompleted, stored.Status)
	assert.Equal(t, "driver-x", stored.AssignedDriver)
	assert.Equal(t, []domain.OrderStatus{domain.OrderStatusInProgress, domain.OrderStatusCompleted}, f.notifier.StatusChanges)
}

func TestAdvanceStatus_OnlyAssignedDriver(t *testing.T) {
	f := newFixture()
	o := pendingOrder("O1", "A", "B", 100)
	o.Status = domain.OrderStatusAssigned
	o.AssignedDriver = "driver-x"
	f.orders.AddOrder(o)

	_, err := f.orderService.AdvanceStatus(context.Background(), "O1", "driver-y")

	require.ErrorIs(t, err, service.ErrDriverNotAssigned)
	assert.Equal(t, domain.OrderStatusAssigned, f.orders.GetOrder("O1").Status)
}

func TestAttachChat(t *testing.T) {
	f := newFixture()
	f.orders.AddOrder(pendingOrder("O1", "A", "B", 100))

	order, err := f.orderService.AttachChat(context.Background(), "O1", "chat-42")
	require.NoError(t, err)
	assert.Equal(t, "chat-42", order.ChatID)

	_, err = f.orderService.AttachChat(context.Background(), "missing", "chat-42")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
