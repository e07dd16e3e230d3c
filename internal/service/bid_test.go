package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargotma/internal/domain"
	"cargotma/internal/repository"
	"cargotma/internal/service"
)

func TestPlaceBid_Success(t *testing.T) {
	f := newFixture()
	f.drivers.AddDriver(testDriver("driver-x", "user-x"))
	f.orders.AddOrder(pendingOrder("O1", "A", "B", 100))

	bid, err := f.bidService.PlaceBid(context.Background(), service.PlaceBidRequest{
		OrderID:  "O1",
		DriverID: "driver-x",
		Amount:   90,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, bid.ID)
	assert.Equal(t, 90.0, bid.Amount)
	assert.Equal(t, []string{bid.ID}, f.notifier.Bids)
}

func TestPlaceBid_OncePerDriverPerOrder(t *testing.T) {
	f := newFixture()
	f.drivers.AddDriver(testDriver("driver-x", "user-x"))
	f.orders.AddOrder(pendingOrder("O1", "A", "B", 100))
	req := service.PlaceBidRequest{OrderID: "O1", DriverID: "driver-x", Amount: 90}

	_, err := f.bidService.PlaceBid(context.Background(), req)
	require.NoError(t, err)

	req.Amount = 80
	_, err = f.bidService.PlaceBid(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrBidAlreadyPlaced)
	assert.Equal(t, 1, f.bids.CountBids())
}

func TestPlaceBid_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		req     service.PlaceBidRequest
		wantErr error
	}{
		{"missing order", service.PlaceBidRequest{DriverID: "driver-x", Amount: 1}, service.ErrInvalidOrderID},
		{"missing driver", service.PlaceBidRequest{OrderID: "O1", Amount: 1}, service.ErrInvalidDriverID},
		{"zero amount", service.PlaceBidRequest{OrderID: "O1", DriverID: "driver-x"}, service.ErrInvalidBidAmount},
		{"unknown driver", service.PlaceBidRequest{OrderID: "O1", DriverID: "ghost", Amount: 1}, service.ErrDriverNotFound},
		{"unknown order", service.PlaceBidRequest{OrderID: "ghost", DriverID: "driver-x", Amount: 1}, repository.ErrNotFound},
		{"assigned order", service.PlaceBidRequest{OrderID: "taken", DriverID: "driver-x", Amount: 1}, service.ErrOrderNotPending},
		{"excluded route", service.PlaceBidRequest{OrderID: "excluded", DriverID: "driver-x", Amount: 1}, service.ErrNotEligible},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			d := testDriver("driver-x", "user-x")
			d.ExcludedDirections = []domain.Direction{{From: "X", To: "Y"}}
			f.drivers.AddDriver(d)
			f.orders.AddOrder(pendingOrder("O1", "A", "B", 100))
			f.orders.AddOrder(pendingOrder("excluded", "X", "Y", 100))
			taken := pendingOrder("taken", "A", "B", 100)
			taken.Status = domain.OrderStatusAssigned
			taken.AssignedDriver = "driver-y"
			f.orders.AddOrder(taken)

			_, err := f.bidService.PlaceBid(context.Background(), tc.req)

			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, 0, f.bids.CountBids())
		})
	}
}

func TestListBids(t *testing.T) {
	f := newFixture()
	f.drivers.AddDriver(testDriver("d1", "u1"))
	f.drivers.AddDriver(testDriver("d2", "u2"))
	f.orders.AddOrder(pendingOrder("O1", "A", "B", 100))
	f.orders.AddOrder(pendingOrder("O2", "A", "B", 100))
	ctx := context.Background()

	for _, req := range []service.PlaceBidRequest{
		{OrderID: "O1", DriverID: "d1", Amount: 10},
		{OrderID: "O1", DriverID: "d2", Amount: 20},
		{OrderID: "O2", DriverID: "d1", Amount: 30},
	} {
		_, err := f.bidService.PlaceBid(ctx, req)
		require.NoError(t, err)
	}

	byOrder, err := f.bidService.ListBids(ctx, repository.BidFilter{OrderID: "O1"})
	require.NoError(t, err)
	assert.Len(t, byOrder, 2)

	byDriver, err := f.bidService.ListBids(ctx, repository.BidFilter{DriverID: "d1"})
	require.NoError(t, err)
	assert.Len(t, byDriver, 2)

	all, err := f.bidService.ListBids(ctx, repository.BidFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
