//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"cargotma/internal/domain"
	"cargotma/internal/repository"
	"cargotma/internal/repository/postgres"
)

type RepositoryTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *sql.DB

	orders  *postgres.OrderRepository
	drivers *postgres.DriverRepository
	bids    *postgres.BidRepository
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("cargo_tma"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sql.Open("postgres", dsn)
	s.Require().NoError(err)
	s.Require().NoError(db.PingContext(ctx))
	s.db = db

	s.Require().NoError(postgres.Migrate(ctx, db))
	// Second run is a no-op.
	s.Require().NoError(postgres.Migrate(ctx, db))

	s.orders = postgres.NewOrderRepository(db)
	s.drivers = postgres.NewDriverRepository(db)
	s.bids = postgres.NewBidRepository(db)
}

func (s *RepositoryTestSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *RepositoryTestSuite) SetupTest() {
	_, err := s.db.Exec("TRUNCATE TABLE bids, drivers, orders CASCADE")
	s.Require().NoError(err)
}

func (s *RepositoryTestSuite) newOrder(id string, pay float64, createdAt time.Time) *domain.Order {
	return &domain.Order{
		ID:            id,
		From:          "Minsk",
		To:            "Moscow",
		Dimensions:    domain.Dimensions{Length: 120.5, Width: 80, Height: 60},
		PaymentAmount: pay,
		Status:        domain.OrderStatusPending,
		CreatedBy:     "customer-1",
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func (s *RepositoryTestSuite) newDriver(id, userID string) *domain.Driver {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Driver{
		ID:                 id,
		UserID:             userID,
		PriorityDirections: []domain.Direction{{From: "Minsk", To: "Moscow"}},
		ExcludedDirections: []domain.Direction{{From: "Kazan", To: "Perm"}},
		CargoVolumes:       []domain.Dimensions{{Length: 300, Width: 200, Height: 200}, {Length: 100, Width: 100, Height: 100}},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func (s *RepositoryTestSuite) TestOrder_CreateAndGet() {
	ctx := context.Background()
	created := time.Now().UTC().Truncate(time.Microsecond)
	order := s.newOrder("o-1", 250, created)

	s.Require().NoError(s.orders.Create(ctx, order))
	s.ErrorIs(s.orders.Create(ctx, order), repository.ErrConflict)

	got, err := s.orders.GetByID(ctx, "o-1")
	s.Require().NoError(err)
	s.Equal(order.Dimensions, got.Dimensions)
	s.Equal(domain.OrderStatusPending, got.Status)
	s.Empty(got.AssignedDriver)
	s.Empty(got.ChatID)
	s.True(created.Equal(got.CreatedAt))

	_, err = s.orders.GetByID(ctx, "missing")
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *RepositoryTestSuite) TestOrder_ListFiltersAndOrder() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	s.Require().NoError(s.orders.Create(ctx, s.newOrder("old", 100, base.Add(-time.Hour))))
	s.Require().NoError(s.orders.Create(ctx, s.newOrder("new", 100, base)))
	s.Require().NoError(s.orders.Create(ctx, s.newOrder("tie-b", 100, base.Add(-time.Minute))))
	s.Require().NoError(s.orders.Create(ctx, s.newOrder("tie-a", 100, base.Add(-time.Minute))))
	other := s.newOrder("other", 100, base)
	other.CreatedBy = "customer-2"
	s.Require().NoError(s.orders.Create(ctx, other))

	all, err := s.orders.List(ctx, repository.OrderFilter{CreatedBy: "customer-1"})
	s.Require().NoError(err)
	s.Equal([]string{"new", "tie-a", "tie-b", "old"}, ids(all))

	limited, err := s.orders.List(ctx, repository.OrderFilter{Limit: 2})
	s.Require().NoError(err)
	s.Len(limited, 2)

	ok, err := s.orders.CompareAndAssign(ctx, "old", domain.OrderStatusPending, "d-1")
	s.Require().NoError(err)
	s.Require().True(ok)

	assigned, err := s.orders.List(ctx, repository.OrderFilter{Status: domain.OrderStatusAssigned, AssignedDriver: "d-1"})
	s.Require().NoError(err)
	s.Equal([]string{"old"}, ids(assigned))
}

func (s *RepositoryTestSuite) TestOrder_ListAllIgnoresLimit() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)
	total := repository.DefaultOrderLimit + 5
	for i := 0; i < total; i++ {
		s.Require().NoError(s.orders.Create(ctx, s.newOrder(fmt.Sprintf("o-%04d", i), 10, base.Add(time.Duration(i)*time.Second))))
	}

	capped, err := s.orders.List(ctx, repository.OrderFilter{Status: domain.OrderStatusPending})
	s.Require().NoError(err)
	s.Len(capped, repository.DefaultOrderLimit)

	all, err := s.orders.ListAll(ctx, repository.OrderFilter{Status: domain.OrderStatusPending, Limit: 1})
	s.Require().NoError(err)
	s.Len(all, total)
	s.Equal("o-0000", all[total-1].ID)
}

func (s *RepositoryTestSuite) TestOrder_CompareAndAssign() {
	ctx := context.Background()
	s.Require().NoError(s.orders.Create(ctx, s.newOrder("o-1", 250, time.Now().UTC())))

	ok, err := s.orders.CompareAndAssign(ctx, "o-1", domain.OrderStatusPending, "d-1")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.orders.CompareAndAssign(ctx, "o-1", domain.OrderStatusPending, "d-2")
	s.Require().NoError(err)
	s.False(ok)

	got, err := s.orders.GetByID(ctx, "o-1")
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusAssigned, got.Status)
	s.Equal("d-1", got.AssignedDriver)

	_, err = s.orders.CompareAndAssign(ctx, "missing", domain.OrderStatusPending, "d-1")
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *RepositoryTestSuite) TestOrder_ConcurrentAssignExactlyOneWins() {
	ctx := context.Background()
	s.Require().NoError(s.orders.Create(ctx, s.newOrder("contested", 250, time.Now().UTC())))

	const drivers = 16
	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < drivers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := s.orders.CompareAndAssign(ctx, "contested", domain.OrderStatusPending, fmt.Sprintf("d-%d", i))
			s.NoError(err)
			if ok {
				atomic.AddInt32(&wins, 1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), wins)
}

func (s *RepositoryTestSuite) TestOrder_CompareAndSetStatus() {
	ctx := context.Background()
	s.Require().NoError(s.orders.Create(ctx, s.newOrder("o-1", 250, time.Now().UTC())))
	ok, err := s.orders.CompareAndAssign(ctx, "o-1", domain.OrderStatusPending, "d-1")
	s.Require().NoError(err)
	s.Require().True(ok)

	ok, err = s.orders.CompareAndSetStatus(ctx, "o-1", "d-2", domain.OrderStatusAssigned, domain.OrderStatusInProgress)
	s.Require().NoError(err)
	s.False(ok, "only the assigned driver advances the order")

	ok, err = s.orders.CompareAndSetStatus(ctx, "o-1", "d-1", domain.OrderStatusAssigned, domain.OrderStatusInProgress)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.orders.CompareAndSetStatus(ctx, "o-1", "d-1", domain.OrderStatusAssigned, domain.OrderStatusInProgress)
	s.Require().NoError(err)
	s.False(ok, "stale source status")
}

func (s *RepositoryTestSuite) TestOrder_AssignedDriverConstraint() {
	ctx := context.Background()
	order := s.newOrder("bad", 100, time.Now().UTC())
	order.Status = domain.OrderStatusAssigned

	s.Error(s.orders.Create(ctx, order))
}

func (s *RepositoryTestSuite) TestOrder_UpdateChatID() {
	ctx := context.Background()
	s.Require().NoError(s.orders.Create(ctx, s.newOrder("o-1", 250, time.Now().UTC())))

	s.Require().NoError(s.orders.UpdateChatID(ctx, "o-1", "chat-9"))
	got, err := s.orders.GetByID(ctx, "o-1")
	s.Require().NoError(err)
	s.Equal("chat-9", got.ChatID)

	s.ErrorIs(s.orders.UpdateChatID(ctx, "missing", "chat-9"), repository.ErrNotFound)
}

func (s *RepositoryTestSuite) TestDriver_RoundTrip() {
	ctx := context.Background()
	driver := s.newDriver("d-1", "user-1")

	s.Require().NoError(s.drivers.Create(ctx, driver))
	s.ErrorIs(s.drivers.Create(ctx, s.newDriver("d-2", "user-1")), repository.ErrConflict)

	got, err := s.drivers.GetByUserID(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(driver.PriorityDirections, got.PriorityDirections)
	s.Equal(driver.ExcludedDirections, got.ExcludedDirections)
	s.Equal(driver.CargoVolumes, got.CargoVolumes)

	got.ExcludedDirections = nil
	got.CargoVolumes = []domain.Dimensions{{Length: 50, Width: 50, Height: 50}}
	s.Require().NoError(s.drivers.Update(ctx, got))

	updated, err := s.drivers.GetByID(ctx, "d-1")
	s.Require().NoError(err)
	s.Empty(updated.ExcludedDirections)
	s.Equal([]domain.Dimensions{{Length: 50, Width: 50, Height: 50}}, updated.CargoVolumes)

	all, err := s.drivers.GetAll(ctx)
	s.Require().NoError(err)
	s.Len(all, 1)

	_, err = s.drivers.GetByID(ctx, "missing")
	s.ErrorIs(err, repository.ErrNotFound)
	s.ErrorIs(s.drivers.Update(ctx, s.newDriver("missing", "user-9")), repository.ErrNotFound)
}

func (s *RepositoryTestSuite) TestBid_UniquePerDriverAndOrder() {
	ctx := context.Background()
	s.Require().NoError(s.orders.Create(ctx, s.newOrder("o-1", 250, time.Now().UTC())))
	s.Require().NoError(s.drivers.Create(ctx, s.newDriver("d-1", "user-1")))

	bid := &domain.Bid{ID: "b-1", OrderID: "o-1", DriverID: "d-1", Amount: 200, CreatedAt: time.Now().UTC()}
	s.Require().NoError(s.bids.Create(ctx, bid))

	dup := *bid
	dup.ID = "b-2"
	s.ErrorIs(s.bids.Create(ctx, &dup), repository.ErrConflict)

	byOrder, err := s.bids.List(ctx, repository.BidFilter{OrderID: "o-1"})
	s.Require().NoError(err)
	s.Len(byOrder, 1)

	none, err := s.bids.List(ctx, repository.BidFilter{DriverID: "d-2"})
	s.Require().NoError(err)
	s.Empty(none)
}

func ids(orders []*domain.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}
