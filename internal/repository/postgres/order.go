package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"cargotma/internal/domain"
	"cargotma/internal/repository"
)

var orderColumns = []string{
	"id", "from_city", "to_city", "length_cm", "width_cm", "height_cm", "payment_amount",
	"status", "created_by", "assigned_driver", "chat_id", "created_at", "updated_at",
}

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, from_city, to_city, length_cm, width_cm, height_cm, payment_amount, status, created_by, assigned_driver, chat_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.q.ExecContext(ctx, query,
		order.ID,
		order.From,
		order.To,
		order.Dimensions.Length,
		order.Dimensions.Width,
		order.Dimensions.Height,
		order.PaymentAmount,
		order.Status,
		order.CreatedBy,
		nullString(order.AssignedDriver),
		nullString(order.ChatID),
		order.CreatedAt,
		order.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query, args, err := qb.Select(orderColumns...).From("orders").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(r.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// List returns orders matching the filter, newest first.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	return r.query(ctx, listQuery(filter).Limit(uint64(filter.EffectiveLimit())))
}

// ListAll returns every order matching the filter, newest first.
func (r *OrderRepository) ListAll(ctx context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	return r.query(ctx, listQuery(filter))
}

func listQuery(filter repository.OrderFilter) sq.SelectBuilder {
	builder := qb.Select(orderColumns...).From("orders")

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.CreatedBy != "" {
		builder = builder.Where(sq.Eq{"created_by": filter.CreatedBy})
	}
	if filter.AssignedDriver != "" {
		builder = builder.Where(sq.Eq{"assigned_driver": filter.AssignedDriver})
	}

	return builder.OrderBy("created_at DESC", "id")
}

func (r *OrderRepository) query(ctx context.Context, builder sq.SelectBuilder) ([]*domain.Order, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// CompareAndAssign assigns the order to driverID iff it is still in the expected status.
func (r *OrderRepository) CompareAndAssign(ctx context.Context, id string, expected domain.OrderStatus, driverID string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1, assigned_driver = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.q.ExecContext(ctx, query, domain.OrderStatusAssigned, driverID, time.Now().UTC(), id, expected)
	if err != nil {
		return false, err
	}

	return r.swapped(ctx, result, id)
}

// CompareAndSetStatus moves the order between statuses iff it is in `from` and assigned to driverID.
func (r *OrderRepository) CompareAndSetStatus(ctx context.Context, id, driverID string, from, to domain.OrderStatus) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4 AND assigned_driver = $5
	`

	result, err := r.q.ExecContext(ctx, query, to, time.Now().UTC(), id, from, driverID)
	if err != nil {
		return false, err
	}

	return r.swapped(ctx, result, id)
}

// UpdateChatID stores the chat linking customer and driver.
func (r *OrderRepository) UpdateChatID(ctx context.Context, id, chatID string) error {
	query := `UPDATE orders SET chat_id = $1, updated_at = $2 WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, nullString(chatID), time.Now().UTC(), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// swapped interprets the result of a conditional update. Zero affected rows
// means either the guard failed or the order does not exist.
func (r *OrderRepository) swapped(ctx context.Context, result sql.Result, id string) (bool, error) {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rowsAffected > 0 {
		return true, nil
	}

	var exists bool
	if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, repository.ErrNotFound
	}
	return false, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var assignedDriver sql.NullString
	var chatID sql.NullString

	err := row.Scan(
		&order.ID,
		&order.From,
		&order.To,
		&order.Dimensions.Length,
		&order.Dimensions.Width,
		&order.Dimensions.Height,
		&order.PaymentAmount,
		&order.Status,
		&order.CreatedBy,
		&assignedDriver,
		&chatID,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignedDriver.Valid {
		order.AssignedDriver = assignedDriver.String
	}
	if chatID.Valid {
		order.ChatID = chatID.String
	}
	return &order, nil
}
