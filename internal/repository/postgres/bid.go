package postgres

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"cargotma/internal/domain"
	"cargotma/internal/repository"
)

// BidRepository is a PostgreSQL implementation of repository.BidRepository.
type BidRepository struct {
	q Querier
}

// NewBidRepository creates a new PostgreSQL bid repository.
func NewBidRepository(db *sql.DB) *BidRepository {
	return &BidRepository{q: db}
}

// Create persists a new bid.
func (r *BidRepository) Create(ctx context.Context, bid *domain.Bid) error {
	query := `INSERT INTO bids (id, order_id, driver_id, amount, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.ExecContext(ctx, query, bid.ID, bid.OrderID, bid.DriverID, bid.Amount, bid.CreatedAt)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// List returns bids matching the filter, newest first.
func (r *BidRepository) List(ctx context.Context, filter repository.BidFilter) ([]*domain.Bid, error) {
	builder := qb.Select("id", "order_id", "driver_id", "amount", "created_at").From("bids")
	if filter.OrderID != "" {
		builder = builder.Where(sq.Eq{"order_id": filter.OrderID})
	}
	if filter.DriverID != "" {
		builder = builder.Where(sq.Eq{"driver_id": filter.DriverID})
	}

	query, args, err := builder.OrderBy("created_at DESC", "id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		var bid domain.Bid
		if err := rows.Scan(&bid.ID, &bid.OrderID, &bid.DriverID, &bid.Amount, &bid.CreatedAt); err != nil {
			return nil, err
		}
		bids = append(bids, &bid)
	}
	return bids, rows.Err()
}
