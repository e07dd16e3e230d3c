package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"cargotma/internal/domain"
	"cargotma/internal/repository"
)

var driverColumns = []string{
	"id", "user_id", "priority_directions", "excluded_directions", "cargo_volumes", "created_at", "updated_at",
}

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	priority, excluded, volumes, err := encodeDriver(driver)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO drivers (id, user_id, priority_directions, excluded_directions, cargo_volumes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.q.ExecContext(ctx, query,
		driver.ID, driver.UserID, priority, excluded, volumes, driver.CreatedAt, driver.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

// GetByUserID retrieves the driver profile owned by a user.
func (r *DriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	return r.getOne(ctx, sq.Eq{"user_id": userID})
}

// GetAll retrieves all drivers.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	query, args, err := qb.Select(driverColumns...).From("drivers").OrderBy("created_at DESC", "id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}
	return drivers, rows.Err()
}

// Update replaces the driver's directions and cargo volumes.
func (r *DriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	priority, excluded, volumes, err := encodeDriver(driver)
	if err != nil {
		return err
	}

	query := `
		UPDATE drivers
		SET priority_directions = $1, excluded_directions = $2, cargo_volumes = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := r.q.ExecContext(ctx, query, priority, excluded, volumes, driver.UpdatedAt, driver.ID)
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

func (r *DriverRepository) getOne(ctx context.Context, where sq.Eq) (*domain.Driver, error) {
	query, args, err := qb.Select(driverColumns...).From("drivers").Where(where).ToSql()
	if err != nil {
		return nil, err
	}

	driver, err := scanDriver(r.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return driver, nil
}

// encodeDriver returns the JSONB columns as strings: lib/pq sends []byte
// parameters as bytea, which jsonb rejects.
func encodeDriver(driver *domain.Driver) (priority, excluded, volumes string, err error) {
	p, err := marshalDirections(driver.PriorityDirections)
	if err != nil {
		return "", "", "", fmt.Errorf("encode priority directions: %w", err)
	}
	e, err := marshalDirections(driver.ExcludedDirections)
	if err != nil {
		return "", "", "", fmt.Errorf("encode excluded directions: %w", err)
	}
	v, err := marshalVolumes(driver.CargoVolumes)
	if err != nil {
		return "", "", "", fmt.Errorf("encode cargo volumes: %w", err)
	}
	return string(p), string(e), string(v), nil
}

func scanDriver(row rowScanner) (*domain.Driver, error) {
	var driver domain.Driver
	var priority, excluded, volumes []byte

	if err := row.Scan(
		&driver.ID,
		&driver.UserID,
		&priority,
		&excluded,
		&volumes,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if driver.PriorityDirections, err = unmarshalDirections(priority); err != nil {
		return nil, fmt.Errorf("decode priority directions: %w", err)
	}
	if driver.ExcludedDirections, err = unmarshalDirections(excluded); err != nil {
		return nil, fmt.Errorf("decode excluded directions: %w", err)
	}
	if driver.CargoVolumes, err = unmarshalVolumes(volumes); err != nil {
		return nil, fmt.Errorf("decode cargo volumes: %w", err)
	}
	return &driver, nil
}
