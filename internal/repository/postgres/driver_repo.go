package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/munckapp/munck-backend/internal/domain"
)

// DriverRepository implements domain.DriverRepository using PostgreSQL
type DriverRepository struct {
	pool *pgxpool.Pool
}

// NewDriverRepository creates a new DriverRepository
func NewDriverRepository(pool *pgxpool.Pool) *DriverRepository {
	return &DriverRepository{pool: pool}
}

const driverColumns = `id, name, commission_percent, discounts, created_at, updated_at`

func scanDriver(row pgx.Row) (*domain.Driver, error) {
	var (
		driver            domain.Driver
		commissionPercent pgtype.Numeric
		discounts         pgtype.Numeric
		createdAt         pgtype.Timestamptz
		updatedAt         pgtype.Timestamptz
	)
	err := row.Scan(&driver.ID, &driver.Name, &commissionPercent, &discounts, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	driver.CommissionPercent = pgNumericToDecimal(commissionPercent)
	driver.Discounts = pgNumericToDecimal(discounts)
	driver.CreatedAt = pgTimestamptzToTime(createdAt)
	driver.UpdatedAt = pgTimestamptzToTime(updatedAt)
	return &driver, nil
}

// Create registers a new driver
func (r *DriverRepository) Create(driver *domain.Driver) (*domain.Driver, error) {
	commissionPercent, err := decimalToPgNumeric(driver.CommissionPercent)
	if err != nil {
		return nil, fmt.Errorf("invalid commission percent: %w", err)
	}
	discounts, err := decimalToPgNumeric(driver.Discounts)
	if err != nil {
		return nil, fmt.Errorf("invalid discounts: %w", err)
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO drivers (name, commission_percent, discounts)
		VALUES ($1, $2, $3)
		RETURNING `+driverColumns,
		driver.Name, commissionPercent, discounts,
	)
	return scanDriver(row)
}

// GetByID retrieves a driver by their ID
func (r *DriverRepository) GetByID(id int32) (*domain.Driver, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+driverColumns+` FROM drivers WHERE id = $1`, id)
	driver, err := scanDriver(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDriverNotFound
		}
		return nil, err
	}
	return driver, nil
}

// GetAll retrieves all drivers ordered by name
func (r *DriverRepository) GetAll() ([]*domain.Driver, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+driverColumns+` FROM drivers ORDER BY name`)
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

// Update updates a driver
func (r *DriverRepository) Update(driver *domain.Driver) (*domain.Driver, error) {
	commissionPercent, err := decimalToPgNumeric(driver.CommissionPercent)
	if err != nil {
		return nil, fmt.Errorf("invalid commission percent: %w", err)
	}
	discounts, err := decimalToPgNumeric(driver.Discounts)
	if err != nil {
		return nil, fmt.Errorf("invalid discounts: %w", err)
	}

	row := r.pool.QueryRow(context.Background(), `
		UPDATE drivers SET name = $2, commission_percent = $3, discounts = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+driverColumns,
		driver.ID, driver.Name, commissionPercent, discounts,
	)
	updated, err := scanDriver(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDriverNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a driver
func (r *DriverRepository) Delete(id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDriverNotFound
	}
	return nil
}
