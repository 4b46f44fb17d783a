package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/munckapp/munck-backend/internal/domain"
)

// VehicleRepository implements domain.VehicleRepository using PostgreSQL
type VehicleRepository struct {
	pool *pgxpool.Pool
}

// NewVehicleRepository creates a new VehicleRepository
func NewVehicleRepository(pool *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{pool: pool}
}

const vehicleColumns = `id, plate, model, year, status, created_at, updated_at`

// uniqueViolation is the Postgres error code for duplicate keys
const uniqueViolation = "23505"

func scanVehicle(row pgx.Row) (*domain.Vehicle, error) {
	var (
		vehicle   domain.Vehicle
		year      pgtype.Int4
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(&vehicle.ID, &vehicle.Plate, &vehicle.Model, &year, &vehicle.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	vehicle.Year = pgInt4ToInt32Ptr(year)
	vehicle.CreatedAt = pgTimestamptzToTime(createdAt)
	vehicle.UpdatedAt = pgTimestamptzToTime(updatedAt)
	return &vehicle, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Create registers a new vehicle
func (r *VehicleRepository) Create(vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO vehicles (plate, model, year, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+vehicleColumns,
		vehicle.Plate, vehicle.Model, int32PtrToPgInt4(vehicle.Year), string(vehicle.Status),
	)
	created, err := scanVehicle(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrPlateTaken
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a vehicle by its ID
func (r *VehicleRepository) GetByID(id int32) (*domain.Vehicle, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
	vehicle, err := scanVehicle(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

// GetByPlate retrieves a vehicle by its normalized plate
func (r *VehicleRepository) GetByPlate(plate string) (*domain.Vehicle, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+vehicleColumns+` FROM vehicles WHERE plate = $1`, plate)
	vehicle, err := scanVehicle(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}
	return vehicle, nil
}

// GetAll retrieves all vehicles ordered by plate
func (r *VehicleRepository) GetAll() ([]*domain.Vehicle, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+vehicleColumns+` FROM vehicles ORDER BY plate`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, rows.Err()
}

// Update updates a vehicle. Plate changes propagate to service records and
// expenses through ON UPDATE CASCADE.
func (r *VehicleRepository) Update(vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE vehicles SET plate = $2, model = $3, year = $4, status = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+vehicleColumns,
		vehicle.ID, vehicle.Plate, vehicle.Model, int32PtrToPgInt4(vehicle.Year), string(vehicle.Status),
	)
	updated, err := scanVehicle(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrVehicleNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrPlateTaken
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a vehicle; its service records and expenses go with it
// through ON DELETE CASCADE.
func (r *VehicleRepository) Delete(id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}
