package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"washbooking/internal/domain"
)

type ServiceRepository interface {
	List(ctx context.Context) ([]domain.ServiceItem, error)
	ListForVehicle(ctx context.Context, vehicleType domain.VehicleType) ([]domain.ServiceItem, error)
}

type PGServiceRepository struct {
	db *pgxpool.Pool
}

func NewServiceRepository(db *pgxpool.Pool) ServiceRepository {
	return &PGServiceRepository{db: db}
}

func (r *PGServiceRepository) List(ctx context.Context) ([]domain.ServiceItem, error) {
	rows, err := r.db.Query(ctx, `SELECT key, name, description, base_price, duration_minutes, active, created_at, updated_at
		FROM services WHERE active ORDER BY base_price`)
	if err != nil {
		return nil, err
	}
	return scanServices(rows)
}

// ListForVehicle returns active services priced for the given vehicle type,
// falling back to the base price where no override exists.
func (r *PGServiceRepository) ListForVehicle(ctx context.Context, vehicleType domain.VehicleType) ([]domain.ServiceItem, error) {
	rows, err := r.db.Query(ctx, `SELECT s.key, s.name, s.description,
			COALESCE(v.price, s.base_price) AS price,
			s.duration_minutes, s.active, s.created_at, s.updated_at
		FROM services s
		LEFT JOIN service_vehicle_prices v ON v.service_key = s.key AND v.vehicle_type = $1
		WHERE s.active ORDER BY price`, vehicleType)
	if err != nil {
		return nil, err
	}
	return scanServices(rows)
}

func scanServices(rows pgx.Rows) ([]domain.ServiceItem, error) {
	defer rows.Close()

	items := make([]domain.ServiceItem, 0)
	for rows.Next() {
		var it domain.ServiceItem
		if err := rows.Scan(&it.Key, &it.Name, &it.Description, &it.Price, &it.DurationMinutes, &it.Active, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

var _ ServiceRepository = (*PGServiceRepository)(nil)
