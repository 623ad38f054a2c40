package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"washbooking/internal/domain"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	// ErrDuplicateSubmission is returned when a booking with the same
	// idempotency key already exists. The caller should fetch and return
	// the original instead of treating this as a failure.
	ErrDuplicateSubmission = errors.New("booking already submitted")
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByNumber(ctx context.Context, number string) (*domain.Booking, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error)
	ListByWorker(ctx context.Context, workerID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	SetPaymentState(ctx context.Context, id int64, state domain.PaymentState) error
	ListPaymentPendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, booking_number, customer_id, worker_id, service_id, scheduled_date, scheduled_time,
	vehicle_type, vehicle_make, vehicle_model, vehicle_year, vehicle_color, license_plate,
	selected_services, address, latitude, longitude, base_price, total_price, payment_method,
	special_instructions, estimated_duration, status, payment_state, idempotency_key, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	var lat, lon *float64
	if b.Coordinates != nil {
		lat = &b.Coordinates.Latitude
		lon = &b.Coordinates.Longitude
	}

	b.Status = domain.BookingStatusPending
	b.PaymentState = domain.PaymentStatePending
	err := r.db.QueryRow(ctx, `INSERT INTO bookings
		(booking_number, customer_id, worker_id, service_id, scheduled_date, scheduled_time,
		 vehicle_type, vehicle_make, vehicle_model, vehicle_year, vehicle_color, license_plate,
		 selected_services, address, latitude, longitude, base_price, total_price, payment_method,
		 special_instructions, estimated_duration, status, payment_state, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		RETURNING id, created_at, updated_at`,
		b.Number, b.CustomerID, b.WorkerID, b.ServiceID, b.ScheduledDate, b.ScheduledTime,
		b.VehicleType, b.VehicleMake, b.VehicleModel, b.VehicleYear, b.VehicleColor, b.LicensePlate,
		b.SelectedServices, b.Address, lat, lon, b.BasePrice, b.TotalPrice, b.PaymentMethod,
		b.SpecialInstructions, b.EstimatedDuration, b.Status, b.PaymentState, b.IdempotencyKey).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: key %s", ErrDuplicateSubmission, b.IdempotencyKey)
		}
		return err
	}
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	return scanBooking(row)
}

func (r *PGBookingRepository) GetByNumber(ctx context.Context, number string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_number=$1`, number)
	return scanBooking(row)
}

func (r *PGBookingRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE idempotency_key=$1`, key)
	return scanBooking(row)
}

func (r *PGBookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

func (r *PGBookingRepository) ListByWorker(ctx context.Context, workerID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE worker_id=$1 ORDER BY scheduled_date, scheduled_time`, workerID)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 RETURNING `+bookingColumns, status, id)
	return scanBooking(row)
}

func (r *PGBookingRepository) SetPaymentState(ctx context.Context, id int64, state domain.PaymentState) error {
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET payment_state=$1, updated_at=now() WHERE id=$2`, state, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// ListPaymentPendingBefore returns bookings created before deadline whose
// payment record never made it in, for the reconciliation sweep.
func (r *PGBookingRepository) ListPaymentPendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE payment_state=$1 AND created_at <= $2 ORDER BY created_at`, domain.PaymentStatePending, deadline)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var lat, lon *float64
	err := row.Scan(&b.ID, &b.Number, &b.CustomerID, &b.WorkerID, &b.ServiceID, &b.ScheduledDate, &b.ScheduledTime,
		&b.VehicleType, &b.VehicleMake, &b.VehicleModel, &b.VehicleYear, &b.VehicleColor, &b.LicensePlate,
		&b.SelectedServices, &b.Address, &lat, &lon, &b.BasePrice, &b.TotalPrice, &b.PaymentMethod,
		&b.SpecialInstructions, &b.EstimatedDuration, &b.Status, &b.PaymentState, &b.IdempotencyKey, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if lat != nil && lon != nil {
		b.Coordinates = &domain.Coordinates{Latitude: *lat, Longitude: *lon}
	}
	return &b, nil
}

func scanBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
