package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// CanTransitionTo enforces the worker dashboard lifecycle: forward only,
// cancellable until the job is finished, terminal states stay terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusInProgress || next == BookingStatusCancelled
	case BookingStatusInProgress:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	}
	return false
}

// PaymentState tracks whether the best-effort payment record made it to the
// database. PENDING bookings are picked up by the reconciliation sweep.
type PaymentState string

const (
	PaymentStatePending  PaymentState = "PENDING"
	PaymentStateRecorded PaymentState = "RECORDED"
)

type Booking struct {
	ID     int64
	Number string

	CustomerID string
	WorkerID   string
	ServiceID  string

	ScheduledDate string
	ScheduledTime string

	VehicleType  VehicleType
	VehicleMake  string
	VehicleModel string
	VehicleYear  int
	VehicleColor string
	LicensePlate string

	SelectedServices []string

	Address     string
	Coordinates *Coordinates

	BasePrice  decimal.Decimal
	TotalPrice decimal.Decimal

	PaymentMethod       PaymentMethod
	SpecialInstructions string
	EstimatedDuration   int

	Status       BookingStatus
	PaymentState PaymentState

	IdempotencyKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}
