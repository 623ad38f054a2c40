package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
)

type Payment struct {
	ID         int64
	BookingID  int64
	CustomerID string
	WorkerID   string

	Amount         decimal.Decimal
	PlatformFee    decimal.Decimal
	WorkerEarnings decimal.Decimal

	Method PaymentMethod
	Status PaymentStatus

	CreatedAt time.Time
}

// SplitAmount computes the platform's cut and the worker's earnings for a
// booking amount. feePercentage is a percentage like 10 for 10%. Amounts are
// rounded to 2 places; the rounding delta stays with the worker so the two
// parts always sum to the full amount.
func SplitAmount(amount, feePercentage decimal.Decimal) (platformFee, workerEarnings decimal.Decimal) {
	platformFee = amount.Mul(feePercentage).Div(decimal.NewFromInt(100)).Round(2)
	workerEarnings = amount.Sub(platformFee)
	return platformFee, workerEarnings
}
