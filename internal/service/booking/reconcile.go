package booking

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"washbooking/internal/domain"
	"washbooking/internal/repository"
)

// ReconcilePayments retries the payment record for bookings whose
// best-effort insert failed at submission time. Returns how many bookings
// were brought back to RECORDED.
func (s *BookingService) ReconcilePayments(ctx context.Context, olderThan time.Time) (int, error) {
	pending, err := s.bookings.ListPaymentPendingBefore(ctx, olderThan)
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, b := range pending {
		if err := s.reconcileOne(ctx, &b); err != nil {
			s.logger.Warn("payment reconciliation failed",
				zap.String("booking_number", b.Number), zap.Error(err))
			continue
		}
		recovered++
	}
	return recovered, nil
}

func (s *BookingService) reconcileOne(ctx context.Context, b *domain.Booking) error {
	fee, earnings := domain.SplitAmount(b.TotalPrice, s.platformFeePct)
	p := &domain.Payment{
		BookingID:      b.ID,
		CustomerID:     b.CustomerID,
		WorkerID:       b.WorkerID,
		Amount:         b.TotalPrice,
		PlatformFee:    fee,
		WorkerEarnings: earnings,
		Method:         b.PaymentMethod,
		Status:         domain.PaymentStatusPending,
	}

	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.payments.Create(ctx, p); err != nil {
			// A row that showed up since the sweep started just needs the
			// booking flag fixed up.
			if errors.Is(err, repository.ErrPaymentExists) {
				return nil
			}
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.bookings.SetPaymentState(ctx, b.ID, domain.PaymentStateRecorded)
}
