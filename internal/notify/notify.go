package notify

import (
	"context"

	"go.uber.org/zap"

	"washbooking/internal/kafka"
)

// Sender delivers booking notifications to customers and workers. The
// delivery channel is a stub for now; events are logged so the pipeline can
// be observed end to end.
type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.logger.Info("booking notification",
		zap.String("type", event.Type),
		zap.String("booking_number", event.BookingNumber),
		zap.String("customer_id", event.CustomerID),
		zap.String("worker_id", event.WorkerID),
		zap.String("scheduled", event.ScheduledDate+" "+event.ScheduledTime),
		zap.String("status", event.Status),
	)
	return nil
}
