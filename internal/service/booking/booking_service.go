package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"washbooking/internal/domain"
	"washbooking/internal/draft"
	"washbooking/internal/kafka"
	"washbooking/internal/repository"
)

var (
	ErrSubmissionInFlight = errors.New("submission already in progress for this draft")
	ErrInvalidTransition  = errors.New("invalid booking status transition")
)

// MissingFieldsError enumerates every required field the draft is missing at
// submission time. This is the last integrity check before the database is
// touched, independent of per-step validation.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

type BookingUseCase interface {
	Submit(ctx context.Context, input SubmitInput) (*domain.Booking, error)
	GetByNumber(ctx context.Context, number string) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error)
	ListByWorker(ctx context.Context, workerID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	ReconcilePayments(ctx context.Context, olderThan time.Time) (int, error)
}

type Cache interface {
	AcquireSubmitLock(ctx context.Context, draftID string, ttl time.Duration) (bool, error)
	ReleaseSubmitLock(ctx context.Context, draftID string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	payments           repository.PaymentRepository
	drafts             draft.Store
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	submitLockTTL      time.Duration
	platformFeePct     decimal.Decimal
	logger             *zap.Logger
}

type SubmitInput struct {
	DraftID        string `json:"draft_id"`
	IdempotencyKey string `json:"idempotency_key"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	payments repository.PaymentRepository,
	drafts draft.Store,
	cache Cache,
	producer Producer,
	bookingTopic string,
	submitLockTTL time.Duration,
	platformFeePct decimal.Decimal,
	logger *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:       bookings,
		payments:       payments,
		drafts:         drafts,
		cache:          cache,
		producer:       producer,
		bookingTopic:   bookingTopic,
		submitLockTTL:  submitLockTTL,
		platformFeePct: platformFeePct,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Submit turns the accumulated draft into a booking record plus a
// best-effort payment record. Booking creation is the success criterion: a
// payment failure is logged and left for reconciliation, never surfaced. The
// draft is reset only after the booking exists; any earlier failure leaves
// it untouched for a manual retry.
func (s *BookingService) Submit(ctx context.Context, input SubmitInput) (*domain.Booking, error) {
	d, err := s.drafts.Get(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}

	if missing := missingFields(d); len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}
	if !d.PaymentMethod.Enabled() {
		return nil, fmt.Errorf("payment method %q is not available yet", d.PaymentMethod)
	}

	key := input.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireSubmitLock(ctx, d.ID, s.submitLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrSubmissionInFlight
		}
		locked = true
		defer func() {
			if locked {
				_ = s.cache.ReleaseSubmitLock(ctx, d.ID)
			}
		}()
	}

	b := bookingFromDraft(d, key)
	if err := s.bookings.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicateSubmission) {
			existing, getErr := s.bookings.GetByIdempotencyKey(ctx, key)
			if getErr != nil {
				return nil, getErr
			}
			// The first attempt already went through; just finish the reset
			// it may not have reached.
			if delErr := s.drafts.Delete(ctx, d.ID); delErr != nil && !errors.Is(delErr, draft.ErrNotFound) {
				s.logger.Warn("failed to reset draft after duplicate submission", zap.Error(delErr))
			}
			return existing, nil
		}
		return nil, err
	}

	s.recordPayment(ctx, b)

	if err := s.publish(ctx, "booking_created", b); err != nil {
		s.logger.Warn("failed to publish booking_created event",
			zap.String("booking_number", b.Number), zap.Error(err))
	}

	if err := s.drafts.Delete(ctx, d.ID); err != nil {
		s.logger.Warn("failed to reset draft after submission",
			zap.String("draft_id", d.ID), zap.Error(err))
	}

	s.logger.Info("booking created",
		zap.String("booking_number", b.Number),
		zap.String("customer_id", b.CustomerID),
		zap.String("worker_id", b.WorkerID))
	return b, nil
}

func (s *BookingService) GetByNumber(ctx context.Context, number string) (*domain.Booking, error) {
	return s.bookings.GetByNumber(ctx, number)
}

func (s *BookingService) ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID)
}

func (s *BookingService) ListByWorker(ctx context.Context, workerID string) ([]domain.Booking, error) {
	return s.bookings.ListByWorker(ctx, workerID)
}

func (s *BookingService) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, "booking_status_changed", updated); err != nil {
		s.logger.Warn("failed to publish booking_status_changed event",
			zap.String("booking_number", updated.Number), zap.Error(err))
	}
	return updated, nil
}

func (s *BookingService) recordPayment(ctx context.Context, b *domain.Booking) {
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
	if err := s.payments.Create(ctx, p); err != nil {
		s.logger.Warn("payment record failed, booking kept",
			zap.String("booking_number", b.Number), zap.Error(err))
		return
	}
	if err := s.bookings.SetPaymentState(ctx, b.ID, domain.PaymentStateRecorded); err != nil {
		s.logger.Warn("failed to mark payment recorded",
			zap.String("booking_number", b.Number), zap.Error(err))
		return
	}
	b.PaymentState = domain.PaymentStateRecorded
}

func (s *BookingService) publish(ctx context.Context, eventType string, b *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:          eventType,
		BookingNumber: b.Number,
		CustomerID:    b.CustomerID,
		WorkerID:      b.WorkerID,
		ScheduledDate: b.ScheduledDate,
		ScheduledTime: b.ScheduledTime,
		Address:       b.Address,
		Status:        string(b.Status),
		TotalPrice:    b.TotalPrice,
		OccurredAt:    time.Now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, b.Number, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, b.Number, event)
	}
	return nil
}

func missingFields(d *domain.BookingDraft) []string {
	var missing []string
	if d.WorkerID == "" {
		missing = append(missing, "worker_id")
	}
	if d.ServiceID == "" {
		missing = append(missing, "service_id")
	}
	if d.Date == "" {
		missing = append(missing, "date")
	}
	if d.Time == "" {
		missing = append(missing, "time")
	}
	if d.Address == "" {
		missing = append(missing, "address")
	}
	if len(d.SelectedServices) == 0 {
		missing = append(missing, "selected_services")
	}
	return missing
}

func bookingFromDraft(d *domain.BookingDraft, idempotencyKey string) *domain.Booking {
	b := &domain.Booking{
		Number:              newBookingNumber(),
		CustomerID:          d.CustomerID,
		WorkerID:            d.WorkerID,
		ServiceID:           d.ServiceID,
		ScheduledDate:       d.Date,
		ScheduledTime:       d.Time,
		VehicleType:         d.VehicleType,
		VehicleMake:         d.VehicleMake,
		VehicleModel:        d.VehicleModel,
		VehicleYear:         d.VehicleYear,
		VehicleColor:        d.VehicleColor,
		LicensePlate:        d.LicensePlate,
		SelectedServices:    append([]string(nil), d.SelectedServices...),
		Address:             d.Address,
		BasePrice:           d.ServicesTotal,
		TotalPrice:          d.FinalPrice,
		PaymentMethod:       d.PaymentMethod,
		SpecialInstructions: d.SpecialInstructions,
		EstimatedDuration:   d.EstimatedDuration,
		IdempotencyKey:      idempotencyKey,
	}
	if d.Coordinates != nil {
		c := *d.Coordinates
		b.Coordinates = &c
	}
	return b
}

func newBookingNumber() string {
	return "WB-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

var _ BookingUseCase = (*BookingService)(nil)
