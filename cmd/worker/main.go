package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"washbooking/config"
	"washbooking/internal/draft"
	"washbooking/internal/kafka"
	"washbooking/internal/notify"
	"washbooking/internal/repository"
	"washbooking/internal/service/booking"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	feePct, err := decimal.NewFromString(cfg.Booking.PlatformFeePercentage)
	if err != nil {
		logger.Fatal("parse platform fee percentage", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	// The worker never touches drafts or publishes events; it only repairs
	// payment records, so the service runs without cache and producer.
	bookingService := booking.NewBookingService(
		bookingRepo,
		paymentRepo,
		draft.NewMemoryStore(),
		nil,
		nil,
		"",
		0,
		feePct,
		logger,
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := notify.NewSender(logger)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logger.Warn("decode event error", zap.Error(err))
				return nil
			}
			return sender.Send(ctx, event)
		}); err != nil {
			logger.Warn("consumer stopped", zap.Error(err))
		}
	}()

	reconcileTicker := time.NewTicker(time.Duration(cfg.Worker.ReconcileSweepMinutes) * time.Minute)
	defer reconcileTicker.Stop()
	grace := time.Duration(cfg.Worker.ReconcileGraceMinutes) * time.Minute

	for {
		select {
		case <-reconcileTicker.C:
			recovered, err := bookingService.ReconcilePayments(ctx, time.Now().Add(-grace))
			if err != nil {
				logger.Warn("payment reconciliation error", zap.Error(err))
				continue
			}
			if recovered > 0 {
				logger.Info("reconciled payments", zap.Int("recovered", recovered))
			}
		case <-ctx.Done():
			logger.Info("shutting down worker")
			return
		}
	}
}
