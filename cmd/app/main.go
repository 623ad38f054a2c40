package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"washbooking/config"
	"washbooking/internal/bootstrap"
	"washbooking/internal/cache"
	"washbooking/internal/draft"
	"washbooking/internal/geocode"
	"washbooking/internal/kafka"
	"washbooking/internal/repository"
	"washbooking/internal/service/booking"
	"washbooking/internal/service/catalog"
	"washbooking/internal/service/wizard"
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

	if err := repository.RunMigrations(ctx, pool); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.CatalogCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	drafts := draft.NewMemoryStore()
	serviceRepo := repository.NewServiceRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	catalogService := catalog.NewCatalogService(serviceRepo, redisCache, logger)
	wizardService := wizard.NewWizardService(drafts, catalogService, logger)
	bookingService := booking.NewBookingService(
		bookingRepo,
		paymentRepo,
		drafts,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.SubmitLockTTLSeconds)*time.Second,
		feePct,
		logger,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	geocoder := geocode.NewClient(cfg.Geocode.BaseURL, time.Duration(cfg.Geocode.TimeoutSeconds)*time.Second)

	g, ctx := errgroup.WithContext(ctx)

	// Stale drafts belong to this process: the store is in memory, so the
	// sweep runs here rather than in the worker binary.
	g.Go(func() error {
		ticker := time.NewTicker(time.Duration(cfg.Worker.DraftSweepMinutes) * time.Minute)
		defer ticker.Stop()
		draftTTL := time.Duration(cfg.Booking.DraftTTLMinutes) * time.Minute
		for {
			select {
			case <-ticker.C:
				removed, err := drafts.ExpireStaleBefore(ctx, time.Now().Add(-draftTTL))
				if err != nil {
					logger.Warn("draft sweep error", zap.Error(err))
					continue
				}
				if removed > 0 {
					logger.Info("swept stale drafts", zap.Int("removed", removed))
				}
			case <-ctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		logger.Info("starting washbooking server", zap.String("addr", cfg.HTTP.Address))
		return bootstrap.Run(ctx, cfg, bootstrap.Handlers{
			Wizard:   wizardService,
			Bookings: bookingService,
			Catalog:  catalogService,
			Geocoder: geocoder,
		})
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped gracefully")
}
