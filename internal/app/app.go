package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/bookingnum"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/config"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/postgres"
	redisx "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/redis"
	postgresrepo "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/repository/postgres"
	redisrepo "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/repository/redis"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/schema"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/service"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/service/bookings"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/service/calendar"
	httpgin "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	services   *service.Services
	pubsub     *redisx.BookingsPubSub
	cache      *redisrepo.Cache
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redisx.New(context.Background(), redisx.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisx.NewBookingsPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, redisx.KeyRateLimit("create"), 30, 1*time.Minute)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	// Counters default to Postgres so numbers survive restarts and stay
	// monotonic across instances; the Redis backend trades that durability
	// for not touching the primary on every draw.
	var provider bookingnum.SequenceProvider = store.Sequences()
	if cfg.Booking.SequenceBackend == "redis" {
		provider = redisrepo.NewSequenceCounter(rdb)
	}

	gen := bookingnum.New(bookingnum.Config{
		Format:         bookingnum.Format(cfg.Booking.NumberFormat),
		Prefix:         cfg.Booking.NumberPrefix,
		SequenceLength: cfg.Booking.SequenceLength,
		Provider:       provider,
	})

	mapper := schema.NewMapper()

	// Initialize services
	services := service.NewServices(store, cache, pubsub, limiter, gen, mapper, service.Config{
		Bookings: bookings.Config{},
		Calendar: calendar.Config{},
	})

	// Initialize Gin router
	router := httpgin.NewRouter(services, idempotencyStore, logger)

	return &App{
		cfg:      cfg,
		logger:   logger,
		services: services,
		pubsub:   pubsub,
		cache:    cache,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Seed the number generator's collision set before taking traffic.
	seeded, err := a.services.Bookings.Bootstrap(ctx)
	if err != nil {
		return fmt.Errorf("failed to bootstrap booking numbers: %w", err)
	}
	a.logger.Info("booking numbers registered", "count", seeded)

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Drop cached views when another instance mutates a booking.
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, bookingID string) {
			_ = a.cache.InvalidateBooking(ctx, bookingID)
		})
		if err != nil && gCtx.Err() == nil {
			return fmt.Errorf("bookings subscription stopped: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
