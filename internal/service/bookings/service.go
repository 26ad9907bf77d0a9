package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/bookingnum"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/domain"
	redisx "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/redis"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/repository"
	postgresrepo "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/repository/postgres"
	redisrepo "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/repository/redis"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/schema"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/uow"
)

type Config struct {
	ViewTTL         time.Duration
	DefaultListPage int
	MaxListPage     int
}

type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	pubsub  *redisx.BookingsPubSub
	limiter *redisrepo.SlidingWindowLimiter
	gen     *bookingnum.Generator
	mapper  *schema.Mapper
	uow     *uow.UoW
	cfg     Config
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.BookingsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	gen *bookingnum.Generator,
	mapper *schema.Mapper,
	cfg Config,
) *Service {
	if cfg.ViewTTL <= 0 {
		cfg.ViewTTL = 60 * time.Second
	}
	if cfg.DefaultListPage <= 0 {
		cfg.DefaultListPage = 100
	}
	if cfg.MaxListPage <= 0 {
		cfg.MaxListPage = 500
	}

	return &Service{
		store:   store,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
		gen:     gen,
		mapper:  mapper,
		uow:     uow.NewUoW(store),
		cfg:     cfg,
	}
}

// Bootstrap seeds the number generator's collision set from every booking
// number already persisted. Called once at startup, before the HTTP server
// accepts traffic.
func (s *Service) Bootstrap(ctx context.Context) (int, error) {
	const op = "service.bookings.Bootstrap"

	numbers, err := s.store.Bookings().ListNumbers(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return s.gen.RegisterExisting(numbers), nil
}

// Create transforms form input into a storage record, validates it, assigns
// a booking number and persists the result in one transaction.
//
// Returns:
//   - *domain.Booking: the stored booking.
//   - error: ValidationError when the record fails schema validation.
//   - error: RateLimitedError when rlKey is over its creation budget.
//   - error: ErrNumberConflict when the number is taken by a concurrent writer.
func (s *Service) Create(
	ctx context.Context,
	form, status map[string]any,
	docs map[string]domain.DocumentState,
	rlKey string,
) (*domain.Booking, error) {
	const op = "service.bookings.Create"

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: %w", op, RateLimitedError{RetryAfter: retry})
		}
	}

	record := s.mapper.ToStorage(form, status, docs, nil)

	if vr := schema.Validate(record); !vr.Valid {
		return nil, fmt.Errorf("%s: %w", op, ValidationError{Result: vr})
	}

	number, _ := record["booking_number"].(string)
	if number == "" {
		yachtID, _ := record["yacht_id"].(string)
		n, err := s.gen.Generate(ctx, bookingnum.Options{YachtID: yachtID})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		number = n
		record["booking_number"] = number
	} else {
		s.gen.RegisterExisting([]string{number})
	}

	booking := recordToBooking(record)
	booking.Number = number

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Bookings().With(tx).Insert(ctx, &booking); err != nil {
			if errors.Is(err, repository.ErrNumberTaken) {
				return fmt.Errorf("%s: %w", op, ErrNumberConflict)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateBooking(ctx, booking.ID.String())
			_ = s.pubsub.PublishBookingChanged(ctx, booking.ID.String())
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// Update re-transforms form input against the stored record. Document
// timestamps already present on the stored record are write-once and carry
// through; the booking number never changes on update.
func (s *Service) Update(
	ctx context.Context,
	id uuid.UUID,
	form, status map[string]any,
	docs map[string]domain.DocumentState,
) (*domain.Booking, error) {
	const op = "service.bookings.Update"

	existing, err := s.store.Bookings().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	record := s.mapper.ToStorage(form, status, docs, existing.Record)
	record["booking_number"] = existing.Number

	if vr := schema.Validate(record); !vr.Valid {
		return nil, fmt.Errorf("%s: %w", op, ValidationError{Result: vr})
	}

	booking := recordToBooking(record)
	booking.ID = existing.ID
	booking.Number = existing.Number
	booking.CreatedAt = existing.CreatedAt

	err = s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Bookings().With(tx).Update(ctx, &booking); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateBooking(ctx, booking.ID.String())
			_ = s.pubsub.PublishBookingChanged(ctx, booking.ID.String())
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// Get returns the stored booking together with its UI-shaped view, loading
// the view through the cache.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, *domain.BookingView, error) {
	const op = "service.bookings.Get"

	booking, err := s.store.Bookings().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	view, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisx.KeyBookingView(id.String()),
		s.cfg.ViewTTL,
		func(ctx context.Context) (domain.BookingView, error) {
			return s.mapper.FromStorage(booking.Record), nil
		},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return booking, &view, nil
}

// GetByNumber resolves a booking by its human-readable number. The view is
// built directly rather than through the cache, which is keyed by id.
func (s *Service) GetByNumber(ctx context.Context, number string) (*domain.Booking, *domain.BookingView, error) {
	const op = "service.bookings.GetByNumber"

	booking, err := s.store.Bookings().GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	view := s.mapper.FromStorage(booking.Record)

	return booking, &view, nil
}

// List returns bookings ordered by start date, optionally filtered by yacht.
func (s *Service) List(ctx context.Context, yachtID string, limit, offset int) ([]domain.Booking, error) {
	const op = "service.bookings.List"

	if limit <= 0 {
		limit = s.cfg.DefaultListPage
	}
	if limit > s.cfg.MaxListPage {
		limit = s.cfg.MaxListPage
	}

	out, err := s.store.Bookings().List(ctx, yachtID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// recordToBooking projects the typed columns out of a storage record.
func recordToBooking(record map[string]any) domain.Booking {
	b := domain.Booking{Record: record}

	first, _ := record["customer_first_name"].(string)
	surname, _ := record["customer_surname"].(string)
	b.CustomerName = first
	if surname != "" {
		if b.CustomerName != "" {
			b.CustomerName += " "
		}
		b.CustomerName += surname
	}

	b.CustomerEmail, _ = record["customer_email"].(string)
	b.YachtID, _ = record["yacht_id"].(string)

	if ct, ok := record["charter_type"].(string); ok {
		b.CharterType = domain.CharterType(ct)
	}
	if bs, ok := record["booking_status"].(string); ok {
		b.Status = domain.BookingStatus(bs)
	}
	if ps, ok := record["payment_status"].(string); ok {
		b.Payment = domain.PaymentStatus(ps)
	}

	if start, ok := schema.ParseDateValue(record["start_date"]); ok {
		b.StartDate = start
	}
	if end, ok := schema.ParseDateValue(record["end_date"]); ok {
		b.EndDate = end
	}
	if total, ok := schema.ToDecimal(record["total_amount"]); ok {
		b.TotalAmount = total
	}

	return b
}
