// Package calendar exposes booking export and import as RFC 5545 feeds.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/domain"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/ics"
	redisx "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/redis"
	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/repository"
	postgresrepo "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/repository/postgres"
	redisrepo "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/repository/redis"
)

type Config struct {
	FeedTTL      time.Duration
	MaxFeedSize  int
	CalendarName string
	Organizer    string // "Name <email>" is not parsed; email only
}

type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.FeedTTL <= 0 {
		cfg.FeedTTL = 60 * time.Second
	}
	if cfg.MaxFeedSize <= 0 {
		cfg.MaxFeedSize = 1000
	}
	if cfg.CalendarName == "" {
		cfg.CalendarName = "Yacht Charter Bookings"
	}

	return &Service{store: store, cache: cache, cfg: cfg}
}

// ExportFeed renders every booking (optionally one yacht's) as a calendar
// download. The unfiltered feed is cached; mutation paths invalidate it.
func (s *Service) ExportFeed(ctx context.Context, yachtID string, includeAlarms bool) (ics.File, error) {
	const op = "service.calendar.ExportFeed"

	load := func(ctx context.Context) (ics.File, error) {
		bookings, err := s.store.Bookings().List(ctx, yachtID, s.cfg.MaxFeedSize, 0)
		if err != nil {
			return ics.File{}, err
		}

		return ics.GenerateFile(bookings, ics.FileOptions{
			IncludeAlarms: includeAlarms,
			Calendar: ics.CalendarInfo{
				Name:        s.cfg.CalendarName,
				Description: "Charter bookings exported from the dashboard",
			},
			Event: ics.EventOptions{
				OrganizerEmail: s.cfg.Organizer,
				AttendCustomer: true,
			},
		}), nil
	}

	// Only the common case — full feed, no alarms — is worth caching.
	if yachtID == "" && !includeAlarms {
		file, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisx.KeyCalendarFeed(), s.cfg.FeedTTL, load)
		if err != nil {
			return ics.File{}, fmt.Errorf("%s: %w", op, err)
		}
		return file, nil
	}

	file, err := load(ctx)
	if err != nil {
		return ics.File{}, fmt.Errorf("%s: %w", op, err)
	}

	return file, nil
}

// ExportBooking renders one booking as a single-event calendar file.
func (s *Service) ExportBooking(ctx context.Context, id uuid.UUID, includeAlarms bool) (ics.File, error) {
	const op = "service.calendar.ExportBooking"

	b, err := s.store.Bookings().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ics.File{}, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return ics.File{}, fmt.Errorf("%s: %w", op, err)
	}

	file := ics.GenerateFile([]domain.Booking{*b}, ics.FileOptions{
		Filename:      fmt.Sprintf("charter-%s.ics", b.Number),
		IncludeAlarms: includeAlarms,
		Calendar:      ics.CalendarInfo{Name: s.cfg.CalendarName},
		Event: ics.EventOptions{
			OrganizerEmail: s.cfg.Organizer,
			AttendCustomer: true,
		},
	})

	return file, nil
}

// ImportPreview parses third-party calendar text into partial bookings
// without persisting anything. Malformed events are skipped; the
// diagnostics list explains what was dropped.
func (s *Service) ImportPreview(icsText string) ([]domain.Booking, []string) {
	events, diagnostics := ics.ParseCalendar(icsText)

	bookings := make([]domain.Booking, 0, len(events))
	for _, ev := range events {
		bookings = append(bookings, ics.EventToBooking(ev))
	}

	return bookings, diagnostics
}

// ValidateFeed structurally checks calendar text.
func (s *Service) ValidateFeed(icsText string) ics.Report {
	return ics.Validate(icsText)
}
