// Package admin covers operator corrections: sequence inspection and
// repair plus booking number validation and parsing.
package admin

import (
	"context"
	"fmt"

	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/bookingnum"
	postgresrepo "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/repository/postgres"
)

type Service struct {
	store *postgresrepo.Store
	gen   *bookingnum.Generator
}

func New(store *postgresrepo.Store, gen *bookingnum.Generator) *Service {
	return &Service{store: store, gen: gen}
}

// ListSequences returns every persisted counter.
func (s *Service) ListSequences(ctx context.Context) ([]postgresrepo.SequenceRow, error) {
	const op = "service.admin.ListSequences"

	rows, err := s.store.Sequences().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rows, nil
}

// SetSequence overwrites one counter unconditionally. Used to re-align a
// counter after manual database surgery; the write goes through the
// generator so any provider (Postgres, Redis, memory) picks it up.
func (s *Service) SetSequence(ctx context.Context, key string, value int64) error {
	const op = "service.admin.SetSequence"

	if value < 0 {
		return fmt.Errorf("%s: %w", op, ErrInvalidSequence)
	}

	if err := s.gen.SetSequence(ctx, key, value); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ResetSequences drops all counters.
func (s *Service) ResetSequences(ctx context.Context) error {
	const op = "service.admin.ResetSequences"

	if err := s.gen.ResetSequences(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GenerateNumbers pre-issues a batch of booking numbers, reserving them in
// the generator's collision set. Used when the office blocks out numbers for
// phone bookings ahead of data entry.
func (s *Service) GenerateNumbers(ctx context.Context, count int, yachtID string) ([]string, error) {
	const op = "service.admin.GenerateNumbers"

	if count < 1 || count > maxBatchSize {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidBatchSize)
	}

	numbers, err := s.gen.GenerateBatch(ctx, count, bookingnum.Options{YachtID: yachtID})
	if err != nil {
		return numbers, fmt.Errorf("%s: %w", op, err)
	}

	return numbers, nil
}

const maxBatchSize = 100

// ValidateNumber checks a booking number against a format pattern and the
// in-memory issued set.
func (s *Service) ValidateNumber(number string, format bookingnum.Format) bookingnum.Validation {
	return s.gen.Validate(number, format)
}

// ParseNumber decomposes a booking number, best effort.
func (s *Service) ParseNumber(number string) bookingnum.Components {
	return s.gen.Parse(number)
}
