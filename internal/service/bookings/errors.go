package bookings

import (
	"errors"
	"fmt"
	"time"

	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/schema"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrNumberConflict  = errors.New("booking number conflict")
)

// ValidationError carries the structured result of schema.Validate for a
// record that failed it. Validation itself never fails; the service turns a
// failed result into this error so transports can render the field list.
type ValidationError struct {
	Result schema.Result
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("booking failed validation: %d field error(s)", len(e.Result.Errors))
}

// RateLimitedError reports a throttled creation attempt.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter)
}
