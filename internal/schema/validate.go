package schema

import (
	"fmt"

	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/domain"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Result struct {
	Valid  bool         `json:"isValid"`
	Errors []FieldError `json:"errors"`
}

var requiredFields = []string{
	"customer_first_name",
	"customer_surname",
	"customer_email",
	"yacht_id",
	"start_date",
	"end_date",
}

var (
	charterTypes = map[string]bool{
		string(domain.CharterBareboat):  true,
		string(domain.CharterSkippered): true,
	}
	bookingStatuses = map[string]bool{
		string(domain.BookingTentative): true,
		string(domain.BookingConfirmed): true,
		string(domain.BookingCompleted): true,
		string(domain.BookingCancelled): true,
	}
	paymentStatuses = map[string]bool{
		string(domain.PaymentPending):     true,
		string(domain.PaymentDepositPaid): true,
		string(domain.PaymentFull):        true,
		string(domain.PaymentRefunded):    true,
	}
)

// Validate checks a storage-shaped record structurally. It accumulates every
// problem rather than stopping at the first, never panics, and reports enum
// membership only for fields that are actually present.
func Validate(record map[string]any) Result {
	var errs []FieldError

	for _, field := range requiredFields {
		if isBlank(record[field]) {
			errs = append(errs, FieldError{Field: field, Message: field + " is required"})
		}
	}

	start, startOK := ParseDateValue(record["start_date"])
	end, endOK := ParseDateValue(record["end_date"])
	if startOK && endOK && !start.Before(end) {
		errs = append(errs, FieldError{
			Field:   "start_date",
			Message: "start_date must be before end_date",
		})
	}

	errs = appendEnumError(errs, record, "charter_type", charterTypes)
	errs = appendEnumError(errs, record, "booking_status", bookingStatuses)
	errs = appendEnumError(errs, record, "payment_status", paymentStatuses)

	deposit, depositOK := ToDecimal(record["deposit_amount"])
	total, totalOK := ToDecimal(record["total_amount"])
	if depositOK && totalOK && deposit.GreaterThan(total) {
		errs = append(errs, FieldError{
			Field:   "deposit_amount",
			Message: "deposit_amount must not exceed total_amount",
		})
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

func appendEnumError(errs []FieldError, record map[string]any, field string, allowed map[string]bool) []FieldError {
	v, ok := record[field]
	if !ok || isBlank(v) {
		return errs
	}

	s, ok := v.(string)
	if !ok || !allowed[s] {
		return append(errs, FieldError{
			Field:   field,
			Message: fmt.Sprintf("%s has unknown value %v", field, v),
		})
	}
	return errs
}
