package schema

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/domain"
	"github.com/shopspring/decimal"
)

// deriveBookingStatus computes the booking_status enum from the confirmed
// flag. Completed and cancelled are operator transitions applied outside the
// form save path, so the form-driven derivation only ever chooses between
// tentative and confirmed.
func deriveBookingStatus(record map[string]any) domain.BookingStatus {
	if isTrue(record["booking_confirmed"]) {
		return domain.BookingConfirmed
	}
	return domain.BookingTentative
}

// derivePaymentStatus computes the payment_status enum. Full payment wins
// when the balance is down to zero, or when both the deposit flag and the
// final receipt flag are set; a paid deposit outranks pending.
func derivePaymentStatus(record map[string]any) domain.PaymentStatus {
	if balance, ok := ToDecimal(record["balance_due"]); ok && balance.IsZero() {
		return domain.PaymentFull
	}
	if isTrue(record["deposit_paid"]) && isTrue(record["receipt_issued"]) {
		return domain.PaymentFull
	}
	if isTrue(record["deposit_paid"]) {
		return domain.PaymentDepositPaid
	}
	return domain.PaymentPending
}

func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

func containsDate(name string) bool {
	return strings.Contains(name, "Date")
}

// ToDecimal coerces the numeric shapes that survive a JSON round trip plus
// the decimal type the repository hands back.
func ToDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case float64:
		return decimal.NewFromFloat(t), true
	case float32:
		return decimal.NewFromFloat32(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		if strings.TrimSpace(t) == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(t)
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

// dateLayouts covers the shapes date fields arrive in: plain dates from the
// UI, RFC 3339 from the API, and Postgres timestamp text.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func ParseDateValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, strings.TrimSpace(t)); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

// formatDateValue renders any recognizable date as YYYY-MM-DD; unparseable
// values pass through untouched.
func formatDateValue(v any) any {
	if ts, ok := ParseDateValue(v); ok {
		return ts.Format("2006-01-02")
	}
	return v
}
