package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingTentative BookingStatus = "tentative"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "pending"
	PaymentDepositPaid PaymentStatus = "deposit_paid"
	PaymentFull        PaymentStatus = "full_payment"
	PaymentRefunded    PaymentStatus = "refunded"
)

type CharterType string

const (
	CharterBareboat  CharterType = "bareboat"
	CharterSkippered CharterType = "skippered charter"
)

// DefaultCountry is applied when an address is supplied without a country.
const DefaultCountry = "United Kingdom"

// Document types that carry generated/downloaded/updated lifecycle timestamps.
const (
	DocContract                = "Contract"
	DocDepositInvoice          = "Deposit Invoice"
	DocDepositReceipt          = "Deposit Receipt"
	DocRemainingBalanceInvoice = "Remaining Balance Invoice"
	DocRemainingBalanceReceipt = "Remaining Balance Receipt"
	DocHandoverNotes           = "Hand-over Notes"
)

// DocumentTypes lists every known document type in a stable order.
var DocumentTypes = []string{
	DocContract,
	DocDepositInvoice,
	DocDepositReceipt,
	DocRemainingBalanceInvoice,
	DocRemainingBalanceReceipt,
	DocHandoverNotes,
}

// DocumentState is the per-document lifecycle flag bag supplied by the UI.
type DocumentState struct {
	Generated  bool `json:"generated"`
	Downloaded bool `json:"downloaded"`
	Updated    bool `json:"updated"`
}

// Booking is the typed projection of a stored booking. Record carries the
// full storage-shaped map; the named fields mirror the columns the service
// filters and exports on.
type Booking struct {
	ID            uuid.UUID       `json:"id"`
	Number        string          `json:"booking_number"`
	YachtID       string          `json:"yacht_id"`
	CharterType   CharterType     `json:"charter_type"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	Status        BookingStatus   `json:"booking_status"`
	Payment       PaymentStatus   `json:"payment_status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Record        map[string]any  `json:"record,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BookingView is the UI-facing decomposition produced by the schema mapper:
// camelCase form fields, the status boolean bag and the per-document states.
type BookingView struct {
	Form      map[string]any           `json:"formData"`
	Status    map[string]any           `json:"statusData"`
	Documents map[string]DocumentState `json:"documentStates"`
}
