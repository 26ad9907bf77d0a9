package schema

import "github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/domain"

// formFields is the allow-list mapping UI form keys to storage columns.
// Keys absent from this table are dropped on the way in; the mapper's drop
// hook surfaces them during testing. Address and crew-experience-file data
// travel as nested objects and are decomposed separately, so their scalar
// columns have no entry here.
var formFields = map[string]string{
	"firstName":           "customer_first_name",
	"surname":             "customer_surname",
	"email":               "customer_email",
	"phone":               "customer_phone",
	"yacht":               "yacht_id",
	"bookingNumber":       "booking_number",
	"charterType":         "charter_type",
	"startDate":           "start_date",
	"endDate":             "end_date",
	"portOfDeparture":     "port_of_departure",
	"portOfArrival":       "port_of_arrival",
	"baseRate":            "base_rate",
	"totalAmount":         "total_amount",
	"depositAmount":       "deposit_amount",
	"balanceDue":          "balance_due",
	"specialRequirements": "special_requirements",
	"notes":               "notes",
}

// statusFields maps the flat status boolean bag. These columns route back
// into statusData on the way out. Routing is done by dictionary membership:
// the historical rule was "camel name starts with booking/deposit/contract/
// receipt", but that misfiles form fields sharing a prefix (bookingNumber,
// depositAmount), so membership is authoritative and the prefix rule is
// checked as a property in tests.
var statusFields = map[string]string{
	"bookingConfirmed":   "booking_confirmed",
	"depositPaid":        "deposit_paid",
	"finalPaymentPaid":   "final_payment_paid",
	"contractSent":       "contract_sent",
	"contractSigned":     "contract_signed",
	"depositInvoiceSent": "deposit_invoice_sent",
	"receiptIssued":      "receipt_issued",
}

// statusPrefixes documents the historical routing rule; the package tests
// assert that dictionary-membership routing and the prefix rule agree for
// every status flag except finalPaymentPaid.
var statusPrefixes = []string{"booking", "deposit", "contract", "receipt"}

const (
	fieldFileName = "crew_experience_file_name"
	fieldFileURL  = "crew_experience_file_url"
	fieldFileSize = "crew_experience_file_size"

	fieldStreet   = "customer_street"
	fieldCity     = "customer_city"
	fieldPostcode = "customer_postcode"
	fieldCountry  = "customer_country"
)

// docTimestamps names the write-once lifecycle columns per document type.
type docTimestamps struct {
	Generated  string
	Downloaded string
	Updated    string
}

var docFields = map[string]docTimestamps{
	domain.DocContract: {
		Generated:  "contract_generated_at",
		Downloaded: "contract_downloaded_at",
		Updated:    "contract_updated_at",
	},
	domain.DocDepositInvoice: {
		Generated:  "deposit_invoice_generated_at",
		Downloaded: "deposit_invoice_downloaded_at",
		Updated:    "deposit_invoice_updated_at",
	},
	domain.DocDepositReceipt: {
		Generated:  "deposit_receipt_generated_at",
		Downloaded: "deposit_receipt_downloaded_at",
		Updated:    "deposit_receipt_updated_at",
	},
	domain.DocRemainingBalanceInvoice: {
		Generated:  "remaining_balance_invoice_generated_at",
		Downloaded: "remaining_balance_invoice_downloaded_at",
		Updated:    "remaining_balance_invoice_updated_at",
	},
	domain.DocRemainingBalanceReceipt: {
		Generated:  "remaining_balance_receipt_generated_at",
		Downloaded: "remaining_balance_receipt_downloaded_at",
		Updated:    "remaining_balance_receipt_updated_at",
	},
	domain.DocHandoverNotes: {
		Generated:  "handover_notes_generated_at",
		Downloaded: "handover_notes_downloaded_at",
		Updated:    "handover_notes_updated_at",
	},
}

var (
	formFieldsReverse   = reverse(formFields)
	statusFieldsReverse = reverse(statusFields)
)

func reverse(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
