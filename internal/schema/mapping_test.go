package schema

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/domain"
)

var fixedNow = time.Date(2024, time.July, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestToStorageMapsFormFields(t *testing.T) {
	m := NewMapper(WithClock(fixedClock))

	record := m.ToStorage(map[string]any{
		"firstName":   "Jane",
		"surname":     "Smith",
		"email":       "jane@example.com",
		"yacht":       "spectre",
		"startDate":   "2024-07-20",
		"endDate":     "2024-07-27",
		"totalAmount": 4500.0,
	}, nil, nil, nil)

	assert.Equal(t, "Jane", record["customer_first_name"])
	assert.Equal(t, "Smith", record["customer_surname"])
	assert.Equal(t, "jane@example.com", record["customer_email"])
	assert.Equal(t, "spectre", record["yacht_id"])
	assert.Equal(t, "2024-07-20", record["start_date"])
	assert.Equal(t, "2024-07-27", record["end_date"])
	assert.Equal(t, 4500.0, record["total_amount"])
}

func TestToStorageDropsUnknownKeys(t *testing.T) {
	var dropped []string
	m := NewMapper(WithClock(fixedClock), WithDropHook(func(f string) {
		dropped = append(dropped, f)
	}))

	record := m.ToStorage(
		map[string]any{"firstName": "Jane", "favouriteColour": "teal"},
		map[string]any{"depositPaid": true, "randomFlag": true},
		nil, nil,
	)

	assert.NotContains(t, record, "favouriteColour")
	assert.NotContains(t, record, "favourite_colour")
	assert.NotContains(t, record, "randomFlag")
	assert.ElementsMatch(t, []string{"favouriteColour", "randomFlag"}, dropped)
}

func TestToStorageFlattensPartialFile(t *testing.T) {
	m := NewMapper(WithClock(fixedClock))

	record := m.ToStorage(map[string]any{
		"crewExperienceFile": map[string]any{
			"name": "licence.pdf",
			"url":  "https://files.example.com/licence.pdf",
		},
	}, nil, nil, nil)

	assert.Equal(t, "licence.pdf", record[fieldFileName])
	assert.Equal(t, "https://files.example.com/licence.pdf", record[fieldFileURL])
	_, hasSize := record[fieldFileSize]
	assert.False(t, hasSize, "absent file size must not produce a column")
}

func TestToStorageAddressDefaultsCountry(t *testing.T) {
	m := NewMapper(WithClock(fixedClock))

	tests := []struct {
		name    string
		address map[string]any
		want    string
	}{
		{name: "missing country", address: map[string]any{"street": "1 Dock Rd", "city": "Cardiff"}, want: domain.DefaultCountry},
		{name: "blank country", address: map[string]any{"city": "Cardiff", "country": "  "}, want: domain.DefaultCountry},
		{name: "explicit country", address: map[string]any{"city": "Brest", "country": "France"}, want: "France"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := m.ToStorage(map[string]any{"address": tt.address}, nil, nil, nil)
			assert.Equal(t, tt.want, record[fieldCountry])
		})
	}
}

func TestToStorageStampsDocuments(t *testing.T) {
	m := NewMapper(WithClock(fixedClock))

	record := m.ToStorage(nil, nil, map[string]domain.DocumentState{
		domain.DocContract: {Generated: true, Downloaded: true},
	}, nil)

	want := fixedNow.Format(time.RFC3339)
	assert.Equal(t, want, record["contract_generated_at"])
	assert.Equal(t, want, record["contract_downloaded_at"])
	_, hasUpdated := record["contract_updated_at"]
	assert.False(t, hasUpdated)
}

func TestToStorageTimestampsAreWriteOnce(t *testing.T) {
	m := NewMapper(WithClock(fixedClock))

	existing := map[string]any{
		"contract_generated_at": "2024-06-01T09:00:00Z",
	}

	record := m.ToStorage(nil, nil, map[string]domain.DocumentState{
		domain.DocContract: {Generated: true, Downloaded: true},
	}, existing)

	// The earlier stamp survives; the new flag gets a fresh one.
	assert.Equal(t, "2024-06-01T09:00:00Z", record["contract_generated_at"])
	assert.Equal(t, fixedNow.Format(time.RFC3339), record["contract_downloaded_at"])
}

func TestToStorageDerivesStatuses(t *testing.T) {
	m := NewMapper(WithClock(fixedClock))

	tests := []struct {
		name        string
		status      map[string]any
		form        map[string]any
		wantBooking string
		wantPayment string
	}{
		{
			name:        "empty input is tentative and pending",
			wantBooking: "tentative",
			wantPayment: "pending",
		},
		{
			name:        "confirmed flag",
			status:      map[string]any{"bookingConfirmed": true},
			wantBooking: "confirmed",
			wantPayment: "pending",
		},
		{
			name:        "deposit paid",
			status:      map[string]any{"depositPaid": true},
			wantBooking: "tentative",
			wantPayment: "deposit_paid",
		},
		{
			name:        "deposit plus receipt means full",
			status:      map[string]any{"depositPaid": true, "receiptIssued": true},
			wantBooking: "tentative",
			wantPayment: "full_payment",
		},
		{
			name:        "zero balance means full",
			form:        map[string]any{"balanceDue": 0.0},
			wantBooking: "tentative",
			wantPayment: "full_payment",
		},
		{
			name:        "derived statuses ignore input values",
			form:        map[string]any{"balanceDue": 1200.0},
			status:      map[string]any{"bookingConfirmed": false},
			wantBooking: "tentative",
			wantPayment: "pending",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := m.ToStorage(tt.form, tt.status, nil, nil)
			assert.Equal(t, tt.wantBooking, record["booking_status"])
			assert.Equal(t, tt.wantPayment, record["payment_status"])
		})
	}
}

func TestFromStorageRoutesByDictionary(t *testing.T) {
	m := NewMapper(WithClock(fixedClock))

	view := m.FromStorage(map[string]any{
		"customer_first_name": "Jane",
		"booking_number":      "BK2407001",
		"deposit_amount":      500.0,
		"booking_confirmed":   true,
		"deposit_paid":        true,
		"final_payment_paid":  false,
	})

	// bookingNumber and depositAmount share a status prefix but are form
	// fields; membership wins over the prefix heuristic.
	assert.Equal(t, "BK2407001", view.Form["bookingNumber"])
	assert.Equal(t, 500.0, view.Form["depositAmount"])
	assert.Equal(t, true, view.Status["bookingConfirmed"])
	assert.Equal(t, true, view.Status["depositPaid"])
	assert.Equal(t, false, view.Status["finalPaymentPaid"])
	assert.NotContains(t, view.Status, "bookingNumber")
	assert.NotContains(t, view.Form, "depositPaid")
}

func TestStatusPrefixProperty(t *testing.T) {
	// Every status flag except finalPaymentPaid carries one of the
	// historical routing prefixes. If this fails a new flag broke the
	// naming convention; routing itself is unaffected.
	for name := range statusFields {
		if name == "finalPaymentPaid" {
			continue
		}
		matched := false
		for _, p := range statusPrefixes {
			if strings.HasPrefix(name, p) {
				matched = true
				break
			}
		}
		assert.True(t, matched, "status flag %s has no routing prefix", name)
	}
}

func TestFromStorageNormalizesDates(t *testing.T) {
	m := NewMapper(WithClock(fixedClock))

	view := m.FromStorage(map[string]any{
		"start_date": "2024-07-20T00:00:00Z",
		"end_date":   time.Date(2024, 7, 27, 0, 0, 0, 0, time.UTC),
	})

	assert.Equal(t, "2024-07-20", view.Form["startDate"])
	assert.Equal(t, "2024-07-27", view.Form["endDate"])
}

func TestFromStorageRebuildsNestedObjects(t *testing.T) {
	m := NewMapper(WithClock(fixedClock))

	view := m.FromStorage(map[string]any{
		fieldFileName: "licence.pdf",
		fieldFileURL:  "https://files.example.com/licence.pdf",
		fieldStreet:   "1 Dock Rd",
		fieldCity:     "Cardiff",
		fieldCountry:  domain.DefaultCountry,
	})

	file, ok := view.Form["crewExperienceFile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "licence.pdf", file["name"])
	assert.Equal(t, "https://files.example.com/licence.pdf", file["url"])
	assert.NotContains(t, file, "size")

	addr, ok := view.Form["address"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1 Dock Rd", addr["street"])
	assert.Equal(t, "Cardiff", addr["city"])
	assert.Equal(t, domain.DefaultCountry, addr["country"])
}

func TestFromStorageSkipsFileWithoutName(t *testing.T) {
	m := NewMapper(WithClock(fixedClock))

	view := m.FromStorage(map[string]any{
		fieldFileURL: "https://files.example.com/orphan.pdf",
	})

	assert.NotContains(t, view.Form, "crewExperienceFile")
}

func TestFromStorageAlwaysReportsAllDocuments(t *testing.T) {
	m := NewMapper(WithClock(fixedClock))

	view := m.FromStorage(map[string]any{
		"contract_generated_at":  "2024-07-01T12:00:00Z",
		"contract_downloaded_at": nil,
	})

	require.Len(t, view.Documents, len(domain.DocumentTypes))
	assert.Equal(t, domain.DocumentState{Generated: true}, view.Documents[domain.DocContract])
	assert.Equal(t, domain.DocumentState{}, view.Documents[domain.DocHandoverNotes])
}

func TestRoundTrip(t *testing.T) {
	m := NewMapper(WithClock(fixedClock))

	form := map[string]any{
		"firstName":     "Jane",
		"surname":       "Smith",
		"email":         "jane@example.com",
		"yacht":         "spectre",
		"bookingNumber": "BK2407001",
		"startDate":     "2024-07-20",
		"endDate":       "2024-07-27",
		"depositAmount": 500.0,
		"notes":         "vegetarian catering",
		"address": map[string]any{
			"street":   "1 Dock Rd",
			"city":     "Cardiff",
			"postcode": "CF10 4PA",
			"country":  "United Kingdom",
		},
	}
	status := map[string]any{
		"bookingConfirmed": true,
		"depositPaid":      true,
	}
	docs := map[string]domain.DocumentState{
		domain.DocDepositInvoice: {Generated: true},
	}

	view := m.FromStorage(m.ToStorage(form, status, docs, nil))

	assert.Equal(t, form, view.Form)
	assert.Equal(t, status, view.Status)
	assert.Equal(t, domain.DocumentState{Generated: true}, view.Documents[domain.DocDepositInvoice])
}
