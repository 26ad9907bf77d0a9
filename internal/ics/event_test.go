package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/domain"
)

func fixedIcsClock() time.Time {
	return time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)
}

func sampleBooking() domain.Booking {
	return domain.Booking{
		Number:        "BK2407001",
		YachtID:       "spectre",
		CustomerName:  "Jane Smith",
		CustomerEmail: "jane@example.com",
		StartDate:     time.Date(2024, time.July, 15, 10, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, time.July, 22, 16, 0, 0, 0, time.UTC),
		Status:        domain.BookingConfirmed,
		TotalAmount:   decimal.RequireFromString("4500.00"),
		Record: map[string]any{
			"notes":             "Vegetarian catering; no shellfish",
			"port_of_departure": "Cardiff Marina",
		},
	}
}

func eventLines(text string) []string {
	return strings.Split(text, crlf)
}

func TestBookingToVEvent(t *testing.T) {
	b := sampleBooking()
	out := BookingToVEvent(b, EventOptions{UID: "test-uid@example.com", Now: fixedIcsClock})
	lines := eventLines(out)

	assert.Equal(t, "BEGIN:VEVENT", lines[0])
	assert.Equal(t, "END:VEVENT", lines[len(lines)-1])

	assert.Contains(t, lines, "UID:test-uid@example.com")
	assert.Contains(t, lines, "DTSTAMP:20240701T120000Z")
	assert.Contains(t, lines, "DTSTART:20240715T100000Z")
	assert.Contains(t, lines, "DTEND:20240722T160000Z")
	assert.Contains(t, lines, "SUMMARY:Charter - Jane Smith")
	assert.Contains(t, lines, `DESCRIPTION:Vegetarian catering\; no shellfish`)
	assert.Contains(t, lines, "LOCATION:Cardiff Marina")
	assert.Contains(t, lines, "STATUS:CONFIRMED")
	assert.Contains(t, lines, "CLASS:PRIVATE")
	assert.Contains(t, lines, "PRIORITY:3")
	assert.Contains(t, lines, "X-YACHT-ID:spectre")
	assert.Contains(t, lines, "X-BOOKING-NO:BK2407001")
	assert.Contains(t, lines, "X-CUSTOMER-EMAIL:jane@example.com")
	assert.Contains(t, lines, "X-TOTAL-VALUE:4500")
	assert.NotContains(t, out, "BEGIN:VALARM")
}

func TestBookingToVEventAllDay(t *testing.T) {
	b := sampleBooking()
	b.StartDate = time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)
	b.EndDate = time.Date(2024, time.July, 22, 0, 0, 0, 0, time.UTC)

	out := BookingToVEvent(b, EventOptions{Now: fixedIcsClock})
	lines := eventLines(out)

	assert.Contains(t, lines, "DTSTART:20240715")
	assert.Contains(t, lines, "DTEND:20240722")
}

func TestBookingToVEventAlarm(t *testing.T) {
	out := BookingToVEvent(sampleBooking(), EventOptions{Alarm: true, Now: fixedIcsClock})
	lines := eventLines(out)

	assert.Contains(t, lines, "BEGIN:VALARM")
	assert.Contains(t, lines, "ACTION:DISPLAY")
	assert.Contains(t, lines, "TRIGGER:-PT24H")
	assert.Contains(t, lines, "DURATION:PT15M")
	assert.Contains(t, lines, "REPEAT:1")
	assert.Contains(t, lines, "END:VALARM")

	out = BookingToVEvent(sampleBooking(), EventOptions{Alarm: true, AlarmTrigger: "-PT2H", Now: fixedIcsClock})
	assert.Contains(t, eventLines(out), "TRIGGER:-PT2H")
}

func TestBookingToVEventOrganizerAndAttendee(t *testing.T) {
	out := BookingToVEvent(sampleBooking(), EventOptions{
		OrganizerEmail: "office@yacht-charter.example",
		AttendCustomer: true,
		Now:            fixedIcsClock,
	})
	lines := eventLines(out)

	assert.Contains(t, lines, "ORGANIZER;CN=Charter Office:mailto:office@yacht-charter.example")
	assert.Contains(t, lines, "ATTENDEE;CN=Jane Smith;RSVP=FALSE:mailto:jane@example.com")
}

func TestBookingToVEventUIDFallbacks(t *testing.T) {
	b := sampleBooking()
	b.Record["calendar_uid"] = "stored-uid@yacht-charter.local"

	out := BookingToVEvent(b, EventOptions{Now: fixedIcsClock})
	assert.Contains(t, eventLines(out), "UID:stored-uid@yacht-charter.local")

	delete(b.Record, "calendar_uid")
	out = BookingToVEvent(b, EventOptions{Now: fixedIcsClock})
	var uidLine string
	for _, l := range eventLines(out) {
		if strings.HasPrefix(l, "UID:") {
			uidLine = l
		}
	}
	assert.True(t, strings.HasPrefix(uidLine, "UID:charter-"))
	assert.Contains(t, uidLine, "@yacht-charter.local")
}

func TestBookingToVEventFoldsLongLines(t *testing.T) {
	b := sampleBooking()
	b.Record["notes"] = strings.Repeat("A very long description of the charter. ", 10)

	out := BookingToVEvent(b, EventOptions{Now: fixedIcsClock})

	for _, l := range eventLines(out) {
		assert.LessOrEqual(t, len(l), maxLineLen, "physical line exceeds 75 octets: %q", l)
	}
}

func TestGenerateCalendar(t *testing.T) {
	out := GenerateCalendar([]domain.Booking{sampleBooking()}, CalendarInfo{
		Name:        "Yacht Charter Bookings",
		Description: "Fleet bookings",
		Timezone:    "Europe/London",
	}, EventOptions{UID: "u1@example.com", Now: fixedIcsClock})

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"+crlf))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR"+crlf))

	lines := eventLines(out)
	assert.Contains(t, lines, "VERSION:2.0")
	assert.Contains(t, lines, "PRODID:"+prodID)
	assert.Contains(t, lines, "CALSCALE:GREGORIAN")
	assert.Contains(t, lines, "X-WR-CALNAME:Yacht Charter Bookings")
	assert.Contains(t, lines, "X-WR-TIMEZONE:Europe/London")

	assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"))
}

func TestGenerateCalendarEmpty(t *testing.T) {
	out := GenerateCalendar(nil, CalendarInfo{}, EventOptions{Now: fixedIcsClock})

	report := Validate(out)
	assert.True(t, report.Valid)
	assert.Zero(t, report.EventCount)
}

func TestGenerateFile(t *testing.T) {
	f := GenerateFile([]domain.Booking{sampleBooking()}, FileOptions{
		Filename:      "charter-BK2407001.ics",
		IncludeAlarms: true,
		Event:         EventOptions{UID: "u1@example.com", Now: fixedIcsClock},
	})

	assert.Equal(t, "charter-BK2407001.ics", f.Filename)
	assert.Equal(t, "text/calendar", f.MimeType)
	assert.Equal(t, "utf-8", f.Encoding)
	assert.Equal(t, len(f.Content), f.Size)
	assert.Contains(t, f.Content, "BEGIN:VALARM")

	f = GenerateFile(nil, FileOptions{})
	assert.True(t, strings.HasPrefix(f.Filename, "charter-bookings-"))
	assert.True(t, strings.HasSuffix(f.Filename, ".ics"))
}

func TestExportImportRoundTrip(t *testing.T) {
	b := sampleBooking()
	out := GenerateCalendar([]domain.Booking{b}, CalendarInfo{}, EventOptions{
		UID: "round-trip@example.com",
		Now: fixedIcsClock,
	})

	events, diags := ParseCalendar(out)
	require.Empty(t, diags)
	require.Len(t, events, 1)

	got := EventToBooking(events[0])
	assert.Equal(t, b.Number, got.Number)
	assert.Equal(t, b.YachtID, got.YachtID)
	assert.Equal(t, b.CustomerName, got.CustomerName)
	assert.Equal(t, b.CustomerEmail, got.CustomerEmail)
	assert.True(t, b.StartDate.Equal(got.StartDate))
	assert.True(t, b.EndDate.Equal(got.EndDate))
	assert.Equal(t, domain.BookingConfirmed, got.Status)
	assert.True(t, b.TotalAmount.Equal(got.TotalAmount))
	assert.Equal(t, "confirmed", got.Record["status"])
	assert.Equal(t, "Vegetarian catering; no shellfish", got.Record["notes"])
	assert.Equal(t, "Cardiff Marina", got.Record["port_of_departure"])
	assert.Equal(t, "round-trip@example.com", got.Record["calendar_uid"])
}
