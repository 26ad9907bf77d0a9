package ics

import (
	"fmt"
	"strings"
	"time"

	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/domain"
	"github.com/shopspring/decimal"
)

// Property is one parsed content line: NAME;PARAM=VAL:VALUE.
type Property struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
	Value  string            `json:"value"`
	// Date is the side-parsed value for date-bearing properties.
	Date    time.Time `json:"date,omitempty"`
	HasDate bool      `json:"hasDate,omitempty"`
}

// Event is one parsed VEVENT, keyed by property name. Repeating properties
// keep the last occurrence; this parser exists for booking import, where the
// properties of interest are all single-valued.
type Event map[string]Property

// Get returns the value of the named property, or "".
func (e Event) Get(name string) string {
	return e[name].Value
}

var dateProperties = map[string]bool{
	"DTSTART":       true,
	"DTEND":         true,
	"DTSTAMP":       true,
	"CREATED":       true,
	"LAST-MODIFIED": true,
}

// ParseCalendar reads RFC 5545 text line by line: continuation lines are
// unfolded, BEGIN/END:VEVENT delimit events, and each property line splits
// on the first colon with ;-separated parameters. Malformed lines are
// skipped and reported in the diagnostics list; the function never fails.
func ParseCalendar(text string) ([]Event, []string) {
	var (
		events      []Event
		diagnostics []string
		current     Event
	)

	for i, line := range unfoldLines(text) {
		switch {
		case line == "BEGIN:VEVENT":
			current = make(Event)
			continue
		case line == "END:VEVENT":
			if current != nil {
				events = append(events, current)
				current = nil
			}
			continue
		case current == nil:
			continue
		}

		idx := strings.Index(line, ":")
		if idx < 0 {
			diagnostics = append(diagnostics, fmt.Sprintf("line %d: no colon, skipped: %.40q", i+1, line))
			continue
		}

		nameAndParams := line[:idx]
		value := line[idx+1:]

		parts := strings.Split(nameAndParams, ";")
		name := strings.ToUpper(strings.TrimSpace(parts[0]))
		if name == "" {
			diagnostics = append(diagnostics, fmt.Sprintf("line %d: empty property name, skipped", i+1))
			continue
		}

		prop := Property{Name: name, Value: value}
		for _, p := range parts[1:] {
			kv := strings.SplitN(p, "=", 2)
			if len(kv) != 2 {
				continue
			}
			if prop.Params == nil {
				prop.Params = make(map[string]string)
			}
			prop.Params[strings.ToUpper(strings.TrimSpace(kv[0]))] = strings.Trim(kv[1], `"`)
		}

		if dateProperties[name] {
			if t, ok := ParseDate(value); ok {
				prop.Date = t
				prop.HasDate = true
			} else {
				diagnostics = append(diagnostics, fmt.Sprintf("line %d: unparseable %s date %q", i+1, name, value))
			}
		}

		current[name] = prop
	}

	return events, diagnostics
}

// importStatus maps VEVENT STATUS to the import-side booking status.
// Unrecognized or missing status reads as pending.
var importStatus = map[string]string{
	"TENTATIVE": "pending",
	"CONFIRMED": "confirmed",
	"CANCELLED": "cancelled",
}

var importBookingStatus = map[string]domain.BookingStatus{
	"TENTATIVE": domain.BookingTentative,
	"CONFIRMED": domain.BookingConfirmed,
	"CANCELLED": domain.BookingCancelled,
}

// EventToBooking maps a parsed event back to a partial booking, reading the
// X-* extension properties this package emits. Fields absent from the event
// stay zero.
func EventToBooking(ev Event) domain.Booking {
	b := domain.Booking{
		Number:        UnescapeText(ev.Get("X-BOOKING-NO")),
		YachtID:       UnescapeText(ev.Get("X-YACHT-ID")),
		CustomerEmail: UnescapeText(ev.Get("X-CUSTOMER-EMAIL")),
		Status:        domain.BookingTentative,
		Record:        make(map[string]any),
	}

	if v := ev.Get("X-TOTAL-VALUE"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			b.TotalAmount = d
		}
	}

	if p, ok := ev["DTSTART"]; ok && p.HasDate {
		b.StartDate = p.Date
	}
	if p, ok := ev["DTEND"]; ok && p.HasDate {
		b.EndDate = p.Date
	}

	status := strings.ToUpper(ev.Get("STATUS"))
	b.Record["status"] = "pending"
	if s, ok := importStatus[status]; ok {
		b.Record["status"] = s
	}
	if bs, ok := importBookingStatus[status]; ok {
		b.Status = bs
	}

	if summary := ev.Get("SUMMARY"); summary != "" {
		s := UnescapeText(summary)
		b.Record["summary"] = s
		if name, ok := strings.CutPrefix(s, "Charter - "); ok {
			b.CustomerName = name
		}
	}
	if desc := ev.Get("DESCRIPTION"); desc != "" {
		b.Record["notes"] = UnescapeText(desc)
	}
	if loc := ev.Get("LOCATION"); loc != "" {
		b.Record["port_of_departure"] = UnescapeText(loc)
	}
	if uid := ev.Get("UID"); uid != "" {
		b.Record["calendar_uid"] = UnescapeText(uid)
	}

	return b
}
