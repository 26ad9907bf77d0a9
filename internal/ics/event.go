package ics

import (
	"fmt"
	"strings"
	"time"

	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/domain"
)

const (
	prodID     = "-//Yacht Charter Dashboard//Bookings//EN"
	categories = "YACHT CHARTER,BOOKING"
)

// statusPriority maps a booking status to an RFC 5545 PRIORITY (1 high,
// 9 low). Unlisted statuses take the normal priority 5.
var statusPriority = map[domain.BookingStatus]int{
	domain.BookingConfirmed: 3,
	domain.BookingCancelled: 9,
}

const defaultPriority = 5

var icsStatus = map[domain.BookingStatus]string{
	domain.BookingTentative: "TENTATIVE",
	domain.BookingConfirmed: "CONFIRMED",
	domain.BookingCompleted: "CONFIRMED",
	domain.BookingCancelled: "CANCELLED",
}

// EventOptions tune a single VEVENT. The zero value is valid.
type EventOptions struct {
	UID            string // overrides the booking's stored UID
	OrganizerName  string
	OrganizerEmail string
	AttendCustomer bool   // emit the customer as an ATTENDEE line
	Class          string // default PRIVATE
	Alarm          bool   // embed a VALARM display reminder
	AlarmTrigger   string // default -PT24H
	Now            func() time.Time
}

// BookingToVEvent renders one booking as a BEGIN:VEVENT..END:VEVENT block.
// Every text-bearing property is escaped and folded; DTSTAMP and CREATED
// depend on the clock in opts.Now (wall clock by default), which tests
// inject.
func BookingToVEvent(b domain.Booking, opts EventOptions) string {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	uid := opts.UID
	if uid == "" {
		uid = recordString(b, "calendar_uid")
	}
	if uid == "" {
		uid = GenerateUID("charter", "")
	}

	summary := recordString(b, "summary")
	if summary == "" {
		summary = "Charter - " + b.CustomerName
	}

	class := opts.Class
	if class == "" {
		class = "PRIVATE"
	}

	var lines []string
	add := func(l string) { lines = append(lines, FoldLine(l)) }

	add("BEGIN:VEVENT")
	add("UID:" + EscapeText(uid))
	add("DTSTAMP:" + FormatDate(now(), false))

	if !b.StartDate.IsZero() {
		add("DTSTART:" + FormatDate(b.StartDate, isAllDay(b.StartDate)))
	}
	if !b.EndDate.IsZero() {
		add("DTEND:" + FormatDate(b.EndDate, isAllDay(b.EndDate)))
	}

	add("SUMMARY:" + EscapeText(summary))

	if desc := recordString(b, "notes"); desc != "" {
		add("DESCRIPTION:" + EscapeText(desc))
	}
	if loc := recordString(b, "port_of_departure"); loc != "" {
		add("LOCATION:" + EscapeText(loc))
	}

	if st, ok := icsStatus[b.Status]; ok {
		add("STATUS:" + st)
	}
	add("CLASS:" + class)

	if !b.CreatedAt.IsZero() {
		add("CREATED:" + FormatDate(b.CreatedAt, false))
	} else {
		add("CREATED:" + FormatDate(now(), false))
	}
	if !b.UpdatedAt.IsZero() {
		add("LAST-MODIFIED:" + FormatDate(b.UpdatedAt, false))
	}

	if opts.OrganizerEmail != "" {
		cn := opts.OrganizerName
		if cn == "" {
			cn = "Charter Office"
		}
		add("ORGANIZER;CN=" + EscapeText(cn) + ":mailto:" + opts.OrganizerEmail)
	}
	if opts.AttendCustomer && b.CustomerEmail != "" {
		add("ATTENDEE;CN=" + EscapeText(b.CustomerName) + ";RSVP=FALSE:mailto:" + b.CustomerEmail)
	}

	add("CATEGORIES:" + categories)

	prio, ok := statusPriority[b.Status]
	if !ok {
		prio = defaultPriority
	}
	add(fmt.Sprintf("PRIORITY:%d", prio))

	add("X-YACHT-ID:" + EscapeText(b.YachtID))
	add("X-BOOKING-NO:" + EscapeText(b.Number))
	add("X-CUSTOMER-EMAIL:" + EscapeText(b.CustomerEmail))
	add("X-TOTAL-VALUE:" + b.TotalAmount.String())

	if opts.Alarm {
		trigger := opts.AlarmTrigger
		if trigger == "" {
			trigger = "-PT24H"
		}
		add("BEGIN:VALARM")
		add("ACTION:DISPLAY")
		add("TRIGGER:" + trigger)
		add("DESCRIPTION:" + EscapeText("Reminder: "+summary))
		add("DURATION:PT15M")
		add("REPEAT:1")
		add("END:VALARM")
	}

	add("END:VEVENT")

	return strings.Join(lines, crlf)
}

// CalendarInfo carries the optional VCALENDAR headers.
type CalendarInfo struct {
	Name        string
	Description string
	Timezone    string
}

// GenerateCalendar wraps one VEVENT per booking in a VCALENDAR envelope with
// the required VERSION, PRODID and CALSCALE headers.
func GenerateCalendar(bookings []domain.Booking, info CalendarInfo, opts EventOptions) string {
	var lines []string
	add := func(l string) { lines = append(lines, FoldLine(l)) }

	add("BEGIN:VCALENDAR")
	add("VERSION:2.0")
	add("PRODID:" + prodID)
	add("CALSCALE:GREGORIAN")
	if info.Name != "" {
		add("X-WR-CALNAME:" + EscapeText(info.Name))
	}
	if info.Description != "" {
		add("X-WR-CALDESC:" + EscapeText(info.Description))
	}
	if info.Timezone != "" {
		add("X-WR-TIMEZONE:" + EscapeText(info.Timezone))
	}

	out := strings.Join(lines, crlf)
	for _, b := range bookings {
		out += crlf + BookingToVEvent(b, opts)
	}
	out += crlf + "END:VCALENDAR" + crlf

	return out
}

// File is a ready-to-serve calendar download.
type File struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int    `json:"size"`
	Encoding string `json:"encoding"`
}

// FileOptions tune GenerateFile output.
type FileOptions struct {
	Filename      string
	IncludeAlarms bool
	Calendar      CalendarInfo
	Event         EventOptions
}

// GenerateFile renders bookings into a downloadable text/calendar payload.
func GenerateFile(bookings []domain.Booking, opts FileOptions) File {
	ev := opts.Event
	ev.Alarm = opts.IncludeAlarms

	content := GenerateCalendar(bookings, opts.Calendar, ev)

	filename := opts.Filename
	if filename == "" {
		filename = fmt.Sprintf("charter-bookings-%s.ics", time.Now().Format("2006-01-02"))
	}

	return File{
		Content:  content,
		Filename: filename,
		MimeType: "text/calendar",
		Size:     len(content),
		Encoding: "utf-8",
	}
}

func isAllDay(t time.Time) bool {
	h, m, s := t.UTC().Clock()
	return h == 0 && m == 0 && s == 0
}

func recordString(b domain.Booking, key string) string {
	if b.Record == nil {
		return ""
	}
	s, _ := b.Record[key].(string)
	return strings.TrimSpace(s)
}
