package ics

import (
	"fmt"
	"strings"
)

// Report is the result of a structural calendar check. Errors mark the feed
// unusable; warnings note tolerated deviations.
type Report struct {
	Valid      bool     `json:"isValid"`
	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings"`
	EventCount int      `json:"eventCount"`
}

// Validate sanity-checks calendar text: envelope, VERSION 2.0, PRODID and
// per-event UID/DTSTART are required; missing SUMMARY and non-CRLF line
// endings are warnings only. It never fails on malformed input.
func Validate(text string) Report {
	var r Report

	if !strings.Contains(text, "BEGIN:VCALENDAR") {
		r.Errors = append(r.Errors, "missing BEGIN:VCALENDAR")
	}
	if !strings.Contains(text, "END:VCALENDAR") {
		r.Errors = append(r.Errors, "missing END:VCALENDAR")
	}
	if !strings.Contains(text, "VERSION:2.0") {
		r.Errors = append(r.Errors, "missing VERSION:2.0")
	}
	if !strings.Contains(text, "PRODID:") {
		r.Errors = append(r.Errors, "missing PRODID")
	}

	if strings.Contains(strings.ReplaceAll(text, crlf, ""), "\n") {
		r.Warnings = append(r.Warnings, "line endings are not CRLF")
	}

	events, diags := ParseCalendar(text)
	r.EventCount = len(events)
	r.Warnings = append(r.Warnings, diags...)

	for i, ev := range events {
		if ev.Get("UID") == "" {
			r.Errors = append(r.Errors, fmt.Sprintf("event %d: missing UID", i+1))
		}
		if _, ok := ev["DTSTART"]; !ok {
			r.Errors = append(r.Errors, fmt.Sprintf("event %d: missing DTSTART", i+1))
		}
		if ev.Get("SUMMARY") == "" {
			r.Warnings = append(r.Warnings, fmt.Sprintf("event %d: missing SUMMARY", i+1))
		}
	}

	r.Valid = len(r.Errors) == 0
	return r
}
