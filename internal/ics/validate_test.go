package ics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWellFormedFeed(t *testing.T) {
	text := calendarText(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//EN",
		"BEGIN:VEVENT",
		"UID:u1@example.com",
		"DTSTART:20240715T100000Z",
		"SUMMARY:Charter - Jane Smith",
		"END:VEVENT",
		"END:VCALENDAR",
	)

	r := Validate(text)
	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
	assert.Equal(t, 1, r.EventCount)
}

func TestValidateMissingEnvelope(t *testing.T) {
	r := Validate("SUMMARY:not a calendar")

	assert.False(t, r.Valid)
	assert.Contains(t, r.Errors, "missing BEGIN:VCALENDAR")
	assert.Contains(t, r.Errors, "missing END:VCALENDAR")
	assert.Contains(t, r.Errors, "missing VERSION:2.0")
	assert.Contains(t, r.Errors, "missing PRODID")
}

func TestValidateEventRequirements(t *testing.T) {
	text := calendarText(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//EN",
		"BEGIN:VEVENT",
		"DTEND:20240722",
		"END:VEVENT",
		"END:VCALENDAR",
	)

	r := Validate(text)
	assert.False(t, r.Valid)
	assert.Contains(t, r.Errors, "event 1: missing UID")
	assert.Contains(t, r.Errors, "event 1: missing DTSTART")
	assert.Contains(t, r.Warnings, "event 1: missing SUMMARY")
}

func TestValidateWarnsOnBareNewlines(t *testing.T) {
	text := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//EN",
		"END:VCALENDAR",
	}, "\n")

	r := Validate(text)
	assert.True(t, r.Valid, "line endings are a warning, not an error")
	assert.Contains(t, r.Warnings, "line endings are not CRLF")
}

func TestValidateCarriesParseDiagnostics(t *testing.T) {
	text := calendarText(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Test//EN",
		"BEGIN:VEVENT",
		"UID:u1@example.com",
		"DTSTART:20240715",
		"SUMMARY:ok",
		"a malformed line",
		"END:VEVENT",
		"END:VCALENDAR",
	)

	r := Validate(text)
	assert.True(t, r.Valid)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "no colon")
}
