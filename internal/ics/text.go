// Package ics renders charter bookings as RFC 5545 calendar text and parses
// calendar text back into partial bookings. Output is byte-exact CRLF text
// with 75-character line folding; input is treated as untrusted third-party
// calendar data and parsed defensively, reporting diagnostics instead of
// failing.
package ics

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const (
	crlf = "\r\n"

	// maxLineLen is the RFC 5545 physical line limit. Continuation chunks
	// are one shorter to leave room for the leading space.
	maxLineLen  = 75
	contLineLen = 74
)

// EscapeText applies RFC 5545 TEXT escaping: backslash, semicolon and comma
// gain a backslash, newlines become literal \n, carriage returns are
// dropped.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// UnescapeText is the exact inverse of EscapeText for the four escaped
// sequences.
func UnescapeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case 'n', 'N':
			b.WriteByte('\n')
			i++
		case '\\', ';', ',':
			b.WriteByte(s[i+1])
			i++
		default:
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

// FoldLine folds a logical line at 75 characters. Continuation lines carry a
// single leading space and at most 74 further characters, joined by CRLF.
// Many calendar clients reject malformed folding, so this must stay
// byte-exact.
func FoldLine(line string) string {
	if len(line) <= maxLineLen {
		return line
	}

	var chunks []string
	chunks = append(chunks, line[:maxLineLen])
	rest := line[maxLineLen:]

	for len(rest) > contLineLen {
		chunks = append(chunks, " "+rest[:contLineLen])
		rest = rest[contLineLen:]
	}
	if len(rest) > 0 {
		chunks = append(chunks, " "+rest)
	}

	return strings.Join(chunks, crlf)
}

// unfoldLines reverses folding: a physical line starting with space or tab
// continues the previous logical line.
func unfoldLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, crlf, "\n"), "\n")

	var lines []string
	for _, l := range raw {
		if l == "" {
			continue
		}
		if (l[0] == ' ' || l[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += l[1:]
			continue
		}
		lines = append(lines, l)
	}

	return lines
}

// FormatDate renders an all-day date as YYYYMMDD and a timed value as UTC
// YYYYMMDDTHHMMSSZ.
func FormatDate(t time.Time, allDay bool) string {
	if allDay {
		return t.Format("20060102")
	}
	return t.UTC().Format("20060102T150405Z")
}

// ParseDate reads both FormatDate shapes, distinguishing them by the
// presence of "T". Malformed input yields ok=false rather than an error;
// calendar feeds in the wild are imperfect.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if strings.Contains(s, "T") {
		if t, err := time.Parse("20060102T150405Z", s); err == nil {
			return t, true
		}
		if t, err := time.Parse("20060102T150405", s); err == nil {
			return t, true
		}
		return time.Time{}, false
	}

	t, err := time.Parse("20060102", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// GenerateUID builds "{prefix}-{epoch-millis}-{6 base36 chars}@{domain}".
// Uniqueness is probabilistic only, which is acceptable for calendar UIDs
// but makes these values unsuitable as primary keys.
func GenerateUID(prefix, domain string) string {
	if prefix == "" {
		prefix = "charter"
	}
	if domain == "" {
		domain = "yacht-charter.local"
	}
	return fmt.Sprintf("%s-%d-%s@%s", prefix, time.Now().UnixMilli(), randomBase36(6), domain)
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return string(b)
}
