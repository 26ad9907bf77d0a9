package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Harbour cruise", want: "Harbour cruise"},
		{name: "semicolon and comma", in: "one; two, three", want: `one\; two\, three`},
		{name: "backslash first", in: `C:\docs`, want: `C:\\docs`},
		{name: "newline becomes literal", in: "line1\nline2", want: `line1\nline2`},
		{name: "carriage return dropped", in: "line1\r\nline2", want: `line1\nline2`},
		{name: "backslash before n is not a newline", in: `not\nnewline`, want: `not\\nnewline`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeText(tt.in))
		})
	}
}

func TestUnescapeInvertsEscape(t *testing.T) {
	inputs := []string{
		"plain text",
		"semi; colon, comma",
		`back\slash`,
		"multi\nline\ntext",
		`mixed; \, payload` + "\nnext",
		"",
	}

	for _, in := range inputs {
		want := strings.ReplaceAll(in, "\r", "")
		assert.Equal(t, want, UnescapeText(EscapeText(in)), "input %q", in)
	}
}

func TestFoldLine(t *testing.T) {
	t.Run("short line untouched", func(t *testing.T) {
		assert.Equal(t, "SUMMARY:short", FoldLine("SUMMARY:short"))
	})

	t.Run("long line folds at 75 with space continuations", func(t *testing.T) {
		line := "DESCRIPTION:" + strings.Repeat("x", 300)
		folded := FoldLine(line)

		physical := strings.Split(folded, crlf)
		require.Greater(t, len(physical), 1)

		assert.Len(t, physical[0], maxLineLen)
		for _, p := range physical[1:] {
			assert.True(t, strings.HasPrefix(p, " "), "continuation must start with a space")
			assert.LessOrEqual(t, len(p), maxLineLen)
		}
	})

	t.Run("unfold restores the logical line", func(t *testing.T) {
		line := "DESCRIPTION:" + strings.Repeat("abc ", 100)
		lines := unfoldLines(FoldLine(line))
		require.Len(t, lines, 1)
		assert.Equal(t, line, lines[0])
	})

	t.Run("boundary lengths", func(t *testing.T) {
		exact := strings.Repeat("a", maxLineLen)
		assert.Equal(t, exact, FoldLine(exact))

		over := strings.Repeat("a", maxLineLen+1)
		assert.Equal(t, exact+crlf+" a", FoldLine(over))
	})
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, time.July, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "20240715", FormatDate(ts, true))
	assert.Equal(t, "20240715T100000Z", FormatDate(ts, false))

	// Non-UTC timed values normalize to UTC.
	cet := time.FixedZone("CET", 3600)
	assert.Equal(t, "20240715T090000Z", FormatDate(time.Date(2024, 7, 15, 10, 0, 0, 0, cet), false))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{in: "20240715", want: time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), wantOK: true},
		{in: "20240715T100000Z", want: time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC), wantOK: true},
		{in: "20240715T100000", want: time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC), wantOK: true},
		{in: " 20240715 ", want: time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), wantOK: true},
		{in: ""},
		{in: "2024-07-15"},
		{in: "garbageT100000Z"},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.in)
		if tt.wantOK {
			assert.True(t, got.Equal(tt.want), "input %q: got %v", tt.in, got)
		}
	}
}

func TestGenerateUID(t *testing.T) {
	uid := GenerateUID("", "")
	assert.True(t, strings.HasPrefix(uid, "charter-"))
	assert.True(t, strings.HasSuffix(uid, "@yacht-charter.local"))

	uid = GenerateUID("feed", "example.com")
	assert.True(t, strings.HasPrefix(uid, "feed-"))
	assert.True(t, strings.HasSuffix(uid, "@example.com"))

	// Collisions are possible in principle but two draws in a row sharing
	// millisecond and suffix would indicate a broken source.
	assert.NotEqual(t, GenerateUID("", ""), GenerateUID("", ""))
}
