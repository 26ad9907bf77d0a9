package bookingnum

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

type Format string

const (
	FormatSequential          Format = "sequential"
	FormatYearSequential      Format = "year_sequential"
	FormatYearMonthSequential Format = "year_month_sequential"
	FormatDateSequential      Format = "date_sequential"
	FormatYachtSequential     Format = "yacht_sequential"
	FormatCustom              Format = "custom"
)

// yachtCodes maps fleet yacht ids to their two-letter number prefixes.
// Yachts outside the table fall back to the first two characters of the id,
// uppercased.
var yachtCodes = map[string]string{
	"spectre":     "SP",
	"alrisha":     "AL",
	"disk-drive":  "DD",
	"zavijava":    "ZA",
	"calico-jack": "CJ",
	"mattina":     "MT",
}

// YachtCode resolves the number prefix for a yacht id.
func YachtCode(yachtID string) string {
	id := strings.ToLower(strings.TrimSpace(yachtID))
	if code, ok := yachtCodes[id]; ok {
		return code
	}
	if len(id) >= 2 {
		return strings.ToUpper(id[:2])
	}
	return strings.ToUpper(id)
}

// formatPatterns drive Validate and Parse. Ordered from most to least
// specific in parseOrder: a year-month number is indistinguishable from a
// plain sequential one with extra digits, so detection is best-effort.
var formatPatterns = map[Format]*regexp.Regexp{
	FormatSequential:          regexp.MustCompile(`^([A-Z]+?)(\d{3,})$`),
	FormatYearSequential:      regexp.MustCompile(`^([A-Z]+?)(\d{2})(\d{3})$`),
	FormatYearMonthSequential: regexp.MustCompile(`^([A-Z]+?)(\d{2})(\d{2})(\d{3,})$`),
	FormatDateSequential:      regexp.MustCompile(`^([A-Z]+?)(\d{4})(\d{2})(\d{2})(\d{3})$`),
	FormatYachtSequential:     regexp.MustCompile(`^([A-Z]{2})(\d{3,})$`),
}

var parseOrder = []Format{
	FormatDateSequential,
	FormatYearMonthSequential,
	FormatYearSequential,
	FormatSequential,
	FormatYachtSequential,
}

// TokenKind enumerates the placeholders a custom template may carry.
type TokenKind int

const (
	TokenPrefix TokenKind = iota
	TokenYear
	TokenMonth
	TokenDay
	TokenYachtCode
	TokenSequence
	TokenRandom
	TokenCustom
)

// Token is one tagged variant of the custom-format engine. Generate is
// consulted only for TokenCustom.
type Token struct {
	Kind     TokenKind
	Generate func(tc TokenContext) string
}

// TokenContext is handed to custom token generators.
type TokenContext struct {
	Prefix   string
	YachtID  string
	Date     time.Time
	Sequence int64
}

// CustomFormat is a template such as "{prefix}-{year}{month}-{sequence}"
// with a token table resolving each placeholder.
type CustomFormat struct {
	Template string
	Tokens   map[string]Token
}

var tokenRe = regexp.MustCompile(`\{(\w+)\}`)

// DefaultTokens covers the built-in placeholders; callers extend the map
// with TokenCustom entries for anything else.
func DefaultTokens() map[string]Token {
	return map[string]Token{
		"prefix":     {Kind: TokenPrefix},
		"year":       {Kind: TokenYear},
		"month":      {Kind: TokenMonth},
		"day":        {Kind: TokenDay},
		"yacht_code": {Kind: TokenYachtCode},
		"sequence":   {Kind: TokenSequence},
		"random":     {Kind: TokenRandom},
	}
}

func evalToken(tok Token, tc TokenContext, seqLen int) string {
	switch tok.Kind {
	case TokenPrefix:
		return tc.Prefix
	case TokenYear:
		return tc.Date.Format("06")
	case TokenMonth:
		return tc.Date.Format("01")
	case TokenDay:
		return tc.Date.Format("02")
	case TokenYachtCode:
		return YachtCode(tc.YachtID)
	case TokenSequence:
		return pad(tc.Sequence, seqLen)
	case TokenRandom:
		return randomBase36(4)
	case TokenCustom:
		if tok.Generate != nil {
			return tok.Generate(tc)
		}
		return ""
	default:
		return ""
	}
}

func pad(v int64, width int) string {
	return fmt.Sprintf("%0*d", width, v)
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return strings.ToUpper(string(b))
}
