// Package bookingnum issues human-readable booking numbers in a handful of
// fleet formats and validates or parses numbers coming back from storage.
package bookingnum

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Config struct {
	Format         Format
	Prefix         string
	SequenceLength int
	Custom         *CustomFormat
	Provider       SequenceProvider
}

// Generator issues unique booking numbers. Uniqueness is enforced against
// the issued set of this instance only; callers restoring from storage seed
// it with RegisterExisting. Safe for concurrent use.
type Generator struct {
	cfg Config

	mu     sync.Mutex // guards issued
	issued map[string]struct{}
}

func New(cfg Config) *Generator {
	if cfg.Format == "" {
		cfg.Format = FormatYearMonthSequential
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "BK"
	}
	if cfg.SequenceLength <= 0 {
		cfg.SequenceLength = 3
	}
	if cfg.Provider == nil {
		cfg.Provider = NewMemoryProvider()
	}

	return &Generator{
		cfg:    cfg,
		issued: make(map[string]struct{}),
	}
}

type Options struct {
	YachtID      string
	Date         time.Time // zero value means now
	CustomPrefix string
	Retries      int // collision re-draws before giving up, default 10
}

// Generate produces the next booking number. On a collision with an already
// issued or registered number the sequence advances and the draw repeats, up
// to Options.Retries times; exhaustion surfaces as ErrExhausted and usually
// means the issued set was flooded by external registration.
func (g *Generator) Generate(ctx context.Context, opts Options) (string, error) {
	const op = "bookingnum.Generator.Generate"

	retries := opts.Retries
	if retries <= 0 {
		retries = 10
	}

	var last string
	for attempt := 0; attempt < retries; attempt++ {
		candidate, err := g.build(ctx, opts)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}

		g.mu.Lock()
		_, taken := g.issued[candidate]
		if !taken {
			g.issued[candidate] = struct{}{}
		}
		g.mu.Unlock()

		if !taken {
			return candidate, nil
		}
		last = candidate
	}

	return "", fmt.Errorf("%s: %w", op, ExhaustedError{Attempts: retries, Last: last})
}

// GenerateBatch issues count numbers serially on this instance.
func (g *Generator) GenerateBatch(ctx context.Context, count int, opts Options) ([]string, error) {
	const op = "bookingnum.Generator.GenerateBatch"

	numbers := make([]string, 0, count)
	for i := 0; i < count; i++ {
		n, err := g.Generate(ctx, opts)
		if err != nil {
			return numbers, fmt.Errorf("%s: %w", op, err)
		}
		numbers = append(numbers, n)
	}

	return numbers, nil
}

func (g *Generator) build(ctx context.Context, opts Options) (string, error) {
	prefix := g.cfg.Prefix
	if opts.CustomPrefix != "" {
		prefix = opts.CustomPrefix
	}

	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}

	switch g.cfg.Format {
	case FormatSequential:
		seq, err := g.cfg.Provider.Next(ctx, "sequential")
		if err != nil {
			return "", err
		}
		return prefix + pad(seq, g.cfg.SequenceLength), nil

	case FormatYearSequential:
		yy := date.Format("06")
		seq, err := g.cfg.Provider.Next(ctx, "year_"+yy)
		if err != nil {
			return "", err
		}
		return prefix + yy + pad(seq, g.cfg.SequenceLength), nil

	case FormatYearMonthSequential:
		yymm := date.Format("0601")
		seq, err := g.cfg.Provider.Next(ctx, "year_month_"+yymm)
		if err != nil {
			return "", err
		}
		return prefix + yymm + pad(seq, g.cfg.SequenceLength), nil

	case FormatDateSequential:
		ymd := date.Format("20060102")
		seq, err := g.cfg.Provider.Next(ctx, "date_"+ymd)
		if err != nil {
			return "", err
		}
		return prefix + ymd + pad(seq, 3), nil

	case FormatYachtSequential:
		if opts.YachtID == "" && opts.CustomPrefix == "" {
			return "", ErrYachtRequired
		}
		code := opts.CustomPrefix
		keyID := strings.ToLower(opts.CustomPrefix)
		if opts.YachtID != "" {
			code = YachtCode(opts.YachtID)
			keyID = strings.ToLower(strings.TrimSpace(opts.YachtID))
		}
		seq, err := g.cfg.Provider.Next(ctx, "yacht_"+keyID)
		if err != nil {
			return "", err
		}
		return code + pad(seq, g.cfg.SequenceLength), nil

	case FormatCustom:
		return g.buildCustom(ctx, prefix, date, opts)

	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, g.cfg.Format)
	}
}

func (g *Generator) buildCustom(ctx context.Context, prefix string, date time.Time, opts Options) (string, error) {
	if g.cfg.Custom == nil || g.cfg.Custom.Template == "" {
		return "", ErrTemplateMissing
	}

	tc := TokenContext{
		Prefix:  prefix,
		YachtID: opts.YachtID,
		Date:    date,
	}

	// Fetch the sequence once per draw, and only when the template asks
	// for it, so unrelated templates do not burn counter values.
	needsSeq := false
	for _, m := range tokenRe.FindAllStringSubmatch(g.cfg.Custom.Template, -1) {
		if tok, ok := g.lookupToken(m[1]); ok && tok.Kind == TokenSequence {
			needsSeq = true
			break
		}
	}
	if needsSeq {
		seq, err := g.cfg.Provider.Next(ctx, "custom")
		if err != nil {
			return "", err
		}
		tc.Sequence = seq
	}

	var unknown error
	out := tokenRe.ReplaceAllStringFunc(g.cfg.Custom.Template, func(m string) string {
		name := m[1 : len(m)-1]
		tok, ok := g.lookupToken(name)
		if !ok {
			if unknown == nil {
				unknown = UnknownTokenError{Token: name}
			}
			return m
		}
		return evalToken(tok, tc, g.cfg.SequenceLength)
	})
	if unknown != nil {
		return "", unknown
	}

	return out, nil
}

func (g *Generator) lookupToken(name string) (Token, bool) {
	if g.cfg.Custom != nil && g.cfg.Custom.Tokens != nil {
		if tok, ok := g.cfg.Custom.Tokens[name]; ok {
			return tok, true
		}
	}
	tok, ok := DefaultTokens()[name]
	return tok, ok
}

type Validation struct {
	Valid bool   `json:"isValid"`
	Err   string `json:"error,omitempty"`
}

// Validate checks number against the pattern of the given format (the
// configured format when empty) and against the issued set. Read-only.
func (g *Generator) Validate(number string, format Format) Validation {
	if strings.TrimSpace(number) == "" {
		return Validation{Err: "booking number is empty"}
	}

	if format == "" {
		format = g.cfg.Format
	}

	re, ok := formatPatterns[format]
	if !ok {
		// Custom formats have no fixed shape; only the issued set applies.
		if format != FormatCustom {
			return Validation{Err: fmt.Sprintf("unknown format %q", format)}
		}
	} else if !re.MatchString(number) {
		return Validation{Err: fmt.Sprintf("does not match %s format", format)}
	}

	g.mu.Lock()
	_, taken := g.issued[number]
	g.mu.Unlock()
	if taken {
		return Validation{Err: "booking number already in use"}
	}

	return Validation{Valid: true}
}

// Components is the best-effort decomposition of a booking number.
type Components struct {
	Valid    bool   `json:"isValid"`
	Format   Format `json:"format,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Year     string `json:"year,omitempty"`
	Month    string `json:"month,omitempty"`
	Day      string `json:"day,omitempty"`
	Sequence int64  `json:"sequence,omitempty"`
}

// Parse detects which format number matches and extracts its components.
// Detection tries the most specific patterns first and is best-effort: a
// year-month number with a long sequence can shadow a plain sequential one.
// Never fails; unmatchable input yields Valid=false.
func (g *Generator) Parse(number string) Components {
	number = strings.TrimSpace(number)
	if number == "" {
		return Components{}
	}

	for _, f := range parseOrder {
		m := formatPatterns[f].FindStringSubmatch(number)
		if m == nil {
			continue
		}

		c := Components{Valid: true, Format: f, Prefix: m[1]}
		switch f {
		case FormatSequential, FormatYachtSequential:
			c.Sequence = parseSeq(m[2])
		case FormatYearSequential:
			c.Year = m[2]
			c.Sequence = parseSeq(m[3])
		case FormatYearMonthSequential:
			c.Year = m[2]
			c.Month = m[3]
			c.Sequence = parseSeq(m[4])
		case FormatDateSequential:
			c.Year = m[2]
			c.Month = m[3]
			c.Day = m[4]
			c.Sequence = parseSeq(m[5])
		}
		return c
	}

	return Components{}
}

func parseSeq(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

// RegisterExisting seeds the issued set from persisted numbers, typically at
// startup. Blank entries are ignored; re-registering is a no-op. Returns the
// number of entries added.
func (g *Generator) RegisterExisting(numbers []string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	added := 0
	for _, n := range numbers {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := g.issued[n]; !ok {
			g.issued[n] = struct{}{}
			added++
		}
	}
	return added
}

// NextSequence advances and returns the counter for key.
func (g *Generator) NextSequence(ctx context.Context, key string) (int64, error) {
	return g.cfg.Provider.Next(ctx, key)
}

// SetSequence overwrites the counter for key, for administrative correction.
func (g *Generator) SetSequence(ctx context.Context, key string, value int64) error {
	return g.cfg.Provider.Set(ctx, key, value)
}

// ResetSequences drops every counter. The issued set is left intact.
func (g *Generator) ResetSequences(ctx context.Context) error {
	return g.cfg.Provider.Reset(ctx)
}
