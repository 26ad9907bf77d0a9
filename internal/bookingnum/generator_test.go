package bookingnum

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var july2024 = time.Date(2024, time.July, 15, 10, 0, 0, 0, time.UTC)

func TestGenerateYearMonthSequential(t *testing.T) {
	g := New(Config{Format: FormatYearMonthSequential, Prefix: "BK", SequenceLength: 3})

	ctx := context.Background()
	opts := Options{Date: july2024}

	for i, want := range []string{"BK2407001", "BK2407002", "BK2407003"} {
		got, err := g.Generate(ctx, opts)
		require.NoError(t, err, "draw %d", i+1)
		assert.Equal(t, want, got)
	}
}

func TestGenerateFormats(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		opts Options
		want string
	}{
		{
			name: "sequential",
			cfg:  Config{Format: FormatSequential, Prefix: "BK"},
			want: "BK001",
		},
		{
			name: "year sequential",
			cfg:  Config{Format: FormatYearSequential, Prefix: "BK"},
			opts: Options{Date: july2024},
			want: "BK24001",
		},
		{
			name: "date sequential",
			cfg:  Config{Format: FormatDateSequential, Prefix: "BK"},
			opts: Options{Date: july2024},
			want: "BK20240715001",
		},
		{
			name: "yacht sequential uses fleet code",
			cfg:  Config{Format: FormatYachtSequential},
			opts: Options{YachtID: "spectre", Date: july2024},
			want: "SP001",
		},
		{
			name: "yacht sequential falls back to first two letters",
			cfg:  Config{Format: FormatYachtSequential},
			opts: Options{YachtID: "nautilus"},
			want: "NA001",
		},
		{
			name: "wider sequence length",
			cfg:  Config{Format: FormatSequential, Prefix: "CH", SequenceLength: 5},
			want: "CH00001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.cfg).Generate(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateYachtRequiresID(t *testing.T) {
	g := New(Config{Format: FormatYachtSequential})

	_, err := g.Generate(context.Background(), Options{})
	require.ErrorIs(t, err, ErrYachtRequired)
}

func TestGenerateSequenceScopes(t *testing.T) {
	// Counters are scoped per yacht: two yachts each start at 001.
	g := New(Config{Format: FormatYachtSequential})
	ctx := context.Background()

	a, err := g.Generate(ctx, Options{YachtID: "spectre"})
	require.NoError(t, err)
	b, err := g.Generate(ctx, Options{YachtID: "mattina"})
	require.NoError(t, err)
	c, err := g.Generate(ctx, Options{YachtID: "spectre"})
	require.NoError(t, err)

	assert.Equal(t, "SP001", a)
	assert.Equal(t, "MT001", b)
	assert.Equal(t, "SP002", c)
}

func TestGenerateUnique(t *testing.T) {
	g := New(Config{Format: FormatYearMonthSequential, Prefix: "BK"})
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		n, err := g.Generate(ctx, Options{Date: july2024})
		require.NoError(t, err)
		_, dup := seen[n]
		require.False(t, dup, "duplicate number %s", n)
		seen[n] = struct{}{}
	}
}

func TestGenerateSkipsRegistered(t *testing.T) {
	g := New(Config{Format: FormatYearMonthSequential, Prefix: "BK"})

	added := g.RegisterExisting([]string{"BK2407001", "BK2407002", "", "  ", "BK2407001"})
	assert.Equal(t, 2, added)

	got, err := g.Generate(context.Background(), Options{Date: july2024})
	require.NoError(t, err)
	assert.Equal(t, "BK2407003", got)
}

func TestGenerateExhaustion(t *testing.T) {
	g := New(Config{Format: FormatYearMonthSequential, Prefix: "BK"})

	// Flood every candidate the default retry budget can reach.
	flood := make([]string, 0, 64)
	for i := 1; i <= 64; i++ {
		flood = append(flood, fmt.Sprintf("BK2407%03d", i))
	}
	g.RegisterExisting(flood)

	_, err := g.Generate(context.Background(), Options{Date: july2024})
	require.ErrorIs(t, err, ErrExhausted)

	var exhausted ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 10, exhausted.Attempts)
	assert.Equal(t, "BK2407010", exhausted.Last)
}

func TestGenerateBatch(t *testing.T) {
	g := New(Config{Format: FormatSequential, Prefix: "BK"})

	numbers, err := g.GenerateBatch(context.Background(), 5, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"BK001", "BK002", "BK003", "BK004", "BK005"}, numbers)
}

func TestGenerateCustomTemplate(t *testing.T) {
	g := New(Config{
		Format:         FormatCustom,
		Prefix:         "CH",
		SequenceLength: 3,
		Custom: &CustomFormat{
			Template: "{prefix}-{year}{month}-{yacht_code}-{sequence}",
		},
	})

	got, err := g.Generate(context.Background(), Options{YachtID: "alrisha", Date: july2024})
	require.NoError(t, err)
	assert.Equal(t, "CH-2407-AL-001", got)
}

func TestGenerateCustomToken(t *testing.T) {
	g := New(Config{
		Format: FormatCustom,
		Prefix: "CH",
		Custom: &CustomFormat{
			Template: "{prefix}{season}{sequence}",
			Tokens: map[string]Token{
				"season": {Kind: TokenCustom, Generate: func(tc TokenContext) string {
					if tc.Date.Month() >= time.May && tc.Date.Month() <= time.September {
						return "S"
					}
					return "W"
				}},
			},
		},
	})

	got, err := g.Generate(context.Background(), Options{Date: july2024})
	require.NoError(t, err)
	assert.Equal(t, "CHS001", got)
}

func TestGenerateCustomUnknownToken(t *testing.T) {
	g := New(Config{
		Format: FormatCustom,
		Custom: &CustomFormat{Template: "{prefix}-{flavor}"},
	})

	_, err := g.Generate(context.Background(), Options{})

	var unk UnknownTokenError
	require.ErrorAs(t, err, &unk)
	assert.Equal(t, "flavor", unk.Token)
}

func TestGenerateCustomMissingTemplate(t *testing.T) {
	g := New(Config{Format: FormatCustom})

	_, err := g.Generate(context.Background(), Options{})
	require.ErrorIs(t, err, ErrTemplateMissing)
}

func TestGenerateCustomSequenceOnlyWhenUsed(t *testing.T) {
	// A template without {sequence} must not burn counter values.
	p := NewMemoryProvider()
	g := New(Config{
		Format:   FormatCustom,
		Prefix:   "CH",
		Custom:   &CustomFormat{Template: "{prefix}-{year}"},
		Provider: p,
	})

	_, err := g.Generate(context.Background(), Options{Date: july2024})
	require.NoError(t, err)

	next, err := p.Next(context.Background(), "custom")
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
}

func TestValidate(t *testing.T) {
	g := New(Config{Format: FormatYearMonthSequential, Prefix: "BK"})
	g.RegisterExisting([]string{"BK2407001"})

	tests := []struct {
		name    string
		number  string
		format  Format
		valid   bool
		wantErr string
	}{
		{name: "valid year month", number: "BK2407002", valid: true},
		{name: "taken number", number: "BK2407001", wantErr: "already in use"},
		{name: "empty", number: "  ", wantErr: "empty"},
		{name: "wrong shape", number: "2407001", wantErr: "does not match"},
		{name: "explicit format", number: "SP001", format: FormatYachtSequential, valid: true},
		{name: "explicit format mismatch", number: "BOOKING001", format: FormatYachtSequential, wantErr: "does not match"},
		{name: "unknown format", number: "BK001", format: Format("bogus"), wantErr: "unknown format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := g.Validate(tt.number, tt.format)
			assert.Equal(t, tt.valid, v.Valid)
			if tt.wantErr != "" {
				assert.Contains(t, v.Err, tt.wantErr)
			}
		})
	}
}

func TestParse(t *testing.T) {
	g := New(Config{})

	tests := []struct {
		name   string
		number string
		want   Components
	}{
		{
			name:   "date sequential",
			number: "BK20240715001",
			want:   Components{Valid: true, Format: FormatDateSequential, Prefix: "BK", Year: "2024", Month: "07", Day: "15", Sequence: 1},
		},
		{
			name:   "year month sequential",
			number: "BK2407012",
			want:   Components{Valid: true, Format: FormatYearMonthSequential, Prefix: "BK", Year: "24", Month: "07", Sequence: 12},
		},
		{
			name:   "plain sequential with long prefix",
			number: "CHARTER042",
			want:   Components{Valid: true, Format: FormatSequential, Prefix: "CHARTER", Sequence: 42},
		},
		{
			name:   "garbage",
			number: "not-a-number",
			want:   Components{},
		},
		{
			name:   "empty",
			number: "",
			want:   Components{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Parse(tt.number))
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	g := New(Config{Format: FormatDateSequential, Prefix: "BK"})

	n, err := g.Generate(context.Background(), Options{Date: july2024})
	require.NoError(t, err)

	c := g.Parse(n)
	require.True(t, c.Valid)
	assert.Equal(t, FormatDateSequential, c.Format)
	assert.Equal(t, "BK", c.Prefix)
	assert.Equal(t, "2024", c.Year)
	assert.Equal(t, "07", c.Month)
	assert.Equal(t, "15", c.Day)
	assert.Equal(t, int64(1), c.Sequence)
}

func TestSequenceAdministration(t *testing.T) {
	g := New(Config{Format: FormatSequential, Prefix: "BK"})
	ctx := context.Background()

	require.NoError(t, g.SetSequence(ctx, "sequential", 40))

	v, err := g.NextSequence(ctx, "sequential")
	require.NoError(t, err)
	assert.Equal(t, int64(41), v)

	n, err := g.Generate(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, "BK042", n)

	require.NoError(t, g.ResetSequences(ctx))

	n, err = g.Generate(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, "BK001", n)
}

type failingProvider struct{}

func (failingProvider) Next(context.Context, string) (int64, error) {
	return 0, errors.New("provider down")
}
func (failingProvider) Set(context.Context, string, int64) error { return errors.New("provider down") }
func (failingProvider) Reset(context.Context) error              { return errors.New("provider down") }

func TestGenerateProviderError(t *testing.T) {
	g := New(Config{Format: FormatSequential, Provider: failingProvider{}})

	_, err := g.Generate(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}

func TestYachtCode(t *testing.T) {
	assert.Equal(t, "SP", YachtCode("spectre"))
	assert.Equal(t, "CJ", YachtCode(" Calico-Jack "))
	assert.Equal(t, "ZE", YachtCode("zephyr"))
	assert.Equal(t, "X", YachtCode("x"))
	assert.Equal(t, "", YachtCode(""))
}
