package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-iv/internal/instrument"
	"github.com/contactkeval/option-iv/internal/pricing"
	"github.com/contactkeval/option-iv/internal/quote"
)

func newBuilder() *Builder {
	return &Builder{Valuer: NewValuer(DefaultRiskFreeRate), ExecutionDate: "01-01-2025"}
}

func callPremium(t *testing.T, vol float64) string {
	t.Helper()
	return premium(t, true, 10000, vol)
}

func premium(t *testing.T, isCall bool, strike, vol float64) string {
	t.Helper()
	snap, _ := instrument.ParseDate("01-01-2025")
	exp, _ := instrument.ParseDate("31-12-2025")
	T := pricing.TimeToExpiry(snap, exp)
	return quote.FormatLocaleDecimal(pricing.BlackScholesPrice(isCall, 10000, strike, T, 0.03, vol), 8)
}

func TestBuildRowEndToEnd(t *testing.T) {
	b := newBuilder()
	rec, err := b.BuildRow(RawRow{
		Code:            "OCE20251231",
		UnderlyingPrice: "10.000",
		StrikePrice:     "10.000",
		OptionPrice:     callPremium(t, 0.20),
	})
	require.NoError(t, err)

	assert.Equal(t, instrument.Call, rec.Kind)
	assert.Equal(t, instrument.European, rec.Style)
	assert.Equal(t, "31-12-2025", rec.ExpirationDate)
	assert.Equal(t, "01-01-2025", rec.ExecutionDate)
	assert.InDelta(t, 0.9972, rec.T, 1e-4)

	iv, ok := rec.IV.Value()
	require.True(t, ok, "%v", rec.IV.Reason())
	assert.InDelta(t, 0.20, iv, 1e-4)
}

func TestBuildRowLabelsPriceEuropean(t *testing.T) {
	cases := []struct {
		code   string
		kind   instrument.OptionKind
		style  instrument.ExerciseStyle
		isCall bool
		vol    float64
	}{
		{"OCA20251231", instrument.Call, instrument.American, true, 0.22},
		{"OPA20251231", instrument.Put, instrument.American, false, 0.27},
		{"OXE20251231", instrument.UnknownKind, instrument.European, false, 0.31},
		{"OXZ20251231", instrument.UnknownKind, instrument.UnknownStyle, false, 0.18},
	}

	b := newBuilder()
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			rec, err := b.BuildRow(RawRow{
				Code:            tc.code,
				UnderlyingPrice: "10.000",
				StrikePrice:     "10.500",
				OptionPrice:     premium(t, tc.isCall, 10500, tc.vol),
			})
			require.NoError(t, err)
			assert.Equal(t, tc.kind, rec.Kind)
			assert.Equal(t, tc.style, rec.Style)

			iv, ok := rec.IV.Value()
			require.True(t, ok, "%v", rec.IV.Reason())
			assert.InDelta(t, tc.vol, iv, 1e-4)
		})
	}
}

func TestZeroBuilderSolves(t *testing.T) {
	b := &Builder{ExecutionDate: "01-01-2025"}
	rec, err := b.BuildRow(RawRow{Code: "OCE20251231", UnderlyingPrice: "10.000", StrikePrice: "10.000", OptionPrice: premium(t, true, 10000, 0.2)})
	require.NoError(t, err)

	// zero rate, so only check that a root was found
	assert.True(t, rec.IV.IsDefined(), "%v", rec.IV.Reason())
}

func TestBuildRowPaddedCodeIsMalformed(t *testing.T) {
	_, err := newBuilder().BuildRow(RawRow{Code: " OCE20251231", UnderlyingPrice: "10.000", StrikePrice: "10.000", OptionPrice: "1"})
	var malformed *instrument.MalformedCodeError
	assert.ErrorAs(t, err, &malformed)
}

func TestBuildRowUsesOwnDate(t *testing.T) {
	b := newBuilder()
	rec, err := b.BuildRow(RawRow{Code: "OPA20251231", ExecutionDate: "31-12-2025", UnderlyingPrice: "10.000", StrikePrice: "9.000", OptionPrice: "10"})
	require.NoError(t, err)
	assert.Equal(t, "31-12-2025", rec.ExecutionDate)
	assert.Equal(t, 0.0, rec.T)
	assert.False(t, rec.IV.IsDefined())
	assert.ErrorIs(t, rec.IV.Reason(), pricing.ErrDegenerateInput)
}

func TestBuildRowBadPriceIsUndefined(t *testing.T) {
	b := newBuilder()
	rec, err := b.BuildRow(RawRow{Code: "OCE20251231", UnderlyingPrice: "10.000", StrikePrice: "10.000", OptionPrice: "-"})
	require.NoError(t, err)
	assert.False(t, rec.IV.IsDefined())

	var npe *quote.NumericParseError
	assert.True(t, errors.As(rec.IV.Reason(), &npe))
	assert.InDelta(t, 0.9972, rec.T, 1e-4)
}

func TestBuildRowMalformedCode(t *testing.T) {
	b := newBuilder()
	_, err := b.BuildRow(RawRow{Code: "XC E20250101"})
	var mce *instrument.MalformedCodeError
	assert.True(t, errors.As(err, &mce))
}

func TestBuildSkipsAndContinues(t *testing.T) {
	rows := []RawRow{
		{Code: "OCE20251231", UnderlyingPrice: "10.000", StrikePrice: "10.000", OptionPrice: callPremium(t, 0.20)},
		{Code: "bad"},
		{Code: "OCE20251231", UnderlyingPrice: "10.000", StrikePrice: "10.000", OptionPrice: "n/a"},
		{Code: "OCE20251231", ExecutionDate: "2025/01/01", UnderlyingPrice: "10.000", StrikePrice: "10.000", OptionPrice: "1"},
		{Code: "OCE20251231", UnderlyingPrice: "10.000", StrikePrice: "10.000", OptionPrice: callPremium(t, 0.35)},
	}

	for _, workers := range []int{0, 1, 4} {
		b := newBuilder()
		b.Workers = workers

		res, err := b.Build(context.Background(), rows)
		require.NoError(t, err)

		require.Len(t, res.Records, 3)
		require.Len(t, res.Skipped, 2)
		assert.Equal(t, 1, res.Skipped[0].Index)
		assert.Equal(t, 3, res.Skipped[1].Index)
		assert.Equal(t, 1, res.Undefined())

		iv0, _ := res.Records[0].IV.Value()
		iv2, _ := res.Records[2].IV.Value()
		assert.InDelta(t, 0.20, iv0, 1e-4)
		assert.InDelta(t, 0.35, iv2, 1e-4)
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newBuilder().Build(ctx, []RawRow{{Code: "OCE20251231"}})
	assert.ErrorIs(t, err, context.Canceled)
}
