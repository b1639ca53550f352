package quote

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-iv/internal/instrument"
)

func TestParseLocaleDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10.000", 10000},
		{"10.123,5", 10123.5},
		{"1.234.567,89", 1234567.89},
		{"0,75", 0.75},
		{"  312,00 ", 312},
		{"9750", 9750},
		{"10 250,25", 10250.25},
		{"-12,5", -12.5},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLocaleDecimal(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseLocaleDecimalErrors(t *testing.T) {
	for _, in := range []string{"", "   ", "-", "n/a", "1,2,3", "12a"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseLocaleDecimal(in)
			require.Error(t, err)

			var npe *NumericParseError
			require.True(t, errors.As(err, &npe))
			assert.Equal(t, in, npe.Text)
		})
	}
}

func TestFormatLocaleDecimalRoundTrip(t *testing.T) {
	for _, v := range []float64{0.5, 12.25, 950, 10000, 10250.75, 1234567.5} {
		s := FormatLocaleDecimal(v, 2)
		got, err := ParseLocaleDecimal(s)
		require.NoError(t, err, s)
		assert.InDelta(t, v, got, 1e-9, s)
	}
}

func TestNew(t *testing.T) {
	parsed, err := instrument.Parse("OCE20251231")
	require.NoError(t, err)
	snap := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	q, err := New(snap, parsed, Prices{Underlying: "10.000", Strike: "10.250", Premium: "512,5"})
	require.NoError(t, err)
	assert.Equal(t, 10000.0, q.Underlying)
	assert.Equal(t, 10250.0, q.Strike)
	assert.Equal(t, 512.5, q.Premium)
	assert.Equal(t, instrument.Call, q.Instrument.Kind)

	_, err = New(snap, parsed, Prices{Underlying: "10.000", Strike: "10.250", Premium: "-"})
	var npe *NumericParseError
	require.True(t, errors.As(err, &npe))
	assert.Equal(t, "last_option_price", npe.Field)
}
