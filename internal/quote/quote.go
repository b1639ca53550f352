package quote

import (
	"time"

	"github.com/contactkeval/option-iv/internal/instrument"
)

// OptionQuote is one contract from a snapshot with its prices already
// converted to floats.
type OptionQuote struct {
	SnapshotDate time.Time
	Underlying   float64
	Strike       float64
	Premium      float64
	Instrument   instrument.Parsed
}

// Prices holds the three locale-formatted price fields of a raw row.
type Prices struct {
	Underlying string
	Strike     string
	Premium    string
}

// New builds an OptionQuote from a parsed instrument and raw locale prices.
// The first unparsable field is returned as a *NumericParseError.
func New(snapshot time.Time, parsed instrument.Parsed, p Prices) (OptionQuote, error) {
	q := OptionQuote{SnapshotDate: snapshot, Instrument: parsed}

	var err error
	if q.Strike, err = ParseField("strike_price", p.Strike); err != nil {
		return q, err
	}
	if q.Underlying, err = ParseField("price_today", p.Underlying); err != nil {
		return q, err
	}
	if q.Premium, err = ParseField("last_option_price", p.Premium); err != nil {
		return q, err
	}
	return q, nil
}
