// Package snapshot assembles valued output records from raw snapshot rows.
//
// A raw row is what the scraper hands over: the instrument code plus
// locale-formatted prices. Build decodes each row, values it and returns one
// record per contract, skipping only rows whose code or date cannot be read.
package snapshot

import (
	"github.com/contactkeval/option-iv/internal/instrument"
	"github.com/contactkeval/option-iv/internal/pricing"
)

// RawRow is one contract as scraped, all fields still text.
type RawRow struct {
	Code            string `csv:"code" json:"code"`
	ExecutionDate   string `csv:"execution_date" json:"execution_date"`
	UnderlyingPrice string `csv:"price_today" json:"price_today"`
	StrikePrice     string `csv:"strike_price" json:"strike_price"`
	OptionPrice     string `csv:"last_option_price" json:"last_option_price"`
}

// Record is a raw row plus the decoded instrument and valuation. Field order
// and names follow the stored table so a natural key can be built from
// ExpirationDate, Kind, Style, StrikePrice and ExecutionDate.
type Record struct {
	ExecutionDate   string                   `csv:"execution_date" json:"execution_date"`
	UnderlyingPrice string                   `csv:"price_today" json:"price_today"`
	Kind            instrument.OptionKind    `csv:"type_CP" json:"type_CP"`
	Style           instrument.ExerciseStyle `csv:"type_EA" json:"type_EA"`
	ExpirationDate  string                   `csv:"expiration_date" json:"expiration_date"`
	StrikePrice     string                   `csv:"strike_price" json:"strike_price"`
	OptionPrice     string                   `csv:"last_option_price" json:"last_option_price"`
	T               float64                  `csv:"T" json:"T"`
	IV              pricing.IV               `csv:"IV" json:"IV"`
	Code            string                   `csv:"code" json:"code"`
}

// RowError is a row Build could not turn into a record.
type RowError struct {
	Index int
	Row   RawRow
	Err   error
}

func (e RowError) Error() string { return e.Err.Error() }

func (e RowError) Unwrap() error { return e.Err }
