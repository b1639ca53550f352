// Package quote turns snapshot text into numeric option quotes.
//
// Exchange pages publish prices in Spanish locale text: '.' groups thousands
// and ',' separates decimals ("10.123,5"). All locale handling lives here so
// pricing code only ever sees float64.
package quote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NumericParseError reports locale text that is not a number.
type NumericParseError struct {
	Field string
	Text  string
	Err   error
}

func (e *NumericParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("parse number %q: %v", e.Text, e.Err)
	}
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Text, e.Err)
}

func (e *NumericParseError) Unwrap() error { return e.Err }

var (
	localeCleaner = strings.NewReplacer(".", "", " ", "", "\u00a0", "")
	localePrinter = message.NewPrinter(language.Spanish)
)

// NormalizeLocaleDecimal rewrites locale text into plain decimal text:
// thousands dots and spaces are dropped and the decimal comma becomes a dot.
func NormalizeLocaleDecimal(s string) string {
	s = localeCleaner.Replace(strings.TrimSpace(s))
	return strings.Replace(s, ",", ".", 1)
}

// ParseLocaleDecimal parses locale text such as "10.123,50" into a float.
func ParseLocaleDecimal(s string) (float64, error) {
	norm := NormalizeLocaleDecimal(s)
	if norm == "" {
		return 0, &NumericParseError{Text: s, Err: fmt.Errorf("empty value")}
	}
	d, err := decimal.NewFromString(norm)
	if err != nil {
		return 0, &NumericParseError{Text: s, Err: err}
	}
	f, _ := d.Float64()
	return f, nil
}

// ParseField is ParseLocaleDecimal with the field name attached to errors.
func ParseField(field, s string) (float64, error) {
	f, err := ParseLocaleDecimal(s)
	if err != nil {
		var npe *NumericParseError
		if errors.As(err, &npe) {
			npe.Field = field
		}
		return 0, err
	}
	return f, nil
}

// FormatLocaleDecimal renders v with the given number of decimals in the
// same locale the exchange uses.
func FormatLocaleDecimal(v float64, decimals int) string {
	return localePrinter.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}
