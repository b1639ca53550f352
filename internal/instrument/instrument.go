// Package instrument decodes the fixed-format instrument codes published with
// listed-option snapshots.
//
// A code is 11 ASCII characters:
//
//	O C E 2025 12 31
//	| | | |
//	| | | +-- expiration date, yyyymmdd
//	| | +---- exercise style: E (European) | A (American)
//	| +------ option kind:    C (Call)     | P (Put)
//	+-------- sentinel 'O'
package instrument

import (
	"fmt"
	"time"
)

const (
	// CodeLength is the exact length of a well-formed instrument code.
	CodeLength = 11

	// Sentinel is the required first character.
	Sentinel = 'O'

	// DateLayout is the day-month-year layout used for every date handed
	// downstream.
	DateLayout = "02-01-2006"

	codeDateLayout = "20060102"
)

// OptionKind is the call/put flag of a contract.
type OptionKind string

const (
	Call        OptionKind = "Call"
	Put         OptionKind = "Put"
	UnknownKind OptionKind = "Unknown"
)

// IsCall reports whether the kind prices as a call. Unknown prices as a put,
// matching how the snapshot pipeline has always treated it.
func (k OptionKind) IsCall() bool { return k == Call }

// ExerciseStyle is the labeled exercise style. Pricing ignores it.
type ExerciseStyle string

const (
	European     ExerciseStyle = "European"
	American     ExerciseStyle = "American"
	UnknownStyle ExerciseStyle = "Unknown"
)

// Parsed is the decoded form of an instrument code.
type Parsed struct {
	Kind       OptionKind
	Style      ExerciseStyle
	Expiration time.Time
}

// ExpirationDate returns the expiration as dd-mm-yyyy text.
func (p Parsed) ExpirationDate() string {
	return p.Expiration.Format(DateLayout)
}

// MalformedCodeError reports a code that does not follow the fixed format.
type MalformedCodeError struct {
	Code   string
	Reason string
}

func (e *MalformedCodeError) Error() string {
	return fmt.Sprintf("malformed instrument code %q: %s", e.Code, e.Reason)
}

// Parse decodes an instrument code.
func Parse(code string) (Parsed, error) {
	if len(code) != CodeLength {
		return Parsed{}, &MalformedCodeError{Code: code, Reason: fmt.Sprintf("length %d, want %d", len(code), CodeLength)}
	}
	if code[0] != Sentinel {
		return Parsed{}, &MalformedCodeError{Code: code, Reason: fmt.Sprintf("prefix %q, want %q", code[0], Sentinel)}
	}

	raw := code[3:]
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return Parsed{}, &MalformedCodeError{Code: code, Reason: "expiration is not an 8-digit date"}
		}
	}
	exp, err := time.Parse(codeDateLayout, raw)
	if err != nil {
		return Parsed{}, &MalformedCodeError{Code: code, Reason: fmt.Sprintf("expiration: %v", err)}
	}

	return Parsed{
		Kind:       parseKind(code[1]),
		Style:      parseStyle(code[2]),
		Expiration: exp,
	}, nil
}

func parseKind(b byte) OptionKind {
	switch b {
	case 'C':
		return Call
	case 'P':
		return Put
	}
	return UnknownKind
}

func parseStyle(b byte) ExerciseStyle {
	switch b {
	case 'E':
		return European
	case 'A':
		return American
	}
	return UnknownStyle
}

// ParseDate parses a dd-mm-yyyy calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
