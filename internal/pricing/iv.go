package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrDegenerateInput is the reason attached to an undefined IV when the solve
// is not attempted: expired or zero-priced quotes, or non-finite inputs.
var ErrDegenerateInput = errors.New("degenerate valuation input")

// IV is the outcome of an implied volatility solve: either a defined
// volatility or undefined. The zero value is undefined.
type IV struct {
	value   float64
	defined bool
	reason  error
}

// DefinedIV wraps a solved volatility.
func DefinedIV(v float64) IV {
	return IV{value: v, defined: true}
}

// UndefinedIV returns an undefined IV carrying the reason.
func UndefinedIV(reason error) IV {
	return IV{reason: reason}
}

// Value returns the volatility and whether it is defined.
func (iv IV) Value() (float64, bool) {
	return iv.value, iv.defined
}

// IsDefined reports whether a volatility was found.
func (iv IV) IsDefined() bool { return iv.defined }

// Reason explains an undefined IV. It is nil for defined values.
func (iv IV) Reason() error { return iv.reason }

// Float returns the volatility, or NaN when undefined. Use it only at the
// storage boundary where a float sentinel is expected.
func (iv IV) Float() float64 {
	if !iv.defined {
		return math.NaN()
	}
	return iv.value
}

// String formats the IV as text; undefined renders as "NaN".
func (iv IV) String() string {
	if !iv.defined {
		return "NaN"
	}
	return strconv.FormatFloat(iv.value, 'g', -1, 64)
}

// MarshalJSON encodes undefined as null.
func (iv IV) MarshalJSON() ([]byte, error) {
	if !iv.defined {
		return []byte("null"), nil
	}
	return json.Marshal(iv.value)
}

// UnmarshalJSON accepts a number or null.
func (iv *IV) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*iv = IV{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("decode iv: %w", err)
	}
	*iv = DefinedIV(v)
	return nil
}

// ParseIV reads the text form produced by String. NaN, empty and
// unparsable text are all undefined.
func ParseIV(s string) IV {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return IV{}
	}
	return DefinedIV(v)
}

// Solver inverts BlackScholesPrice over a volatility bracket.
type Solver struct {
	Lower     float64 // lower bracket, usually 0
	Upper     float64 // upper bracket; 10 = 1000% annualized
	Tolerance float64 // absolute tolerance on sigma
	MaxIter   int
}

// DefaultSolver brackets sigma in (0, 10].
func DefaultSolver() Solver {
	return Solver{
		Lower:     0,
		Upper:     10,
		Tolerance: 1e-12,
		MaxIter:   200,
	}
}

func (s Solver) withDefaults() Solver {
	def := DefaultSolver()
	if s.Upper <= 0 {
		s.Upper = def.Upper
	}
	if s.Tolerance <= 0 {
		s.Tolerance = def.Tolerance
	}
	if s.MaxIter <= 0 {
		s.MaxIter = def.MaxIter
	}
	return s
}

// ImpliedVolatility solves with the default solver.
func ImpliedVolatility(isCall bool, S, K, T, r, marketPrice float64) IV {
	return DefaultSolver().Solve(isCall, S, K, T, r, marketPrice)
}

// Solve returns the sigma for which BlackScholesPrice equals marketPrice.
//
// The solve is skipped (undefined) when T or marketPrice is zero, or any input
// is non-finite. A price with no root inside the bracket, for example above
// the sigma=Upper price or at/below discounted intrinsic value, is undefined too.
// Zero Upper, Tolerance or MaxIter take their DefaultSolver values.
func (s Solver) Solve(isCall bool, S, K, T, r, marketPrice float64) IV {
	s = s.withDefaults()
	if T == 0 || marketPrice == 0 {
		return UndefinedIV(fmt.Errorf("%w: T=%g price=%g", ErrDegenerateInput, T, marketPrice))
	}
	for _, x := range []float64{S, K, T, r, marketPrice} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return UndefinedIV(fmt.Errorf("%w: non-finite input", ErrDegenerateInput))
		}
	}
	if S <= 0 || K <= 0 {
		return UndefinedIV(fmt.Errorf("%w: S=%g K=%g", ErrDegenerateInput, S, K))
	}

	f := func(sigma float64) float64 {
		return BlackScholesPrice(isCall, S, K, T, r, sigma) - marketPrice
	}

	// The pricer returns 0 at sigma <= 0; use the sigma -> 0+ limit instead so
	// the objective is continuous on the bracket.
	fLo := f(s.Lower)
	if s.Lower <= 0 {
		fLo = zeroVolPrice(isCall, S, K, T, r) - marketPrice
	}
	fHi := f(s.Upper)

	sigma, err := brentRoot(f, s.Lower, s.Upper, fLo, fHi, s.Tolerance, s.MaxIter)
	if err != nil {
		return UndefinedIV(err)
	}
	if sigma <= 0 {
		return UndefinedIV(fmt.Errorf("%w: root at sigma=%g", ErrNoBracket, sigma))
	}
	return DefinedIV(sigma)
}

// MarshalCSV writes the text form used in snapshot files.
func (iv IV) MarshalCSV() (string, error) {
	return iv.String(), nil
}

// UnmarshalCSV reads the text form used in snapshot files.
func (iv *IV) UnmarshalCSV(s string) error {
	*iv = ParseIV(s)
	return nil
}
