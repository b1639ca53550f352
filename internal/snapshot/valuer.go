package snapshot

import (
	"github.com/contactkeval/option-iv/internal/pricing"
	"github.com/contactkeval/option-iv/internal/quote"
)

// DefaultRiskFreeRate is used when no rate is configured.
const DefaultRiskFreeRate = 0.03

// Valuation is the computed part of a record.
type Valuation struct {
	T  float64
	IV pricing.IV
}

// Valuer computes time to expiry and implied volatility for a quote.
type Valuer struct {
	RiskFreeRate float64
	Solver       pricing.Solver
}

// NewValuer returns a Valuer with the default solver bracket.
func NewValuer(rate float64) Valuer {
	return Valuer{RiskFreeRate: rate, Solver: pricing.DefaultSolver()}
}

// Value prices one quote. Every contract is valued with the European closed
// form regardless of its labeled exercise style.
func (v Valuer) Value(q quote.OptionQuote) Valuation {
	T := pricing.TimeToExpiry(q.SnapshotDate, q.Instrument.Expiration)
	iv := v.Solver.Solve(q.Instrument.Kind.IsCall(), q.Underlying, q.Strike, T, v.RiskFreeRate, q.Premium)
	return Valuation{T: T, IV: iv}
}
