package pricing

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// BlackScholesPrice calculates the price of a European option using the Black-Scholes model.
//
// Parameters:
//   - isCall: true for call option, false for put option
//   - S: spot price of the underlying asset
//   - K: strike price of the option
//   - T: time to expiry in years
//   - r: risk-free interest rate (annual)
//   - sigma: volatility of the underlying asset (annual, as a decimal)
//
// Returns:
//
//	The theoretical price of the option. If time to expiry or volatility is zero or
//	negative the price is 0, which keeps d1/d2 finite for the solver.
//
// American contracts are priced with the same closed form; there is no early-exercise
// or dividend adjustment.
func BlackScholesPrice(
	isCall bool,
	S float64, // spot
	K float64, // strike
	T float64, // time to expiry in years
	r float64, // risk-free rate
	sigma float64, // volatility
) float64 {

	if T <= 0 || sigma <= 0 {
		return 0
	}

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	if isCall {
		return S*normCDF(d1) - K*math.Exp(-r*T)*normCDF(d2)
	}
	return K*math.Exp(-r*T)*normCDF(-d2) - S*normCDF(-d1)
}

// zeroVolPrice is the limit of BlackScholesPrice as sigma -> 0+, the discounted
// intrinsic value. No market price at or below it has a positive implied vol.
func zeroVolPrice(isCall bool, S, K, T, r float64) float64 {
	if T <= 0 {
		return 0
	}
	fwdStrike := K * math.Exp(-r*T)
	if isCall {
		return math.Max(0, S-fwdStrike)
	}
	return math.Max(0, fwdStrike-S)
}


// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}
