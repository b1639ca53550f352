package pricing

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Simple sanity check: ATM call should have non-zero value
func TestBlackScholesCallBasic(t *testing.T) {
	call := BlackScholesPrice(true, 100, 100, 30.0/365.0, 0.05, 0.20)
	assert.Greater(t, call, 0.0)
}

func TestBlackScholesKnownValue(t *testing.T) {
	// Hull, Options Futures and Other Derivatives, example 15.6
	call := BlackScholesPrice(true, 42, 40, 0.5, 0.10, 0.20)
	put := BlackScholesPrice(false, 42, 40, 0.5, 0.10, 0.20)
	assert.InDelta(t, 4.76, call, 0.01)
	assert.InDelta(t, 0.81, put, 0.01)
}

func TestBlackScholesPutCallParity(t *testing.T) {
	S, K, T, r, sigma := 100.0, 95.0, 45.0/365.0, 0.03, 0.25

	call := BlackScholesPrice(true, S, K, T, r, sigma)
	put := BlackScholesPrice(false, S, K, T, r, sigma)

	lhs := call - put
	rhs := S - K*math.Exp(-r*T)
	assert.InDelta(t, rhs, lhs, 1e-9)
}

func TestBlackScholesDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, BlackScholesPrice(true, 110, 100, 0, 0.03, 0.2))
	assert.Equal(t, 0.0, BlackScholesPrice(false, 90, 100, -0.1, 0.03, 0.2))
	assert.Equal(t, 0.0, BlackScholesPrice(true, 110, 100, 0.5, 0.03, 0))
	assert.Equal(t, 0.0, BlackScholesPrice(false, 90, 100, 0.5, 0.03, -1))
}

func TestBlackScholesMonotonicInSigma(t *testing.T) {
	cases := []struct {
		S, K, T float64
	}{
		{10000, 10000, 1},
		{10000, 8000, 0.25},
		{10000, 12500, 0.1},
		{50, 70, 2},
	}

	for _, c := range cases {
		for _, isCall := range []bool{true, false} {
			prev := BlackScholesPrice(isCall, c.S, c.K, c.T, 0.03, 0.01)
			for sigma := 0.02; sigma <= 10; sigma += 0.05 {
				p := BlackScholesPrice(isCall, c.S, c.K, c.T, 0.03, sigma)
				assert.GreaterOrEqual(t, p, prev, "S=%v K=%v T=%v sigma=%v call=%v", c.S, c.K, c.T, sigma, isCall)
				prev = p
			}
		}
	}
}

func TestTimeToExpiry(t *testing.T) {
	snap := date(2025, 1, 1)

	assert.Equal(t, 0.0, TimeToExpiry(snap, snap))
	assert.InDelta(t, 0.9972, TimeToExpiry(snap, date(2025, 12, 31)), 1e-4)
	assert.InDelta(t, -1.0/365.0, TimeToExpiry(snap, date(2024, 12, 31)), 1e-12)

	// time of day does not matter
	late := time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 0.0, TimeToExpiry(late, snap))

	prev := TimeToExpiry(snap, snap)
	for i := 1; i < 1000; i++ {
		cur := TimeToExpiry(snap, snap.AddDate(0, 0, i))
		assert.Greater(t, cur, prev)
		prev = cur
	}

	// beyond the range of time.Duration
	far := date(2400, 1, 1)
	assert.InDelta(t, float64(far.Unix()-snap.Unix())/86400/365, TimeToExpiry(snap, far), 1e-12)
	assert.InDelta(t, 375.25, TimeToExpiry(snap, far), 0.01)
	assert.Greater(t, TimeToExpiry(snap, date(9999, 12, 31)), TimeToExpiry(snap, far))
	assert.Less(t, TimeToExpiry(snap, date(1, 1, 1)), -2000.0)
}

func TestImpliedVolatilityRoundTrip(t *testing.T) {
	cases := []struct {
		S, K, T, r, sigma float64
	}{
		{10000, 10000, 1, 0.03, 0.20},
		{10000, 9500, 0.5, 0.03, 0.15},
		{10000, 10800, 0.25, 0.03, 0.35},
		{100, 100, 30.0 / 365.0, 0.05, 0.6},
		{100, 120, 2, 0.01, 0.9},
		{42, 40, 0.5, 0.10, 0.20},
		{250, 200, 1.5, 0.0, 1.8},
	}

	for _, c := range cases {
		for _, isCall := range []bool{true, false} {
			price := BlackScholesPrice(isCall, c.S, c.K, c.T, c.r, c.sigma)
			iv := ImpliedVolatility(isCall, c.S, c.K, c.T, c.r, price)

			got, ok := iv.Value()
			require.True(t, ok, "S=%v K=%v call=%v: %v", c.S, c.K, isCall, iv.Reason())
			assert.InDelta(t, c.sigma, got, 1e-4, "S=%v K=%v T=%v call=%v", c.S, c.K, c.T, isCall)
		}
	}
}

func TestImpliedVolatilityEndToEndExample(t *testing.T) {
	T := TimeToExpiry(date(2025, 1, 1), date(2025, 12, 31))
	price := BlackScholesPrice(true, 10000, 10000, T, 0.03, 0.20)

	iv := ImpliedVolatility(true, 10000, 10000, T, 0.03, price)
	got, ok := iv.Value()
	require.True(t, ok)
	assert.InDelta(t, 0.20, got, 1e-4)
}

func TestImpliedVolatilityUndefined(t *testing.T) {
	tests := []struct {
		name   string
		isCall bool
		S, K   float64
		T      float64
		price  float64
		reason error
	}{
		{"expired", true, 100, 100, 0, 5, ErrDegenerateInput},
		{"zero price", true, 100, 100, 0.5, 0, ErrDegenerateInput},
		{"nan price", true, 100, 100, 0.5, math.NaN(), ErrDegenerateInput},
		{"zero spot", false, 0, 100, 0.5, 3, ErrDegenerateInput},
		{"above sigma=10 price", true, 100, 100, 0.5, 1000, ErrNoBracket},
		{"below intrinsic", true, 150, 100, 0.5, 10, ErrNoBracket},
		{"put below intrinsic", false, 50, 100, 0.5, 20, ErrNoBracket},
		{"negative T", true, 100, 100, -0.2, 5, ErrNoBracket},
		{"negative price", false, 100, 100, 0.5, -1, ErrNoBracket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := ImpliedVolatility(tt.isCall, tt.S, tt.K, tt.T, 0.03, tt.price)
			assert.False(t, iv.IsDefined())
			assert.True(t, math.IsNaN(iv.Float()))
			assert.True(t, errors.Is(iv.Reason(), tt.reason), "reason %v", iv.Reason())
		})
	}
}

func TestSolverIterationCap(t *testing.T) {
	s := DefaultSolver()
	s.MaxIter = 1
	price := BlackScholesPrice(true, 100, 100, 1, 0.03, 0.2)

	iv := s.Solve(true, 100, 100, 1, 0.03, price)
	assert.False(t, iv.IsDefined())
	assert.ErrorIs(t, iv.Reason(), ErrNotConverged)
}

func TestZeroSolverUsesDefaults(t *testing.T) {
	price := BlackScholesPrice(true, 100, 100, 1, 0.03, 0.2)

	v, ok := Solver{}.Solve(true, 100, 100, 1, 0.03, price).Value()
	require.True(t, ok)
	assert.InDelta(t, 0.2, v, 1e-8)
}

func TestIVText(t *testing.T) {
	assert.Equal(t, "NaN", IV{}.String())
	assert.Equal(t, "0.25", DefinedIV(0.25).String())

	assert.False(t, ParseIV("NaN").IsDefined())
	assert.False(t, ParseIV("nan").IsDefined())
	assert.False(t, ParseIV("").IsDefined())

	v, ok := ParseIV("0.1834").Value()
	assert.True(t, ok)
	assert.Equal(t, 0.1834, v)
}

func TestIVJSON(t *testing.T) {
	b, err := DefinedIV(0.5).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "0.5", string(b))

	b, err = UndefinedIV(nil).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	var iv IV
	require.NoError(t, iv.UnmarshalJSON([]byte("0.31")))
	assert.True(t, iv.IsDefined())
	require.NoError(t, iv.UnmarshalJSON([]byte("null")))
	assert.False(t, iv.IsDefined())
}

func TestBrentRootPolynomial(t *testing.T) {
	f := func(x float64) float64 { return x*x*x - 2*x - 5 }
	root, err := brentRoot(f, 2, 3, f(2), f(3), 1e-12, 100)
	require.NoError(t, err)
	assert.InDelta(t, 2.0945514815423265, root, 1e-10)

	_, err = brentRoot(f, 3, 4, f(3), f(4), 1e-12, 100)
	assert.ErrorIs(t, err, ErrNoBracket)
}
