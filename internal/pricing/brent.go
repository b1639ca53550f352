package pricing

import (
	"errors"
	"math"
)

var (
	// ErrNoBracket means f does not change sign across the search interval.
	ErrNoBracket = errors.New("root is not bracketed")

	// ErrNotConverged means the iteration cap was hit before the tolerance.
	ErrNotConverged = errors.New("root finder did not converge")
)

const machEps = 2.220446049250313e-16

// brentRoot finds x in [a, b] with f(x) = 0 using Brent's method (inverse
// quadratic interpolation with bisection fallback). fa and fb are f at the
// endpoints and are passed in so callers can supply one-sided limits. The loop
// runs at most maxIter times.
func brentRoot(f func(float64) float64, a, b, fa, fb, tol float64, maxIter int) (float64, error) {
	if math.IsNaN(fa) || math.IsNaN(fb) || fa*fb > 0 {
		return 0, ErrNoBracket
	}
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}

	c, fc := b, fb
	var d, e float64

	for i := 0; i < maxIter; i++ {
		if (fb > 0 && fc > 0) || (fb < 0 && fc < 0) {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}

		tol1 := 2*machEps*math.Abs(b) + 0.5*tol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}

		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			s := fb / fa
			var p, q float64
			if a == c {
				// secant
				p = 2 * xm * s
				q = 1 - s
			} else {
				// inverse quadratic
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)

			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}

		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
	}

	return 0, ErrNotConverged
}
