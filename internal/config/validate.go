package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/contactkeval/option-iv/internal/pricing"
)

// Validate checks a config after defaults have been applied.
func (c *Config) Validate() error {
	var errs []error

	if r := c.Rate(); math.IsNaN(r) || math.IsInf(r, 0) {
		errs = append(errs, fmt.Errorf("risk_free_rate must be finite"))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if c.Solver.Lower != nil && *c.Solver.Lower < 0 {
		errs = append(errs, fmt.Errorf("solver.lower must be >= 0, got %g", *c.Solver.Lower))
	}
	if c.Solver.Lower != nil && c.Solver.Upper <= *c.Solver.Lower {
		errs = append(errs, fmt.Errorf("solver.upper (%g) must exceed solver.lower (%g)", c.Solver.Upper, *c.Solver.Lower))
	}
	if c.Solver.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("solver.tolerance must be positive"))
	}
	if c.Solver.MaxIterations < 1 {
		errs = append(errs, fmt.Errorf("solver.max_iterations must be >= 1"))
	}
	if c.Server.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("server.cache_ttl must not be negative"))
	}

	return errors.Join(errs...)
}

// PricingSolver converts the solver section.
func (c *Config) PricingSolver() pricing.Solver {
	s := pricing.DefaultSolver()
	if c.Solver.Lower != nil {
		s.Lower = *c.Solver.Lower
	}
	if c.Solver.Upper > 0 {
		s.Upper = c.Solver.Upper
	}
	if c.Solver.Tolerance > 0 {
		s.Tolerance = c.Solver.Tolerance
	}
	if c.Solver.MaxIterations > 0 {
		s.MaxIter = c.Solver.MaxIterations
	}
	return s
}
