package config

import (
	"os"
	"time"
)

const (
	DefaultRiskFreeRate  = 0.03
	DefaultSolverUpper   = 10.0
	DefaultTolerance     = 1e-12
	DefaultMaxIterations = 200
	DefaultDatabasePath  = "options_iv.db"
	DefaultServerAddr    = ":8080"
	DefaultCacheTTL      = time.Minute
	DefaultReportDir     = "out"
	DefaultUnderlying    = "I:IBEX"
	DefaultVerbosity     = 1
)

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.RiskFreeRate == nil {
		r := DefaultRiskFreeRate
		c.RiskFreeRate = &r
	}
	if c.IDIncludesExecutionDate == nil {
		v := true
		c.IDIncludesExecutionDate = &v
	}
	if c.Workers == 0 {
		c.Workers = 1
	}

	if c.Solver.Lower == nil {
		lo := 0.0
		c.Solver.Lower = &lo
	}
	if c.Solver.Upper == 0 {
		c.Solver.Upper = DefaultSolverUpper
	}
	if c.Solver.Tolerance == 0 {
		c.Solver.Tolerance = DefaultTolerance
	}
	if c.Solver.MaxIterations == 0 {
		c.Solver.MaxIterations = DefaultMaxIterations
	}

	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.CacheTTL == 0 {
		c.Server.CacheTTL = DefaultCacheTTL
	}

	if c.Massive.APIKey == "" {
		c.Massive.APIKey = os.Getenv("MASSIVE_API_KEY")
	}
	if c.Massive.Underlying == "" {
		c.Massive.Underlying = DefaultUnderlying
	}

	if c.Report.Dir == "" {
		c.Report.Dir = DefaultReportDir
	}
	if c.Log.Verbosity == nil {
		v := DefaultVerbosity
		c.Log.Verbosity = &v
	}
}
