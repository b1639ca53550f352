package data

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/contactkeval/option-iv/internal/instrument"
	"github.com/contactkeval/option-iv/internal/pricing"
	"github.com/contactkeval/option-iv/internal/quote"
	"github.com/contactkeval/option-iv/internal/snapshot"
)

// SyntheticConfig describes a generated option chain.
type SyntheticConfig struct {
	ExecutionDate time.Time
	Spot          float64
	Vol           float64
	Rate          float64
	Expiries      []time.Time
	StrikeStep    float64 // distance between strikes
	StrikesEach   int     // strikes on each side of the ATM strike
	American      bool
}

// synthDataProvider generates a chain priced with Black-Scholes at a flat
// volatility, rendered in exchange locale text.
type synthDataProvider struct {
	cfg SyntheticConfig
}

func NewSyntheticProvider(cfg SyntheticConfig) *synthDataProvider {
	if cfg.StrikeStep <= 0 {
		cfg.StrikeStep = 100
	}
	return &synthDataProvider{cfg: cfg}
}

func (synthDataProv *synthDataProvider) GetSnapshotRows(ctx context.Context) ([]snapshot.RawRow, error) {
	cfg := synthDataProv.cfg
	if cfg.Spot <= 0 {
		return nil, fmt.Errorf("synthetic spot must be positive, got %g", cfg.Spot)
	}

	style := byte('E')
	if cfg.American {
		style = 'A'
	}

	execDate := cfg.ExecutionDate.Format(instrument.DateLayout)
	spotText := quote.FormatLocaleDecimal(cfg.Spot, 2)
	atm := math.Round(cfg.Spot/cfg.StrikeStep) * cfg.StrikeStep

	var rows []snapshot.RawRow
	for _, exp := range cfg.Expiries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		T := pricing.TimeToExpiry(cfg.ExecutionDate, exp)
		for _, kind := range []byte{'C', 'P'} {
			for i := -cfg.StrikesEach; i <= cfg.StrikesEach; i++ {
				K := atm + float64(i)*cfg.StrikeStep
				if K <= 0 {
					continue
				}
				price := pricing.BlackScholesPrice(kind == 'C', cfg.Spot, K, T, cfg.Rate, cfg.Vol)
				rows = append(rows, snapshot.RawRow{
					Code:            fmt.Sprintf("O%c%c%s", kind, style, exp.Format("20060102")),
					ExecutionDate:   execDate,
					UnderlyingPrice: spotText,
					StrikePrice:     quote.FormatLocaleDecimal(K, 0),
					OptionPrice:     quote.FormatLocaleDecimal(price, 6),
				})
			}
		}
	}
	return rows, nil
}

// syntheticSpot returns a fixed spot; used as the last fallback in a spot
// provider chain.
type syntheticSpot struct {
	spot float64
}

func NewSyntheticSpot(spot float64) SpotProvider { return &syntheticSpot{spot: spot} }

func (s *syntheticSpot) Secondary() SpotProvider { return nil }

func (s *syntheticSpot) GetSpot(ctx context.Context, underlying string, asOf time.Time) (float64, error) {
	if s.spot <= 0 {
		return 0, fmt.Errorf("no synthetic spot for %s", underlying)
	}
	return s.spot, nil
}
