package data

import (
	"context"
	"strings"
	"time"

	"github.com/contactkeval/option-iv/internal/logger"
	"github.com/contactkeval/option-iv/internal/quote"
	"github.com/contactkeval/option-iv/internal/snapshot"
)

// SnapshotProvider supplies the raw rows of one option chain snapshot.
type SnapshotProvider interface {
	GetSnapshotRows(ctx context.Context) ([]snapshot.RawRow, error)
}

// SpotProvider supplies the underlying price when a snapshot lacks it.
type SpotProvider interface {
	Secondary() SpotProvider
	GetSpot(ctx context.Context, underlying string, asOf time.Time) (float64, error)
}

// FillMissingSpot sets the underlying price of rows whose price text is empty
// or unparsable, using one lookup per call. Rows with a usable price are left
// alone. It returns how many rows were filled.
func FillMissingSpot(ctx context.Context, rows []snapshot.RawRow, prov SpotProvider, underlying string, asOf time.Time) (int, error) {
	missing := 0
	for _, r := range rows {
		if !hasPrice(r.UnderlyingPrice) {
			missing++
		}
	}
	if missing == 0 {
		return 0, nil
	}

	spot, err := getSpotWithFallback(ctx, prov, underlying, asOf)
	if err != nil {
		return 0, err
	}

	text := quote.FormatLocaleDecimal(spot, 2)
	logger.Infof("filling %d rows with %s spot %s", missing, underlying, text)
	for i := range rows {
		if !hasPrice(rows[i].UnderlyingPrice) {
			rows[i].UnderlyingPrice = text
		}
	}
	return missing, nil
}

func getSpotWithFallback(ctx context.Context, prov SpotProvider, underlying string, asOf time.Time) (float64, error) {
	spot, err := prov.GetSpot(ctx, underlying, asOf)
	if err != nil && prov.Secondary() != nil {
		logger.Warnf("spot lookup failed, trying secondary provider: %v", err)
		return getSpotWithFallback(ctx, prov.Secondary(), underlying, asOf)
	}
	return spot, err
}

func hasPrice(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	v, err := quote.ParseLocaleDecimal(s)
	return err == nil && v > 0
}
