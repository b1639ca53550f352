package data

import (
	"context"
	"fmt"
	"time"

	massive "github.com/massive-com/client-go/v2/rest"
	"github.com/massive-com/client-go/v2/rest/models"

	"github.com/contactkeval/option-iv/internal/logger"
)

// previousCloser is the part of the Massive REST client used here.
type previousCloser interface {
	GetPreviousCloseAgg(ctx context.Context, params *models.GetPreviousCloseAggParams, opts ...models.RequestOption) (*models.GetPreviousCloseAggResponse, error)
}

// massiveSpotProvider looks up the underlying's previous close on Massive.
type massiveSpotProvider struct {
	client    previousCloser
	secondary SpotProvider
}

// NewMassiveSpotProvider constructs a Massive-backed spot provider. secondary
// may be nil.
func NewMassiveSpotProvider(apiKey string, secondary SpotProvider) *massiveSpotProvider {
	logger.Infof("initializing Massive spot provider")
	return &massiveSpotProvider{client: massive.New(apiKey), secondary: secondary}
}

func (massiveSpotProv *massiveSpotProvider) Secondary() SpotProvider {
	return massiveSpotProv.secondary
}

// GetSpot returns the most recent adjusted close. asOf is only logged: the
// previous-close endpoint always answers for the last completed session.
func (massiveSpotProv *massiveSpotProvider) GetSpot(ctx context.Context, underlying string, asOf time.Time) (float64, error) {
	logger.Debugf("previous close request: %s asOf=%s", underlying, asOf.Format("2006-01-02"))

	params := models.GetPreviousCloseAggParams{Ticker: underlying}.WithAdjusted(true)
	resp, err := massiveSpotProv.client.GetPreviousCloseAgg(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("massive previous close %s: %w", underlying, err)
	}
	if resp == nil || len(resp.Results) == 0 {
		return 0, fmt.Errorf("massive previous close %s: no results", underlying)
	}

	close := resp.Results[len(resp.Results)-1].Close
	if close <= 0 {
		return 0, fmt.Errorf("massive previous close %s: non-positive close %g", underlying, close)
	}
	logger.Tracef("previous close %s=%.4f", underlying, close)
	return close, nil
}
