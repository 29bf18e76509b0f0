package datasource

import (
	"context"

	"github.com/traderank/pinpoint/internal/infra"
	"github.com/traderank/pinpoint/pkg/models"
)

// RateLimitedSource throttles calls to a wrapped source. Hosted
// vendors meter snapshot endpoints; the file source never needs this.
type RateLimitedSource struct {
	inner   Source
	limiter *infra.RateLimiter
}

// NewRateLimitedSource wraps inner with a token-bucket limiter.
func NewRateLimitedSource(inner Source, rps float64, burst int) *RateLimitedSource {
	return &RateLimitedSource{
		inner:   inner,
		limiter: infra.NewRateLimiter(rps, burst),
	}
}

// Name returns the wrapped source's name.
func (s *RateLimitedSource) Name() string {
	return s.inner.Name()
}

// Snapshot waits for limiter capacity, then delegates.
func (s *RateLimitedSource) Snapshot(ctx context.Context, ticker string) (*models.MarketSnapshot, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.inner.Snapshot(ctx, ticker)
}
