package model

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
)

// Throttled rate-limits predict calls, for inference servers shared with
// other consumers. One token per Predict call, not per feature vector.
type Throttled struct {
	inner   domain.Regressor
	limiter *rate.Limiter
}

// NewThrottled wraps a regressor with a requests-per-second cap.
func NewThrottled(inner domain.Regressor, maxRPS float64) *Throttled {
	burst := int(maxRPS)
	if burst < 1 {
		burst = 1
	}
	return &Throttled{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(maxRPS), burst),
	}
}

func (t *Throttled) Predict(ctx context.Context, features []domain.FeatureVector) ([]float64, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return t.inner.Predict(ctx, features)
}

func (t *Throttled) Name() string { return t.inner.Name() }
