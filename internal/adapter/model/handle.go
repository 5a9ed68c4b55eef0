package model

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
	"github.com/couchcryptid/aqi-forecast-service/internal/observability"
)

// Loader builds a fully decorated regressor (provider plus cache and
// throttling). Handle calls it once at startup and again on every reload.
type Loader func() (domain.Regressor, error)

// Handle is the process-wide slot for the active regressor. Predict
// delegates to the current regressor; Reload atomically swaps in a fresh
// one built by the loader. Because the loader constructs the prediction
// cache together with the regressor, a swap discards the old cache in the
// same step: stale predictions can never outlive the model that produced
// them.
type Handle struct {
	current atomic.Pointer[regressorSlot]
	loader  Loader
	logger  *slog.Logger
	metrics *observability.Metrics
}

type regressorSlot struct {
	regressor domain.Regressor
}

// NewHandle loads the initial regressor and returns the handle.
func NewHandle(loader Loader, logger *slog.Logger, metrics *observability.Metrics) (*Handle, error) {
	h := &Handle{
		loader:  loader,
		logger:  logger,
		metrics: metrics,
	}
	if err := h.Reload(); err != nil {
		return nil, err
	}
	return h, nil
}

// Reload builds a replacement regressor and swaps it in. On failure the
// current regressor stays active.
func (h *Handle) Reload() error {
	r, err := h.loader()
	if err != nil {
		return err
	}
	h.current.Store(&regressorSlot{regressor: r})
	h.metrics.ModelLoaded.Set(1)
	h.metrics.ModelReloads.Inc()
	h.logger.Info("model loaded", "model", r.Name())
	return nil
}

func (h *Handle) Predict(ctx context.Context, features []domain.FeatureVector) ([]float64, error) {
	slot := h.current.Load()
	if slot == nil {
		return nil, errors.New("no model loaded")
	}
	return slot.regressor.Predict(ctx, features)
}

func (h *Handle) Name() string {
	slot := h.current.Load()
	if slot == nil {
		return "none"
	}
	return slot.regressor.Name()
}
