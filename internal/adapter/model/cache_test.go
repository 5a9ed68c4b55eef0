package model

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
	"github.com/couchcryptid/aqi-forecast-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingRegressor struct {
	calls int
	preds []float64
	err   error
}

func (m *countingRegressor) Predict(_ context.Context, features []domain.FeatureVector) ([]float64, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.preds != nil {
		return m.preds, nil
	}
	return make([]float64, len(features)), nil
}

func (m *countingRegressor) Name() string { return "counting" }

// --- Cached tests ---

func TestCached_Hit(t *testing.T) {
	inner := &countingRegressor{preds: []float64{42}}
	cached := NewCached(inner, 10, observability.NewMetricsForTesting())

	matrix := []domain.FeatureVector{{50, 40, 10, 5, 20, 30}}

	p1, err := cached.Predict(context.Background(), matrix)
	require.NoError(t, err)
	p2, err := cached.Predict(context.Background(), matrix)
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.Equal(t, "counting", cached.Name())
}

func TestCached_DifferentMatricesMiss(t *testing.T) {
	inner := &countingRegressor{}
	cached := NewCached(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.Predict(context.Background(), []domain.FeatureVector{{1, 0, 0, 0, 0, 0}})
	_, _ = cached.Predict(context.Background(), []domain.FeatureVector{{0, 1, 0, 0, 0, 0}})

	assert.Equal(t, 2, inner.calls)
}

func TestCached_ErrorsNotCached(t *testing.T) {
	inner := &countingRegressor{err: errors.New("boom")}
	cached := NewCached(inner, 10, observability.NewMetricsForTesting())

	matrix := []domain.FeatureVector{{}}
	_, err := cached.Predict(context.Background(), matrix)
	require.Error(t, err)

	inner.err = nil
	_, err = cached.Predict(context.Background(), matrix)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "error responses must not be served from cache")
}

func TestCacheKey_DistinguishesRowBoundaries(t *testing.T) {
	a := cacheKey([]domain.FeatureVector{{1, 2, 3, 4, 5, 6}})
	b := cacheKey([]domain.FeatureVector{{1, 2, 3, 4, 5, 6}, {1, 2, 3, 4, 5, 6}})
	assert.NotEqual(t, a, b)
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", []float64{1})
	c.put("b", []float64{2})

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, []float64{1}, v)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", []float64{1})
	c.put("b", []float64{2})
	c.put("c", []float64{3}) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	_, ok = c.get("b")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", []float64{1})
	c.put("b", []float64{2})

	c.get("a")

	c.put("c", []float64{3}) // should evict "b" (LRU), not "a"

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")
	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}
