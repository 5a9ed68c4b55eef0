package model

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/couchcryptid/aqi-forecast-service/internal/domain"
	"github.com/couchcryptid/aqi-forecast-service/internal/observability"
)

// Cached wraps a Regressor with an in-memory LRU prediction cache. Caching
// is sound because regressors are pure: the same feature matrix always
// yields the same predictions for a given model. The cache must be discarded
// whenever the underlying model changes; Handle does that on reload.
type Cached struct {
	inner   domain.Regressor
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCached creates a cache decorator around a regressor.
func NewCached(inner domain.Regressor, maxEntries int, metrics *observability.Metrics) *Cached {
	return &Cached{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *Cached) Predict(ctx context.Context, features []domain.FeatureVector) ([]float64, error) {
	key := cacheKey(features)
	if preds, ok := c.cache.get(key); ok {
		c.metrics.PredictionCache.WithLabelValues("hit").Inc()
		return preds, nil
	}
	c.metrics.PredictionCache.WithLabelValues("miss").Inc()

	preds, err := c.inner.Predict(ctx, features)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, preds)
	return preds, nil
}

func (c *Cached) Name() string { return c.inner.Name() }

// cacheKey serializes a feature matrix into a stable string key.
func cacheKey(features []domain.FeatureVector) string {
	var b strings.Builder
	for _, f := range features {
		for _, v := range f {
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			b.WriteByte(',')
		}
		b.WriteByte(';')
	}
	return b.String()
}

// lruCache is a simple thread-safe LRU cache for prediction slices.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value []float64
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
