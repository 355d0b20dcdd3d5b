package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/avatarctic/item-cache-service/internal/core/ports"
)

// CacheMetrics holds the Prometheus collectors describing cache traffic.
type CacheMetrics struct {
	requests  *prometheus.CounterVec
	writes    *prometheus.CounterVec
	evictions *prometheus.CounterVec
}

// NewCacheMetrics creates the cache collectors and registers them with reg.
// Collectors already registered by an earlier call are reused.
func NewCacheMetrics(reg prometheus.Registerer) (*CacheMetrics, error) {
	m := &CacheMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "item_cache_requests_total",
				Help: "Cache lookups by namespace and result (hit, miss, error)",
			},
			[]string{"namespace", "result"},
		),
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "item_cache_writes_total",
				Help: "Cache writes by namespace and result (ok, error)",
			},
			[]string{"namespace", "result"},
		),
		evictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "item_cache_evictions_total",
				Help: "Cache evictions by namespace and scope (key, namespace)",
			},
			[]string{"namespace", "scope"},
		),
	}
	var err error
	if m.requests, err = register(reg, m.requests); err != nil {
		return nil, err
	}
	if m.writes, err = register(reg, m.writes); err != nil {
		return nil, err
	}
	if m.evictions, err = register(reg, m.evictions); err != nil {
		return nil, err
	}
	return m, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if reg == nil {
		return c, nil
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

// InstrumentedCache decorates a CacheStore with Prometheus counters.
type InstrumentedCache struct {
	inner   ports.CacheStore
	metrics *CacheMetrics
}

// NewInstrumentedCache wraps inner so every call is counted.
func NewInstrumentedCache(inner ports.CacheStore, m *CacheMetrics) *InstrumentedCache {
	return &InstrumentedCache{inner: inner, metrics: m}
}

func (c *InstrumentedCache) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	b, ok, err := c.inner.Get(ctx, namespace, key)
	switch {
	case err != nil:
		c.metrics.requests.WithLabelValues(namespace, "error").Inc()
	case ok:
		c.metrics.requests.WithLabelValues(namespace, "hit").Inc()
	default:
		c.metrics.requests.WithLabelValues(namespace, "miss").Inc()
	}
	return b, ok, err
}

func (c *InstrumentedCache) Put(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	err := c.inner.Put(ctx, namespace, key, value, ttl)
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.metrics.writes.WithLabelValues(namespace, result).Inc()
	return err
}

func (c *InstrumentedCache) Evict(ctx context.Context, namespace, key string) error {
	err := c.inner.Evict(ctx, namespace, key)
	if err == nil {
		c.metrics.evictions.WithLabelValues(namespace, "key").Inc()
	}
	return err
}

func (c *InstrumentedCache) EvictAll(ctx context.Context, namespace string) error {
	err := c.inner.EvictAll(ctx, namespace)
	if err == nil {
		c.metrics.evictions.WithLabelValues(namespace, "namespace").Inc()
	}
	return err
}

var _ ports.CacheStore = (*InstrumentedCache)(nil)
