package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/avatarctic/item-cache-service/internal/core/ports"
)

// cacheSide performs best-effort cache operations. Failures are logged and
// swallowed so a broken cache only costs latency, never correctness.
type cacheSide struct {
	store  ports.CacheStore
	logger *logrus.Logger
}

func (c cacheSide) warn(err error, namespace, key, msg string) {
	if c.logger == nil {
		return
	}
	c.logger.WithFields(logrus.Fields{"namespace": namespace, "key": key}).WithError(err).Warn(msg)
}

func cacheGet[T any](ctx context.Context, c cacheSide, namespace, key string) (T, bool) {
	var v T
	if c.store == nil {
		return v, false
	}
	b, ok, err := c.store.Get(ctx, namespace, key)
	if err != nil {
		c.warn(err, namespace, key, "cache read failed, falling back to store")
		return v, false
	}
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(b, &v); err != nil {
		c.warn(err, namespace, key, "discarding undecodable cache entry")
		return v, false
	}
	return v, true
}

func (c cacheSide) setSilently(ctx context.Context, namespace, key string, v any, ttl time.Duration) {
	if c.store == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		c.warn(err, namespace, key, "failed to encode cache entry")
		return
	}
	if err := c.store.Put(ctx, namespace, key, b, ttl); err != nil {
		c.warn(err, namespace, key, "cache write failed")
	}
}

func (c cacheSide) evictSilently(ctx context.Context, namespace, key string) {
	if c.store == nil {
		return
	}
	if err := c.store.Evict(ctx, namespace, key); err != nil {
		c.warn(err, namespace, key, "cache eviction failed")
	}
}

func (c cacheSide) evictAllSilently(ctx context.Context, namespaces ...string) {
	if c.store == nil {
		return
	}
	for _, ns := range namespaces {
		if err := c.store.EvictAll(ctx, ns); err != nil {
			c.warn(err, ns, "*", "cache namespace eviction failed")
		}
	}
}

// loadWithSingleflight is cache-aside with miss coalescing: concurrent misses on
// the same key share one loader call, and only successful results are cached.
// The loader runs detached from any single caller's cancellation; each caller
// stops waiting when its own ctx is done.
func loadWithSingleflight[T any](ctx context.Context, c cacheSide, sf *singleflight.Group, namespace, key string, ttl time.Duration, loader func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := cacheGet[T](ctx, c, namespace, key); ok {
		return v, nil
	}
	shared := context.WithoutCancel(ctx)
	ch := sf.DoChan(namespace+"\x00"+key, func() (any, error) {
		if v, ok := cacheGet[T](shared, c, namespace, key); ok {
			return v, nil
		}
		v, err := loader(shared)
		if err != nil {
			return nil, err
		}
		c.setSilently(shared, namespace, key, v, ttl)
		return v, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return zero, res.Err
	}
	v, ok := res.Val.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected type from singleflight result")
	}
	return v, nil
}
