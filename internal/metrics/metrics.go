// Package metrics counts cache operations with Prometheus.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leonardcser/spc-cache/internal/cache"
)

// Result label values.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultOK    = "ok"
	ResultFail  = "fail"
	ResultError = "error"
)

// Cache wraps a cache.Cache and records every call in
// spc_cache_operations_total{op,result}.
type Cache struct {
	next cache.Cache
	ops  *prometheus.CounterVec
}

// Wrap instruments next and registers the counter with reg.
func Wrap(next cache.Cache, reg prometheus.Registerer) (*Cache, error) {
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spc_cache",
		Name:      "operations_total",
		Help:      "Cache operations by operation and result.",
	}, []string{"op", "result"})
	if err := reg.Register(ops); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		ops = are.ExistingCollector.(*prometheus.CounterVec)
	}
	return &Cache{next: next, ops: ops}, nil
}

func (c *Cache) observe(op string, ok bool, err error, okLabel, failLabel string) {
	result := failLabel
	switch {
	case err != nil:
		result = ResultError
	case ok:
		result = okLabel
	}
	c.ops.WithLabelValues(op, result).Inc()
}

func (c *Cache) Get(key string, dst any) (bool, error) {
	ok, err := c.next.Get(key, dst)
	c.observe("get", ok, err, ResultHit, ResultMiss)
	return ok, err
}

func (c *Cache) Set(key string, value any, ttl cache.TTL) (bool, error) {
	ok, err := c.next.Set(key, value, ttl)
	c.observe("set", ok, err, ResultOK, ResultFail)
	return ok, err
}

func (c *Cache) Delete(key string) (bool, error) {
	ok, err := c.next.Delete(key)
	c.observe("delete", ok, err, ResultOK, ResultFail)
	return ok, err
}

func (c *Cache) Clear() error {
	err := c.next.Clear()
	c.observe("clear", err == nil, err, ResultOK, ResultFail)
	return err
}

func (c *Cache) GetMultiple(keys []string, def any) (map[string]any, error) {
	out, err := c.next.GetMultiple(keys, def)
	c.observe("get_multiple", err == nil, err, ResultOK, ResultFail)
	return out, err
}

func (c *Cache) SetMultiple(values map[string]any, ttl cache.TTL) (bool, error) {
	ok, err := c.next.SetMultiple(values, ttl)
	c.observe("set_multiple", ok, err, ResultOK, ResultFail)
	return ok, err
}

func (c *Cache) DeleteMultiple(keys []string) (bool, error) {
	ok, err := c.next.DeleteMultiple(keys)
	c.observe("delete_multiple", ok, err, ResultOK, ResultFail)
	return ok, err
}

func (c *Cache) Has(key string) (bool, error) {
	ok, err := c.next.Has(key)
	c.observe("has", ok, err, ResultHit, ResultMiss)
	return ok, err
}
