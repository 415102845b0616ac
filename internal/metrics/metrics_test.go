package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardcser/spc-cache/internal/cache"
)

func TestWrapCountsResults(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := Wrap(cache.NewFileCache(t.TempDir()), reg)
	require.NoError(t, err)

	ok, err := c.Set("k", "v", cache.TTL{})
	require.NoError(t, err)
	require.True(t, ok)

	var s string
	ok, _ = c.Get("k", &s)
	assert.True(t, ok)
	ok, _ = c.Get("absent", &s)
	assert.False(t, ok)
	_, err = c.Get("bad:key", &s)
	assert.ErrorIs(t, err, cache.ErrInvalidKey)
	_, err = c.Has("k")
	assert.ErrorIs(t, err, cache.ErrNotImplemented)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("set", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("get", ResultHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("get", ResultMiss)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("get", ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ops.WithLabelValues("has", ResultError)))
}

func TestWrapTwiceSharesCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := Wrap(cache.NewFileCache(t.TempDir()), reg)
	require.NoError(t, err)
	b, err := Wrap(cache.NewFileCache(t.TempDir()), reg)
	require.NoError(t, err)
	assert.Same(t, a.ops, b.ops)
}
