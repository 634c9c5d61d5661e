package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New("pvyield", reg)

	c.ObserveRemote("solcast", 200, time.Second)
	c.ObserveRemote("solcast", 200, time.Second)
	c.ObserveRemote("solcast", 0, time.Second)
	assert.Equal(t, 2.0, testutil.ToFloat64(c.RemoteRequestsTotal.WithLabelValues("solcast", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RemoteRequestsTotal.WithLabelValues("solcast", "error")))

	c.ObserveCache(true)
	c.ObserveCache(false)
	c.ObserveCache(false)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheLookupsTotal.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.CacheLookupsTotal.WithLabelValues("miss")))

	c.ObserveEstimate(nil, time.Second, 100)
	c.ObserveEstimate(errors.New("boom"), time.Second, 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.EstimatesTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.EstimatesTotal.WithLabelValues("error")))
	assert.Equal(t, 100.0, testutil.ToFloat64(c.SamplesProcessed))

	c.ObserveAPI("/api/estimate", "POST", 200, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.APIRequestsTotal.WithLabelValues("/api/estimate", "POST", "200")))

	// registering the same namespace twice on one registry panics
	assert.Panics(t, func() { New("pvyield", reg) })
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveRemote("solcast", 500, time.Second)
		c.ObserveCache(true)
		c.ObserveEstimate(nil, time.Second, 1)
		c.ObserveAPI("/healthz", "GET", 200, time.Second)
	})
}
