// Package metrics holds the prometheus collectors shared by the fetch,
// estimate and API paths.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides application metrics collection. A nil *Collector is valid
// and records nothing.
type Collector struct {
	// Remote API metrics (solcast, nominatim)
	RemoteRequestsTotal   *prometheus.CounterVec
	RemoteRequestDuration *prometheus.HistogramVec

	// Weather cache metrics
	CacheLookupsTotal *prometheus.CounterVec

	// Estimate metrics
	EstimatesTotal   *prometheus.CounterVec
	EstimateDuration prometheus.Histogram
	SamplesProcessed prometheus.Counter

	// HTTP API metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
}

// New registers the collectors with reg under namespace.
func New(namespace string, reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		RemoteRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "remote_requests_total",
				Help:      "Total number of requests to remote APIs by service and status",
			},
			[]string{"service", "status"},
		),
		RemoteRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "remote_request_duration_seconds",
				Help:      "Remote API request duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"service"},
		),
		CacheLookupsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weather_cache_lookups_total",
				Help:      "Weather window cache lookups by result",
			},
			[]string{"result"},
		),
		EstimatesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "estimates_total",
				Help:      "Total number of yield estimates by result",
			},
			[]string{"result"},
		),
		EstimateDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "estimate_duration_seconds",
				Help:      "Time to produce a yield estimate including fetches",
				Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
			},
		),
		SamplesProcessed: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weather_samples_processed_total",
				Help:      "Total number of weather samples aggregated",
			},
		),
		APIRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests by endpoint, method, and status",
			},
			[]string{"endpoint", "method", "status"},
		),
		APIRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
			},
			[]string{"endpoint"},
		),
	}
}

// ObserveRemote records a remote API call. A status of 0 means the request
// did not get a response.
func (c *Collector) ObserveRemote(service string, status int, d time.Duration) {
	if c == nil {
		return
	}
	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	c.RemoteRequestsTotal.WithLabelValues(service, label).Inc()
	c.RemoteRequestDuration.WithLabelValues(service).Observe(d.Seconds())
}

// ObserveCache records a weather cache lookup.
func (c *Collector) ObserveCache(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// ObserveEstimate records a finished estimate.
func (c *Collector) ObserveEstimate(err error, d time.Duration, samples int) {
	if c == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	c.EstimatesTotal.WithLabelValues(result).Inc()
	c.EstimateDuration.Observe(d.Seconds())
	c.SamplesProcessed.Add(float64(samples))
}

// ObserveAPI records a served API request.
func (c *Collector) ObserveAPI(endpoint, method string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.APIRequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	c.APIRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}
