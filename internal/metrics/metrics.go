// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers request and geocoding metrics.
type Collector struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   prometheus.Histogram
	geocodeOutcome *prometheus.CounterVec
	placesCreated  prometheus.Counter
	placesDeleted  prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "places_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "status"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "places_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		geocodeOutcome: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "places_geocode_requests_total",
			Help: "Geocoding provider calls by outcome",
		}, []string{"outcome"}),
		placesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "places_created_total",
			Help: "Successfully created places",
		}),
		placesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "places_deleted_total",
			Help: "Successfully deleted places",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.geocodeOutcome,
		c.placesCreated,
		c.placesDeleted,
	)

	return c
}

// RecordHTTPRequest records one completed HTTP request.
func (c *Collector) RecordHTTPRequest(method string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.httpDuration.Observe(duration.Seconds())
}

// RecordGeocodeOutcome records a geocoding call outcome
// (ok, zero_results, failed, unavailable).
func (c *Collector) RecordGeocodeOutcome(outcome string) {
	c.geocodeOutcome.WithLabelValues(outcome).Inc()
}

// RecordPlaceCreated increments the created-places counter.
func (c *Collector) RecordPlaceCreated() {
	c.placesCreated.Inc()
}

// RecordPlaceDeleted increments the deleted-places counter.
func (c *Collector) RecordPlaceDeleted() {
	c.placesDeleted.Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// statusRecorder captures the status code written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency for every request.
func Middleware(c *Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			c.RecordHTTPRequest(r.Method, rec.status, time.Since(start))
		})
	}
}
