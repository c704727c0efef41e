// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ytinfo_http_request_duration_seconds",
		Help:    "HTTP request latencies in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ytinfo_http_requests_in_flight",
		Help: "Current number of HTTP requests being served",
	})

	extractionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ytinfo_extraction_duration_seconds",
		Help:    "Extraction provider call latencies in seconds",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 45},
	}, []string{"provider", "outcome"})

	responsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytinfo_responses_total",
		Help: "Video info responses by result kind",
	}, []string{"kind"})

	rateLimitRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ytinfo_ratelimit_rejected_total",
		Help: "Requests rejected by the per-IP rate limiter",
	})
)

// ObserveExtraction records one provider call
func ObserveExtraction(provider, outcome string, d time.Duration) {
	extractionDuration.WithLabelValues(provider, outcome).Observe(d.Seconds())
}

// IncResponse counts a response written by the video info endpoint
func IncResponse(kind string) {
	responsesTotal.WithLabelValues(kind).Inc()
}

// IncRateLimited counts a rate limited request
func IncRateLimited() {
	rateLimitRejected.Inc()
}
