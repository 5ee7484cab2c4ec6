package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "playercard_http_request_duration_seconds",
		Help:    "HTTP request latencies in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	httpRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "playercard_http_requests_in_flight",
		Help: "Current number of HTTP requests being served",
	})

	profileUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playercard_profile_updates_total",
		Help: "Profile update requests by outcome (changed, unchanged, rejected)",
	}, []string{"outcome"})

	signOuts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playercard_sign_outs_total",
		Help: "Recorded sign-outs",
	})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playercard_rate_limited_total",
		Help: "Requests rejected by the per-IP rate limit",
	})
)
