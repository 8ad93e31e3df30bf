// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geoledger_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geoledger_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geoledger_rate_limit_exceeded_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	// DonationTransitions counts lifecycle changes by resulting status.
	DonationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geoledger_donation_transitions_total",
			Help: "Donation lifecycle transitions by resulting status",
		},
		[]string{"status"},
	)

	EvidenceBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geoledger_evidence_bytes_total",
			Help: "Bytes of evidence written to object storage",
		},
	)

	ReconciliationFindings = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "geoledger_reconciliation_findings",
			Help: "Findings of the most recent reconciliation sweep by kind",
		},
		[]string{"kind"},
	)
)
