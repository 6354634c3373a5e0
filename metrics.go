package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	postsCollected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "threadpulse_posts_collected_total",
			Help: "Total number of raw posts collected",
		},
	)

	enrichmentCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threadpulse_enrichment_calls_total",
			Help: "Total number of enrichment provider calls by outcome",
		},
		[]string{"outcome"},
	)

	reportsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "threadpulse_reports_written_total",
			Help: "Total number of analysis reports written",
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "threadpulse_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "path", "status_code"},
	)
)
