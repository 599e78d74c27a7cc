// Package metrics exposes Prometheus instruments for the treasury service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treasury_events_created_total",
		Help: "Total number of events created.",
	})

	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treasury_payments_recorded_total",
		Help: "Total number of payment updates recorded, labelled by resulting status.",
	}, []string{"status"})

	TransactionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treasury_transactions_generated_total",
		Help: "Total number of finance transactions generated from payment records.",
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treasury_cache_hits_total",
		Help: "Total number of read-through cache hits.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "treasury_cache_misses_total",
		Help: "Total number of read-through cache misses.",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "treasury_http_request_duration_ms",
		Help:    "HTTP request latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"method", "status"})
)
