// Package metrics provides Prometheus metrics for the place service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImportsTotal tracks imported source records by source and outcome
	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wanderlog",
			Subsystem: "importer",
			Name:      "records_total",
			Help:      "Total number of imported source records by source and status",
		},
		[]string{"source", "status"},
	)

	// ImportDuration tracks import processing duration in seconds
	ImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wanderlog",
			Subsystem: "importer",
			Name:      "duration_seconds",
			Help:      "Duration of source record imports in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"source"},
	)

	// MatchesTotal tracks identity match outcomes on the recommendation path
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wanderlog",
			Subsystem: "matching",
			Name:      "matches_total",
			Help:      "Total number of match attempts by outcome and candidate kind",
		},
		[]string{"outcome", "kind"},
	)

	// MatchScore tracks the score distribution of accepted matches
	MatchScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "wanderlog",
			Subsystem: "matching",
			Name:      "score",
			Help:      "Score distribution of accepted matches",
			Buckets:   []float64{0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1},
		},
	)

	// RecommendationsTotal tracks recommendation requests by result mode
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wanderlog",
			Subsystem: "recommend",
			Name:      "requests_total",
			Help:      "Total number of recommendation requests by mode and status",
		},
		[]string{"mode", "status"},
	)

	// ProviderRequestsTotal tracks outbound place-provider searches
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wanderlog",
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Total number of outbound provider requests by provider and status",
		},
		[]string{"provider", "status"},
	)

	// ProviderRequestDuration tracks outbound provider request duration
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wanderlog",
			Subsystem: "provider",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound provider requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	// EventsPublishedTotal tracks place events published to Kafka
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wanderlog",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total number of place events published by type and status",
		},
		[]string{"event_type", "status"},
	)
)
