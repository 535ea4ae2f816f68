package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendationRequests counts AI recommendation calls by outcome
	// (success, remote_call, malformed_response, schema_violation).
	RecommendationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "globetrotter",
		Name:      "recommendation_requests_total",
		Help:      "AI destination recommendation calls by outcome.",
	}, []string{"provider", "outcome"})

	RecommendationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "globetrotter",
		Name:      "recommendation_duration_seconds",
		Help:      "Latency of AI destination recommendation calls.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40},
	}, []string{"provider"})

	TripsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "globetrotter",
		Name:      "trips_created_total",
		Help:      "Trip creation attempts by outcome.",
	}, []string{"outcome"})

	UnmatchedRecommendations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "globetrotter",
		Name:      "unmatched_recommendations_total",
		Help:      "Recommended places with no catalog counterpart.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "globetrotter",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})
)
