package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ComparisonCount counts finished comparisons by status
	ComparisonCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verbatim_comparisons_total",
			Help: "Total number of document comparisons",
		},
		[]string{"status"},
	)

	// ComparisonDuration measures comparison duration
	ComparisonDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "verbatim_comparison_duration_seconds",
			Help: "Document comparison duration in seconds",
		},
	)

	// MatchLength observes the length of every reported match in words
	MatchLength = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "verbatim_match_length_words",
			Help:    "Length of reported matches in words",
			Buckets: prometheus.ExponentialBuckets(4, 2, 8),
		},
	)

	// PlagiarismPercentage observes the plagiarized share of each suspect document
	PlagiarismPercentage = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "verbatim_plagiarism_percentage",
			Help:    "Plagiarized share of the suspect document",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	// RequestCount counts HTTP requests
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "endpoint"},
	)

	// RateLimited counts requests rejected by the per-caller limiter
	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verbatim_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"class"},
	)

	initOnce sync.Once
)

// InitPrometheus registers the collectors with the default registry
func InitPrometheus() {
	initOnce.Do(func() {
		prometheus.MustRegister(ComparisonCount)
		prometheus.MustRegister(ComparisonDuration)
		prometheus.MustRegister(MatchLength)
		prometheus.MustRegister(PlagiarismPercentage)
		prometheus.MustRegister(RequestCount)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(RateLimited)
	})
}
