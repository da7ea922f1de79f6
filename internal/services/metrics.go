package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks recommendation pipeline counters. A nil *Metrics is valid
// and records nothing, so tests and minimal callers can skip registration.
type Metrics struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     prometheus.Histogram
	emptyResults        prometheus.Counter
	providerErrors      prometheus.Counter
	predictionFallbacks prometheus.Counter
	resultCacheHits     prometheus.Counter
	resultCacheMisses   prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "courserank_requests_total",
			Help: "Recommendation requests by strategy",
		}, []string{"strategy"}),
		requestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "courserank_request_duration_seconds",
			Help:    "End to end recommendation latency",
			Buckets: prometheus.DefBuckets,
		}),
		emptyResults: factory.NewCounter(prometheus.CounterOpts{
			Name: "courserank_empty_results_total",
			Help: "Requests that produced no eligible courses",
		}),
		providerErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "courserank_provider_errors_total",
			Help: "Embedding provider failures",
		}),
		predictionFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "courserank_prediction_fallbacks_total",
			Help: "Predictions replaced by the neutral fallback score",
		}),
		resultCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "courserank_result_cache_hits_total",
			Help: "Recommendation responses served from the warm cache",
		}),
		resultCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "courserank_result_cache_misses_total",
			Help: "Recommendation responses computed fresh",
		}),
	}
}

func (m *Metrics) ObserveRequest(strategy string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(strategy).Inc()
	m.requestDuration.Observe(duration.Seconds())
}

func (m *Metrics) IncEmptyResults() {
	if m == nil {
		return
	}
	m.emptyResults.Inc()
}

func (m *Metrics) IncProviderErrors() {
	if m == nil {
		return
	}
	m.providerErrors.Inc()
}

func (m *Metrics) IncPredictionFallbacks() {
	if m == nil {
		return
	}
	m.predictionFallbacks.Inc()
}

func (m *Metrics) IncResultCacheHits() {
	if m == nil {
		return
	}
	m.resultCacheHits.Inc()
}

func (m *Metrics) IncResultCacheMisses() {
	if m == nil {
		return
	}
	m.resultCacheMisses.Inc()
}
