package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	recommendationsTotal *prometheus.CounterVec
	candidatesEvaluated  prometheus.Histogram
	invalidCandidates    prometheus.Counter
	searchDuration       prometheus.Histogram
)

func newCollectors() (*prometheus.CounterVec, prometheus.Histogram, prometheus.Counter, prometheus.Histogram) {
	recs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_recommendations_total",
			Help: "Engine invocations by outcome",
		},
		[]string{"outcome"},
	)
	cands := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricing_candidates_evaluated",
			Help:    "Number of candidate prices evaluated per search",
			Buckets: prometheus.ExponentialBuckets(4, 2, 12),
		},
	)
	invalid := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_invalid_candidates_total",
			Help: "Candidates excluded because of an unusable volume prediction",
		},
	)
	dur := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricing_search_duration_seconds",
			Help:    "Duration of the candidate search",
			Buckets: prometheus.DefBuckets,
		},
	)
	return recs, cands, invalid, dur
}

func init() {
	recommendationsTotal, candidatesEvaluated, invalidCandidates, searchDuration = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers pricing metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(recommendationsTotal, candidatesEvaluated, invalidCandidates, searchDuration)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	recommendationsTotal, candidatesEvaluated, invalidCandidates, searchDuration = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
