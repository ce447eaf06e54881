package metrics

import (
	coremetrics "github.com/kilianp07/fuelprice/core/metrics"
	"github.com/kilianp07/fuelprice/core/pricing"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records price decisions in Prometheus metrics.
type PromSink struct {
	decisions *prometheus.CounterVec
	price     *prometheus.GaugeVec
	profit    prometheus.Gauge
	bounds    *prometheus.GaugeVec
	latency   *prometheus.HistogramVec
	breaker   *prometheus.GaugeVec
}

// NewPromSink registers decision metrics on the default Prometheus registerer.
// The Prometheus server should be started separately with StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// that are already registered are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fuelprice_decisions_total",
		Help: "Total number of daily price decisions",
	}, []string{"outcome", "action", "source"})
	price := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fuelprice_price",
		Help: "Latest recommended and applied prices",
	}, []string{"kind"})
	profit := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fuelprice_predicted_profit",
		Help: "Predicted profit of the latest recommendation",
	})
	bounds := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fuelprice_admissible_price",
		Help: "Bounds of the latest admissible price range",
	}, []string{"bound"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fuelprice_decision_duration_seconds",
		Help:    "Time to produce a price decision",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	breaker := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fuelprice_predictor_breaker_open",
		Help: "1 when the predictor circuit breaker is not closed",
	}, []string{"predictor"})

	var err error
	if decisions, err = register(reg, decisions); err != nil {
		return nil, err
	}
	if price, err = register(reg, price); err != nil {
		return nil, err
	}
	if profit, err = register(reg, profit); err != nil {
		return nil, err
	}
	if bounds, err = register(reg, bounds); err != nil {
		return nil, err
	}
	if latency, err = register(reg, latency); err != nil {
		return nil, err
	}
	if breaker, err = register(reg, breaker); err != nil {
		return nil, err
	}
	return &PromSink{decisions: decisions, price: price, profit: profit, bounds: bounds, latency: latency, breaker: breaker}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRecommendation updates the decision counter and the latest price
// gauges.
func (s *PromSink) RecordRecommendation(r coremetrics.RecommendationResult) error {
	s.decisions.WithLabelValues(r.Outcome, r.Action, r.Source).Inc()
	s.latency.WithLabelValues(r.Source).Observe(r.Duration.Seconds())
	if r.AppliedPrice > 0 {
		s.price.WithLabelValues("applied").Set(r.AppliedPrice)
	}
	if r.Outcome == pricing.OutcomeRecommended {
		s.price.WithLabelValues("recommended").Set(r.RecommendedPrice)
		s.profit.Set(r.PredictedProfit)
		s.bounds.WithLabelValues("low").Set(r.Low)
		s.bounds.WithLabelValues("high").Set(r.High)
	}
	return nil
}

// RecordPredictorHealth exports the breaker state as a 0/1 gauge.
func (s *PromSink) RecordPredictorHealth(h coremetrics.PredictorHealth) error {
	v := 0.0
	if h.State != "closed" {
		v = 1
	}
	s.breaker.WithLabelValues(h.Predictor).Set(v)
	return nil
}
