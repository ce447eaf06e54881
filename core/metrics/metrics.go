package metrics

import "time"

// RecommendationResult is one price decision to be recorded.
type RecommendationResult struct {
	Date    time.Time
	Outcome string
	Action  string
	Source  string
	// AppliedPrice is the price actually used for the day, either the
	// recommendation or the held previous price.
	AppliedPrice     float64
	RecommendedPrice float64
	PredictedVolume  float64
	PredictedProfit  float64
	Low              float64
	High             float64
	Candidates       int
	Invalid          int
	Duration         time.Duration
	Time             time.Time
}

// MetricsSink records price decisions for observability purposes.
type MetricsSink interface {
	RecordRecommendation(res RecommendationResult) error
}

// PredictorHealth is a snapshot of a remote predictor's circuit breaker.
type PredictorHealth struct {
	Predictor string
	State     string
	Time      time.Time
}

// PredictorHealthRecorder is implemented by sinks able to record predictor
// health.
type PredictorHealthRecorder interface {
	RecordPredictorHealth(h PredictorHealth) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRecommendation(RecommendationResult) error { return nil }

func (NopSink) RecordPredictorHealth(PredictorHealth) error { return nil }
