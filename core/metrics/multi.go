package metrics

// MultiSink fans out records to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRecommendation forwards the record to all sinks. Every sink is
// called; the first error encountered is returned.
func (m *MultiSink) RecordRecommendation(res RecommendationResult) error {
	var first error
	for _, s := range m.Sinks {
		if err := s.RecordRecommendation(res); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RecordPredictorHealth forwards health snapshots when supported by the sink.
func (m *MultiSink) RecordPredictorHealth(h PredictorHealth) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(PredictorHealthRecorder); ok {
			if err := rec.RecordPredictorHealth(h); err != nil {
				return err
			}
		}
	}
	return nil
}
