package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/fuelprice/core/metrics"
	"github.com/kilianp07/fuelprice/core/pricing"
	"github.com/kilianp07/fuelprice/infra/logger"
)

// InfluxSink writes price decisions to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRecommendation writes one price_decision point. Recommendation
// fields are only present when the engine produced a recommendation.
func (s *InfluxSink) RecordRecommendation(r coremetrics.RecommendationResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("price_decision").
		AddTag("outcome", r.Outcome).
		AddTag("action", r.Action).
		AddTag("date", r.Date.Format(time.DateOnly))
	if r.Source != "" {
		p = p.AddTag("source", r.Source)
	}
	p = p.AddField("applied_price", round4(r.AppliedPrice)).
		AddField("candidates", r.Candidates).
		AddField("invalid_candidates", r.Invalid).
		AddField("duration_ms", round3(r.Duration.Seconds()*1000))
	if r.Outcome == pricing.OutcomeRecommended {
		p = p.AddField("recommended_price", round4(r.RecommendedPrice)).
			AddField("predicted_volume", round3(r.PredictedVolume)).
			AddField("predicted_profit", round3(r.PredictedProfit)).
			AddField("range_low", round4(r.Low)).
			AddField("range_high", round4(r.High))
	}
	p = p.SetTime(r.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordPredictorHealth writes the breaker state of a predictor.
func (s *InfluxSink) RecordPredictorHealth(h coremetrics.PredictorHealth) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("predictor_health").
		AddTag("predictor", h.Predictor).
		AddField("state", h.State).
		SetTime(h.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client resources.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
