package metrics

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/fuelprice/core/events"
	coremetrics "github.com/kilianp07/fuelprice/core/metrics"
	"github.com/kilianp07/fuelprice/core/model"
	"github.com/kilianp07/fuelprice/internal/eventbus"
)

func newTestPromSink(t *testing.T) *PromSink {
	t.Helper()
	s, err := NewPromSinkWithRegistry(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink, ok := s.(*PromSink)
	if !ok {
		t.Fatalf("expected PromSink")
	}
	return sink
}

func TestPromSink_RecordRecommendation(t *testing.T) {
	sink := newTestPromSink(t)
	rec := coremetrics.RecommendationResult{
		Outcome:          "recommended",
		Action:           "apply_recommendation",
		Source:           "cli",
		AppliedPrice:     3.15,
		RecommendedPrice: 3.15,
		PredictedProfit:  240.5,
		Low:              2.85,
		High:             3.15,
		Duration:         time.Millisecond,
	}
	if err := sink.RecordRecommendation(rec); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP fuelprice_decisions_total Total number of daily price decisions
# TYPE fuelprice_decisions_total counter
fuelprice_decisions_total{action="apply_recommendation",outcome="recommended",source="cli"} 1
`
	if err := testutil.CollectAndCompare(sink.decisions, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if v := testutil.ToFloat64(sink.price.WithLabelValues("recommended")); v != 3.15 {
		t.Errorf("recommended price gauge = %v", v)
	}
	if v := testutil.ToFloat64(sink.bounds.WithLabelValues("low")); v != 2.85 {
		t.Errorf("low bound gauge = %v", v)
	}
	if c := testutil.CollectAndCount(sink.latency); c == 0 {
		t.Errorf("latency not recorded")
	}
}

func TestPromSink_HoldLeavesRecommendationGauges(t *testing.T) {
	sink := newTestPromSink(t)
	_ = sink.RecordRecommendation(coremetrics.RecommendationResult{
		Outcome: "infeasible_guardrail", Action: "hold_previous_price", AppliedPrice: 3,
	})
	if c := testutil.CollectAndCount(sink.bounds); c != 0 {
		t.Errorf("bounds recorded on hold: %d", c)
	}
	if v := testutil.ToFloat64(sink.price.WithLabelValues("applied")); v != 3 {
		t.Errorf("applied price gauge = %v", v)
	}
}

func TestPromSink_ReuseRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration should reuse collectors: %v", err)
	}
}

func TestPromSink_PredictorHealth(t *testing.T) {
	sink := newTestPromSink(t)
	_ = sink.RecordPredictorHealth(coremetrics.PredictorHealth{Predictor: "remote", State: "open"})
	if v := testutil.ToFloat64(sink.breaker.WithLabelValues("remote")); v != 1 {
		t.Errorf("breaker gauge = %v", v)
	}
	_ = sink.RecordPredictorHealth(coremetrics.PredictorHealth{Predictor: "remote", State: "closed"})
	if v := testutil.ToFloat64(sink.breaker.WithLabelValues("remote")); v != 0 {
		t.Errorf("breaker gauge = %v", v)
	}
}

type chanSink struct{ ch chan coremetrics.RecommendationResult }

func (c chanSink) RecordRecommendation(r coremetrics.RecommendationResult) error {
	c.ch <- r
	return nil
}

func TestStartEventCollector(t *testing.T) {
	bus := eventbus.NewTyped[events.RecommendationEvent]()
	sink := chanSink{ch: make(chan coremetrics.RecommendationResult, 1)}
	ctx, cancel := context.WithCancel(context.Background())
	done := StartEventCollector(ctx, bus, sink)

	rec := &model.Recommendation{
		RecommendedPrice: 3.1,
		AdmissibleRange:  model.AdmissibleRange{Low: 2.9, High: 3.2},
		SearchTrace:      []model.CandidateEvaluation{{Price: 3.1, Valid: true}, {Price: 3.2}},
	}
	bus.Publish(events.RecommendationEvent{Outcome: "recommended", Action: events.ActionApply, Recommendation: rec})

	select {
	case got := <-sink.ch:
		if got.RecommendedPrice != 3.1 || got.Candidates != 2 || got.Invalid != 1 || got.High != 3.2 {
			t.Errorf("unexpected result %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("event not collected")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
}

type gatedSink struct {
	gate  chan struct{}
	mu    sync.Mutex
	count int
}

func (g *gatedSink) RecordRecommendation(coremetrics.RecommendationResult) error {
	<-g.gate
	g.mu.Lock()
	g.count++
	g.mu.Unlock()
	return nil
}

func TestStartEventCollector_CancelRecordsBuffered(t *testing.T) {
	bus := eventbus.NewTypedWithBuffer[events.RecommendationEvent](16)
	sink := &gatedSink{gate: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	done := StartEventCollector(ctx, bus, sink)

	for i := 0; i < 5; i++ {
		bus.Publish(events.RecommendationEvent{Outcome: "recommended", Action: events.ActionApply})
	}
	cancel()
	close(sink.gate)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.count != 5 {
		t.Errorf("recorded %d events, want 5", sink.count)
	}
	if bus.Dropped() != 0 {
		t.Errorf("dropped %d events", bus.Dropped())
	}
}
