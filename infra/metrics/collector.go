package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/fuelprice/core/events"
	coremetrics "github.com/kilianp07/fuelprice/core/metrics"
	"github.com/kilianp07/fuelprice/internal/eventbus"
)

// StartEventCollector subscribes to the recommendation bus and records each
// decision on sink. It stops when the bus closes, after recording every
// buffered event, or when the context is canceled, after recording the events
// already buffered at that point. The returned channel is closed once the
// collector has stopped.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[events.RecommendationEvent], sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				drain(sub, sink)
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				_ = sink.RecordRecommendation(ResultFromEvent(ev))
			}
		}
	}()
	return done
}

func drain(sub <-chan events.RecommendationEvent, sink coremetrics.MetricsSink) {
	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				return
			}
			_ = sink.RecordRecommendation(ResultFromEvent(ev))
		default:
			return
		}
	}
}

// ResultFromEvent flattens a recommendation event into a metrics record.
func ResultFromEvent(ev events.RecommendationEvent) coremetrics.RecommendationResult {
	res := coremetrics.RecommendationResult{
		Date:         ev.Date,
		Outcome:      ev.Outcome,
		Action:       ev.Action,
		Source:       ev.Source,
		AppliedPrice: ev.AppliedPrice,
		Duration:     ev.Duration,
		Time:         time.Now(),
	}
	if r := ev.Recommendation; r != nil {
		res.RecommendedPrice = r.RecommendedPrice
		res.PredictedVolume = r.PredictedVolume
		res.PredictedProfit = r.PredictedProfit
		res.Low = r.AdmissibleRange.Low
		res.High = r.AdmissibleRange.High
		res.Candidates = r.CandidatesEvaluated()
		res.Invalid = r.InvalidCandidates()
	}
	return res
}
