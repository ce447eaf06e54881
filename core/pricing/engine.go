package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/fuelprice/core/logger"
	"github.com/kilianp07/fuelprice/core/model"
	"github.com/kilianp07/fuelprice/core/prediction"
)

// Engine produces daily price recommendations. It is safe for concurrent use
// as long as the predictor is.
type Engine struct {
	cfg Config
	log logger.Logger
}

// NewEngine applies defaults to cfg and validates it. log may be nil.
func NewEngine(cfg Config, log logger.Logger) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pricing config: %w", err)
	}
	return &Engine{cfg: cfg, log: logger.OrNop(log)}, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Recommend validates day, computes the admissible range, searches it with p
// and returns the recommendation. Errors are InvalidContextError,
// InfeasibleGuardrailError or NoFeasibleCandidateError.
func (e *Engine) Recommend(day model.DayContext, p prediction.VolumePredictor) (model.Recommendation, error) {
	rec, err := e.recommend(day, p)
	recommendationsTotal.WithLabelValues(Outcome(err)).Inc()
	if err != nil {
		e.log.Warnf("recommendation for %s failed: %v", day.Date.Format(time.DateOnly), err)
	}
	return rec, err
}

// RecommendContext is Recommend with an early return when ctx is done.
func (e *Engine) RecommendContext(ctx context.Context, day model.DayContext, p prediction.VolumePredictor) (model.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return model.Recommendation{}, err
	}
	return e.Recommend(day, p)
}

func (e *Engine) recommend(day model.DayContext, p prediction.VolumePredictor) (model.Recommendation, error) {
	if err := ValidateContext(day); err != nil {
		return model.Recommendation{}, err
	}
	if p == nil {
		return model.Recommendation{}, fmt.Errorf("predictor is nil")
	}
	r, err := computeRange(day, e.cfg.Guardrails())
	if err != nil {
		return model.Recommendation{}, err
	}

	start := time.Now()
	best, trace, err := Search(r, day, day.CostPerUnit, p, e.cfg)
	searchDuration.Observe(time.Since(start).Seconds())
	candidatesEvaluated.Observe(float64(len(trace)))
	rec := model.Recommendation{Date: day.Date, AdmissibleRange: r, SearchTrace: trace}
	if n := rec.InvalidCandidates(); n > 0 {
		invalidCandidates.Add(float64(n))
	}
	if err != nil {
		return model.Recommendation{}, err
	}

	rec.RecommendedPrice = best.Price
	rec.PredictedVolume = best.PredictedVolume
	rec.PredictedProfit = best.PredictedProfit
	e.log.Debugw("price recommended", map[string]any{
		"date":       day.Date.Format(time.DateOnly),
		"price":      best.Price,
		"profit":     best.PredictedProfit,
		"low":        r.Low,
		"high":       r.High,
		"candidates": len(trace),
		"invalid":    rec.InvalidCandidates(),
	})
	return rec, nil
}

// Recommend runs a one-off engine built from cfg.
func Recommend(day model.DayContext, p prediction.VolumePredictor, cfg Config) (model.Recommendation, error) {
	e, err := NewEngine(cfg, nil)
	if err != nil {
		return model.Recommendation{}, err
	}
	return e.Recommend(day, p)
}
