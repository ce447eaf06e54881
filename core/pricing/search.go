package pricing

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/fuelprice/core/model"
	"github.com/kilianp07/fuelprice/core/prediction"
)

// gridTolerance keeps spans that are an exact multiple of the resolution,
// up to float noise, from gaining an extra interval.
const gridTolerance = 1e-9

// Search returns the profit-maximizing candidate in r together with the
// ordered trace of every evaluation. Profit is (price - cost) * volume.
// Candidates within cfg.TieEpsilon of the best profit resolve to the lower
// price. Invalid predictions are kept in the trace and excluded from
// candidacy; if none is valid a NoFeasibleCandidateError is returned along
// with the trace.
func Search(r model.AdmissibleRange, day model.DayContext, cost float64, p prediction.VolumePredictor, cfg Config) (model.CandidateEvaluation, []model.CandidateEvaluation, error) {
	if p == nil {
		return model.CandidateEvaluation{}, nil, fmt.Errorf("predictor is nil")
	}
	if r.Low > r.High || !isFinite(r.Low) || !isFinite(r.High) {
		return model.CandidateEvaluation{}, nil, fmt.Errorf("invalid admissible range [%v, %v]", r.Low, r.High)
	}
	cfg.SetDefaults()

	s := searcher{day: day, cost: cost, predictor: p, cfg: cfg}
	prices, step := gridPrices(r, cfg)
	trace := s.evaluateGrid(prices)

	bestIdx := s.pick(trace, -1)
	if bestIdx < 0 {
		return model.CandidateEvaluation{}, trace, noFeasible(trace)
	}
	best := trace[bestIdx]

	if cfg.EnableLocalRefinement && cfg.RefinementIterations > 0 && len(prices) > 1 {
		refined := s.refine(r, best.Price, step)
		trace = append(trace, refined...)
		for _, c := range refined {
			if s.better(c, best) {
				best = c
			}
		}
	}
	return best, trace, nil
}

// gridPrices spans [Low, High] with evenly spaced prices no further apart
// than the configured resolution. Both endpoints are included. With a price
// tick, prices snap to the tick and duplicates are dropped.
func gridPrices(r model.AdmissibleRange, cfg Config) ([]float64, float64) {
	width := r.Width()
	if width <= 0 {
		return []float64{r.Low}, 0
	}
	n := int(math.Ceil(width/cfg.SearchGridResolution - gridTolerance))
	if n < 1 {
		n = 1
	}
	prices := floats.Span(make([]float64, n+1), r.Low, r.High)
	// Span accumulates l + i*step, which can miss u by an ulp.
	prices[n] = r.High
	step := width / float64(n)
	if cfg.PriceTick <= 0 {
		return prices, step
	}
	out := prices[:0]
	for _, p := range prices {
		q := math.Min(math.Max(snapNearest(p, cfg.PriceTick), r.Low), r.High)
		if len(out) > 0 && q <= out[len(out)-1] {
			continue
		}
		out = append(out, q)
	}
	return out, step
}

type searcher struct {
	day       model.DayContext
	cost      float64
	predictor prediction.VolumePredictor
	cfg       Config
}

func (s searcher) evaluate(price float64, phase string) model.CandidateEvaluation {
	c := model.CandidateEvaluation{Price: price, Phase: phase, PredictedProfit: math.NaN()}
	vol, err := s.predictor.PredictVolume(price, s.day)
	switch {
	case err != nil:
		c.PredictedVolume = math.NaN()
		c.InvalidReason = "predictor error: " + err.Error()
	case math.IsNaN(vol) || math.IsInf(vol, 0):
		c.PredictedVolume = vol
		c.InvalidReason = "non-finite volume"
	case vol < 0:
		c.PredictedVolume = vol
		c.InvalidReason = "negative volume"
	default:
		c.PredictedVolume = vol
		c.PredictedProfit = (price - s.cost) * vol
		c.Valid = true
	}
	return c
}

func (s searcher) evaluateGrid(prices []float64) []model.CandidateEvaluation {
	trace := make([]model.CandidateEvaluation, len(prices))
	if s.cfg.Workers <= 1 || len(prices) < 2 {
		for i, p := range prices {
			trace[i] = s.evaluate(p, model.PhaseGrid)
		}
		return trace
	}
	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for i, p := range prices {
		i, p := i, p
		g.Go(func() error {
			trace[i] = s.evaluate(p, model.PhaseGrid)
			return nil
		})
	}
	_ = g.Wait()
	return trace
}

// better reports whether c beats best: a higher profit by more than
// TieEpsilon, or a profit within TieEpsilon at a lower price.
func (s searcher) better(c, best model.CandidateEvaluation) bool {
	if !c.Valid {
		return false
	}
	eps := s.cfg.tieEpsilon()
	if c.PredictedProfit > best.PredictedProfit+eps {
		return true
	}
	return c.PredictedProfit >= best.PredictedProfit-eps && c.Price < best.Price
}

// pick returns the index of the best valid candidate scanning in order,
// starting from the candidate at index start when start >= 0.
func (s searcher) pick(trace []model.CandidateEvaluation, start int) int {
	best := start
	for i, c := range trace {
		if !c.Valid {
			continue
		}
		if best < 0 || s.better(c, trace[best]) {
			best = i
		}
	}
	return best
}

func noFeasible(trace []model.CandidateEvaluation) error {
	last := "no candidate evaluated"
	if n := len(trace); n > 0 {
		last = trace[n-1].InvalidReason
	}
	return &NoFeasibleCandidateError{Evaluated: len(trace), LastReason: last}
}
