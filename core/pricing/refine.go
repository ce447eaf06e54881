package pricing

import (
	"math"

	"github.com/kilianp07/fuelprice/core/model"
)

var invPhi = (math.Sqrt(5) - 1) / 2

// refine runs a golden-section search for the profit maximum in the grid cell
// on either side of center, clipped to r. It assumes the profit is unimodal
// there and returns every evaluation in order. Invalid evaluations are treated
// as worse than any valid one so the bracket moves away from them.
func (s searcher) refine(r model.AdmissibleRange, center, step float64) []model.CandidateEvaluation {
	a := math.Max(r.Low, center-step)
	b := math.Min(r.High, center+step)
	minWidth := math.Max(s.cfg.PriceTick, gridTolerance)
	if b-a < minWidth {
		return nil
	}

	var out []model.CandidateEvaluation
	eval := func(p float64) model.CandidateEvaluation {
		if s.cfg.PriceTick > 0 {
			p = math.Min(math.Max(snapNearest(p, s.cfg.PriceTick), r.Low), r.High)
		}
		c := s.evaluate(p, model.PhaseRefine)
		out = append(out, c)
		return c
	}
	score := func(c model.CandidateEvaluation) float64 {
		if !c.Valid {
			return math.Inf(-1)
		}
		return c.PredictedProfit
	}

	x1 := b - invPhi*(b-a)
	x2 := a + invPhi*(b-a)
	f1 := score(eval(x1))
	f2 := score(eval(x2))
	for i := 2; i < s.cfg.RefinementIterations; i++ {
		if b-a < minWidth {
			break
		}
		if f1 >= f2 {
			b, x2, f2 = x2, x1, f1
			x1 = b - invPhi*(b-a)
			f1 = score(eval(x1))
		} else {
			a, x1, f1 = x1, x2, f2
			x2 = a + invPhi*(b-a)
			f2 = score(eval(x2))
		}
	}
	return out
}
