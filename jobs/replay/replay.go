// Package replay runs the recommendation flow over consecutive days, feeding
// each applied price forward as the next day's previous price.
package replay

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/kilianp07/fuelprice/core/model"
	"github.com/kilianp07/fuelprice/core/pricelog"
	"github.com/kilianp07/fuelprice/core/pricing"
)

// Recommender produces and records the decision for a day.
type Recommender interface {
	Recommend(ctx context.Context, day model.DayContext, source string) (pricelog.LogRecord, error)
}

// Result is the decision taken for one replayed day.
type Result struct {
	Date           time.Time
	Outcome        string
	Action         string
	PreviousPrice  float64
	AppliedPrice   float64
	Recommendation *model.Recommendation
	Err            error
}

// Run replays days in date order. The first day keeps its own previous
// price; each later day uses the price applied the day before, whether
// recommended or held. A rejected day does not change the carried price.
// Run stops only when ctx is done or the recommender fails unexpectedly.
func Run(ctx context.Context, rec Recommender, days []model.DayContext) ([]Result, error) {
	ordered := append([]model.DayContext(nil), days...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	results := make([]Result, 0, len(ordered))
	var carried float64
	for i, day := range ordered {
		if i > 0 && carried > 0 {
			day.PreviousPrice = carried
		}
		out, err := rec.Recommend(ctx, day, "replay")
		if err != nil && !errors.Is(err, pricing.ErrInvalidContext) {
			return results, err
		}
		res := Result{
			Date:           day.Date,
			Outcome:        out.Outcome,
			Action:         out.Action,
			PreviousPrice:  out.Context.PreviousPrice,
			AppliedPrice:   out.AppliedPrice,
			Recommendation: out.Recommendation,
			Err:            err,
		}
		if err == nil && out.Error != "" {
			res.Err = errors.New(out.Error)
		}
		if out.AppliedPrice > 0 {
			carried = out.AppliedPrice
		}
		results = append(results, res)
	}
	return results, nil
}

// Summary aggregates replay results.
type Summary struct {
	Days        int     `json:"days"`
	Recommended int     `json:"recommended"`
	Held        int     `json:"held"`
	Rejected    int     `json:"rejected"`
	TotalProfit float64 `json:"total_predicted_profit"`
	TotalVolume float64 `json:"total_predicted_volume"`
}

func Summarize(results []Result) Summary {
	s := Summary{Days: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case pricing.OutcomeRecommended:
			s.Recommended++
		case pricing.OutcomeInvalidContext:
			s.Rejected++
		default:
			s.Held++
		}
		if r.Recommendation != nil {
			s.TotalProfit += r.Recommendation.PredictedProfit
			s.TotalVolume += r.Recommendation.PredictedVolume
		}
	}
	return s
}
