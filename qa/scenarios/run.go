package scenarios

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kilianp07/fuelprice/app"
	"github.com/kilianp07/fuelprice/core/prediction"
	"github.com/kilianp07/fuelprice/core/pricelog"
	"github.com/kilianp07/fuelprice/core/pricing"
	"github.com/kilianp07/fuelprice/infra/logger"
	"github.com/kilianp07/fuelprice/jobs/replay"
)

// Run replays the scenario days through a fresh service backed by an
// in-memory history.
func Run(ctx context.Context, sc *Scenario) ([]replay.Result, error) {
	engine, err := pricing.NewEngine(sc.Pricing.ToConfig(), logger.NopLogger{})
	if err != nil {
		return nil, err
	}
	pred, err := prediction.NewPredictor(sc.Predictor.ToModule())
	if err != nil {
		return nil, err
	}
	days, err := replay.ToModels(sc.Days)
	if err != nil {
		return nil, err
	}
	svc := app.NewWithDeps(engine, pred, pricelog.NewMemoryStore(), nil, logger.NopLogger{})
	defer svc.Close()
	return replay.Run(ctx, svc, days)
}

// Check compares results with the scenario expectations and returns one
// message per mismatch.
func Check(sc *Scenario, results []replay.Result) []string {
	var problems []string
	if len(results) != len(sc.Expected) {
		return []string{fmt.Sprintf("got %d results, expected %d", len(results), len(sc.Expected))}
	}
	for i, exp := range sc.Expected {
		got := results[i]
		day := got.Date.Format(time.DateOnly)
		if got.Outcome != exp.Outcome {
			problems = append(problems, fmt.Sprintf("%s: outcome %s, expected %s", day, got.Outcome, exp.Outcome))
		}
		if exp.Price == 0 {
			continue
		}
		tol := exp.Tolerance
		if tol == 0 {
			tol = 1e-6
		}
		if math.Abs(got.AppliedPrice-exp.Price) > tol {
			problems = append(problems, fmt.Sprintf("%s: applied price %.6f, expected %.6f", day, got.AppliedPrice, exp.Price))
		}
	}
	return problems
}
