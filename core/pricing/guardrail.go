package pricing

import (
	"math"

	"github.com/kilianp07/fuelprice/core/model"
)

// rangeTolerance absorbs float noise when two guardrails meet at the same
// price, e.g. a margin floor equal to the move-limit ceiling.
const rangeTolerance = 1e-9

// Names of the constraints that can bound the admissible range.
const (
	BoundAbsoluteMin = "absolute_min_price"
	BoundAbsoluteMax = "absolute_max_price"
	BoundMoveLimit   = "max_daily_move"
	BoundMarginFloor = "min_margin"
	BoundCompetitive = "competitive_max_delta"
)

// ValidateContext checks the day's context before any computation.
func ValidateContext(day model.DayContext) error {
	if day.Date.IsZero() {
		return &InvalidContextError{Field: "date", Reason: "is required"}
	}
	if !isFinite(day.CostPerUnit) || day.CostPerUnit < 0 {
		return &InvalidContextError{Field: "cost_per_unit", Reason: "must be a finite value >= 0"}
	}
	if !isFinite(day.PreviousPrice) || day.PreviousPrice <= 0 {
		return &InvalidContextError{Field: "previous_price", Reason: "must be a finite value > 0"}
	}
	if !isFinite(day.SeasonalityFactor) {
		return &InvalidContextError{Field: "seasonality_factor", Reason: "must be finite"}
	}
	for _, p := range day.CompetitorPrices {
		if !isFinite(p) || p <= 0 {
			return &InvalidContextError{Field: "competitor_prices", Reason: "must contain finite values > 0"}
		}
	}
	return nil
}

// ComputeRange returns the admissible price interval for the day: the
// intersection of the daily move limit around the previous price, the margin
// floor above cost, the absolute bounds and, when configured, the competitive
// ceiling. An empty intersection yields an InfeasibleGuardrailError.
func ComputeRange(day model.DayContext, g model.GuardrailConfig) (model.AdmissibleRange, error) {
	if err := ValidateContext(day); err != nil {
		return model.AdmissibleRange{}, err
	}
	return computeRange(day, g)
}

func computeRange(day model.DayContext, g model.GuardrailConfig) (model.AdmissibleRange, error) {
	low, lowBy := g.AbsoluteMinPrice, BoundAbsoluteMin
	if v := day.PreviousPrice * (1 - g.MaxDailyMoveFraction); v > low {
		low, lowBy = v, BoundMoveLimit
	}
	if v := day.CostPerUnit * (1 + g.MinMargin); v > low {
		low, lowBy = v, BoundMarginFloor
	}

	high, highBy := g.AbsoluteMaxPrice, BoundAbsoluteMax
	if v := day.PreviousPrice * (1 + g.MaxDailyMoveFraction); v < high {
		high, highBy = v, BoundMoveLimit
	}
	if g.CompetitiveMaxDelta > 0 {
		if avg, ok := day.AverageCompetitorPrice(); ok {
			if v := avg + g.CompetitiveMaxDelta; v < high {
				high, highBy = v, BoundCompetitive
			}
		}
	}

	if g.PriceTick > 0 {
		low = math.Max(snapUp(low, g.PriceTick), low)
		high = math.Min(snapDown(high, g.PriceTick), high)
	}

	if low > high {
		if low-high > rangeTolerance {
			return model.AdmissibleRange{}, &InfeasibleGuardrailError{Low: low, High: high, LowBound: lowBy, HighBound: highBy}
		}
		low = high
	}
	return model.AdmissibleRange{Low: low, High: high}, nil
}
