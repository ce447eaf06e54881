package prediction

import "github.com/kilianp07/fuelprice/core/model"

// competitorSlots is the number of competitor price columns in the feature
// vector.
const competitorSlots = 3

// FeatureNames lists the feature vector layout returned by Features.
// day_of_week counts from Monday = 0.
var FeatureNames = []string{
	"price",
	"cost",
	"comp1_price",
	"comp2_price",
	"comp3_price",
	"avg_comp_price",
	"price_gap_vs_avg",
	"day_of_week",
	"month",
	"seasonality_factor",
}

// Features builds the model input vector for a candidate price.
// Missing competitor slots are filled with the competitor average; without
// any competitor price the candidate price itself stands in, so the gap
// feature is zero.
func Features(day model.DayContext, price float64) []float64 {
	avg, ok := day.AverageCompetitorPrice()
	if !ok {
		avg = price
	}
	comps := make([]float64, competitorSlots)
	for i := range comps {
		if i < len(day.CompetitorPrices) {
			comps[i] = day.CompetitorPrices[i]
		} else {
			comps[i] = avg
		}
	}
	return []float64{
		price,
		day.CostPerUnit,
		comps[0],
		comps[1],
		comps[2],
		avg,
		price - avg,
		float64((int(day.Date.Weekday())+6)%7),
		float64(day.Date.Month()),
		day.SeasonalityFactor,
	}
}

// FeatureMap returns Features keyed by FeatureNames.
func FeatureMap(day model.DayContext, price float64) map[string]float64 {
	vec := Features(day, price)
	out := make(map[string]float64, len(vec))
	for i, name := range FeatureNames {
		out[name] = vec[i]
	}
	return out
}

func featureIndex(name string) (int, bool) {
	for i, n := range FeatureNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}
