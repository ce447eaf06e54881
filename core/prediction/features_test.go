package prediction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fuelprice/core/model"
)

func featureDay() model.DayContext {
	return model.DayContext{
		// Wednesday
		Date:              time.Date(2024, 7, 17, 0, 0, 0, 0, time.UTC),
		CostPerUnit:       2.5,
		CompetitorPrices:  []float64{3.0, 3.2},
		SeasonalityFactor: 1.1,
		PreviousPrice:     3.0,
	}
}

func TestFeatures_Layout(t *testing.T) {
	f := Features(featureDay(), 3.05)
	require.Len(t, f, len(FeatureNames))
	assert.InDeltaSlice(t, []float64{3.05, 2.5, 3.0, 3.2, 3.1, 3.1, -0.05, 2, 7, 1.1}, f, 1e-12)
}

func TestFeatures_NoCompetitors(t *testing.T) {
	day := featureDay()
	day.CompetitorPrices = nil
	m := FeatureMap(day, 3.05)
	assert.Equal(t, 3.05, m["avg_comp_price"])
	assert.Equal(t, 3.05, m["comp1_price"])
	assert.Zero(t, m["price_gap_vs_avg"])
}

func TestFeatures_ExtraCompetitorsOnlyAffectAverage(t *testing.T) {
	day := featureDay()
	day.CompetitorPrices = []float64{3.0, 3.1, 3.2, 3.3}
	m := FeatureMap(day, 3.0)
	assert.Equal(t, 3.2, m["comp3_price"])
	assert.Equal(t, 3.0, m["comp1_price"])
	assert.InDelta(t, 3.15, m["avg_comp_price"], 1e-12)
}

func TestFeatures_WeekStartsMonday(t *testing.T) {
	day := featureDay()
	day.Date = time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	assert.Zero(t, FeatureMap(day, 3)["day_of_week"])
	day.Date = time.Date(2024, 7, 21, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 6.0, FeatureMap(day, 3)["day_of_week"])
}
