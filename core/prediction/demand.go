package prediction

import "github.com/kilianp07/fuelprice/core/model"

// ConstantVolume returns the same volume for every price.
type ConstantVolume struct {
	Volume float64 `json:"volume"`
}

func (c ConstantVolume) PredictVolume(float64, model.DayContext) (float64, error) {
	return c.Volume, nil
}

// LinearDemand is a demand curve volume = Intercept + Slope*price, scaled by
// the day's seasonality factor when ScaleBySeasonality is set.
type LinearDemand struct {
	Intercept          float64 `json:"intercept"`
	Slope              float64 `json:"slope"`
	ScaleBySeasonality bool    `json:"scale_by_seasonality"`
}

func (d LinearDemand) PredictVolume(price float64, day model.DayContext) (float64, error) {
	v := d.Intercept + d.Slope*price
	if d.ScaleBySeasonality {
		v *= day.SeasonalityFactor
	}
	return v, nil
}
