package prediction

import "github.com/kilianp07/fuelprice/core/model"

// VolumePredictor estimates the volume sold at price for the given day.
// A returned error, a negative or a non-finite volume marks the estimate as
// unusable.
type VolumePredictor interface {
	PredictVolume(price float64, day model.DayContext) (float64, error)
}

// PredictorFunc adapts an ordinary function to VolumePredictor.
type PredictorFunc func(price float64, day model.DayContext) (float64, error)

// PredictVolume calls f(price, day).
func (f PredictorFunc) PredictVolume(price float64, day model.DayContext) (float64, error) {
	return f(price, day)
}
