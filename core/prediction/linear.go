package prediction

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/fuelprice/core/model"
)

// LinearArtifact is the on-disk shape of a linear volume model.
type LinearArtifact struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// LinearModel predicts volume as intercept + w·Features(day, price).
type LinearModel struct {
	intercept float64
	weights   []float64
}

// NewLinearModel aligns the coefficients with FeatureNames. Features without
// a coefficient get weight zero; unknown feature names are rejected.
func NewLinearModel(a LinearArtifact) (*LinearModel, error) {
	w := make([]float64, len(FeatureNames))
	for name, c := range a.Coefficients {
		idx, ok := featureIndex(name)
		if !ok {
			return nil, fmt.Errorf("unknown feature %q", name)
		}
		w[idx] = c
	}
	return &LinearModel{intercept: a.Intercept, weights: w}, nil
}

// LoadLinearModel reads a LinearArtifact from a JSON file.
func LoadLinearModel(path string) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var a LinearArtifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	return NewLinearModel(a)
}

// PredictVolume implements VolumePredictor.
func (m *LinearModel) PredictVolume(price float64, day model.DayContext) (float64, error) {
	return m.intercept + floats.Dot(m.weights, Features(day, price)), nil
}
