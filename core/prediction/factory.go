package prediction

import (
	"errors"

	"github.com/kilianp07/fuelprice/core/factory"
)

var predictorRegistry = factory.NewRegistry[VolumePredictor]()

// RegisterPredictor adds a predictor factory identified by name.
func RegisterPredictor(name string, f factory.Factory[VolumePredictor]) error {
	return predictorRegistry.Register(name, f)
}

// NewPredictor creates the predictor described by cfg.
func NewPredictor(cfg factory.ModuleConfig) (VolumePredictor, error) {
	if cfg.Type == "" {
		return nil, errors.New("predictor type is required")
	}
	return predictorRegistry.Create(cfg)
}

// RegisteredPredictors lists the known predictor types.
func RegisteredPredictors() []string { return predictorRegistry.Types() }

func init() {
	_ = RegisterPredictor("constant", func(conf map[string]any) (VolumePredictor, error) {
		var c ConstantVolume
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return c, nil
	})
	_ = RegisterPredictor("linear_demand", func(conf map[string]any) (VolumePredictor, error) {
		var d LinearDemand
		if err := factory.Decode(conf, &d); err != nil {
			return nil, err
		}
		return d, nil
	})
	_ = RegisterPredictor("linear", func(conf map[string]any) (VolumePredictor, error) {
		var c struct {
			ModelPath    string             `json:"model_path"`
			Intercept    float64            `json:"intercept"`
			Coefficients map[string]float64 `json:"coefficients"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.ModelPath != "" {
			return LoadLinearModel(c.ModelPath)
		}
		return NewLinearModel(LinearArtifact{Intercept: c.Intercept, Coefficients: c.Coefficients})
	})
}
