package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/fuelprice/core/factory"
	"github.com/kilianp07/fuelprice/core/pricing"
	"github.com/kilianp07/fuelprice/jobs/replay"
)

type PricingDef struct {
	MaxDailyMoveFraction  float64 `yaml:"max_daily_move_fraction"`
	MinMargin             float64 `yaml:"min_margin"`
	AbsoluteMinPrice      float64 `yaml:"absolute_min_price"`
	AbsoluteMaxPrice      float64 `yaml:"absolute_max_price"`
	CompetitiveMaxDelta   float64 `yaml:"competitive_max_delta,omitempty"`
	PriceTick             float64 `yaml:"price_tick,omitempty"`
	SearchGridResolution  float64 `yaml:"search_grid_resolution,omitempty"`
	EnableLocalRefinement bool    `yaml:"enable_local_refinement,omitempty"`
}

func (p PricingDef) ToConfig() pricing.Config {
	return pricing.Config{
		MaxDailyMoveFraction:  p.MaxDailyMoveFraction,
		MinMargin:             p.MinMargin,
		AbsoluteMinPrice:      p.AbsoluteMinPrice,
		AbsoluteMaxPrice:      p.AbsoluteMaxPrice,
		CompetitiveMaxDelta:   p.CompetitiveMaxDelta,
		PriceTick:             p.PriceTick,
		SearchGridResolution:  p.SearchGridResolution,
		EnableLocalRefinement: p.EnableLocalRefinement,
	}
}

type PredictorDef struct {
	Type string         `yaml:"type"`
	Conf map[string]any `yaml:"conf"`
}

func (p PredictorDef) ToModule() factory.ModuleConfig {
	return factory.ModuleConfig{Type: p.Type, Conf: p.Conf}
}

// Expected describes the decision for one day, in date order.
type Expected struct {
	Outcome string  `yaml:"outcome"`
	Price   float64 `yaml:"price,omitempty"`
	// Tolerance defaults to 1e-6.
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

type Scenario struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Pricing     PricingDef      `yaml:"pricing"`
	Predictor   PredictorDef    `yaml:"predictor"`
	Days        []replay.DayDef `yaml:"days"`
	Expected    []Expected      `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
