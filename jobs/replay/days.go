package replay

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/fuelprice/core/model"
)

// DayDef is the YAML form of a day context.
type DayDef struct {
	Date             string    `yaml:"date"`
	Cost             float64   `yaml:"cost"`
	CompetitorPrices []float64 `yaml:"competitor_prices"`
	// SeasonalityFactor defaults to 1 when omitted.
	SeasonalityFactor *float64 `yaml:"seasonality_factor"`
	PreviousPrice     float64  `yaml:"previous_price,omitempty"`
}

func (d DayDef) ToModel() (model.DayContext, error) {
	if d.Date == "" {
		return model.DayContext{}, errors.New("date is required")
	}
	date, err := time.Parse(time.DateOnly, d.Date)
	if err != nil {
		return model.DayContext{}, fmt.Errorf("date %q: %w", d.Date, err)
	}
	season := 1.0
	if d.SeasonalityFactor != nil {
		season = *d.SeasonalityFactor
	}
	return model.DayContext{
		Date:              date,
		CostPerUnit:       d.Cost,
		CompetitorPrices:  d.CompetitorPrices,
		SeasonalityFactor: season,
		PreviousPrice:     d.PreviousPrice,
	}, nil
}

// DaysFile lists consecutive days to replay.
type DaysFile struct {
	Days []DayDef `yaml:"days"`
}

// LoadDay reads a single day context from a YAML file.
func LoadDay(path string) (model.DayContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.DayContext{}, err
	}
	var d DayDef
	if err := yaml.Unmarshal(data, &d); err != nil {
		return model.DayContext{}, err
	}
	return d.ToModel()
}

// LoadDays reads a days file.
func LoadDays(path string) ([]model.DayContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f DaysFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return ToModels(f.Days)
}

// ToModels converts every definition, reporting the first invalid one.
func ToModels(defs []DayDef) ([]model.DayContext, error) {
	out := make([]model.DayContext, len(defs))
	for i, d := range defs {
		day, err := d.ToModel()
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", i+1, err)
		}
		out[i] = day
	}
	return out, nil
}
