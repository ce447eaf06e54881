package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/fuelprice/core/model"
)

// Default search settings applied by SetDefaults.
const (
	DefaultGridResolution       = 0.01
	DefaultRefinementIterations = 20
	DefaultTieEpsilon           = 1e-9
	DefaultMaxGridPoints        = 100000
)

// Config holds the guardrail and search options. It is loaded once and
// treated as read-only afterwards.
type Config struct {
	MaxDailyMoveFraction float64 `json:"max_daily_move_fraction"`
	MinMargin            float64 `json:"min_margin"`
	AbsoluteMinPrice     float64 `json:"absolute_min_price"`
	AbsoluteMaxPrice     float64 `json:"absolute_max_price"`
	CompetitiveMaxDelta  float64 `json:"competitive_max_delta"`
	PriceTick            float64 `json:"price_tick"`

	// SearchGridResolution is the maximum spacing between grid prices in
	// currency units.
	SearchGridResolution  float64 `json:"search_grid_resolution"`
	EnableLocalRefinement bool    `json:"enable_local_refinement"`
	RefinementIterations  int     `json:"refinement_iterations"`
	// TieEpsilon is the absolute profit difference under which two
	// candidates are considered equal; the lower price wins. Nil means
	// DefaultTieEpsilon; an explicit 0 requires exact equality.
	TieEpsilon *float64 `json:"tie_epsilon"`
	// Workers > 1 evaluates grid prices concurrently. The predictor must then
	// be safe for concurrent use.
	Workers       int `json:"workers"`
	MaxGridPoints int `json:"max_grid_points"`
}

// SetDefaults fills unset search options.
func (c *Config) SetDefaults() {
	if c.SearchGridResolution == 0 {
		c.SearchGridResolution = DefaultGridResolution
	}
	if c.RefinementIterations == 0 {
		c.RefinementIterations = DefaultRefinementIterations
	}
	if c.TieEpsilon == nil {
		eps := DefaultTieEpsilon
		c.TieEpsilon = &eps
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.MaxGridPoints == 0 {
		c.MaxGridPoints = DefaultMaxGridPoints
	}
}

func (c Config) tieEpsilon() float64 {
	if c.TieEpsilon == nil {
		return DefaultTieEpsilon
	}
	return *c.TieEpsilon
}

// Guardrails returns the guardrail subset of the configuration.
func (c Config) Guardrails() model.GuardrailConfig {
	return model.GuardrailConfig{
		MaxDailyMoveFraction: c.MaxDailyMoveFraction,
		MinMargin:            c.MinMargin,
		AbsoluteMinPrice:     c.AbsoluteMinPrice,
		AbsoluteMaxPrice:     c.AbsoluteMaxPrice,
		CompetitiveMaxDelta:  c.CompetitiveMaxDelta,
		PriceTick:            c.PriceTick,
	}
}

// Validate checks the configuration. SetDefaults should be called first.
//
//gocyclo:ignore
func (c Config) Validate() error {
	if err := ValidateGuardrails(c.Guardrails()); err != nil {
		return err
	}
	if !isFinite(c.SearchGridResolution) || c.SearchGridResolution <= 0 {
		return errors.New("search_grid_resolution must be > 0")
	}
	if c.PriceTick > 0 && c.SearchGridResolution < c.PriceTick {
		return fmt.Errorf("search_grid_resolution %.4f is finer than price_tick %.4f", c.SearchGridResolution, c.PriceTick)
	}
	if c.RefinementIterations < 0 {
		return errors.New("refinement_iterations must be >= 0")
	}
	if eps := c.tieEpsilon(); !isFinite(eps) || eps < 0 {
		return errors.New("tie_epsilon must be >= 0")
	}
	if c.Workers < 1 {
		return errors.New("workers must be >= 1")
	}
	if c.MaxGridPoints < 2 {
		return errors.New("max_grid_points must be >= 2")
	}
	span := c.AbsoluteMaxPrice - c.AbsoluteMinPrice
	if points := math.Ceil(span/c.SearchGridResolution) + 1; points > float64(c.MaxGridPoints) {
		return fmt.Errorf("search grid over [%.4f, %.4f] at resolution %.4f needs %.0f points, above max_grid_points %d",
			c.AbsoluteMinPrice, c.AbsoluteMaxPrice, c.SearchGridResolution, points, c.MaxGridPoints)
	}
	return nil
}

// ValidateGuardrails checks a guardrail configuration.
func ValidateGuardrails(g model.GuardrailConfig) error {
	for name, v := range map[string]float64{
		"max_daily_move_fraction": g.MaxDailyMoveFraction,
		"min_margin":              g.MinMargin,
		"absolute_min_price":      g.AbsoluteMinPrice,
		"absolute_max_price":      g.AbsoluteMaxPrice,
		"competitive_max_delta":   g.CompetitiveMaxDelta,
		"price_tick":              g.PriceTick,
	} {
		if !isFinite(v) {
			return fmt.Errorf("%s must be finite", name)
		}
	}
	if g.MaxDailyMoveFraction <= 0 || g.MaxDailyMoveFraction >= 1 {
		return errors.New("max_daily_move_fraction must be in (0, 1)")
	}
	if g.MinMargin < 0 {
		return errors.New("min_margin must be >= 0")
	}
	if g.AbsoluteMinPrice < 0 {
		return errors.New("absolute_min_price must be >= 0")
	}
	if g.AbsoluteMaxPrice <= g.AbsoluteMinPrice {
		return errors.New("absolute_max_price must be greater than absolute_min_price")
	}
	if g.CompetitiveMaxDelta < 0 {
		return errors.New("competitive_max_delta must be >= 0")
	}
	if g.PriceTick < 0 {
		return errors.New("price_tick must be >= 0")
	}
	return nil
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
