package model

import (
	"encoding/json"
	"math"
	"time"
)

// DayContext is the input for a single daily price recommendation.
type DayContext struct {
	Date time.Time `json:"date"`
	// CostPerUnit is today's procurement cost per unit (liter).
	CostPerUnit float64 `json:"cost_per_unit"`
	// CompetitorPrices lists observed competitor prices. It may be empty.
	CompetitorPrices  []float64 `json:"competitor_prices"`
	SeasonalityFactor float64   `json:"seasonality_factor"`
	// PreviousPrice is the price applied yesterday.
	PreviousPrice float64 `json:"previous_price"`
}

// AverageCompetitorPrice returns the mean competitor price. The boolean is
// false when no competitor prices are known.
func (d DayContext) AverageCompetitorPrice() (float64, bool) {
	if len(d.CompetitorPrices) == 0 {
		return 0, false
	}
	var sum float64
	for _, p := range d.CompetitorPrices {
		sum += p
	}
	return sum / float64(len(d.CompetitorPrices)), true
}

// jsonFloat encodes NaN and ±Inf as null and decodes null as NaN.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func (f *jsonFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = jsonFloat(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = jsonFloat(v)
	return nil
}

type dayContextJSON struct {
	Date              time.Time   `json:"date"`
	CostPerUnit       jsonFloat   `json:"cost_per_unit"`
	CompetitorPrices  []jsonFloat `json:"competitor_prices"`
	SeasonalityFactor jsonFloat   `json:"seasonality_factor"`
	PreviousPrice     jsonFloat   `json:"previous_price"`
}

// MarshalJSON encodes non-finite values as null so rejected contexts can
// still be logged.
func (d DayContext) MarshalJSON() ([]byte, error) {
	raw := dayContextJSON{
		Date:              d.Date,
		CostPerUnit:       jsonFloat(d.CostPerUnit),
		SeasonalityFactor: jsonFloat(d.SeasonalityFactor),
		PreviousPrice:     jsonFloat(d.PreviousPrice),
	}
	if d.CompetitorPrices != nil {
		raw.CompetitorPrices = make([]jsonFloat, len(d.CompetitorPrices))
		for i, p := range d.CompetitorPrices {
			raw.CompetitorPrices[i] = jsonFloat(p)
		}
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes null values as NaN. Absent fields stay zero.
func (d *DayContext) UnmarshalJSON(b []byte) error {
	var raw dayContextJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = DayContext{
		Date:              raw.Date,
		CostPerUnit:       float64(raw.CostPerUnit),
		SeasonalityFactor: float64(raw.SeasonalityFactor),
		PreviousPrice:     float64(raw.PreviousPrice),
	}
	if raw.CompetitorPrices != nil {
		d.CompetitorPrices = make([]float64, len(raw.CompetitorPrices))
		for i, p := range raw.CompetitorPrices {
			d.CompetitorPrices[i] = float64(p)
		}
	}
	return nil
}

// GuardrailConfig bounds the admissible price of a day.
type GuardrailConfig struct {
	MaxDailyMoveFraction float64 `json:"max_daily_move_fraction"`
	MinMargin            float64 `json:"min_margin"`
	AbsoluteMinPrice     float64 `json:"absolute_min_price"`
	AbsoluteMaxPrice     float64 `json:"absolute_max_price"`
	// CompetitiveMaxDelta caps the price at the average competitor price plus
	// this delta. Zero disables the ceiling.
	CompetitiveMaxDelta float64 `json:"competitive_max_delta"`
	// PriceTick is the smallest currency unit prices are quoted in. Zero
	// disables snapping.
	PriceTick float64 `json:"price_tick"`
}

// AdmissibleRange is the closed price interval allowed by the guardrails.
type AdmissibleRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether price lies in [Low, High].
func (r AdmissibleRange) Contains(price float64) bool {
	return price >= r.Low && price <= r.High
}

// Width returns High - Low.
func (r AdmissibleRange) Width() float64 { return r.High - r.Low }

// Search phases recorded on candidates.
const (
	PhaseGrid   = "grid"
	PhaseRefine = "refine"
)

// CandidateEvaluation is one price point evaluated during the search.
// Invalid candidates keep the raw predicted volume and a reason; their profit
// is NaN.
type CandidateEvaluation struct {
	Price           float64
	PredictedVolume float64
	PredictedProfit float64
	Valid           bool
	InvalidReason   string
	Phase           string
}

type candidateJSON struct {
	Price           float64  `json:"price"`
	PredictedVolume *float64 `json:"predicted_volume"`
	PredictedProfit *float64 `json:"predicted_profit"`
	Valid           bool     `json:"valid"`
	InvalidReason   string   `json:"invalid_reason,omitempty"`
	Phase           string   `json:"phase"`
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// MarshalJSON encodes non-finite volume and profit as null.
func (c CandidateEvaluation) MarshalJSON() ([]byte, error) {
	return json.Marshal(candidateJSON{
		Price:           c.Price,
		PredictedVolume: finite(c.PredictedVolume),
		PredictedProfit: finite(c.PredictedProfit),
		Valid:           c.Valid,
		InvalidReason:   c.InvalidReason,
		Phase:           c.Phase,
	})
}

// UnmarshalJSON decodes null volume and profit as NaN.
func (c *CandidateEvaluation) UnmarshalJSON(b []byte) error {
	var raw candidateJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*c = CandidateEvaluation{
		Price:           raw.Price,
		PredictedVolume: orNaN(raw.PredictedVolume),
		PredictedProfit: orNaN(raw.PredictedProfit),
		Valid:           raw.Valid,
		InvalidReason:   raw.InvalidReason,
		Phase:           raw.Phase,
	}
	return nil
}

// Recommendation is the result of one engine invocation. It holds no
// timestamps or identifiers so identical inputs yield identical values.
// Callers must treat SearchTrace as read-only.
type Recommendation struct {
	Date             time.Time             `json:"date"`
	RecommendedPrice float64               `json:"recommended_price"`
	PredictedVolume  float64               `json:"predicted_volume"`
	PredictedProfit  float64               `json:"predicted_profit"`
	AdmissibleRange  AdmissibleRange       `json:"admissible_range"`
	SearchTrace      []CandidateEvaluation `json:"search_trace"`
}

// CandidatesEvaluated returns the trace length.
func (r Recommendation) CandidatesEvaluated() int { return len(r.SearchTrace) }

// InvalidCandidates counts trace entries excluded from candidacy.
func (r Recommendation) InvalidCandidates() int {
	n := 0
	for _, c := range r.SearchTrace {
		if !c.Valid {
			n++
		}
	}
	return n
}
