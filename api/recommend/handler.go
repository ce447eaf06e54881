// Package recommend exposes the daily price recommendation over HTTP.
package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kilianp07/fuelprice/core/model"
	"github.com/kilianp07/fuelprice/core/pricelog"
	"github.com/kilianp07/fuelprice/core/pricing"
)

// Recommender produces and records the decision for a day.
type Recommender interface {
	Recommend(ctx context.Context, day model.DayContext, source string) (pricelog.LogRecord, error)
}

// Request is the body of POST /api/recommend. PreviousPrice may be omitted,
// the latest applied price is used instead.
type Request struct {
	Date              string    `json:"date"`
	PreviousPrice     float64   `json:"previous_price"`
	Cost              float64   `json:"cost"`
	CompetitorPrices  []float64 `json:"competitor_prices"`
	SeasonalityFactor *float64  `json:"seasonality_factor"`
}

// DayContext converts the request. The date is YYYY-MM-DD or RFC 3339 and
// the seasonality factor defaults to 1.
func (r Request) DayContext() (model.DayContext, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return model.DayContext{}, err
	}
	season := 1.0
	if r.SeasonalityFactor != nil {
		season = *r.SeasonalityFactor
	}
	return model.DayContext{
		Date:              date,
		CostPerUnit:       r.Cost,
		CompetitorPrices:  r.CompetitorPrices,
		SeasonalityFactor: season,
		PreviousPrice:     r.PreviousPrice,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("date is required")
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.New("date must be YYYY-MM-DD or RFC 3339")
	}
	return t, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler returns the POST /api/recommend handler. Invalid input answers
// 400. Infeasible guardrails and missing feasible candidates answer 200 with
// the hold_previous_price action.
func NewHandler(rec Recommender) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req Request
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid body: " + err.Error()})
			return
		}
		day, err := req.DayContext()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		out, err := rec.Recommend(r.Context(), day, "api")
		switch {
		case errors.Is(err, pricing.ErrInvalidContext):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case err != nil:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "recommendation failed"})
		default:
			writeJSON(w, http.StatusOK, out)
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
