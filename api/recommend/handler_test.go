package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fuelprice/core/model"
	"github.com/kilianp07/fuelprice/core/pricelog"
	"github.com/kilianp07/fuelprice/core/pricing"
)

type stubRecommender struct {
	got model.DayContext
	out pricelog.LogRecord
	err error
}

func (s *stubRecommender) Recommend(_ context.Context, day model.DayContext, source string) (pricelog.LogRecord, error) {
	s.got = day
	s.out.Source = source
	return s.out, s.err
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandler_OK(t *testing.T) {
	stub := &stubRecommender{out: pricelog.LogRecord{Outcome: pricing.OutcomeRecommended, Action: "apply_recommendation", AppliedPrice: 3.15}}
	rr := post(NewHandler(stub), `{"date":"2024-03-04","previous_price":3.0,"cost":2.5,"competitor_prices":[3.05,3.1]}`)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), stub.got.Date)
	assert.Equal(t, 2.5, stub.got.CostPerUnit)
	assert.Equal(t, 1.0, stub.got.SeasonalityFactor)
	assert.Equal(t, []float64{3.05, 3.1}, stub.got.CompetitorPrices)

	var out pricelog.LogRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, 3.15, out.AppliedPrice)
	assert.Equal(t, "api", out.Source)
}

func TestHandler_SeasonalityExplicitZero(t *testing.T) {
	stub := &stubRecommender{}
	post(NewHandler(stub), `{"date":"2024-03-04","cost":2.5,"seasonality_factor":0}`)
	assert.Zero(t, stub.got.SeasonalityFactor)
	assert.Zero(t, stub.got.PreviousPrice)
}

func TestHandler_Hold(t *testing.T) {
	stub := &stubRecommender{out: pricelog.LogRecord{Outcome: pricing.OutcomeInfeasibleGuardrail, Action: "hold_previous_price", AppliedPrice: 3}}
	rr := post(NewHandler(stub), `{"date":"2024-03-04","previous_price":3,"cost":3}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "hold_previous_price")
}

func TestHandler_BadRequests(t *testing.T) {
	cases := map[string]string{
		"malformed":     `{"date":`,
		"unknown field": `{"date":"2024-03-04","cost":2.5,"weather":"sunny"}`,
		"missing date":  `{"cost":2.5}`,
		"bad date":      `{"date":"04/03/2024","cost":2.5}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := post(NewHandler(&stubRecommender{}), body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestHandler_InvalidContext(t *testing.T) {
	stub := &stubRecommender{err: &pricing.InvalidContextError{Field: "cost_per_unit", Reason: "must be non-negative"}}
	rr := post(NewHandler(stub), `{"date":"2024-03-04","cost":-1,"previous_price":3}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "cost_per_unit")
}

func TestHandler_InternalError(t *testing.T) {
	stub := &stubRecommender{err: errors.New("disk full")}
	rr := post(NewHandler(stub), `{"date":"2024-03-04","cost":2.5,"previous_price":3}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "disk full")
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/recommend", nil)
	rr := httptest.NewRecorder()
	NewHandler(&stubRecommender{}).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
