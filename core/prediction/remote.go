package prediction

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/kilianp07/fuelprice/core/model"
)

// RemoteConfig configures a predictor backed by a model server.
type RemoteConfig struct {
	URL            string `json:"url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	// MaxConsecutiveFailures opens the circuit breaker.
	MaxConsecutiveFailures uint32 `json:"max_consecutive_failures"`
	// OpenSeconds is how long the breaker stays open before probing again.
	OpenSeconds int `json:"open_seconds"`
}

func (c *RemoteConfig) setDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 5
	}
	if c.MaxConsecutiveFailures == 0 {
		c.MaxConsecutiveFailures = 5
	}
	if c.OpenSeconds <= 0 {
		c.OpenSeconds = 30
	}
}

// TokenSource supplies bearer tokens for the model server.
type TokenSource interface {
	GetToken() (string, error)
}

// RemotePredictor asks a model server for volume estimates. Each call POSTs
// {"price": p, "features": {...}} and expects {"volume": v}. Transport
// failures, non-200 answers, a missing volume and an open circuit breaker are
// all returned as errors.
type RemotePredictor struct {
	url    string
	client *resty.Client
	cb     *gobreaker.CircuitBreaker
	tokens TokenSource
}

type remoteRequest struct {
	Price    float64            `json:"price"`
	Features map[string]float64 `json:"features"`
}

type remoteResponse struct {
	Volume *float64 `json:"volume"`
}

// NewRemotePredictor validates cfg and builds the predictor. tokens may be nil.
func NewRemotePredictor(cfg RemoteConfig, tokens TokenSource) (*RemotePredictor, error) {
	if cfg.URL == "" {
		return nil, errors.New("remote predictor url is required")
	}
	cfg.setDefaults()
	client := resty.New().
		SetTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second).
		SetHeader("Accept", "application/json")
	threshold := cfg.MaxConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "volume-model",
		Timeout: time.Duration(cfg.OpenSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})
	return &RemotePredictor{url: cfg.URL, client: client, cb: cb, tokens: tokens}, nil
}

// PredictVolume implements VolumePredictor.
func (p *RemotePredictor) PredictVolume(price float64, day model.DayContext) (float64, error) {
	out, err := p.cb.Execute(func() (interface{}, error) {
		return p.call(price, day)
	})
	if err != nil {
		return math.NaN(), fmt.Errorf("volume model: %w", err)
	}
	return out.(float64), nil
}

func (p *RemotePredictor) call(price float64, day model.DayContext) (float64, error) {
	req := p.client.R().
		SetBody(remoteRequest{Price: price, Features: FeatureMap(day, price)}).
		SetResult(&remoteResponse{})
	if p.tokens != nil {
		tok, err := p.tokens.GetToken()
		if err != nil {
			return 0, fmt.Errorf("token: %w", err)
		}
		req.SetAuthToken(tok)
	}
	resp, err := req.Post(p.url)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("model server returned %d: %s", resp.StatusCode(), resp.String())
	}
	res, ok := resp.Result().(*remoteResponse)
	if !ok || res.Volume == nil {
		return 0, errors.New("model server response has no volume")
	}
	return *res.Volume, nil
}

// BreakerState returns the circuit breaker state, e.g. "closed" or "open".
func (p *RemotePredictor) BreakerState() string { return p.cb.State().String() }
