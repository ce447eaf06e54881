package prediction

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) GetToken() (string, error) { return string(s), nil }

type failingToken struct{}

func (failingToken) GetToken() (string, error) { return "", errors.New("no credentials") }

func TestRemotePredictor_Predict(t *testing.T) {
	var gotAuth string
	var got remoteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"volume": 412.5}`))
	}))
	defer srv.Close()

	p, err := NewRemotePredictor(RemoteConfig{URL: srv.URL}, staticToken("tok"))
	require.NoError(t, err)
	v, err := p.PredictVolume(3.05, featureDay())
	require.NoError(t, err)
	assert.Equal(t, 412.5, v)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, 3.05, got.Price)
	assert.Equal(t, 2.5, got.Features["cost"])
	assert.Len(t, got.Features, len(FeatureNames))
}

func TestRemotePredictor_BadResponses(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"missing volume": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			p, err := NewRemotePredictor(RemoteConfig{URL: srv.URL}, nil)
			require.NoError(t, err)
			v, err := p.PredictVolume(3, featureDay())
			assert.Error(t, err)
			assert.True(t, math.IsNaN(v))
		})
	}
}

func TestRemotePredictor_TokenError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("request must not be sent without a token")
	}))
	defer srv.Close()
	p, err := NewRemotePredictor(RemoteConfig{URL: srv.URL}, failingToken{})
	require.NoError(t, err)
	_, err = p.PredictVolume(3, featureDay())
	assert.ErrorContains(t, err, "no credentials")
}

func TestRemotePredictor_BreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, err := NewRemotePredictor(RemoteConfig{URL: srv.URL, MaxConsecutiveFailures: 2, OpenSeconds: 60}, nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := p.PredictVolume(3, featureDay())
		assert.Error(t, err)
	}
	assert.EqualValues(t, 2, hits.Load())
	assert.Equal(t, "open", p.BreakerState())
}

func TestNewRemotePredictor_RequiresURL(t *testing.T) {
	_, err := NewRemotePredictor(RemoteConfig{}, nil)
	assert.Error(t, err)
}
