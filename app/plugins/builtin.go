// Package plugins registers components that need wiring across packages,
// such as the remote predictor and its OAuth2 credentials.
package plugins

import (
	"errors"

	"github.com/kilianp07/fuelprice/auth"
	"github.com/kilianp07/fuelprice/core/factory"
	"github.com/kilianp07/fuelprice/core/prediction"
)

// RemotePredictorConfig is the "conf" block of a remote predictor.
type RemotePredictorConfig struct {
	prediction.RemoteConfig `json:",squash"`
	Auth                    auth.Conf `json:"auth"`
}

func init() {
	_ = prediction.RegisterPredictor("remote", NewRemotePredictor)
}

// NewRemotePredictor decodes conf and builds a remote predictor. A token
// source is attached when auth.auth_url is set.
func NewRemotePredictor(conf map[string]any) (prediction.VolumePredictor, error) {
	var c RemotePredictorConfig
	if err := factory.Decode(conf, &c); err != nil {
		return nil, err
	}
	var tokens prediction.TokenSource
	if c.Auth.Enabled() {
		if c.Auth.ClientID == "" {
			return nil, errors.New("remote predictor: auth.client_id is required")
		}
		tokens = auth.NewClientCred(c.Auth)
	}
	return prediction.NewRemotePredictor(c.RemoteConfig, tokens)
}
