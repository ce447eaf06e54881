package config

import "errors"

// ServerConfig defines the HTTP API settings.
type ServerConfig struct {
	Address string `json:"address"`
	// Token protects the history endpoint when set.
	Token string `json:"token"`
	// ReadTimeoutSeconds bounds request reading, including the body.
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.ReadTimeoutSeconds == 0 {
		c.ReadTimeoutSeconds = 10
	}
}

// Validate checks mandatory fields.
func (c ServerConfig) Validate() error {
	if c.ReadTimeoutSeconds < 0 {
		return errors.New("read_timeout_seconds must be positive")
	}
	return nil
}
