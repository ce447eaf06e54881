package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/fuelprice/core/factory"
	"github.com/kilianp07/fuelprice/core/metrics"
	"github.com/kilianp07/fuelprice/core/pricelog"
	"github.com/kilianp07/fuelprice/core/pricing"
)

// EnvPrefix marks environment variables overriding file settings. Nested
// keys are separated by a double underscore, e.g.
// FUELPRICE_PRICING__MIN_MARGIN=0.12.
const EnvPrefix = "FUELPRICE_"

type Config struct {
	Pricing   pricing.Config       `json:"pricing"`
	Predictor factory.ModuleConfig `json:"predictor"`
	Metrics   metrics.Config       `json:"metrics"`
	History   pricelog.Config      `json:"history"`
	Server    ServerConfig         `json:"server"`
	Sentry    SentryConfig         `json:"sentry"`
}

// Load reads the YAML or JSON file at path, applies environment overrides,
// defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// SetDefaults fills unset settings of every section.
func (c *Config) SetDefaults() {
	c.Pricing.SetDefaults()
	c.Server.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Pricing.Validate(); err != nil {
		return fmt.Errorf("pricing: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if c.History.Backend != "" && c.History.Backend != "memory" && c.History.Path == "" {
		return errors.New("history: path is required")
	}
	if c.Sentry.TracesSampleRate < 0 || c.Sentry.TracesSampleRate > 1 {
		return errors.New("sentry: traces_sample_rate must be within [0,1]")
	}
	return nil
}
