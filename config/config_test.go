package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `pricing:
  max_daily_move_fraction: 0.05
  min_margin: 0.10
  absolute_min_price: 1.0
  absolute_max_price: 5.0
  search_grid_resolution: 0.01
  enable_local_refinement: true
predictor:
  type: linear_demand
  conf:
    intercept: 1000
    slope: -200
metrics:
  prometheus_address: ":9102"
  sinks:
    - type: nop
history:
  backend: sqlite
  path: decisions.db
server:
  address: ":9000"
  token: secret
sentry:
  environment: test
`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 0.05, cfg.Pricing.MaxDailyMoveFraction)
	assert.Equal(t, 0.10, cfg.Pricing.MinMargin)
	assert.True(t, cfg.Pricing.EnableLocalRefinement)
	assert.Equal(t, 20, cfg.Pricing.RefinementIterations)
	assert.Equal(t, 1, cfg.Pricing.Workers)
	assert.Equal(t, "linear_demand", cfg.Predictor.Type)
	assert.EqualValues(t, -200, cfg.Predictor.Conf["slope"])
	require.Len(t, cfg.Metrics.Sinks, 1)
	assert.Equal(t, "nop", cfg.Metrics.Sinks[0].Type)
	assert.Equal(t, ":9102", cfg.Metrics.PrometheusAddress)
	assert.Equal(t, "sqlite", cfg.History.Backend)
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, 10, cfg.Server.ReadTimeoutSeconds)
	assert.Equal(t, "test", cfg.Sentry.Environment)
}

func TestLoad_JSON(t *testing.T) {
	data := `{"pricing": {"max_daily_move_fraction": 0.1, "min_margin": 0, "absolute_min_price": 1, "absolute_max_price": 3},
"predictor": {"type": "constant", "conf": {"volume": 5}}}`
	cfg, err := Load(writeFile(t, "config.json", data))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 0.01, cfg.Pricing.SearchGridResolution)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FUELPRICE_PRICING__MIN_MARGIN", "0.12")
	t.Setenv("FUELPRICE_SERVER__ADDRESS", ":7000")
	cfg, err := Load(writeFile(t, "config.yaml", sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 0.12, cfg.Pricing.MinMargin)
	assert.Equal(t, ":7000", cfg.Server.Address)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", "a = 1"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := `pricing:
  max_daily_move_fraction: 1.5
  absolute_min_price: 1
  absolute_max_price: 5
predictor:
  type: constant
`
	_, err = Load(writeFile(t, "bad.yaml", bad))
	assert.ErrorContains(t, err, "pricing")
}

func TestValidate(t *testing.T) {
	base := func() Config {
		c := Config{}
		c.Pricing.MaxDailyMoveFraction = 0.05
		c.Pricing.AbsoluteMinPrice = 1
		c.Pricing.AbsoluteMaxPrice = 5
		c.Predictor.Type = "constant"
		c.SetDefaults()
		return c
	}
	require.NoError(t, base().Validate())

	cases := map[string]func(*Config){
		"no predictor":        func(c *Config) { c.Predictor.Type = "" },
		"history path":        func(c *Config) { c.History.Backend = "jsonl" },
		"sample rate":         func(c *Config) { c.Sentry.TracesSampleRate = 2 },
		"negative timeout":    func(c *Config) { c.Server.ReadTimeoutSeconds = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
