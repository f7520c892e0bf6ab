package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
capital:
  senior: 700
  mezzanine: 200
  equity: 100
market:
  premiums: 150
  losses: 400
rates:
  senior: 0.07
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	in := cfg.Input()
	assert.True(t, in.Capital.Senior.Equal(decimal.NewFromInt(700)))
	assert.True(t, in.Outcome.Losses.Equal(decimal.NewFromInt(400)))
	assert.True(t, in.Rates.Senior.Equal(decimal.NewFromFloat(0.07)))
	assert.True(t, in.Rates.Mezzanine.Equal(decimal.NewFromFloat(0.12)), "missing rate falls back to default")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.True(t, cfg.Strict())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "0 0 9 * * *", cfg.Schedule.EvaluateCron)
	assert.Equal(t, 30, cfg.Server.RateLimit)
	assert.Equal(t, "24h", cfg.Cache.TTL)
	assert.Equal(t, 10000, cfg.Cache.MaxEntries)
	assert.True(t, cfg.RateSchedule().Senior.Equal(decimal.NewFromFloat(0.05)))
}

func TestLoad_ExplicitZeroRateIsKept(t *testing.T) {
	path := writeConfig(t, `
rates:
  senior: 0
  mezzanine: 0
validation:
  strict: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.RateSchedule().Senior.IsZero())
	assert.True(t, cfg.RateSchedule().Mezzanine.IsZero())
	assert.False(t, cfg.Strict())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
capital:
  senior: 700
market:
  losses: 400
`)
	t.Setenv("SPV_CAPITAL_SENIOR", "800")
	t.Setenv("SPV_LOSSES", "not-a-number")
	t.Setenv("SPV_RATE_MEZZANINE", "0.2")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 800.0, cfg.Capital.Senior)
	assert.Equal(t, 400.0, cfg.Market.Losses, "unparseable override is ignored")
	assert.True(t, cfg.RateSchedule().Mezzanine.Equal(decimal.NewFromFloat(0.2)))
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "capital: [oops")
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	path := writeConfig(t, `
capital:
  senior: -1
telegram:
  bot_token: abc
database:
  sqlite_path: a.db
  postgres_dsn: postgres://localhost/spv
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "chat_id")
	assert.Contains(t, err.Error(), "at most one")
	assert.Contains(t, err.Error(), "capital")
}

func TestValidate_Cache(t *testing.T) {
	path := writeConfig(t, `
cache:
  ttl: forever
  max_entries: -5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "cache.ttl")
	assert.Contains(t, err.Error(), "cache.max_entries")
}
