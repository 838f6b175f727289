package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("LSBT_RANK_THRESHOLD", "")
	t.Setenv("LSBT_ANNUALIZATION_FACTOR", "")

	cfg, err := Load()
	require.NoError(t, err)

	// Check defaults
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 38, cfg.Backtest.RankThreshold)
	assert.Equal(t, 2386.0, cfg.Backtest.AnnualizationFactor)
	assert.Equal(t, 0.0, cfg.Backtest.DailyRiskFreeRate)
	assert.Equal(t, 4, cfg.Database.MaxConns)
}

func TestLoadWithCustomValues(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("LSBT_SOURCE_PATH", "testdata/prices.csv")
	t.Setenv("LSBT_RANK_THRESHOLD", "22")
	t.Setenv("LSBT_DAILY_RF_RATE", "0.0001")
	t.Setenv("LSBT_ANNUALIZATION_FACTOR", "252")
	t.Setenv("LSBT_DATE_COLUMN", "true")
	t.Setenv("DB_MAX_CONNS", "10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "testdata/prices.csv", cfg.Backtest.SourcePath)
	assert.Equal(t, 22, cfg.Backtest.RankThreshold)
	assert.Equal(t, 0.0001, cfg.Backtest.DailyRiskFreeRate)
	assert.Equal(t, 252.0, cfg.Backtest.AnnualizationFactor)
	assert.True(t, cfg.Backtest.DateColumn)
	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidateInvalidEnv(t *testing.T) {
	t.Setenv("ENV", "invalid")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateAnnualizationFactor(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("LSBT_ANNUALIZATION_FACTOR", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestRequireDatabase(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireDatabase())

	cfg.Database.URL = "postgres://localhost:5432/lsbt"
	assert.NoError(t, cfg.RequireDatabase())
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "2h")

	assert.Equal(t, 2*time.Hour, getEnvAsDuration("TEST_DURATION", "1h"))
}

func TestGetEnvAsFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT", "abc")
	assert.Equal(t, 1.5, getEnvAsFloat("TEST_FLOAT", 1.5), "unparsable value falls back to default")

	t.Setenv("TEST_FLOAT", "2.25")
	assert.Equal(t, 2.25, getEnvAsFloat("TEST_FLOAT", 1.5))
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")

	assert.True(t, getEnvAsBool("TEST_BOOL", false))
}
