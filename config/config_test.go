package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/arena?sslmode=disable")
	t.Setenv("ORACLE_API_KEY", "test-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ORACLE_URL", "")
	t.Setenv("ORACLE_MODEL", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SERIES_WIN_TARGET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultOracleURL, cfg.OracleURL)
	assert.Equal(t, defaultOracleModel, cfg.OracleModel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, defaultSeriesWinTarget, cfg.SeriesWinTarget)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ORACLE_API_KEY", "test-key")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_MissingOracleKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/arena")
	t.Setenv("ORACLE_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORACLE_API_KEY")
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ORACLE_URL", "http://localhost:9999/v1/completions")
	t.Setenv("ORACLE_MODEL", "custom-model")
	t.Setenv("SERVER_PORT", "9001")
	t.Setenv("SERIES_WIN_TARGET", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/v1/completions", cfg.OracleURL)
	assert.Equal(t, "custom-model", cfg.OracleModel)
	assert.Equal(t, 9001, cfg.ServerPort)
	assert.Equal(t, 3, cfg.SeriesWinTarget)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "SERVER_PORT", "http"},
		{"port out of range", "SERVER_PORT", "70000"},
		{"non-numeric series target", "SERIES_WIN_TARGET", "four"},
		{"zero series target", "SERIES_WIN_TARGET", "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
