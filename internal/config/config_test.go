package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/jobs-service/internal/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/jobs")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	for _, k := range []string{"JOBS_PORT", "JOBS_GRPC_PORT", "ADZUNA_COUNTRY", "IMPORT_INTERVAL_HOURS", "IMPORT_TITLES"} {
		t.Setenv(k, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "8083", cfg.Port)
	assert.Equal(t, "9083", cfg.GRPCPort)
	assert.Equal(t, "fr", cfg.AdzunaCountry)
	assert.Equal(t, 6, cfg.ImportIntervalHours)
	assert.Empty(t, cfg.ImportTitles)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoad_MissingRedisURL(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_URL", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "REDIS_URL")
}

func TestLoad_InvalidInterval(t *testing.T) {
	setRequired(t)
	for _, v := range []string{"0", "-3", "six"} {
		t.Setenv("IMPORT_INTERVAL_HOURS", v)
		_, err := config.Load()
		assert.Error(t, err, "IMPORT_INTERVAL_HOURS=%q", v)
	}
}

func TestLoad_Lists(t *testing.T) {
	setRequired(t)
	t.Setenv("IMPORT_TITLES", "golang developer, ,backend engineer")
	t.Setenv("IMPORT_LOCATIONS", "Paris")
	t.Setenv("IMPORT_RED_FLAGS", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"golang developer", "backend engineer"}, cfg.ImportTitles)
	assert.Equal(t, []string{"Paris"}, cfg.ImportLocations)
	assert.Nil(t, cfg.ImportRedFlags)
}
