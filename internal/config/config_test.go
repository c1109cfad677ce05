package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/PurpleChirp/HealthWatcher/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "http://localhost:5000/api", cfg.Backend.BaseURL)
	require.Equal(t, 5*time.Second, cfg.Dashboard.PollInterval)
	require.Equal(t, 5*time.Second, cfg.Dashboard.AlertDuration)
	require.Equal(t, 20, cfg.Dashboard.ChartCapacity)
	require.Equal(t, time.Second, cfg.Dashboard.RetrainRefetchDelay)
	require.False(t, cfg.Cache.Enabled)
	require.Equal(t, 30*time.Second, cfg.Cache.TTL)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://monitor:9000/api")
	t.Setenv("POLL_INTERVAL_MS", "2500")
	t.Setenv("CHART_CAPACITY", "40")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, "http://monitor:9000/api", cfg.Backend.BaseURL)
	require.Equal(t, 2500*time.Millisecond, cfg.Dashboard.PollInterval)
	require.Equal(t, 40, cfg.Dashboard.ChartCapacity)
	require.True(t, cfg.Cache.Enabled)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	t.Setenv("POLL_INTERVAL_MS", "not-a-number")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, cfg.Dashboard.PollInterval)
}
