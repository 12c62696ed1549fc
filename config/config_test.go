package config

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_PATH", "DATABASE_URL", "YEAR_OPEN_INTERVAL", "METRICS_ENABLED", "CORS_ORIGINS", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "leave.db", cfg.DBPath)
	assert.False(t, cfg.UsePostgres())
	assert.Equal(t, time.Hour, cfg.YearOpenInterval)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:8080"}, cfg.CORSOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_EnvThenFlags(t *testing.T) {
	// GIVEN: environment overrides
	t.Setenv("PORT", "9000")
	t.Setenv("DB_PATH", "/tmp/env.db")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("YEAR_OPEN_INTERVAL", "10m")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	// WHEN: a flag overrides one of them
	cfg, err := Load([]string{"-port=7000", "-database-url=postgres://localhost/leave"})
	require.NoError(t, err)

	// THEN: flags win, env fills the rest
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.True(t, cfg.UsePostgres())
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, 10*time.Minute, cfg.YearOpenInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_BadEnvFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("YEAR_OPEN_INTERVAL", "soon")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, time.Hour, cfg.YearOpenInterval)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load([]string{"-port=0"})
	assert.Error(t, err)

	_, err = Load([]string{"-year-open-interval=-1s"})
	assert.Error(t, err)

	_, err = Load([]string{"-no-such-flag"})
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := Config{LogLevel: "warn", LogFormat: "text"}.NewLogger(&buf)

	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))

	logger.Warn("year opened", "year", 2026)
	assert.Contains(t, buf.String(), "year=2026")
}
