package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.OTELEnabled)
	assert.Equal(t, 1.0, cfg.OTELSampleRate)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.OTELEnabled)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "70000")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("port not a number", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "eighty")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("sample rate out of range", func(t *testing.T) {
		t.Setenv("OTEL_SAMPLE_RATE", "1.5")
		_, err := Load()
		assert.Error(t, err)
	})
}
