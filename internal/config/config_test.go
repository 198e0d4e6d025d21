package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fabula-server/internal/config"
)

func TestGetDSN(t *testing.T) {
	cfg := &config.Config{
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "fabula",
		DBPassword: "secret",
		DBName:     "fabula_db",
		DBSSLMode:  "disable",
	}
	assert.Equal(t, "postgres://fabula:secret@db:5432/fabula_db?sslmode=disable", cfg.GetDSN())
}

func TestMaskedDSN(t *testing.T) {
	cfg := &config.Config{
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "fabula",
		DBPassword: "secret",
		DBName:     "fabula_db",
		DBSSLMode:  "disable",
	}
	masked := cfg.MaskedDSN()
	assert.NotContains(t, masked, "secret")
	assert.Contains(t, masked, "fabula:********@db")
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("AI_PROVIDER", "local")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "9091", cfg.MetricsPort)
	assert.Equal(t, 0.7, cfg.QualityThreshold)
	assert.Equal(t, 3, cfg.MaxRegenerationAttempts)
	assert.Equal(t, "standard", cfg.DefaultComplexity)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaHost)
}

func TestLoadConfig_CloudRequiresKey(t *testing.T) {
	t.Setenv("AI_PROVIDER", "cloud")
	t.Setenv("AI_API_KEY", "")

	_, err := config.LoadConfig()
	require.Error(t, err)

	t.Setenv("AI_API_KEY", "sk-test")
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.AIAPIKey)
}
