package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacklepos/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBDSN)
	assert.True(t, cfg.SeedDemo)
	assert.False(t, cfg.EnforceStockFloor)
	assert.Equal(t, 15*time.Second, cfg.InsightTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENFORCE_STOCK_FLOOR", "true")
	t.Setenv("GEMINI_API_KEY", "secret-key")
	t.Setenv("INSIGHT_TIMEOUT", "2s")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.EnforceStockFloor)
	assert.Equal(t, 2*time.Second, cfg.InsightTimeout)

	f := cfg.Fields()
	assert.Equal(t, true, f["gemini_configured"])
	for _, v := range f {
		assert.NotEqual(t, "secret-key", v)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("INSIGHT_TIMEOUT", "soon")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "pos.log"))
	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}
