package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_PREFIX", "/api/")
	t.Setenv("STORE_BACKEND", "REDIS")
	t.Setenv("AUTO_PRUNE", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ASSETS_DIR", "library")

	cfg := Load()
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, StoreBackendRedis, cfg.StoreBackend)
	assert.True(t, cfg.AutoPrune)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "library", cfg.AssetsDir)
}

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("AUDIODECK_TEST_INT", "not-a-number")
	t.Setenv("AUDIODECK_TEST_BOOL", "maybe")

	assert.Equal(t, 7, getEnvInt("AUDIODECK_TEST_INT", 7))
	assert.False(t, getEnvBool("AUDIODECK_TEST_BOOL", false))
	assert.Equal(t, "x", getEnv("AUDIODECK_TEST_MISSING", "x"))
}
