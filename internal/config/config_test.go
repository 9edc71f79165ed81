package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("PROVIDER", "")
	t.Setenv("QDRANT_PORT", "")
	t.Setenv("ENV", "")

	cfg := FromEnv()
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, 6334, cfg.QdrantPort)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.Debug())
}

func TestDebugNeedsExplicitDevelopmentEnv(t *testing.T) {
	t.Setenv("ENV", "Development")
	assert.True(t, FromEnv().Debug())

	t.Setenv("ENV", "staging")
	assert.False(t, FromEnv().Debug())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("PROVIDER", "OpenAI")
	t.Setenv("USER_TOKEN_LIMIT", "not-a-number")
	t.Setenv("CACHE_THRESHOLD", "0.9")
	t.Setenv("ENV", "production")

	cfg := FromEnv()
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, 0, cfg.UserTokenLimit)
	assert.InDelta(t, 0.9, cfg.CacheThreshold, 0.0001)
	assert.False(t, cfg.Debug())
}

func TestAllowedOriginsTrimsBlanks(t *testing.T) {
	cfg := Config{CORSOrigins: " http://a.test , ,http://b.test"}
	assert.Equal(t, "http://a.test,http://b.test", cfg.AllowedOrigins())
}
