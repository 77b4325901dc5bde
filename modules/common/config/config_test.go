package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMinimalEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEYS", " key-a , ,key-b")
	t.Setenv("CREDIT_BACKEND", "memory")
	t.Setenv("STORAGE_BACKEND", "minio")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("MINIO_ACCESS_KEY", "access")
	t.Setenv("MINIO_SECRET_KEY", "secret")
}

func TestParseDefaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"key-a", "key-b"}, cfg.GeminiAPIKeys)
	assert.Equal(t, 2, cfg.ImagePerPrice)
	assert.Equal(t, 256, cfg.MaxBatches)
	assert.Equal(t, 5*time.Minute, cfg.LibraryCacheTTL)
	assert.Equal(t, 30*time.Minute, cfg.PlanTTL)
	assert.Equal(t, 3*time.Minute, cfg.GeminiTimeout)
	assert.Equal(t, "3:4", cfg.DefaultAspectRatio)
	assert.Equal(t, "1K", cfg.DefaultResolution)
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
	assert.False(t, cfg.HasSupabase())
}

func TestParseRequiresGeminiKeys(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("GEMINI_API_KEYS", "")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEYS")
}

func TestParseSupabaseCreditBackendNeedsCredentials(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("CREDIT_BACKEND", "Supabase")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL")
}

func TestParseRejectsUnknownStorageBackend(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("STORAGE_BACKEND", "ftp")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BACKEND")
}

func TestParseGeminiTimeout(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("GEMINI_TIMEOUT", "45s")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.GeminiTimeout)
}
