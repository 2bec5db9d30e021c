package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/internal/config"
)

// Tests mutate the process environment, so none of them run in parallel.

// unset removes keys for the duration of the test. t.Setenv registers the
// restore; godotenv only fills keys that are absent.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	unset(t, "APP_ENV", "HTTP_ADDR", "HTTP_READ_TIMEOUT", "MAX_BODY_BYTES", "REDIS_EMAIL_SET")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodyBytes)
	assert.Equal(t, "formkit:emails", cfg.Redis.EmailSet)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_File(t *testing.T) {
	unset(t, "SERVICE_NAME", "HTTP_READ_TIMEOUT", "REDIS_URL")
	t.Setenv("HTTP_ADDR", ":7070")

	cfg, err := config.Load("testdata/.env.test")
	require.NoError(t, err)

	assert.Equal(t, "formd-test", cfg.ServiceName)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
	assert.Equal(t, ":7070", cfg.HTTP.Addr, "environment wins over the file")
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load("testdata/missing.env")
		assert.ErrorIs(t, err, config.ErrLoadingEnv)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("HTTP_IDLE_TIMEOUT", "soon")
		_, err := config.Load()
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("non-positive body limit", func(t *testing.T) {
		t.Setenv("MAX_BODY_BYTES", "0")
		_, err := config.Load()
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestConfig_IsProduction(t *testing.T) {
	assert.True(t, config.Config{AppEnv: "prod"}.IsProduction())
	assert.True(t, config.Config{AppEnv: "production"}.IsProduction())
	assert.False(t, config.Config{AppEnv: "staging"}.IsProduction())
}
