package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("MINIO_USE_SSL", "true")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("API_KEYS", "key-one, key-two,")
	os.Setenv("TASK_WORKERS", "8")
	os.Setenv("CORS_ALLOW_ORIGINS", "https://shop.example.com")
	defer func() {
		os.Unsetenv("DB_MAX_OPEN_CONNS")
		os.Unsetenv("MINIO_USE_SSL")
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("API_KEYS")
		os.Unsetenv("TASK_WORKERS")
		os.Unsetenv("CORS_ALLOW_ORIGINS")
	}()

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"key-one", "key-two"}, cfg.Auth.APIKeys)
	assert.Equal(t, 8, cfg.Tasks.Workers)
	assert.Equal(t, "https://shop.example.com", cfg.CORS.AllowOrigins)
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("TOKEN_TTL_MIN")
	os.Unsetenv("TASK_QUEUE_SIZE")
	os.Unsetenv("CORS_ALLOW_ORIGINS")
	os.Unsetenv("API_KEYS")

	cfg := Load()

	assert.Equal(t, "catalogapi", cfg.Auth.JWTIssuer)
	assert.Equal(t, 60, cfg.Auth.TokenTTLMin)
	assert.Equal(t, 256, cfg.Tasks.QueueSize)
	assert.Equal(t, "*", cfg.CORS.AllowOrigins)
	assert.Nil(t, cfg.Auth.APIKeys)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvList(t *testing.T) {
	key := "TEST_LIST_VAR"

	os.Setenv(key, "a, b ,c,,")
	assert.Equal(t, []string{"a", "b", "c"}, getEnvList(key))

	os.Setenv(key, "single")
	assert.Equal(t, []string{"single"}, getEnvList(key))

	os.Unsetenv(key)
	assert.Nil(t, getEnvList(key))
}
