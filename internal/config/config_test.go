// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("UNO_LISTEN_ADDR", ":9999")
	t.Setenv("UNO_REDIS_ADDR", "localhost:6379")
	t.Setenv("UNO_REDIS_DB", "3")
	t.Setenv("UNO_JWT_SECRET", "s3cret")
	t.Setenv("UNO_LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestMalformedIntFallsBack(t *testing.T) {
	t.Setenv("UNO_REDIS_DB", "not-a-number")

	cfg := Load()
	assert.Equal(t, 0, cfg.RedisDB)
}
