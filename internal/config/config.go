// internal/config/config.go

// Package config loads server configuration from the environment, with an
// optional .env file for development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every tunable the server bootstrap needs.
type Config struct {
	ListenAddr string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	LogLevel string
}

// Load reads the environment (and .env when present) into a Config.
func Load() *Config {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		ListenAddr:    getenv("UNO_LISTEN_ADDR", ":8080"),
		RedisAddr:     getenv("UNO_REDIS_ADDR", ""),
		RedisPassword: getenv("UNO_REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("UNO_REDIS_DB", 0),
		JWTSecret:     getenv("UNO_JWT_SECRET", "dev-secret-change-me"),
		LogLevel:      getenv("UNO_LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
