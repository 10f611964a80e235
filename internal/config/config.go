// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application settings.
type Config struct {
	// HTTPAddr is the listen address (host:port)
	HTTPAddr string

	// DatabaseDSN is the PostgreSQL connection string
	DatabaseDSN string

	// JWTSecret signs access tokens
	JWTSecret string

	// JWTAccessTTL is the access token lifetime
	JWTAccessTTL time.Duration

	// LogLevel: debug, info, warn, error
	LogLevel string

	// LogDevelopment enables pretty console output
	LogDevelopment bool

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration
}

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	// .env is optional; real deployments set environment variables directly
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		DatabaseDSN:     os.Getenv("DATABASE_DSN"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTAccessTTL:    getEnvDuration("JWT_ACCESS_TTL", 15*time.Minute),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogDevelopment:  getEnvBool("LOG_DEVELOPMENT", false),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
