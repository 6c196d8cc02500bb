package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Auth   AuthConfig
}

// AppConfig controls process level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Version               string
	RequestTimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Output string
}

// AuthConfig defines token parameters.
type AuthConfig struct {
	JWTSecret        string
	TokenExpiresInMs int64
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	expiresIn, err := strconv.ParseInt(getEnv("AUTH_TOKEN_EXPIRES_IN_MS", "7200000"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_TOKEN_EXPIRES_IN_MS: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "token-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Output: getEnv("LOG_OUTPUT", "stderr"),
		},
		Auth: AuthConfig{
			JWTSecret:        os.Getenv("AUTH_JWT_SECRET"),
			TokenExpiresInMs: expiresIn,
		},
	}

	return cfg, nil
}

// Validate checks the values that must be present before tokens can be issued.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}
	if c.Auth.TokenExpiresInMs <= 0 {
		return fmt.Errorf("AUTH_TOKEN_EXPIRES_IN_MS must be positive, got %d", c.Auth.TokenExpiresInMs)
	}
	return nil
}

// TokenExpiresIn returns the default token lifetime.
func (a AuthConfig) TokenExpiresIn() time.Duration {
	return time.Duration(a.TokenExpiresInMs) * time.Millisecond
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
