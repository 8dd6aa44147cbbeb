// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// PolicyPath is the path to the declarative capability/vault policy document.
	PolicyPath string

	// ClassifierMode controls how an upstream classifier block is handled,
	// "block" or "warn".
	ClassifierMode string

	// TokenTTL is the lifetime of capability tokens issued by the vault.
	TokenTTL time.Duration

	// NonceSweepInterval is how often the vault checks the used-nonce set size.
	NonceSweepInterval time.Duration
	// NonceSweepThreshold is the used-nonce set size that triggers a wholesale clear.
	// Keep this large relative to the token issue rate within one TokenTTL so a
	// cleared nonce cannot plausibly be replayed before its token expires.
	NonceSweepThreshold int

	// RateLimitEnabled indicates whether HTTP rate limiting is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of HTTP requests allowed per second per source.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for HTTP rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// ShutdownTimeout bounds graceful shutdown of the HTTP servers.
	ShutdownTimeout time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Policy document
		PolicyPath: env.GetString("POLICY_PATH", "policy.yml"),

		// Classifier handling
		ClassifierMode: env.GetString("CLASSIFIER_MODE", "block"),

		// Vault token lifetime
		TokenTTL: env.GetDuration("TOKEN_TTL_SECONDS", 300, time.Second),

		// Used-nonce set cleanup
		NonceSweepInterval:  env.GetDuration("NONCE_SWEEP_INTERVAL_SECONDS", 60, time.Second),
		NonceSweepThreshold: env.GetInt("NONCE_SWEEP_THRESHOLD", 10000),

		// Rate Limiting (HTTP transport, per source IP)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "actionguard"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// Shutdown
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 30, time.Second),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
