package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const defaultDevJWTSecret = "glucolink-dev-secret"

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort         string
	ServerHost         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	JWTExpiry time.Duration

	CORSAllowedOrigins []string

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string

	// Report archive (S3). Archiving is disabled when S3Bucket is empty.
	S3Bucket        string
	AWSRegion       string
	ReportURLExpiry time.Duration

	// Invitation code redemption limits, per guardian
	LinkRateLimit  int
	LinkRateWindow time.Duration
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Env: env}

	switch env {
	case CI:
		loadConfig(cfg, envOnly)
	case Development, Test, Production:
		loadConfig(cfg, secretThenEnv)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// lookupFunc resolves a setting from its env var name and docker secret name.
type lookupFunc func(envName, secretName string) string

// envOnly is used in CI where secrets are injected as environment variables.
func envOnly(envName, _ string) string {
	return os.Getenv(envName)
}

// secretThenEnv prefers a mounted docker secret and falls back to the environment.
func secretThenEnv(envName, secretName string) string {
	if secretName != "" {
		if v := readSecret(secretName); v != "" {
			return v
		}
	}
	return os.Getenv(envName)
}

func loadConfig(cfg *Config, lookup lookupFunc) {
	get := func(envName, secretName, def string) string {
		if v := lookup(envName, secretName); v != "" {
			return v
		}
		return def
	}

	cfg.ServerPort = get("SERVER_PORT", "server_port", "8080")
	cfg.ServerHost = get("SERVER_HOST", "server_host", "0.0.0.0")
	cfg.ServerReadTimeout = parseDuration(get("SERVER_READ_TIMEOUT", "", ""), 10*time.Second)
	cfg.ServerWriteTimeout = parseDuration(get("SERVER_WRITE_TIMEOUT", "", ""), 15*time.Second)
	cfg.ServerIdleTimeout = parseDuration(get("SERVER_IDLE_TIMEOUT", "", ""), 60*time.Second)

	defaultDriver := "postgres"
	if cfg.Env == Test {
		defaultDriver = "sqlite"
	}
	cfg.DBDriver = strings.ToLower(get("DB_DRIVER", "", defaultDriver))
	cfg.DBHost = get("DB_HOST", "db_host", "localhost")
	cfg.DBPort = get("DB_PORT", "db_port", "5432")
	cfg.DBUser = get("DB_USER", "db_user", "postgres")
	cfg.DBPassword = get("DB_PASSWORD", "db_password", "")
	cfg.DBName = get("DB_NAME", "db_name", "glucolink")
	cfg.DBSSLMode = get("DB_SSL_MODE", "db_ssl_mode", "disable")
	cfg.DBPath = get("DB_PATH", "", "glucolink.db")

	cfg.RedisHost = get("REDIS_HOST", "redis_host", "localhost")
	cfg.RedisPort = get("REDIS_PORT", "redis_port", "6379")
	cfg.RedisPassword = get("REDIS_PASSWORD", "redis_password", "")
	cfg.RedisDB = parseInt(get("REDIS_DB", "", ""), 0)
	cfg.RedisURL = get("REDIS_URL", "redis_url", "")

	jwtDefault := ""
	if cfg.Env != Production {
		jwtDefault = defaultDevJWTSecret
	}
	cfg.JWTSecret = get("JWT_SECRET", "jwt_secret", jwtDefault)
	cfg.JWTExpiry = parseDuration(get("JWT_EXPIRY", "", ""), 24*time.Hour)

	cfg.CORSAllowedOrigins = splitList(get("CORS_ALLOWED_ORIGINS", "", "http://localhost:5173"))

	cfg.LogLevel = strings.ToLower(get("LOG_LEVEL", "", "info"))
	cfg.LogFormat = strings.ToLower(get("LOG_FORMAT", "", "json"))
	cfg.LogOutput = get("LOG_OUTPUT", "", "stdout")

	cfg.S3Bucket = get("S3_BUCKET_NAME", "s3_bucket_name", "")
	cfg.AWSRegion = get("AWS_REGION", "", "us-east-1")
	cfg.ReportURLExpiry = parseDuration(get("REPORT_URL_EXPIRY", "", ""), 15*time.Minute)

	cfg.LinkRateLimit = parseInt(get("LINK_RATE_LIMIT", "", ""), 10)
	cfg.LinkRateWindow = parseDuration(get("LINK_RATE_WINDOW", "", ""), time.Hour)
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func parseDuration(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func parseInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
