package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// minProductionSecretLength guards against short HMAC keys in production.
const minProductionSecretLength = 32

// ValidateConfig checks every field and reports all problems at once.
func ValidateConfig(cfg *Config) error {
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		add("SERVER_PORT", "must be numeric")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" {
			add("DB_HOST", "is required for the postgres driver")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "is required for the postgres driver")
		}
		if cfg.DBUser == "" {
			add("DB_USER", "is required for the postgres driver")
		}
		if cfg.Env == Production && cfg.DBPassword == "" {
			add("db_password", "secret is required in production")
		}
	case "sqlite":
		if cfg.Env == Production {
			add("DB_DRIVER", "sqlite is not supported in production")
		}
		if cfg.DBPath == "" {
			add("DB_PATH", "is required for the sqlite driver")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.JWTSecret == "" {
		add("jwt_secret", "is required")
	} else if cfg.Env == Production {
		if cfg.JWTSecret == defaultDevJWTSecret || len(cfg.JWTSecret) < minProductionSecretLength {
			add("jwt_secret", fmt.Sprintf("must be at least %d characters in production", minProductionSecretLength))
		}
	}
	if cfg.JWTExpiry <= 0 {
		add("JWT_EXPIRY", "must be positive")
	}

	if cfg.LinkRateLimit <= 0 {
		add("LINK_RATE_LIMIT", "must be positive")
	}
	if cfg.LinkRateWindow <= 0 {
		add("LINK_RATE_WINDOW", "must be positive")
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		add("LOG_FORMAT", "must be json or text")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		add("LOG_LEVEL", "must be one of debug, info, warn, error")
	}

	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		add("AWS_REGION", "is required when S3_BUCKET_NAME is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
