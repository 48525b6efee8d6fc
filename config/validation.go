package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	var errs ValidationErrors

	require := func(field, value string) {
		if value == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}

	require("server.port", cfg.ServerPort)

	switch cfg.DBDriver {
	case "postgres":
		require("db.host", cfg.DBHost)
		require("db.port", cfg.DBPort)
		require("db.name", cfg.DBName)
		require("db.user", cfg.DBUser)
		if env.RequiresCredentials() {
			require("db.password", cfg.DBPassword)
		}
	case "sqlite":
		require("sqlite.path", cfg.SQLitePath)
	default:
		errs = append(errs, ValidationError{Field: "db.driver", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	switch cfg.StoreBackend {
	case "redis":
		if cfg.RedisURL == "" {
			require("redis.host", cfg.RedisHost)
			require("redis.port", cfg.RedisPort)
		}
	case "sql":
	default:
		errs = append(errs, ValidationError{Field: "store.backend", Message: fmt.Sprintf("unsupported backend %q", cfg.StoreBackend)})
	}

	// Sensitive values
	if env == CI {
		if cfg.JWTSecret == "" {
			errs = append(errs, ValidationError{Field: "jwt.secret", Message: "TEST_JWT_SECRET environment variable is required in CI environment"})
		}
	} else {
		require("jwt.secret", cfg.JWTSecret)
	}

	if cfg.SuggestionCount <= 0 {
		errs = append(errs, ValidationError{Field: "suggestion.count", Message: "must be positive"})
	}
	if cfg.SuggestionTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "suggestion.timeout", Message: "must be positive"})
	}
	if cfg.HistoryTTL < 0 {
		errs = append(errs, ValidationError{Field: "history.ttl", Message: "must not be negative"})
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		errs = append(errs, ValidationError{Field: "timezone", Message: err.Error()})
	}

	if cfg.S3ArchiveEnabled {
		require("archive.s3.bucket", cfg.S3Bucket)
	}
	if cfg.RabbitMQEnabled {
		require("rabbitmq.url", cfg.RabbitMQURL)
		require("rabbitmq.exchange", cfg.RabbitMQExchange)
	}
	if cfg.ElkEnabled {
		require("log.elk.url", cfg.ElkURL)
	}
	if cfg.LogstashEnabled {
		require("log.logstash.url", cfg.LogstashURL)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
