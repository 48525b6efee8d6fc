package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort         string
	ServerHost         string
	CORSAllowedOrigins []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Plan storage
	StoreBackend string
	StorePrefix  string
	HistoryTTL   time.Duration
	Timezone     string
	Location     *time.Location

	// Recipe search
	RecipeAPIURL      string
	RecipeAPIKey      string
	SuggestionTimeout time.Duration
	SuggestionCount   int

	// Regeneration rate limit
	RegenerateLimit  int
	RegenerateWindow time.Duration

	// Archive sinks
	S3ArchiveEnabled bool
	S3Bucket         string
	AWSRegion        string
	RabbitMQEnabled  bool
	RabbitMQURL      string
	RabbitMQExchange string

	// Logging
	LogLevel        string
	ElkEnabled      bool
	ElkURL          string
	ElkIndex        string
	LogstashEnabled bool
	LogstashURL     string
	LogstashType    string
}

// LoadConfig creates a new Config instance from config.yml, environment variables and secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	if env.LoadsDotEnv() {
		// A missing .env file is fine; real environment variables still apply.
		_ = godotenv.Load()
	}

	v, err := newViper()
	if err != nil {
		return nil, err
	}

	cfg := fromViper(v)

	// Load sensitive values based on environment
	switch env {
	case CI:
		if err := loadCIConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load CI configuration: %w", err)
		}
	case Development, Test, Production:
		loadSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if cfg.RecipeAPIKey == "" {
		if path := v.GetString("recipe.api_key_file"); path != "" {
			if data, err := os.ReadFile(path); err == nil {
				cfg.RecipeAPIKey = strings.TrimSpace(string(data))
			}
		}
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		v.AddConfigPath(dir)
	}
	setDefaults(v)

	// Environment variables override config.yml, e.g. SERVER_PORT for server.port
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("cors.allowed_origins", "*")

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.name", "nutriplan")
	v.SetDefault("db.ssl_mode", "disable")
	v.SetDefault("sqlite.path", "nutriplan.db")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("token.ttl", "24h")

	v.SetDefault("store.backend", "redis")
	v.SetDefault("store.prefix", "")
	v.SetDefault("history.ttl", "0s")
	v.SetDefault("timezone", "UTC")

	v.SetDefault("recipe.api_url", "https://api.spoonacular.com")
	v.SetDefault("suggestion.timeout", "8s")
	v.SetDefault("suggestion.count", 3)

	v.SetDefault("regenerate.limit", 5)
	v.SetDefault("regenerate.window", "1h")

	v.SetDefault("archive.s3.enabled", false)
	v.SetDefault("archive.s3.bucket", "nutriplan-daily-archive")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("rabbitmq.enabled", false)
	v.SetDefault("rabbitmq.exchange", "nutriplan.daily")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.elk.enabled", false)
	v.SetDefault("log.elk.index", "nutriplan")
	v.SetDefault("log.logstash.enabled", false)
	v.SetDefault("log.logstash.type", "nutriplan-api")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		ServerPort:         v.GetString("server.port"),
		ServerHost:         v.GetString("server.host"),
		CORSAllowedOrigins: splitList(v.GetString("cors.allowed_origins")),

		DBDriver:   v.GetString("db.driver"),
		DBHost:     v.GetString("db.host"),
		DBPort:     v.GetString("db.port"),
		DBUser:     v.GetString("db.user"),
		DBPassword: v.GetString("db.password"),
		DBName:     v.GetString("db.name"),
		DBSSLMode:  v.GetString("db.ssl_mode"),
		SQLitePath: v.GetString("sqlite.path"),

		RedisHost:     v.GetString("redis.host"),
		RedisPort:     v.GetString("redis.port"),
		RedisPassword: v.GetString("redis.password"),
		RedisDB:       v.GetInt("redis.db"),
		RedisURL:      v.GetString("redis.url"),

		JWTSecret: v.GetString("jwt.secret"),
		TokenTTL:  v.GetDuration("token.ttl"),

		StoreBackend: v.GetString("store.backend"),
		StorePrefix:  v.GetString("store.prefix"),
		HistoryTTL:   v.GetDuration("history.ttl"),
		Timezone:     v.GetString("timezone"),

		RecipeAPIURL:      v.GetString("recipe.api_url"),
		RecipeAPIKey:      v.GetString("recipe.api_key"),
		SuggestionTimeout: v.GetDuration("suggestion.timeout"),
		SuggestionCount:   v.GetInt("suggestion.count"),

		RegenerateLimit:  v.GetInt("regenerate.limit"),
		RegenerateWindow: v.GetDuration("regenerate.window"),

		S3ArchiveEnabled: v.GetBool("archive.s3.enabled"),
		S3Bucket:         v.GetString("archive.s3.bucket"),
		AWSRegion:        v.GetString("aws.region"),
		RabbitMQEnabled:  v.GetBool("rabbitmq.enabled"),
		RabbitMQURL:      v.GetString("rabbitmq.url"),
		RabbitMQExchange: v.GetString("rabbitmq.exchange"),

		LogLevel:        v.GetString("log.level"),
		ElkEnabled:      v.GetBool("log.elk.enabled"),
		ElkURL:          v.GetString("log.elk.url"),
		ElkIndex:        v.GetString("log.elk.index"),
		LogstashEnabled: v.GetBool("log.logstash.enabled"),
		LogstashURL:     v.GetString("log.logstash.url"),
		LogstashType:    v.GetString("log.logstash.type"),
	}
}

// loadCIConfig loads sensitive values for CI using ONLY GitHub Actions secrets
func loadCIConfig(cfg *Config) error {
	if pw := os.Getenv("TEST_DB_PASSWORD"); pw != "" {
		cfg.DBPassword = pw
	}
	if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
		return fmt.Errorf("TEST_DB_PASSWORD environment variable is required in CI environment")
	}
	if secret := os.Getenv("TEST_JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	}
	if pw := os.Getenv("TEST_REDIS_PASSWORD"); pw != "" {
		cfg.RedisPassword = pw
	}
	if url := os.Getenv("TEST_REDIS_URL"); url != "" {
		cfg.RedisURL = url
	}
	return nil
}

// loadSecrets overrides sensitive values with Docker secrets when they are mounted
func loadSecrets(cfg *Config) {
	overrides := map[string]*string{
		"db_user":        &cfg.DBUser,
		"db_password":    &cfg.DBPassword,
		"jwt_secret":     &cfg.JWTSecret,
		"redis_password": &cfg.RedisPassword,
		"redis_url":      &cfg.RedisURL,
		"recipe_api_key": &cfg.RecipeAPIKey,
		"rabbitmq_url":   &cfg.RabbitMQURL,
	}
	for name, field := range overrides {
		if value := readSecret(name); value != "" {
			*field = value
		}
	}
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

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
