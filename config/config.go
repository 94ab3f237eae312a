package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"social_server/models"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port        string
	Environment string

	// AWS configuration
	AWSRegion        string
	DynamoDBEndpoint string
	TableName        string
	EmailIndexName   string
	S3BucketName     string

	// Authentication
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	// Logging
	LogLevel string

	// Behaviour
	AllowSelfFollow    bool
	FeedMaxConcurrency int

	// Feature flags
	EnableMetrics      bool
	EnableSocket       bool
	CORSAllowedOrigins []string
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables and defaults without validating it.
func FromEnv() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),
		TableName:        getEnv("USERS_TABLE", getEnv("TABLE_NAME", models.DefaultTableName)),
		EmailIndexName:   getEnv("EMAIL_INDEX_NAME", models.DefaultEmailIndex),
		S3BucketName:     getEnv("S3_BUCKET_NAME", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "social_server"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 100*time.Hour),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		AllowSelfFollow:    getEnvBool("ALLOW_SELF_FOLLOW", true),
		FeedMaxConcurrency: getEnvInt("FEED_MAX_CONCURRENCY", 0),

		EnableMetrics:      getEnvBool("ENABLE_METRICS", true),
		EnableSocket:       getEnvBool("ENABLE_SOCKET", true),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.FeedMaxConcurrency < 0 {
		return fmt.Errorf("FEED_MAX_CONCURRENCY must not be negative")
	}
	if c.IsProduction() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.TableName == "" {
			return fmt.Errorf("USERS_TABLE is required")
		}
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
