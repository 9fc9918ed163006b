// Package config loads the service configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	BackendCosmic = "cosmic"
	BackendMongo  = "mongo"

	defaultCosmicURL  = "https://api.cosmicjs.com/v3"
	defaultQueue      = "issue_limit"
	defaultRateLimit  = 5
	defaultMailFrom   = "noreply@civicreporter.com"
	defaultPort       = "8080"
	defaultMongoDB    = "civicreporter"
	defaultLogLevel   = "info"
	defaultCORSOrigin = "*"
)

type Config struct {
	Port    string `validate:"required,numeric"`
	GinMode string `validate:"omitempty,oneof=debug release test"`

	StoreBackend     string `validate:"required,oneof=cosmic mongo"`
	CosmicAPIURL     string `validate:"required,url"`
	CosmicBucketSlug string `validate:"required_if=StoreBackend cosmic"`
	CosmicReadKey    string `validate:"required_if=StoreBackend cosmic"`
	CosmicWriteKey   string `validate:"required_if=StoreBackend cosmic"`
	MongoURI         string `validate:"required_if=StoreBackend mongo"`
	MongoDatabase    string `validate:"required_if=StoreBackend mongo"`

	// RedisAddress enables submission rate limiting when set.
	RedisAddress            string
	RedisPassword           string
	RedisQueueForIssueLimit string `validate:"required_with=RedisAddress"`
	ReportRateLimit         int    `validate:"gte=1"`

	// ResendAPIKey enables reporter emails when set.
	ResendAPIKey string
	MailFrom     string `validate:"required,email"`

	CORSAllowedOrigins []string `validate:"min=1"`
	LogLevel           string   `validate:"oneof=debug info warn error"`
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds and validates a Config using getenv for lookups.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	rateLimit := defaultRateLimit
	if raw := get("REPORT_RATE_LIMIT", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("REPORT_RATE_LIMIT: %w", err)
		}
		rateLimit = n
	}

	cfg := &Config{
		Port:                    get("PORT", defaultPort),
		GinMode:                 get("GIN_MODE", ""),
		StoreBackend:            strings.ToLower(get("STORE_BACKEND", BackendCosmic)),
		CosmicAPIURL:            get("COSMIC_API_URL", defaultCosmicURL),
		CosmicBucketSlug:        get("COSMIC_BUCKET_SLUG", ""),
		CosmicReadKey:           get("COSMIC_READ_KEY", ""),
		CosmicWriteKey:          get("COSMIC_WRITE_KEY", ""),
		MongoURI:                get("MONGODB_URI", ""),
		MongoDatabase:           get("MONGODB_DATABASE", defaultMongoDB),
		RedisAddress:            get("REDIS_ADDRESS", ""),
		RedisPassword:           get("REDIS_PASSWORD", ""),
		RedisQueueForIssueLimit: get("REDIS_QUEUE_FOR_ISSUE_LIMIT", defaultQueue),
		ReportRateLimit:         rateLimit,
		ResendAPIKey:            get("RESEND_API_KEY", ""),
		MailFrom:                get("MAIL_FROM", defaultMailFrom),
		CORSAllowedOrigins:      splitList(get("CORS_ALLOWED_ORIGINS", defaultCORSOrigin)),
		LogLevel:                strings.ToLower(get("LOG_LEVEL", defaultLogLevel)),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// AllowAllOrigins reports whether CORS is open to any origin.
func (c *Config) AllowAllOrigins() bool {
	for _, o := range c.CORSAllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}
