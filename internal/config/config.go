package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port        string
	CORSOrigins []string
	Env         string
	LogLevel    zerolog.Level

	// Ledger
	SeedFile string

	// Rate limiting
	RateLimitPerMinute int
	RateLimitBurst     int

	// Report archive storage
	S3           S3Config
	ExportURLTTL time.Duration

	// Scheduled archive; zero interval disables it
	ArchiveInterval time.Duration
	ArchiveFormat   string
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Enabled reports whether report archiving is configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Env:           getEnv("ENV", "development"),
		SeedFile:      getEnv("SEED_FILE", ""),
		ArchiveFormat: strings.ToLower(getEnv("ARCHIVE_FORMAT", "pdf")),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS
		},
	}

	var err error
	if cfg.LogLevel, err = zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if cfg.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 300); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getEnvInt("RATE_LIMIT_BURST", 50); err != nil {
		return nil, err
	}
	if cfg.ExportURLTTL, err = time.ParseDuration(getEnv("EXPORT_URL_TTL", "15m")); err != nil {
		return nil, fmt.Errorf("EXPORT_URL_TTL: %w", err)
	}
	if cfg.ArchiveInterval, err = time.ParseDuration(getEnv("ARCHIVE_INTERVAL", "0")); err != nil {
		return nil, fmt.Errorf("ARCHIVE_INTERVAL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	if c.ExportURLTTL <= 0 || c.ExportURLTTL > 7*24*time.Hour {
		return fmt.Errorf("EXPORT_URL_TTL must be between 0 and 7 days")
	}
	if c.S3.Enabled() && c.S3.Region == "" {
		return fmt.Errorf("S3_REGION is required when S3_BUCKET is set")
	}
	if c.ArchiveInterval < 0 {
		return fmt.Errorf("ARCHIVE_INTERVAL must not be negative")
	}
	if c.ArchiveInterval > 0 && !c.S3.Enabled() {
		return fmt.Errorf("ARCHIVE_INTERVAL requires S3_BUCKET")
	}
	if c.ArchiveFormat != "csv" && c.ArchiveFormat != "pdf" {
		return fmt.Errorf("ARCHIVE_FORMAT must be csv or pdf, got %q", c.ArchiveFormat)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
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
