package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr                     string
	DatabaseURL              string
	JWTSecret                string
	Environment              string
	RunMigrations            bool
	RunSeed                  bool
	MaxBodyBytes             int64
	RateLimitPerMinute       int
	MetricsEnabled           bool
	CORSAllowedOrigins       []string
	EmailEnabled             bool
	EmailFrom                string
	EmailReplyTo             string
	SMTPHost                 string
	SMTPPort                 int
	SMTPUser                 string
	SMTPPassword             string
	SMTPUseTLS               bool
	GeoEnabled               bool
	GeoOfficeLat             float64
	GeoOfficeLng             float64
	GeoRadiusMeters          float64
	IdempotencyTTL           time.Duration
	IdempotencySweepInterval time.Duration
	AccrualInterval          time.Duration
}

func Load() Config {
	return Config{
		Addr:                     getEnv("APP_ADDR", ":8080"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		JWTSecret:                getEnv("JWT_SECRET", ""),
		Environment:              getEnv("APP_ENV", "development"),
		RunMigrations:            getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:                  getEnvBool("RUN_SEED", true),
		MaxBodyBytes:             int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:       getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		MetricsEnabled:           getEnvBool("METRICS_ENABLED", true),
		CORSAllowedOrigins:       getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		EmailEnabled:             getEnvBool("EMAIL_ENABLED", false),
		EmailFrom:                getEnv("EMAIL_FROM", "no-reply@example.com"),
		EmailReplyTo:             getEnv("EMAIL_REPLY_TO", "hr@example.com"),
		SMTPHost:                 getEnv("SMTP_HOST", ""),
		SMTPPort:                 getEnvInt("SMTP_PORT", 587),
		SMTPUser:                 getEnv("SMTP_USER", ""),
		SMTPPassword:             getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:               getEnvBool("SMTP_USE_TLS", true),
		GeoEnabled:               getEnvBool("ENABLE_GEO_VALIDATION", false),
		GeoOfficeLat:             getEnvFloat("GEO_OFFICE_LAT", -33.8688),
		GeoOfficeLng:             getEnvFloat("GEO_OFFICE_LNG", 151.2093),
		GeoRadiusMeters:          getEnvFloat("GEO_RADIUS_METERS", 500),
		IdempotencyTTL:           getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		IdempotencySweepInterval: getEnvDuration("IDEMPOTENCY_SWEEP_INTERVAL", time.Hour),
		AccrualInterval:          getEnvDuration("ACCRUAL_INTERVAL", 24*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	if c.GeoEnabled && c.GeoRadiusMeters <= 0 {
		return fmt.Errorf("GEO_RADIUS_METERS must be positive when geo validation is enabled")
	}
	if c.IdempotencyTTL <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL must be positive")
	}
	return nil
}
